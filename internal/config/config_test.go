package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "hmicore", cfg.App.Name)
	assert.Equal(t, 9100, cfg.UDP.BindPort)
	assert.Equal(t, 9200, cfg.PLC.BindPort)
	assert.Equal(t, 9300, cfg.Command.BindPort)
	assert.False(t, cfg.Command.RunOnce)
	assert.Equal(t, 64, cfg.Command.MaxConcurrentFrames)
	assert.True(t, cfg.Metrics.Enable)
}

func TestLoadEmptyPeerConfigByDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Peer.RemoteIP, "peer connection should be opt-in")
}
