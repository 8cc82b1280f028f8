package health

import "sync/atomic"

// Readiness aggregates per-endpoint readiness flags for the process's
// four network endpoints.
type Readiness struct {
	udpReady     atomic.Bool
	plcReady     atomic.Bool
	peerReady    atomic.Bool
	commandReady atomic.Bool
}

func New() *Readiness { return &Readiness{} }

func (r *Readiness) SetUDPReady(v bool)     { r.udpReady.Store(v) }
func (r *Readiness) SetPLCReady(v bool)     { r.plcReady.Store(v) }
func (r *Readiness) SetPeerReady(v bool)    { r.peerReady.Store(v) }
func (r *Readiness) SetCommandReady(v bool) { r.commandReady.Store(v) }

// Ready 总体就绪：UDP、PLC、Command 三者均为 true（Peer 标志不参与判断）
func (r *Readiness) Ready() bool {
	return r.udpReady.Load() && r.plcReady.Load() && r.commandReady.Load()
}
