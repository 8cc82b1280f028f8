package health

import (
	"context"
	"fmt"
	"time"

	"github.com/fruitline/hmicore/internal/netcore/peerclient"
	"github.com/fruitline/hmicore/internal/netcore/plcserver"
	"github.com/fruitline/hmicore/internal/netcore/shared"
	"github.com/fruitline/hmicore/internal/netcore/udpendpoint"
)

// CommandChecker reports on the command-protocol server's accept-path
// guards: the connection limiter and rate limiter configured on it, if
// any.
type CommandChecker struct {
	connLimiter *shared.ConnectionLimiter
	rateLimiter *shared.RateLimiter
}

// NewCommandChecker creates a checker for the command server's optional
// resource-protection gates. Either limiter may be nil.
func NewCommandChecker(connLimiter *shared.ConnectionLimiter, rateLimiter *shared.RateLimiter) *CommandChecker {
	return &CommandChecker{connLimiter: connLimiter, rateLimiter: rateLimiter}
}

func (c *CommandChecker) Name() string { return "command" }

func (c *CommandChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	if c.connLimiter == nil {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "no connection limiter configured",
			Latency: time.Since(start),
		}
	}

	stats := c.connLimiter.Stats()
	status := StatusHealthy
	message := "ok"

	if stats.Utilization > 0.8 {
		status = StatusDegraded
		message = "high connection usage"
	}
	if stats.Utilization > 0.95 {
		status = StatusUnhealthy
		message = "connection limit near exhausted"
	}

	details := map[string]interface{}{
		"active_connections": stats.ActiveConnections,
		"max_connections":    stats.MaxConnections,
		"utilization":        fmt.Sprintf("%.1f%%", stats.Utilization*100),
		"rejected_total":     stats.RejectedTotal,
	}
	if c.rateLimiter != nil {
		rs := c.rateLimiter.Stats()
		details["rate_rejected_total"] = rs.RejectedTotal
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: details,
		Latency: time.Since(start),
	}
}

// PLCChecker reports on the PLC fan-out channel's connected client count.
type PLCChecker struct {
	server *plcserver.Server
}

func NewPLCChecker(server *plcserver.Server) *PLCChecker {
	return &PLCChecker{server: server}
}

func (c *PLCChecker) Name() string { return "plc" }

func (c *PLCChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	return CheckResult{
		Status: StatusHealthy,
		Details: map[string]interface{}{
			"connected_clients": c.server.ClientCount(),
		},
		Latency: time.Since(start),
	}
}

// UDPChecker reports on the UDP endpoint's bound receive loop.
type UDPChecker struct {
	endpoint *udpendpoint.Endpoint
}

func NewUDPChecker(endpoint *udpendpoint.Endpoint) *UDPChecker {
	return &UDPChecker{endpoint: endpoint}
}

func (c *UDPChecker) Name() string { return "udp" }

func (c *UDPChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	status := StatusHealthy
	message := "ok"
	if !c.endpoint.Running() {
		status = StatusUnhealthy
		message = "receive loop not bound"
	}
	return CheckResult{
		Status:  status,
		Message: message,
		Details: map[string]interface{}{"bound": c.endpoint.Running()},
		Latency: time.Since(start),
	}
}

// PeerChecker reports on the symmetric outbound peer connection: whether
// it is currently connected, and, when not, whether the configured remote
// is even reachable (shared.CanConnect) so an operator can tell a
// down-peer from a misconfigured address. Also surfaces the attached
// circuit breaker's state, if any.
type PeerChecker struct {
	client     *peerclient.Client
	remoteIP   string
	remotePort int
}

func NewPeerChecker(client *peerclient.Client, remoteIP string, remotePort int) *PeerChecker {
	return &PeerChecker{client: client, remoteIP: remoteIP, remotePort: remotePort}
}

func (c *PeerChecker) Name() string { return "peer" }

func (c *PeerChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	connected := c.client.IsConnected()
	status := StatusHealthy
	message := "ok"
	details := map[string]interface{}{"connected": connected}

	if !connected {
		reachable := shared.CanConnect(c.remoteIP, c.remotePort, 2*time.Second)
		details["remote_reachable"] = reachable
		if reachable {
			status = StatusDegraded
			message = "disconnected, remote is reachable"
		} else {
			status = StatusUnhealthy
			message = "disconnected, remote unreachable"
		}
	}

	if b := c.client.CircuitBreaker(); b != nil {
		stats := b.Stats()
		details["circuit_state"] = stats.State
		details["circuit_trip_count"] = stats.TripCount
		if stats.State == shared.StateOpen.String() {
			status = StatusUnhealthy
			message = fmt.Sprintf("circuit breaker open (%d trips)", stats.TripCount)
		}
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: details,
		Latency: time.Since(start),
	}
}
