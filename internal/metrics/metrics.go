package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics holds the counters/gauges exercised by the four network
// endpoints (udpendpoint, plcserver, peerclient, commandserver).
type AppMetrics struct {
	UDPDatagramsReceived prometheus.Counter
	UDPBytesSent         prometheus.Counter
	UDPSendErrors        prometheus.Counter

	PLCClientsGauge  prometheus.Gauge
	PLCBytesReceived prometheus.Counter
	PLCBroadcastSent *prometheus.CounterVec // labels: result=ok|error

	PeerConnectedGauge prometheus.Gauge
	PeerReconnectTotal prometheus.Counter
	PeerBytesSent      prometheus.Counter
	PeerBytesReceived  prometheus.Counter

	CommandFrameTotal   *prometheus.CounterVec // labels: cmd_id
	CommandFrameErrors  *prometheus.CounterVec // labels: reason=frame
	CommandConnRejected prometheus.Counter
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		UDPDatagramsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udp_datagrams_received_total",
			Help: "Total UDP datagrams received by the endpoint.",
		}),
		UDPBytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udp_bytes_sent_total",
			Help: "Total bytes sent over the UDP endpoint.",
		}),
		UDPSendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udp_send_errors_total",
			Help: "Total UDP send failures.",
		}),
		PLCClientsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plc_clients_connected",
			Help: "Current number of PLC client connections held open.",
		}),
		PLCBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plc_bytes_received_total",
			Help: "Total bytes received from PLC clients.",
		}),
		PLCBroadcastSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plc_broadcast_total",
			Help: "PLC fan-out broadcasts by outcome.",
		}, []string{"result"}),
		PeerConnectedGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "peer_connected",
			Help: "1 if the outbound peer connection is currently live, else 0.",
		}),
		PeerReconnectTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peer_reconnect_total",
			Help: "Total peer reconnect attempts.",
		}),
		PeerBytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peer_bytes_sent_total",
			Help: "Total bytes sent to the peer.",
		}),
		PeerBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peer_bytes_received_total",
			Help: "Total bytes received from the peer.",
		}),
		CommandFrameTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "command_frame_total",
			Help: "Command frames delivered, by command id.",
		}, []string{"cmd_id"}),
		CommandFrameErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "command_frame_errors_total",
			Help: "Command frames aborted before delivery, by reason.",
		}, []string{"reason"}),
		CommandConnRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "command_connections_rejected_total",
			Help: "Connections rejected by the connection or rate limiter before any byte was read.",
		}),
	}
	reg.MustRegister(
		m.UDPDatagramsReceived, m.UDPBytesSent, m.UDPSendErrors,
		m.PLCClientsGauge, m.PLCBytesReceived, m.PLCBroadcastSent,
		m.PeerConnectedGauge, m.PeerReconnectTotal, m.PeerBytesSent, m.PeerBytesReceived,
		m.CommandFrameTotal, m.CommandFrameErrors, m.CommandConnRejected,
	)
	return m
}
