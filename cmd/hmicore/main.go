package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/fruitline/hmicore/internal/config"
	"github.com/fruitline/hmicore/internal/health"
	"github.com/fruitline/hmicore/internal/httpserver"
	"github.com/fruitline/hmicore/internal/logging"
	"github.com/fruitline/hmicore/internal/metrics"
	"github.com/fruitline/hmicore/internal/netcore/commandserver"
	"github.com/fruitline/hmicore/internal/netcore/peerclient"
	"github.com/fruitline/hmicore/internal/netcore/plcserver"
	"github.com/fruitline/hmicore/internal/netcore/shared"
	"github.com/fruitline/hmicore/internal/netcore/udpendpoint"
	"github.com/fruitline/hmicore/internal/wire"
)

func main() {
	// 1) 加载配置
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 命令长度表覆盖（启动期一次性，不允许在服务接受连接后调用）
	if cfg.Command.CommandOverlayPath != "" {
		overlay, err := wire.LoadCommandOverlay(cfg.Command.CommandOverlayPath)
		if err != nil {
			log.Fatal("load command overlay", zap.Error(err))
		}
		overlay.Apply()
		log.Info("command overlay applied", zap.String("path", cfg.Command.CommandOverlayPath))
	}

	// 4) 指标注册与处理器
	reg := metrics.NewRegistry()
	metricsHandler := metrics.Handler(reg)
	appMetrics := metrics.NewAppMetrics(reg)

	ready := health.New()

	// 5) UDP 端点
	udpEP, err := udpendpoint.New(log)
	if err != nil {
		log.Fatal("udp endpoint init", zap.Error(err))
	}
	if err := udpEP.Start(cfg.UDP.BindIP, cfg.UDP.BindPort, func(srcID, cmdID int32, data []byte) {
		appMetrics.UDPDatagramsReceived.Inc()
		log.Debug("udp datagram received", zap.Int("bytes", len(data)))
	}); err != nil {
		log.Fatal("udp endpoint start", zap.Error(err))
	}
	ready.SetUDPReady(true)

	// 6) PLC 直通通道
	plcSrv := plcserver.New(log, plcserver.Callbacks{
		OnDataReceived: func(clientKey string, data []byte) {
			appMetrics.PLCBytesReceived.Add(float64(len(data)))
			log.Debug("plc data received", zap.String("client", clientKey), zap.Int("bytes", len(data)))
		},
		OnError: func(err error) {
			appMetrics.PLCBroadcastSent.WithLabelValues("error").Inc()
			log.Warn("plc server error", zap.Error(err))
		},
	})
	if err := plcSrv.Start(cfg.PLC.BindIP, cfg.PLC.BindPort); err != nil {
		log.Fatal("plc server start", zap.Error(err))
	}
	ready.SetPLCReady(true)

	plcGaugeTicker := time.NewTicker(5 * time.Second)
	defer plcGaugeTicker.Stop()
	go func() {
		for range plcGaugeTicker.C {
			appMetrics.PLCClientsGauge.Set(float64(plcSrv.ClientCount()))
		}
	}()

	// 7) 对称出站客户端（可选：未配置远端地址时不启动）
	var peer *peerclient.Client
	if cfg.Peer.RemoteIP != "" {
		peer = peerclient.New(log, peerclient.Callbacks{
			OnConnected: func() {
				appMetrics.PeerConnectedGauge.Set(1)
				ready.SetPeerReady(true)
			},
			OnDataReceived: func(data []byte) {
				appMetrics.PeerBytesReceived.Add(float64(len(data)))
			},
			OnDisconnected: func() {
				appMetrics.PeerConnectedGauge.Set(0)
				ready.SetPeerReady(false)
			},
			OnError: func(err error) {
				log.Warn("peer client error", zap.Error(err))
			},
		})
		peer.SetCircuitBreaker(shared.NewCircuitBreaker(5, 30*time.Second))
		if err := peer.Connect(cfg.Peer.RemoteIP, cfg.Peer.RemotePort, cfg.Peer.LocalIP); err != nil {
			log.Warn("peer client connect", zap.Error(err))
		}
	} else {
		ready.SetPeerReady(true)
	}

	// 8) 命令协议服务端
	var connLimiter *shared.ConnectionLimiter
	var rateLimiter *shared.RateLimiter
	if cfg.Command.MaxConcurrentFrames > 0 {
		connLimiter = shared.NewConnectionLimiter(cfg.Command.MaxConcurrentFrames, 5*time.Second)
	}
	if cfg.Command.AcceptRatePerSecond > 0 {
		rateLimiter = shared.NewRateLimiter(cfg.Command.AcceptRatePerSecond, cfg.Command.AcceptBurst)
	}

	cmdSrv := commandserver.New(log, commandserver.Callbacks{
		SetBuffer: func(head commandserver.CommandHead, body []byte) {
			appMetrics.CommandFrameTotal.WithLabelValues(strconv.Itoa(int(head.CmdID))).Inc()
			log.Debug("command frame delivered",
				zap.Int32("src", head.SrcID), zap.Int32("dest", head.DestID),
				zap.Int32("cmd", head.CmdID), zap.Int("bytes", len(body)))
		},
		OnError: func(err error) {
			switch {
			case errors.Is(err, commandserver.ErrConnLimitExceeded), errors.Is(err, commandserver.ErrRateLimitExceeded):
				appMetrics.CommandConnRejected.Inc()
			default:
				appMetrics.CommandFrameErrors.WithLabelValues("frame").Inc()
			}
			log.Warn("command frame error", zap.Error(err))
		},
	}, commandserver.Config{
		DstID:                 cfg.Command.DstID,
		RunOnce:               cfg.Command.RunOnce,
		MaxPendingConnections: cfg.Command.MaxPendingConnections,
		ConnLimiter:           connLimiter,
		RateLimiter:           rateLimiter,
	})
	if err := cmdSrv.Start(cfg.Command.BindIP, cfg.Command.BindPort); err != nil {
		log.Fatal("command server start", zap.Error(err))
	}
	ready.SetCommandReady(true)

	// 9) 健康检查聚合
	checkers := []health.Checker{
		health.NewUDPChecker(udpEP),
		health.NewPLCChecker(plcSrv),
		health.NewCommandChecker(connLimiter, rateLimiter),
	}
	if peer != nil {
		checkers = append(checkers, health.NewPeerChecker(peer, cfg.Peer.RemoteIP, cfg.Peer.RemotePort))
	}
	aggregator := health.NewAggregator(checkers...)

	// 10) HTTP 管理面
	httpSrv := httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler, ready.Ready, aggregator)
	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()

	// 11) 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	_ = cmdSrv.Destroy()
	_ = plcSrv.Destroy()
	_ = udpEP.Stop()
	_ = udpEP.Close()
	if peer != nil {
		peer.Destroy()
	}
}
