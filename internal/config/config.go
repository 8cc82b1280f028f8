package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPConfig 管理接口（健康检查/指标）配置
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// UDPConfig UDP 收发端点配置
type UDPConfig struct {
	BindIP   string `mapstructure:"bindIp"`
	BindPort int    `mapstructure:"bindPort"`
}

// PLCConfig PLC 直通通道（多客户端 fan-out）配置
type PLCConfig struct {
	BindIP   string `mapstructure:"bindIp"`
	BindPort int    `mapstructure:"bindPort"`
}

// PeerConfig 对称出站 TCP 客户端配置
type PeerConfig struct {
	RemoteIP   string `mapstructure:"remoteIp"`
	RemotePort int    `mapstructure:"remotePort"`
	LocalIP    string `mapstructure:"localIp"`
}

// CommandConfig 命令协议服务端配置
type CommandConfig struct {
	BindIP                string `mapstructure:"bindIp"`
	BindPort              int    `mapstructure:"bindPort"`
	DstID                 int32  `mapstructure:"dstId"`
	RunOnce               bool   `mapstructure:"runOnce"`
	MaxPendingConnections int    `mapstructure:"maxPendingConnections"`
	MaxConcurrentFrames   int    `mapstructure:"maxConcurrentFrames"`
	AcceptRatePerSecond   int    `mapstructure:"acceptRatePerSecond"`
	AcceptBurst           int    `mapstructure:"acceptBurst"`
	CommandOverlayPath    string `mapstructure:"commandOverlayPath"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	UDP     UDPConfig     `mapstructure:"udp"`
	PLC     PLCConfig     `mapstructure:"plc"`
	Peer    PeerConfig    `mapstructure:"peer"`
	Command CommandConfig `mapstructure:"command"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则尝试从环境变量 HMICORE_CONFIG 读取；否则依次在 . 与 ./configs 下查找
// example.yaml，均未找到时仅使用代码内默认值。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv("HMICORE_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("example")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("IOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if fmt.Sprintf("%T", err) != fmt.Sprintf("%T", notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hmicore")
	v.SetDefault("app.env", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("udp.bindIp", "0.0.0.0")
	v.SetDefault("udp.bindPort", 9100)

	v.SetDefault("plc.bindIp", "0.0.0.0")
	v.SetDefault("plc.bindPort", 9200)

	v.SetDefault("peer.remoteIp", "")
	v.SetDefault("peer.remotePort", 0)
	v.SetDefault("peer.localIp", "")

	v.SetDefault("command.bindIp", "0.0.0.0")
	v.SetDefault("command.bindPort", 9300)
	v.SetDefault("command.dstId", 0)
	v.SetDefault("command.runOnce", false)
	v.SetDefault("command.maxPendingConnections", 1)
	v.SetDefault("command.maxConcurrentFrames", 64)
	v.SetDefault("command.acceptRatePerSecond", 200)
	v.SetDefault("command.acceptBurst", 400)
	v.SetDefault("command.commandOverlayPath", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/hmicore.log")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")
}
