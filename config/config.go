package config

import (
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/utrading/utrading-trade-ledger/pkg/logger"
)

type Ledger struct {
	HealthServerAddr    string `toml:"health_server_addr"`
	ConditionalScanCron string `toml:"conditional_scan_cron"` // 条件单扫描周期
	NodeWallet          string `toml:"node_wallet"`           // 本节点签发命令的 signer
}

type Storage struct {
	Driver             string   `toml:"driver"` // mysql / sqlite
	DSN                string   `toml:"dsn"`
	SlaveAddr          []string `toml:"slave_addr"`
	MaxIdleConnections int      `toml:"max_idle_connections"`
	MaxOpenConnections int      `toml:"max_open_connections"`
	SetConnMaxLifetime int      `toml:"set_conn_max_lifetime"`
	SetConnMaxIdleTime int      `toml:"set_conn_max_idle_time"`
	ProxyEnabled       bool     `toml:"proxy_enabled"`
	ProxyAddr          string   `toml:"proxy_addr"`
}

type NATS struct {
	Endpoint       string `toml:"endpoint"`
	CommandSubject string `toml:"command_subject"`
}

type Feed struct {
	Enabled      bool          `toml:"enabled"`
	URL          string        `toml:"url"`
	Tokens       []string      `toml:"tokens"`
	DedupTTL     time.Duration `toml:"dedup_ttl"`
	WorkerPool   int           `toml:"worker_pool"`
	PingInterval time.Duration `toml:"ping_interval"`
}

type Cleaner struct {
	Interval  time.Duration `toml:"interval"`
	Retention time.Duration `toml:"retention"` // 事件归档保留时长
}

type Logger struct {
	Level      string `toml:"level"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
	Console    bool   `toml:"console"`
}

type Config struct {
	Ledger  Ledger  `toml:"ledger"`
	Storage Storage `toml:"storage"`
	NATS    NATS    `toml:"nats"`
	Feed    Feed    `toml:"feed"`
	Cleaner Cleaner `toml:"cleaner"`
	Logger  Logger  `toml:"log"`
}

var (
	cfg         *Config
	cfgPath     string
	cfgLock     sync.RWMutex
	lastModTime time.Time
	stopChan    chan struct{}
)

func Default() *Config {
	return &Config{
		Ledger: Ledger{
			HealthServerAddr:    "0.0.0.0:16900",
			ConditionalScanCron: "@every 30s",
			NodeWallet:          "node-local",
		},
		Storage: Storage{
			Driver:             "sqlite",
			DSN:                "trade_ledger.db",
			SlaveAddr:          []string{},
			MaxIdleConnections: 16,
			MaxOpenConnections: 64,
			SetConnMaxLifetime: 7200,
			SetConnMaxIdleTime: 3600,
			ProxyEnabled:       false,
			ProxyAddr:          "127.0.0.1:7890",
		},
		NATS: NATS{
			Endpoint:       "nats://localhost:4222",
			CommandSubject: "trade_ledger.command",
		},
		Feed: Feed{
			Enabled:      false,
			URL:          "wss://api.hyperliquid.xyz/ws",
			Tokens:       []string{},
			DedupTTL:     30 * time.Second,
			WorkerPool:   10,
			PingInterval: 30 * time.Second,
		},
		Cleaner: Cleaner{
			Interval:  time.Hour,
			Retention: 7 * 24 * time.Hour,
		},
		Logger: Logger{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 60,
			MaxAge:     7,
			Compress:   false,
			Console:    false,
		},
	}
}

func Load(path string) error {
	c := Default()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	cfgLock.Lock()
	defer cfgLock.Unlock()
	cfg = c
	cfgPath = path
	lastModTime = info.ModTime()

	return nil
}

func Get() *Config {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	return cfg
}

// Init 初始化配置并启动定期重载（默认10秒）
func Init(path string) error {
	return InitWithInterval(path, 10*time.Second)
}

// InitWithInterval 初始化配置并指定重载间隔
func InitWithInterval(path string, interval time.Duration) error {
	if err := Load(path); err != nil {
		return err
	}

	stopChan = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				reloadIfNeeded()
			case <-stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop 停止配置重载
func Stop() {
	if stopChan != nil {
		close(stopChan)
	}
}

// reloadIfNeeded 仅在文件修改时重载
func reloadIfNeeded() {
	cfgLock.RLock()
	path := cfgPath
	lastMod := lastModTime
	cfgLock.RUnlock()

	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Error().Err(err).Msg("config stat failed")
		return
	}

	if info.ModTime().After(lastMod) {
		if err = Load(path); err != nil {
			logger.Error().Err(err).Msg("config reload failed")
		} else {
			logger.Info().Msg("config reloaded")
		}
	}
}
