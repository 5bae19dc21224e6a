package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/utrading/utrading-trade-ledger/config"
	"github.com/utrading/utrading-trade-ledger/internal/cleaner"
	"github.com/utrading/utrading-trade-ledger/internal/dal"
	"github.com/utrading/utrading-trade-ledger/internal/dao"
	"github.com/utrading/utrading-trade-ledger/internal/feed"
	"github.com/utrading/utrading-trade-ledger/internal/machine"
	"github.com/utrading/utrading-trade-ledger/internal/monitor"
	"github.com/utrading/utrading-trade-ledger/internal/nats"
	"github.com/utrading/utrading-trade-ledger/internal/query"
	"github.com/utrading/utrading-trade-ledger/internal/scheduler"
	"github.com/utrading/utrading-trade-ledger/internal/store"
	"github.com/utrading/utrading-trade-ledger/pkg/logger"
	"github.com/utrading/utrading-trade-ledger/pkg/sigproc"
)

// ledgerState 供健康检查展示账本概况
// 存储不加锁，读取经消费器的 Inspect 与命令执行串行化
type ledgerState struct {
	st       *store.Store
	q        *query.Service
	consumer *nats.Consumer
}

func (s *ledgerState) GetStats() map[string]any {
	var stats map[string]any
	s.consumer.Inspect(func() {
		stats = s.st.Stats()
		stats["analytics"] = s.q.Analytics()
	})
	if stats == nil {
		// 消费器已停止，返回空概况
		stats = map[string]any{}
	}
	return stats
}

func (s *ledgerState) Healthy() bool {
	return s.consumer.Healthy()
}

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "cfg.toml", "config file path")
	flag.Parse()

	// 加载配置
	if err := config.Init(configFile); err != nil {
		panic(err)
	}
	cfg := config.Get()

	// 初始化日志
	if err := initLogger(cfg); err != nil {
		panic("init logger failed: " + err.Error())
	}
	defer logger.Close()

	logger.Info().Msg("trade_ledger service starting...")

	// 初始化指标
	monitor.InitMetrics()

	// 初始化数据库
	dal.InitDB(cfg.Storage)

	// 自动迁移表结构
	dal.AutoMigrate()

	// 初始化 DAO
	dao.InitDAO(dal.DB())

	// 恢复账本状态
	persister := dao.NewPersister()
	st := store.New()
	if err := st.Load(persister); err != nil {
		logger.Fatal().Err(err).Msg("load ledger state failed")
	}

	m := machine.New(st)
	querySvc := query.New(m)
	logger.Info().Interface("entities", st.Stats()).Msg("ledger state restored")

	// 创建事件归档清理器
	archiveCleaner := cleaner.NewCleaner(cfg.Cleaner)
	archiveCleaner.Start()

	// 初始化 NATS
	publisher, err := nats.NewPublisher(cfg.NATS.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("init nats publisher failed")
	}
	defer publisher.Close()

	// 启动命令消费（单协程串行执行）
	consumer := nats.NewConsumer(m, persister, publisher, cfg.NATS.CommandSubject)
	if err = consumer.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start command consumer failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 启动行情采集（可选）
	var marketFeed *feed.Feed
	var feedRef monitor.FeedRef
	if cfg.Feed.Enabled {
		marketFeed = feed.New(cfg.Feed, cfg.Ledger.NodeWallet, consumer)
		if err = marketFeed.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("start market feed failed")
		}
		feedRef = marketFeed
	}

	// 启动条件单扫描调度
	sched := scheduler.New(cfg.Ledger.ConditionalScanCron, cfg.Ledger.NodeWallet, consumer)
	if err = sched.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler failed")
	}

	// 初始化健康检查服务器
	healthServer := monitor.NewHealthServer(
		cfg.Ledger.HealthServerAddr,
		&ledgerState{st: st, q: querySvc, consumer: consumer},
		feedRef,
		publisher,
	)
	if err = healthServer.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("start health server failed")
	}
	defer healthServer.Stop(context.Background())

	logger.Info().
		Str("nats", cfg.NATS.Endpoint).
		Str("subject", cfg.NATS.CommandSubject).
		Str("health_addr", cfg.Ledger.HealthServerAddr).
		Msg("trade_ledger service started successfully")

	// 优雅关闭
	sigproc.GracefulShutdown(func(sig os.Signal) {
		logger.Info().Str("signal", sig.String()).Msg("shutting down...")

		// 停止行情采集和定时扫描，不再产生新命令
		if marketFeed != nil {
			marketFeed.Stop()
		}
		sched.Stop()

		// 排空命令队列后停止消费
		consumer.Stop()

		// 停止归档清理器
		archiveCleaner.Stop()

		cancel()

		// 关闭健康检查服务器
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		healthServer.Stop(shutdownCtx)

		// 关闭配置重载
		config.Stop()

		// 关闭数据库
		dal.CloseDB()

		logger.Info().Msg("trade_ledger service stopped")
	})

	<-ctx.Done()
}

func initLogger(cfg *config.Config) error {
	return logger.NewBuilder().
		SetMaxSize(cfg.Logger.MaxSize).
		SetMaxBackups(cfg.Logger.MaxBackups).
		SetMaxAge(cfg.Logger.MaxAge).
		SetLevel(cfg.Logger.Level).
		EnableCompression(cfg.Logger.Compress).
		EnableConsoleOutput(cfg.Logger.Console).
		Build()
}
