package feed

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/utrading/utrading-trade-ledger/config"
	"github.com/utrading/utrading-trade-ledger/internal/cache"
	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/ledger"
	"github.com/utrading/utrading-trade-ledger/internal/monitor"
	"github.com/utrading/utrading-trade-ledger/pkg/goplus"
	"github.com/utrading/utrading-trade-ledger/pkg/logger"
)

// CommandSubmitter 命令提交接口，由 NATS 消费器实现
type CommandSubmitter interface {
	Submit(cmd *command.Command) error
}

// Feed 行情采集器
// 订阅外部行情流，把配置内代币的价格与成交量变化转成观察命令注入账本；
// 触发判定只读账本内的观察记录，行情源本身不参与状态机
type Feed struct {
	cfg       config.Feed
	signer    string
	client    *Client
	submitter CommandSubmitter
	dedup     *cache.DedupCache
	ticks     *cache.TickCache
	pool      *ants.Pool
	tokens    map[string]struct{}

	reconnecting atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
}

// New 创建行情采集器
func New(cfg config.Feed, signer string, submitter CommandSubmitter) *Feed {
	poolSize := cfg.WorkerPool
	if poolSize <= 0 {
		poolSize = 10
	}
	pool, _ := ants.NewPool(poolSize)

	tokens := make(map[string]struct{}, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		tokens[t] = struct{}{}
	}

	return &Feed{
		cfg:       cfg,
		signer:    signer,
		submitter: submitter,
		dedup:     cache.NewDedupCache(cfg.DedupTTL),
		ticks:     cache.NewTickCache(),
		pool:      pool,
		tokens:    tokens,
	}
}

// Start 连接行情源并订阅
func (f *Feed) Start(ctx context.Context) error {
	f.ctx, f.cancel = context.WithCancel(ctx)

	if err := f.connect(); err != nil {
		return err
	}

	monitor.GetMetrics().SetFeedConnected(true)
	logger.Info().Str("url", f.cfg.URL).Int("tokens", len(f.tokens)).Msg("feed started")
	return nil
}

func (f *Feed) connect() error {
	client := NewClient(f.cfg.URL, f.cfg.PingInterval)
	client.SetMessageHandler(f.handleMessage)
	client.SetDisconnectCallback(f.onDisconnect)

	if err := client.Connect(f.ctx); err != nil {
		return err
	}

	// 全市场中间价 + 各代币资产上下文（成交量）
	if err := client.Subscribe(map[string]any{"type": "allMids"}); err != nil {
		return err
	}
	for token := range f.tokens {
		if err := client.Subscribe(map[string]any{"type": "activeAssetCtx", "coin": token}); err != nil {
			return err
		}
	}

	f.client = client
	return nil
}

// onDisconnect 断线后指数退避重连
func (f *Feed) onDisconnect() {
	if f.ctx.Err() != nil {
		return
	}

	monitor.GetMetrics().SetFeedConnected(false)
	f.reconnecting.Store(true)

	goplus.Go(func() {
		backoff := time.Second
		for {
			select {
			case <-f.ctx.Done():
				return
			case <-time.After(backoff):
			}

			if err := f.connect(); err != nil {
				logger.Warn().Err(err).Dur("backoff", backoff).Msg("feed reconnect failed")
				backoff *= 2
				if backoff > time.Minute {
					backoff = time.Minute
				}
				continue
			}

			f.reconnecting.Store(false)
			monitor.GetMetrics().SetFeedConnected(true)
			logger.Info().Msg("feed reconnected")
			return
		}
	})
}

// handleMessage 解析行情消息并分发
func (f *Feed) handleMessage(data []byte) {
	monitor.GetMetrics().IncFeedMessages()

	root := gjson.ParseBytes(data)
	switch root.Get("channel").String() {
	case "allMids":
		f.handleAllMids(root.Get("data.mids"))
	case "activeAssetCtx":
		f.handleAssetCtx(root.Get("data"))
	}
}

// handleAllMids 全市场中间价，仅转发配置内代币
func (f *Feed) handleAllMids(mids gjson.Result) {
	mids.ForEach(func(key, value gjson.Result) bool {
		token := key.String()
		if _, ok := f.tokens[token]; !ok {
			return true
		}
		f.observe(token, ledger.ObservationPrice, cast.ToFloat64(value.String()))
		return true
	})
}

// handleAssetCtx 单代币资产上下文，取 24h 名义成交量
func (f *Feed) handleAssetCtx(data gjson.Result) {
	token := data.Get("coin").String()
	if _, ok := f.tokens[token]; !ok {
		return
	}
	volume := cast.ToFloat64(data.Get("ctx.dayNtlVlm").String())
	f.observe(token, ledger.ObservationVolume, volume)
}

// observe 去重后把观察值转成命令提交
func (f *Feed) observe(token, kind string, value float64) {
	if value <= 0 {
		return
	}

	if f.dedup.IsSeen(token, kind, value) {
		monitor.IncCacheHit("dedup")
		monitor.GetMetrics().IncFeedDeduped()
		return
	}
	monitor.IncCacheMiss("dedup")
	f.dedup.Mark(token, kind, value)

	if kind == ledger.ObservationPrice {
		f.ticks.SetPrice(token, value)
	} else {
		f.ticks.SetVolume(token, value)
	}

	cmd := &command.Command{
		Type:      command.TypeRecordMarketObservation,
		Signer:    f.signer,
		Timestamp: uint64(time.Now().UnixMicro()),
		Payload: &command.RecordMarketObservation{
			Token: token,
			Kind:  kind,
			Value: value,
		},
	}

	err := f.pool.Submit(func() {
		if err := f.submitter.Submit(cmd); err != nil {
			logger.Error().Err(err).Str("token", token).Str("kind", kind).Msg("submit observation failed")
		}
	})
	if err != nil {
		// 池满降级：同步提交，只阻塞行情读取协程
		logger.Warn().Err(err).Str("token", token).Msg("feed pool full, submitting synchronously")
		if err = f.submitter.Submit(cmd); err != nil {
			logger.Error().Err(err).Str("token", token).Msg("submit observation failed (sync)")
		}
	}
}

// IsConnected 检查行情连接状态
func (f *Feed) IsConnected() bool {
	return f.client != nil && f.client.IsConnected()
}

// IsReconnecting 检查是否正在重连
func (f *Feed) IsReconnecting() bool {
	return f.reconnecting.Load()
}

// Ticks 最新行情缓存
func (f *Feed) Ticks() *cache.TickCache {
	return f.ticks
}

// Stop 停止采集
func (f *Feed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.client != nil {
		f.client.Close()
	}
	if f.pool != nil {
		f.pool.Release()
	}
}
