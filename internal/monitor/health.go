package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/utrading/utrading-trade-ledger/pkg/goplus"
	"github.com/utrading/utrading-trade-ledger/pkg/logger"
)

// HealthServer HTTP 健康检查和指标服务器
type HealthServer struct {
	addr         string
	state        StateRef
	feed         FeedRef
	publisher    PublisherRef
	server       *http.Server
	mu           sync.RWMutex
	healthy      bool
	healthySince time.Time
	startTime    time.Time
	metrics      *Metrics
}

// StateRef 账本状态引用接口
// GetStats 的实现须与命令执行串行化，处理器在 HTTP 协程里调用
type StateRef interface {
	GetStats() map[string]any
	Healthy() bool
}

// FeedRef 行情源引用接口
type FeedRef interface {
	IsConnected() bool
	IsReconnecting() bool
}

// PublisherRef NATS发布器引用接口
type PublisherRef interface {
	IsConnected() bool
}

// NewHealthServer 创建健康检查服务器
func NewHealthServer(addr string, state StateRef, feed FeedRef, publisher PublisherRef) *HealthServer {
	return &HealthServer{
		addr:         addr,
		state:        state,
		feed:         feed,
		publisher:    publisher,
		healthy:      true,
		healthySince: time.Now(),
		startTime:    time.Now(),
		metrics:      GetMetrics(),
	}
}

// Start 启动HTTP服务器
func (h *HealthServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// 健康检查端点
	mux.HandleFunc("/health", h.healthHandler)
	mux.HandleFunc("/health/ready", h.readyHandler)
	mux.HandleFunc("/health/live", h.liveHandler)

	// Prometheus指标端点
	mux.Handle("/metrics", promhttp.Handler())

	// 服务状态端点
	mux.HandleFunc("/status", h.statusHandler)

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info().Str("addr", h.addr).Msg("health server starting")

	goplus.Go(func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("health server error")
		}
	})

	logger.Info().Str("addr", h.addr).Msg("health server started")

	return nil
}

// Stop 停止服务器
func (h *HealthServer) Stop(ctx context.Context) error {
	h.mu.Lock()
	h.healthy = false
	h.mu.Unlock()

	return h.server.Shutdown(ctx)
}

// healthHandler 健康检查处理器
func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := h.getHealthStatus()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// readyHandler 就绪检查处理器
func (h *HealthServer) readyHandler(w http.ResponseWriter, r *http.Request) {
	ready := h.isReady()
	if !ready {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// liveHandler 存活检查处理器
func (h *HealthServer) liveHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// statusHandler 服务状态处理器
func (h *HealthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := h.getHealthStatus()
	if h.state != nil {
		status.Ledger = h.state.GetStats()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// isReady 检查服务是否就绪
func (h *HealthServer) isReady() bool {
	h.mu.RLock()
	healthy := h.healthy
	h.mu.RUnlock()

	if !healthy {
		return false
	}

	// 命令消费依赖 NATS 连接
	if h.publisher != nil && !h.publisher.IsConnected() {
		return false
	}

	// 落库失败期间摘除就绪，等宿主介入或下一次提交恢复
	if h.state != nil && !h.state.Healthy() {
		return false
	}

	return true
}

// getHealthStatus 获取健康状态
func (h *HealthServer) getHealthStatus() HealthStatus {
	h.mu.RLock()
	healthy := h.healthy
	healthySince := h.healthySince
	h.mu.RUnlock()

	feedConnected := false
	feedReconnecting := false
	if h.feed != nil {
		feedConnected = h.feed.IsConnected()
		feedReconnecting = h.feed.IsReconnecting()
	}

	natsConnected := false
	if h.publisher != nil {
		natsConnected = h.publisher.IsConnected()
	}

	return HealthStatus{
		Healthy:      healthy,
		HealthySince: healthySince.Format(time.RFC3339),
		Uptime:       time.Since(h.startTime).String(),
		Feed: FeedStatus{
			Connected:    feedConnected,
			Reconnecting: feedReconnecting,
		},
		NATS: NATSStatus{
			Connected: natsConnected,
		},
	}
}

// HealthStatus 健康状态结构
type HealthStatus struct {
	Healthy      bool           `json:"healthy"`
	HealthySince string         `json:"healthy_since"`
	Uptime       string         `json:"uptime"`
	Feed         FeedStatus     `json:"feed"`
	NATS         NATSStatus     `json:"nats"`
	Ledger       map[string]any `json:"ledger,omitempty"`
}

// FeedStatus 行情源连接状态
type FeedStatus struct {
	Connected    bool `json:"connected"`
	Reconnecting bool `json:"reconnecting"`
}

// NATSStatus NATS连接状态
type NATSStatus struct {
	Connected bool `json:"connected"`
}

// Metrics 指标收集器
type Metrics struct {
	commandsProcessed *prometheus.CounterVec
	commandErrors     *prometheus.CounterVec
	eventsPublished   *prometheus.CounterVec
	entitiesTotal     *prometheus.GaugeVec
	feedConnected     prometheus.Gauge
	natsConnected     prometheus.Gauge
	feedMessages      prometheus.Counter
	feedDeduped       prometheus.Counter
	// 缓存相关
	cacheHitTotal  *prometheus.CounterVec
	cacheMissTotal *prometheus.CounterVec
	// 命令队列相关
	commandQueueSize      prometheus.Gauge
	commandQueueFullTotal prometheus.Counter
	// 命令执行与落库相关
	applyDurationSecs  prometheus.Histogram
	commitDurationSecs prometheus.Histogram
	archiveBatchSize   prometheus.Histogram
	// 事件归档清理相关
	archiveRowsDeleted prometheus.Counter
}

// NewMetrics 创建指标收集器
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		commandsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_processed_total",
				Help:      "Total number of commands processed",
			},
			[]string{"type", "result"}, // applied, noop
		),
		commandErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "command_errors_total",
				Help:      "Total number of command handling errors",
			},
			[]string{"type"}, // decode, commit, publish, archive
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of domain events published to NATS",
			},
			[]string{"type"},
		),
		entitiesTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "entities_total",
				Help:      "Current number of entities per collection",
			},
			[]string{"collection"},
		),
		feedConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "feed_connected",
				Help:      "Market feed connection status (1=connected, 0=disconnected)",
			},
		),
		natsConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "nats_connected",
				Help:      "NATS connection status (1=connected, 0=disconnected)",
			},
		),
		feedMessages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_messages_total",
				Help:      "Total number of market feed messages received",
			},
		),
		feedDeduped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_deduplicated_total",
				Help:      "Total number of feed ticks suppressed by dedup",
			},
		),
		cacheHitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hit_total",
				Help:      "缓存命中总数（按缓存类型）",
			},
			[]string{"cache_type"}, // dedup, tick
		),
		cacheMissTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_miss_total",
				Help:      "缓存未命中总数（按缓存类型）",
			},
			[]string{"cache_type"}, // dedup, tick
		),
		commandQueueSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "command_queue_size",
				Help:      "命令队列当前大小",
			},
		),
		commandQueueFullTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "command_queue_full_total",
				Help:      "命令队列满事件总数",
			},
		),
		applyDurationSecs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "apply_duration_seconds",
				Help:      "单条命令状态机执行耗时分布（秒）",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		commitDurationSecs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "commit_duration_seconds",
				Help:      "单条命令落库耗时分布（秒）",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		archiveBatchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "archive_batch_size",
				Help:      "事件归档批量大小分布",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),
		archiveRowsDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archive_rows_deleted_total",
				Help:      "清理掉的过期归档事件总数",
			},
		),
	}

	prometheus.MustRegister(
		m.commandsProcessed,
		m.commandErrors,
		m.eventsPublished,
		m.entitiesTotal,
		m.feedConnected,
		m.natsConnected,
		m.feedMessages,
		m.feedDeduped,
		m.cacheHitTotal,
		m.cacheMissTotal,
		m.commandQueueSize,
		m.commandQueueFullTotal,
		m.applyDurationSecs,
		m.commitDurationSecs,
		m.archiveBatchSize,
		m.archiveRowsDeleted,
	)

	return m
}

// IncCommandProcessed 增加命令处理计数
func (m *Metrics) IncCommandProcessed(cmdType, result string) {
	m.commandsProcessed.WithLabelValues(cmdType, result).Inc()
}

// IncCommandError 增加命令处理错误计数
func (m *Metrics) IncCommandError(errType string) {
	m.commandErrors.WithLabelValues(errType).Inc()
}

// IncEventPublished 增加事件发布计数
func (m *Metrics) IncEventPublished(eventType string) {
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

// SetEntitiesTotal 设置集合实体数量
func (m *Metrics) SetEntitiesTotal(collection string, count int) {
	m.entitiesTotal.WithLabelValues(collection).Set(float64(count))
}

// SetFeedConnected 设置行情源连接状态
func (m *Metrics) SetFeedConnected(connected bool) {
	if connected {
		m.feedConnected.Set(1)
	} else {
		m.feedConnected.Set(0)
	}
}

// SetNATSConnected 设置NATS连接状态
func (m *Metrics) SetNATSConnected(connected bool) {
	if connected {
		m.natsConnected.Set(1)
	} else {
		m.natsConnected.Set(0)
	}
}

// IncFeedMessages 增加行情消息计数
func (m *Metrics) IncFeedMessages() {
	m.feedMessages.Inc()
}

// IncFeedDeduped 增加行情去重计数
func (m *Metrics) IncFeedDeduped() {
	m.feedDeduped.Inc()
}

// IncCacheHit 增加缓存命中计数
func (m *Metrics) IncCacheHit(cacheType string) {
	m.cacheHitTotal.WithLabelValues(cacheType).Inc()
}

// IncCacheMiss 增加缓存未命中计数
func (m *Metrics) IncCacheMiss(cacheType string) {
	m.cacheMissTotal.WithLabelValues(cacheType).Inc()
}

// SetCommandQueueSize 设置命令队列大小
func (m *Metrics) SetCommandQueueSize(size int) {
	m.commandQueueSize.Set(float64(size))
}

// IncCommandQueueFull 增加命令队列满事件计数
func (m *Metrics) IncCommandQueueFull() {
	m.commandQueueFullTotal.Inc()
}

// ObserveApplyDuration 观察状态机执行耗时
func (m *Metrics) ObserveApplyDuration(duration float64) {
	m.applyDurationSecs.Observe(duration)
}

// ObserveCommitDuration 观察落库耗时
func (m *Metrics) ObserveCommitDuration(duration float64) {
	m.commitDurationSecs.Observe(duration)
}

// ObserveArchiveBatchSize 观察事件归档批量大小
func (m *Metrics) ObserveArchiveBatchSize(size int) {
	m.archiveBatchSize.Observe(float64(size))
}

// AddArchiveRowsDeleted 累加清理掉的归档事件数
func (m *Metrics) AddArchiveRowsDeleted(count int64) {
	m.archiveRowsDeleted.Add(float64(count))
}

var globalMetrics *Metrics
var metricsMu sync.Once

// GetMetrics 获取全局指标收集器
func GetMetrics() *Metrics {
	metricsMu.Do(func() {
		globalMetrics = NewMetrics("trade_ledger")
	})
	return globalMetrics
}

// InitMetrics 初始化指标收集器（供main使用）
func InitMetrics() {
	GetMetrics()
}
