package nats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/internal/dao"
	"github.com/utrading/utrading-trade-ledger/internal/event"
	"github.com/utrading/utrading-trade-ledger/internal/machine"
	"github.com/utrading/utrading-trade-ledger/internal/models"
	"github.com/utrading/utrading-trade-ledger/internal/monitor"
	"github.com/utrading/utrading-trade-ledger/internal/store"
	"github.com/utrading/utrading-trade-ledger/pkg/logger"
)

const defaultQueueSize = 10000

// eventPublisher 事件外发接口
type eventPublisher interface {
	PublishEvent(ev *event.Event) error
}

// eventArchiver 事件归档接口
type eventArchiver interface {
	BatchInsert(rows []*models.LedgerEvent) error
}

// Consumer 命令消费器
// 所有命令经由单一工作协程串行执行，保证各副本重放结果一致；
// 只读访问通过 Inspect 注入同一协程，在命令间隙运行，绝不与命令交错
type Consumer struct {
	machine   *machine.Machine
	persister store.Persister
	conn      *Publisher
	publisher eventPublisher
	archiver  eventArchiver
	subject   string
	queue     chan []byte
	inspect   chan func()
	sub       *nats.Subscription
	wg        sync.WaitGroup
	done      chan struct{}
	healthy   atomic.Bool
}

// NewConsumer 创建命令消费器
func NewConsumer(m *machine.Machine, p store.Persister, pub *Publisher, subject string) *Consumer {
	c := &Consumer{
		machine:   m,
		persister: p,
		subject:   subject,
		queue:     make(chan []byte, defaultQueueSize),
		inspect:   make(chan func()),
		done:      make(chan struct{}),
	}
	if pub != nil {
		c.conn = pub
		c.publisher = pub
	}
	c.archiver = dao.Event()
	c.healthy.Store(true)
	return c
}

// Start 订阅命令主题并启动工作协程
func (c *Consumer) Start() error {
	sub, err := c.conn.Subscribe(c.subject, func(msg *nats.Msg) {
		c.enqueue(msg.Data)
	})
	if err != nil {
		return err
	}
	c.sub = sub

	c.wg.Add(1)
	go c.worker()

	logger.Info().Str("subject", c.subject).Msg("command consumer started")
	return nil
}

// Submit 注入本地生成的命令（行情观察、定时扫描）
// 与 NATS 命令走同一队列，维持全序
func (c *Consumer) Submit(cmd *command.Command) error {
	data, err := cmd.Encode()
	if err != nil {
		return err
	}
	c.enqueue(data)
	return nil
}

// Inspect 在命令间隙串行执行只读访问
// 健康检查等外部读取必须经此通道，存储本身不加锁
func (c *Consumer) Inspect(fn func()) {
	ran := make(chan struct{})
	select {
	case c.inspect <- func() { defer close(ran); fn() }:
		select {
		case <-ran:
		case <-c.done:
		}
	case <-c.done:
	}
}

// Healthy 最近一次落库是否成功
func (c *Consumer) Healthy() bool {
	return c.healthy.Load()
}

// enqueue 入队；队列满时阻塞等待，不丢弃也不绕过串行通道
func (c *Consumer) enqueue(data []byte) {
	select {
	case c.queue <- data:
	default:
		monitor.IncCommandQueueFull()
		logger.Warn().Int("queue_size", len(c.queue)).Msg("command queue full, blocking")
		c.queue <- data
	}
	monitor.SetCommandQueueSize(len(c.queue))
}

func (c *Consumer) worker() {
	defer c.wg.Done()
	for {
		select {
		case data := <-c.queue:
			c.handle(data)
			monitor.SetCommandQueueSize(len(c.queue))
		case fn := <-c.inspect:
			fn()
		case <-c.done:
			return
		}
	}
}

// handle 单条命令的完整生命周期：解码、执行、落库、发布、归档
func (c *Consumer) handle(data []byte) {
	cmd, err := command.Decode(data)
	if err != nil {
		monitor.IncCommandError("decode")
		logger.Warn().Err(err).Msg("decode command failed")
		return
	}

	if cmd.Payload == nil {
		monitor.IncCommandProcessed(cmd.Type, "unknown")
		logger.Warn().Str("type", cmd.Type).Msg("unknown command type")
		return
	}

	started := time.Now()
	events := c.machine.Apply(cmd)
	monitor.GetMetrics().ObserveApplyDuration(time.Since(started).Seconds())

	result := "applied"
	if len(events) == 0 {
		// 无效命令静默拒绝，只在指标里留痕
		result = "noop"
	}
	monitor.IncCommandProcessed(cmd.Type, result)

	commitStart := time.Now()
	if err = c.machine.Store().Commit(c.persister); err != nil {
		// 落库失败对该命令致命：事件不外发不归档，
		// 避免事件流公布了后备存储里不存在的迁移。
		// 脏键保留，随下一条命令的提交重试落库
		monitor.IncCommandError("commit")
		c.healthy.Store(false)
		logger.Error().Err(err).Str("type", cmd.Type).Msg("commit failed, events withheld")
		return
	}
	c.healthy.Store(true)
	monitor.GetMetrics().ObserveCommitDuration(time.Since(commitStart).Seconds())

	if len(events) == 0 {
		return
	}

	c.publishEvents(events)
	c.archiveEvents(events)
	c.updateEntityGauges()
}

// publishEvents 逐条发布领域事件
func (c *Consumer) publishEvents(events []event.Event) {
	for i := range events {
		if err := c.publisher.PublishEvent(&events[i]); err != nil {
			monitor.IncCommandError("publish")
			logger.Error().Err(err).Str("type", events[i].Type).Msg("publish event failed")
		}
	}
}

// archiveEvents 批量归档事件供审计回查
func (c *Consumer) archiveEvents(events []event.Event) {
	rows := make([]*models.LedgerEvent, 0, len(events))
	for i := range events {
		data, err := events[i].Marshal()
		if err != nil {
			continue
		}
		rows = append(rows, &models.LedgerEvent{
			Type:      events[i].Type,
			Timestamp: events[i].Timestamp,
			Payload:   string(data),
		})
	}

	if err := c.archiver.BatchInsert(rows); err != nil {
		monitor.IncCommandError("archive")
		logger.Error().Err(err).Msg("archive events failed")
		return
	}
	monitor.ObserveArchiveBatchSize(len(rows))
}

func (c *Consumer) updateEntityGauges() {
	for name, count := range c.machine.Store().Stats() {
		if n, ok := count.(int); ok {
			monitor.SetEntitiesTotal(name, n)
		}
	}
}

// Size 返回当前队列大小
func (c *Consumer) Size() int {
	return len(c.queue)
}

// Stop 停止消费：先退订，再等待队列中剩余命令执行完毕
func (c *Consumer) Stop() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			logger.Error().Err(err).Msg("unsubscribe failed")
		}
	}

	for len(c.queue) > 0 {
		time.Sleep(10 * time.Millisecond)
	}

	close(c.done)
	c.wg.Wait()
}
