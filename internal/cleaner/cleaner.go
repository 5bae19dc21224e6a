package cleaner

import (
	"time"

	"github.com/utrading/utrading-trade-ledger/config"
	"github.com/utrading/utrading-trade-ledger/internal/dao"
	"github.com/utrading/utrading-trade-ledger/internal/monitor"
	"github.com/utrading/utrading-trade-ledger/pkg/logger"
)

// 数量兜底：归档超过 100 万条时按时间收紧清理
const maxArchivedEvents = 1000000

// Cleaner 事件归档清理器，定时清理过期归档
// 只触碰归档表，实体快照与计数器永不清理
type Cleaner struct {
	interval  time.Duration // 清理间隔
	retention time.Duration // 归档保留时长
	done      chan struct{} // 停止信号
}

// NewCleaner 创建清理器
func NewCleaner(cfg config.Cleaner) *Cleaner {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &Cleaner{
		interval:  interval,
		retention: retention,
		done:      make(chan struct{}),
	}
}

// Start 启动清理任务
func (c *Cleaner) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		logger.Info().
			Dur("interval", c.interval).
			Dur("retention", c.retention).
			Msg("cleaner started")

		// 启动时立即执行一次
		c.clean()

		for {
			select {
			case <-ticker.C:
				c.clean()
			case <-c.done:
				logger.Info().Msg("cleaner stopped")
				return
			}
		}
	}()
}

// Stop 停止清理器
func (c *Cleaner) Stop() {
	close(c.done)
}

// clean 执行清理任务
func (c *Cleaner) clean() {
	logger.Debug().Msg("running cleanup task")

	if err := c.cleanArchivedEvents(); err != nil {
		logger.Error().Err(err).Msg("clean archived events failed")
	}
}

// cleanArchivedEvents 清理过期归档事件
// 策略：时间优先（保留期之前），数量兜底（100万条限制）
func (c *Cleaner) cleanArchivedEvents() error {
	// 1. 时间清理：删除保留期之前的记录
	cutoff := time.Now().Add(-c.retention)
	deleted, err := dao.Event().DeleteBefore(cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		monitor.AddArchiveRowsDeleted(deleted)
		logger.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("cleaned archived events by time")
	}

	// 2. 数量检查：超限时把保留窗口减半再清一轮
	count, err := dao.Event().CountAll()
	if err != nil {
		return err
	}

	if count > maxArchivedEvents {
		tighter := time.Now().Add(-c.retention / 2)
		deleted, err = dao.Event().DeleteBefore(tighter)
		if err != nil {
			return err
		}
		if deleted > 0 {
			monitor.AddArchiveRowsDeleted(deleted)
			logger.Info().
				Int64("deleted", deleted).
				Int64("total", count).
				Int64("limit", maxArchivedEvents).
				Msg("cleaned excess archived events by count")
		}
	}

	return nil
}
