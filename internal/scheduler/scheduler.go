package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/utrading/utrading-trade-ledger/internal/command"
	"github.com/utrading/utrading-trade-ledger/pkg/logger"
)

// CommandSubmitter 命令提交接口，由 NATS 消费器实现
type CommandSubmitter interface {
	Submit(cmd *command.Command) error
}

// Scheduler 定时任务：周期性注入条件单扫描命令
// 扫描本身在状态机内完成，调度器只负责按节奏发命令
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	signer    string
	submitter CommandSubmitter
}

// New 创建调度器
func New(spec, signer string, submitter CommandSubmitter) *Scheduler {
	if spec == "" {
		spec = "@every 30s"
	}
	return &Scheduler{
		cron:      cron.New(),
		spec:      spec,
		signer:    signer,
		submitter: submitter,
	}
}

// Start 注册并启动定时任务
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		cmd := &command.Command{
			Type:      command.TypeCheckConditionalOrders,
			Signer:    s.signer,
			Timestamp: uint64(time.Now().UnixMicro()),
			Payload:   &command.CheckConditionalOrders{},
		}
		if err := s.submitter.Submit(cmd); err != nil {
			logger.Error().Err(err).Msg("submit conditional scan failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

// Stop 停止调度器，等待执行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("scheduler stopped")
}
