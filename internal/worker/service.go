package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务（消费者 + 定时调度）
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	consumer  *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	scheduler := asynq.NewScheduler(queue.BuildRedisOpt(cfg), nil)
	if err := registerPeriodicTasks(scheduler, cfg.Scheduler); err != nil {
		return nil, err
	}
	return &Service{
		name:      "worker",
		server:    server,
		mux:       mux,
		scheduler: scheduler,
		consumer:  consumer,
	}, nil
}

// periodicTask 定时任务定义
type periodicTask struct {
	name string
	cron string
	task func() (*asynq.Task, error)
}

func periodicTasks(cfg config.SchedulerConfig) []periodicTask {
	return []periodicTask{
		{
			name: queue.TaskStatisticsGenerateDaily,
			cron: strings.TrimSpace(cfg.DailyStatisticsCron),
			task: func() (*asynq.Task, error) {
				return queue.NewDailyStatisticsTask(queue.DailyStatisticsPayload{})
			},
		},
		{
			name: queue.TaskVoucherExpireSweep,
			cron: strings.TrimSpace(cfg.VoucherSweepCron),
			task: queue.NewVoucherExpireSweepTask,
		},
	}
}

// registerPeriodicTasks 注册定时任务，cron 为空的任务跳过
func registerPeriodicTasks(scheduler *asynq.Scheduler, cfg config.SchedulerConfig) error {
	for _, item := range periodicTasks(cfg) {
		if item.cron == "" {
			logger.Infow("worker_periodic_task_disabled", "task", item.name)
			continue
		}
		task, err := item.task()
		if err != nil {
			return err
		}
		entryID, err := scheduler.Register(item.cron, task, asynq.Queue(queue.DefaultQueue))
		if err != nil {
			return err
		}
		logger.Infow("worker_periodic_task_registered", "task", item.name, "cron", item.cron, "entry_id", entryID)
	}
	return nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return err
		}
	}
	_ = ctx
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.server.Shutdown()
	return nil
}
