package app

import (
	"errors"
	"net"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/provider"
	"github.com/shopdesk/internal/router"
	"github.com/shopdesk/internal/worker"
)

// ErrQueueDisabled 队列未启用时无法单独运行 worker
var ErrQueueDisabled = errors.New("queue is disabled, worker mode requires queue.enabled=true")

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !validMode(mode) {
		return nil, errors.New("unknown mode: " + mode)
	}
	if mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, ErrQueueDisabled
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	// 初始化 Worker 服务；队列关闭时通知与统计在请求内同步执行
	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				container.Close()
				return nil, err
			}
			services = append(services, workerService)
		} else {
			logger.Warnw("app_worker_skipped_queue_disabled", "mode", mode)
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...).WithCleanup(container.Close), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

func listenAddr(cfg *config.Config) string {
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	return net.JoinHostPort(cfg.Server.Host, port)
}

func validMode(mode string) bool {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return true
	}
	return false
}
