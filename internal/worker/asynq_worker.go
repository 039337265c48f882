package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/provider"
	"github.com/shopdesk/internal/queue"
	"github.com/shopdesk/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationBroadcast, c.handleNotificationBroadcast)
	mux.HandleFunc(queue.TaskNotificationOrderStatus, c.handleOrderStatusNotification)
	mux.HandleFunc(queue.TaskStatisticsGenerateDaily, c.handleDailyStatistics)
	mux.HandleFunc(queue.TaskVoucherExpireSweep, c.handleVoucherExpireSweep)
}

func (c *Consumer) handleNotificationBroadcast(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_broadcast_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.NotificationBroadcastPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_notification_broadcast_unmarshal_failed", "error", err)
		return err
	}
	if payload.Title == "" || payload.Message == "" {
		logger.Debugw("worker_notification_broadcast_skip_invalid_payload", "type", payload.Type)
		return nil
	}
	sent, err := c.NotificationService.Broadcast(ctx, payload)
	if err != nil {
		if errors.Is(err, service.ErrNoCustomers) {
			logger.Debugw("worker_notification_broadcast_skip_no_customers", "type", payload.Type)
			return nil
		}
		logger.Warnw("worker_notification_broadcast_failed", "type", payload.Type, "error", err)
		return err
	}
	logger.Infow("worker_notification_broadcast_done", "type", payload.Type, "sent", sent)
	return nil
}

func (c *Consumer) handleOrderStatusNotification(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notification_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.SendOrderStatus(ctx, payload); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_status_notification_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_status_notification_failed", "order_id", payload.OrderID, "status", payload.Status, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleDailyStatistics(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_daily_statistics_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DailyStatisticsPayload
	if body := task.Payload(); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			logger.Warnw("worker_daily_statistics_unmarshal_failed", "error", err)
			return err
		}
	}
	if _, err := c.StatisticService.GenerateDaily(ctx, payload.Date); err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			logger.Warnw("worker_daily_statistics_skip_invalid_date", "date", payload.Date)
			return nil
		}
		return err
	}
	return nil
}

func (c *Consumer) handleVoucherExpireSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_voucher_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if _, err := c.VoucherService.ExpireEnded(time.Now()); err != nil {
		logger.Warnw("worker_voucher_sweep_failed", "error", err)
		return err
	}
	return nil
}
