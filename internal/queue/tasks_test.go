package queue

import (
	"encoding/json"
	"testing"

	"github.com/shopdesk/internal/config"
)

func TestNewOrderStatusNotificationTask(t *testing.T) {
	task, err := NewOrderStatusNotificationTask(OrderStatusNotificationPayload{OrderID: 7, Status: "CHO_GIAO_HANG"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskNotificationOrderStatus {
		t.Fatalf("task type want %s got %s", TaskNotificationOrderStatus, task.Type())
	}
	var payload OrderStatusNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.OrderID != 7 || payload.Status != "CHO_GIAO_HANG" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report not enabled")
	}
	if err := client.EnqueueNotificationBroadcast(NotificationBroadcastPayload{Title: "x"}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.EnqueueDailyStatistics(DailyStatisticsPayload{Date: "2026-01-15"}); err != nil {
		t.Fatalf("disabled daily statistics enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380})
	if opt.Addr != "redis:6380" {
		t.Fatalf("addr want redis:6380 got %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("concurrency want 10 got %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] == 0 || cfg.Queues[CriticalQueue] == 0 {
		t.Fatalf("default queues missing: %+v", cfg.Queues)
	}
}
