package queue

import (
	"encoding/json"

	"github.com/shopdesk/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationBroadcast 全体客户通知任务
	TaskNotificationBroadcast = constants.TaskNotificationBroadcast
	// TaskNotificationOrderStatus 订单状态变更通知任务
	TaskNotificationOrderStatus = constants.TaskNotificationOrderStatus
	// TaskStatisticsGenerateDaily 每日统计快照任务
	TaskStatisticsGenerateDaily = constants.TaskStatisticsGenerateDaily
	// TaskVoucherExpireSweep 过期优惠券清理任务
	TaskVoucherExpireSweep = constants.TaskVoucherExpireSweep
)

// NotificationBroadcastPayload 全体通知任务载荷
type NotificationBroadcastPayload struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Role    string `json:"role"`
}

// OrderStatusNotificationPayload 订单状态通知任务载荷
type OrderStatusNotificationPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// DailyStatisticsPayload 每日统计任务载荷，Date 为空表示前一天
type DailyStatisticsPayload struct {
	Date string `json:"date"`
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}

// NewNotificationBroadcastTask 创建全体通知任务
func NewNotificationBroadcastTask(payload NotificationBroadcastPayload) (*asynq.Task, error) {
	return newJSONTask(TaskNotificationBroadcast, payload)
}

// NewOrderStatusNotificationTask 创建订单状态通知任务
func NewOrderStatusNotificationTask(payload OrderStatusNotificationPayload) (*asynq.Task, error) {
	return newJSONTask(TaskNotificationOrderStatus, payload)
}

// NewDailyStatisticsTask 创建每日统计任务
func NewDailyStatisticsTask(payload DailyStatisticsPayload) (*asynq.Task, error) {
	return newJSONTask(TaskStatisticsGenerateDaily, payload)
}

// NewVoucherExpireSweepTask 创建过期优惠券清理任务
func NewVoucherExpireSweepTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskVoucherExpireSweep, nil), nil
}
