package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/i18n"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/queue"
	"github.com/shopdesk/internal/repository"
)

const defaultBroadcastBatchSize = 200

// NotificationService 站内通知服务
// 队列启用时群发与订单状态通知异步执行，否则在请求内同步写入。
type NotificationService struct {
	cfg         *config.Config
	repo        repository.NotificationRepository
	accountRepo repository.AccountRepository
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	cfg *config.Config,
	repo repository.NotificationRepository,
	accountRepo repository.AccountRepository,
	orderRepo repository.OrderRepository,
	queueClient *queue.Client,
) *NotificationService {
	return &NotificationService{
		cfg:         cfg,
		repo:        repo,
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// NotificationInput 创建通知输入
type NotificationInput struct {
	AccountID *uint
	Type      string
	Title     string
	Message   string
}

// NotificationUpdateInput 更新通知输入
type NotificationUpdateInput struct {
	Title   *string
	Message *string
	IsRead  *bool
}

var notificationTypes = []string{
	constants.NotificationTypeVoucher,
	constants.NotificationTypeOrder,
	constants.NotificationTypeSystem,
	constants.NotificationTypePromotion,
}

// Create 创建单条通知；AccountID 为空表示系统公告
func (s *NotificationService) Create(input NotificationInput) (*models.Notification, error) {
	issues := &ValidationError{}
	title := requireText(issues, "title", input.Title)
	message := requireText(issues, "message", input.Message)
	notificationType := checkOneOf(issues, "type", normalizeStatus(input.Type, constants.NotificationTypeSystem), notificationTypes...)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if input.AccountID != nil {
		account, err := s.accountRepo.GetByID(*input.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}
	}
	notification := &models.Notification{
		AccountID: input.AccountID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
	}
	if err := s.repo.Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// List 后台通知列表
func (s *NotificationService) List(filter repository.NotificationListFilter) ([]models.Notification, int64, error) {
	filter.Type = strings.ToUpper(strings.TrimSpace(filter.Type))
	return s.repo.List(filter)
}

// Get 通知详情
func (s *NotificationService) Get(id uint) (*models.Notification, error) {
	notification, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// Update 更新通知
func (s *NotificationService) Update(id uint, input NotificationUpdateInput) (*models.Notification, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	issues := &ValidationError{}
	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = requireText(issues, "title", *input.Title)
	}
	if input.Message != nil {
		updates["message"] = requireText(issues, "message", *input.Message)
	}
	if input.IsRead != nil {
		updates["is_read"] = *input.IsRead
		if *input.IsRead {
			updates["read_at"] = time.Now()
		} else {
			updates["read_at"] = nil
		}
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Update(id, updates); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除通知
func (s *NotificationService) Delete(id uint) error {
	affected, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// SendToAllCustomers 向全部启用客户群发，返回接收人数
func (s *NotificationService) SendToAllCustomers(ctx context.Context, notificationType, title, message string) (int64, error) {
	issues := &ValidationError{}
	payload := queue.NotificationBroadcastPayload{
		Type:    checkOneOf(issues, "type", normalizeStatus(notificationType, constants.NotificationTypeSystem), notificationTypes...),
		Title:   requireText(issues, "title", title),
		Message: requireText(issues, "message", message),
		Role:    constants.RoleCustomer,
	}
	if err := issues.OrNil(); err != nil {
		return 0, err
	}

	_, recipients, err := s.accountRepo.List(repository.AccountListFilter{
		Page:     1,
		PageSize: 1,
		Role:     constants.RoleCustomer,
		Status:   constants.StatusActive,
	})
	if err != nil {
		return 0, err
	}
	if recipients == 0 {
		return 0, ErrNoCustomers
	}

	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueNotificationBroadcast(payload)
		if err == nil {
			return recipients, nil
		}
		logger.Warnw("notification_broadcast_enqueue_failed", "type", payload.Type, "error", err)
	}
	return s.Broadcast(ctx, payload)
}

// Broadcast 分批写入群发通知（队列任务与同步回退共用）
func (s *NotificationService) Broadcast(ctx context.Context, payload queue.NotificationBroadcastPayload) (int64, error) {
	batchSize := s.cfg.Notification.BroadcastBatchSize
	if batchSize <= 0 {
		batchSize = defaultBroadcastBatchSize
	}
	role := payload.Role
	if role == "" {
		role = constants.RoleCustomer
	}

	var (
		sent    int64
		afterID uint
	)
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		ids, err := s.accountRepo.ListIDsByRole(role, constants.StatusActive, afterID, batchSize)
		if err != nil {
			return sent, err
		}
		if len(ids) == 0 {
			break
		}
		batch := make([]models.Notification, 0, len(ids))
		for _, id := range ids {
			accountID := id
			batch = append(batch, models.Notification{
				AccountID: &accountID,
				Type:      payload.Type,
				Title:     payload.Title,
				Message:   payload.Message,
			})
		}
		if err := s.repo.CreateBatch(batch, batchSize); err != nil {
			return sent, err
		}
		sent += int64(len(batch))
		afterID = ids[len(ids)-1]
		if len(ids) < batchSize {
			break
		}
	}
	if sent == 0 {
		return 0, ErrNoCustomers
	}
	logger.Infow("notification_broadcast_sent", "type", payload.Type, "recipients", sent)
	return sent, nil
}

// NotifyOrderStatus 订单状态变更通知（异步优先）
func (s *NotificationService) NotifyOrderStatus(ctx context.Context, orderID uint, status string) {
	payload := queue.OrderStatusNotificationPayload{OrderID: orderID, Status: status}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderStatusNotification(payload)
		if err == nil {
			return
		}
		logger.Warnw("order_status_notification_enqueue_failed", "order_id", orderID, "error", err)
	}
	if err := s.SendOrderStatus(ctx, payload); err != nil {
		logger.Warnw("order_status_notification_failed", "order_id", orderID, "status", status, "error", err)
	}
}

// SendOrderStatus 写入订单状态通知；门店散客订单没有客户时跳过
func (s *NotificationService) SendOrderStatus(_ context.Context, payload queue.OrderStatusNotificationPayload) error {
	order, err := s.orderRepo.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.CustomerID == nil {
		return nil
	}
	locale := i18n.NormalizeLocale(s.cfg.App.DefaultLocale)
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	status := payload.Status
	if status == "" {
		status = order.OrderStatus
	}
	statusLabel := i18n.T(locale, "order_status."+status)
	return s.repo.Create(&models.Notification{
		AccountID: order.CustomerID,
		Type:      constants.NotificationTypeOrder,
		Title:     i18n.Sprintf(locale, "notification.order_status_title", order.Code),
		Message:   i18n.Sprintf(locale, "notification.order_status_message", order.Code, statusLabel),
	})
}

// ListMine 客户通知列表（含系统公告）与未读数
func (s *NotificationService) ListMine(accountID uint, page, pageSize int) ([]models.Notification, int64, int64, error) {
	items, total, err := s.repo.ListByAccount(accountID, page, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(accountID)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

// MarkAsRead 标记已读，只能操作自己的通知
func (s *NotificationService) MarkAsRead(id, accountID uint) (*models.Notification, error) {
	notification, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if notification.AccountID == nil || *notification.AccountID != accountID {
		return nil, ErrForbidden
	}
	if notification.IsRead {
		return notification, nil
	}
	if _, err := s.repo.MarkRead(id, accountID, time.Now()); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// MarkAllAsRead 全部标记已读
func (s *NotificationService) MarkAllAsRead(accountID uint) (int64, error) {
	return s.repo.MarkAllRead(accountID, time.Now())
}
