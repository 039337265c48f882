package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBatch(notifications []models.Notification, batchSize int) error
	GetByID(id uint) (*models.Notification, error)
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
	ListByAccount(accountID uint, page, pageSize int) ([]models.Notification, int64, error)
	CountUnread(accountID uint) (int64, error)
	Update(id uint, updates map[string]interface{}) (int64, error)
	MarkRead(id, accountID uint, now time.Time) (int64, error)
	MarkAllRead(accountID uint, now time.Time) (int64, error)
	Delete(id uint) (int64, error)
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create 创建通知
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// CreateBatch 分批写入通知
func (r *GormNotificationRepository) CreateBatch(notifications []models.Notification, batchSize int) error {
	if len(notifications) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return r.db.CreateInBatches(&notifications, batchSize).Error
}

// GetByID 获取通知
func (r *GormNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// List 管理端通知列表
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})
	if notifType := strings.TrimSpace(filter.Type); notifType != "" {
		query = query.Where("type = ?", notifType)
	}
	if filter.AccountID != 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	var notifications []models.Notification
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &notifications, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Account")
	})
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// accountScope 账户可见的通知：发给自己的以及系统公告
func accountScope(db *gorm.DB, accountID uint) *gorm.DB {
	return db.Where("account_id = ? OR account_id IS NULL", accountID)
}

// ListByAccount 账户自己的通知
func (r *GormNotificationRepository) ListByAccount(accountID uint, page, pageSize int) ([]models.Notification, int64, error) {
	query := accountScope(r.db.Model(&models.Notification{}), accountID)
	var notifications []models.Notification
	total, err := countAndFind(query, page, pageSize, "created_at DESC, id DESC", &notifications)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread 统计未读数
func (r *GormNotificationRepository) CountUnread(accountID uint) (int64, error) {
	var count int64
	if err := accountScope(r.db.Model(&models.Notification{}), accountID).
		Where("is_read = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update 更新通知字段
func (r *GormNotificationRepository) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// MarkRead 标记单条通知为已读（仅限接收人）
func (r *GormNotificationRepository) MarkRead(id, accountID uint, now time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", id, accountID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

// MarkAllRead 标记账户全部通知为已读
func (r *GormNotificationRepository) MarkAllRead(accountID uint, now time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("account_id = ? AND is_read = ?", accountID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

// Delete 删除通知
func (r *GormNotificationRepository) Delete(id uint) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
