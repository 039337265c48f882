package repository

import (
	"strings"

	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// AccountLoginLogRepository 登录日志数据访问接口
type AccountLoginLogRepository interface {
	Create(log *models.AccountLoginLog) error
	List(filter LoginLogListFilter) ([]models.AccountLoginLog, int64, error)
}

// GormAccountLoginLogRepository GORM 实现
type GormAccountLoginLogRepository struct {
	db *gorm.DB
}

// NewAccountLoginLogRepository 创建登录日志仓库
func NewAccountLoginLogRepository(db *gorm.DB) *GormAccountLoginLogRepository {
	return &GormAccountLoginLogRepository{db: db}
}

// Create 创建登录日志
func (r *GormAccountLoginLogRepository) Create(log *models.AccountLoginLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 管理端查询登录日志
func (r *GormAccountLoginLogRepository) List(filter LoginLogListFilter) ([]models.AccountLoginLog, int64, error) {
	query := r.db.Model(&models.AccountLoginLog{})
	if filter.AccountID != 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if email := strings.ToLower(strings.TrimSpace(filter.Email)); email != "" {
		query = query.Where("email = ?", email)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	logs := make([]models.AccountLoginLog, 0)
	total, err := countAndFind(query, filter.Page, filter.PageSize, "id DESC", &logs)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
