package repository

import (
	"errors"
	"strings"

	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// AccountRepository 账户数据访问接口
type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByIDWithAddresses(id uint) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	FindConflict(email, phone string, excludeID uint) (*models.Account, error)
	ExistsCode(code string) (bool, error)
	List(filter AccountListFilter) ([]models.Account, int64, error)
	CountByRole(role string) (int64, error)
	ListIDsByRole(role, status string, afterID uint, limit int) ([]uint, error)
	Update(id uint, updates map[string]interface{}) error
	IncrementTokenVersion(id uint) error
	Delete(id uint) (int64, error)
	WithTx(tx *gorm.DB) *GormAccountRepository
}

// GormAccountRepository GORM 实现
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 创建账户仓库
func NewAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAccountRepository) WithTx(tx *gorm.DB) *GormAccountRepository {
	if tx == nil {
		return r
	}
	return &GormAccountRepository{db: tx}
}

// Create 创建账户
func (r *GormAccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByID 根据 ID 获取账户
func (r *GormAccountRepository) GetByID(id uint) (*models.Account, error) {
	return r.first(r.db.Where("id = ?", id))
}

// GetByIDWithAddresses 获取账户及其收货地址（默认地址优先）
func (r *GormAccountRepository) GetByIDWithAddresses(id uint) (*models.Account, error) {
	query := r.db.Preload("Addresses", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_default DESC, id ASC")
	}).Where("id = ?", id)
	return r.first(query)
}

// GetByEmail 根据邮箱获取账户（不区分大小写）
func (r *GormAccountRepository) GetByEmail(email string) (*models.Account, error) {
	return r.first(r.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

// FindConflict 查找邮箱或手机号冲突的账户
func (r *GormAccountRepository) FindConflict(email, phone string, excludeID uint) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, nil
	}
	query := r.db.Model(&models.Account{})
	switch {
	case email != "" && phone != "":
		query = query.Where("(LOWER(email) = ? OR phone_number = ?)", email, phone)
	case email != "":
		query = query.Where("LOWER(email) = ?", email)
	default:
		query = query.Where("phone_number = ?", phone)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	return r.first(query)
}

// ExistsCode 判断账户编码是否已存在
func (r *GormAccountRepository) ExistsCode(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 账户列表
func (r *GormAccountRepository) List(filter AccountListFilter) ([]models.Account, int64, error) {
	query := r.db.Model(&models.Account{})
	if role := strings.TrimSpace(filter.Role); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		cond, args := buildLikeCondition(r.db, search, "full_name", "email", "phone_number", "code")
		query = query.Where(cond, args...)
	}
	var accounts []models.Account
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &accounts)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// CountByRole 统计某角色账户数量
func (r *GormAccountRepository) CountByRole(role string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListIDsByRole 按 ID 游标分批读取账户 ID（用于批量通知）
func (r *GormAccountRepository) ListIDsByRole(role, status string, afterID uint, limit int) ([]uint, error) {
	var ids []uint
	query := r.db.Model(&models.Account{}).Where("role = ? AND id > ?", role, afterID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update 更新账户字段
func (r *GormAccountRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error
}

// IncrementTokenVersion 递增 Token 版本，使已签发 Token 全部失效
func (r *GormAccountRepository) IncrementTokenVersion(id uint) error {
	return r.db.Model(&models.Account{}).Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}

// Delete 删除账户及其地址
func (r *GormAccountRepository) Delete(id uint) (int64, error) {
	if err := r.db.Where("account_id = ?", id).Delete(&models.AccountAddress{}).Error; err != nil {
		return 0, err
	}
	result := r.db.Where("id = ?", id).Delete(&models.Account{})
	return result.RowsAffected, result.Error
}

func (r *GormAccountRepository) first(query *gorm.DB) (*models.Account, error) {
	var account models.Account
	if err := query.First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
