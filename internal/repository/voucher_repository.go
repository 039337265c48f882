package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// VoucherRepository 优惠券数据访问接口
type VoucherRepository interface {
	Create(voucher *models.Voucher) error
	GetByID(id uint) (*models.Voucher, error)
	GetByCode(code string) (*models.Voucher, error)
	ExistsCode(code string, excludeID uint) (bool, error)
	List(filter VoucherListFilter) ([]models.Voucher, int64, error)
	ListAvailable(orderValue float64, now time.Time) ([]models.Voucher, error)
	Update(id uint, updates map[string]interface{}) (int64, error)
	Delete(id uint) (int64, error)
	IncrementUsedCount(id uint) (int64, error)
	DecrementUsedCount(id uint) (int64, error)
	ExpireEnded(now time.Time) (int64, error)
	WithTx(tx *gorm.DB) VoucherRepository
}

// GormVoucherRepository GORM 实现
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository 创建优惠券仓库
func NewVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVoucherRepository) WithTx(tx *gorm.DB) VoucherRepository {
	if tx == nil {
		return r
	}
	return &GormVoucherRepository{db: tx}
}

// Create 创建优惠券
func (r *GormVoucherRepository) Create(voucher *models.Voucher) error {
	return r.db.Create(voucher).Error
}

// GetByID 根据 ID 获取优惠券
func (r *GormVoucherRepository) GetByID(id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByCode 根据券码获取优惠券（券码统一大写存储）
func (r *GormVoucherRepository) GetByCode(code string) (*models.Voucher, error) {
	var voucher models.Voucher
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.Where("code = ?", normalized).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// ExistsCode 券码是否已被占用
func (r *GormVoucherRepository) ExistsCode(code string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Voucher{}).Where("code = ?", strings.ToUpper(strings.TrimSpace(code)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 优惠券列表
func (r *GormVoucherRepository) List(filter VoucherListFilter) ([]models.Voucher, int64, error) {
	query := r.db.Model(&models.Voucher{})
	if code := strings.TrimSpace(filter.Code); code != "" {
		cond, args := buildLikeCondition(r.db, code, "code")
		query = query.Where(cond, args...)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		cond, args := buildLikeCondition(r.db, name, "name")
		query = query.Where(cond, args...)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.EndTo != nil {
		query = query.Where("end_date <= ?", *filter.EndTo)
	}
	var vouchers []models.Voucher
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &vouchers)
	if err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

// ListAvailable 当前可用且满足最低订单金额的优惠券
func (r *GormVoucherRepository) ListAvailable(orderValue float64, now time.Time) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := r.db.
		Where("status = ?", constants.StatusActive).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Where("used_count < quantity").
		Where("min_order_value <= ?", orderValue).
		Order("end_date ASC, id ASC").
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}

// Update 更新优惠券字段
func (r *GormVoucherRepository) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Voucher{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 删除优惠券（仅未使用过的券）
func (r *GormVoucherRepository) Delete(id uint) (int64, error) {
	result := r.db.Where("id = ? AND used_count = 0", id).Delete(&models.Voucher{})
	return result.RowsAffected, result.Error
}

// IncrementUsedCount 使用次数 +1，已用完时不更新
func (r *GormVoucherRepository) IncrementUsedCount(id uint) (int64, error) {
	result := r.db.Model(&models.Voucher{}).
		Where("id = ? AND used_count < quantity", id).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	return result.RowsAffected, result.Error
}

// DecrementUsedCount 使用次数 -1（不低于 0）
func (r *GormVoucherRepository) DecrementUsedCount(id uint) (int64, error) {
	result := r.db.Model(&models.Voucher{}).
		Where("id = ? AND used_count > 0", id).
		UpdateColumn("used_count", gorm.Expr("used_count - ?", 1))
	return result.RowsAffected, result.Error
}

// ExpireEnded 将已过期的启用券置为停用
func (r *GormVoucherRepository) ExpireEnded(now time.Time) (int64, error) {
	result := r.db.Model(&models.Voucher{}).
		Where("status = ? AND end_date < ?", constants.StatusActive, now).
		Updates(map[string]interface{}{
			"status":     constants.StatusInactive,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
