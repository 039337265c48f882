package repository

import (
	"errors"
	"strings"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository 支付记录数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	List(filter PaymentListFilter) ([]models.Payment, int64, error)
	ListByOrder(orderID uint) ([]models.Payment, error)
	SumCompletedByOrder(orderID uint) (decimal.Decimal, error)
	UpdateStatus(id uint, fromStatus, toStatus string, extra map[string]interface{}) (int64, error)
	Delete(id uint) (int64, error)
	WithTx(tx *gorm.DB) PaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID 获取支付记录
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Preload("Order").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// List 支付记录列表
func (r *GormPaymentRepository) List(filter PaymentListFilter) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if method := strings.TrimSpace(filter.Method); method != "" {
		query = query.Where("method = ?", method)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	var payments []models.Payment
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &payments, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Order")
	})
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// ListByOrder 获取订单的全部支付记录
func (r *GormPaymentRepository) ListByOrder(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumCompletedByOrder 汇总订单已完成支付金额
func (r *GormPaymentRepository) SumCompletedByOrder(orderID uint) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := r.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("order_id = ? AND status = ?", orderID, constants.PaymentStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// UpdateStatus 仅当当前状态等于 fromStatus 时更新
func (r *GormPaymentRepository) UpdateStatus(id uint, fromStatus, toStatus string, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": toStatus}
	for key, value := range extra {
		updates[key] = value
	}
	result := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 删除支付记录
func (r *GormPaymentRepository) Delete(id uint) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&models.Payment{})
	return result.RowsAffected, result.Error
}
