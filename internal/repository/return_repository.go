package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReturnStats 退货统计
type ReturnStats struct {
	Total            int64            `json:"total"`
	ByStatus         map[string]int64 `json:"byStatus"`
	CompletedRefund  decimal.Decimal  `json:"completedRefund"`
	CompletedReturns int64            `json:"completedReturns"`
}

// ReturnRepository 退货单数据访问接口
type ReturnRepository interface {
	Create(ret *models.Return) error
	GetByID(id uint) (*models.Return, error)
	GetByIDAndCustomer(id, customerID uint) (*models.Return, error)
	List(filter ReturnListFilter) ([]models.Return, int64, error)
	Stats(from, to *time.Time) (*ReturnStats, error)
	SumReturnedQuantity(orderID uint, excludeReturnID uint) (map[uint]int, error)
	Update(id uint, updates map[string]interface{}) (int64, error)
	UpdateStatus(id uint, fromStatus, toStatus string, extra map[string]interface{}) (int64, error)
	ReplaceItems(returnID uint, items []models.ReturnItem) error
	CountCreatedBetween(start, end time.Time) (int64, error)
	ExistsCode(code string) (bool, error)
	Delete(id uint) (int64, error)
	WithTx(tx *gorm.DB) ReturnRepository
}

// GormReturnRepository GORM 实现
type GormReturnRepository struct {
	db *gorm.DB
}

// NewReturnRepository 创建退货仓库
func NewReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReturnRepository) WithTx(tx *gorm.DB) ReturnRepository {
	if tx == nil {
		return r
	}
	return &GormReturnRepository{db: tx}
}

func preloadReturnDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Order").
		Preload("Customer").
		Preload("Staff").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Items.Variant").
		Preload("Items.Variant.Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Items.Variant.Color").
		Preload("Items.Variant.Size")
}

// Create 创建退货单（同时写入明细）
func (r *GormReturnRepository) Create(ret *models.Return) error {
	return r.db.Create(ret).Error
}

// GetByID 获取退货单详情
func (r *GormReturnRepository) GetByID(id uint) (*models.Return, error) {
	var ret models.Return
	if err := preloadReturnDetail(r.db).First(&ret, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// GetByIDAndCustomer 获取客户自己的退货单
func (r *GormReturnRepository) GetByIDAndCustomer(id, customerID uint) (*models.Return, error) {
	var ret models.Return
	err := preloadReturnDetail(r.db).Where("id = ? AND customer_id = ?", id, customerID).First(&ret).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// List 退货单列表（Keyword 匹配退货编码或原订单编码）
func (r *GormReturnRepository) List(filter ReturnListFilter) ([]models.Return, int64, error) {
	query := r.db.Model(&models.Return{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		cond, args := buildLikeCondition(r.db, keyword, "code")
		orderCond, orderArgs := buildLikeCondition(r.db, keyword, "code")
		orders := r.db.Model(&models.Order{}).Select("id").Where(orderCond, orderArgs...)
		query = query.Where(r.db.Where(cond, args...).Or("order_id IN (?)", orders))
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	var returns []models.Return
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &returns, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Order").Preload("Customer").Preload("Items")
	})
	if err != nil {
		return nil, 0, err
	}
	return returns, total, nil
}

// Stats 按状态统计退货单，并汇总已完成退货的退款金额
func (r *GormReturnRepository) Stats(from, to *time.Time) (*ReturnStats, error) {
	scoped := func() *gorm.DB {
		query := r.db.Model(&models.Return{})
		if from != nil {
			query = query.Where("created_at >= ?", *from)
		}
		if to != nil {
			query = query.Where("created_at <= ?", *to)
		}
		return query
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := scoped().Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	stats := &ReturnStats{ByStatus: map[string]int64{
		constants.ReturnStatusPending:   0,
		constants.ReturnStatusApproved:  0,
		constants.ReturnStatusRejected:  0,
		constants.ReturnStatusCompleted: 0,
		constants.ReturnStatusCanceled:  0,
	}}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}
	stats.CompletedReturns = stats.ByStatus[constants.ReturnStatusCompleted]

	var refund struct {
		Total decimal.NullDecimal
	}
	err := scoped().
		Select("COALESCE(SUM(total_refund), 0) AS total").
		Where("status = ?", constants.ReturnStatusCompleted).
		Scan(&refund).Error
	if err != nil {
		return nil, err
	}
	if refund.Total.Valid {
		stats.CompletedRefund = refund.Total.Decimal.Round(2)
	}
	return stats, nil
}

// SumReturnedQuantity 统计订单各订单项已退（或退货中）的数量，拒绝与取消的退货单不计入
func (r *GormReturnRepository) SumReturnedQuantity(orderID uint, excludeReturnID uint) (map[uint]int, error) {
	query := r.db.Model(&models.ReturnItem{}).
		Select("return_items.order_item_id AS order_item_id, COALESCE(SUM(return_items.quantity), 0) AS quantity").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Where("returns.order_id = ?", orderID).
		Where("returns.status NOT IN ?", []string{constants.ReturnStatusRejected, constants.ReturnStatusCanceled})
	if excludeReturnID != 0 {
		query = query.Where("returns.id <> ?", excludeReturnID)
	}
	var rows []struct {
		OrderItemID uint
		Quantity    int
	}
	if err := query.Group("return_items.order_item_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[uint]int, len(rows))
	for _, row := range rows {
		result[row.OrderItemID] = row.Quantity
	}
	return result, nil
}

// Update 更新退货单字段
func (r *GormReturnRepository) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Return{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateStatus 仅当当前状态等于 fromStatus 时更新
func (r *GormReturnRepository) UpdateStatus(id uint, fromStatus, toStatus string, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	for key, value := range extra {
		updates[key] = value
	}
	result := r.db.Model(&models.Return{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ReplaceItems 替换退货明细
func (r *GormReturnRepository) ReplaceItems(returnID uint, items []models.ReturnItem) error {
	if err := r.db.Where("return_id = ?", returnID).Delete(&models.ReturnItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].ReturnID = returnID
	}
	return r.db.Create(&items).Error
}

// CountCreatedBetween 统计区间内创建的退货单数
func (r *GormReturnRepository) CountCreatedBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Return{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsCode 退货编码是否已存在
func (r *GormReturnRepository) ExistsCode(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Return{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete 删除退货单及明细
func (r *GormReturnRepository) Delete(id uint) (int64, error) {
	if err := r.db.Where("return_id = ?", id).Delete(&models.ReturnItem{}).Error; err != nil {
		return 0, err
	}
	result := r.db.Where("id = ?", id).Delete(&models.Return{})
	return result.RowsAffected, result.Error
}
