package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndCustomer(id, customerID uint) (*models.Order, error)
	LockByID(id uint) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListReturnable(customerID uint, completedSince time.Time) ([]models.Order, error)
	ListItems(orderID uint) ([]models.OrderItem, error)
	UpdateStatus(id uint, fromStatus, toStatus string, extra map[string]interface{}) (int64, error)
	Update(id uint, updates map[string]interface{}) (int64, error)
	CountCreatedBetween(start, end time.Time) (int64, error)
	ExistsCode(code string) (bool, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// preloadOrderDetail 订单详情的完整关联，商品使用 Unscoped 以便读取已删除商品
func preloadOrderDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Staff").
		Preload("Voucher").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Items.Variant").
		Preload("Items.Variant.Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Items.Variant.Product.Brand").
		Preload("Items.Variant.Product.Category").
		Preload("Items.Variant.Product.Material").
		Preload("Items.Variant.Color").
		Preload("Items.Variant.Size").
		Preload("Items.Variant.Images").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}

func preloadOrderSummary(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Staff").Preload("Items")
}

// Create 创建订单（同时写入订单项与支付记录）
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 获取订单详情
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := preloadOrderDetail(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndCustomer 获取客户自己的订单
func (r *GormOrderRepository) GetByIDAndCustomer(id, customerID uint) (*models.Order, error) {
	var order models.Order
	err := preloadOrderDetail(r.db).Where("id = ? AND customer_id = ?", id, customerID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// LockByID 读取订单行并加锁（postgres 下 SELECT ... FOR UPDATE，sqlite 依赖库级写锁）
func (r *GormOrderRepository) LockByID(id uint) (*models.Order, error) {
	query := r.db
	if isPostgresDialect(dbDialectName(r.db)) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if status := strings.TrimSpace(filter.OrderStatus); status != "" {
		query = query.Where("order_status = ?", status)
	}
	if status := strings.TrimSpace(filter.PaymentStatus); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if code := strings.TrimSpace(filter.Code); code != "" {
		cond, args := buildLikeCondition(r.db, code, "code")
		query = query.Where(cond, args...)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var orders []models.Order
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &orders, preloadOrderSummary)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListReturnable 客户可退货订单（已完成且仍在退货窗口内）
func (r *GormOrderRepository) ListReturnable(customerID uint, completedSince time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := preloadOrderDetail(r.db).
		Where("customer_id = ? AND order_status = ?", customerID, constants.OrderStatusCompleted).
		Where("COALESCE(completed_at, updated_at) >= ?", completedSince).
		Order("completed_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListItems 获取订单项
func (r *GormOrderRepository) ListItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus 仅当当前状态等于 fromStatus 时更新，返回受影响行数
func (r *GormOrderRepository) UpdateStatus(id uint, fromStatus, toStatus string, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{
		"order_status": toStatus,
		"updated_at":   time.Now(),
	}
	for key, value := range extra {
		updates[key] = value
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Update 更新订单字段
func (r *GormOrderRepository) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// CountCreatedBetween 统计区间内创建的订单数（用于生成月度序号）
func (r *GormOrderRepository) CountCreatedBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsCode 订单编码是否已存在
func (r *GormOrderRepository) ExistsCode(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
