package repository

import (
	"fmt"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatisticRepository 经营统计聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type StatisticRepository interface {
	GetOverview(startAt, endAt time.Time) (StatisticOverviewRow, error)
	GetRevenueByMonth(startAt, endAt time.Time) ([]StatisticRevenueRow, error)
	GetRevenueByDay(startAt, endAt time.Time) ([]StatisticRevenueRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]StatisticProductRankingRow, error)
	CountOrders(status string, startAt, endAt *time.Time) (int64, error)
	CountAccounts(role string) (int64, error)
	CountActiveProducts() (int64, error)
	UpsertDaily(stat *models.DailyStatistic) error
	ListDaily(fromDate, toDate string) ([]models.DailyStatistic, error)
}

// StatisticOverviewRow 区间经营总览原始统计
type StatisticOverviewRow struct {
	TotalOrders   int64
	TotalRevenue  float64
	TotalSubTotal float64
	NewCustomers  int64
	ProductsSold  int64
}

// StatisticRevenueRow 按周期分组的营收
type StatisticRevenueRow struct {
	Period   string
	Orders   int64
	Revenue  float64
	SubTotal float64
}

// StatisticProductRankingRow 商品销量排行原始行
type StatisticProductRankingRow struct {
	ProductID   uint
	ProductCode string
	ProductName string
	Quantity    int64
	Revenue     float64
}

// GormStatisticRepository GORM 统计实现
type GormStatisticRepository struct {
	db *gorm.DB
}

// NewStatisticRepository 创建统计仓库
func NewStatisticRepository(db *gorm.DB) *GormStatisticRepository {
	return &GormStatisticRepository{db: db}
}

// revenuePaymentStatuses 计入营收的支付状态
func revenuePaymentStatuses() []string {
	return []string{constants.OrderPaymentPaid, constants.OrderPaymentPartialPaid}
}

// revenueOrders 已完成且已（部分）支付的订单
func revenueOrders(db *gorm.DB, startAt, endAt time.Time) *gorm.DB {
	return db.Model(&models.Order{}).
		Where("orders.order_status = ? AND orders.payment_status IN ?", constants.OrderStatusCompleted, revenuePaymentStatuses()).
		Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt)
}

// GetOverview 获取区间总览
func (r *GormStatisticRepository) GetOverview(startAt, endAt time.Time) (StatisticOverviewRow, error) {
	result := StatisticOverviewRow{}

	var totals struct {
		Orders   int64
		Revenue  float64
		SubTotal float64
	}
	if err := revenueOrders(r.db, startAt, endAt).
		Select("COUNT(*) AS orders, COALESCE(SUM(orders.total), 0) AS revenue, COALESCE(SUM(orders.sub_total), 0) AS sub_total").
		Scan(&totals).Error; err != nil {
		return result, err
	}
	result.TotalOrders = totals.Orders
	result.TotalRevenue = totals.Revenue
	result.TotalSubTotal = totals.SubTotal

	if err := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.order_status = ? AND orders.payment_status IN ?", constants.OrderStatusCompleted, revenuePaymentStatuses()).
		Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Scan(&result.ProductsSold).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Account{}).
		Where("role = ? AND created_at >= ? AND created_at < ?", constants.RoleCustomer, startAt, endAt).
		Count(&result.NewCustomers).Error; err != nil {
		return result, err
	}
	return result, nil
}

func (r *GormStatisticRepository) revenueGrouped(bucketExpr string, startAt, endAt time.Time) ([]StatisticRevenueRow, error) {
	rows := make([]StatisticRevenueRow, 0)
	if err := revenueOrders(r.db, startAt, endAt).
		Select(fmt.Sprintf("%s AS period, COUNT(*) AS orders, COALESCE(SUM(orders.total), 0) AS revenue, COALESCE(SUM(orders.sub_total), 0) AS sub_total", bucketExpr)).
		Group(bucketExpr).
		Order("period ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRevenueByMonth 按月分组营收
func (r *GormStatisticRepository) GetRevenueByMonth(startAt, endAt time.Time) ([]StatisticRevenueRow, error) {
	return r.revenueGrouped(monthBucketExpr(r.db, "orders.created_at"), startAt, endAt)
}

// GetRevenueByDay 按天分组营收
func (r *GormStatisticRepository) GetRevenueByDay(startAt, endAt time.Time) ([]StatisticRevenueRow, error) {
	return r.revenueGrouped(dayBucketExpr(r.db, "orders.created_at"), startAt, endAt)
}

// GetTopProducts 已完成订单中的热销商品
func (r *GormStatisticRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]StatisticProductRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]StatisticProductRankingRow, 0)
	if err := r.db.Model(&models.OrderItem{}).
		Select(`
			products.id AS product_id,
			products.code AS product_code,
			products.name AS product_name,
			COALESCE(SUM(order_items.quantity), 0) AS quantity,
			COALESCE(SUM(order_items.quantity * order_items.price), 0) AS revenue
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN product_variants ON product_variants.id = order_items.variant_id").
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("orders.order_status = ?", constants.OrderStatusCompleted).
		Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt).
		Group("products.id, products.code, products.name").
		Order("quantity DESC, revenue DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountOrders 统计订单数（status 为空表示全部状态）
func (r *GormStatisticRepository) CountOrders(status string, startAt, endAt *time.Time) (int64, error) {
	query := r.db.Model(&models.Order{})
	if status != "" {
		query = query.Where("order_status = ?", status)
	}
	if startAt != nil {
		query = query.Where("created_at >= ?", *startAt)
	}
	if endAt != nil {
		query = query.Where("created_at < ?", *endAt)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAccounts 按角色统计账户数
func (r *GormStatisticRepository) CountAccounts(role string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveProducts 统计上架商品数
func (r *GormStatisticRepository) CountActiveProducts() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("status = ?", constants.StatusActive).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpsertDaily 写入每日快照，同一天重复写入覆盖旧值
func (r *GormStatisticRepository) UpsertDaily(stat *models.DailyStatistic) error {
	if stat == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_orders", "total_revenue", "total_profit", "new_customers", "products_sold", "updated_at"}),
	}).Create(stat).Error
}

// ListDaily 按日期区间（YYYY-MM-DD，闭区间）读取快照
func (r *GormStatisticRepository) ListDaily(fromDate, toDate string) ([]models.DailyStatistic, error) {
	query := r.db.Model(&models.DailyStatistic{})
	if fromDate != "" {
		query = query.Where("date >= ?", fromDate)
	}
	if toDate != "" {
		query = query.Where("date <= ?", toDate)
	}
	rows := make([]models.DailyStatistic, 0)
	if err := query.Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
