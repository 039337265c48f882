package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopdesk/internal/cache"
	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/queue"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultStatisticsCacheTTL = 60 * time.Second
	defaultAnalyticsDays      = 30
	maxAnalyticsDays          = 366
	statisticDateLayout       = "2006-01-02"
)

// StatisticService 经营统计服务
// 说明：只统计已完成且已（部分）支付的订单，结果在 redis 启用时缓存。
type StatisticService struct {
	cfg         *config.Config
	repo        repository.StatisticRepository
	queueClient *queue.Client
}

// NewStatisticService 创建统计服务
func NewStatisticService(cfg *config.Config, repo repository.StatisticRepository, queueClient *queue.Client) *StatisticService {
	return &StatisticService{cfg: cfg, repo: repo, queueClient: queueClient}
}

// StatisticQuery 统计查询条件
type StatisticQuery struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

// StatisticSummary 区间经营汇总
type StatisticSummary struct {
	Type              string       `json:"type"`
	StartDate         time.Time    `json:"startDate"`
	EndDate           time.Time    `json:"endDate"`
	TotalOrders       int64        `json:"totalOrders"`
	TotalRevenue      models.Money `json:"totalRevenue"`
	TotalProfit       models.Money `json:"totalProfit"`
	AverageOrderValue models.Money `json:"averageOrderValue"`
	NewCustomers      int64        `json:"newCustomers"`
}

// RevenuePoint 按月营收
type RevenuePoint struct {
	Period   string       `json:"period"`
	Orders   int64        `json:"orders"`
	Revenue  models.Money `json:"revenue"`
	Profit   models.Money `json:"profit"`
	SubTotal models.Money `json:"subTotal"`
}

// TopProduct 热销商品
type TopProduct struct {
	ProductID   uint         `json:"productId"`
	ProductCode string       `json:"productCode"`
	ProductName string       `json:"productName"`
	Quantity    int64        `json:"quantity"`
	Revenue     models.Money `json:"revenue"`
}

// Analytics 最近 N 天经营分析
type Analytics struct {
	PeriodDays        int          `json:"periodDays"`
	TotalOrders       int64        `json:"totalOrders"`
	TotalRevenue      models.Money `json:"totalRevenue"`
	NewCustomers      int64        `json:"newCustomers"`
	TotalProductsSold int64        `json:"totalProductsSold"`
}

// DashboardStats 后台首页统计
type DashboardStats struct {
	Today DashboardPeriodStats `json:"today"`
	Month DashboardPeriodStats `json:"month"`
	Total DashboardTotals      `json:"total"`
}

// DashboardPeriodStats 单个周期的订单与营收
type DashboardPeriodStats struct {
	Orders  int64        `json:"orders"`
	Revenue models.Money `json:"revenue"`
}

// DashboardTotals 全量计数
type DashboardTotals struct {
	Customers     int64 `json:"customers"`
	Products      int64 `json:"products"`
	Orders        int64 `json:"orders"`
	PendingOrders int64 `json:"pendingOrders"`
}

var statisticTypes = []string{
	constants.StatisticPeriodDaily,
	constants.StatisticPeriodWeekly,
	constants.StatisticPeriodMonthly,
	constants.StatisticPeriodYearly,
}

func (s *StatisticService) cacheTTL() time.Duration {
	if s.cfg == nil || s.cfg.Statistics.CacheTTLSeconds <= 0 {
		return defaultStatisticsCacheTTL
	}
	return time.Duration(s.cfg.Statistics.CacheTTLSeconds) * time.Second
}

func (s *StatisticService) profitRate() decimal.Decimal {
	if s.cfg == nil || s.cfg.Statistics.ProfitRate <= 0 {
		return decimal.NewFromFloat(0.3)
	}
	return decimal.NewFromFloat(s.cfg.Statistics.ProfitRate)
}

// profitOf 估算毛利：round(小计 × 毛利率)
func (s *StatisticService) profitOf(subTotal float64) decimal.Decimal {
	return decimal.NewFromFloat(subTotal).Mul(s.profitRate()).Round(0)
}

// cached 读缓存，未命中时计算并回写
func cached[T any](ctx context.Context, key string, ttl time.Duration, load func() (*T, error)) (*T, error) {
	var hit T
	if ok, err := cache.GetJSON(ctx, key, &hit); err == nil && ok {
		return &hit, nil
	}
	value, err := load()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.Debugw("statistics_cache_set_failed", "key", key, "error", err)
	}
	return value, nil
}

// resolveStatisticWindow 未指定区间时按统计类型取当前周期
func resolveStatisticWindow(kind string, start, end *time.Time, now time.Time) (time.Time, time.Time, error) {
	if start != nil && end != nil && end.Before(*start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var from, to time.Time
	switch kind {
	case constants.StatisticPeriodDaily:
		from, to = today, today.AddDate(0, 0, 1)
	case constants.StatisticPeriodWeekly:
		from, to = today.AddDate(0, 0, -6), today.AddDate(0, 0, 1)
	case constants.StatisticPeriodYearly:
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(1, 0, 0)
	default:
		from, to = monthRange(now)
	}
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	return from, to, nil
}

// GetStatistics 区间经营汇总
func (s *StatisticService) GetStatistics(ctx context.Context, query StatisticQuery) (*StatisticSummary, error) {
	kind := strings.ToLower(strings.TrimSpace(query.Type))
	if kind == "" {
		kind = constants.StatisticPeriodMonthly
	}
	valid := false
	for _, candidate := range statisticTypes {
		if kind == candidate {
			valid = true
			break
		}
	}
	if !valid {
		return nil, withDetails(ErrStatisticTypeInvalid, kind)
	}
	from, to, err := resolveStatisticWindow(kind, query.StartDate, query.EndDate, time.Now())
	if err != nil {
		return nil, err
	}
	key := cache.StatisticsKey("summary", kind, from.Unix(), to.Unix())
	return cached(ctx, key, s.cacheTTL(), func() (*StatisticSummary, error) {
		row, err := s.repo.GetOverview(from, to)
		if err != nil {
			return nil, err
		}
		summary := &StatisticSummary{
			Type:         kind,
			StartDate:    from,
			EndDate:      to,
			TotalOrders:  row.TotalOrders,
			TotalRevenue: money(row.TotalRevenue),
			TotalProfit:  models.NewMoneyFromDecimal(s.profitOf(row.TotalSubTotal)),
			NewCustomers: row.NewCustomers,
		}
		if row.TotalOrders > 0 {
			summary.AverageOrderValue = models.NewMoneyFromDecimal(summary.TotalRevenue.Div(decimal.NewFromInt(row.TotalOrders)))
		}
		return summary, nil
	})
}

// GetRevenueReport 按月营收报表，默认最近 12 个月
func (s *StatisticService) GetRevenueReport(ctx context.Context, start, end *time.Time) ([]RevenuePoint, error) {
	now := time.Now()
	monthStart, _ := monthRange(now)
	from, to := monthStart.AddDate(0, -11, 0), monthStart.AddDate(0, 1, 0)
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	key := cache.StatisticsKey("revenue", from.Unix(), to.Unix())
	points, err := cached(ctx, key, s.cacheTTL(), func() (*[]RevenuePoint, error) {
		rows, err := s.repo.GetRevenueByMonth(from, to)
		if err != nil {
			return nil, err
		}
		result := make([]RevenuePoint, 0, len(rows))
		for _, row := range rows {
			result = append(result, RevenuePoint{
				Period:   row.Period,
				Orders:   row.Orders,
				Revenue:  money(row.Revenue),
				SubTotal: money(row.SubTotal),
				Profit:   models.NewMoneyFromDecimal(s.profitOf(row.SubTotal)),
			})
		}
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return *points, nil
}

// GetTopProducts 热销商品排行
func (s *StatisticService) GetTopProducts(ctx context.Context, limit int, start, end *time.Time) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	from := time.Unix(0, 0)
	to := time.Now().Add(time.Second)
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	key := cache.StatisticsKey("top_products", limit, from.Unix(), to.Unix())
	items, err := cached(ctx, key, s.cacheTTL(), func() (*[]TopProduct, error) {
		rows, err := s.repo.GetTopProducts(from, to, limit)
		if err != nil {
			return nil, err
		}
		result := make([]TopProduct, 0, len(rows))
		for _, row := range rows {
			result = append(result, TopProduct{
				ProductID:   row.ProductID,
				ProductCode: row.ProductCode,
				ProductName: row.ProductName,
				Quantity:    row.Quantity,
				Revenue:     money(row.Revenue),
			})
		}
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// GetAnalytics 最近 days 天的订单、营收、新客与销量
func (s *StatisticService) GetAnalytics(ctx context.Context, days int) (*Analytics, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}
	now := time.Now()
	since := now.AddDate(0, 0, -days)
	key := cache.StatisticsKey("analytics", days, now.Format(statisticDateLayout))
	return cached(ctx, key, s.cacheTTL(), func() (*Analytics, error) {
		orders, err := s.repo.CountOrders("", &since, nil)
		if err != nil {
			return nil, err
		}
		row, err := s.repo.GetOverview(since, now.Add(time.Second))
		if err != nil {
			return nil, err
		}
		return &Analytics{
			PeriodDays:        days,
			TotalOrders:       orders,
			TotalRevenue:      money(row.TotalRevenue),
			NewCustomers:      row.NewCustomers,
			TotalProductsSold: row.ProductsSold,
		}, nil
	})
}

// GetDashboardStats 今日、本月与全量计数
func (s *StatisticService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	key := cache.StatisticsKey("dashboard", now.Format(statisticDateLayout))
	return cached(ctx, key, s.cacheTTL(), func() (*DashboardStats, error) {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		monthStart, _ := monthRange(now)
		end := now.Add(time.Second)

		todayRow, err := s.repo.GetOverview(today, end)
		if err != nil {
			return nil, err
		}
		monthRow, err := s.repo.GetOverview(monthStart, end)
		if err != nil {
			return nil, err
		}
		stats := &DashboardStats{
			Today: DashboardPeriodStats{Orders: todayRow.TotalOrders, Revenue: money(todayRow.TotalRevenue)},
			Month: DashboardPeriodStats{Orders: monthRow.TotalOrders, Revenue: money(monthRow.TotalRevenue)},
		}
		if stats.Total.Customers, err = s.repo.CountAccounts(constants.RoleCustomer); err != nil {
			return nil, err
		}
		if stats.Total.Products, err = s.repo.CountActiveProducts(); err != nil {
			return nil, err
		}
		if stats.Total.Orders, err = s.repo.CountOrders("", nil, nil); err != nil {
			return nil, err
		}
		if stats.Total.PendingOrders, err = s.repo.CountOrders(constants.OrderStatusPendingConfirm, nil, nil); err != nil {
			return nil, err
		}
		return stats, nil
	})
}

// GenerateDaily 生成指定日期（YYYY-MM-DD，空表示昨天）的经营快照，重复生成覆盖旧值
func (s *StatisticService) GenerateDaily(ctx context.Context, date string) (*models.DailyStatistic, error) {
	day, err := parseStatisticDate(date, time.Now().AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	row, err := s.repo.GetOverview(day, day.AddDate(0, 0, 1))
	if err != nil {
		logger.Errorw("statistics_generate_daily_failed", "date", day.Format(statisticDateLayout), "error", err)
		return nil, err
	}
	stat := &models.DailyStatistic{
		Date:         day.Format(statisticDateLayout),
		TotalOrders:  row.TotalOrders,
		TotalRevenue: money(row.TotalRevenue),
		TotalProfit:  models.NewMoneyFromDecimal(s.profitOf(row.TotalSubTotal)),
		NewCustomers: row.NewCustomers,
		ProductsSold: row.ProductsSold,
	}
	if err := s.repo.UpsertDaily(stat); err != nil {
		logger.Errorw("statistics_generate_daily_failed", "date", stat.Date, "error", err)
		return nil, err
	}
	logger.Infow("statistics_daily_generated", "date", stat.Date, "orders", stat.TotalOrders, "revenue", stat.TotalRevenue.String())
	invalidateStatistics(ctx)
	return stat, nil
}

// RequestDaily 后台手工触发每日快照：队列可用时投递任务并返回 nil 快照，否则或投递失败时同步生成
func (s *StatisticService) RequestDaily(ctx context.Context, date string) (*models.DailyStatistic, error) {
	day, err := parseStatisticDate(date, time.Now().AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	date = day.Format(statisticDateLayout)
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueDailyStatistics(queue.DailyStatisticsPayload{Date: date})
		if err == nil {
			logger.Infow("statistics_daily_enqueued", "date", date)
			return nil, nil
		}
		logger.Warnw("statistics_daily_enqueue_failed", "date", date, "error", err)
	}
	return s.GenerateDaily(ctx, date)
}

// ListDaily 读取每日快照
func (s *StatisticService) ListDaily(from, to string) ([]models.DailyStatistic, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	for _, value := range []string{from, to} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(statisticDateLayout, value); err != nil {
			return nil, withDetails(ErrInvalidDateRange, value)
		}
	}
	if from != "" && to != "" && to < from {
		return nil, ErrInvalidDateRange
	}
	return s.repo.ListDaily(from, to)
}

func money(value float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(value))
}

func parseStatisticDate(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, fallback.Location()), nil
	}
	day, err := time.ParseInLocation(statisticDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, withDetails(ErrInvalidDateRange, value)
	}
	return day, nil
}
