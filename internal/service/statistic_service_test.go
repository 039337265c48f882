package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/queue"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsCountPaidCompletedOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 10)

	_, err := env.orders.CreatePOSOrder(ctx, CreatePOSOrderInput{
		StaffID:       staff.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 2}},
		PaymentMethod: constants.PaymentMethodCash,
	})
	require.NoError(t, err)
	pending := createPendingOrder(t, env, 50000, 1)
	require.NotZero(t, pending.ID)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	summary, err := env.statistics.GetStatistics(ctx, StatisticQuery{Type: "DAILY", StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, constants.StatisticPeriodDaily, summary.Type)
	assert.EqualValues(t, 1, summary.TotalOrders)
	assert.Equal(t, "200000.00", summary.TotalRevenue.String())
	assert.Equal(t, "60000.00", summary.TotalProfit.String())
	assert.Equal(t, "200000.00", summary.AverageOrderValue.String())

	_, err = env.statistics.GetStatistics(ctx, StatisticQuery{Type: "hourly"})
	assert.ErrorIs(t, err, ErrStatisticTypeInvalid)

	_, err = env.statistics.GetStatistics(ctx, StatisticQuery{Type: "daily", StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	top, err := env.statistics.GetTopProducts(ctx, 5, &start, &end)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, variant.ProductID, top[0].ProductID)
	assert.EqualValues(t, 2, top[0].Quantity)
}

func TestGenerateDailyUpserts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	today := time.Now().Format("2006-01-02")

	first, err := env.statistics.GenerateDaily(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, first.TotalOrders)

	staff := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 10)
	_, err = env.orders.CreatePOSOrder(ctx, CreatePOSOrderInput{
		StaffID:       staff.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 3}},
		PaymentMethod: constants.PaymentMethodCash,
	})
	require.NoError(t, err)

	second, err := env.statistics.GenerateDaily(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, second.TotalOrders)
	assert.EqualValues(t, 3, second.ProductsSold)
	assert.True(t, second.TotalRevenue.Equal(decimal.NewFromInt(300000)))

	rows, err := env.statistics.ListDaily(today, today)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0].TotalOrders)

	_, err = env.statistics.GenerateDaily(ctx, "2024-13-40")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestProfitOfRounds(t *testing.T) {
	env := newTestEnv(t)
	assert.True(t, env.statistics.profitOf(333333).Equal(decimal.NewFromInt(100000)))
}

func TestRequestDailyGeneratesInlineWithoutQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	stat, err := env.statistics.RequestDaily(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, stat)
	assert.Equal(t, yesterday, stat.Date)

	_, err = env.statistics.RequestDaily(ctx, "15/01/2026")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestRequestDailyFallsBackWhenEnqueueFails(t *testing.T) {
	env := newTestEnv(t)
	// 指向无人监听的端口，投递必然失败
	client, err := queue.NewClient(&config.QueueConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.True(t, client.Enabled())

	statistics := NewStatisticService(env.cfg, repository.NewStatisticRepository(env.db), client)
	stat, err := statistics.RequestDaily(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.NotNil(t, stat)
	assert.Equal(t, "2026-01-15", stat.Date)

	rows, err := statistics.ListDaily("2026-01-15", "2026-01-15")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
