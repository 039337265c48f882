package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCompletedOrder(t *testing.T, env *testEnv, customer *models.Account, variant *models.ProductVariant, qty int) *models.Order {
	t.Helper()
	order, err := env.orders.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: qty}},
		PaymentMethod: constants.PaymentMethodCOD,
		Shipping:      testShipping(),
	})
	require.NoError(t, err)
	env.completeOrder(t, order.ID)
	return loadOrder(t, env, order.ID)
}

func TestReturnLifecycleRestoresStockOnCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 80000, 5)
	order := createCompletedOrder(t, env, customer, variant, 3)
	require.Equal(t, 2, env.stockOf(t, variant.ID))

	ret, err := env.returns.CreateReturnRequest(customer.ID, CreateReturnInput{
		OrderID: order.ID,
		Reason:  "Không vừa size",
		Items:   []ReturnItemInput{{VariantID: variant.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.ReturnStatusPending, ret.Status)
	assert.Equal(t, "160000.00", ret.TotalRefund.String())
	assert.Regexp(t, `^TH\d{8}$`, ret.Code)

	_, err = env.returns.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Items:   []ReturnItemInput{{OrderItemID: order.Items[0].ID, Quantity: 2}},
	})
	require.ErrorIs(t, err, ErrReturnQuantityExceeded)

	_, err = env.returns.UpdateReturnStatus(ctx, ret.ID, constants.ReturnStatusCompleted, nil, "")
	require.ErrorIs(t, err, ErrReturnStatusInvalid)

	_, err = env.returns.UpdateReturnStatus(ctx, ret.ID, constants.ReturnStatusApproved, nil, "")
	require.NoError(t, err)
	_, err = env.returns.UpdateReturn(ret.ID, UpdateReturnInput{Items: &[]ReturnItemInput{{VariantID: variant.ID, Quantity: 1}}})
	require.ErrorIs(t, err, ErrReturnNotEditable)

	done, err := env.returns.UpdateReturnStatus(ctx, ret.ID, constants.ReturnStatusCompleted, nil, "đã nhận hàng")
	require.NoError(t, err)
	assert.Equal(t, constants.ReturnStatusCompleted, done.Status)
	assert.NotNil(t, done.ProcessedAt)
	assert.Equal(t, 4, env.stockOf(t, variant.ID))
	assert.ErrorIs(t, env.returns.DeleteReturn(ret.ID), ErrReturnDeleteCompleted)

	stats, err := env.returns.GetReturnStats(nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.CompletedReturns)
	assert.True(t, decimal.NewFromInt(160000).Equal(stats.CompletedRefund), stats.CompletedRefund.String())
}

func TestReturnRequestRules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createCustomer(t)
	stranger := env.createCustomer(t)
	variant := env.seedVariant(t, 80000, 5)

	pending, err := env.orders.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    owner.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 1}},
		PaymentMethod: constants.PaymentMethodCOD,
		Shipping:      testShipping(),
	})
	require.NoError(t, err)
	_, err = env.returns.CreateReturnRequest(owner.ID, CreateReturnInput{
		OrderID: pending.ID,
		Items:   []ReturnItemInput{{VariantID: variant.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrReturnOrderNotCompleted)

	order := createCompletedOrder(t, env, owner, variant, 1)
	_, err = env.returns.CreateReturnRequest(stranger.ID, CreateReturnInput{
		OrderID: order.ID,
		Items:   []ReturnItemInput{{VariantID: variant.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrForbidden)

	returnable, err := env.returns.ListReturnableOrders(owner.ID)
	require.NoError(t, err)
	assert.Len(t, returnable, 1)

	old := time.Now().AddDate(0, 0, -31)
	require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("completed_at", old).Error)
	_, err = env.returns.CreateReturnRequest(owner.ID, CreateReturnInput{
		OrderID: order.ID,
		Items:   []ReturnItemInput{{VariantID: variant.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrReturnWindowExpired)

	returnable, err = env.returns.ListReturnableOrders(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, returnable)

	admin, err := env.returns.CreateReturn(CreateReturnInput{
		OrderID: order.ID,
		Items:   []ReturnItemInput{{ProductID: variant.ProductID, ColorID: variant.ColorID, SizeID: variant.SizeID, Quantity: 1}},
	})
	require.NoError(t, err)

	mine, err := env.returns.GetMyReturn(admin.ID, owner.ID)
	require.NoError(t, err)
	canceled, err := env.returns.CancelMyReturn(mine.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReturnStatusCanceled, canceled.Status)

	_, err = env.returns.GetMyReturn(admin.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrReturnNotFound)
}

func TestWithinReturnWindow(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	completed := now.AddDate(0, 0, -30)
	order := &models.Order{CompletedAt: &completed, UpdatedAt: now}
	assert.True(t, withinReturnWindow(order, 30, now))
	assert.False(t, withinReturnWindow(order, 30, now.Add(time.Second)))

	fallback := &models.Order{UpdatedAt: now.AddDate(0, 0, -40)}
	assert.False(t, withinReturnWindow(fallback, 30, now))
}
