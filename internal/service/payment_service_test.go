package service

import (
	"context"
	"testing"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatusFor(t *testing.T) {
	cases := []struct {
		paid, total int64
		want        string
	}{
		{0, 300000, constants.OrderPaymentPending},
		{-1, 300000, constants.OrderPaymentPending},
		{100000, 300000, constants.OrderPaymentPartialPaid},
		{300000, 300000, constants.OrderPaymentPaid},
		{350000, 300000, constants.OrderPaymentPaid},
		{0, 0, constants.OrderPaymentPaid},
	}
	for _, tc := range cases {
		if got := PaymentStatusFor(decimal.NewFromInt(tc.paid), decimal.NewFromInt(tc.total)); got != tc.want {
			t.Fatalf("paid %d of %d: got %s want %s", tc.paid, tc.total, got, tc.want)
		}
	}
}

func createPendingOrder(t *testing.T, env *testEnv, price int64, qty int) *models.Order {
	t.Helper()
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, price, qty+5)
	order, err := env.orders.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: qty}},
		PaymentMethod: constants.PaymentMethodMixed,
		Shipping:      testShipping(),
	})
	require.NoError(t, err)
	return order
}

func loadOrder(t *testing.T, env *testEnv, id uint) *models.Order {
	t.Helper()
	order, err := env.orders.GetOrder(id)
	require.NoError(t, err)
	return order
}

func TestCreatePaymentRecomputesOrderPaymentStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := createPendingOrder(t, env, 100000, 3)

	cash, err := env.payments.CreatePayment(ctx, CreatePaymentInput{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(100000),
		Method:  "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusCompleted, cash.Status)
	assert.NotNil(t, cash.PaidAt)
	assert.Equal(t, constants.OrderPaymentPartialPaid, loadOrder(t, env, order.ID).PaymentStatus)

	transfer, err := env.payments.CreatePayment(ctx, CreatePaymentInput{
		OrderID:        order.ID,
		Amount:         decimal.NewFromInt(200000),
		Method:         constants.PaymentMethodBankTransfer,
		TransactionRef: "FT2406010001",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPending, transfer.Status)
	assert.Equal(t, constants.OrderPaymentPartialPaid, loadOrder(t, env, order.ID).PaymentStatus)

	_, err = env.payments.UpdatePaymentStatus(ctx, transfer.ID, constants.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderPaymentPaid, loadOrder(t, env, order.ID).PaymentStatus)

	_, err = env.payments.UpdatePaymentStatus(ctx, transfer.ID, constants.PaymentStatusFailed)
	assert.ErrorIs(t, err, ErrPaymentStatusInvalid)

	_, err = env.payments.UpdatePaymentStatus(ctx, transfer.ID, constants.PaymentStatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderPaymentPartialPaid, loadOrder(t, env, order.ID).PaymentStatus)

	assert.ErrorIs(t, env.payments.DeletePayment(ctx, cash.ID), ErrPaymentDeleteCompleted)
	require.NoError(t, env.payments.DeletePayment(ctx, transfer.ID))

	payments, err := env.payments.GetPaymentsByOrder(order.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestCreatePaymentRejectsClosedOrdersAndBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := createPendingOrder(t, env, 100000, 1)

	_, err := env.payments.CreatePayment(ctx, CreatePaymentInput{OrderID: order.ID, Amount: decimal.Zero, Method: constants.PaymentMethodCash})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.payments.CreatePayment(ctx, CreatePaymentInput{OrderID: 9999, Amount: decimal.NewFromInt(1), Method: constants.PaymentMethodCash})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = env.orders.CancelOrder(ctx, order.ID, 0)
	require.NoError(t, err)
	_, err = env.payments.CreatePayment(ctx, CreatePaymentInput{OrderID: order.ID, Amount: decimal.NewFromInt(1), Method: constants.PaymentMethodCash})
	assert.ErrorIs(t, err, ErrPaymentOrderClosed)
}

func TestCreateCODPaymentCollectsOutstandingBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := createPendingOrder(t, env, 100000, 2)

	_, err := env.payments.CreateCODPayment(ctx, CreateCODPaymentInput{OrderID: order.ID})
	require.ErrorIs(t, err, ErrPaymentOrderNotDelivered)

	_, err = env.payments.CreatePayment(ctx, CreatePaymentInput{OrderID: order.ID, Amount: decimal.NewFromInt(50000), Method: constants.PaymentMethodCash})
	require.NoError(t, err)
	env.completeOrder(t, order.ID)

	cod, err := env.payments.CreateCODPayment(ctx, CreateCODPaymentInput{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentMethodCOD, cod.Method)
	assert.Equal(t, "150000.00", cod.Amount.String())
	assert.Equal(t, constants.OrderPaymentPaid, loadOrder(t, env, order.ID).PaymentStatus)

	_, err = env.payments.CreateCODPayment(ctx, CreateCODPaymentInput{OrderID: order.ID})
	assert.ErrorIs(t, err, ErrPaymentNothingDue)
}
