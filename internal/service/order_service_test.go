package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderDecrementsStockAndCancelRestoresIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 5)

	order, err := env.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 3}},
		PaymentMethod: "cod",
		Shipping:      testShipping(),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusPendingConfirm, order.OrderStatus)
	assert.Equal(t, constants.OrderPaymentPending, order.PaymentStatus)
	assert.Equal(t, "300000.00", order.Total.String())
	assert.Regexp(t, `^DH\d{4}\d{4}$`, order.Code)
	assert.Equal(t, 2, env.stockOf(t, variant.ID))

	canceled, err := env.orders.CancelOrder(ctx, order.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusCanceled, canceled.OrderStatus)
	assert.NotNil(t, canceled.CanceledAt)
	assert.Equal(t, 5, env.stockOf(t, variant.ID))

	_, err = env.orders.CancelOrder(ctx, order.ID, 0)
	assert.ErrorIs(t, err, ErrOrderAlreadyCanceled)
	assert.Equal(t, 5, env.stockOf(t, variant.ID))
}

func TestCreateOrderRejectsInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 2)

	_, err := env.orders.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderLineInput{
			{VariantID: variant.ID, Quantity: 2},
			{VariantID: variant.ID, Quantity: 1},
		},
		PaymentMethod: constants.PaymentMethodCash,
		Shipping:      testShipping(),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, env.stockOf(t, variant.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderResolvesVariantByAttributes(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 50000, 4)
	other := env.seedVariant(t, 70000, 4)

	order, err := env.orders.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderLineInput{{
			ProductID: variant.ProductID,
			ColorID:   variant.ColorID,
			SizeID:    variant.SizeID,
			Quantity:  2,
		}},
		PaymentMethod: constants.PaymentMethodCash,
		Shipping:      testShipping(),
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, variant.ID, order.Items[0].VariantID)
	assert.Equal(t, "50000.00", order.Items[0].Price.String())

	_, err = env.orders.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: other.ID, ProductID: variant.ProductID, Quantity: 1}},
		PaymentMethod: constants.PaymentMethodCash,
		Shipping:      testShipping(),
	})
	assert.ErrorIs(t, err, ErrVariantNotInProduct)
}

func TestCreateOrderAppliesVoucherAndChecksClientTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 150000, 10)
	voucher := env.createSale10(t, 1)

	wrongTotal := decimal.NewFromInt(300000)
	_, err := env.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 2}},
		PaymentMethod: constants.PaymentMethodCash,
		VoucherCode:   "SALE10",
		Total:         &wrongTotal,
		Shipping:      testShipping(),
	})
	require.ErrorIs(t, err, ErrOrderTotalMismatch)
	assert.Equal(t, 10, env.stockOf(t, variant.ID))

	total := decimal.NewFromInt(280000)
	order, err := env.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 2}},
		PaymentMethod: constants.PaymentMethodCash,
		VoucherCode:   "sale10",
		Total:         &total,
		Shipping:      testShipping(),
	})
	require.NoError(t, err)
	assert.Equal(t, "300000.00", order.SubTotal.String())
	assert.Equal(t, "20000.00", order.Discount.String())
	assert.Equal(t, "280000.00", order.Total.String())
	require.NotNil(t, order.VoucherID)
	assert.Equal(t, voucher.ID, *order.VoucherID)

	used, err := env.vouchers.Get(voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, used.UsedCount)

	_, err = env.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 2}},
		PaymentMethod: constants.PaymentMethodCash,
		VoucherCode:   "SALE10",
		Shipping:      testShipping(),
	})
	assert.ErrorIs(t, err, ErrVoucherExhausted)

	_, err = env.orders.CancelOrder(ctx, order.ID, 0)
	require.NoError(t, err)
	used, _ = env.vouchers.Get(voucher.ID)
	assert.Equal(t, 0, used.UsedCount)
}

func TestUpdateOrderStatusFollowsTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 5)
	order, err := env.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 1}},
		PaymentMethod: constants.PaymentMethodCOD,
		Shipping:      testShipping(),
	})
	require.NoError(t, err)

	_, err = env.orders.UpdateOrderStatus(ctx, order.ID, constants.OrderStatusDelivered)
	require.ErrorIs(t, err, ErrOrderStatusInvalid)

	completed := env.completeOrder(t, order.ID)
	assert.Equal(t, constants.OrderStatusCompleted, completed.OrderStatus)
	assert.NotNil(t, completed.CompletedAt)

	_, err = env.orders.UpdateOrderStatus(ctx, order.ID, constants.OrderStatusCanceled)
	assert.ErrorIs(t, err, ErrOrderCannotCancel)
	assert.Equal(t, 4, env.stockOf(t, variant.ID))

	_, err = env.orders.UpdateOrderStatus(ctx, order.ID, "UNKNOWN")
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))

	var notifications []models.Notification
	require.NoError(t, env.db.Where("account_id = ? AND type = ?", customer.ID, constants.NotificationTypeOrder).Find(&notifications).Error)
	assert.Len(t, notifications, 5)
}

func TestCustomerCancelRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createCustomer(t)
	stranger := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 5)
	order, err := env.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerID:      owner.ID,
		Items:           []OrderLineInput{{VariantID: variant.ID, Quantity: 1}},
		PaymentMethod:   constants.PaymentMethodCOD,
		Shipping:        testShipping(),
		RequireShipping: true,
	})
	require.NoError(t, err)

	_, err = env.orders.CancelOrder(ctx, order.ID, stranger.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.orders.UpdateOrderStatus(ctx, order.ID, constants.OrderStatusAwaitShipment)
	require.NoError(t, err)
	_, err = env.orders.CancelOrder(ctx, order.ID, owner.ID)
	require.ErrorIs(t, err, ErrOrderCannotCancel)

	canceled, err := env.orders.CancelOrder(ctx, order.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusCanceled, canceled.OrderStatus)
}

func TestCreateOrderRequiresShippingForCustomers(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 5)

	_, err := env.orders.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:      customer.ID,
		Items:           []OrderLineInput{{VariantID: variant.ID, Quantity: 1}},
		PaymentMethod:   constants.PaymentMethodCOD,
		RequireShipping: true,
	})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "shippingAddress", validation.Issues[0].Field)
}

func TestCreatePOSOrderIsPaidAndCompleted(t *testing.T) {
	env := newTestEnv(t)
	staff, err := env.accounts.Create(CreateAccountInput{
		FullName:    "Thu ngân",
		Email:       "cashier@example.com",
		PhoneNumber: "0912345678",
		Password:    "secret123",
		Role:        constants.RoleAdmin,
	})
	require.NoError(t, err)
	variant := env.seedVariant(t, 120000, 3)

	order, err := env.orders.CreatePOSOrder(context.Background(), CreatePOSOrderInput{
		StaffID:       staff.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 1}},
		PaymentMethod: constants.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusCompleted, order.OrderStatus)
	assert.Equal(t, constants.OrderPaymentPaid, order.PaymentStatus)
	assert.NotNil(t, order.CompletedAt)
	assert.Nil(t, order.CustomerID)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, constants.PaymentStatusCompleted, order.Payments[0].Status)
	assert.Equal(t, "120000.00", order.Payments[0].Amount.String())
	assert.Equal(t, 2, env.stockOf(t, variant.ID))
}

func TestCreateOrderCoveredByFixedVoucherIsPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t)
	variant := env.seedVariant(t, 100000, 5)
	env.createFixedVoucher(t, "GIFT500", 500000)

	order, err := env.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerID:    customer.ID,
		Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 1}},
		PaymentMethod: constants.PaymentMethodCOD,
		VoucherCode:   "GIFT500",
		Shipping:      testShipping(),
	})
	require.NoError(t, err)
	assert.Equal(t, "100000.00", order.Discount.String())
	assert.Equal(t, "0.00", order.Total.String())
	assert.Equal(t, constants.OrderPaymentPaid, order.PaymentStatus)

	completed := env.completeOrder(t, order.ID)
	assert.Equal(t, constants.OrderPaymentPaid, completed.PaymentStatus)
	_, err = env.payments.CreateCODPayment(ctx, CreateCODPaymentInput{OrderID: order.ID})
	assert.ErrorIs(t, err, ErrPaymentNothingDue)
}

func TestAdminCancelRestoresStockFromEveryOpenStatus(t *testing.T) {
	path := []string{
		constants.OrderStatusAwaitShipment,
		constants.OrderStatusShipping,
		constants.OrderStatusDelivered,
	}
	for steps, status := range append([]string{constants.OrderStatusPendingConfirm}, path...) {
		t.Run(status, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			customer := env.createCustomer(t)
			variant := env.seedVariant(t, 100000, 5)
			order, err := env.orders.CreateOrder(ctx, CreateOrderInput{
				CustomerID:    customer.ID,
				Items:         []OrderLineInput{{VariantID: variant.ID, Quantity: 3}},
				PaymentMethod: constants.PaymentMethodCOD,
				Shipping:      testShipping(),
			})
			require.NoError(t, err)
			for _, next := range path[:steps] {
				_, err := env.orders.UpdateOrderStatus(ctx, order.ID, next)
				require.NoError(t, err)
			}
			assert.Equal(t, 2, env.stockOf(t, variant.ID))

			canceled, err := env.orders.CancelOrder(ctx, order.ID, 0)
			require.NoError(t, err)
			assert.Equal(t, constants.OrderStatusCanceled, canceled.OrderStatus)
			assert.Equal(t, 5, env.stockOf(t, variant.ID))

			_, err = env.orders.CancelOrder(ctx, order.ID, 0)
			assert.ErrorIs(t, err, ErrOrderAlreadyCanceled)
		})
	}
}

func TestIsTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{constants.OrderStatusPendingConfirm, constants.OrderStatusAwaitShipment, true},
		{constants.OrderStatusPendingConfirm, constants.OrderStatusShipping, false},
		{constants.OrderStatusAwaitShipment, constants.OrderStatusCanceled, true},
		{constants.OrderStatusShipping, constants.OrderStatusCanceled, false},
		{constants.OrderStatusDelivered, constants.OrderStatusCompleted, true},
		{constants.OrderStatusCompleted, constants.OrderStatusCanceled, false},
		{constants.OrderStatusCanceled, constants.OrderStatusPendingConfirm, false},
	}
	for _, tc := range cases {
		if got := isTransitionAllowed(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
