package service

import (
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherDiscount(t *testing.T) {
	percent := &models.Voucher{
		Type:        constants.VoucherTypePercentage,
		Value:       models.NewMoneyFromInt(10),
		MaxDiscount: models.NewMoneyFromInt(20000),
	}
	fixed := &models.Voucher{Type: constants.VoucherTypeFixedAmount, Value: models.NewMoneyFromInt(50000)}
	uncapped := &models.Voucher{Type: constants.VoucherTypePercentage, Value: models.NewMoneyFromInt(10)}

	cases := []struct {
		name    string
		voucher *models.Voucher
		order   int64
		want    int64
	}{
		{"percentage under cap", percent, 150000, 15000},
		{"percentage capped", percent, 300000, 20000},
		{"percentage uncapped", uncapped, 300000, 30000},
		{"fixed", fixed, 300000, 50000},
		{"fixed above order value", fixed, 30000, 50000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := voucherDiscount(tc.voucher, decimal.NewFromInt(tc.order))
			assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "got %s", got.String())
		})
	}
}

func TestVoucherValidate(t *testing.T) {
	env := newTestEnv(t)
	voucher := env.createSale10(t, 1)
	now := time.Now()

	quote, err := env.vouchers.Validate("Sale10", decimal.NewFromInt(300000), now)
	require.NoError(t, err)
	assert.Equal(t, "SALE10", quote.Voucher.Code)
	assert.Equal(t, "20000.00", quote.DiscountAmount.String())

	_, err = env.vouchers.Validate("SALE10", decimal.NewFromInt(90000), now)
	assert.ErrorIs(t, err, ErrVoucherMinOrderValue)

	_, err = env.vouchers.Validate("SALE10", decimal.NewFromInt(300000), now.Add(48*time.Hour))
	assert.ErrorIs(t, err, ErrVoucherExpired)

	_, err = env.vouchers.Validate("SALE10", decimal.NewFromInt(300000), now.Add(-2*time.Hour))
	assert.ErrorIs(t, err, ErrVoucherNotStarted)

	_, err = env.vouchers.Validate("NOPE", decimal.NewFromInt(300000), now)
	assert.ErrorIs(t, err, ErrVoucherNotFound)

	_, err = env.vouchers.Validate("", decimal.NewFromInt(300000), now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.vouchers.IncrementUsage(voucher.ID)
	require.NoError(t, err)
	_, err = env.vouchers.IncrementUsage(voucher.ID)
	assert.ErrorIs(t, err, ErrVoucherExhausted)
	_, err = env.vouchers.Validate("SALE10", decimal.NewFromInt(300000), now)
	assert.ErrorIs(t, err, ErrVoucherExhausted)
}

func TestVoucherValidateFixedAmountReturnsFaceValue(t *testing.T) {
	env := newTestEnv(t)
	env.createFixedVoucher(t, "GIFT500", 500000)

	quote, err := env.vouchers.Validate("GIFT500", decimal.NewFromInt(100000), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "500000.00", quote.DiscountAmount.String())

	quotes, err := env.vouchers.ListAvailable(decimal.NewFromInt(100000), time.Now())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "500000.00", quotes[0].DiscountAmount.String())
}

func TestVoucherCreateRules(t *testing.T) {
	env := newTestEnv(t)
	env.createSale10(t, 5)
	now := time.Now()

	_, err := env.vouchers.Create(VoucherInput{
		Code:      "SALE10",
		Name:      "Trùng mã",
		Type:      constants.VoucherTypeFixedAmount,
		Value:     decimal.NewFromInt(10000),
		Quantity:  1,
		StartDate: now,
		EndDate:   now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrVoucherCodeExists)

	_, err = env.vouchers.Create(VoucherInput{
		Code:      "BAD",
		Name:      "Sai",
		Type:      constants.VoucherTypePercentage,
		Value:     decimal.NewFromInt(150),
		Quantity:  0,
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	fields := map[string]string{}
	for _, issue := range validation.Issues {
		fields[issue.Field] = issue.Rule
	}
	assert.Equal(t, "between", fields["value"])
	assert.Equal(t, "gte", fields["quantity"])
	assert.Equal(t, "after_start", fields["endDate"])
}

func TestVoucherExpireEnded(t *testing.T) {
	env := newTestEnv(t)
	voucher := env.createSale10(t, 5)

	affected, err := env.vouchers.ExpireEnded(time.Now())
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = env.vouchers.ExpireEnded(time.Now().Add(48 * time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	reloaded, err := env.vouchers.Get(voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInactive, reloaded.Status)
}
