package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionProductsMustExist(t *testing.T) {
	env := newTestEnv(t)
	variant := env.seedVariant(t, 100000, 3)
	now := time.Now()

	_, err := env.promotions.Create(PromotionInput{
		Name:            "Black Friday",
		DiscountPercent: 30,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		ProductIDs:      []uint{variant.ProductID, 9991, 9992},
	})
	var detail *DetailError
	require.ErrorAs(t, err, &detail)
	assert.ErrorIs(t, err, ErrPromotionProductsNotFound)
	assert.Equal(t, []string{"9991", "9992"}, detail.Details)

	_, err = env.promotions.Create(PromotionInput{
		Name:            "Sai",
		DiscountPercent: 120,
		StartDate:       now,
		EndDate:         now,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPromotionListForProduct(t *testing.T) {
	env := newTestEnv(t)
	variant := env.seedVariant(t, 100000, 3)
	now := time.Now()

	small, err := env.promotions.Create(PromotionInput{
		Name:            "Giảm nhẹ",
		DiscountPercent: 5,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		ProductIDs:      []uint{variant.ProductID},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusActive, small.Status)
	assert.Len(t, small.Products, 1)

	big, err := env.promotions.Create(PromotionInput{
		Name:            "Giảm sâu",
		DiscountPercent: 40,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		ProductIDs:      []uint{variant.ProductID},
	})
	require.NoError(t, err)

	_, err = env.promotions.Create(PromotionInput{
		Name:            "Chưa bắt đầu",
		DiscountPercent: 50,
		StartDate:       now.Add(24 * time.Hour),
		EndDate:         now.Add(48 * time.Hour),
		ProductIDs:      []uint{variant.ProductID},
	})
	require.NoError(t, err)

	active, err := env.promotions.ListForProduct(variant.ProductID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, big.ID, active[0].ID)
	assert.Equal(t, small.ID, active[1].ID)

	empty := []uint{}
	_, err = env.promotions.Update(big.ID, PromotionUpdateInput{ProductIDs: &empty})
	require.NoError(t, err)
	active, err = env.promotions.ListForProduct(variant.ProductID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestPromotionNotifyCustomers(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	promotion, err := env.promotions.Create(PromotionInput{
		Name:            "Sale hè",
		DiscountPercent: 20,
		StartDate:       now,
		EndDate:         now.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = env.promotions.NotifyCustomers(context.Background(), promotion.ID)
	require.ErrorIs(t, err, ErrNoCustomers)

	for i := 0; i < 3; i++ {
		env.createCustomer(t)
	}
	result, err := env.promotions.NotifyCustomers(context.Background(), promotion.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.NotificationsSent)
}
