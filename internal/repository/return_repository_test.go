package repository

import (
	"testing"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnSumReturnedQuantityIgnoresRejectedAndCancelled(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := seedCatalog(t, db, 100000, 10)
	order := createTestOrder(t, db, "DH26100001", variant, 4, constants.OrderStatusCompleted, constants.OrderPaymentPaid)
	item := order.Items[0]
	repo := NewReturnRepository(db)

	statuses := []string{
		constants.ReturnStatusPending,
		constants.ReturnStatusCompleted,
		constants.ReturnStatusRejected,
		constants.ReturnStatusCanceled,
	}
	for i, status := range statuses {
		ret := &models.Return{
			Code:        "TH2610000" + string(rune('1'+i)),
			OrderID:     order.ID,
			Status:      status,
			TotalRefund: item.Price,
			Items: []models.ReturnItem{{
				OrderItemID: item.ID,
				VariantID:   item.VariantID,
				Quantity:    1,
				Price:       item.Price,
			}},
		}
		require.NoError(t, repo.Create(ret))
	}

	returned, err := repo.SumReturnedQuantity(order.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, returned[item.ID])

	stats, err := repo.Stats(nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Total)
	assert.EqualValues(t, 1, stats.ByStatus[constants.ReturnStatusCompleted])
	assert.True(t, stats.CompletedRefund.Equal(item.Price.Decimal), "completed refund got %s", stats.CompletedRefund)

	rows, total, err := repo.List(ReturnListFilter{Page: 1, PageSize: 10, Keyword: "DH2610"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, rows, 4)
}

func TestReturnUpdateStatusAndReplaceItems(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := seedCatalog(t, db, 50000, 10)
	order := createTestOrder(t, db, "DH26100009", variant, 3, constants.OrderStatusCompleted, constants.OrderPaymentPaid)
	repo := NewReturnRepository(db)

	ret := &models.Return{
		Code:    "TH26100001",
		OrderID: order.ID,
		Status:  constants.ReturnStatusPending,
		Items: []models.ReturnItem{{
			OrderItemID: order.Items[0].ID,
			VariantID:   variant.ID,
			Quantity:    1,
			Price:       order.Items[0].Price,
		}},
	}
	require.NoError(t, repo.Create(ret))

	require.NoError(t, repo.ReplaceItems(ret.ID, []models.ReturnItem{{
		OrderItemID: order.Items[0].ID,
		VariantID:   variant.ID,
		Quantity:    2,
		Price:       order.Items[0].Price,
	}}))

	affected, err := repo.UpdateStatus(ret.ID, constants.ReturnStatusPending, constants.ReturnStatusApproved, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	affected, err = repo.UpdateStatus(ret.ID, constants.ReturnStatusPending, constants.ReturnStatusRejected, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	detail, err := repo.GetByID(ret.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)
	assert.Equal(t, constants.ReturnStatusApproved, detail.Status)
}
