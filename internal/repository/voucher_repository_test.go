package repository

import (
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestVoucher(t *testing.T, repo *GormVoucherRepository, code string, quantity int, start, end time.Time) *models.Voucher {
	t.Helper()
	voucher := &models.Voucher{
		Code:          code,
		Name:          code,
		Type:          constants.VoucherTypePercentage,
		Value:         models.NewMoneyFromInt(10),
		Quantity:      quantity,
		StartDate:     start,
		EndDate:       end,
		MinOrderValue: models.NewMoneyFromInt(100000),
		MaxDiscount:   models.NewMoneyFromInt(20000),
		Status:        constants.StatusActive,
	}
	require.NoError(t, repo.Create(voucher))
	return voucher
}

func TestVoucherUsedCountNeverExceedsQuantity(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewVoucherRepository(db)
	now := time.Now()
	voucher := createTestVoucher(t, repo, "SALE10", 2, now.Add(-time.Hour), now.Add(time.Hour))

	for i := 0; i < 2; i++ {
		affected, err := repo.IncrementUsedCount(voucher.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)
	}
	affected, err := repo.IncrementUsedCount(voucher.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	current, err := repo.GetByCode("sale10")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 2, current.UsedCount)

	deleted, err := repo.Delete(voucher.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)

	for i := 0; i < 3; i++ {
		_, err := repo.DecrementUsedCount(voucher.ID)
		require.NoError(t, err)
	}
	current, _ = repo.GetByID(voucher.ID)
	assert.Equal(t, 0, current.UsedCount)
}

func TestVoucherListAvailableAndExpire(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewVoucherRepository(db)
	now := time.Now()
	createTestVoucher(t, repo, "ACTIVE1", 5, now.Add(-time.Hour), now.Add(time.Hour))
	createTestVoucher(t, repo, "ENDED1", 5, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	createTestVoucher(t, repo, "FUTURE1", 5, now.Add(24*time.Hour), now.Add(48*time.Hour))

	rows, err := repo.ListAvailable(300000, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACTIVE1", rows[0].Code)

	rows, err = repo.ListAvailable(50000, now)
	require.NoError(t, err)
	assert.Empty(t, rows)

	expired, err := repo.ExpireEnded(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	ended, err := repo.GetByCode("ENDED1")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInactive, ended.Status)
}
