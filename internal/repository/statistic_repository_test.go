package repository

import (
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"
)

func TestStatisticOverviewCountsOnlyCompletedPaidOrders(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := seedCatalog(t, db, 100000, 20)
	createTestOrder(t, db, "DH26100001", variant, 2, constants.OrderStatusCompleted, constants.OrderPaymentPaid)
	createTestOrder(t, db, "DH26100002", variant, 1, constants.OrderStatusCompleted, constants.OrderPaymentPartialPaid)
	createTestOrder(t, db, "DH26100003", variant, 5, constants.OrderStatusCompleted, constants.OrderPaymentPending)
	createTestOrder(t, db, "DH26100004", variant, 3, constants.OrderStatusPendingConfirm, constants.OrderPaymentPaid)

	if err := db.Create(&models.Account{
		Code: "CUS000126", FullName: "Khách", PhoneNumber: "0900000001", Email: "khach@example.com",
		PasswordHash: "hash", Role: constants.RoleCustomer, Status: constants.StatusActive,
	}).Error; err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	repo := NewStatisticRepository(db)
	now := time.Now()
	row, err := repo.GetOverview(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if row.TotalOrders != 2 {
		t.Fatalf("total orders want 2 got %d", row.TotalOrders)
	}
	if row.TotalRevenue != 300000 {
		t.Fatalf("total revenue want 300000 got %.2f", row.TotalRevenue)
	}
	if row.ProductsSold != 3 {
		t.Fatalf("products sold want 3 got %d", row.ProductsSold)
	}
	if row.NewCustomers != 1 {
		t.Fatalf("new customers want 1 got %d", row.NewCustomers)
	}

	top, err := repo.GetTopProducts(now.Add(-time.Hour), now.Add(time.Hour), 5)
	if err != nil {
		t.Fatalf("get top products failed: %v", err)
	}
	if len(top) != 1 || top[0].Quantity != 8 {
		t.Fatalf("top products want one row with quantity 8 got %+v", top)
	}

	months, err := repo.GetRevenueByMonth(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("revenue by month failed: %v", err)
	}
	if len(months) != 1 || months[0].Orders != 2 || months[0].Period != now.UTC().Format("2006-01") {
		t.Fatalf("revenue by month unexpected: %+v", months)
	}
}

func TestStatisticUpsertDailyOverwrites(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewStatisticRepository(db)

	first := &models.DailyStatistic{Date: "2026-10-01", TotalOrders: 1, TotalRevenue: models.NewMoneyFromInt(100)}
	if err := repo.UpsertDaily(first); err != nil {
		t.Fatalf("upsert daily failed: %v", err)
	}
	second := &models.DailyStatistic{Date: "2026-10-01", TotalOrders: 4, TotalRevenue: models.NewMoneyFromInt(400)}
	if err := repo.UpsertDaily(second); err != nil {
		t.Fatalf("upsert daily again failed: %v", err)
	}
	rows, err := repo.ListDaily("2026-10-01", "2026-10-31")
	if err != nil {
		t.Fatalf("list daily failed: %v", err)
	}
	if len(rows) != 1 || rows[0].TotalOrders != 4 {
		t.Fatalf("daily snapshot should be overwritten: %+v", rows)
	}
}
