//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	allModels := models.AllModels()
	_ = db.Migrator().DropTable(allModels...)
	if err := db.SetupJoinTable(&models.Promotion{}, "Products", &models.PromotionProduct{}); err != nil {
		t.Fatalf("setup join table failed: %v", err)
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(allModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	product, variant := seedCatalog(t, db, 100000, 5)

	repo := NewProductRepository(db)
	rows, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Keyword: "GIÀY"})
	if err != nil {
		t.Fatalf("product search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != product.ID {
		t.Fatalf("product search want 1 got total=%d len=%d", total, len(rows))
	}

	minPrice := float64(150000)
	_, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, MinPrice: &minPrice})
	if err != nil {
		t.Fatalf("product price filter failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("price filter want 0 got %d", total)
	}

	_, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, ColorID: variant.ColorID, SortBy: "price_asc"})
	if err != nil {
		t.Fatalf("product color filter failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("color filter want 1 got %d", total)
	}
}

func TestPostgresOrderLockAndStatisticsBuckets(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	_, variant := seedCatalog(t, db, 120000, 10)
	order := createTestOrder(t, db, "DH26100001", variant, 2, constants.OrderStatusCompleted, constants.OrderPaymentPaid)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := NewOrderRepository(tx).LockByID(order.ID)
		if err != nil {
			return err
		}
		if locked == nil || locked.ID != order.ID {
			t.Fatalf("lock by id returned %+v", locked)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("lock transaction failed: %v", err)
	}

	now := time.Now()
	repo := NewStatisticRepository(db)
	days, err := repo.GetRevenueByDay(now.Add(-24*time.Hour), now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("revenue by day failed: %v", err)
	}
	if len(days) != 1 || days[0].Revenue != 240000 {
		t.Fatalf("revenue by day unexpected: %+v", days)
	}
}
