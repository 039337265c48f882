package repository

import (
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, db *gorm.DB, code string, variant *models.ProductVariant, qty int, orderStatus, paymentStatus string) *models.Order {
	t.Helper()
	subTotal := variant.Price.MulInt(qty)
	order := &models.Order{
		Code:          code,
		SubTotal:      subTotal,
		Discount:      models.ZeroMoney(),
		Total:         subTotal,
		PaymentMethod: constants.PaymentMethodCash,
		PaymentStatus: paymentStatus,
		OrderStatus:   orderStatus,
		Items: []models.OrderItem{{
			VariantID: variant.ID,
			Quantity:  qty,
			Price:     variant.Price,
		}},
	}
	if orderStatus == constants.OrderStatusCompleted {
		completedAt := time.Now()
		order.CompletedAt = &completedAt
	}
	if err := NewOrderRepository(db).Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderUpdateStatusRequiresExpectedCurrentStatus(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := seedCatalog(t, db, 100000, 5)
	repo := NewOrderRepository(db)
	order := createTestOrder(t, db, "DH26100001", variant, 1, constants.OrderStatusPendingConfirm, constants.OrderPaymentPending)

	affected, err := repo.UpdateStatus(order.ID, constants.OrderStatusPendingConfirm, constants.OrderStatusAwaitShipment, nil)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("update status affected want 1 got %d", affected)
	}

	affected, err = repo.UpdateStatus(order.ID, constants.OrderStatusPendingConfirm, constants.OrderStatusCanceled, nil)
	if err != nil {
		t.Fatalf("stale update status failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("stale update affected want 0 got %d", affected)
	}

	detail, err := repo.GetByID(order.ID)
	if err != nil || detail == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.OrderStatus != constants.OrderStatusAwaitShipment {
		t.Fatalf("order status want %s got %s", constants.OrderStatusAwaitShipment, detail.OrderStatus)
	}
	if len(detail.Items) != 1 || detail.Items[0].Variant == nil || detail.Items[0].Variant.Product == nil {
		t.Fatalf("order detail should preload item variant and product: %+v", detail.Items)
	}
}

func TestOrderDetailKeepsSoftDeletedProduct(t *testing.T) {
	db := setupRepositoryTestDB(t)
	product, variant := seedCatalog(t, db, 100000, 5)
	order := createTestOrder(t, db, "DH26100002", variant, 2, constants.OrderStatusCompleted, constants.OrderPaymentPaid)

	if _, err := NewProductRepository(db).Delete(product.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	detail, err := NewOrderRepository(db).GetByID(order.ID)
	if err != nil || detail == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.Items[0].Variant.Product == nil || detail.Items[0].Variant.Product.ID != product.ID {
		t.Fatalf("deleted product should still be preloaded")
	}
}

func TestOrderListFiltersAndCodeCount(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := seedCatalog(t, db, 100000, 10)
	repo := NewOrderRepository(db)
	createTestOrder(t, db, "DH26100001", variant, 1, constants.OrderStatusPendingConfirm, constants.OrderPaymentPending)
	createTestOrder(t, db, "DH26100002", variant, 1, constants.OrderStatusCompleted, constants.OrderPaymentPaid)

	rows, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, OrderStatus: constants.OrderStatusCompleted})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Code != "DH26100002" {
		t.Fatalf("list by status want DH26100002 got total=%d rows=%+v", total, rows)
	}

	now := time.Now()
	count, err := repo.CountCreatedBetween(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("count created failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("count created want 2 got %d", count)
	}
	exists, err := repo.ExistsCode("DH26100001")
	if err != nil || !exists {
		t.Fatalf("exists code want true got %v err=%v", exists, err)
	}
}
