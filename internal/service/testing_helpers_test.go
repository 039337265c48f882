package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/queue"
	"github.com/shopdesk/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// testEnv 测试用的完整服务集合（队列与缓存均关闭）
type testEnv struct {
	db            *gorm.DB
	cfg           *config.Config
	accounts      *AccountService
	auth          *AuthService
	notifications *NotificationService
	vouchers      *VoucherService
	orders        *OrderService
	payments      *PaymentService
	returns       *ReturnService
	promotions    *PromotionService
	statistics    *StatisticService
	colors        *AttributeService[models.Color]
	sizes         *AttributeService[models.Size]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.DefaultLocale = constants.DefaultLocale
	cfg.JWT.SecretKey = "test-secret-with-enough-length"
	cfg.JWT.ExpireHours = 24
	cfg.Security.PasswordPolicy.MinLength = 6
	cfg.Order.ReturnWindowDays = 30
	cfg.Statistics.ProfitRate = 0.3
	cfg.Notification.BroadcastBatchSize = 2
	return cfg
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.SetupJoinTable(&models.Promotion{}, "Products", &models.PromotionProduct{}); err != nil {
		t.Fatalf("setup join table failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupServiceTestDB(t)
	cfg := testConfig()
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	accountRepo := repository.NewAccountRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	productRepo := repository.NewProductRepository(db)

	notifications := NewNotificationService(cfg, repository.NewNotificationRepository(db), accountRepo, orderRepo, queueClient)
	return &testEnv{
		db:            db,
		cfg:           cfg,
		accounts:      NewAccountService(cfg, accountRepo),
		auth:          NewAuthService(cfg, accountRepo, NewLoginLogService(repository.NewAccountLoginLogRepository(db)), NewCaptchaService(cfg.Captcha)),
		notifications: notifications,
		vouchers:      NewVoucherService(voucherRepo, notifications),
		orders: NewOrderService(OrderServiceDeps{
			OrderRepo:     orderRepo,
			VariantRepo:   variantRepo,
			VoucherRepo:   voucherRepo,
			PaymentRepo:   paymentRepo,
			AccountRepo:   accountRepo,
			AddressRepo:   addressRepo,
			Notifications: notifications,
		}),
		payments:   NewPaymentService(paymentRepo, orderRepo),
		returns:    NewReturnService(cfg, repository.NewReturnRepository(db), orderRepo, variantRepo),
		promotions: NewPromotionService(repository.NewPromotionRepository(db), productRepo, notifications),
		statistics: NewStatisticService(cfg, repository.NewStatisticRepository(db), queueClient),
		colors:     NewColorService(repository.NewCrudRepository[models.Color](db, "name")),
		sizes:      NewSizeService(repository.NewCrudRepository[models.Size](db, "")),
	}
}

var testSeq int64

func nextSeq() int64 {
	testSeq++
	return time.Now().UnixNano()%1000000 + testSeq
}

// createCustomer 直接写入一个启用的客户账户
func (e *testEnv) createCustomer(t *testing.T) *models.Account {
	t.Helper()
	seq := nextSeq()
	account, err := e.accounts.Create(CreateAccountInput{
		FullName:    "Nguyễn Văn A",
		Email:       fmt.Sprintf("customer%d@example.com", seq),
		PhoneNumber: fmt.Sprintf("09%08d", seq%100000000),
		Password:    "secret123",
		Role:        constants.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return account
}

// seedVariant 写入一件单规格商品，返回规格
func (e *testEnv) seedVariant(t *testing.T, price int64, stock int) *models.ProductVariant {
	t.Helper()
	seq := nextSeq()
	brand := &models.Brand{Name: fmt.Sprintf("Brand-%d", seq), Status: constants.StatusActive}
	category := &models.Category{Name: fmt.Sprintf("Category-%d", seq), Status: constants.StatusActive}
	material := &models.Material{Name: fmt.Sprintf("Material-%d", seq), Status: constants.StatusActive}
	color := &models.Color{Name: fmt.Sprintf("Color-%d", seq), Code: fmt.Sprintf("#C%d", seq), Status: constants.StatusActive}
	size := &models.Size{Value: decimal.NewFromInt(testSeq%400 + 1), Status: constants.StatusActive}
	for _, row := range []interface{}{brand, category, material, color, size} {
		if err := e.db.Create(row).Error; err != nil {
			t.Fatalf("create catalog row failed: %v", err)
		}
	}
	product := &models.Product{
		Code:       fmt.Sprintf("PRD%06d", seq%1000000),
		Name:       "Giày chạy bộ",
		BrandID:    brand.ID,
		CategoryID: category.ID,
		MaterialID: material.ID,
		Status:     constants.StatusActive,
		Variants: []models.ProductVariant{{
			ColorID: color.ID,
			SizeID:  size.ID,
			Price:   models.NewMoneyFromInt(price),
			Stock:   stock,
		}},
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product.Variants[0]
}

func (e *testEnv) stockOf(t *testing.T, variantID uint) int {
	t.Helper()
	var variant models.ProductVariant
	if err := e.db.First(&variant, variantID).Error; err != nil {
		t.Fatalf("load variant failed: %v", err)
	}
	return variant.Stock
}

// createSale10 写入 SALE10：九折，最高减 20000，最低订单 100000
func (e *testEnv) createSale10(t *testing.T, quantity int) *models.Voucher {
	t.Helper()
	now := time.Now()
	voucher, err := e.vouchers.Create(VoucherInput{
		Code:          "sale10",
		Name:          "Giảm 10%",
		Type:          constants.VoucherTypePercentage,
		Value:         decimal.NewFromInt(10),
		Quantity:      quantity,
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(24 * time.Hour),
		MinOrderValue: decimal.NewFromInt(100000),
		MaxDiscount:   decimal.NewFromInt(20000),
	})
	if err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	return voucher
}

// createFixedVoucher 写入一张固定金额券，无最低订单金额
func (e *testEnv) createFixedVoucher(t *testing.T, code string, value int64) *models.Voucher {
	t.Helper()
	now := time.Now()
	voucher, err := e.vouchers.Create(VoucherInput{
		Code:      code,
		Name:      "Giảm tiền mặt",
		Type:      constants.VoucherTypeFixedAmount,
		Value:     decimal.NewFromInt(value),
		Quantity:  10,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	return voucher
}

func testShipping() *ShippingInput {
	return &ShippingInput{
		Name:            "Nguyễn Văn A",
		PhoneNumber:     "0901234567",
		ProvinceID:      "79",
		DistrictID:      "760",
		WardID:          "26734",
		SpecificAddress: "12 Nguyễn Huệ",
	}
}

// completeOrder 将订单按流转表推进到 HOAN_THANH
func (e *testEnv) completeOrder(t *testing.T, orderID uint) *models.Order {
	t.Helper()
	var order *models.Order
	for _, status := range []string{
		constants.OrderStatusAwaitShipment,
		constants.OrderStatusShipping,
		constants.OrderStatusDelivered,
		constants.OrderStatusCompleted,
	} {
		var err error
		order, err = e.orders.UpdateOrderStatus(context.Background(), orderID, status)
		if err != nil {
			t.Fatalf("advance order to %s failed: %v", status, err)
		}
	}
	return order
}
