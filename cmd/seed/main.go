package main

import (
	"errors"
	"time"

	"github.com/shopdesk/internal/config"
	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/provider"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name     string
	brand    string
	category string
	material string
	weight   string
	price    string
	colors   []string
	sizes    []string
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	// 连接数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, models.DBOptions{LogLevel: cfg.Database.LogLevel}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAdmin(models.DefaultAdminInput{
		Email:    cfg.DefaultAdmin.Email,
		Password: cfg.DefaultAdmin.Password,
		FullName: cfg.DefaultAdmin.FullName,
		Phone:    cfg.DefaultAdmin.Phone,
	}); err != nil {
		stdLog.Printf("Failed to init admin: %v", err)
	}

	c := provider.NewContainer(cfg)
	defer c.Close()

	seedCustomer(c)

	for _, name := range []string{"Nike", "Adidas", "Biti's", "Converse"} {
		seedAttribute(c.BrandService, "brand", name, service.AttributeInput{Name: strPtr(name)})
	}
	for _, name := range []string{"Sneaker", "Running", "Sandal", "Boot"} {
		seedAttribute(c.CategoryService, "category", name, service.AttributeInput{Name: strPtr(name)})
	}
	for _, name := range []string{"Leather", "Canvas", "Mesh"} {
		seedAttribute(c.MaterialService, "material", name, service.AttributeInput{Name: strPtr(name)})
	}
	colorCodes := map[string]string{"Black": "#000000", "White": "#FFFFFF", "Red": "#FF0000"}
	for _, name := range []string{"Black", "White", "Red"} {
		seedAttribute(c.ColorService, "color", name, service.AttributeInput{Name: strPtr(name), Code: strPtr(colorCodes[name])})
	}
	for _, v := range []string{"38", "39", "40", "41", "42", "43"} {
		value := decimal.RequireFromString(v)
		seedAttribute(c.SizeService, "size", v, service.AttributeInput{Value: &value})
	}

	products := []seedProduct{
		{name: "Air Runner", brand: "Nike", category: "Running", material: "Mesh", weight: "0.8", price: "1500000", colors: []string{"Black", "White"}, sizes: []string{"40", "41", "42"}},
		{name: "Court Classic", brand: "Adidas", category: "Sneaker", material: "Leather", weight: "1.1", price: "1850000", colors: []string{"White"}, sizes: []string{"39", "40", "41", "42", "43"}},
		{name: "Hunter Street", brand: "Biti's", category: "Sneaker", material: "Canvas", weight: "0.7", price: "890000", colors: []string{"Black", "Red"}, sizes: []string{"38", "39", "40"}},
	}
	for _, p := range products {
		seedCatalogProduct(c, p)
	}

	seedVoucher(c)

	stdLog.Printf("Seed data created successfully")
}

func seedCustomer(c *provider.Container) {
	_, err := c.AccountService.Create(service.CreateAccountInput{
		FullName:    "Demo Customer",
		Email:       "customer@shopdesk.local",
		PhoneNumber: "0911111111",
		Password:    "Customer@123",
		Role:        constants.RoleCustomer,
	})
	switch {
	case err == nil:
		logger.Infow("seed_customer_created", "email", "customer@shopdesk.local")
	case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrPhoneExists):
		logger.Infow("seed_customer_exists", "email", "customer@shopdesk.local")
	default:
		logger.Warnw("seed_customer_failed", "error", err)
	}
}

func seedAttribute[T any](svc *service.AttributeService[T], kind, label string, in service.AttributeInput) {
	_, err := svc.Create(in)
	switch {
	case err == nil:
		logger.Infow("seed_attribute_created", "kind", kind, "value", label)
	case errors.Is(err, service.ErrAttributeDuplicate):
		logger.Infow("seed_attribute_exists", "kind", kind, "value", label)
	default:
		logger.Warnw("seed_attribute_failed", "kind", kind, "value", label, "error", err)
	}
}

func seedCatalogProduct(c *provider.Container, p seedProduct) {
	_, total, err := c.ProductRepo.List(repository.ProductListFilter{Page: 1, PageSize: 1, Keyword: p.name})
	if err != nil {
		logger.Warnw("seed_product_lookup_failed", "name", p.name, "error", err)
		return
	}
	if total > 0 {
		logger.Infow("seed_product_exists", "name", p.name)
		return
	}

	price := decimal.RequireFromString(p.price)
	var variants []service.VariantInput
	for _, colorName := range p.colors {
		color, err := c.ColorService.FindByName(colorName)
		if err != nil || color == nil {
			logger.Warnw("seed_color_missing", "color", colorName, "error", err)
			return
		}
		for _, sizeValue := range p.sizes {
			size, err := c.SizeRepo.FindBy("value", decimal.RequireFromString(sizeValue))
			if err != nil || size == nil {
				logger.Warnw("seed_size_missing", "size", sizeValue, "error", err)
				return
			}
			variants = append(variants, service.VariantInput{
				ColorID: color.ID,
				SizeID:  size.ID,
				Price:   price,
				Stock:   20,
			})
		}
	}

	product, err := c.ProductService.Create(service.ProductInput{
		Name:         p.name,
		Description:  p.name + " by " + p.brand,
		BrandName:    p.brand,
		CategoryName: p.category,
		MaterialName: p.material,
		Weight:       decimal.RequireFromString(p.weight),
		Status:       constants.StatusActive,
		Variants:     variants,
	})
	if err != nil {
		logger.Warnw("seed_product_failed", "name", p.name, "error", err)
		return
	}
	logger.Infow("seed_product_created", "name", p.name, "code", product.Code, "variants", len(variants))
}

func seedVoucher(c *provider.Container) {
	existing, err := c.VoucherRepo.GetByCode("SALE10")
	if err != nil {
		logger.Warnw("seed_voucher_lookup_failed", "error", err)
		return
	}
	if existing != nil {
		logger.Infow("seed_voucher_exists", "code", "SALE10")
		return
	}
	now := time.Now()
	_, err = c.VoucherService.Create(service.VoucherInput{
		Code:          "SALE10",
		Name:          "Giảm 10%",
		Description:   "Giảm 10% cho đơn từ 500.000đ",
		Type:          constants.VoucherTypePercentage,
		Value:         decimal.NewFromInt(10),
		Quantity:      100,
		StartDate:     now.AddDate(0, 0, -1),
		EndDate:       now.AddDate(0, 3, 0),
		MinOrderValue: decimal.NewFromInt(500000),
		MaxDiscount:   decimal.NewFromInt(200000),
		Status:        constants.StatusActive,
	})
	if err != nil {
		logger.Warnw("seed_voucher_failed", "error", err)
		return
	}
	logger.Infow("seed_voucher_created", "code", "SALE10")
}

func strPtr(s string) *string {
	return &s
}
