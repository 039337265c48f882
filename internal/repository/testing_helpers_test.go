package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// seedCatalog 写入一个品牌/分类/材质/颜色/尺码以及一件单规格商品
func seedCatalog(t *testing.T, db *gorm.DB, price int64, stock int) (*models.Product, *models.ProductVariant) {
	t.Helper()
	brand := &models.Brand{Name: fmt.Sprintf("Brand-%d", time.Now().UnixNano()), Status: constants.StatusActive}
	category := &models.Category{Name: fmt.Sprintf("Category-%d", time.Now().UnixNano()), Status: constants.StatusActive}
	material := &models.Material{Name: fmt.Sprintf("Material-%d", time.Now().UnixNano()), Status: constants.StatusActive}
	color := &models.Color{Name: fmt.Sprintf("Color-%d", time.Now().UnixNano()), Code: fmt.Sprintf("#%d", time.Now().UnixNano()%1000000), Status: constants.StatusActive}
	size := &models.Size{Value: decimal.NewFromInt(time.Now().UnixNano()%400 + 1), Status: constants.StatusActive}
	for _, row := range []interface{}{brand, category, material, color, size} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("create catalog row failed: %v", err)
		}
	}
	product := &models.Product{
		Code:       fmt.Sprintf("PRD%06d", time.Now().UnixNano()%1000000),
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
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product, &product.Variants[0]
}
