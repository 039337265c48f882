package repository

import (
	"errors"
	"strings"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Update(id uint, updates map[string]interface{}) (int64, error)
	Delete(id uint) (int64, error)
	ExistsCode(code string) (bool, error)
	NextCodeSequence() (int64, error)
	CountActive() (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Create 创建商品（同时写入规格与规格图片）
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func preloadProductDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Brand").
		Preload("Category").
		Preload("Material").
		Preload("Variants", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Variants.Color").
		Preload("Variants.Size").
		Preload("Variants.Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}

// GetByID 获取商品详情
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := preloadProductDetail(r.db).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// List 商品列表（颜色、尺码、价格条件作用于规格，按商品去重）
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		cond, args := buildLikeCondition(r.db, keyword, "products.name", "products.code", "products.description")
		query = query.Where(cond, args...)
	}
	if filter.BrandID != 0 {
		query = query.Where("products.brand_id = ?", filter.BrandID)
	}
	if filter.CategoryID != 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.MaterialID != 0 {
		query = query.Where("products.material_id = ?", filter.MaterialID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("products.status = ?", status)
	}

	if filter.ColorID != 0 || filter.SizeID != 0 || filter.MinPrice != nil || filter.MaxPrice != nil {
		variants := r.db.Model(&models.ProductVariant{}).Select("product_id")
		if filter.ColorID != 0 {
			variants = variants.Where("color_id = ?", filter.ColorID)
		}
		if filter.SizeID != 0 {
			variants = variants.Where("size_id = ?", filter.SizeID)
		}
		if filter.MinPrice != nil {
			variants = variants.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			variants = variants.Where("price <= ?", *filter.MaxPrice)
		}
		query = query.Where("products.id IN (?)", variants)
	}

	var products []models.Product
	total, err := countAndFind(query, filter.Page, filter.PageSize, productOrderClause(filter.SortBy), &products, preloadProductDetail)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func productOrderClause(sortBy string) string {
	const minPrice = "(SELECT MIN(pv.price) FROM product_variants pv WHERE pv.product_id = products.id)"
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "price_asc":
		return minPrice + " ASC, products.id DESC"
	case "price_desc":
		return minPrice + " DESC, products.id DESC"
	case "name":
		return "products.name ASC, products.id ASC"
	case "oldest":
		return "products.created_at ASC, products.id ASC"
	default:
		return "products.created_at DESC, products.id DESC"
	}
}

// ListByIDs 批量获取商品（不加载关联）
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Update 更新商品字段
func (r *GormProductRepository) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 软删除商品，历史订单仍可通过 Unscoped 读取
func (r *GormProductRepository) Delete(id uint) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

// ExistsCode 编码是否已被占用（包含已删除商品）
func (r *GormProductRepository) ExistsCode(code string) (bool, error) {
	var count int64
	if err := r.db.Unscoped().Model(&models.Product{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextCodeSequence 下一个商品编码序号
func (r *GormProductRepository) NextCodeSequence() (int64, error) {
	var count int64
	if err := r.db.Unscoped().Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count + 1, nil
}

// CountActive 统计上架商品数
func (r *GormProductRepository) CountActive() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("status = ?", constants.StatusActive).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
