package repository

import (
	"errors"

	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// VariantRepository 商品规格数据访问接口
type VariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	FindByAttributes(productID, colorID, sizeID uint) (*models.ProductVariant, error)
	ListByProduct(productID uint) ([]models.ProductVariant, error)
	ListByIDs(ids []uint) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	Update(id uint, updates map[string]interface{}) (int64, error)
	Delete(id uint) error
	DecrementStock(id uint, quantity int) (int64, error)
	IncrementStock(id uint, quantity int) (int64, error)
	SetStock(id uint, stock int) (int64, error)
	ReplaceImages(variantID uint, urls []string) error
	IsReferenced(id uint) (bool, error)
	WithTx(tx *gorm.DB) VariantRepository
}

// GormVariantRepository GORM 实现
type GormVariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository 创建规格仓库
func NewVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVariantRepository) WithTx(tx *gorm.DB) VariantRepository {
	if tx == nil {
		return r
	}
	return &GormVariantRepository{db: tx}
}

func preloadVariantDetail(db *gorm.DB) *gorm.DB {
	return db.Preload("Product").Preload("Color").Preload("Size").Preload("Images")
}

// GetByID 获取规格（含所属商品、颜色、尺码）
func (r *GormVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := preloadVariantDetail(r.db).First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// FindByAttributes 按商品 + 颜色 + 尺码定位规格
func (r *GormVariantRepository) FindByAttributes(productID, colorID, sizeID uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := preloadVariantDetail(r.db).
		Where("product_id = ? AND color_id = ? AND size_id = ?", productID, colorID, sizeID).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByProduct 获取商品全部规格
func (r *GormVariantRepository) ListByProduct(productID uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := r.db.Where("product_id = ?", productID).Order("id ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ListByIDs 批量获取规格
func (r *GormVariantRepository) ListByIDs(ids []uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if len(ids) == 0 {
		return variants, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建规格
func (r *GormVariantRepository) Create(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// Update 更新规格字段
func (r *GormVariantRepository) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.ProductVariant{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 删除规格及其图片
func (r *GormVariantRepository) Delete(id uint) error {
	if err := r.db.Where("variant_id = ?", id).Delete(&models.ProductVariantImage{}).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", id).Delete(&models.ProductVariant{}).Error
}

// DecrementStock 扣减库存，库存不足时不更新（受影响行数为 0）
func (r *GormVariantRepository) DecrementStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementStock 回补库存
func (r *GormVariantRepository) IncrementStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock increment params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetStock 直接设置库存
func (r *GormVariantRepository) SetStock(id uint, stock int) (int64, error) {
	if stock < 0 {
		return 0, errors.New("stock must not be negative")
	}
	result := r.db.Model(&models.ProductVariant{}).Where("id = ?", id).Update("stock", stock)
	return result.RowsAffected, result.Error
}

// ReplaceImages 替换规格图片
func (r *GormVariantRepository) ReplaceImages(variantID uint, urls []string) error {
	if err := r.db.Where("variant_id = ?", variantID).Delete(&models.ProductVariantImage{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	images := make([]models.ProductVariantImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.ProductVariantImage{VariantID: variantID, ImageURL: url})
	}
	return r.db.Create(&images).Error
}

// IsReferenced 规格是否已被订单项引用
func (r *GormVariantRepository) IsReferenced(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).Where("variant_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
