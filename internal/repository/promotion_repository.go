package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository 促销数据访问接口
type PromotionRepository interface {
	Create(promotion *models.Promotion, productIDs []uint) error
	GetByID(id uint) (*models.Promotion, error)
	List(filter PromotionListFilter) ([]models.Promotion, int64, error)
	ListActive(now time.Time) ([]models.Promotion, error)
	ListActiveForProduct(productID uint, now time.Time) ([]models.Promotion, error)
	ListProductIDs(promotionID uint) ([]uint, error)
	Update(id uint, updates map[string]interface{}) (int64, error)
	ReplaceProducts(promotionID uint, productIDs []uint) error
	Delete(id uint) (int64, error)
	WithTx(tx *gorm.DB) PromotionRepository
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建促销仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

// Create 创建促销并写入适用商品关联
func (r *GormPromotionRepository) Create(promotion *models.Promotion, productIDs []uint) error {
	if err := r.db.Omit("Products").Create(promotion).Error; err != nil {
		return err
	}
	return r.insertProductLinks(promotion.ID, productIDs)
}

func (r *GormPromotionRepository) insertProductLinks(promotionID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(productIDs))
	links := make([]models.PromotionProduct, 0, len(productIDs))
	for _, productID := range productIDs {
		if _, ok := seen[productID]; ok {
			continue
		}
		seen[productID] = struct{}{}
		links = append(links, models.PromotionProduct{PromotionID: promotionID, ProductID: productID})
	}
	return r.db.Create(&links).Error
}

// GetByID 获取促销（含适用商品）
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.Preload("Products").First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// List 促销列表（From/To 与活动时间区间有重叠即命中）
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.Promotion, int64, error) {
	query := r.db.Model(&models.Promotion{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		cond, args := buildLikeCondition(r.db, search, "name", "description")
		query = query.Where(cond, args...)
	}
	if filter.From != nil {
		query = query.Where("end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_date <= ?", *filter.To)
	}
	var promotions []models.Promotion
	total, err := countAndFind(query, filter.Page, filter.PageSize, "created_at DESC, id DESC", &promotions, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Products")
	})
	if err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

// ListActive 当前生效中的促销
func (r *GormPromotionRepository) ListActive(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.Preload("Products").
		Where("status = ? AND start_date <= ? AND end_date >= ?", constants.StatusActive, now, now).
		Order("discount_percent DESC, id DESC").
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

// ListActiveForProduct 商品当前生效的促销，折扣大的在前
func (r *GormPromotionRepository) ListActiveForProduct(productID uint, now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.Model(&models.Promotion{}).
		Joins("JOIN promotion_products pp ON pp.promotion_id = promotions.id").
		Where("pp.product_id = ?", productID).
		Where("promotions.status = ? AND promotions.start_date <= ? AND promotions.end_date >= ?", constants.StatusActive, now, now).
		Order("promotions.discount_percent DESC, promotions.id DESC").
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

// ListProductIDs 获取促销适用的商品 ID
func (r *GormPromotionRepository) ListProductIDs(promotionID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PromotionProduct{}).
		Where("promotion_id = ?", promotionID).
		Order("product_id ASC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update 更新促销字段
func (r *GormPromotionRepository) Update(id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Promotion{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// ReplaceProducts 替换适用商品
func (r *GormPromotionRepository) ReplaceProducts(promotionID uint, productIDs []uint) error {
	if err := r.db.Where("promotion_id = ?", promotionID).Delete(&models.PromotionProduct{}).Error; err != nil {
		return err
	}
	return r.insertProductLinks(promotionID, productIDs)
}

// Delete 删除促销及其商品关联
func (r *GormPromotionRepository) Delete(id uint) (int64, error) {
	if err := r.db.Where("promotion_id = ?", id).Delete(&models.PromotionProduct{}).Error; err != nil {
		return 0, err
	}
	result := r.db.Where("id = ?", id).Delete(&models.Promotion{})
	return result.RowsAffected, result.Error
}
