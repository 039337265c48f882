package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"gorm.io/gorm"
)

// PromotionService 促销活动服务
type PromotionService struct {
	repo          repository.PromotionRepository
	productRepo   repository.ProductRepository
	notifications *NotificationService
}

// NewPromotionService 创建促销服务
func NewPromotionService(repo repository.PromotionRepository, productRepo repository.ProductRepository, notifications *NotificationService) *PromotionService {
	return &PromotionService{repo: repo, productRepo: productRepo, notifications: notifications}
}

// PromotionInput 创建促销输入
type PromotionInput struct {
	Name            string
	Description     string
	DiscountPercent int
	StartDate       time.Time
	EndDate         time.Time
	Status          string
	ProductIDs      []uint
}

// PromotionUpdateInput 更新促销输入；ProductIDs 非 nil 时整体替换适用商品
type PromotionUpdateInput struct {
	Name            *string
	Description     *string
	DiscountPercent *int
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *string
	ProductIDs      *[]uint
}

// PromotionNotifyResult 促销通知结果
type PromotionNotifyResult struct {
	PromotionID       uint  `json:"promotionId"`
	NotificationsSent int64 `json:"notificationsSent"`
}

func validatePromotion(issues *ValidationError, p *models.Promotion) {
	p.Name = requireText(issues, "name", p.Name)
	checkRange(issues, "discountPercent", p.DiscountPercent, 0, 100)
	checkDateRange(issues, p.StartDate, p.EndDate)
	p.Status = checkOneOf(issues, "status", normalizeStatus(p.Status, constants.StatusActive), constants.StatusActive, constants.StatusInactive)
}

// ensureProducts 适用商品必须全部存在，缺失的 ID 随错误返回
func (s *PromotionService) ensureProducts(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return err
	}
	found := make(map[uint]struct{}, len(products))
	for _, p := range products {
		found[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return withDetails(ErrPromotionProductsNotFound, missing...)
	}
	return nil
}

// Create 创建促销
func (s *PromotionService) Create(input PromotionInput) (*models.Promotion, error) {
	promotion := &models.Promotion{
		Name:            input.Name,
		Description:     strings.TrimSpace(input.Description),
		DiscountPercent: input.DiscountPercent,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          input.Status,
	}
	issues := &ValidationError{}
	validatePromotion(issues, promotion)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if err := s.ensureProducts(input.ProductIDs); err != nil {
		return nil, err
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(promotion, input.ProductIDs)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("promotion_created", "promotion_id", promotion.ID, "products", len(input.ProductIDs))
	return s.Get(promotion.ID)
}

// List 促销列表
func (s *PromotionService) List(filter repository.PromotionListFilter) ([]models.Promotion, int64, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, ErrInvalidDateRange
	}
	return s.repo.List(filter)
}

// Get 促销详情（含适用商品）
func (s *PromotionService) Get(id uint) (*models.Promotion, error) {
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// Update 更新促销
func (s *PromotionService) Update(id uint, input PromotionUpdateInput) (*models.Promotion, error) {
	promotion, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	merged := *promotion
	if input.Name != nil {
		merged.Name = *input.Name
	}
	if input.Description != nil {
		merged.Description = strings.TrimSpace(*input.Description)
	}
	if input.DiscountPercent != nil {
		merged.DiscountPercent = *input.DiscountPercent
	}
	if input.StartDate != nil {
		merged.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		merged.EndDate = *input.EndDate
	}
	if input.Status != nil {
		merged.Status = *input.Status
	}
	issues := &ValidationError{}
	validatePromotion(issues, &merged)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if input.ProductIDs != nil {
		if err := s.ensureProducts(*input.ProductIDs); err != nil {
			return nil, err
		}
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Update(id, map[string]interface{}{
			"name":             merged.Name,
			"description":      merged.Description,
			"discount_percent": merged.DiscountPercent,
			"start_date":       merged.StartDate,
			"end_date":         merged.EndDate,
			"status":           merged.Status,
			"updated_at":       time.Now(),
		}); err != nil {
			return err
		}
		if input.ProductIDs != nil {
			return repo.ReplaceProducts(id, *input.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除促销
func (s *PromotionService) Delete(id uint) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).Delete(id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPromotionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Infow("promotion_deleted", "promotion_id", id)
	return nil
}

// ListActive 当前生效的促销
func (s *PromotionService) ListActive() ([]models.Promotion, error) {
	return s.repo.ListActive(time.Now())
}

// ListForProduct 商品当前生效的促销，折扣大的在前
func (s *PromotionService) ListForProduct(productID uint) ([]models.Promotion, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.repo.ListActiveForProduct(productID, time.Now())
}

// NotifyCustomers 向全部客户推送促销通知
func (s *PromotionService) NotifyCustomers(ctx context.Context, id uint) (*PromotionNotifyResult, error) {
	promotion, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Khuyến mãi: %s", promotion.Name)
	message := fmt.Sprintf("Giảm %d%% từ %s đến %s.", promotion.DiscountPercent,
		promotion.StartDate.Format("02/01/2006"), promotion.EndDate.Format("02/01/2006"))
	if desc := strings.TrimSpace(promotion.Description); desc != "" {
		message = desc + " " + message
	}
	sent, err := s.notifications.SendToAllCustomers(ctx, constants.NotificationTypePromotion, title, message)
	if err != nil {
		return nil, err
	}
	return &PromotionNotifyResult{PromotionID: promotion.ID, NotificationsSent: sent}, nil
}
