package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/models"
	"github.com/shopdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService 商品业务服务
type ProductService struct {
	productRepo   repository.ProductRepository
	variantRepo   repository.VariantRepository
	promotionRepo repository.PromotionRepository
	brands        repository.CrudRepository[models.Brand]
	categories    repository.CrudRepository[models.Category]
	materials     repository.CrudRepository[models.Material]
	colors        repository.CrudRepository[models.Color]
	sizes         repository.CrudRepository[models.Size]
}

// ProductServiceDeps 商品服务依赖
type ProductServiceDeps struct {
	ProductRepo   repository.ProductRepository
	VariantRepo   repository.VariantRepository
	PromotionRepo repository.PromotionRepository
	Brands        repository.CrudRepository[models.Brand]
	Categories    repository.CrudRepository[models.Category]
	Materials     repository.CrudRepository[models.Material]
	Colors        repository.CrudRepository[models.Color]
	Sizes         repository.CrudRepository[models.Size]
}

// NewProductService 创建商品服务
func NewProductService(deps ProductServiceDeps) *ProductService {
	return &ProductService{
		productRepo:   deps.ProductRepo,
		variantRepo:   deps.VariantRepo,
		promotionRepo: deps.PromotionRepo,
		brands:        deps.Brands,
		categories:    deps.Categories,
		materials:     deps.Materials,
		colors:        deps.Colors,
		sizes:         deps.Sizes,
	}
}

// VariantInput 规格输入
type VariantInput struct {
	ID      uint
	ColorID uint
	SizeID  uint
	Price   decimal.Decimal
	Stock   int
	Images  []string
}

// ProductInput 创建商品输入；品牌/分类/材质可传 ID 或名称
type ProductInput struct {
	Name         string
	Description  string
	BrandID      uint
	BrandName    string
	CategoryID   uint
	CategoryName string
	MaterialID   uint
	MaterialName string
	Weight       decimal.Decimal
	Status       string
	Variants     []VariantInput
}

// ProductUpdateInput 更新商品输入（nil 表示不修改；Variants 非 nil 时整体替换规格）
type ProductUpdateInput struct {
	Name         *string
	Description  *string
	BrandID      *uint
	BrandName    *string
	CategoryID   *uint
	CategoryName *string
	MaterialID   *uint
	MaterialName *string
	Weight       *decimal.Decimal
	Status       *string
	Variants     *[]VariantInput
}

// VariantStockUpdate 库存调整项
type VariantStockUpdate struct {
	VariantID uint
	Quantity  int
}

// ProductFilters 商品筛选项（仅启用的属性）
type ProductFilters struct {
	Brands     []models.Brand    `json:"brands"`
	Categories []models.Category `json:"categories"`
	Materials  []models.Material `json:"materials"`
	Colors     []models.Color    `json:"colors"`
	Sizes      []models.Size     `json:"sizes"`
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return s.productRepo.List(filter)
}

// Get 商品详情（附带生效中的促销）
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	promotions, err := s.promotionRepo.ListActiveForProduct(id, time.Now())
	if err != nil {
		return nil, err
	}
	product.Promotions = promotions
	return product, nil
}

// ListPromotions 商品当前可用的促销（折扣从高到低）
func (s *ProductService) ListPromotions(id uint) ([]models.Promotion, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.promotionRepo.ListActiveForProduct(id, time.Now())
}

// Create 创建商品及其规格
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	issues := &ValidationError{}
	name := requireText(issues, "name", input.Name)
	description := requireText(issues, "description", input.Description)
	if input.Weight.IsNegative() {
		issues.Add("weight", "gte", "0")
	}
	status := checkOneOf(issues, "status", normalizeStatus(input.Status, constants.StatusActive), constants.StatusActive, constants.StatusInactive)
	brandID := s.resolveBrand(issues, input.BrandID, input.BrandName)
	categoryID := s.resolveCategory(issues, input.CategoryID, input.CategoryName)
	materialID := s.resolveMaterial(issues, input.MaterialID, input.MaterialName)
	if len(input.Variants) == 0 {
		issues.Add("variants", "min", "1")
	}
	variants := s.validateVariants(issues, input.Variants)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		BrandID:     brandID,
		CategoryID:  categoryID,
		MaterialID:  materialID,
		Weight:      input.Weight.Round(2),
		Status:      status,
		Variants:    variants,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		code, err := generateUniqueCode(repo.NextCodeSequence, formatProductCode, repo.ExistsCode)
		if err != nil {
			return err
		}
		product.Code = code
		return repo.Create(product)
	})
	if err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrDuplicateVariant
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.Get(product.ID)
}

// Update 更新商品；传入规格时按颜色+尺码匹配原规格，被订单引用的规格保留并原地更新
func (s *ProductService) Update(id uint, input ProductUpdateInput) (*models.Product, error) {
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}

	issues := &ValidationError{}
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = requireText(issues, "name", *input.Name)
	}
	if input.Description != nil {
		updates["description"] = requireText(issues, "description", *input.Description)
	}
	if input.Weight != nil {
		if input.Weight.IsNegative() {
			issues.Add("weight", "gte", "0")
		}
		updates["weight"] = input.Weight.Round(2)
	}
	if input.Status != nil {
		updates["status"] = checkOneOf(issues, "status", *input.Status, constants.StatusActive, constants.StatusInactive)
	}
	if input.BrandID != nil || input.BrandName != nil {
		updates["brand_id"] = s.resolveBrand(issues, derefUint(input.BrandID), derefString(input.BrandName))
	}
	if input.CategoryID != nil || input.CategoryName != nil {
		updates["category_id"] = s.resolveCategory(issues, derefUint(input.CategoryID), derefString(input.CategoryName))
	}
	if input.MaterialID != nil || input.MaterialName != nil {
		updates["material_id"] = s.resolveMaterial(issues, derefUint(input.MaterialID), derefString(input.MaterialName))
	}
	var variants []models.ProductVariant
	if input.Variants != nil {
		if len(*input.Variants) == 0 {
			issues.Add("variants", "min", "1")
		}
		variants = s.validateVariants(issues, *input.Variants)
		for i, in := range *input.Variants {
			if in.ID == 0 {
				continue
			}
			if !variantBelongs(existing.Variants, in.ID) {
				issues.Add(fmt.Sprintf("variants[%d].id", i), "exists")
			}
			variants[i].ID = in.ID
		}
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.productRepo.WithTx(tx).Update(id, updates); err != nil {
			return err
		}
		if input.Variants == nil {
			return nil
		}
		return s.replaceVariants(s.variantRepo.WithTx(tx), id, existing.Variants, variants)
	})
	if err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrDuplicateVariant
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.Get(id)
}

// replaceVariants 以新规格集合替换旧规格
func (s *ProductService) replaceVariants(repo repository.VariantRepository, productID uint, current []models.ProductVariant, incoming []models.ProductVariant) error {
	byAttrs := make(map[[2]uint]models.ProductVariant, len(current))
	for _, v := range current {
		byAttrs[[2]uint{v.ColorID, v.SizeID}] = v
	}
	kept := make(map[uint]bool, len(incoming))
	for _, v := range incoming {
		if v.ID == 0 {
			if match, ok := byAttrs[[2]uint{v.ColorID, v.SizeID}]; ok && !kept[match.ID] {
				v.ID = match.ID
			}
		}
		if v.ID != 0 {
			kept[v.ID] = true
		}
	}

	// 先删除不再需要的规格，避免颜色+尺码唯一约束冲突
	for _, v := range current {
		if kept[v.ID] {
			continue
		}
		referenced, err := repo.IsReferenced(v.ID)
		if err != nil {
			return err
		}
		if referenced {
			kept[v.ID] = true
			continue
		}
		if err := repo.Delete(v.ID); err != nil {
			return err
		}
	}

	for _, v := range incoming {
		if v.ID == 0 {
			if match, ok := byAttrs[[2]uint{v.ColorID, v.SizeID}]; ok && kept[match.ID] {
				v.ID = match.ID
			}
		}
		urls := imageURLs(v.Images)
		if v.ID == 0 {
			variant := &models.ProductVariant{
				ProductID: productID,
				ColorID:   v.ColorID,
				SizeID:    v.SizeID,
				Price:     v.Price,
				Stock:     v.Stock,
			}
			if err := repo.Create(variant); err != nil {
				return err
			}
			if err := repo.ReplaceImages(variant.ID, urls); err != nil {
				return err
			}
			continue
		}
		if _, err := repo.Update(v.ID, map[string]interface{}{
			"color_id": v.ColorID,
			"size_id":  v.SizeID,
			"price":    v.Price,
			"stock":    v.Stock,
		}); err != nil {
			return err
		}
		if err := repo.ReplaceImages(v.ID, urls); err != nil {
			return err
		}
	}
	return nil
}

// Delete 删除商品（软删除）
func (s *ProductService) Delete(id uint) error {
	affected, err := s.productRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateStatus 上下架
func (s *ProductService) UpdateStatus(id uint, status string) (*models.Product, error) {
	issues := &ValidationError{}
	status = checkOneOf(issues, "status", status, constants.StatusActive, constants.StatusInactive)
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	affected, err := s.productRepo.Update(id, map[string]interface{}{"status": status})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}
	return s.Get(id)
}

// UpdateStock 批量设置规格库存，规格必须属于该商品
func (s *ProductService) UpdateStock(productID uint, updates []VariantStockUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	issues := &ValidationError{}
	if len(updates) == 0 {
		issues.Add("variantUpdates", "min", "1")
	}
	for i, u := range updates {
		if u.VariantID == 0 {
			issues.Add(fmt.Sprintf("variantUpdates[%d].variantId", i), "required")
		} else if !variantBelongs(product.Variants, u.VariantID) {
			return nil, withDetails(ErrVariantNotInProduct, strconv.FormatUint(uint64(u.VariantID), 10))
		}
		if u.Quantity < 0 {
			issues.Add(fmt.Sprintf("variantUpdates[%d].quantity", i), "gte", "0")
		}
	}
	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.variantRepo.WithTx(tx)
		for _, u := range updates {
			if _, err := repo.SetStock(u.VariantID, u.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(productID)
}

// UpdateImages 替换规格图片
func (s *ProductService) UpdateImages(productID, variantID uint, urls []string) (*models.ProductVariant, error) {
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	if variant.ProductID != productID {
		return nil, ErrVariantNotInProduct
	}
	cleaned := make([]string, 0, len(urls))
	for _, url := range urls {
		if url = strings.TrimSpace(url); url != "" {
			cleaned = append(cleaned, url)
		}
	}
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.variantRepo.WithTx(tx).ReplaceImages(variantID, cleaned)
	}); err != nil {
		return nil, err
	}
	return s.variantRepo.GetByID(variantID)
}

// GetFilters 商品筛选项
func (s *ProductService) GetFilters() (*ProductFilters, error) {
	active := repository.AttributeListFilter{Status: constants.StatusActive}
	brands, _, err := s.brands.List(active)
	if err != nil {
		return nil, err
	}
	categories, _, err := s.categories.List(active)
	if err != nil {
		return nil, err
	}
	materials, _, err := s.materials.List(active)
	if err != nil {
		return nil, err
	}
	colors, _, err := s.colors.List(active)
	if err != nil {
		return nil, err
	}
	sizes, _, err := s.sizes.List(active)
	if err != nil {
		return nil, err
	}
	return &ProductFilters{
		Brands:     brands,
		Categories: categories,
		Materials:  materials,
		Colors:     colors,
		Sizes:      sizes,
	}, nil
}

// validateVariants 校验规格输入，颜色/尺码必须存在，同一商品内颜色+尺码不可重复
func (s *ProductService) validateVariants(issues *ValidationError, inputs []VariantInput) []models.ProductVariant {
	colorIDs := make([]uint, 0, len(inputs))
	sizeIDs := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		colorIDs = append(colorIDs, in.ColorID)
		sizeIDs = append(sizeIDs, in.SizeID)
	}
	knownColors := map[uint]bool{}
	if colors, err := s.colors.ListByIDs(colorIDs); err == nil {
		for _, c := range colors {
			knownColors[c.ID] = true
		}
	}
	knownSizes := map[uint]bool{}
	if sizes, err := s.sizes.ListByIDs(sizeIDs); err == nil {
		for _, sz := range sizes {
			knownSizes[sz.ID] = true
		}
	}

	seen := map[[2]uint]bool{}
	variants := make([]models.ProductVariant, 0, len(inputs))
	for i, in := range inputs {
		prefix := fmt.Sprintf("variants[%d]", i)
		switch {
		case in.ColorID == 0:
			issues.Add(prefix+".colorId", "required")
		case !knownColors[in.ColorID]:
			issues.Add(prefix+".colorId", "exists")
		}
		switch {
		case in.SizeID == 0:
			issues.Add(prefix+".sizeId", "required")
		case !knownSizes[in.SizeID]:
			issues.Add(prefix+".sizeId", "exists")
		}
		checkPositiveMoney(issues, prefix+".price", in.Price)
		if in.Stock < 0 {
			issues.Add(prefix+".stock", "gte", "0")
		}
		key := [2]uint{in.ColorID, in.SizeID}
		if in.ColorID != 0 && in.SizeID != 0 {
			if seen[key] {
				issues.Add(prefix, "duplicate_variant")
			}
			seen[key] = true
		}
		images := make([]models.ProductVariantImage, 0, len(in.Images))
		for _, url := range in.Images {
			if url = strings.TrimSpace(url); url != "" {
				images = append(images, models.ProductVariantImage{ImageURL: url})
			}
		}
		variants = append(variants, models.ProductVariant{
			ColorID: in.ColorID,
			SizeID:  in.SizeID,
			Price:   models.NewMoneyFromDecimal(in.Price),
			Stock:   in.Stock,
			Images:  images,
		})
	}
	return variants
}

func (s *ProductService) resolveBrand(issues *ValidationError, id uint, name string) uint {
	return resolveAttribute(issues, "brandId", id, name, s.brands, func(b *models.Brand) uint { return b.ID })
}

func (s *ProductService) resolveCategory(issues *ValidationError, id uint, name string) uint {
	return resolveAttribute(issues, "categoryId", id, name, s.categories, func(c *models.Category) uint { return c.ID })
}

func (s *ProductService) resolveMaterial(issues *ValidationError, id uint, name string) uint {
	return resolveAttribute(issues, "materialId", id, name, s.materials, func(m *models.Material) uint { return m.ID })
}

// resolveAttribute 按 ID 或名称解析属性引用
func resolveAttribute[T any](issues *ValidationError, field string, id uint, name string, repo repository.CrudRepository[T], idOf func(*T) uint) uint {
	var (
		entity *T
		err    error
	)
	switch {
	case id != 0:
		entity, err = repo.GetByID(id)
	case strings.TrimSpace(name) != "":
		entity, err = repo.FindBy("name", strings.TrimSpace(name))
	default:
		issues.Add(field, "required")
		return 0
	}
	if err != nil || entity == nil {
		issues.Add(field, "exists")
		return 0
	}
	return idOf(entity)
}

func variantBelongs(variants []models.ProductVariant, variantID uint) bool {
	for _, v := range variants {
		if v.ID == variantID {
			return true
		}
	}
	return false
}

func imageURLs(images []models.ProductVariantImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}

func derefUint(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
