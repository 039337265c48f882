package admin

import (
	"strings"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// VariantRequest 商品规格请求
type VariantRequest struct {
	ID      uint            `json:"id"`
	ColorID uint            `json:"colorId" binding:"required"`
	SizeID  uint            `json:"sizeId" binding:"required"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock" binding:"gte=0"`
	Images  []string        `json:"images"`
}

// CreateProductRequest 创建商品请求；品牌/分类/材质可传 ID 或名称
type CreateProductRequest struct {
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	BrandID      uint             `json:"brandId"`
	BrandName    string           `json:"brandName"`
	CategoryID   uint             `json:"categoryId"`
	CategoryName string           `json:"categoryName"`
	MaterialID   uint             `json:"materialId"`
	MaterialName string           `json:"materialName"`
	Weight       decimal.Decimal  `json:"weight"`
	Status       string           `json:"status"`
	Variants     []VariantRequest `json:"variants" binding:"required,min=1,dive"`
}

// UpdateProductRequest 更新商品请求
type UpdateProductRequest struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	BrandID      *uint             `json:"brandId"`
	BrandName    *string           `json:"brandName"`
	CategoryID   *uint             `json:"categoryId"`
	CategoryName *string           `json:"categoryName"`
	MaterialID   *uint             `json:"materialId"`
	MaterialName *string           `json:"materialName"`
	Weight       *decimal.Decimal  `json:"weight"`
	Status       *string           `json:"status"`
	Variants     *[]VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// StockRequest 批量调整库存请求
type StockRequest struct {
	VariantUpdates []struct {
		VariantID uint `json:"variantId" binding:"required"`
		Quantity  int  `json:"quantity" binding:"gte=0"`
	} `json:"variantUpdates" binding:"required,min=1,dive"`
}

// ImagesRequest 规格图片请求
type ImagesRequest struct {
	Images []string `json:"images"`
}

func toVariantInputs(items []VariantRequest) []service.VariantInput {
	result := make([]service.VariantInput, 0, len(items))
	for _, item := range items {
		result = append(result, service.VariantInput{
			ID:      item.ID,
			ColorID: item.ColorID,
			SizeID:  item.SizeID,
			Price:   item.Price,
			Stock:   item.Stock,
			Images:  item.Images,
		})
	}
	return result
}

// ListProducts 商品列表（含停用）
func (h *Handler) ListProducts(c *gin.Context) {
	filter := handlershared.ProductFilterFromQuery(c)
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "products", products, response.NewPagination(total, filter.Page, filter.PageSize))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.Create(service.ProductInput{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		BrandID:      req.BrandID,
		BrandName:    req.BrandName,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		MaterialID:   req.MaterialID,
		MaterialName: req.MaterialName,
		Weight:       req.Weight,
		Status:       req.Status,
		Variants:     toVariantInputs(req.Variants),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_created", "operator_id", currentAdminID(c), "product_id", product.ID, "code", product.Code)
	response.Created(c, msg(c, "message.created"), product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input := service.ProductUpdateInput{
		Name:         req.Name,
		Description:  req.Description,
		BrandID:      req.BrandID,
		BrandName:    req.BrandName,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		MaterialID:   req.MaterialID,
		MaterialName: req.MaterialName,
		Weight:       req.Weight,
		Status:       req.Status,
	}
	if req.Variants != nil {
		variants := toVariantInputs(*req.Variants)
		input.Variants = &variants
	}
	product, err := h.ProductService.Update(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}

// UpdateProductStatus 上下架
func (h *Handler) UpdateProductStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), product)
}

// UpdateProductStock 批量设置规格库存
func (h *Handler) UpdateProductStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StockRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	updates := make([]service.VariantStockUpdate, 0, len(req.VariantUpdates))
	for _, item := range req.VariantUpdates {
		updates = append(updates, service.VariantStockUpdate{VariantID: item.VariantID, Quantity: item.Quantity})
	}
	product, err := h.ProductService.UpdateStock(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_stock_updated", "operator_id", currentAdminID(c), "product_id", id, "variants", len(updates))
	response.Success(c, msg(c, "message.updated"), product)
}

// UpdateVariantImages 替换规格图片
func (h *Handler) UpdateVariantImages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	variantID, ok := handlershared.ParseIDParam(c, "variantId")
	if !ok {
		return
	}
	var req ImagesRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	variant, err := h.ProductService.UpdateImages(id, variantID, req.Images)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), variant)
}
