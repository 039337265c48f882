package public

import (
	"github.com/shopdesk/internal/constants"
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表（仅上架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	filter := handlershared.ProductFilterFromQuery(c)
	filter.Status = constants.StatusActive
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "products", products, response.NewPagination(total, filter.Page, filter.PageSize))
}

// GetProductFilters 商品筛选项
func (h *Handler) GetProductFilters(c *gin.Context) {
	filters, err := h.ProductService.GetFilters()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), filters)
}

// GetProduct 商品详情（含进行中的活动）
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
	if product.Status != constants.StatusActive {
		respondServiceError(c, service.ErrProductNotFound)
		return
	}
	response.Success(c, msg(c, "message.success"), product)
}

// GetProductPromotions 商品当前可用活动
func (h *Handler) GetProductPromotions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	promotions, err := h.ProductService.ListPromotions(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), promotions)
}

// ListActivePromotions 进行中的活动
func (h *Handler) ListActivePromotions(c *gin.Context) {
	promotions, err := h.PromotionService.ListActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), promotions)
}

// Brands 品牌只读接口
func (h *Handler) Brands() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.BrandService, "brands", true)
}

// Categories 分类只读接口
func (h *Handler) Categories() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.CategoryService, "categories", true)
}

// Materials 材质只读接口
func (h *Handler) Materials() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.MaterialService, "materials", true)
}

// Colors 颜色只读接口
func (h *Handler) Colors() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.ColorService, "colors", true)
}

// Sizes 尺码只读接口
func (h *Handler) Sizes() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.SizeService, "sizes", true)
}
