package admin

import (
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
)

// Brands 品牌管理
func (h *Handler) Brands() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.BrandService, "brands", false)
}

// Categories 分类管理
func (h *Handler) Categories() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.CategoryService, "categories", false)
}

// Materials 材质管理
func (h *Handler) Materials() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.MaterialService, "materials", false)
}

// Colors 颜色管理
func (h *Handler) Colors() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.ColorService, "colors", false)
}

// Sizes 尺码管理
func (h *Handler) Sizes() handlershared.AttributeHandlers {
	return handlershared.NewAttributeHandlers(h.SizeService, "sizes", false)
}
