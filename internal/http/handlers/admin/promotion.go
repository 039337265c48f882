package admin

import (
	"strings"
	"time"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// PromotionRequest 创建促销请求
type PromotionRequest struct {
	Name            string    `json:"name" binding:"required"`
	Description     string    `json:"description"`
	DiscountPercent int       `json:"discountPercent" binding:"required"`
	StartDate       time.Time `json:"startDate" binding:"required"`
	EndDate         time.Time `json:"endDate" binding:"required"`
	Status          string    `json:"status"`
	ProductIDs      []uint    `json:"productIds"`
}

// UpdatePromotionRequest 更新促销请求
type UpdatePromotionRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	DiscountPercent *int       `json:"discountPercent"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	Status          *string    `json:"status"`
	ProductIDs      *[]uint    `json:"productIds"`
}

// ListPromotions 促销列表
func (h *Handler) ListPromotions(c *gin.Context) {
	page, limit := handlershared.PageQuery(c)
	from, to, ok := handlershared.QueryDateRange(c, "startDate", "endDate")
	if !ok {
		return
	}
	promotions, total, err := h.PromotionService.List(repository.PromotionListFilter{
		Page:     page,
		PageSize: limit,
		Status:   c.Query("status"),
		Search:   strings.TrimSpace(c.Query("search")),
		From:     from,
		To:       to,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "promotions", promotions, response.NewPagination(total, page, limit))
}

// GetPromotion 促销详情
func (h *Handler) GetPromotion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	promotion, err := h.PromotionService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), promotion)
}

// CreatePromotion 创建促销
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	promotion, err := h.PromotionService.Create(service.PromotionInput{
		Name:            req.Name,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          req.Status,
		ProductIDs:      req.ProductIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.created"), promotion)
}

// UpdatePromotion 更新促销
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdatePromotionRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	promotion, err := h.PromotionService.Update(id, service.PromotionUpdateInput{
		Name:            req.Name,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          req.Status,
		ProductIDs:      req.ProductIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), promotion)
}

// DeletePromotion 删除促销
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.PromotionService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}

// NotifyPromotion 向客户推送促销
func (h *Handler) NotifyPromotion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.PromotionService.NotifyCustomers(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_promotion_notified", "operator_id", currentAdminID(c), "promotion_id", id, "sent", result.NotificationsSent)
	response.Success(c, msg(c, "message.notifications_sent"), result)
}
