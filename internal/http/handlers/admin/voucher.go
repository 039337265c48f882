package admin

import (
	"strings"
	"time"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// VoucherRequest 创建优惠券请求
type VoucherRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Type          string          `json:"type" binding:"required"`
	Value         decimal.Decimal `json:"value"`
	Quantity      int             `json:"quantity" binding:"gte=0"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	EndDate       time.Time       `json:"endDate" binding:"required"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	MaxDiscount   decimal.Decimal `json:"maxDiscount"`
	Status        string          `json:"status"`
}

// UpdateVoucherRequest 更新优惠券请求
type UpdateVoucherRequest struct {
	Code          *string          `json:"code"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Type          *string          `json:"type"`
	Value         *decimal.Decimal `json:"value"`
	Quantity      *int             `json:"quantity"`
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount"`
	Status        *string          `json:"status"`
}

// ListVouchers 优惠券列表
func (h *Handler) ListVouchers(c *gin.Context) {
	page, limit := handlershared.PageQuery(c)
	from, to, ok := handlershared.QueryDateRange(c, "startDate", "endDate")
	if !ok {
		return
	}
	vouchers, total, err := h.VoucherService.List(repository.VoucherListFilter{
		Page:      page,
		PageSize:  limit,
		Code:      strings.TrimSpace(c.Query("code")),
		Name:      strings.TrimSpace(c.Query("name")),
		Status:    c.Query("status"),
		StartFrom: from,
		EndTo:     to,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "vouchers", vouchers, response.NewPagination(total, page, limit))
}

// GetVoucher 优惠券详情
func (h *Handler) GetVoucher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	voucher, err := h.VoucherService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), voucher)
}

// CreateVoucher 创建优惠券
func (h *Handler) CreateVoucher(c *gin.Context) {
	var req VoucherRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	voucher, err := h.VoucherService.Create(service.VoucherInput{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Value:         req.Value,
		Quantity:      req.Quantity,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		Status:        req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.created"), voucher)
}

// UpdateVoucher 更新优惠券
func (h *Handler) UpdateVoucher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateVoucherRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	voucher, err := h.VoucherService.Update(id, service.VoucherUpdateInput{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Value:         req.Value,
		Quantity:      req.Quantity,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		Status:        req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), voucher)
}

// DeleteVoucher 删除优惠券
func (h *Handler) DeleteVoucher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.VoucherService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}

// NotifyVoucher 向客户推送优惠券
func (h *Handler) NotifyVoucher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.VoucherService.NotifyCustomers(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_voucher_notified", "operator_id", currentAdminID(c), "voucher_id", id, "sent", result.NotificationsSent)
	response.Success(c, msg(c, "message.notifications_sent"), result)
}

// UseVoucher 手工核销一次
func (h *Handler) UseVoucher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	voucher, err := h.VoucherService.IncrementUsage(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), voucher)
}
