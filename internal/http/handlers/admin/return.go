package admin

import (
	"strings"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateReturnRequest 更新退货单请求
type UpdateReturnRequest struct {
	Reason *string                            `json:"reason"`
	Note   *string                            `json:"note"`
	Items  *[]handlershared.ReturnItemRequest `json:"items" binding:"omitempty,dive"`
}

// ReturnStatusRequest 退货状态变更请求
type ReturnStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// CreateReturn 后台创建退货单
func (h *Handler) CreateReturn(c *gin.Context) {
	staffID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req handlershared.CreateReturnRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input := req.ToService()
	input.StaffID = &staffID
	ret, err := h.ReturnService.CreateReturn(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_return_created", "staff_id", staffID, "return_id", ret.ID, "order_id", ret.OrderID)
	response.Created(c, msg(c, "message.return_created"), ret)
}

// ListReturns 退货单列表
func (h *Handler) ListReturns(c *gin.Context) {
	filter, ok := handlershared.ReturnFilterFromQuery(c)
	if !ok {
		return
	}
	returns, total, err := h.ReturnService.ListReturns(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "returns", returns, response.NewPagination(total, filter.Page, filter.PageSize))
}

// SearchReturns 按退货编码或订单编码搜索
func (h *Handler) SearchReturns(c *gin.Context) {
	filter, ok := handlershared.ReturnFilterFromQuery(c)
	if !ok {
		return
	}
	returns, total, err := h.ReturnService.SearchReturns(strings.TrimSpace(c.Query("keyword")), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "returns", returns, response.NewPagination(total, filter.Page, filter.PageSize))
}

// GetReturnStats 退货统计
func (h *Handler) GetReturnStats(c *gin.Context) {
	from, to, ok := handlershared.QueryDateRange(c, "fromDate", "toDate")
	if !ok {
		return
	}
	stats, err := h.ReturnService.GetReturnStats(from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), stats)
}

// GetReturn 退货单详情
func (h *Handler) GetReturn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ret, err := h.ReturnService.GetReturn(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), ret)
}

// UpdateReturn 修改待处理退货单
func (h *Handler) UpdateReturn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateReturnRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input := service.UpdateReturnInput{Reason: req.Reason, Note: req.Note}
	if req.Items != nil {
		items := handlershared.ToServiceReturnItems(*req.Items)
		input.Items = &items
	}
	ret, err := h.ReturnService.UpdateReturn(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), ret)
}

// UpdateReturnStatus 退货状态流转
func (h *Handler) UpdateReturnStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ReturnStatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	staffID := currentAdminID(c)
	ret, err := h.ReturnService.UpdateReturnStatus(c.Request.Context(), id, req.Status, &staffID, strings.TrimSpace(req.Note))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_return_status_updated", "staff_id", staffID, "return_id", id, "status", ret.Status)
	response.Success(c, msg(c, "message.updated"), ret)
}

// DeleteReturn 删除退货单
func (h *Handler) DeleteReturn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ReturnService.DeleteReturn(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}
