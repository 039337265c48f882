package public

import (
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListReturnableOrders 仍在退货期内的已完成订单
func (h *Handler) ListReturnableOrders(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	orders, err := h.ReturnService.ListReturnableOrders(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), orders)
}

// CreateReturnRequest 客户提交退货申请
func (h *Handler) CreateReturnRequest(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	var req handlershared.CreateReturnRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	ret, err := h.ReturnService.CreateReturnRequest(accountID, req.ToService())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.return_created"), ret)
}

// ListMyReturns 我的退货单
func (h *Handler) ListMyReturns(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	filter, ok := handlershared.ReturnFilterFromQuery(c)
	if !ok {
		return
	}
	returns, total, err := h.ReturnService.ListMyReturns(accountID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "returns", returns, response.NewPagination(total, filter.Page, filter.PageSize))
}

// GetMyReturn 我的退货单详情
func (h *Handler) GetMyReturn(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	ret, err := h.ReturnService.GetMyReturn(id, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), ret)
}

// CancelMyReturn 取消待处理的退货申请
func (h *Handler) CancelMyReturn(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	ret, err := h.ReturnService.CancelMyReturn(id, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), ret)
}
