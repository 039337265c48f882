package public

import (
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateOrder 客户下单，必须提供收货地址
func (h *Handler) CreateOrder(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	var req handlershared.CreateOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input := req.ToService()
	input.CustomerID = accountID
	input.StaffID = nil
	input.RequireShipping = true
	order, err := h.OrderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.order_created"), order)
}

// ListMyOrders 我的订单
func (h *Handler) ListMyOrders(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	filter, ok := handlershared.OrderFilterFromQuery(c)
	if !ok {
		return
	}
	orders, total, err := h.OrderService.ListMyOrders(accountID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "orders", orders, response.NewPagination(total, filter.Page, filter.PageSize))
}

// GetMyOrder 我的订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetMyOrder(id, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), order)
}

// CancelMyOrder 取消我的订单（仅待确认）
func (h *Handler) CancelMyOrder(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), id, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.order_canceled"), order)
}
