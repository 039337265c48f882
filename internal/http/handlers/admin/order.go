package admin

import (
	"strings"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderRequest 后台更新订单请求
type UpdateOrderRequest struct {
	ShippingAddress *handlershared.ShippingRequest `json:"shippingAddress"`
	Note            *string                        `json:"note"`
	OrderStatus     *string                        `json:"orderStatus"`
	PaymentStatus   *string                        `json:"paymentStatus"`
}

// OrderStatusRequest 订单状态变更请求
type OrderStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
	Status      string `json:"status"`
}

// POSOrderRequest 门店下单请求
type POSOrderRequest struct {
	CustomerID    *uint                            `json:"customerId"`
	Items         []handlershared.OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string                           `json:"paymentMethod"`
	VoucherCode   string                           `json:"voucherCode"`
	Note          string                           `json:"note"`
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	filter, ok := handlershared.OrderFilterFromQuery(c)
	if !ok {
		return
	}
	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "orders", orders, response.NewPagination(total, filter.Page, filter.PageSize))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), order)
}

// CreateOrder 后台代客下单
func (h *Handler) CreateOrder(c *gin.Context) {
	staffID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req handlershared.CreateOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input := req.ToService()
	input.StaffID = &staffID
	order, err := h.OrderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_order_created", "staff_id", staffID, "order_id", order.ID, "code", order.Code)
	response.Created(c, msg(c, "message.order_created"), order)
}

// CreatePOSOrder 门店收银下单
func (h *Handler) CreatePOSOrder(c *gin.Context) {
	staffID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req POSOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	order, err := h.OrderService.CreatePOSOrder(c.Request.Context(), service.CreatePOSOrderInput{
		StaffID:       staffID,
		CustomerID:    req.CustomerID,
		Items:         handlershared.ToServiceLines(req.Items),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		VoucherCode:   strings.TrimSpace(req.VoucherCode),
		Note:          strings.TrimSpace(req.Note),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_pos_order_created", "staff_id", staffID, "order_id", order.ID, "code", order.Code)
	response.Created(c, msg(c, "message.order_created"), order)
}

// UpdateOrder 更新订单
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	order, err := h.OrderService.UpdateOrder(c.Request.Context(), id, service.OrderUpdateInput{
		Shipping:      req.ShippingAddress.ToService(),
		Note:          req.Note,
		OrderStatus:   req.OrderStatus,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), order)
}

// UpdateOrderStatus 订单状态流转
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req OrderStatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	target := strings.TrimSpace(req.OrderStatus)
	if target == "" {
		target = strings.TrimSpace(req.Status)
	}
	order, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), id, target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_order_status_updated", "operator_id", currentAdminID(c), "order_id", id, "status", order.OrderStatus)
	response.Success(c, msg(c, "message.order_status_updated"), order)
}

// CancelOrder 后台取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), id, 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_order_canceled", "operator_id", currentAdminID(c), "order_id", id)
	response.Success(c, msg(c, "message.order_canceled"), order)
}
