package admin

import (
	"strings"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest 登记收款请求
type CreatePaymentRequest struct {
	OrderID        uint            `json:"orderId" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method" binding:"required"`
	TransactionRef string          `json:"transactionRef"`
	Note           string          `json:"note"`
}

// CODPaymentRequest 货到付款收款请求
type CODPaymentRequest struct {
	OrderID uint             `json:"orderId" binding:"required"`
	Amount  *decimal.Decimal `json:"amount"`
	Note    string           `json:"note"`
}

// ListPayments 支付记录列表
func (h *Handler) ListPayments(c *gin.Context) {
	page, limit := handlershared.PageQuery(c)
	from, to, ok := handlershared.QueryDateRange(c, "fromDate", "toDate")
	if !ok {
		return
	}
	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:        page,
		PageSize:    limit,
		OrderID:     handlershared.QueryUint(c, "orderId"),
		Status:      strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Method:      strings.ToUpper(strings.TrimSpace(c.Query("method"))),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "payments", payments, response.NewPagination(total, page, limit))
}

// GetPaymentsByOrder 某订单的支付记录
func (h *Handler) GetPaymentsByOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseIDParam(c, "orderId")
	if !ok {
		return
	}
	payments, err := h.PaymentService.GetPaymentsByOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), payments)
}

// CreatePayment 登记收款
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	staffID := currentAdminID(c)
	payment, err := h.PaymentService.CreatePayment(c.Request.Context(), service.CreatePaymentInput{
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		Method:         strings.TrimSpace(req.Method),
		TransactionRef: strings.TrimSpace(req.TransactionRef),
		Note:           strings.TrimSpace(req.Note),
		StaffID:        &staffID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_payment_created", "staff_id", staffID, "order_id", req.OrderID, "payment_id", payment.ID, "amount", req.Amount.String())
	response.Created(c, msg(c, "message.payment_created"), payment)
}

// CreateCODPayment 货到付款收款
func (h *Handler) CreateCODPayment(c *gin.Context) {
	var req CODPaymentRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	staffID := currentAdminID(c)
	payment, err := h.PaymentService.CreateCODPayment(c.Request.Context(), service.CreateCODPaymentInput{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Note:    strings.TrimSpace(req.Note),
		StaffID: &staffID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_cod_payment_created", "staff_id", staffID, "order_id", req.OrderID, "payment_id", payment.ID)
	response.Created(c, msg(c, "message.payment_created"), payment)
}

// UpdatePaymentStatus 支付状态流转
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	payment, err := h.PaymentService.UpdatePaymentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), payment)
}

// DeletePayment 删除支付记录
func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.PaymentService.DeletePayment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_payment_deleted", "operator_id", currentAdminID(c), "payment_id", id)
	response.Success(c, msg(c, "message.deleted"), nil)
}
