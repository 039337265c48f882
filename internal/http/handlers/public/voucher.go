package public

import (
	"time"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ValidateVoucherRequest 校验优惠券请求
type ValidateVoucherRequest struct {
	Code       string          `json:"code" binding:"required"`
	OrderValue decimal.Decimal `json:"orderValue"`
}

// ValidateVoucher 校验优惠券并返回折扣金额
func (h *Handler) ValidateVoucher(c *gin.Context) {
	var req ValidateVoucherRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	quote, err := h.VoucherService.Validate(req.Code, req.OrderValue, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.voucher_valid"), quote)
}

// ListAvailableVouchers 当前订单金额可用的优惠券
func (h *Handler) ListAvailableVouchers(c *gin.Context) {
	orderValue, ok := handlershared.QueryDecimal(c, "orderValue")
	if !ok {
		return
	}
	quotes, err := h.VoucherService.ListAvailable(orderValue, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), quotes)
}
