package shared

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/i18n"
	"github.com/shopdesk/internal/logger"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			fields := []interface{}{"request_id", id}
			if c.Request != nil {
				fields = append(fields, "method", c.Request.Method, "path", c.Request.URL.Path)
			}
			return logger.SW(fields...)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// mappedError 业务错误到响应码与文案的映射
type mappedError struct {
	target error
	code   int
}

// serviceErrorTable 顺序即匹配优先级，具体哨兵在前
var serviceErrorTable = []mappedError{
	{service.ErrInvalidCredentials, response.CodeUnauthorized},
	{service.ErrInvalidPassword, response.CodeUnauthorized},
	{service.ErrInvalidToken, response.CodeUnauthorized},
	{service.ErrTokenRevoked, response.CodeUnauthorized},
	{service.ErrAccountDisabled, response.CodeForbidden},
	{service.ErrForbidden, response.CodeForbidden},

	{service.ErrNotFound, response.CodeNotFound},
	{service.ErrAccountNotFound, response.CodeNotFound},
	{service.ErrAddressNotFound, response.CodeNotFound},
	{service.ErrCustomerNotFound, response.CodeNotFound},
	{service.ErrAttributeNotFound, response.CodeNotFound},
	{service.ErrBrandNotFound, response.CodeNotFound},
	{service.ErrCategoryNotFound, response.CodeNotFound},
	{service.ErrMaterialNotFound, response.CodeNotFound},
	{service.ErrColorNotFound, response.CodeNotFound},
	{service.ErrSizeNotFound, response.CodeNotFound},
	{service.ErrProductNotFound, response.CodeNotFound},
	{service.ErrVariantNotFound, response.CodeNotFound},
	{service.ErrOrderNotFound, response.CodeNotFound},
	{service.ErrPaymentNotFound, response.CodeNotFound},
	{service.ErrReturnNotFound, response.CodeNotFound},
	{service.ErrVoucherNotFound, response.CodeNotFound},
	{service.ErrPromotionNotFound, response.CodeNotFound},
	{service.ErrPromotionProductsNotFound, response.CodeNotFound},
	{service.ErrNotificationNotFound, response.CodeNotFound},
	{service.ErrNoCustomers, response.CodeNotFound},

	{service.ErrWeakPassword, response.CodeBadRequest},
	{service.ErrCaptchaRequired, response.CodeBadRequest},
	{service.ErrCaptchaInvalid, response.CodeBadRequest},
	{service.ErrInvalidDateRange, response.CodeBadRequest},
	{service.ErrEmailExists, response.CodeBadRequest},
	{service.ErrPhoneExists, response.CodeBadRequest},
	{service.ErrAccountRole, response.CodeBadRequest},
	{service.ErrAccountInUse, response.CodeBadRequest},
	{service.ErrAttributeDuplicate, response.CodeBadRequest},
	{service.ErrAttributeInUse, response.CodeBadRequest},
	{service.ErrVariantNotInProduct, response.CodeBadRequest},
	{service.ErrDuplicateVariant, response.CodeBadRequest},
	{service.ErrInsufficientStock, response.CodeBadRequest},
	{service.ErrOrderItemsRequired, response.CodeBadRequest},
	{service.ErrOrderTotalMismatch, response.CodeBadRequest},
	{service.ErrOrderStatusInvalid, response.CodeBadRequest},
	{service.ErrOrderStatusConflict, response.CodeBadRequest},
	{service.ErrOrderAlreadyCanceled, response.CodeBadRequest},
	{service.ErrOrderCannotCancel, response.CodeBadRequest},
	{service.ErrShippingAddressNeeded, response.CodeBadRequest},
	{service.ErrPaymentAmountInvalid, response.CodeBadRequest},
	{service.ErrPaymentMethodInvalid, response.CodeBadRequest},
	{service.ErrPaymentOrderClosed, response.CodeBadRequest},
	{service.ErrPaymentOrderNotDelivered, response.CodeBadRequest},
	{service.ErrPaymentStatusInvalid, response.CodeBadRequest},
	{service.ErrPaymentDeleteCompleted, response.CodeBadRequest},
	{service.ErrPaymentNothingDue, response.CodeBadRequest},
	{service.ErrReturnOrderNotCompleted, response.CodeBadRequest},
	{service.ErrReturnWindowExpired, response.CodeBadRequest},
	{service.ErrReturnQuantityExceeded, response.CodeBadRequest},
	{service.ErrReturnItemInvalid, response.CodeBadRequest},
	{service.ErrReturnStatusInvalid, response.CodeBadRequest},
	{service.ErrReturnNotEditable, response.CodeBadRequest},
	{service.ErrReturnDeleteCompleted, response.CodeBadRequest},
	{service.ErrVoucherInactive, response.CodeBadRequest},
	{service.ErrVoucherNotStarted, response.CodeBadRequest},
	{service.ErrVoucherExpired, response.CodeBadRequest},
	{service.ErrVoucherExhausted, response.CodeBadRequest},
	{service.ErrVoucherMinOrderValue, response.CodeBadRequest},
	{service.ErrVoucherCodeExists, response.CodeBadRequest},
	{service.ErrVoucherInUse, response.CodeBadRequest},
	{service.ErrStatisticTypeInvalid, response.CodeBadRequest},
	{service.ErrAuthzRoleInvalid, response.CodeBadRequest},
}

// keyOverrides 文案 key 与错误描述不一致的哨兵
var keyOverrides = map[error]string{
	service.ErrEmailExists:               "error.email_exists",
	service.ErrPhoneExists:               "error.phone_exists",
	service.ErrAccountRole:               "error.account_role_invalid",
	service.ErrAccountInUse:              "error.account_in_use",
	service.ErrAttributeDuplicate:        "error.attribute_duplicate",
	service.ErrInvalidPassword:           "error.invalid_password",
	service.ErrVariantNotInProduct:       "error.variant_not_in_product",
	service.ErrDuplicateVariant:          "error.duplicate_variant",
	service.ErrOrderTotalMismatch:        "error.order_total_mismatch",
	service.ErrOrderStatusInvalid:        "error.order_status_invalid",
	service.ErrOrderStatusConflict:       "error.order_status_conflict",
	service.ErrOrderCannotCancel:         "error.order_cannot_cancel",
	service.ErrShippingAddressNeeded:     "error.shipping_address_required",
	service.ErrPaymentOrderClosed:        "error.payment_order_closed",
	service.ErrPaymentOrderNotDelivered:  "error.payment_order_not_delivered",
	service.ErrPaymentStatusInvalid:      "error.payment_status_invalid",
	service.ErrPaymentDeleteCompleted:    "error.payment_delete_completed",
	service.ErrPaymentNothingDue:         "error.payment_nothing_due",
	service.ErrReturnOrderNotCompleted:   "error.return_order_not_completed",
	service.ErrReturnQuantityExceeded:    "error.return_quantity_exceeded",
	service.ErrReturnItemInvalid:         "error.return_item_invalid",
	service.ErrReturnStatusInvalid:       "error.return_status_invalid",
	service.ErrReturnNotEditable:         "error.return_not_editable",
	service.ErrReturnDeleteCompleted:     "error.return_delete_completed",
	service.ErrVoucherExhausted:          "error.voucher_exhausted",
	service.ErrVoucherMinOrderValue:      "error.voucher_min_order_value",
	service.ErrVoucherCodeExists:         "error.voucher_code_exists",
	service.ErrVoucherInUse:              "error.voucher_in_use",
	service.ErrPromotionProductsNotFound: "error.promotion_products_not_found",
	service.ErrNoCustomers:               "error.no_customers",
	service.ErrStatisticTypeInvalid:      "error.statistic_type_invalid",
	service.ErrAuthzRoleInvalid:          "error.authz_role_invalid",
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// errorKey 哨兵对应的 i18n key，默认由错误描述推导
func errorKey(target error) string {
	if key, ok := keyOverrides[target]; ok {
		return key
	}
	return "error." + strings.Trim(nonWord.ReplaceAllString(strings.ToLower(target.Error()), "_"), "_")
}

// RespondServiceError 将服务层错误映射为统一响应；未知错误按 500 处理且不向客户端暴露原始信息
func RespondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	locale := i18n.ResolveLocale(c)

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		response.ValidationError(c, i18n.T(locale, "error.validation_failed"), TranslateIssues(locale, validation.Issues))
		return
	}

	for _, item := range serviceErrorTable {
		if !errors.Is(err, item.target) {
			continue
		}
		msg := i18n.T(locale, errorKey(item.target))
		RequestLog(c).Warnw("handler_business_rejected", "code", item.code, "error", err)
		var detail *service.DetailError
		if errors.As(err, &detail) && len(detail.Details) > 0 {
			response.ErrorWithDetail(c, item.code, msg, strings.Join(detail.Details, ", "))
			return
		}
		response.Error(c, item.code, msg)
		return
	}

	RespondError(c, response.CodeInternal, "error.internal", err)
}

// TranslateIssues 将字段问题渲染为可读文案
func TranslateIssues(locale string, issues []service.FieldIssue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		key := "validation." + issue.Rule
		if !i18n.Has(key) {
			key = "validation.invalid"
		}
		if issue.Param != "" {
			messages = append(messages, i18n.Sprintf(locale, key, issue.Field, issue.Param))
			continue
		}
		messages = append(messages, i18n.Sprintf(locale, key, issue.Field))
	}
	return messages
}
