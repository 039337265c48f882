package service

import (
	"errors"
	"strings"
)

// businessErrors 业务拒绝类哨兵错误，日志按 Warn 记录
var businessErrors []error

func businessError(message string) error {
	err := errors.New(message)
	businessErrors = append(businessErrors, err)
	return err
}

var (
	ErrNotFound         = businessError("not found")
	ErrForbidden        = businessError("forbidden")
	ErrValidation       = businessError("validation failed")
	ErrInvalidDateRange = businessError("invalid date range")

	ErrInvalidCredentials = businessError("invalid credentials")
	ErrInvalidPassword    = businessError("current password mismatch")
	ErrWeakPassword       = businessError("weak password")
	ErrInvalidToken       = businessError("invalid token")
	ErrTokenRevoked       = businessError("token revoked")
	ErrCaptchaRequired    = businessError("captcha required")
	ErrCaptchaInvalid     = businessError("captcha invalid")

	ErrAccountNotFound  = businessError("account not found")
	ErrAccountDisabled  = businessError("account disabled")
	ErrEmailExists      = businessError("email already registered")
	ErrPhoneExists      = businessError("phone number already registered")
	ErrAccountRole      = businessError("invalid account role")
	ErrAccountInUse     = businessError("account referenced by orders")
	ErrCodeExhausted    = errors.New("code generation exhausted")
	ErrAddressNotFound  = businessError("address not found")
	ErrCustomerNotFound = businessError("customer not found")

	ErrAttributeNotFound  = businessError("attribute not found")
	ErrAttributeDuplicate = businessError("attribute already exists")
	ErrAttributeInUse     = businessError("attribute in use")
	ErrBrandNotFound      = businessError("brand not found")
	ErrCategoryNotFound   = businessError("category not found")
	ErrMaterialNotFound   = businessError("material not found")
	ErrColorNotFound      = businessError("color not found")
	ErrSizeNotFound       = businessError("size not found")

	ErrProductNotFound     = businessError("product not found")
	ErrVariantNotFound     = businessError("variant not found")
	ErrVariantNotInProduct = businessError("variant does not belong to product")
	ErrDuplicateVariant    = businessError("duplicate variant color and size")
	ErrInsufficientStock   = businessError("insufficient stock")

	ErrOrderNotFound         = businessError("order not found")
	ErrOrderItemsRequired    = businessError("order items required")
	ErrOrderTotalMismatch    = businessError("order total mismatch")
	ErrOrderStatusInvalid    = businessError("order status transition invalid")
	ErrOrderStatusConflict   = businessError("order status changed concurrently")
	ErrOrderAlreadyCanceled  = businessError("order already canceled")
	ErrOrderCannotCancel     = businessError("order cannot be canceled")
	ErrShippingAddressNeeded = businessError("shipping address required")

	ErrPaymentNotFound          = businessError("payment not found")
	ErrPaymentAmountInvalid     = businessError("payment amount invalid")
	ErrPaymentMethodInvalid     = businessError("payment method invalid")
	ErrPaymentOrderClosed       = businessError("order does not accept payments")
	ErrPaymentOrderNotDelivered = businessError("order not delivered")
	ErrPaymentStatusInvalid     = businessError("payment status transition invalid")
	ErrPaymentDeleteCompleted   = businessError("completed payment cannot be deleted")
	ErrPaymentNothingDue        = businessError("order already fully paid")

	ErrReturnNotFound          = businessError("return not found")
	ErrReturnOrderNotCompleted = businessError("order not completed")
	ErrReturnWindowExpired     = businessError("return window expired")
	ErrReturnQuantityExceeded  = businessError("return quantity exceeds ordered quantity")
	ErrReturnItemInvalid       = businessError("return item does not match order")
	ErrReturnStatusInvalid     = businessError("return status transition invalid")
	ErrReturnNotEditable       = businessError("return is not editable")
	ErrReturnDeleteCompleted   = businessError("completed return cannot be deleted")

	ErrVoucherNotFound      = businessError("voucher not found")
	ErrVoucherInactive      = businessError("voucher inactive")
	ErrVoucherNotStarted    = businessError("voucher not started")
	ErrVoucherExpired       = businessError("voucher expired")
	ErrVoucherExhausted     = businessError("voucher usage exhausted")
	ErrVoucherMinOrderValue = businessError("order value below voucher minimum")
	ErrVoucherCodeExists    = businessError("voucher code exists")
	ErrVoucherInUse         = businessError("voucher already used")

	ErrPromotionNotFound         = businessError("promotion not found")
	ErrPromotionProductsNotFound = businessError("promotion products not found")

	ErrNotificationNotFound = businessError("notification not found")
	ErrNoCustomers          = businessError("no active customers")

	ErrStatisticTypeInvalid = businessError("statistic type invalid")

	ErrAuthzRoleInvalid = businessError("authz role invalid")
)

// FieldIssue 单个字段校验问题，Rule 对应 validation.<rule> 文案
type FieldIssue struct {
	Field string
	Rule  string
	Param string
}

// ValidationError 字段级校验错误集合
type ValidationError struct {
	Issues []FieldIssue
}

// Add 追加字段问题
func (e *ValidationError) Add(field, rule string, param ...string) {
	issue := FieldIssue{Field: field, Rule: rule}
	if len(param) > 0 {
		issue.Param = param[0]
	}
	e.Issues = append(e.Issues, issue)
}

// HasIssues 是否存在问题
func (e *ValidationError) HasIssues() bool {
	return e != nil && len(e.Issues) > 0
}

// OrNil 无问题时返回 nil，避免 typed-nil error
func (e *ValidationError) OrNil() error {
	if !e.HasIssues() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		part := issue.Field + " " + issue.Rule
		if issue.Param != "" {
			part += "=" + issue.Param
		}
		parts = append(parts, part)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Is 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DetailError 携带明细的业务错误（如不存在的商品 ID 列表）
type DetailError struct {
	Err     error
	Details []string
}

func (e *DetailError) Error() string {
	if len(e.Details) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + strings.Join(e.Details, ", ")
}

// Unwrap 返回底层哨兵错误
func (e *DetailError) Unwrap() error {
	return e.Err
}

func withDetails(err error, details ...string) error {
	return &DetailError{Err: err, Details: details}
}

// IsBusinessError 是否为业务拒绝（校验失败或已登记的哨兵错误）
func IsBusinessError(err error) bool {
	if err == nil {
		return false
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return true
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
