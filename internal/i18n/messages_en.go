package i18n

// messagesEN 英文文案
var messagesEN = map[string]string{
	"message.success":              "Success",
	"message.created":              "Created successfully",
	"message.updated":              "Updated successfully",
	"message.deleted":              "Deleted successfully",
	"message.login_success":        "Logged in successfully",
	"message.register_success":     "Registered successfully",
	"message.logout_success":       "Logged out successfully",
	"message.password_changed":     "Password changed successfully",
	"message.order_created":        "Order created successfully",
	"message.order_canceled":       "Order canceled successfully",
	"message.order_status_updated": "Order status updated successfully",
	"message.payment_created":      "Payment recorded successfully",
	"message.return_created":       "Return request created successfully",
	"message.voucher_valid":        "Voucher is valid",
	"message.notifications_sent":   "Notifications sent",
	"message.marked_read":          "Marked as read",
	"message.statistics_generated": "Daily statistics generated",
	"message.statistics_queued":    "Daily statistics generation queued",
	"message.health_ok":            "Service is healthy",

	"error.bad_request":        "Invalid request",
	"error.unauthorized":       "Not logged in or session expired",
	"error.forbidden":          "You are not allowed to perform this action",
	"error.not_found":          "Resource not found",
	"error.route_not_found":    "Route not found",
	"error.internal":           "Internal server error, please try again later",
	"error.too_many_requests":  "Too many requests, please try again later",
	"error.validation_failed":  "Validation failed",
	"error.id_invalid":         "Invalid ID",
	"error.invalid_date_range": "Invalid date range",

	"error.invalid_credentials":     "Incorrect password",
	"error.invalid_password":        "Current password is incorrect",
	"error.weak_password":           "Password is too weak",
	"error.invalid_token":           "Invalid token",
	"error.token_revoked":           "Session has been revoked, please log in again",
	"error.captcha_required":        "Captcha is required",
	"error.captcha_invalid":         "Captcha is incorrect",
	"error.captcha_generate_failed": "Failed to generate captcha",
	"error.login_rate_limited":      "Too many failed logins, please try again later",

	"error.account_not_found":    "Account not found",
	"error.account_disabled":     "Account is disabled",
	"error.email_exists":         "Email is already registered",
	"error.phone_exists":         "Phone number is already registered",
	"error.account_role_invalid": "Invalid account role",
	"error.account_in_use":       "Account has orders and cannot be deleted",
	"error.address_not_found":    "Address not found",
	"error.customer_not_found":   "Customer not found",

	"error.attribute_not_found": "Attribute not found",
	"error.attribute_duplicate": "Attribute already exists",
	"error.attribute_in_use":    "Attribute is used by products",
	"error.brand_not_found":     "Brand not found",
	"error.category_not_found":  "Category not found",
	"error.material_not_found":  "Material not found",
	"error.color_not_found":     "Color not found",
	"error.size_not_found":      "Size not found",

	"error.product_not_found":      "Product not found",
	"error.variant_not_found":      "Product variant not found",
	"error.variant_not_in_product": "Variant does not belong to the product",
	"error.duplicate_variant":      "Duplicate color and size among variants",
	"error.insufficient_stock":     "Insufficient stock",

	"error.order_not_found":           "Order not found",
	"error.order_items_required":      "Order must contain at least one item",
	"error.order_total_mismatch":      "Order total does not match",
	"error.order_status_invalid":      "Order status transition is not allowed",
	"error.order_status_conflict":     "Order status was changed concurrently, please reload",
	"error.order_already_canceled":    "Order is already canceled",
	"error.order_cannot_cancel":       "Order cannot be canceled in its current status",
	"error.shipping_address_required": "Shipping address is required",

	"error.payment_not_found":           "Payment not found",
	"error.payment_amount_invalid":      "Invalid payment amount",
	"error.payment_method_invalid":      "Invalid payment method",
	"error.payment_order_closed":        "Order no longer accepts payments",
	"error.payment_order_not_delivered": "Order has not been delivered",
	"error.payment_status_invalid":      "Payment status transition is not allowed",
	"error.payment_delete_completed":    "Completed payments cannot be deleted",
	"error.payment_nothing_due":         "Order is already fully paid",

	"error.return_not_found":           "Return not found",
	"error.return_order_not_completed": "Only completed orders can be returned",
	"error.return_window_expired":      "Return window has expired",
	"error.return_quantity_exceeded":   "Return quantity exceeds purchased quantity",
	"error.return_item_invalid":        "Returned item does not belong to the order",
	"error.return_status_invalid":      "Return status transition is not allowed",
	"error.return_not_editable":        "Only pending returns can be edited",
	"error.return_delete_completed":    "Completed returns cannot be deleted",

	"error.voucher_not_found":       "Voucher not found",
	"error.voucher_inactive":        "Voucher is inactive",
	"error.voucher_not_started":     "Voucher is not yet valid",
	"error.voucher_expired":         "Voucher has expired",
	"error.voucher_exhausted":       "Voucher usage limit reached",
	"error.voucher_min_order_value": "Order value is below the voucher minimum",
	"error.voucher_code_exists":     "Voucher code already exists",
	"error.voucher_in_use":          "Voucher has been used and cannot be deleted",

	"error.promotion_not_found":          "Promotion not found",
	"error.promotion_products_not_found": "Some products do not exist",
	"error.notification_not_found":       "Notification not found",
	"error.no_customers":                 "No active customers",

	"error.statistic_type_invalid": "Invalid statistic type",
	"error.authz_role_invalid":     "Invalid authorization role",
	"error.authz_policy_not_found": "Authorization policy not found",

	"validation.required":          "%s is required",
	"validation.email":             "%s must be a valid email",
	"validation.phone":             "%s must be a valid phone number",
	"validation.numeric":           "%s must be numeric",
	"validation.oneof":             "%s must be one of: %s",
	"validation.gt":                "%s must be greater than %s",
	"validation.gte":               "%s must be greater than or equal to %s",
	"validation.lte":               "%s must be less than or equal to %s",
	"validation.min":               "%s must have at least %s",
	"validation.max":               "%s must have at most %s",
	"validation.between":           "%s must be within %s",
	"validation.after_start":       "%s must be after the start date",
	"validation.exists":            "%s does not exist",
	"validation.duplicate_variant": "%s duplicates another color and size",
	"validation.password_upper":    "%s must contain an uppercase letter",
	"validation.password_lower":    "%s must contain a lowercase letter",
	"validation.password_number":   "%s must contain a digit",
	"validation.password_special":  "%s must contain a special character",
	"validation.derived":           "%s is derived from recorded payments",
	"validation.invalid":           "%s is invalid",

	"order_status.CHO_XAC_NHAN":    "Pending confirmation",
	"order_status.CHO_GIAO_HANG":   "Awaiting shipment",
	"order_status.DANG_VAN_CHUYEN": "Shipping",
	"order_status.DA_GIAO_HANG":    "Delivered",
	"order_status.HOAN_THANH":      "Completed",
	"order_status.DA_HUY":          "Canceled",

	"notification.order_status_title":   "Order %s updated",
	"notification.order_status_message": "Your order %s is now: %s",
}
