package constants

// 账户角色常量
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// 通用启用状态常量（账户、品牌、分类、材质、颜色、尺码、商品、促销、优惠券）
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// 订单状态常量
const (
	OrderStatusPendingConfirm = "CHO_XAC_NHAN"
	OrderStatusAwaitShipment  = "CHO_GIAO_HANG"
	OrderStatusShipping       = "DANG_VAN_CHUYEN"
	OrderStatusDelivered      = "DA_GIAO_HANG"
	OrderStatusCompleted      = "HOAN_THANH"
	OrderStatusCanceled       = "DA_HUY"
)

// 订单支付状态常量
const (
	OrderPaymentPending     = "PENDING"
	OrderPaymentPartialPaid = "PARTIAL_PAID"
	OrderPaymentPaid        = "PAID"
)

// 支付记录状态常量
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

// 支付方式常量
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCOD          = "COD"
	PaymentMethodMixed        = "MIXED"
)

// 退货状态常量
const (
	ReturnStatusPending   = "PENDING"
	ReturnStatusApproved  = "APPROVED"
	ReturnStatusRejected  = "REJECTED"
	ReturnStatusCompleted = "COMPLETED"
	ReturnStatusCanceled  = "CANCELLED"
)

// 优惠券类型常量
const (
	VoucherTypePercentage  = "PERCENTAGE"
	VoucherTypeFixedAmount = "FIXED_AMOUNT"
)

// 通知类型常量
const (
	NotificationTypeVoucher   = "VOUCHER"
	NotificationTypeOrder     = "ORDER"
	NotificationTypeSystem    = "SYSTEM"
	NotificationTypePromotion = "PROMOTION"
)

// 统计周期常量
const (
	StatisticPeriodDaily   = "daily"
	StatisticPeriodWeekly  = "weekly"
	StatisticPeriodMonthly = "monthly"
	StatisticPeriodYearly  = "yearly"
)

// 编码前缀常量
const (
	AccountCodePrefixCustomer = "CUS"
	AccountCodePrefixAdmin    = "ADM"
	ProductCodePrefix         = "PRD"
	OrderCodePrefix           = "DH"
	ReturnCodePrefix          = "TH"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonCaptchaRequired    = "captcha_required"
	LoginLogFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginLogFailReasonAccountNotFound    = "account_not_found"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonAccountDisabled    = "account_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 权限审计动作常量
const (
	AuthzAuditActionRolePoliciesSet  = "role_policies_set"
	AuthzAuditActionRolePolicyGrant  = "role_policy_grant"
	AuthzAuditActionRolePolicyRevoke = "role_policy_revoke"
	AuthzAuditActionRoleDelete       = "role_delete"
	AuthzAuditActionAccountRolesSet  = "account_roles_set"
)

// 验证码场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 地区常量
const (
	DefaultLocale = "vi-VN"
	LocaleEnglish = "en-US"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskNotificationBroadcast   = "notification:broadcast"
	TaskNotificationOrderStatus = "notification:order_status"
	TaskStatisticsGenerateDaily = "statistics:generate_daily"
	TaskVoucherExpireSweep      = "voucher:expire_sweep"
)
