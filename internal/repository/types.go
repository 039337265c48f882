package repository

import "time"

// AttributeListFilter 商品属性（品牌/分类/材质/颜色/尺码）列表过滤条件
type AttributeListFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// AccountListFilter 账户列表过滤条件
type AccountListFilter struct {
	Page     int
	PageSize int
	Role     string
	Status   string
	Search   string // 姓名/邮箱/手机号/编码
}

// ProductListFilter 商品列表过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Keyword    string // 名称/编码/描述
	BrandID    uint
	CategoryID uint
	MaterialID uint
	ColorID    uint
	SizeID     uint
	Status     string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string // newest/price_asc/price_desc/name
}

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	CustomerID    uint
	OrderStatus   string
	PaymentStatus string
	Code          string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// PaymentListFilter 支付记录过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	Status      string
	Method      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReturnListFilter 退货单过滤条件
type ReturnListFilter struct {
	Page        int
	PageSize    int
	Status      string
	CustomerID  uint
	Keyword     string // 退货编码或原订单编码
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// VoucherListFilter 优惠券过滤条件
type VoucherListFilter struct {
	Page      int
	PageSize  int
	Code      string
	Name      string
	Status    string
	StartFrom *time.Time // startDate >= StartFrom
	EndTo     *time.Time // endDate <= EndTo
}

// PromotionListFilter 促销过滤条件
type PromotionListFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string
	From     *time.Time // 与 [From, To] 区间重叠
	To       *time.Time
}

// NotificationListFilter 通知过滤条件
type NotificationListFilter struct {
	Page      int
	PageSize  int
	Type      string
	AccountID uint
	IsRead    *bool
}

// LoginLogListFilter 登录日志过滤条件
type LoginLogListFilter struct {
	Page        int
	PageSize    int
	AccountID   uint
	Email       string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuthzAuditLogListFilter 权限审计日志过滤条件
type AuthzAuditLogListFilter struct {
	Page              int
	PageSize          int
	OperatorAccountID uint
	TargetAccountID   uint
	Action            string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
}
