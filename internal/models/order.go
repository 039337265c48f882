package models

import (
	"time"
)

// Order 订单表
type Order struct {
	ID                      uint       `gorm:"primarykey" json:"id"`                                                      // 主键
	Code                    string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`                         // 订单编码（DH + YYMM + 序号）
	CustomerID              *uint      `gorm:"index" json:"customerId"`                                                   // 客户ID（门店散客可为空）
	StaffID                 *uint      `gorm:"index" json:"staffId"`                                                      // 经办员工ID
	VoucherID               *uint      `gorm:"index" json:"voucherId"`                                                    // 优惠券ID
	SubTotal                Money      `gorm:"type:decimal(12,2);not null" json:"subTotal"`                               // 商品小计
	Discount                Money      `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`                     // 优惠金额
	Total                   Money      `gorm:"type:decimal(12,2);not null" json:"total"`                                  // 应付总额
	ShippingName            string     `gorm:"type:varchar(150)" json:"shippingName"`                                     // 收货人快照
	ShippingPhoneNumber     string     `gorm:"type:varchar(20)" json:"shippingPhoneNumber"`                               // 收货电话快照
	ShippingProvinceID      string     `gorm:"type:varchar(20)" json:"shippingProvinceId"`                                // 省/市快照
	ShippingDistrictID      string     `gorm:"type:varchar(20)" json:"shippingDistrictId"`                                // 区/县快照
	ShippingWardID          string     `gorm:"type:varchar(20)" json:"shippingWardId"`                                    // 坊/社快照
	ShippingSpecificAddress string     `gorm:"type:varchar(500)" json:"shippingSpecificAddress"`                          // 详细地址快照
	PaymentMethod           string     `gorm:"type:varchar(20);not null" json:"paymentMethod"`                            // 支付方式
	PaymentStatus           string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"paymentStatus"`    // 支付状态（由支付记录汇总）
	OrderStatus             string     `gorm:"type:varchar(20);not null;default:'CHO_XAC_NHAN';index" json:"orderStatus"` // 订单状态
	Note                    string     `gorm:"type:text" json:"note"`                                                     // 备注
	CompletedAt             *time.Time `gorm:"index" json:"completedAt,omitempty"`                                        // 完成时间（退货窗口起点）
	CanceledAt              *time.Time `json:"canceledAt,omitempty"`                                                      // 取消时间
	CreatedAt               time.Time  `gorm:"index" json:"createdAt"`                                                    // 创建时间
	UpdatedAt               time.Time  `gorm:"index" json:"updatedAt"`                                                    // 更新时间

	Customer *Account    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户
	Staff    *Account    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`       // 经办员工
	Voucher  *Voucher    `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`   // 优惠券
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`       // 订单项
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`    // 支付记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
