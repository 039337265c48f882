package models

import "time"

// Return 退货单
type Return struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                            // 主键
	Code        string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`               // 退货编码（TH + YYMM + 序号）
	OrderID     uint       `gorm:"index;not null" json:"orderId"`                                   // 原订单ID
	CustomerID  *uint      `gorm:"index" json:"customerId"`                                         // 客户ID
	StaffID     *uint      `gorm:"index" json:"staffId"`                                            // 处理员工ID
	Reason      string     `gorm:"type:text" json:"reason"`                                         // 退货原因
	Note        string     `gorm:"type:text" json:"note"`                                           // 处理备注
	TotalRefund Money      `gorm:"type:decimal(12,2);not null;default:0" json:"totalRefund"`        // 退款总额
	Status      string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"` // 状态
	ProcessedAt *time.Time `json:"processedAt,omitempty"`                                           // 处理时间
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`                                          // 创建时间
	UpdatedAt   time.Time  `json:"updatedAt"`                                                       // 更新时间

	Order    *Order       `gorm:"foreignKey:OrderID" json:"order,omitempty"`       // 原订单
	Customer *Account     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户
	Staff    *Account     `gorm:"foreignKey:StaffID" json:"staff,omitempty"`       // 处理员工
	Items    []ReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"`      // 退货明细
}

// TableName 指定表名
func (Return) TableName() string {
	return "returns"
}

// ReturnItem 退货明细
type ReturnItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                     // 主键
	ReturnID    uint      `gorm:"index;not null" json:"returnId"`           // 退货单ID
	OrderItemID uint      `gorm:"index;not null" json:"orderItemId"`        // 原订单项ID
	VariantID   uint      `gorm:"index;not null" json:"variantId"`          // 规格ID
	Quantity    int       `gorm:"not null" json:"quantity"`                 // 退货数量
	Price       Money     `gorm:"type:decimal(12,2);not null" json:"price"` // 退款单价（取原成交价）
	Reason      string    `gorm:"type:varchar(500)" json:"reason"`          // 单项原因
	CreatedAt   time.Time `json:"createdAt"`                                // 创建时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 规格
}

// TableName 指定表名
func (ReturnItem) TableName() string {
	return "return_items"
}
