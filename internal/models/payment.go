package models

import "time"

// Payment 支付记录（门店收款、转账、货到付款）
type Payment struct {
	ID             uint       `gorm:"primarykey" json:"id"`                          // 主键
	OrderID        uint       `gorm:"index;not null" json:"orderId"`                 // 订单ID
	Amount         Money      `gorm:"type:decimal(12,2);not null" json:"amount"`     // 金额
	Method         string     `gorm:"type:varchar(20);not null;index" json:"method"` // 支付方式
	Status         string     `gorm:"type:varchar(20);not null;index" json:"status"` // 支付状态
	TransactionRef string     `gorm:"type:varchar(100);index" json:"transactionRef"` // 转账流水号
	Note           string     `gorm:"type:text" json:"note"`                         // 备注
	CreatedBy      *uint      `gorm:"index" json:"createdBy,omitempty"`              // 录入员工ID
	PaidAt         *time.Time `gorm:"index" json:"paidAt,omitempty"`                 // 到账时间
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`                        // 创建时间
	UpdatedAt      time.Time  `json:"updatedAt"`                                     // 更新时间

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"` // 订单
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
