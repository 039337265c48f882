package models

import "time"

// OrderItem 订单项表（价格为下单时快照，不随商品调价变化）
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	OrderID   uint      `gorm:"index;not null" json:"orderId"`            // 订单ID
	VariantID uint      `gorm:"index;not null" json:"variantId"`          // 规格ID
	Quantity  int       `gorm:"not null" json:"quantity"`                 // 数量
	Price     Money     `gorm:"type:decimal(12,2);not null" json:"price"` // 成交单价
	CreatedAt time.Time `json:"createdAt"`                                // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                // 更新时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 规格
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
