package models

import "time"

// Promotion 促销活动（对指定商品按百分比打折，独立于优惠券）
type Promotion struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                           // 主键
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`                         // 名称
	Description     string    `gorm:"type:text" json:"description"`                                   // 描述
	DiscountPercent int       `gorm:"not null;default:0" json:"discountPercent"`                      // 折扣百分比（0-100）
	StartDate       time.Time `gorm:"index;not null" json:"startDate"`                                // 开始时间
	EndDate         time.Time `gorm:"index;not null" json:"endDate"`                                  // 结束时间
	Status          string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt       time.Time `json:"updatedAt"`                                                      // 更新时间

	Products []Product `gorm:"many2many:promotion_products;joinForeignKey:PromotionID;joinReferences:ProductID" json:"products,omitempty"` // 适用商品
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}

// PromotionProduct 促销与商品关联表
type PromotionProduct struct {
	PromotionID uint      `gorm:"primaryKey" json:"promotionId"`     // 促销ID
	ProductID   uint      `gorm:"primaryKey;index" json:"productId"` // 商品ID
	CreatedAt   time.Time `json:"createdAt"`                         // 创建时间
}

// TableName 指定表名
func (PromotionProduct) TableName() string {
	return "promotion_products"
}
