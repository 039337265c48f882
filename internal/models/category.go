package models

import "time"

// Category 商品分类表
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`             // 分类名称
	Status    string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                                      // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
