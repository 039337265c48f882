package models

import "time"

// Brand 品牌表
type Brand struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`             // 品牌名称
	Status    string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                                      // 更新时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}
