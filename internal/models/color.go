package models

import "time"

// Color 颜色表
type Color struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`             // 颜色名称
	Code      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`              // 色值编码（如 #FFFFFF）
	Status    string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                                      // 更新时间
}

// TableName 指定表名
func (Color) TableName() string {
	return "colors"
}
