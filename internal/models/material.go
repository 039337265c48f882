package models

import "time"

// Material 材质表
type Material struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`             // 材质名称
	Status    string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                                      // 更新时间
}

// TableName 指定表名
func (Material) TableName() string {
	return "materials"
}
