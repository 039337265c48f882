package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Size 尺码表
type Size struct {
	ID        uint            `gorm:"primarykey" json:"id"`                                           // 主键
	Value     decimal.Decimal `gorm:"type:decimal(4,1);uniqueIndex;not null" json:"value"`            // 尺码值（如 38.5）
	Status    string          `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt time.Time       `json:"updatedAt"`                                                      // 更新时间
}

// TableName 指定表名
func (Size) TableName() string {
	return "sizes"
}
