package models

import "time"

// Voucher 优惠券（结算时使用的限量折扣码）
type Voucher struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                           // 主键
	Code          string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`              // 券码
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`                         // 名称
	Description   string    `gorm:"type:text" json:"description"`                                   // 描述
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`                          // 类型（PERCENTAGE/FIXED_AMOUNT）
	Value         Money     `gorm:"type:decimal(12,2);not null" json:"value"`                       // 数值（百分比或固定金额）
	Quantity      int       `gorm:"not null;default:0" json:"quantity"`                             // 发行数量
	UsedCount     int       `gorm:"not null;default:0" json:"usedCount"`                            // 已使用次数（不可超过发行数量）
	StartDate     time.Time `gorm:"index;not null" json:"startDate"`                                // 生效时间
	EndDate       time.Time `gorm:"index;not null" json:"endDate"`                                  // 失效时间
	MinOrderValue Money     `gorm:"type:decimal(12,2);not null;default:0" json:"minOrderValue"`     // 最低订单金额
	MaxDiscount   Money     `gorm:"type:decimal(12,2);not null;default:0" json:"maxDiscount"`       // 最高优惠（0 表示不封顶）
	Status        string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt     time.Time `json:"updatedAt"`                                                      // 更新时间
}

// TableName 指定表名
func (Voucher) TableName() string {
	return "vouchers"
}
