package models

import "time"

// DailyStatistic 每日经营快照
// 说明：由后台任务按天生成，同一天重复生成会覆盖旧值。
type DailyStatistic struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Date         string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	TotalOrders  int64     `gorm:"not null;default:0" json:"totalOrders"`
	TotalRevenue Money     `gorm:"type:decimal(14,2);not null;default:0" json:"totalRevenue"`
	TotalProfit  Money     `gorm:"type:decimal(14,2);not null;default:0" json:"totalProfit"`
	NewCustomers int64     `gorm:"not null;default:0" json:"newCustomers"`
	ProductsSold int64     `gorm:"not null;default:0" json:"productsSold"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (DailyStatistic) TableName() string {
	return "daily_statistics"
}
