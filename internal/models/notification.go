package models

import "time"

// Notification 站内通知
type Notification struct {
	ID        uint       `gorm:"primarykey" json:"id"`                                         // 主键
	AccountID *uint      `gorm:"index" json:"accountId"`                                       // 接收账户ID（为空表示系统公告）
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`                      // 标题
	Message   string     `gorm:"type:text;not null" json:"message"`                            // 内容
	Type      string     `gorm:"type:varchar(20);not null;default:'SYSTEM';index" json:"type"` // 类型
	IsRead    bool       `gorm:"not null;default:false;index" json:"isRead"`                   // 是否已读
	ReadAt    *time.Time `json:"readAt,omitempty"`                                             // 阅读时间
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`                                       // 创建时间
	UpdatedAt time.Time  `json:"updatedAt"`                                                    // 更新时间

	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"` // 接收账户
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
