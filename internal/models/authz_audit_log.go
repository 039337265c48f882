package models

import "time"

// AuthzAuditLog 权限策略审计日志
// 说明：记录后台角色与策略的变更操作。
type AuthzAuditLog struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	OperatorAccountID uint      `gorm:"index;not null" json:"operatorAccountId"`
	TargetAccountID   *uint     `gorm:"index" json:"targetAccountId,omitempty"`
	Action            string    `gorm:"type:varchar(100);index;not null" json:"action"`
	Role              string    `gorm:"type:varchar(120);index;not null;default:''" json:"role"`
	RequestID         string    `gorm:"type:varchar(64);index;not null;default:''" json:"requestId"`
	DetailJSON        JSON      `gorm:"type:json" json:"detail"`
	CreatedAt         time.Time `gorm:"index" json:"createdAt"`
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
