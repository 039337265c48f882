package models

import "time"

// Account 账户表（客户与管理员共用）
type Account struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                           // 主键
	Code         string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`              // 账户编码（CUS0001YY / ADM0001YY）
	FullName     string     `gorm:"type:varchar(150);not null" json:"fullName"`                     // 姓名
	PhoneNumber  string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"phoneNumber"`       // 手机号
	Email        string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`            // 邮箱
	PasswordHash string     `gorm:"not null" json:"-"`                                              // 密码哈希（不返回给前端）
	Birthday     *time.Time `json:"birthday,omitempty"`                                             // 生日
	Gender       *bool      `json:"gender,omitempty"`                                               // 性别（true 男 / false 女）
	Avatar       string     `gorm:"type:varchar(500)" json:"avatar"`                                // 头像地址
	Role         string     `gorm:"type:varchar(20);not null;default:'CUSTOMER';index" json:"role"` // 角色
	CitizenID    string     `gorm:"type:varchar(20)" json:"citizenId"`                              // 身份证号
	Status       string     `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                                    // Token 版本（用于全量失效）
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`                                          // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt    time.Time  `json:"updatedAt"`                                                      // 更新时间

	Addresses []AccountAddress `gorm:"foreignKey:AccountID" json:"addresses,omitempty"` // 收货地址
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}

// AccountAddress 账户收货地址
type AccountAddress struct {
	ID              uint      `gorm:"primarykey" json:"id"`                              // 主键
	AccountID       uint      `gorm:"index;not null" json:"accountId"`                   // 账户ID
	Name            string    `gorm:"type:varchar(150);not null" json:"name"`            // 收货人
	PhoneNumber     string    `gorm:"type:varchar(20);not null" json:"phoneNumber"`      // 收货电话
	ProvinceID      string    `gorm:"type:varchar(20);not null" json:"provinceId"`       // 省/市编码
	DistrictID      string    `gorm:"type:varchar(20);not null" json:"districtId"`       // 区/县编码
	WardID          string    `gorm:"type:varchar(20);not null" json:"wardId"`           // 坊/社编码
	SpecificAddress string    `gorm:"type:varchar(500);not null" json:"specificAddress"` // 详细地址
	Type            bool      `gorm:"not null;default:false" json:"type"`                // 地址类型（true 公司 / false 住宅）
	IsDefault       bool      `gorm:"not null;default:false;index" json:"isDefault"`     // 是否默认
	CreatedAt       time.Time `json:"createdAt"`                                         // 创建时间
	UpdatedAt       time.Time `json:"updatedAt"`                                         // 更新时间
}

// TableName 指定表名
func (AccountAddress) TableName() string {
	return "account_addresses"
}
