package models

import (
	"fmt"
	"time"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminInput 默认管理员参数
type DefaultAdminInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(input DefaultAdminInput) error {
	var count int64
	if err := DB.Model(&Account{}).Where("role = ?", constants.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if input.Email == "" {
		input.Email = "admin@shopdesk.local"
	}
	if input.Password == "" {
		input.Password = "admin123"
	}
	if input.FullName == "" {
		input.FullName = "Administrator"
	}
	if input.Phone == "" {
		input.Phone = "0900000000"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Account{
		Code:         fmt.Sprintf("%s%04d%s", constants.AccountCodePrefixAdmin, 1, time.Now().Format("06")),
		FullName:     input.FullName,
		PhoneNumber:  input.Phone,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
		Status:       constants.StatusActive,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if input.Password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "email", input.Email)
		logger.Warnw("default_admin_password_change_required", "email", input.Email)
	} else {
		logger.Warnw("default_admin_created", "email", input.Email, "password_hidden", true)
	}
	return nil
}
