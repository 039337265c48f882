package service

import (
	"strconv"
	"unicode"

	"github.com/shopdesk/internal/config"
)

// validatePassword 按配置的密码策略校验，不满足时返回 password 字段的校验问题
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	issues := &ValidationError{}
	if len([]rune(password)) == 0 {
		issues.Add("password", "required")
		return issues
	}
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		issues.Add("password", "min", strconv.Itoa(policy.MinLength))
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		issues.Add("password", "password_upper")
	}
	if policy.RequireLower && !hasLower {
		issues.Add("password", "password_lower")
	}
	if policy.RequireNumber && !hasNumber {
		issues.Add("password", "password_number")
	}
	if policy.RequireSpecial && !hasSpecial {
		issues.Add("password", "password_special")
	}
	return issues.OrNil()
}
