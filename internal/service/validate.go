package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var fieldValidator = validator.New()

// requireText 非空字符串校验，返回去除首尾空格后的值
func requireText(issues *ValidationError, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		issues.Add(field, "required")
	}
	return value
}

// checkEmail 邮箱格式校验
func checkEmail(issues *ValidationError, field, value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		issues.Add(field, "required")
		return value
	}
	if err := fieldValidator.Var(value, "email"); err != nil {
		issues.Add(field, "email")
	}
	return value
}

// checkPhone 手机号格式校验（越南号码 10 位，允许 +84 前缀）
func checkPhone(issues *ValidationError, field, value string, required bool) string {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			issues.Add(field, "required")
		}
		return value
	}
	if err := fieldValidator.Var(value, "numeric,min=9,max=12"); err != nil {
		if !strings.HasPrefix(value, "+") || fieldValidator.Var(value[1:], "numeric,min=9,max=12") != nil {
			issues.Add(field, "phone")
		}
	}
	return value
}

// checkOneOf 枚举值校验
func checkOneOf(issues *ValidationError, field, value string, allowed ...string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	issues.Add(field, "oneof", strings.Join(allowed, " "))
	return value
}

// checkPositiveMoney 金额必须大于 0
func checkPositiveMoney(issues *ValidationError, field string, value decimal.Decimal) {
	if !value.IsPositive() {
		issues.Add(field, "gt", "0")
	}
}

// checkDateRange 开始时间必须早于结束时间
func checkDateRange(issues *ValidationError, start, end time.Time) {
	if start.IsZero() {
		issues.Add("startDate", "required")
	}
	if end.IsZero() {
		issues.Add("endDate", "required")
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		issues.Add("endDate", "after_start")
	}
}

// checkRange 整数区间校验（闭区间）
func checkRange(issues *ValidationError, field string, value, min, max int) {
	if value < min || value > max {
		issues.Add(field, "between", strconv.Itoa(min)+"-"+strconv.Itoa(max))
	}
}

func normalizeStatus(value, fallback string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
