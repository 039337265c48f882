package shared

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopdesk/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// 上下文 key
const (
	ContextAccountID = "account_id"
	ContextRole      = "role"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetAccountID 当前登录账户
func GetAccountID(c *gin.Context) (uint, bool) {
	return GetContextUintWithKeys(c, ContextAccountID, "error.unauthorized", "error.internal")
}

// ParseIDParam 解析路径中的正整数 ID
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}

// QueryUint 读取可选的 uint 查询参数，非法值视为未传
func QueryUint(c *gin.Context, key string) uint {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

// QueryBool 读取可选的布尔查询参数
func QueryBool(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// QueryFloat 读取可选的数值查询参数
func QueryFloat(c *gin.Context, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// QueryDecimal 读取可选的金额查询参数，缺省为 0
func QueryDecimal(c *gin.Context, key string) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return decimal.Zero, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return decimal.Zero, false
	}
	return value, true
}

// ParseTime 解析 RFC3339 或 YYYY-MM-DD，空串返回 nil
func ParseTime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// QueryDateRange 读取日期区间查询参数；结束日期为纯日期时包含当天
func QueryDateRange(c *gin.Context, fromKey, toKey string) (*time.Time, *time.Time, bool) {
	from, err := ParseTime(c.Query(fromKey))
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.invalid_date_range", nil)
		return nil, nil, false
	}
	rawTo := strings.TrimSpace(c.Query(toKey))
	to, err := ParseTime(rawTo)
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.invalid_date_range", nil)
		return nil, nil, false
	}
	if to != nil && len(rawTo) == len("2006-01-02") {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, true
}
