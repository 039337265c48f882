package response

import (
	"math"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success   bool        `json:"success"`             // 是否成功
	Message   string      `json:"message"`             // 提示消息
	Data      interface{} `json:"data,omitempty"`      // 数据内容
	Error     string      `json:"error,omitempty"`     // 错误说明
	Errors    []string    `json:"errors,omitempty"`    // 字段级错误
	RequestID string      `json:"requestId,omitempty"` // 请求追踪ID（仅错误响应）
}

// Pagination 分页信息
type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// NewPagination 根据总数计算分页信息
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Limit:       limit,
	}
}

// Success 成功响应
func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(CodeOK, Response{Success: true, Message: msg, Data: data})
}

// Created 创建成功响应
func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(CodeCreated, Response{Success: true, Message: msg, Data: data})
}

// Accepted 已受理、异步处理中
func Accepted(c *gin.Context, msg string) {
	c.JSON(CodeAccepted, Response{Success: true, Message: msg})
}

// SuccessWithPage 分页成功响应，数据形如 {<resource>: [...], pagination: {...}}
func SuccessWithPage(c *gin.Context, msg, resource string, items interface{}, pagination Pagination) {
	c.JSON(CodeOK, Response{
		Success: true,
		Message: msg,
		Data: gin.H{
			resource:     items,
			"pagination": pagination,
		},
	})
}

// Error 错误响应
func Error(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, Response{
		Success:   false,
		Message:   msg,
		RequestID: requestIDFrom(c),
	})
}

// ErrorWithDetail 错误响应（附带错误说明）
func ErrorWithDetail(c *gin.Context, statusCode int, msg, detail string) {
	c.JSON(statusCode, Response{
		Success:   false,
		Message:   msg,
		Error:     detail,
		RequestID: requestIDFrom(c),
	})
}

// ValidationError 400 校验失败响应，errors 为逐字段说明
func ValidationError(c *gin.Context, msg string, errs []string) {
	c.JSON(CodeBadRequest, Response{
		Success:   false,
		Message:   msg,
		Errors:    errs,
		RequestID: requestIDFrom(c),
	})
}

// AbortWithError 中断请求并输出错误响应（中间件使用）
func AbortWithError(c *gin.Context, statusCode int, msg string) {
	Error(c, statusCode, msg)
	c.Abort()
}

func requestIDFrom(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
