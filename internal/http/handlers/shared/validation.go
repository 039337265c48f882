package shared

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/i18n"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// registerJSONTagName 校验错误中的字段名使用 json 标签
func registerJSONTagName() {
	registerTagNameOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// BindJSON 绑定并校验请求体，失败时直接输出 400 响应
func BindJSON(c *gin.Context, req interface{}) bool {
	registerJSONTagName()
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// BindQuery 绑定并校验查询参数
func BindQuery(c *gin.Context, req interface{}) bool {
	registerJSONTagName()
	if err := c.ShouldBindQuery(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		locale := i18n.ResolveLocale(c)
		response.ValidationError(c, i18n.T(locale, "error.validation_failed"), TranslateIssues(locale, IssuesFromValidator(verrs)))
		return
	}
	RequestLog(c).Warnw("handler_bind_failed", "error", err)
	RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
}

// IssuesFromValidator 将 validator 错误转换为字段问题，嵌套字段保留路径（items[0].quantity）
func IssuesFromValidator(verrs validator.ValidationErrors) []service.FieldIssue {
	issues := make([]service.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, service.FieldIssue{
			Field: fieldPath(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return issues
}

// fieldPath 去掉顶层结构体名
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
