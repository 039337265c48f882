package shared

import (
	"github.com/shopdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

// Message 按请求语言翻译成功提示
func Message(c *gin.Context, key string) string {
	return i18n.T(i18n.ResolveLocale(c), key)
}
