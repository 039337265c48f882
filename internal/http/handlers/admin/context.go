package admin

import (
	handlershared "github.com/shopdesk/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetAccountID(c)
}

// currentAdminID 读取操作人，不输出错误响应
func currentAdminID(c *gin.Context) uint {
	if value, ok := c.Get(handlershared.ContextAccountID); ok {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

func currentRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

func parseID(c *gin.Context) (uint, bool) {
	return handlershared.ParseIDParam(c, "id")
}

func msg(c *gin.Context, key string) string {
	return handlershared.Message(c, key)
}
