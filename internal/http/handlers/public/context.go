package public

import (
	handlershared "github.com/shopdesk/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAccountID(c *gin.Context) (uint, bool) {
	return handlershared.GetAccountID(c)
}

func parseID(c *gin.Context) (uint, bool) {
	return handlershared.ParseIDParam(c, "id")
}

func msg(c *gin.Context, key string) string {
	return handlershared.Message(c, key)
}
