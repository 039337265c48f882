package shared

import (
	"strings"

	"github.com/shopdesk/internal/constants"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AttributeRequest 品牌/分类/材质/颜色/尺码通用请求体
type AttributeRequest struct {
	Name   *string          `json:"name"`
	Code   *string          `json:"code"`
	Value  *decimal.Decimal `json:"value"`
	Status *string          `json:"status"`
}

// AttributeHandlers 某一属性表的 CRUD 处理函数
type AttributeHandlers struct {
	List   gin.HandlerFunc
	Get    gin.HandlerFunc
	Create gin.HandlerFunc
	Update gin.HandlerFunc
	Delete gin.HandlerFunc
}

// NewAttributeHandlers 生成属性 CRUD 处理函数；activeOnly 时列表只返回启用项
func NewAttributeHandlers[T any](svc *service.AttributeService[T], resource string, activeOnly bool) AttributeHandlers {
	toInput := func(req AttributeRequest) service.AttributeInput {
		return service.AttributeInput{Name: req.Name, Code: req.Code, Value: req.Value, Status: req.Status}
	}
	return AttributeHandlers{
		List: func(c *gin.Context) {
			page, limit := PageQuery(c)
			status := strings.TrimSpace(c.Query("status"))
			if activeOnly {
				status = constants.StatusActive
			}
			items, total, err := svc.List(repository.AttributeListFilter{
				Page:     page,
				PageSize: limit,
				Status:   status,
				Search:   strings.TrimSpace(c.Query("search")),
			})
			if err != nil {
				RespondServiceError(c, err)
				return
			}
			response.SuccessWithPage(c, Message(c, "message.success"), resource, items, response.NewPagination(total, page, limit))
		},
		Get: func(c *gin.Context) {
			id, ok := ParseIDParam(c, "id")
			if !ok {
				return
			}
			item, err := svc.Get(id)
			if err != nil {
				RespondServiceError(c, err)
				return
			}
			response.Success(c, Message(c, "message.success"), item)
		},
		Create: func(c *gin.Context) {
			var req AttributeRequest
			if !BindJSON(c, &req) {
				return
			}
			item, err := svc.Create(toInput(req))
			if err != nil {
				RespondServiceError(c, err)
				return
			}
			response.Created(c, Message(c, "message.created"), item)
		},
		Update: func(c *gin.Context) {
			id, ok := ParseIDParam(c, "id")
			if !ok {
				return
			}
			var req AttributeRequest
			if !BindJSON(c, &req) {
				return
			}
			item, err := svc.Update(id, toInput(req))
			if err != nil {
				RespondServiceError(c, err)
				return
			}
			response.Success(c, Message(c, "message.updated"), item)
		},
		Delete: func(c *gin.Context) {
			id, ok := ParseIDParam(c, "id")
			if !ok {
				return
			}
			if err := svc.Delete(id); err != nil {
				RespondServiceError(c, err)
				return
			}
			response.Success(c, Message(c, "message.deleted"), nil)
		},
	}
}
