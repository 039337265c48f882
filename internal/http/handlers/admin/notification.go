package admin

import (
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/repository"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationRequest 创建通知请求；accountId 为空表示系统公告
type NotificationRequest struct {
	AccountID *uint  `json:"accountId"`
	Type      string `json:"type"`
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// UpdateNotificationRequest 更新通知请求
type UpdateNotificationRequest struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
	IsRead  *bool   `json:"isRead"`
}

// BroadcastRequest 群发请求
type BroadcastRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ListNotifications 通知列表
func (h *Handler) ListNotifications(c *gin.Context) {
	page, limit := handlershared.PageQuery(c)
	notifications, total, err := h.NotificationService.List(repository.NotificationListFilter{
		Page:      page,
		PageSize:  limit,
		Type:      c.Query("type"),
		AccountID: handlershared.QueryUint(c, "accountId"),
		IsRead:    handlershared.QueryBool(c, "isRead"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, msg(c, "message.success"), "notifications", notifications, response.NewPagination(total, page, limit))
}

// GetNotification 通知详情
func (h *Handler) GetNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	notification, err := h.NotificationService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), notification)
}

// CreateNotification 创建通知
func (h *Handler) CreateNotification(c *gin.Context) {
	var req NotificationRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	notification, err := h.NotificationService.Create(service.NotificationInput{
		AccountID: req.AccountID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, msg(c, "message.created"), notification)
}

// UpdateNotification 更新通知
func (h *Handler) UpdateNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateNotificationRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	notification, err := h.NotificationService.Update(id, service.NotificationUpdateInput{
		Title:   req.Title,
		Message: req.Message,
		IsRead:  req.IsRead,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.updated"), notification)
}

// DeleteNotification 删除通知
func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.NotificationService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.deleted"), nil)
}

// BroadcastNotification 向全部启用客户群发
func (h *Handler) BroadcastNotification(c *gin.Context) {
	var req BroadcastRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	sent, err := h.NotificationService.SendToAllCustomers(c.Request.Context(), req.Type, req.Title, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_notification_broadcast", "operator_id", currentAdminID(c), "recipients", sent)
	response.Success(c, msg(c, "message.notifications_sent"), gin.H{"notificationsSent": sent})
}
