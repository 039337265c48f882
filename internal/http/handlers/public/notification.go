package public

import (
	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListMyNotifications 我的通知（含未读数）
func (h *Handler) ListMyNotifications(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	page, limit := handlershared.PageQuery(c)
	items, total, unread, err := h.NotificationService.ListMine(accountID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), gin.H{
		"notifications": items,
		"unreadCount":   unread,
		"pagination":    response.NewPagination(total, page, limit),
	})
}

// MarkNotificationRead 标记单条已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	notification, err := h.NotificationService.MarkAsRead(id, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.marked_read"), notification)
}

// MarkAllNotificationsRead 全部标记已读
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	accountID, ok := getAccountID(c)
	if !ok {
		return
	}
	updated, err := h.NotificationService.MarkAllAsRead(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.marked_read"), gin.H{"updated": updated})
}
