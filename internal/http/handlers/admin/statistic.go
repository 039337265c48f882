package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/shopdesk/internal/http/handlers/shared"
	"github.com/shopdesk/internal/http/response"
	"github.com/shopdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// GenerateDailyRequest 生成每日快照请求；date 为空表示昨天
type GenerateDailyRequest struct {
	Date string `json:"date"`
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// GetStatistics 区间经营汇总
func (h *Handler) GetStatistics(c *gin.Context) {
	from, to, ok := handlershared.QueryDateRange(c, "startDate", "endDate")
	if !ok {
		return
	}
	summary, err := h.StatisticService.GetStatistics(c.Request.Context(), service.StatisticQuery{
		Type:      c.Query("type"),
		StartDate: from,
		EndDate:   to,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), summary)
}

// GetRevenueReport 按月营收报表
func (h *Handler) GetRevenueReport(c *gin.Context) {
	from, to, ok := handlershared.QueryDateRange(c, "startDate", "endDate")
	if !ok {
		return
	}
	points, err := h.StatisticService.GetRevenueReport(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), points)
}

// GetTopProducts 热销商品
func (h *Handler) GetTopProducts(c *gin.Context) {
	from, to, ok := handlershared.QueryDateRange(c, "startDate", "endDate")
	if !ok {
		return
	}
	items, err := h.StatisticService.GetTopProducts(c.Request.Context(), queryInt(c, "limit", 10), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), items)
}

// GetAnalytics 近 N 天趋势
func (h *Handler) GetAnalytics(c *gin.Context) {
	analytics, err := h.StatisticService.GetAnalytics(c.Request.Context(), queryInt(c, "days", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), analytics)
}

// GetDashboard 仪表盘
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.StatisticService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), stats)
}

// ListDailyStatistics 每日快照列表
func (h *Handler) ListDailyStatistics(c *gin.Context) {
	items, err := h.StatisticService.ListDaily(c.Query("fromDate"), c.Query("toDate"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, msg(c, "message.success"), items)
}

// GenerateDailyStatistics 手工生成每日快照；队列启用时异步执行并返回 202
func (h *Handler) GenerateDailyStatistics(c *gin.Context) {
	var req GenerateDailyRequest
	if c.Request.ContentLength > 0 && !handlershared.BindJSON(c, &req) {
		return
	}
	stat, err := h.StatisticService.RequestDaily(c.Request.Context(), req.Date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if stat == nil {
		response.Accepted(c, msg(c, "message.statistics_queued"))
		return
	}
	response.Success(c, msg(c, "message.statistics_generated"), stat)
}
