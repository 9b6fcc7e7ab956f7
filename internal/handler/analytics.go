package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"portfolio/internal/analytics"
	"portfolio/internal/metrics"
	"portfolio/internal/visitlog"
)

const viewLogs = "logs"

// LogsResponse 原始记录响应
type LogsResponse struct {
	Logs  []visitlog.Record `json:"logs"`
	Total int               `json:"total"`
}

// Analytics 访问统计，?view=logs 返回最近的原始记录
func (h *Handler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()

	view := "summary"
	if c.QueryParam("view") == viewLogs {
		view = viewLogs
	}

	var (
		body any
		err  error
	)
	if view == viewLogs {
		var logs []visitlog.Record
		var total int
		logs, total, err = h.analytics.RawLogs(ctx, analytics.RawLogsLimit)
		body = LogsResponse{Logs: logs, Total: total}
	} else {
		body, err = h.analytics.Summary(ctx)
	}

	if err != nil {
		metrics.AnalyticsRequests.WithLabelValues(view, "error").Inc()
		slog.Error("读取访问统计失败", "view", view, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch analytics"})
	}
	metrics.AnalyticsRequests.WithLabelValues(view, "ok").Inc()
	return c.JSON(http.StatusOK, body)
}
