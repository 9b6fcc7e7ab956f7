package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"portfolio/internal/ingest"
	"portfolio/internal/visitlog"
)

// LogVisitRequest 上报请求体
type LogVisitRequest struct {
	Page     string `json:"page"`
	Referrer string `json:"referrer"`
}

// LogVisitResponse 上报响应
type LogVisitResponse struct {
	Success bool          `json:"success"`
	Storage visitlog.Mode `json:"storage"`
	Message string        `json:"message"`
}

var storageMessages = map[visitlog.Mode]string{
	visitlog.ModeFile:   "Visit logged to file",
	visitlog.ModeMemory: "Visit logged to in-memory storage (will reset on restart)",
	visitlog.ModeRedis:  "Visit logged to redis",
}

// LogVisit 记录一次页面访问
func (h *Handler) LogVisit(c echo.Context) error {
	var req LogVisitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}

	r := c.Request()
	_, mode, err := h.recorder.Record(r.Context(), ingest.Visit{
		Page:      req.Page,
		Referrer:  req.Referrer,
		UserAgent: r.UserAgent(),
		Address:   ingest.ClientAddress(r),
	})
	if errors.Is(err, ingest.ErrPageRequired) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Page parameter is required"})
	}
	if err != nil {
		slog.Error("记录访问失败", "page", req.Page, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log visit"})
	}

	return c.JSON(http.StatusOK, LogVisitResponse{
		Success: true,
		Storage: mode,
		Message: storageMessages[mode],
	})
}
