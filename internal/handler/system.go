package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health 健康检查
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data: map[string]any{
			"status":    "healthy",
			"storage":   h.store.Mode(),
			"timestamp": time.Now().UTC(),
		},
	})
}
