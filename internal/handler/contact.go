package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContactRequest 联系表单
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse 联系表单响应
type ContactResponse struct {
	Message string `json:"message"`
	Info    string `json:"info"`
}

// Contact 接收联系表单，只记录日志不发送邮件
func (h *Handler) Contact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required fields"})
	}

	slog.Info("收到联系表单",
		"name", req.Name,
		"email", req.Email,
		"length", len(req.Message),
	)

	return c.JSON(http.StatusOK, ContactResponse{
		Message: "Message received successfully",
		Info:    "Email delivery is not configured; the message has been logged",
	})
}
