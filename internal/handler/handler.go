package handler

import (
	"net/http"

	"portfolio/internal/analytics"
	"portfolio/internal/blog"
	"portfolio/internal/ingest"
	"portfolio/internal/visitlog"
)

// Handler 公共 API 处理器
type Handler struct {
	store     visitlog.Store
	recorder  *ingest.Recorder
	analytics *analytics.Service
	posts     *blog.Store
}

// NewHandler 创建 API 处理器
func NewHandler(store visitlog.Store, rec *ingest.Recorder, svc *analytics.Service, posts *blog.Store) *Handler {
	return &Handler{
		store:     store,
		recorder:  rec,
		analytics: svc,
		posts:     posts,
	}
}

// Response 通用响应结构
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}

// 除 allowed 外的所有方法，OPTIONS 交给 CORS 处理
func methodsExcept(allowed string) []string {
	all := []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete,
	}
	out := make([]string, 0, len(all))
	for _, m := range all {
		if m != allowed {
			out = append(out, m)
		}
	}
	return out
}
