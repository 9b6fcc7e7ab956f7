package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"portfolio/internal/middleware"
)

// RegisterRoutes 注册 /api 下的路由
func (h *Handler) RegisterRoutes(g *echo.Group) {
	// 访问上报
	g.POST("/log-visit", h.LogVisit)
	g.Match(methodsExcept(http.MethodPost), "/log-visit", MethodNotAllowed)

	// 访问统计
	g.GET("/analytics", h.Analytics, middleware.BearerAuth(h.analytics.Authenticate))
	g.Match(methodsExcept(http.MethodGet), "/analytics", MethodNotAllowed)

	// 博客
	blogGroup := g.Group("/blog")
	blogGroup.GET("/posts", h.ListPosts)
	blogGroup.GET("/posts/:slug", h.GetPost)
	blogGroup.GET("/tags", h.ListTags)
	blogGroup.GET("/series", h.ListSeries)

	// 联系表单
	g.POST("/contact", h.Contact)

	// 系统
	g.GET("/health", h.Health)
}

// MethodNotAllowed 不支持的请求方法
func MethodNotAllowed(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
}
