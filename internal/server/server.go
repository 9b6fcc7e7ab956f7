package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/internal/analytics"
	"portfolio/internal/blog"
	"portfolio/internal/config"
	"portfolio/internal/handler"
	"portfolio/internal/ingest"
	"portfolio/internal/middleware"
	"portfolio/internal/visitlog"
	webui "portfolio/web"
)

// Server 应用服务器
type Server struct {
	echo   *echo.Echo
	config *config.Config
	store  visitlog.Store
}

// New 创建新的服务器实例
func New(cfg *config.Config, store visitlog.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	s := &Server{
		echo:   e,
		config: cfg,
		store:  store,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware 设置中间件
func (s *Server) setupMiddleware() {
	// 日志中间件
	s.echo.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true, // 将错误转发给全局错误处理程序，以便其决定适当的响应状态码
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error == nil {
				slog.LogAttrs(context.Background(), slog.LevelInfo, "REQ",
					slog.String("method", v.Method),
					slog.Int("status", v.Status),
					slog.String("uri", v.URI),
				)
			} else {
				slog.LogAttrs(context.Background(), slog.LevelError, "REQ_ERR",
					slog.String("method", v.Method),
					slog.Int("status", v.Status),
					slog.String("uri", v.URI),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	}))

	// 恢复中间件
	s.echo.Use(echomw.Recover())

	// CORS 中间件
	s.echo.Use(echomw.CORS())

	// 请求指标
	s.echo.Use(middleware.Prometheus())
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	cfg := s.config

	recorder := ingest.NewRecorder(s.store, cfg.Analytics.HashKey)
	service := analytics.NewService(s.store, cfg.Analytics.Password)
	posts := blog.NewStore(cfg.Blog.ContentDir, cfg.Blog.Author)

	// API（在静态文件中间件之前注册，优先级更高）
	api := handler.NewHandler(s.store, recorder, service, posts)
	api.RegisterRoutes(s.echo.Group("/api"))

	// 内置页面与脚本
	s.echo.StaticFS("/assets", webui.Assets())
	s.echo.GET("/analytics", func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, webui.Dashboard())
	})

	// 指标
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// 静态文件服务（作为最后的中间件，处理所有其他请求）
	s.echo.Use(middleware.StaticFileServer(cfg.Server.StaticDir, "index.html"))
}

// errorHandler 将错误统一转换为 {"error": "..."}
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
	if err != nil {
		slog.Error("写入错误响应失败", "error", err)
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.printStartupInfo()
	return s.echo.Start(":" + s.config.Server.Port)
}

// Shutdown 优雅关闭，等待处理中的请求完成
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// printStartupInfo 打印启动信息
func (s *Server) printStartupInfo() {
	fmt.Println("作品集站点服务启动中...")
	fmt.Printf("监听端口: %s\n", s.config.Server.Port)
	fmt.Printf("静态目录: %s\n", s.config.Server.StaticDir)
	fmt.Printf("博客目录: %s\n", s.config.Blog.ContentDir)
	fmt.Printf("访问记录存储: %s\n", s.store.Mode())
	fmt.Println("\nAPI:")
	fmt.Println("   - POST   /api/log-visit             记录访问")
	fmt.Println("   - GET    /api/analytics             访问统计 (Bearer)")
	fmt.Println("   - GET    /api/analytics?view=logs   最近访问记录 (Bearer)")
	fmt.Println("   - GET    /api/blog/posts            文章列表")
	fmt.Println("   - GET    /api/blog/posts/:slug      文章详情")
	fmt.Println("   - GET    /api/blog/tags             标签")
	fmt.Println("   - GET    /api/blog/series           系列")
	fmt.Println("   - POST   /api/contact               联系表单")
	fmt.Println("   - GET    /api/health                健康检查")
	fmt.Println("\n页面:")
	fmt.Println("   - GET    /analytics                 统计面板")
	fmt.Println("   - GET    /metrics                   Prometheus 指标")
}

// Echo 返回 Echo 实例（用于扩展路由等）
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
