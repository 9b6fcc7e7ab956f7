package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logging"
	"portfolio/internal/server"
	"portfolio/internal/site"
	"portfolio/internal/visitlog"
)

const (
	configPath      = "config.toml"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// 加载配置
	cfg, created, err := config.LoadOrInit(configPath, true)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if created {
		slog.Info("已生成默认配置文件", "path", configPath)
	}

	// 设置日志级别
	logging.SetLevelWithStr(cfg.Server.LogLevel)

	if cfg.UsingDefaultPassword() {
		slog.Warn("统计接口正在使用默认口令，请通过 ANALYTICS_PASSWORD 或配置文件修改")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化访问记录存储
	store, err := visitlog.Open(ctx, visitlog.Options{
		Storage:    cfg.Analytics.Storage,
		Path:       cfg.VisitLogPath(),
		MaxRecords: cfg.Analytics.MaxRecords,
		RedisURL:   cfg.Analytics.RedisURL,
		RedisKey:   cfg.Analytics.RedisKey,
		Ephemeral:  os.Getenv("VERCEL") != "",
	})
	if err != nil {
		fmt.Printf("❌ 访问记录存储初始化失败: %v\n", err)
		os.Exit(1)
	}
	slog.Info("访问记录存储已就绪", "mode", store.Mode())

	// 初始化静态目录
	if ok, err := site.NewInitializer(cfg.Server.StaticDir, "").Initialize(); err != nil {
		fmt.Printf("⚠️ 初始化静态目录失败: %v\n", err)
	} else if ok {
		slog.Info("已创建占位页面", "dir", cfg.Server.StaticDir)
	}

	// 创建并启动服务器
	srv := server.New(cfg, store)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("❌ 服务器启动失败: %v\n", err)
			_ = store.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("收到退出信号，正在关闭")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("关闭服务器失败", "error", err)
	}
	if err := store.Close(); err != nil {
		slog.Error("关闭访问记录存储失败", "error", err)
	}
}
