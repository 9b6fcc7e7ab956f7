package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultAnalyticsPassword 未配置口令时的默认值，仅用于本地开发
const DefaultAnalyticsPassword = "admin123"

// Config 服务器配置
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Blog      BlogConfig      `toml:"blog"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port      string `toml:"port"`
	LogLevel  string `toml:"log_level"`
	DataDir   string `toml:"data_dir"`   // 数据目录
	StaticDir string `toml:"static_dir"` // 静态页面根目录
}

// AnalyticsConfig 访问日志与统计配置
type AnalyticsConfig struct {
	Password   string `toml:"password"`    // 统计接口共享口令
	Storage    string `toml:"storage"`     // auto | file | memory | redis
	LogFile    string `toml:"log_file"`    // 为空时使用 <data_dir>/logs/visitors.json
	MaxRecords int    `toml:"max_records"` // 最多保留的访问记录数
	HashKey    string `toml:"hash_key"`    // 客户端地址摘要密钥，为空则不加密钥
	RedisURL   string `toml:"redis_url"`
	RedisKey   string `toml:"redis_key"`
}

// BlogConfig 博客配置
type BlogConfig struct {
	ContentDir string `toml:"content_dir"` // 存放 .md/.mdx 文章的目录
	Author     string `toml:"author"`      // 文章未指定作者时的默认值
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "3000",
			LogLevel:  "info",
			DataDir:   "./data",
			StaticDir: "./data/public",
		},
		Analytics: AnalyticsConfig{
			Password:   DefaultAnalyticsPassword,
			Storage:    "auto",
			MaxRecords: 10000,
			RedisKey:   "portfolio:visits",
		},
		Blog: BlogConfig{
			ContentDir: "./content/blog",
			Author:     "Subrahmanya K P",
		},
	}
}

// LoadOrInit 从 TOML 加载配置，如果文件不存在则创建默认配置
func LoadOrInit(path string, envOverride bool) (*Config, bool, error) {
	created := false

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		// 首次启动只写入默认值，口令等环境变量不落盘
		if err := writeToml(path, cfg); err != nil {
			slog.Warn("写入配置文件失败，将仅使用内存配置", "path", path, "error", err)
			if envOverride {
				applyEnvOverrides(cfg)
			}
			return cfg, true, nil
		}
		created = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, created, err
	}
	// 以默认值为底，文件中缺省的字段保持默认
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, created, err
	}

	// 存在则用环境变量覆盖配置（不写回文件）
	if envOverride {
		applyEnvOverrides(cfg)
	}

	return cfg, created, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	return writeToml(path, c)
}

// VisitLogPath 访问日志文件路径
func (c *Config) VisitLogPath() string {
	if c.Analytics.LogFile != "" {
		return c.Analytics.LogFile
	}
	return filepath.Join(c.Server.DataDir, "logs", "visitors.json")
}

// UsingDefaultPassword 是否仍在使用默认口令
func (c *Config) UsingDefaultPassword() bool {
	return c.Analytics.Password == DefaultAnalyticsPassword
}

func writeToml[T any](path string, cfg T) error {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	// 确保目录存在
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}
	return os.WriteFile(path, b, 0644)
}

// applyEnvOverrides 读取环境变量并覆盖配置 不回写文件
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("PORTFOLIO_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("PORTFOLIO_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("PORTFOLIO_DATA_DIR"); v != "" {
		cfg.Server.DataDir = v
	}
	if v := os.Getenv("PORTFOLIO_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}

	// Analytics
	if v := os.Getenv("ANALYTICS_PASSWORD"); v != "" {
		cfg.Analytics.Password = v
	}
	if v := os.Getenv("PORTFOLIO_STORAGE"); v != "" {
		cfg.Analytics.Storage = v
	}
	if v := os.Getenv("PORTFOLIO_LOG_FILE"); v != "" {
		cfg.Analytics.LogFile = v
	}
	if v := os.Getenv("PORTFOLIO_MAX_RECORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Analytics.MaxRecords = n
		} else {
			slog.Warn("忽略无效的 PORTFOLIO_MAX_RECORDS", "value", v)
		}
	}
	if v := os.Getenv("PORTFOLIO_HASH_KEY"); v != "" {
		cfg.Analytics.HashKey = v
	}
	if v := os.Getenv("PORTFOLIO_REDIS_URL"); v != "" {
		cfg.Analytics.RedisURL = v
	}

	// Blog
	if v := os.Getenv("PORTFOLIO_BLOG_DIR"); v != "" {
		cfg.Blog.ContentDir = v
	}
}
