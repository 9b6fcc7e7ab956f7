package visitlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// 存储类型配置值
const (
	StorageAuto   = "auto"
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Options 存储选项
type Options struct {
	Storage    string // auto | file | memory | redis
	Path       string // 文件存储路径
	MaxRecords int
	RedisURL   string
	RedisKey   string
	Ephemeral  bool // 运行在只读/临时环境（如 Serverless）
}

// Open 启动时探测环境并选定存储方式，之后不再切换
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Storage {
	case StorageMemory:
		return NewMemoryStore(opts.MaxRecords), nil

	case StorageFile:
		return NewFileStore(opts.Path, opts.MaxRecords), nil

	case StorageRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisKey, opts.MaxRecords)

	case StorageAuto, "":
		return openAuto(ctx, opts), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, opts.Storage)
	}
}

func openAuto(ctx context.Context, opts Options) Store {
	if opts.Ephemeral {
		slog.Info("检测到临时运行环境，使用内存存储")
		return NewMemoryStore(opts.MaxRecords)
	}

	if opts.RedisURL != "" {
		s, err := NewRedisStore(ctx, opts.RedisURL, opts.RedisKey, opts.MaxRecords)
		if err == nil {
			return s
		}
		slog.Warn("Redis 不可用，继续尝试文件存储", "error", err)
	}

	if err := probeWritable(filepath.Dir(opts.Path)); err != nil {
		slog.Warn("日志目录不可写，使用内存存储", "path", opts.Path, "error", err)
		return NewMemoryStore(opts.MaxRecords)
	}
	return NewFileStore(opts.Path, opts.MaxRecords)
}

// probeWritable 在目录中创建并删除一个临时文件
func probeWritable(dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
