package visitlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"portfolio/internal/metrics"
)

// FileStore 基于单个 JSON 文件的存储
// 每次追加都完整读出、修改、重写整个文件
type FileStore struct {
	path     string
	max      int
	mu       sync.Mutex
	fallback *MemoryStore // 写文件失败时的内存副本
	degraded bool
}

// NewFileStore 创建文件存储
func NewFileStore(path string, max int) *FileStore {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &FileStore{
		path:     path,
		max:      max,
		fallback: NewMemoryStore(max),
	}
}

// Append 追加记录
// 写文件失败不会返回错误，而是降级到内存副本
func (s *FileStore) Append(_ context.Context, rec Record) (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadInternal()
	if err != nil {
		slog.Warn("读取访问日志失败，从内存副本继续", "path", s.path, "error", err)
		records = s.fallback.all()
	}

	records = trim(append(records, rec), s.max)

	if err := s.saveInternal(records); err != nil {
		slog.Warn("写入访问日志失败，降级为内存存储", "path", s.path, "error", err)
		metrics.VisitStoreFallbacks.Inc()
		s.fallback.replace(records)
		s.degraded = true
		return ModeMemory, nil
	}

	if s.degraded {
		slog.Info("访问日志文件已恢复写入", "path", s.path)
		s.fallback.replace(nil)
		s.degraded = false
	}
	return ModeFile, nil
}

// ReadAll 读取全部记录
func (s *FileStore) ReadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return s.fallback.ReadAll(ctx)
	}

	records, err := s.loadInternal()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Mode 降级期间报告为内存存储
func (s *FileStore) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return ModeMemory
	}
	return ModeFile
}

// Close 文件存储无需释放资源
func (s *FileStore) Close() error {
	return s.fallback.Close()
}

// loadInternal 内部加载方法（不加锁）
func (s *FileStore) loadInternal() ([]Record, error) {
	if s.degraded {
		return s.fallback.all(), nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取访问日志文件失败: %w", err)
	}
	if len(data) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("解析访问日志文件失败: %w", err)
	}
	return records, nil
}

// saveInternal 内部保存方法（不加锁）
func (s *FileStore) saveInternal(records []Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化访问日志失败: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("写入访问日志文件失败: %w", err)
	}
	return nil
}
