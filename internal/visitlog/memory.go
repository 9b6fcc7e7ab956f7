package visitlog

import (
	"context"
	"sync"
)

// MemoryStore 进程内存储，进程退出后数据丢失
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	max     int
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &MemoryStore{max: max}
}

// Append 追加记录
func (s *MemoryStore) Append(_ context.Context, rec Record) (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = trim(append(s.records, rec), s.max)
	return ModeMemory, nil
}

// ReadAll 返回记录副本
func (s *MemoryStore) ReadAll(_ context.Context) ([]Record, error) {
	return s.all(), nil
}

func (s *MemoryStore) all() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// replace 整体替换内容（供降级时使用）
func (s *MemoryStore) replace(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = trim(records, s.max)
}

// Len 当前记录数
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Mode() Mode { return ModeMemory }

// Close 丢弃全部记录
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
