package analytics

import (
	"context"
	"fmt"

	"portfolio/internal/visitlog"
)

// RawLogsLimit 原始日志接口一次最多返回的条数
const RawLogsLimit = 1000

// Service 统计服务，只读访问日志存储
type Service struct {
	store    visitlog.Store
	password string
}

// NewService 创建统计服务
func NewService(store visitlog.Store, password string) *Service {
	return &Service{
		store:    store,
		password: password,
	}
}

// Authenticate 与配置的共享口令逐字比较
func (s *Service) Authenticate(secret string) bool {
	return secret == s.password
}

// Summary 读取全部日志并汇总
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取访问日志失败: %w", err)
	}
	return Summarize(records), nil
}

// RawLogs 返回最近的 limit 条记录（新的在前）以及总记录数
// limit <= 0 表示不限制
func (s *Service) RawLogs(ctx context.Context, limit int) ([]visitlog.Record, int, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("读取访问日志失败: %w", err)
	}

	total := len(records)
	n := total
	if limit > 0 && limit < n {
		n = limit
	}

	recent := make([]visitlog.Record, n)
	for i := 0; i < n; i++ {
		recent[i] = records[total-1-i]
	}
	return recent, total, nil
}
