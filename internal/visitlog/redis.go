package visitlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/internal/metrics"
)

// DefaultRedisKey 默认的 Redis 列表键
const DefaultRedisKey = "portfolio:visits"

// RedisStore 基于 Redis 列表的存储
// RPUSH 追加，LTRIM 保持上限
type RedisStore struct {
	client   *redis.Client
	key      string
	max      int
	mu       sync.Mutex
	fallback *MemoryStore // Redis 写入失败时暂存，恢复后补写
	degraded bool
}

// NewRedisStore 连接 Redis 并创建存储
func NewRedisStore(ctx context.Context, redisURL, key string, max int) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("解析 Redis 地址失败: %w", err)
	}
	opt.PoolSize = 5
	opt.MinIdleConns = 1
	opt.PoolTimeout = 2 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", ErrUnavailable, err)
	}

	return newRedisStore(client, key, max), nil
}

func newRedisStore(client *redis.Client, key string, max int) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &RedisStore{
		client:   client,
		key:      key,
		max:      max,
		fallback: NewMemoryStore(max),
	}
}

// Append 追加记录，Redis 不可写时降级到内存
// 恢复后先补写暂存的记录，再写入本条，保持插入顺序
func (s *RedisStore) Append(ctx context.Context, rec Record) (Mode, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("序列化访问记录失败: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.fallback.all()
	values := make([]any, 0, len(pending)+1)
	for _, p := range pending {
		b, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("序列化暂存记录失败: %w", err)
		}
		values = append(values, b)
	}
	values = append(values, data)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.key, values...)
		pipe.LTrim(ctx, s.key, int64(-s.max), -1)
		return nil
	})
	if err != nil {
		slog.Warn("写入 Redis 失败，降级为内存存储", "key", s.key, "error", err)
		metrics.VisitStoreFallbacks.Inc()
		_, _ = s.fallback.Append(ctx, rec)
		s.degraded = true
		return ModeMemory, nil
	}

	if s.degraded {
		slog.Info("Redis 已恢复，暂存记录已补写", "key", s.key, "count", len(pending))
		s.fallback.replace(nil)
		s.degraded = false
	}
	return ModeRedis, nil
}

// ReadAll 读取 Redis 中的记录，再接上降级期间暂存的记录
// 暂存的记录都晚于 Redis 中最后一条成功写入的记录
func (s *RedisStore) ReadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("读取 Redis 访问日志失败: %w", err)
	}

	records := make([]Record, 0, len(values)+s.fallback.Len())
	for _, v := range values {
		var rec Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			slog.Warn("跳过无法解析的访问记录", "key", s.key, "error", err)
			continue
		}
		records = append(records, rec)
	}
	records = append(records, s.fallback.all()...)
	return trim(records, s.max), nil
}

// Mode 降级期间报告为内存存储
func (s *RedisStore) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return ModeMemory
	}
	return ModeRedis
}

// Close 关闭 Redis 连接并丢弃暂存数据
func (s *RedisStore) Close() error {
	_ = s.fallback.Close()
	return s.client.Close()
}
