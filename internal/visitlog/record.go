// Package visitlog 访问日志存储
package visitlog

import (
	"context"
	"errors"
	"time"
)

// DefaultMaxRecords 默认最多保留的记录数
const DefaultMaxRecords = 10000

var (
	// ErrUnavailable 存储后端不可用
	ErrUnavailable = errors.New("visit store unavailable")
	// ErrUnknownStorage 未知的存储类型
	ErrUnknownStorage = errors.New("unknown visit storage")
)

// Mode 当前生效的存储方式
type Mode string

const (
	ModeFile   Mode = "file"
	ModeMemory Mode = "in-memory"
	ModeRedis  Mode = "redis"
)

// Record 一次页面访问，追加后不可修改
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ClientHash   string    `json:"clientHash"`
	UserAgentRaw string    `json:"userAgentRaw"`
	Referrer     string    `json:"referrer"` // 空串表示直接访问
	Page         string    `json:"page"`
	Browser      string    `json:"browser"`
	OS           string    `json:"os"`
	Device       string    `json:"device"`
	Country      *string   `json:"country,omitempty"`
	City         *string   `json:"city,omitempty"`
}

// Store 访问日志存储接口
type Store interface {
	// Append 追加一条记录，返回本次实际使用的存储方式
	Append(ctx context.Context, rec Record) (Mode, error)
	// ReadAll 按写入顺序返回全部保留的记录
	ReadAll(ctx context.Context) ([]Record, error)
	// Mode 当前存储方式
	Mode() Mode
	// Close 释放资源
	Close() error
}

// trim 超出上限时从最旧的一端截断
func trim(records []Record, max int) []Record {
	if max <= 0 || len(records) <= max {
		return records
	}
	kept := make([]Record, max)
	copy(kept, records[len(records)-max:])
	return kept
}
