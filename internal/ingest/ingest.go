// Package ingest 页面访问上报的处理流程
package ingest

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"portfolio/internal/metrics"
	"portfolio/internal/useragent"
	"portfolio/internal/visitlog"
)

const (
	// MaxUserAgentLength User-Agent 存储前截断的长度（字节）
	MaxUserAgentLength = 200
	// hashLength 客户端摘要的十六进制长度
	hashLength = 16
)

// ErrPageRequired 缺少 page 字段
var ErrPageRequired = errors.New("page is required")

// Visit 一次上报的原始信息
type Visit struct {
	Page      string
	Referrer  string
	UserAgent string
	Address   string // 已解析出的客户端地址
}

// Location 地理位置
type Location struct {
	Country string
	City    string
}

// Locator 根据地址查询地理位置，查不到返回 nil
type Locator interface {
	Locate(ctx context.Context, addr string) *Location
}

// NoLocator 不做任何地理位置查询
type NoLocator struct{}

func (NoLocator) Locate(context.Context, string) *Location { return nil }

// Recorder 将上报转换为访问记录并写入存储
type Recorder struct {
	store   visitlog.Store
	hashKey []byte
	locator Locator
	now     func() time.Time
}

// NewRecorder 创建记录器；hashKey 为空时使用不带密钥的 SHA-256
func NewRecorder(store visitlog.Store, hashKey string) *Recorder {
	return &Recorder{
		store:   store,
		hashKey: []byte(hashKey),
		locator: NoLocator{},
		now:     time.Now,
	}
}

// Record 处理一次上报，成功时恰好追加一条记录
func (r *Recorder) Record(ctx context.Context, v Visit) (visitlog.Record, visitlog.Mode, error) {
	if v.Page == "" {
		return visitlog.Record{}, "", ErrPageRequired
	}

	addr := v.Address
	if addr == "" {
		addr = UnknownAddress
	}

	info := useragent.Classify(v.UserAgent)

	rec := visitlog.Record{
		ID:           uuid.NewString(),
		Timestamp:    r.now().UTC(),
		ClientHash:   HashAddress(addr, r.hashKey),
		UserAgentRaw: Truncate(v.UserAgent, MaxUserAgentLength),
		Referrer:     v.Referrer,
		Page:         v.Page,
		Browser:      info.Browser,
		OS:           info.OS,
		Device:       info.Device,
	}
	if loc := r.locator.Locate(ctx, addr); loc != nil {
		if loc.Country != "" {
			rec.Country = &loc.Country
		}
		if loc.City != "" {
			rec.City = &loc.City
		}
	}

	mode, err := r.store.Append(ctx, rec)
	if err != nil {
		return visitlog.Record{}, "", fmt.Errorf("追加访问记录失败: %w", err)
	}
	metrics.VisitsLogged.WithLabelValues(string(mode)).Inc()
	return rec, mode, nil
}

// HashAddress 对客户端地址做不可逆摘要，截取前 16 个十六进制字符
func HashAddress(addr string, key []byte) string {
	var sum []byte
	if len(key) > 0 {
		mac := hmac.New(sha256.New, key)
		mac.Write([]byte(addr))
		sum = mac.Sum(nil)
	} else {
		h := sha256.Sum256([]byte(addr))
		sum = h[:]
	}
	return hex.EncodeToString(sum)[:hashLength]
}

// Truncate 截断到最多 max 字节，不切断多字节字符
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
