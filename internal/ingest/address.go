package ingest

import (
	"net"
	"net/http"
	"strings"
)

// UnknownAddress 无法确定客户端地址时使用
const UnknownAddress = "unknown"

const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// ClientAddress 解析客户端地址
// 优先级：X-Forwarded-For 第一项 > X-Real-IP > 连接对端地址 > "unknown"
func ClientAddress(r *http.Request) string {
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get(HeaderRealIP)); realIP != "" {
		return realIP
	}

	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// 没有端口的情况
			host = r.RemoteAddr
		}
		if host != "" {
			return host
		}
	}

	return UnknownAddress
}
