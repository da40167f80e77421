package api

import (
	"net/http"
	"strings"
)

// 文档注释：获取客户端 IP（用于访客统计去重）
// 背景：多层代理环境下，优先常见反向代理头，最后回退远端地址；确保在复杂链路中得到稳定来源 IP。
// 约束：头部存在伪造风险时需结合可信代理白名单处理；此处仅用于统计，不参与鉴权。
func getClientIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	if x := h.Get("cf-connecting-ip"); x != "" {
		return x
	}
	if x := h.Get("x-real-ip"); x != "" {
		return x
	}
	if x := h.Get("x-client-ip"); x != "" {
		return x
	}
	host := r.RemoteAddr
	if host != "" {
		if i := strings.LastIndex(host, ":"); i > 0 {
			return host[:i]
		}
		return host
	}
	return ""
}
