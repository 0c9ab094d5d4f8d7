package httpx

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout  = 20 * time.Second
	defaultRetryMax = 2
	defaultBackoff  = 300 * time.Millisecond

	// UserAgent 标识本工具；菜单站点不需要伪装浏览器。
	UserAgent = "acmensa (+https://github.com/John-Robertt/acmensa)"
)

// Transport 把“固定 UA + 代理 + 有界重试”固化为统一策略。
//
// 设计目标：provider 只负责“定位页面 + 读取 body”，不关心网络策略细节。
type Transport struct {
	Base http.RoundTripper

	UserAgent string

	// RetryMax 表示最大重试次数（不含首次尝试）。例如 2 表示最多 3 次尝试。
	RetryMax int

	// Backoff 是第 n 次重试前的等待基数（线性递增）。
	Backoff time.Duration
}

// RoundTrip 对网络错误与 5xx 做有界重试。
//
// 规则：
// - 只重试“可重放”的请求：GET/HEAD 且无 body
// - 4xx 与 3xx 原样返回，不重试
// - ctx 取消后立即返回最后一次的结果
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var (
		resp    *http.Response
		lastErr error
	)
	for attempt := 0; attempt <= max; attempt++ {
		if attempt > 0 && !t.wait(req, attempt) {
			// 上一次的 5xx body 已关闭，只能返回 ctx 错误。
			return nil, req.Context().Err()
		}
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
			r.Header.Set("User-Agent", t.UserAgent)
		}

		resp, lastErr = t.Base.RoundTrip(r)
		if lastErr == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if req.Context().Err() != nil {
			break
		}
		if lastErr == nil && attempt < max {
			// 5xx 且还要重试：丢弃 body 以便连接复用。
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return resp, nil
}

func (t *Transport) wait(req *http.Request, attempt int) bool {
	d := t.Backoff * time.Duration(attempt)
	if d <= 0 {
		return req.Context().Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}

// NewClient 构造用于菜单页抓取的 HTTP client。
//
// 规则：
// - proxyURL 非空：必须走代理，且禁用 keep-alive（每请求新连接）
// - 固定 UA；有界重试 + 总超时
func NewClient(proxyURL string) (*http.Client, error) {
	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}

	if proxyURL = strings.TrimSpace(proxyURL); proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		base.DisableKeepAlives = true
	}

	return &http.Client{
		Transport: &Transport{
			Base:      base,
			UserAgent: UserAgent,
			RetryMax:  defaultRetryMax,
			Backoff:   defaultBackoff,
		},
		Timeout: defaultTimeout,
	}, nil
}
