package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/John-Robertt/acmensa/internal/config"
	"github.com/John-Robertt/acmensa/internal/domain"
)

// maxPageBytes 限制单个菜单页的大小；正常页面远小于该值。
const maxPageBytes = 8 << 20

// ErrEmptyPage 表示站点返回了 2xx 但 body 为空。
var ErrEmptyPage = errors.New("empty response body")

// Page 是一次抓取的结果。
type Page struct {
	URL  string
	HTML string
}

// Source 把“网络访问”限制在 provider 包内部；编排层只依赖该接口，便于测试替换。
//
// 约束：
// - Fetch 不做缓存、不做解析（解析由 scrape 包负责）
// - 重试与 UA 由 http client 的 Transport 统一实现
type Source interface {
	Fetch(ctx context.Context, mensa string, nextWeek bool, loc domain.Locale) (Page, error)
}

// Fetcher 按 Endpoint 拼出菜单页 URL 并 GET。
type Fetcher struct {
	Client   *http.Client
	Endpoint config.Endpoint
}

func (f Fetcher) Fetch(ctx context.Context, mensa string, nextWeek bool, loc domain.Locale) (Page, error) {
	u := f.Endpoint.MenuURL(mensa, nextWeek, loc)
	b, err := fetchURL(ctx, f.client(), u)
	if err != nil {
		return Page{URL: u}, err
	}
	return Page{URL: u, HTML: string(b)}, nil
}

func (f Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func fetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: strings.TrimSpace(resp.Header.Get("Location"))}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, ErrEmptyPage
	}
	return b, nil
}
