package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/acmensa/internal/domain"
)

//go:embed mensen.toml
var mensenTOML []byte

// DeEn 是一对德语/英语字符串。
type DeEn struct {
	De string `toml:"de"`
	En string `toml:"en"`
}

// Pick 按语言取值。
func (s DeEn) Pick(loc domain.Locale) string {
	return loc.Pick(s.De, s.En)
}

// PathTemplate 描述菜单页路径：公共前缀 + 按语言区分的后缀模板。
// 后缀模板支持 {{name}}（食堂 key）与 {{week}}（周名）两个占位符。
type PathTemplate struct {
	Prefix         string `toml:"prefix"`
	SuffixTemplate DeEn   `toml:"suffix_template"`
}

// WeekNames 是路径中“本周/下周”的拼写。
type WeekNames struct {
	This DeEn `toml:"this"`
	Next DeEn `toml:"next"`
}

// Endpoint 是菜单站点的地址配置。
type Endpoint struct {
	Host     string       `toml:"host"`
	Timeplan string       `toml:"timeplan"`
	Menu     PathTemplate `toml:"menu"`
	Week     WeekNames    `toml:"week"`
}

// Mensa 是目录中的一个食堂。
type Mensa struct {
	Key     string `toml:"key"`
	Name    string `toml:"name"`
	Default bool   `toml:"default"`
}

// Catalog 是内置 mensen.toml 的解析结果。
type Catalog struct {
	Endpoint Endpoint `toml:"endpoint"`
	Mensen   []Mensa  `toml:"mensa"`
}

var loadCatalog = sync.OnceValues(func() (Catalog, error) {
	return parseCatalog(mensenTOML)
})

// DefaultCatalog 返回内置目录（只解析一次）。
// 内置文件损坏属于构建缺陷，这里仍以错误返回，由调用方决定如何退出。
func DefaultCatalog() (Catalog, error) {
	c, err := loadCatalog()
	if err != nil {
		return Catalog{}, err
	}
	c.Mensen = append([]Mensa(nil), c.Mensen...)
	return c, nil
}

func parseCatalog(b []byte) (Catalog, error) {
	var c Catalog
	dec := toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("解析内置 mensen.toml 失败：%w", err)
	}
	if strings.TrimSpace(c.Endpoint.Host) == "" {
		return Catalog{}, fmt.Errorf("内置 mensen.toml 缺少 endpoint.host")
	}
	if len(c.Mensen) == 0 {
		return Catalog{}, fmt.Errorf("内置 mensen.toml 没有任何 mensa")
	}
	defaults := 0
	for _, m := range c.Mensen {
		if m.Default {
			defaults++
		}
	}
	if defaults != 1 {
		return Catalog{}, fmt.Errorf("内置 mensen.toml 必须恰好有一个默认 mensa，实际 %d 个", defaults)
	}
	return c, nil
}

// DefaultMensa 返回标记为 default 的食堂 key。
func (c Catalog) DefaultMensa() string {
	for _, m := range c.Mensen {
		if m.Default {
			return m.Key
		}
	}
	return ""
}

// Lookup 按 key 精确查找。
func (c Catalog) Lookup(key string) (Mensa, bool) {
	for _, m := range c.Mensen {
		if m.Key == key {
			return m, true
		}
	}
	return Mensa{}, false
}

// Keys 按目录顺序返回全部食堂 key。
func (c Catalog) Keys() []string {
	out := make([]string, 0, len(c.Mensen))
	for _, m := range c.Mensen {
		out = append(out, m.Key)
	}
	return out
}

// FillSuffix 替换模板中的 {{name}} 与 {{week}}。
func FillSuffix(template, name, week string) string {
	return strings.NewReplacer("{{name}}", name, "{{week}}", week).Replace(template)
}

// BuildPath 返回相对于 host 的菜单页路径（不含前导 "/"）。
func (e Endpoint) BuildPath(mensa string, nextWeek bool, loc domain.Locale) string {
	week := e.Week.This
	if nextWeek {
		week = e.Week.Next
	}
	return e.Menu.Prefix + "/" + FillSuffix(e.Menu.SuffixTemplate.Pick(loc), mensa, week.Pick(loc))
}

// MenuURL 返回菜单页的完整 URL。
func (e Endpoint) MenuURL(mensa string, nextWeek bool, loc domain.Locale) string {
	return strings.TrimRight(e.Host, "/") + "/" + e.BuildPath(mensa, nextWeek, loc)
}
