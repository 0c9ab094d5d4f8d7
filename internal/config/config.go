package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/acmensa/internal/domain"
)

const (
	// ErrCodeNotFound 表示 $ACMENSA_CONFIG 指向的文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeUnknownMensa 表示请求的食堂不在内置目录中。
	ErrCodeUnknownMensa = "mensa_unknown"
)

const (
	// EnvConfigPath 显式指定用户配置文件路径。
	EnvConfigPath = "ACMENSA_CONFIG"
	// FileName 是用户配置目录下的默认文件名。
	FileName = "acmensa.toml"
	// DefaultTimezoneOffsetHours 是站点所在时区（UTC+2）。
	DefaultTimezoneOffsetHours = 2
)

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --english=false 必须能覆盖 config english=true。
type CLIArgs struct {
	Mensa    string
	MensaSet bool

	English    bool
	EnglishSet bool
}

// FileConfig 对应用户配置文件 acmensa.toml。
type FileConfig struct {
	Mensa               string `toml:"mensa"`
	English             *bool  `toml:"english"`
	ProxyURL            string `toml:"proxy_url"`
	Host                string `toml:"host"`
	TimezoneOffsetHours *int   `toml:"timezone_offset_hours"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Mensa  string
	Locale domain.Locale

	ProxyURL string
	// Endpoint 已应用 host 覆盖。
	Endpoint Endpoint

	TimezoneOffsetHours int

	// ConfigPath 是实际读取到的配置文件；未读取时为空。
	ConfigPath string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FilePath 返回用户配置文件路径，以及该路径是否由 $ACMENSA_CONFIG 显式指定。
// 无法确定用户配置目录时返回空串。
func FilePath() (path string, explicit bool) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "acmensa", FileName), false
}

// LoadEffective 读取用户配置文件，然后与 CLI 参数、内置目录合并为最终配置。
//
// 发现规则（固定）：
// 1) $ACMENSA_CONFIG 非空：必须存在，否则 config_not_found
// 2) 否则尝试 <UserConfigDir>/acmensa/acmensa.toml（可选）
//
// 覆盖优先级（固定）：
// - mensa：CLI --mensa > config mensa > 目录中的默认食堂
// - english：CLI --english/--english=false > config > 默认德语
// - 其他字段：仅由 config 控制（CLI 不暴露）
func LoadEffective(cli CLIArgs) (EffectiveConfig, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: "mensen.toml", Err: err}
	}

	cfgPath, explicit := FilePath()
	var (
		fc     FileConfig
		exists bool
	)
	if cfgPath != "" {
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	}
	if explicit && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	if !exists {
		cfgPath = ""
	}
	return merge(cat, cli, fc, cfgPath)
}

func merge(cat Catalog, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// mensa：CLI > config > 默认
	mensa := cat.DefaultMensa()
	if cli.MensaSet {
		mensa = strings.TrimSpace(cli.Mensa)
	} else if strings.TrimSpace(fc.Mensa) != "" {
		mensa = strings.TrimSpace(fc.Mensa)
	}
	if _, ok := cat.Lookup(mensa); !ok {
		return EffectiveConfig{}, &Error{
			Code: ErrCodeUnknownMensa,
			Path: cfgPath,
			Err:  fmt.Errorf("未知的 mensa %q（可选：%s）", mensa, strings.Join(cat.Keys(), ", ")),
		}
	}

	// english：CLI > config > 默认 false
	english := false
	if cli.EnglishSet {
		english = cli.English
	} else if fc.English != nil {
		english = *fc.English
	}

	proxyURL := strings.TrimSpace(fc.ProxyURL)
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy_url 无效：%w", err)}
		}
	}

	ep := cat.Endpoint
	if host := strings.TrimSpace(fc.Host); host != "" {
		u, err := url.Parse(host)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("host 无效：%q", host)}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("host 必须是 http/https：%q", host)}
		}
		ep.Host = host
	}

	tz := DefaultTimezoneOffsetHours
	if fc.TimezoneOffsetHours != nil {
		tz = *fc.TimezoneOffsetHours
	}
	if tz < -12 || tz > 14 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("timezone_offset_hours 必须在 [-12, 14] 内，实际 %d", tz)}
	}

	return EffectiveConfig{
		Mensa:               mensa,
		Locale:              domain.LocaleFromEnglish(english),
		ProxyURL:            proxyURL,
		Endpoint:            ep,
		TimezoneOffsetHours: tz,
		ConfigPath:          cfgPath,
	}, nil
}

// readFileConfig 读取并解析 TOML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
