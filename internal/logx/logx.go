package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// EnvLevel 覆盖日志级别（debug/info/warn/error）。
	EnvLevel = "ACMENSA_LOG"
	// DefaultLevel 是未设置 EnvLevel 且未加 --verbose 时的级别。
	DefaultLevel = "warn"
	// VerboseLevel 是 --verbose 时的级别。
	VerboseLevel = "info"
)

// New 构造写到 w 的 console 格式 logger。
// level 为空时使用 DefaultLevel；无法识别的级别返回错误。
func New(w io.Writer, level string) (*zap.Logger, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("日志级别无效：%q", level)
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// LevelFromEnv 决定最终级别：$ACMENSA_LOG > --verbose > 默认 warn。
func LevelFromEnv(verbose bool) string {
	if v := strings.TrimSpace(os.Getenv(EnvLevel)); v != "" {
		return v
	}
	if verbose {
		return VerboseLevel
	}
	return DefaultLevel
}
