package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/John-Robertt/acmensa/internal/config"
	"github.com/John-Robertt/acmensa/internal/dates"
	"github.com/John-Robertt/acmensa/internal/provider"
	"github.com/John-Robertt/acmensa/internal/scrape"
)

// version 由构建时 -ldflags "-X main.version=..." 注入。
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	stop()
	if code != 0 {
		os.Exit(code)
	}
}

// run 执行一次命令并返回退出码；错误统一写到 stderr。
func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	root := newRootCmd(d)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "错误：%s\n", describeError(err))
		return 1
	}
	return 0
}

// describeError 为常见失败补充可操作的提示。
func describeError(err error) string {
	msg := err.Error()

	var se *provider.HTTPStatusError
	var lm *scrape.LayoutMismatchError
	switch {
	case errors.As(err, &se) && se.NotPublished():
		return msg + "\n提示：该周菜单可能尚未发布。"
	case errors.As(err, &lm):
		return msg + "\n提示：页面结构可能已变化，请附上 --verbose 输出反馈问题。"
	case errors.Is(err, dates.ErrWeekend):
		return msg + "\n提示：食堂周末不营业，可用 --day next 查看下一个工作日。"
	case errors.Is(err, dates.ErrOutOfRange):
		return msg + "\n提示：只能查询本周一到下周五。"
	case config.Code(err) == config.ErrCodeUnknownMensa:
		return msg + "\n提示：用 acmensa mensen 查看全部食堂。"
	default:
		return msg
	}
}
