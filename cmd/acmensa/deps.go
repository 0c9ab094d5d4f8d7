package main

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/John-Robertt/acmensa/internal/config"
	"github.com/John-Robertt/acmensa/internal/infra/httpx"
	"github.com/John-Robertt/acmensa/internal/provider"
)

// deps 收拢命令对外部世界的依赖，测试时整体替换。
type deps struct {
	now       func() time.Time
	newSource func(eff config.EffectiveConfig) (provider.Source, error)
	isTTY     func(w io.Writer) bool
}

func defaultDeps() deps {
	return deps{
		now:       time.Now,
		newSource: newHTTPSource,
		isTTY:     isTTY,
	}
}

func newHTTPSource(eff config.EffectiveConfig) (provider.Source, error) {
	c, err := httpx.NewClient(eff.ProxyURL)
	if err != nil {
		return nil, err
	}
	return provider.Fetcher{Client: c, Endpoint: eff.Endpoint}, nil
}

// isTTY 只对 *os.File 判断；buffer/管道一律视为非终端。
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
