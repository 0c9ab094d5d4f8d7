package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/John-Robertt/acmensa/internal/export"
)

var _ export.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的导出进度输出。
//
// 约束：
// - 只写 stderr（或 fallback 到 stdout 的终端），不影响管道输出
// - 并发安全
type progressUI struct {
	w   io.Writer
	now func() time.Time

	mu        sync.Mutex
	startedAt time.Time
	last      int
}

func newProgressUI(w io.Writer, now func() time.Time) *progressUI {
	if now == nil {
		now = time.Now
	}
	return &progressUI{w: w, now: now, startedAt: now()}
}

// OnStart 打印抓取阶段的开头一行，保证用户立即看到输出。
func (p *progressUI) OnStart(mensa string, dir string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "导出 %s → %s（抓取本周与下周）\n", mensa, dir)
}

func (p *progressUI) OnFileWritten(idx, total int, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = idx
	fmt.Fprintf(p.w, "[%*d/%d] %s\n", len(fmt.Sprint(total)), idx, total, path)
}

// OnDone 打印汇总行。
func (p *progressUI) OnDone() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "完成：%d 个文件，耗时 %s\n", p.last, p.now().Sub(p.startedAt).Round(10*time.Millisecond))
}
