package menu

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/John-Robertt/acmensa/internal/dates"
	"github.com/John-Robertt/acmensa/internal/domain"
	"github.com/John-Robertt/acmensa/internal/provider"
	"github.com/John-Robertt/acmensa/internal/scrape"
)

type stubSource struct {
	mu    sync.Mutex
	pages map[bool]string
	errs  map[bool]error
	calls []bool
	// block 为 true 的周会一直等到 ctx 取消。
	block map[bool]bool
}

func (s *stubSource) Fetch(ctx context.Context, mensa string, nextWeek bool, loc domain.Locale) (provider.Page, error) {
	s.mu.Lock()
	s.calls = append(s.calls, nextWeek)
	s.mu.Unlock()

	u := "http://stub/" + mensa + "/" + weekName(nextWeek)
	if s.block[nextWeek] {
		<-ctx.Done()
		return provider.Page{URL: u}, ctx.Err()
	}
	if err := s.errs[nextWeek]; err != nil {
		return provider.Page{URL: u}, err
	}
	return provider.Page{URL: u, HTML: s.pages[nextWeek]}, nil
}

func fixture(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "scrape", "testdata", "week.html"))
	if err != nil {
		t.Fatalf("读取 fixture 失败：%v", err)
	}
	return string(b)
}

func TestFetchWeeks_BothWeeksSorted(t *testing.T) {
	page := fixture(t)
	src := &stubSource{pages: map[bool]string{false: page, true: page}}
	svc := Service{Source: src, Mensa: "vita"}

	this, next, err := svc.FetchWeeks(context.Background())
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(src.calls) != 2 {
		t.Fatalf("期望抓取 2 次，实际 %d", len(src.calls))
	}
	want, err := scrape.ScrapePage(page)
	if err != nil {
		t.Fatalf("fixture 解析失败：%v", err)
	}
	for d := 0; d < domain.OpenDays; d++ {
		got := this.Day(d).MainDishes
		exp := want.Sorted().Day(d).MainDishes
		if len(got) != len(exp) {
			t.Fatalf("第 %d 天条目数不符：%d vs %d", d, len(got), len(exp))
		}
		for i := range got {
			if got[i].Compare(exp[i]) != 0 {
				t.Fatalf("第 %d 天未排序：%+v", d, got)
			}
		}
		if len(next.Day(d).MainDishes) != len(exp) {
			t.Fatalf("下周第 %d 天条目数不符", d)
		}
	}
}

func TestFetchWeeks_FailureCancelsSibling(t *testing.T) {
	boom := errors.New("boom")
	src := &stubSource{
		errs:  map[bool]error{true: boom},
		block: map[bool]bool{false: true},
	}
	_, _, err := Service{Source: src, Mensa: "vita"}.FetchWeeks(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回真正的失败原因，实际 %v", err)
	}
	var we *WeekError
	if !errors.As(err, &we) || !we.NextWeek || we.URL != "http://stub/vita/next" {
		t.Fatalf("期望 *WeekError{NextWeek:true}，实际 %#v", err)
	}
}

func TestFetchWeek_LayoutMismatchIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	src := &stubSource{pages: map[bool]string{false: `<table><tr class="main-dish"><td>Klassiker</td><td></td></tr></table>`}}
	svc := Service{Source: src, Mensa: "vita", Log: zap.New(core)}

	_, err := svc.FetchWeek(context.Background(), false)
	var lm *scrape.LayoutMismatchError
	if !errors.As(err, &lm) || !errors.Is(err, scrape.ErrLayoutMismatch) {
		t.Fatalf("期望 LayoutMismatchError，实际 %v", err)
	}

	entries := logs.FilterMessage("解析失败").All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条解析失败日志，实际 %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["mensa"] != "vita" || ctx["week"] != "this" || ctx["section"] != scrape.SectionMain {
		t.Fatalf("日志字段不符：%v", ctx)
	}
}

func TestDay_ReturnsTargetIndex(t *testing.T) {
	src := &stubSource{pages: map[bool]string{true: fixture(t)}}
	svc := Service{Source: src, Mensa: "vita"}

	v, err := svc.Day(context.Background(), dates.Target{NextWeek: true, Index: 4})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(v.MainDishes) == 0 {
		t.Fatalf("期望周五有菜品")
	}
	if len(src.calls) != 1 || !src.calls[0] {
		t.Fatalf("应只抓取下周，实际 %v", src.calls)
	}

	_, err = svc.Day(context.Background(), dates.Target{Index: 5})
	var de *domain.DayIndexError
	if !errors.As(err, &de) {
		t.Fatalf("期望 *DayIndexError，实际 %v", err)
	}
}
