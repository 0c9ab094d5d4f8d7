package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/acmensa/internal/dates"
	"github.com/John-Robertt/acmensa/internal/domain"
	"github.com/John-Robertt/acmensa/internal/provider"
	"github.com/John-Robertt/acmensa/internal/scrape"
)

// WeekError 把抓取/解析失败与具体的周、页面 URL 关联起来。
type WeekError struct {
	NextWeek bool
	URL      string
	Err      error
}

func (e *WeekError) Error() string {
	return fmt.Sprintf("%s菜单获取失败（%s）：%v", weekLabel(e.NextWeek), e.URL, e.Err)
}

func (e *WeekError) Unwrap() error { return e.Err }

// Service 编排“抓取 -> 解析 -> 排序”。
//
// 约束：
// - 不缓存：每次调用都重新抓取
// - 解析错误原样向上传递（*scrape.LayoutMismatchError 可用 errors.As 取出）
// - 只在这里记录日志；provider/scrape 不写日志
type Service struct {
	Source provider.Source
	Mensa  string
	Locale domain.Locale
	Log    *zap.Logger
}

func (s Service) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// FetchWeek 获取并解析一周的菜单，返回已排序的 WeekData。
func (s Service) FetchWeek(ctx context.Context, nextWeek bool) (domain.WeekData, error) {
	log := s.logger().With(zap.String("mensa", s.Mensa), zap.String("week", weekName(nextWeek)))

	started := time.Now()
	page, err := s.Source.Fetch(ctx, s.Mensa, nextWeek, s.Locale)
	if err != nil {
		log.Error("抓取失败", zap.String("url", page.URL), zap.Error(err))
		return domain.WeekData{}, &WeekError{NextWeek: nextWeek, URL: page.URL, Err: err}
	}
	log.Info("抓取完成", zap.String("url", page.URL), zap.Int("bytes", len(page.HTML)), zap.Duration("elapsed", time.Since(started)))

	week, err := scrape.ScrapePage(page.HTML)
	if err != nil {
		fields := []zap.Field{zap.String("url", page.URL), zap.Error(err)}
		var lm *scrape.LayoutMismatchError
		if errors.As(err, &lm) {
			fields = append(fields, zap.String("section", lm.Section), zap.Int("row", lm.Row), zap.Int("col", lm.Col))
		}
		log.Error("解析失败", fields...)
		return domain.WeekData{}, &WeekError{NextWeek: nextWeek, URL: page.URL, Err: err}
	}
	return week.Sorted(), nil
}

// FetchWeeks 并发获取本周与下周。
// 任一失败都会取消另一个请求；同时失败时优先返回本周的错误。
func (s Service) FetchWeeks(ctx context.Context) (this, next domain.WeekData, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		weeks [2]domain.WeekData
		errs  [2]error
		wg    sync.WaitGroup
	)
	for i := range weeks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			weeks[i], errs[i] = s.FetchWeek(ctx, i == 1)
			if errs[i] != nil {
				cancel()
			}
		}(i)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil && !isCanceledBySibling(e, errs) {
			return domain.WeekData{}, domain.WeekData{}, e
		}
	}
	for _, e := range errs {
		if e != nil {
			return domain.WeekData{}, domain.WeekData{}, e
		}
	}
	return weeks[0], weeks[1], nil
}

// Day 获取目标所在周并返回对应一天的视图。
func (s Service) Day(ctx context.Context, t dates.Target) (domain.DayView, error) {
	week, err := s.FetchWeek(ctx, t.NextWeek)
	if err != nil {
		return domain.DayView{}, err
	}
	return week.DayChecked(t.Index)
}

// isCanceledBySibling 判断 e 是否只是因为另一周失败而被取消。
func isCanceledBySibling(e error, errs [2]error) bool {
	if !errors.Is(e, context.Canceled) {
		return false
	}
	for _, o := range errs {
		if o != nil && o != e && !errors.Is(o, context.Canceled) {
			return true
		}
	}
	return false
}

func weekName(next bool) string {
	if next {
		return "next"
	}
	return "this"
}

func weekLabel(next bool) string {
	if next {
		return "下周"
	}
	return "本周"
}
