package dates

import (
	"errors"
	"fmt"
	"time"

	"github.com/John-Robertt/acmensa/internal/domain"
)

// DisplayLayout 是终端展示日期的格式。
const DisplayLayout = "02.01.2006"

// FileLayout 是导出文件名的日期部分。
const FileLayout = "20060102"

var (
	// ErrWeekend 表示请求的日期落在周末（食堂不营业）。
	ErrWeekend = errors.New("requested date falls on a weekend")
	// ErrOutOfRange 表示请求的日期不在本周一..下周五之内。
	ErrOutOfRange = errors.New("requested date falls outside the available range")
)

// Day 是相对日期选择。
type Day int

const (
	Today Day = iota
	// Next 是下一个工作日（周五/周末之后是下周一）。
	Next
)

// ParseDay 解析 --day 参数（today/next）。
func ParseDay(s string) (Day, error) {
	switch s {
	case "", "today":
		return Today, nil
	case "next":
		return Next, nil
	default:
		return Today, fmt.Errorf("未知的 day %q（可选：today, next）", s)
	}
}

func (d Day) String() string {
	if d == Next {
		return "next"
	}
	return "today"
}

// Selection 是用户的日期选择。Date 非零时优先于 Day。
type Selection struct {
	Date time.Time
	Day  Day
}

// Target 是解析后的目标：哪一周的第几天。
type Target struct {
	NextWeek bool
	Index    int
	Date     time.Time
}

// Context 固定“今天”与可用范围。
//
// 约束：
// - 所有时间都在固定时区的当天 00:00
// - FirstAvail 是本周一，LastAvail 是下周五的最后一刻
type Context struct {
	Zone       *time.Location
	Today      time.Time
	FirstAvail time.Time
	LastAvail  time.Time
}

// NewContext 以 now 在 UTC+offsetHours 下的日期为“今天”。
func NewContext(now time.Time, offsetHours int) Context {
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
	local := now.In(zone)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)

	first := today.AddDate(0, 0, -isoWeekday(today)+1)
	last := first.AddDate(0, 0, 12).Add(-time.Millisecond)
	return Context{Zone: zone, Today: today, FirstAvail: first, LastAvail: last}
}

// Resolve 把选择解析为目标周与下标。
func (c Context) Resolve(sel Selection) (Target, error) {
	if !sel.Date.IsZero() {
		d := time.Date(sel.Date.Year(), sel.Date.Month(), sel.Date.Day(), 0, 0, 0, 0, c.Zone)
		if isWeekend(d) {
			return Target{}, ErrWeekend
		}
		if d.Before(c.FirstAvail) || d.After(c.LastAvail) {
			return Target{}, ErrOutOfRange
		}
		return c.target(d), nil
	}

	if sel.Day == Next {
		n := isoWeekday(c.Today)
		if n >= 5 {
			return c.target(c.FirstAvail.AddDate(0, 0, 7)), nil
		}
		return c.target(c.Today.AddDate(0, 0, 1)), nil
	}

	if isWeekend(c.Today) {
		return Target{}, ErrWeekend
	}
	return c.target(c.Today), nil
}

func (c Context) target(d time.Time) Target {
	diff := daysBetween(c.FirstAvail, d)
	return Target{NextWeek: diff > 6, Index: diff % 7, Date: d}
}

// ExportDates 返回本周与下周的全部营业日（共 2*OpenDays 个）。
// 前 OpenDays 个属于本周。
func (c Context) ExportDates() []time.Time {
	out := make([]time.Time, 0, 2*domain.OpenDays)
	for w := 0; w < 2; w++ {
		for i := 0; i < domain.OpenDays; i++ {
			out = append(out, c.FirstAvail.AddDate(0, 0, 7*w+i))
		}
	}
	return out
}

// isoWeekday 返回 1（周一）..7（周日）。
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func isWeekend(t time.Time) bool {
	return isoWeekday(t) > domain.OpenDays
}

// daysBetween 按日历日计算（两端都是同一固定时区的 00:00，不受夏令时影响）。
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
