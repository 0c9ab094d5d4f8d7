package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/John-Robertt/acmensa/internal/dates"
	"github.com/John-Robertt/acmensa/internal/domain"
	"github.com/John-Robertt/acmensa/internal/infra/fsx"
)

// FileName 返回某一天的导出文件名（YYYYMMDD.json）。
func FileName(d time.Time) string {
	return d.Format(dates.FileLayout) + ".json"
}

// MarshalDay 把一天的菜单编码为缩进 JSON（末尾带换行）。
func MarshalDay(v domain.DayView) ([]byte, error) {
	b, err := json.MarshalIndent(v.Data(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Observer 接收导出进度事件；export 包自身不做任何输出。
type Observer interface {
	// OnFileWritten 在第 idx 个（从 1 开始）文件写入成功后调用。
	OnFileWritten(idx, total int, path string)
}

// WriteWeeks 把本周与下周共 2*OpenDays 天写到 dir，返回写出的文件路径。
//
// 约束：
// - days 必须恰好 2*OpenDays 个，前 OpenDays 个对应 this，其余对应 next
// - 每个文件原子替换；中途失败时已写出的文件保留
func WriteWeeks(dir string, days []time.Time, this, next domain.WeekData) ([]string, error) {
	return WriteWeeksWithObserver(dir, days, this, next, nil)
}

// WriteWeeksWithObserver 同 WriteWeeks，并在每个文件写入后通知 obs（可为 nil）。
func WriteWeeksWithObserver(dir string, days []time.Time, this, next domain.WeekData, obs Observer) ([]string, error) {
	if len(days) != 2*domain.OpenDays {
		return nil, fmt.Errorf("需要 %d 个日期，实际 %d 个", 2*domain.OpenDays, len(days))
	}
	if err := fsx.EnsureDir(dir); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(days))
	for i, d := range days {
		week := this
		if i >= domain.OpenDays {
			week = next
		}
		b, err := MarshalDay(week.Day(i % domain.OpenDays))
		if err != nil {
			return written, err
		}
		name := FileName(d)
		if err := fsx.WriteFileAtomic(dir, name, b); err != nil {
			return written, fmt.Errorf("写入 %s 失败：%w", name, err)
		}
		p := filepath.Join(dir, name)
		written = append(written, p)
		if obs != nil {
			obs.OnFileWritten(len(written), len(days), p)
		}
	}
	return written, nil
}
