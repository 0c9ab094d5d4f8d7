package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// OpenDays 是每周营业日数（周一到周五）。
const OpenDays = 5

// WeekData 持有一周（周一..周五）的菜品。
//
// 不变量：两个数组总是恰好 OpenDays 个槽位；槽位可以是空切片（当天无菜品），但槽位本身一定存在。
// WeekData 构造后视为不可变：Sorted 返回新值，不原地修改。
type WeekData struct {
	MainDishes [OpenDays][]MealInfo `json:"main_dishes"`
	SideDishes [OpenDays][]SideInfo `json:"side_dishes"`
}

// DayView 是 WeekData 中某一天的只读视图。
//
// 约束：视图与 WeekData 共享底层数组；调用方不得修改切片元素。需要独立副本时用 Data()。
type DayView struct {
	MainDishes []MealInfo `json:"main_dishes"`
	SideDishes []SideInfo `json:"side_dishes"`
}

// DayData 与 DayView 字段相同，但持有自己的数据（用于导出与 JSON schema）。
type DayData struct {
	// MainDishes 主菜（Klassiker、Vegetarisch、Wok……）。
	MainDishes []MealInfo `json:"main_dishes"`
	// SideDishes 配菜（Sättigungs-/Gemüsebeilage）。
	SideDishes []SideInfo `json:"side_dishes"`
}

// DayIndexError 表示调用方请求了 [0, OpenDays) 之外的下标。
// 这是调用方的编程错误（偏移量算错），不是数据错误。
type DayIndexError struct {
	Index int
}

func (e *DayIndexError) Error() string {
	return fmt.Sprintf("day index %d 越界：必须在 [0, %d) 内", e.Index, OpenDays)
}

// Day 返回某一天的视图。index 越界属于契约违例，直接 panic（值为 *DayIndexError）。
func (w WeekData) Day(index int) DayView {
	v, err := w.DayChecked(index)
	if err != nil {
		panic(err)
	}
	return v
}

// DayChecked 与 Day 相同，但越界时返回错误（供下标来自用户输入的调用方使用）。
func (w WeekData) DayChecked(index int) (DayView, error) {
	if index < 0 || index >= OpenDays {
		return DayView{}, &DayIndexError{Index: index}
	}
	return DayView{
		MainDishes: nonNilMeals(w.MainDishes[index]),
		SideDishes: nonNilSides(w.SideDishes[index]),
	}, nil
}

// Sorted 返回一个新的 WeekData：每天的主菜与配菜分别按各自的全序做稳定排序。
// 幂等；不增删条目；不修改接收者。
func (w WeekData) Sorted() WeekData {
	var out WeekData
	for d := 0; d < OpenDays; d++ {
		mains := slices.Clone(w.MainDishes[d])
		slices.SortStableFunc(mains, MealInfo.Compare)
		out.MainDishes[d] = mains

		sides := make([]SideInfo, len(w.SideDishes[d]))
		for i, s := range w.SideDishes[d] {
			sides[i] = SideInfo{Type: s.Type, Alternatives: slices.Clone(s.Alternatives)}
		}
		slices.SortStableFunc(sides, SideInfo.Compare)
		out.SideDishes[d] = sides
	}
	return out
}

// MarshalJSON 把空槽位输出为 []，保证下游看到的永远是 5 个数组。
func (w WeekData) MarshalJSON() ([]byte, error) {
	type alias WeekData
	a := alias(w)
	for d := 0; d < OpenDays; d++ {
		a.MainDishes[d] = nonNilMeals(a.MainDishes[d])
		a.SideDishes[d] = nonNilSides(a.SideDishes[d])
	}
	return json.Marshal(a)
}

// Data 复制出一个独立的 DayData。
func (v DayView) Data() DayData {
	sides := make([]SideInfo, len(v.SideDishes))
	for i, s := range v.SideDishes {
		sides[i] = SideInfo{Type: s.Type, Alternatives: slices.Clone(s.Alternatives)}
	}
	return DayData{
		MainDishes: nonNilMeals(slices.Clone(v.MainDishes)),
		SideDishes: sides,
	}
}

// IsEmpty 表示当天没有任何菜品（例如节假日）。
func (v DayView) IsEmpty() bool {
	return len(v.MainDishes) == 0 && len(v.SideDishes) == 0
}

func nonNilMeals(in []MealInfo) []MealInfo {
	if in == nil {
		return []MealInfo{}
	}
	return in
}

func nonNilSides(in []SideInfo) []SideInfo {
	if in == nil {
		return []SideInfo{}
	}
	return in
}
