package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func sampleWeek() WeekData {
	var w WeekData
	w.MainDishes[0] = []MealInfo{
		{Type: Vegetarisch, Text: "Gemüsecurry", Price: "2,20 €", Vegan: true},
		{Type: Klassiker, Text: "Schnitzel", Subtext: "mit Sauce", Price: "2,50 €", Allergens: NewAllergenList("C", "A", "B")},
		{Type: Klassiker, Text: "Bratwurst", Price: "2,50 €"},
	}
	w.SideDishes[0] = []SideInfo{
		{Type: Secondary, Alternatives: []SideAlternative{{Text: "Brokkoli"}}},
		{Type: Main, Alternatives: []SideAlternative{{Text: "Reis"}, {Text: "Pommes", Allergens: NewAllergenList("A")}}},
	}
	w.MainDishes[3] = []MealInfo{{Type: Wok, Text: "Nudeln"}}
	return w
}

func TestDay_ValidIndices(t *testing.T) {
	w := sampleWeek()
	for i := 0; i < OpenDays; i++ {
		v := w.Day(i)
		if v.MainDishes == nil || v.SideDishes == nil {
			t.Fatalf("Day(%d) 期望非 nil 切片", i)
		}
	}
	if len(w.Day(0).MainDishes) != 3 || len(w.Day(0).SideDishes) != 2 {
		t.Fatalf("Day(0) 内容不符：%+v", w.Day(0))
	}
	if !w.Day(1).IsEmpty() {
		t.Fatalf("Day(1) 期望为空")
	}
	if w.Day(3).IsEmpty() {
		t.Fatalf("Day(3) 期望非空")
	}
}

func TestDay_OutOfRangePanics(t *testing.T) {
	for _, idx := range []int{-1, OpenDays, 7} {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("Day(%d) 期望 panic", idx)
				}
				var de *DayIndexError
				err, ok := r.(error)
				if !ok || !errors.As(err, &de) || de.Index != idx {
					t.Fatalf("Day(%d) 期望 panic 值为 *DayIndexError，实际 %#v", idx, r)
				}
			}()
			_ = WeekData{}.Day(idx)
		}()
	}
}

func TestDayChecked(t *testing.T) {
	if _, err := (WeekData{}).DayChecked(4); err != nil {
		t.Fatalf("DayChecked(4) 期望成功，实际 %v", err)
	}
	_, err := (WeekData{}).DayChecked(5)
	var de *DayIndexError
	if !errors.As(err, &de) || de.Index != 5 {
		t.Fatalf("期望 *DayIndexError{5}，实际 %v", err)
	}
}

func TestSorted_OrdersByFieldsAndIsIdempotent(t *testing.T) {
	w := sampleWeek()
	s := w.Sorted()

	got := s.Day(0).MainDishes
	if got[0].Text != "Bratwurst" || got[1].Text != "Schnitzel" || got[2].Type != Vegetarisch {
		t.Fatalf("主菜排序不符：%+v", got)
	}
	sides := s.Day(0).SideDishes
	if sides[0].Type != Main || sides[1].Type != Secondary {
		t.Fatalf("配菜排序不符：%+v", sides)
	}
	// 选项的文档顺序不参与重排。
	if sides[0].Alternatives[0].Text != "Reis" {
		t.Fatalf("选项顺序被改变：%+v", sides[0].Alternatives)
	}

	if !reflect.DeepEqual(s, s.Sorted()) {
		t.Fatalf("Sorted 不幂等")
	}
}

func TestSorted_PreservesMultisetAndReceiver(t *testing.T) {
	w := sampleWeek()
	before := sampleWeek()
	s := w.Sorted()

	if !reflect.DeepEqual(w, before) {
		t.Fatalf("Sorted 修改了接收者")
	}
	for d := 0; d < OpenDays; d++ {
		if len(s.MainDishes[d]) != len(w.MainDishes[d]) || len(s.SideDishes[d]) != len(w.SideDishes[d]) {
			t.Fatalf("第 %d 天条目数变化", d)
		}
		for _, m := range w.MainDishes[d] {
			found := false
			for _, x := range s.MainDishes[d] {
				if m.Compare(x) == 0 {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("第 %d 天丢失条目 %+v", d, m)
			}
		}
	}

	// 修改排序结果不影响原值。
	s.SideDishes[0][0].Alternatives[0].Text = "X"
	if w.SideDishes[0][1].Alternatives[0].Text != "Reis" {
		t.Fatalf("Sorted 与接收者共享选项数组")
	}
}

func TestMealInfoCompare_Allergens(t *testing.T) {
	a := MealInfo{Type: Wok, Text: "Nudeln", Allergens: NewAllergenList("A")}
	b := MealInfo{Type: Wok, Text: "Nudeln", Allergens: NewAllergenList("A", "C")}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Fatalf("过敏原前缀较短者应排在前面")
	}
	c := a
	c.Vegan = true
	if a.Compare(c) != -1 {
		t.Fatalf("vegan=false 应排在 vegan=true 之前")
	}
}

func TestWeekData_JSONShape(t *testing.T) {
	b, err := json.Marshal(sampleWeek())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		`"main_dishes":[[`,
		`"type":"Klassiker"`,
		`"allergens":["A","B","C"]`,
		`"alternatives":[{"text":"Brokkoli","allergens":[]}]`,
		`[],[],[{"type":"Wok"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("JSON 缺少 %s：%s", want, s)
		}
	}
	if strings.Contains(s, "null") {
		t.Fatalf("JSON 不应包含 null：%s", s)
	}

	var back WeekData
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.MainDishes[0][1].Type != Klassiker || !back.MainDishes[0][1].Allergens.Equal(NewAllergenList("A", "B", "C")) {
		t.Fatalf("回读结果不符：%+v", back.MainDishes[0][1])
	}
}

func TestParseMealType(t *testing.T) {
	for _, mt := range MealTypes() {
		got, err := ParseMealType(strings.ToLower(mt.String()))
		if err != nil || got != mt {
			t.Fatalf("ParseMealType(%q) 期望 %v，实际 %v, %v", mt.String(), mt, got, err)
		}
	}
	if _, err := ParseMealType("Salat"); err == nil {
		t.Fatalf("未知名字期望返回错误")
	}
}

func TestAllergenList_Invariants(t *testing.T) {
	l := NewAllergenList("G", "A", "G", "10")
	if strings.Join(l.Codes(), ",") != "10,A,G" {
		t.Fatalf("期望 10,A,G，实际 %v", l.Codes())
	}
	if !l.Contains("A") || l.Contains("B") {
		t.Fatalf("Contains 结果不符")
	}
	u := l.Union(NewAllergenList("B", "A"))
	if strings.Join(u.Codes(), ",") != "10,A,B,G" || l.Len() != 3 {
		t.Fatalf("Union 结果不符：%v / %v", u.Codes(), l.Codes())
	}

	var back AllergenList
	if err := json.Unmarshal([]byte(`["C","A","C"]`), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(NewAllergenList("A", "C")) {
		t.Fatalf("Unmarshal 未重建不变量：%v", back.Codes())
	}
}
