package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
)

// MealType 是主菜的类别（封闭枚举）。
//
// 约束：声明顺序即排序顺序（MealInfo.Compare 依赖它按类别分组展示）。
type MealType int

const (
	// Klassiker 经典菜（通常含肉）。
	Klassiker MealType = iota
	// Tellergericht 盘菜/炖菜（可能有纯素版本）。
	Tellergericht
	// Empfehlung 每日推荐。
	Empfehlung
	Wok
	BurgerClassics
	BurgerWoche
	PizzaTag
	// Vegetarisch 标准素食。
	Vegetarisch
	// Unbekannt 兜底：标签无法识别时使用。
	Unbekannt
)

var mealTypeNames = [...]string{
	Klassiker:      "Klassiker",
	Tellergericht:  "Tellergericht",
	Empfehlung:     "Empfehlung",
	Wok:            "Wok",
	BurgerClassics: "BurgerClassics",
	BurgerWoche:    "BurgerWoche",
	PizzaTag:       "PizzaTag",
	Vegetarisch:    "Vegetarisch",
	Unbekannt:      "Unbekannt",
}

// MealTypes 按声明顺序返回全部枚举值（含 Unbekannt）。
func MealTypes() []MealType {
	out := make([]MealType, 0, len(mealTypeNames))
	for i := range mealTypeNames {
		out = append(out, MealType(i))
	}
	return out
}

// String 返回枚举的变体名（也是 JSON 中的拼写）。
func (t MealType) String() string {
	if t < 0 || int(t) >= len(mealTypeNames) {
		return mealTypeNames[Unbekannt]
	}
	return mealTypeNames[t]
}

// ParseMealType 按变体名精确解析（大小写不敏感）。
// 与 InferMealType 不同：这里解析的是我们自己输出的名字，未知名字返回错误。
func ParseMealType(s string) (MealType, error) {
	s = strings.TrimSpace(s)
	for i, n := range mealTypeNames {
		if strings.EqualFold(n, s) {
			return MealType(i), nil
		}
	}
	return Unbekannt, fmt.Errorf("未知的 MealType：%q", s)
}

func (t MealType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *MealType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMealType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// SideType 是配菜槽位的类别（封闭枚举，声明顺序即排序顺序）。
type SideType int

const (
	// Main 主配菜（Sättigungsbeilage）。
	Main SideType = iota
	// Secondary 蔬菜配菜（Gemüsebeilage）。
	Secondary
	// Unknown 兜底。
	Unknown
)

var sideTypeNames = [...]string{
	Main:      "Main",
	Secondary: "Secondary",
	Unknown:   "Unknown",
}

// SideTypes 按声明顺序返回全部枚举值（含 Unknown）。
func SideTypes() []SideType {
	out := make([]SideType, 0, len(sideTypeNames))
	for i := range sideTypeNames {
		out = append(out, SideType(i))
	}
	return out
}

func (t SideType) String() string {
	if t < 0 || int(t) >= len(sideTypeNames) {
		return sideTypeNames[Unknown]
	}
	return sideTypeNames[t]
}

// ParseSideType 按变体名精确解析（大小写不敏感）。
func ParseSideType(s string) (SideType, error) {
	s = strings.TrimSpace(s)
	for i, n := range sideTypeNames {
		if strings.EqualFold(n, s) {
			return SideType(i), nil
		}
	}
	return Unknown, fmt.Errorf("未知的 SideType：%q", s)
}

func (t SideType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *SideType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseSideType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MealInfo 是一道主菜。
//
// 排序：按字段声明顺序做字典序比较（type, text, subtext, price, allergens, vegan）。
type MealInfo struct {
	Type MealType `json:"type"`
	// Text 是清洗后的主描述。
	Text string `json:"text"`
	// Subtext 是清洗后的次要描述（酱汁、配料等）。
	Subtext string `json:"subtext"`
	// Price 直接取自页面，不做解析；通常形如 "2,50 €"，可能为空。
	Price     string       `json:"price"`
	Allergens AllergenList `json:"allergens"`
	// Vegan 是启发式结果（宁可误报），不是权威信息。
	Vegan bool `json:"vegan"`
}

// Compare 返回 -1/0/1。
func (m MealInfo) Compare(o MealInfo) int {
	if c := cmp.Compare(m.Type, o.Type); c != 0 {
		return c
	}
	if c := strings.Compare(m.Text, o.Text); c != 0 {
		return c
	}
	if c := strings.Compare(m.Subtext, o.Subtext); c != 0 {
		return c
	}
	if c := strings.Compare(m.Price, o.Price); c != 0 {
		return c
	}
	if c := m.Allergens.Compare(o.Allergens); c != 0 {
		return c
	}
	return compareBool(m.Vegan, o.Vegan)
}

// SideAlternative 是配菜槽位中的一个可选项。
type SideAlternative struct {
	Text      string       `json:"text"`
	Allergens AllergenList `json:"allergens"`
}

func (a SideAlternative) Compare(o SideAlternative) int {
	if c := strings.Compare(a.Text, o.Text); c != 0 {
		return c
	}
	return a.Allergens.Compare(o.Allergens)
}

// SideInfo 是某一天的一个配菜槽位。
// Alternatives 保持文档顺序（分隔词 "oder"/"or" 已剔除）。
type SideInfo struct {
	Type         SideType          `json:"type"`
	Alternatives []SideAlternative `json:"alternatives"`
}

func (s SideInfo) Compare(o SideInfo) int {
	if c := cmp.Compare(s.Type, o.Type); c != 0 {
		return c
	}
	n := min(len(s.Alternatives), len(o.Alternatives))
	for i := 0; i < n; i++ {
		if c := s.Alternatives[i].Compare(o.Alternatives[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(s.Alternatives), len(o.Alternatives))
}

// MarshalJSON 保证 alternatives 输出为 []（而不是 null），对下游消费者更稳定。
func (s SideInfo) MarshalJSON() ([]byte, error) {
	type alias SideInfo
	a := alias(s)
	if a.Alternatives == nil {
		a.Alternatives = []SideAlternative{}
	}
	return json.Marshal(a)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
