package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Locale 是标签/展示语言。零值为德语（默认）。
type Locale int

const (
	German Locale = iota
	English
)

// LocaleFromEnglish 把 CLI 的 --english 布尔开关映射为 Locale。
func LocaleFromEnglish(english bool) Locale {
	if english {
		return English
	}
	return German
}

func (l Locale) String() string {
	if l == English {
		return "en"
	}
	return "de"
}

// Pick 按 locale 从德/英两个值中取一个。
func (l Locale) Pick(de, en string) string {
	if l == English {
		return en
	}
	return de
}

type mealLabel struct {
	typ    MealType
	de, en string
}

type sideLabel struct {
	typ    SideType
	de, en string
}

// mealLabels 的顺序是语义的一部分：先匹配者胜出。
// BurgerClassics 必须排在 Klassiker 之前，否则英文 "Classics" 会先命中 "Burger Classics"。
var mealLabels = []mealLabel{
	{BurgerClassics, "Burger Classics", "Burger Classics"},
	{BurgerWoche, "Burger der Woche", "Burger of the week"},
	{Tellergericht, "Tellergericht", "Stew"},
	{PizzaTag, "Pizza des Tages", "Pizza of the Day"},
	{Vegetarisch, "Vegetarisch", "Vegetarian"},
	{Empfehlung, "Empfehlung des Tages", "Suggestion of the day"},
	{Klassiker, "Klassiker", "Classics"},
	{Wok, "Wok", "Wok"},
}

// 同一目标的多个德语同义词之间顺序无关。
var sideLabels = []sideLabel{
	{Main, "Sättigungsbeilage", "Main side-dish"},
	{Main, "Hauptbeilage", "Main side-dish"},
	{Secondary, "Gemüsebeilage", "Secondary"},
	{Secondary, "Nebenbeilage", "Secondary"},
}

type loweredPair struct{ de, en string }

var (
	mealLabelsLower = lowerMealLabels()
	sideLabelsLower = lowerSideLabels()
)

// foldLabel 做 NFC 规范化 + Unicode 小写。
// 页面里的变音符可能是分解形式（u + ¨），不先规范化会导致 "Gemüse" 匹配失败。
func foldLabel(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

func lowerMealLabels() []loweredPair {
	out := make([]loweredPair, len(mealLabels))
	for i, l := range mealLabels {
		out[i] = loweredPair{de: foldLabel(l.de), en: foldLabel(l.en)}
	}
	return out
}

func lowerSideLabels() []loweredPair {
	out := make([]loweredPair, len(sideLabels))
	for i, l := range sideLabels {
		out[i] = loweredPair{de: foldLabel(l.de), en: foldLabel(l.en)}
	}
	return out
}

// InferMealType 从页面上的类别标签推断 MealType。
//
// 约束：
// - 总是同时匹配德/英两套标签（页面语言不一定与请求的 locale 一致）
// - 不会失败：无匹配时返回 Unbekannt
func InferMealType(label string) MealType {
	s := foldLabel(label)
	for i, l := range mealLabelsLower {
		if strings.Contains(s, l.de) || strings.Contains(s, l.en) {
			return mealLabels[i].typ
		}
	}
	return Unbekannt
}

// InferSideType 从页面上的配菜标签推断 SideType；无匹配时返回 Unknown。
func InferSideType(label string) SideType {
	s := foldLabel(label)
	for i, l := range sideLabelsLower {
		if strings.Contains(s, l.de) || strings.Contains(s, l.en) {
			return sideLabels[i].typ
		}
	}
	return Unknown
}

// DisplayName 返回该类别在指定语言下的展示名。
func (t MealType) DisplayName(loc Locale) string {
	for _, l := range mealLabels {
		if l.typ == t {
			return loc.Pick(l.de, l.en)
		}
	}
	return loc.Pick("Unbekannt", "Unknown")
}

// DisplayName 返回配菜类别的展示名（同义词取表中第一条）。
func (t SideType) DisplayName(loc Locale) string {
	for _, l := range sideLabels {
		if l.typ == t {
			return loc.Pick(l.de, l.en)
		}
	}
	return loc.Pick("Unbekannt", "Unknown")
}
