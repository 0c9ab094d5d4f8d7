package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/acmensa/internal/domain"
)

//go:embed pretty-print.toml
var prettyPrintTOML []byte

// StyleMeal 是一道主菜标题的 emoji 与颜色。
type StyleMeal struct {
	Emoji  string `toml:"emoji"`
	Colour string `toml:"colour"`
}

// FormatMeal 是某个类别的样式；AltVeg 为空时素食菜品沿用 Main。
type FormatMeal struct {
	Main   StyleMeal  `toml:"main"`
	AltVeg *StyleMeal `toml:"alt_veg"`
}

// StyleSide 是配菜区块的颜色。
type StyleSide struct {
	HeadColour    string `toml:"head_colour"`
	SubtextColour string `toml:"subtext_colour"`
}

type formatMealMap struct {
	Type   string     `toml:"type"`
	Format FormatMeal `toml:"format"`
}

type themeFile struct {
	MealMap           []formatMealMap `toml:"meal_map"`
	MealDef           FormatMeal      `toml:"meal_def"`
	MealSubtextColour string          `toml:"meal_subtext_colour"`
	SideStyle         StyleSide       `toml:"side_style"`
}

// Theme 是解析后的配色表。
type Theme struct {
	Meals         map[domain.MealType]FormatMeal
	Default       FormatMeal
	SubtextColour string
	Side          StyleSide
}

// For 返回类别对应的样式；未配置的类别使用 Default。
func (t Theme) For(mt domain.MealType, vegan bool) StyleMeal {
	f, ok := t.Meals[mt]
	if !ok {
		f = t.Default
	}
	if vegan && f.AltVeg != nil {
		return *f.AltVeg
	}
	return f.Main
}

var defaultTheme = sync.OnceValues(func() (Theme, error) {
	return ParseTheme(prettyPrintTOML)
})

// DefaultTheme 返回内置配色（只解析一次）。
func DefaultTheme() (Theme, error) {
	return defaultTheme()
}

// ParseTheme 解析 pretty-print.toml 格式的配色表。
// 约束：type 必须是 MealType 的变体名；同一类别重复出现视为错误。
func ParseTheme(b []byte) (Theme, error) {
	var f themeFile
	if err := toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(&f); err != nil {
		return Theme{}, fmt.Errorf("解析配色表失败：%w", err)
	}
	th := Theme{
		Meals:         make(map[domain.MealType]FormatMeal, len(f.MealMap)),
		Default:       f.MealDef,
		SubtextColour: f.MealSubtextColour,
		Side:          f.SideStyle,
	}
	for _, m := range f.MealMap {
		mt, err := domain.ParseMealType(m.Type)
		if err != nil {
			return Theme{}, fmt.Errorf("配色表：%w", err)
		}
		if _, dup := th.Meals[mt]; dup {
			return Theme{}, fmt.Errorf("配色表：类别 %v 重复", mt)
		}
		th.Meals[mt] = m.Format
	}
	return th, nil
}
