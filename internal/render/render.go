package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/acmensa/internal/domain"
)

// Options 控制一天菜单的展示内容。
type Options struct {
	// Short 只输出主菜标题，优先于其它细节选项。
	Short bool
	// Prices 输出价格。
	Prices bool
	// SkipSides 不输出配菜。
	SkipSides bool
	// SkipVegan 不输出素食主菜。
	SkipVegan bool
	// Allergens 输出过敏原（解析结果不保证完全正确）。
	Allergens bool
	// Only 非空时只输出该类别的主菜，并隐含 SkipSides。
	Only   *domain.MealType
	Locale domain.Locale
}

// Printer 把 DayView 渲染为带颜色的终端文本。
// 颜色能力由 lipgloss 根据 w 探测：非终端（管道/文件/测试 buffer）输出纯文本。
type Printer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	theme Theme
}

func NewPrinter(w io.Writer, theme Theme) *Printer {
	return &Printer{w: w, r: lipgloss.NewRenderer(w), theme: theme}
}

// Print 输出一天的菜单。
//
// 规则：
// - 主菜按 DayView 的顺序输出（调用方负责先 Sorted）
// - Only 或 SkipSides 时不输出配菜
// - 当天没有任何菜品时输出一行提示
func (p *Printer) Print(day domain.DayView, opts Options) error {
	ew := &errWriter{w: p.w}

	if day.IsEmpty() {
		ew.line(p.style(p.theme.SubtextColour).Italic(true).Render(opts.Locale.Pick("Kein Angebot an diesem Tag.", "No menu for this day.")))
		return ew.err
	}

	for _, m := range day.MainDishes {
		if opts.SkipVegan && m.Vegan {
			continue
		}
		if opts.Only != nil && m.Type != *opts.Only {
			continue
		}
		p.printMain(ew, m, opts)
	}

	if opts.Only != nil || opts.SkipSides {
		return ew.err
	}

	ew.line("")
	for _, s := range day.SideDishes {
		p.printSide(ew, s, opts)
	}
	return ew.err
}

func (p *Printer) printMain(ew *errWriter, m domain.MealInfo, opts Options) {
	st := p.theme.For(m.Type, m.Vegan)
	head := fmt.Sprintf(" %s %s", st.Emoji, m.Text)
	if m.Vegan {
		head += " 🌱"
	}
	ew.line(p.style(st.Colour).Render(head))

	if opts.Short {
		return
	}

	sub := p.style(p.theme.SubtextColour).Italic(true)
	if m.Subtext != "" {
		ew.line("\t" + sub.Render(m.Subtext))
	}
	if opts.Allergens && !m.Allergens.IsEmpty() {
		ew.line("\t" + sub.Render(allergenCaption(opts.Locale)+": "+m.Allergens.String()))
	}
	if opts.Prices && m.Price != "" {
		ew.line("\t" + sub.Render(m.Price))
	}
}

func (p *Printer) printSide(ew *errWriter, s domain.SideInfo, opts Options) {
	ew.line(p.style(p.theme.Side.HeadColour).Render(" " + s.Type.DisplayName(opts.Locale)))

	alt := p.style(p.theme.Side.SubtextColour)
	sub := p.style(p.theme.SubtextColour).Italic(true)
	for _, a := range s.Alternatives {
		ew.line("\t" + alt.Render("– "+a.Text))
		if opts.Allergens && !a.Allergens.IsEmpty() {
			ew.line("\t  " + sub.Render(allergenCaption(opts.Locale)+": "+a.Allergens.String()))
		}
	}
}

func (p *Printer) style(colour string) lipgloss.Style {
	s := p.r.NewStyle()
	if strings.TrimSpace(colour) != "" {
		s = s.Foreground(lipgloss.Color(colour))
	}
	return s
}

func allergenCaption(loc domain.Locale) string {
	return loc.Pick("Allergene", "Allergens")
}

// errWriter 记住第一次写错误，之后的写入直接跳过。
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) line(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s+"\n")
}
