package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/acmensa/internal/dates"
	"github.com/John-Robertt/acmensa/internal/domain"
	"github.com/John-Robertt/acmensa/internal/render"
)

type menuFlags struct {
	json      bool
	date      string
	day       string
	only      string
	short     bool
	prices    bool
	skipSides bool
	skipVegan bool
	allergens bool
}

func newMenuCmd(s *session) *cobra.Command {
	var f menuFlags
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "获取并展示某一天的菜单",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, s, f)
		},
	}

	fl := cmd.Flags()
	fl.BoolVarP(&f.json, "json", "j", false, "以 JSON 输出当天菜单")
	fl.StringVar(&f.date, "date", "", "ISO 日期（YYYY-MM-DD），优先于 --day")
	fl.StringVarP(&f.day, "day", "d", "today", "相对日期：today|next")
	fl.StringVarP(&f.only, "only", "o", "", "只显示该类别的主菜（"+mealTypeChoices()+"）")
	fl.BoolVarP(&f.short, "short", "s", false, "只显示主菜标题（优先于其它细节选项）")
	fl.BoolVarP(&f.prices, "prices", "p", false, "显示价格")
	fl.BoolVarP(&f.skipSides, "skip-sides", "k", false, "不显示配菜")
	fl.BoolVarP(&f.skipVegan, "skip-vegan", "n", false, "不显示素食主菜")
	fl.BoolVarP(&f.allergens, "allergens", "a", false, "显示过敏原（不保证解析完全正确）")
	return cmd
}

func runMenu(cmd *cobra.Command, s *session, f menuFlags) error {
	sel, err := parseSelection(f.date, f.day)
	if err != nil {
		return err
	}
	opts := render.Options{
		Short:     f.short,
		Prices:    f.prices,
		SkipSides: f.skipSides,
		SkipVegan: f.skipVegan,
		Allergens: f.allergens,
		Locale:    s.eff.Locale,
	}
	if strings.TrimSpace(f.only) != "" {
		mt, err := domain.ParseMealType(f.only)
		if err != nil {
			return fmt.Errorf("--only：%w（可选：%s）", err, mealTypeChoices())
		}
		opts.Only = &mt
	}

	target, err := s.dates.Resolve(sel)
	if err != nil {
		return err
	}
	s.log.Info("目标日期",
		zap.String("date", target.Date.Format(dates.DisplayLayout)),
		zap.Bool("next_week", target.NextWeek),
		zap.Int("index", target.Index),
	)

	svc, err := s.service()
	if err != nil {
		return err
	}
	day, err := svc.Day(cmd.Context(), target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.json {
		b, err := json.MarshalIndent(day, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	theme, err := render.DefaultTheme()
	if err != nil {
		return err
	}
	if s.deps.isTTY(out) {
		fmt.Fprintln(out, heading(s, target.Date))
	}
	return render.NewPrinter(out, theme).Print(day, opts)
}

func parseSelection(date, day string) (dates.Selection, error) {
	d, err := dates.ParseDay(strings.TrimSpace(day))
	if err != nil {
		return dates.Selection{}, fmt.Errorf("--day：%w", err)
	}
	sel := dates.Selection{Day: d}
	if date = strings.TrimSpace(date); date != "" {
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return dates.Selection{}, fmt.Errorf("--date 必须是 YYYY-MM-DD，实际 %q", date)
		}
		sel.Date = t
	}
	return sel, nil
}

// heading 是终端模式下的标题行，例如 "Mensa Vita · Mi 13.03.2024"。
func heading(s *session, d time.Time) string {
	name := s.eff.Mensa
	if m, ok := s.catalog.Lookup(s.eff.Mensa); ok && m.Name != "" {
		name = m.Name
	}
	return fmt.Sprintf("%s · %s %s", name, weekdayAbbrev(d.Weekday(), s.eff.Locale), d.Format(dates.DisplayLayout))
}

var weekdayNames = [...][2]string{
	time.Sunday:    {"So", "Sun"},
	time.Monday:    {"Mo", "Mon"},
	time.Tuesday:   {"Di", "Tue"},
	time.Wednesday: {"Mi", "Wed"},
	time.Thursday:  {"Do", "Thu"},
	time.Friday:    {"Fr", "Fri"},
	time.Saturday:  {"Sa", "Sat"},
}

func weekdayAbbrev(wd time.Weekday, loc domain.Locale) string {
	n := weekdayNames[wd]
	return loc.Pick(n[0], n[1])
}

func mealTypeChoices() string {
	names := make([]string, 0, len(domain.MealTypes()))
	for _, mt := range domain.MealTypes() {
		names = append(names, mt.String())
	}
	return strings.Join(names, ", ")
}
