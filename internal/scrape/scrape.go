package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/John-Robertt/acmensa/internal/allergen"
	"github.com/John-Robertt/acmensa/internal/domain"
)

const (
	selMainRow  = "tr.main-dish"
	selSideRow  = "tr.side-dish"
	selCell     = "td"
	selDishText = ".dish-text"
)

// brRE 匹配类别单元格里标签与价格之间的换行标记。
// goquery 渲染 void 元素为 "<br/>"，页面源码里则多为 "<br>"，两种都要认。
var brRE = regexp.MustCompile(`(?i)<br\s*/?>`)

// separators 是配菜单元格里的结构性分隔词（区分大小写），不是可选项。
var separators = map[string]struct{}{
	"oder": {},
	"or":   {},
}

// ScrapePage 把一页菜单 HTML 解析为 WeekData。
//
// 约束：
// - 只依赖表格结构（tr.main-dish / tr.side-dish / td / .dish-text），与页面语言无关
// - 纯函数：无共享状态、不做网络访问、不记录日志
// - 行/列缺失时整体失败（*LayoutMismatchError），不返回残缺结果
func ScrapePage(page string) (domain.WeekData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return domain.WeekData{}, &LayoutMismatchError{Section: SectionDocument, Reason: "HTML 解析失败", Err: err}
	}

	var week domain.WeekData
	for d := 0; d < domain.OpenDays; d++ {
		week.MainDishes[d] = []domain.MealInfo{}
		week.SideDishes[d] = []domain.SideInfo{}
	}

	var rowErr error
	doc.Find(selMainRow).EachWithBreak(func(i int, row *goquery.Selection) bool {
		rowErr = scrapeMainRow(i, row, &week)
		return rowErr == nil
	})
	if rowErr != nil {
		return domain.WeekData{}, rowErr
	}

	doc.Find(selSideRow).EachWithBreak(func(i int, row *goquery.Selection) bool {
		rowErr = scrapeSideRow(i, row, &week)
		return rowErr == nil
	})
	if rowErr != nil {
		return domain.WeekData{}, rowErr
	}
	return week, nil
}

func scrapeMainRow(rowNum int, row *goquery.Selection, week *domain.WeekData) error {
	cells, err := rowCells(SectionMain, rowNum, row)
	if err != nil {
		return err
	}

	// 类别单元格形如 "Klassiker<br>2,50 €"：类别从整段 markup 推断，价格取第一个换行之后的部分。
	head, err := cells.Eq(0).Html()
	if err != nil {
		return &LayoutMismatchError{Section: SectionMain, Row: rowNum, Col: 0, Reason: "读取类别单元格失败", Err: err}
	}
	typ := domain.InferMealType(head)
	label, price := splitLabel(head)
	// 标签上的过敏原标记对整行生效（并入每道菜）。
	rowAllergens := allergen.Extract(label)

	for col := 1; col <= domain.OpenDays; col++ {
		cell := cells.Eq(col)

		// 每个单元格至多一个 dish-text；没有则当天这一行无菜品。
		dish := cell.Find(selDishText).First()
		if dish.Length() == 0 {
			continue
		}

		// 主描述取第一个非空白文本节点；其后的节点（含纯空白）原样拼成次要描述。
		runs := allTextRuns(dish)
		head := firstNonBlank(runs)
		if head < 0 {
			return &LayoutMismatchError{Section: SectionMain, Row: rowNum, Col: col, Reason: "dish-text 中没有主描述文本"}
		}
		text := strings.TrimSpace(runs[head])
		subtext := strings.Join(runs[head+1:], "")

		raw, err := cell.Html()
		if err != nil {
			return &LayoutMismatchError{Section: SectionMain, Row: rowNum, Col: col, Reason: "读取单元格失败", Err: err}
		}

		day := col - 1
		week.MainDishes[day] = append(week.MainDishes[day], domain.MealInfo{
			Type:      typ,
			Text:      allergen.Clean(text),
			Subtext:   allergen.Clean(subtext),
			Price:     price,
			Allergens: allergen.Extract(text + subtext).Union(rowAllergens),
			Vegan:     IsVegan(typ, raw),
		})
	}
	return nil
}

func scrapeSideRow(rowNum int, row *goquery.Selection, week *domain.WeekData) error {
	cells, err := rowCells(SectionSide, rowNum, row)
	if err != nil {
		return err
	}

	head, err := cells.Eq(0).Html()
	if err != nil {
		return &LayoutMismatchError{Section: SectionSide, Row: rowNum, Col: 0, Reason: "读取类别单元格失败", Err: err}
	}
	typ := domain.InferSideType(head)

	for col := 1; col <= domain.OpenDays; col++ {
		runs := textRuns(cells.Eq(col))
		alts := make([]domain.SideAlternative, 0, len(runs))
		for _, r := range runs {
			if _, ok := separators[strings.TrimSpace(r)]; ok {
				continue
			}
			alts = append(alts, domain.SideAlternative{
				Text:      allergen.Clean(r),
				Allergens: allergen.Extract(r),
			})
		}

		day := col - 1
		week.SideDishes[day] = append(week.SideDishes[day], domain.SideInfo{
			Type:         typ,
			Alternatives: alts,
		})
	}
	return nil
}

// rowCells 返回行内单元格，并校验“类别单元格 + 5 个工作日单元格”的结构。
func rowCells(section string, rowNum int, row *goquery.Selection) (*goquery.Selection, error) {
	cells := row.Find(selCell)
	n := cells.Length()
	if n == 0 {
		return nil, &LayoutMismatchError{Section: section, Row: rowNum, Col: 0, Reason: "缺少类别单元格"}
	}
	if n < 1+domain.OpenDays {
		return nil, &LayoutMismatchError{Section: section, Row: rowNum, Col: n, Reason: "工作日单元格不足 5 个"}
	}
	return cells, nil
}

// splitLabel 在第一个换行标记处切分类别单元格 markup。
// 没有换行标记时价格为空（不视为布局错误）。
func splitLabel(head string) (label, price string) {
	loc := brRE.FindStringIndex(head)
	if loc == nil {
		return head, ""
	}
	return head[:loc[0]], strings.TrimSpace(head[loc[1]:])
}

// textRuns 按文档顺序返回选区内所有非空白文本节点。
func textRuns(sel *goquery.Selection) []string {
	all := allTextRuns(sel)
	runs := all[:0]
	for _, r := range all {
		if strings.TrimSpace(r) != "" {
			runs = append(runs, r)
		}
	}
	return runs
}

// allTextRuns 按文档顺序返回选区内所有文本节点（包括纯空白节点）。
func allTextRuns(sel *goquery.Selection) []string {
	var runs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				runs = append(runs, c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return runs
}

func firstNonBlank(runs []string) int {
	for i, r := range runs {
		if strings.TrimSpace(r) != "" {
			return i
		}
	}
	return -1
}
