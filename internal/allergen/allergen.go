package allergen

import (
	"regexp"
	"strings"

	"github.com/John-Robertt/acmensa/internal/domain"
)

// markerRE 匹配过敏原标记：括号内只允许大写字母、数字和逗号，例如 "(A,C,G)"。
// 注意：允许空括号 "()"；括号内一旦出现空格或小写字母就不是标记（避免误删正文里的括号说明）。
var markerRE = regexp.MustCompile(`\(([A-Z0-9,]*)\)`)

var spaceRunRE = regexp.MustCompile(`\s\s+`)

// Clean 删除所有过敏原标记，把连续空白折叠为一个空格，并去掉首尾空白。
//
// 约束：幂等，Clean(Clean(x)) == Clean(x)。
func Clean(text string) string {
	s := markerRE.ReplaceAllString(text, "")
	// 删除标记后可能拼出新的标记，例如 "((A))" -> "(A)"；循环直到不再变化以保证幂等。
	for markerRE.MatchString(s) {
		s = markerRE.ReplaceAllString(s, "")
	}
	s = spaceRunRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Extract 收集 text 中所有过敏原标记里的代码，返回去重排序后的集合。
//
// 规则：
// - 每个标记的内容按 "," 切分，片段原样保留（正则已限定字符集，不再 trim）
// - 空片段也原样保留："()" 得到 {""}，"(A,,B)" 得到 {"", "A", "B"}
// - 无标记时返回空集合
func Extract(text string) domain.AllergenList {
	matches := markerRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return domain.AllergenList{}
	}
	codes := make([]string, 0, len(matches)*4)
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		codes = append(codes, strings.Split(m[1], ",")...)
	}
	return domain.NewAllergenList(codes...)
}
