package scrape

import (
	"strings"

	"github.com/John-Robertt/acmensa/internal/domain"
)

var veganKeywords = []string{"vegan", "vegetarian", "vegetarisch"}

// IsVegan 是尽量多地识别素食菜品的启发式判断（宁可误报）。
//
// 规则：
// - Vegetarisch 类别无条件为 true
// - 否则在单元格的原始 markup（包含嵌套标签、图标 title 等）里做关键词子串匹配
func IsVegan(t domain.MealType, rawMarkup string) bool {
	if t == domain.Vegetarisch {
		return true
	}
	s := strings.ToLower(rawMarkup)
	for _, k := range veganKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
