package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// AllergenList 是过敏原代码集合。
//
// 不变量：元素去重且按字典序排列；相等/排序都基于这个有序序列。
// 只能通过 NewAllergenList / Union 构造，保证不变量成立。
type AllergenList struct {
	codes []string
}

// NewAllergenList 对输入去重并排序（输入原样保留，不做 trim/大小写转换）。
func NewAllergenList(codes ...string) AllergenList {
	if len(codes) == 0 {
		return AllergenList{}
	}
	out := slices.Clone(codes)
	slices.Sort(out)
	return AllergenList{codes: slices.Compact(out)}
}

// Union 返回两个集合的并集（新值，不修改接收者）。
func (l AllergenList) Union(o AllergenList) AllergenList {
	if len(o.codes) == 0 {
		return l
	}
	if len(l.codes) == 0 {
		return o
	}
	all := make([]string, 0, len(l.codes)+len(o.codes))
	all = append(all, l.codes...)
	all = append(all, o.codes...)
	return NewAllergenList(all...)
}

// Codes 返回有序代码的副本。
func (l AllergenList) Codes() []string {
	return slices.Clone(l.codes)
}

func (l AllergenList) Len() int { return len(l.codes) }

func (l AllergenList) IsEmpty() bool { return len(l.codes) == 0 }

func (l AllergenList) Contains(code string) bool {
	_, ok := slices.BinarySearch(l.codes, code)
	return ok
}

// String 以 ", " 连接（用于终端展示）。
func (l AllergenList) String() string {
	return strings.Join(l.codes, ", ")
}

// Compare 对有序序列做字典序比较。
func (l AllergenList) Compare(o AllergenList) int {
	return slices.Compare(l.codes, o.codes)
}

func (l AllergenList) Equal(o AllergenList) bool {
	return slices.Equal(l.codes, o.codes)
}

// MarshalJSON 输出字符串数组；空集合输出 []。
func (l AllergenList) MarshalJSON() ([]byte, error) {
	if l.codes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.codes)
}

// UnmarshalJSON 重新建立不变量（去重 + 排序），不信任外部输入的顺序。
func (l *AllergenList) UnmarshalJSON(b []byte) error {
	var codes []string
	if err := json.Unmarshal(b, &codes); err != nil {
		return err
	}
	*l = NewAllergenList(codes...)
	return nil
}
