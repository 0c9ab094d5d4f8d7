package scrape

import (
	"errors"
	"fmt"
)

// ErrLayoutMismatch 可用于 errors.Is 判断：页面结构与表格约定不一致。
var ErrLayoutMismatch = errors.New("layout mismatch")

const (
	SectionDocument = "document"
	SectionMain     = "main"
	SectionSide     = "side"
)

// LayoutMismatchError 描述表格约定中缺失的行/列/元素。
//
// 约束：不重试、不容忍部分结果；出现该错误时整个 ScrapePage 调用失败。
// Row 是同类行中的序号（从 0 开始）；Col 0 是类别单元格，1..5 是周一..周五。
type LayoutMismatchError struct {
	Section string
	Row     int
	Col     int
	Reason  string
	Err     error
}

func (e *LayoutMismatchError) Error() string {
	if e == nil {
		return ErrLayoutMismatch.Error()
	}
	msg := fmt.Sprintf("页面布局不匹配：section=%s (row,col)=(%d,%d)：%s", e.Section, e.Row, e.Col, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LayoutMismatchError) Unwrap() error { return e.Err }

func (e *LayoutMismatchError) Is(target error) bool { return target == ErrLayoutMismatch }
