package token

import "fmt"

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
//
// 行号与列号都从 0 开始，列号按字节计数。打印器依赖这一约定把输出光标
// 推进到原始列，所以这里不做任何制表符展开。
type Position struct {
	Line   int
	Column int
}

// Pos 创建一个 Position
func Pos(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String 返回位置的字符串表示，格式为 "line:column"（显示时换算为从 1 开始）
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Less 判断 p 是否在 o 之前
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Shift 返回同一行上偏移 delta 列后的位置，列号不会小于 0
func (p Position) Shift(delta int) Position {
	p.Column += delta
	if p.Column < 0 {
		p.Column = 0
	}
	return p
}

// ============================================================================
// Location - 源代码范围
// ============================================================================

// Location 表示源代码中的一个左闭右开范围
type Location struct {
	Begin Position
	End   Position
}

// Loc 创建一个 Location
func Loc(begin, end Position) Location {
	return Location{Begin: begin, End: end}
}

// Span 返回覆盖 a 与 b 的最小范围
func Span(a, b Location) Location {
	return Location{Begin: a.Begin, End: b.End}
}

// Contains 判断位置是否落在范围内
func (l Location) Contains(p Position) bool {
	return !p.Less(l.Begin) && p.Less(l.End)
}

// String 返回范围的字符串表示
func (l Location) String() string {
	if l.Begin.Line == l.End.Line {
		return fmt.Sprintf("%s-%d", l.Begin, l.End.Column+1)
	}
	return fmt.Sprintf("%s-%s", l.Begin, l.End)
}
