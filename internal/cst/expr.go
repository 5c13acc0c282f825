package cst

import (
	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// QuoteStyle 字符串字面量的书写形式
type QuoteStyle int

const (
	QuoteSingle QuoteStyle = iota // 'x'
	QuoteDouble                   // "x"
	QuoteRaw                      // [[x]] / [==[x]==]
	QuoteInterp                   // `x`
)

func (q QuoteStyle) String() string {
	switch q {
	case QuoteSingle:
		return "single"
	case QuoteDouble:
		return "double"
	case QuoteRaw:
		return "raw"
	case QuoteInterp:
		return "interp"
	}
	return "unknown"
}

// Separator 列表元素后的分隔符
type Separator int

const (
	SeparatorNone Separator = iota
	SeparatorComma
	SeparatorSemicolon
)

// Text 分隔符文本
func (s Separator) Text() string {
	switch s {
	case SeparatorComma:
		return ","
	case SeparatorSemicolon:
		return ";"
	}
	return ""
}

// ============================================================================
// 表达式装饰
// ============================================================================

// ExprConstantNumber 数字字面量的源文本
type ExprConstantNumber struct {
	base
	Value string
}

func (*ExprConstantNumber) Kind() Kind { return KindExprConstantNumber }

// NewExprConstantNumber 创建数字字面量装饰
func NewExprConstantNumber(value string) *ExprConstantNumber {
	return &ExprConstantNumber{Value: value}
}

// ExprConstantString 字符串字面量的源文本与引号
//
// SourceString 是引号之间未经解码的原文；BlockDepth 只对 QuoteRaw 有意义，
// 是长括号中 = 的个数。
type ExprConstantString struct {
	base
	SourceString string
	QuoteStyle   QuoteStyle
	BlockDepth   int
}

func (*ExprConstantString) Kind() Kind { return KindExprConstantString }

// NewExprConstantString 创建字符串字面量装饰
func NewExprConstantString(source string, style QuoteStyle, depth int) *ExprConstantString {
	errors.Assert(depth == 0 || style == QuoteRaw, "cst: block depth %d on a %s string", depth, style)
	errors.Assert(depth >= 0, "cst: negative block depth")
	return &ExprConstantString{SourceString: source, QuoteStyle: style, BlockDepth: depth}
}

// ExprCall 调用的括号与逗号
//
// 单个字符串或表参数的调用可以省略括号，此时两个括号位置都为 nil。
type ExprCall struct {
	base
	OpenParens     *token.Position
	CloseParens    *token.Position
	CommaPositions []token.Position
}

func (*ExprCall) Kind() Kind { return KindExprCall }

// NewExprCall 创建调用装饰
func NewExprCall(open, closing *token.Position, commas []token.Position) *ExprCall {
	errors.Assert((open == nil) == (closing == nil), "cst: call parentheses must be recorded in pairs")
	return &ExprCall{OpenParens: open, CloseParens: closing, CommaPositions: commas}
}

// ExprIndexExpr 下标的方括号
type ExprIndexExpr struct {
	base
	OpenBracketPosition  token.Position
	CloseBracketPosition token.Position
}

func (*ExprIndexExpr) Kind() Kind { return KindExprIndexExpr }

// NewExprIndexExpr 创建下标装饰
func NewExprIndexExpr(open, closing token.Position) *ExprIndexExpr {
	return &ExprIndexExpr{OpenBracketPosition: open, CloseBracketPosition: closing}
}

// ExprFunction 函数字面量的标点
//
// ArgsAnnotationColonPositions 与参数一一对应，没有注解的参数为 nil。
type ExprFunction struct {
	base
	OpenGenericsPosition          *token.Position
	GenericsCommaPositions        []token.Position
	CloseGenericsPosition         *token.Position
	ArgsAnnotationColonPositions  []*token.Position
	ArgsCommaPositions            []token.Position
	VarargAnnotationColonPosition *token.Position
	ReturnSpecifierPosition       *token.Position
}

func (*ExprFunction) Kind() Kind { return KindExprFunction }

// NewExprFunction 创建函数装饰
func NewExprFunction(f ExprFunction) *ExprFunction {
	errors.Assert((f.OpenGenericsPosition == nil) == (f.CloseGenericsPosition == nil),
		"cst: function generic brackets must be recorded in pairs")
	return &f
}

// TableItem 表构造器元素的标点
type TableItem struct {
	Kind                 ast.TableItemKind
	IndexerOpenPosition  *token.Position
	IndexerClosePosition *token.Position
	EqualsPosition       *token.Position
	Separator            Separator
	SeparatorPosition    *token.Position
}

// ExprTable 表构造器的标点，Items 与 AST 的元素一一对应
type ExprTable struct {
	base
	Items []TableItem
}

func (*ExprTable) Kind() Kind { return KindExprTable }

// NewExprTable 创建表构造器装饰
func NewExprTable(items []TableItem) *ExprTable {
	for i, item := range items {
		switch item.Kind {
		case ast.TableItemGeneral:
			errors.Assert(item.IndexerOpenPosition != nil && item.IndexerClosePosition != nil && item.EqualsPosition != nil,
				"cst: table item %d: general item needs brackets and '='", i)
		case ast.TableItemRecord:
			errors.Assert(item.EqualsPosition != nil, "cst: table item %d: record item needs '='", i)
		}
		errors.Assert((item.Separator == SeparatorNone) == (item.SeparatorPosition == nil),
			"cst: table item %d: separator and its position must be recorded together", i)
	}
	return &ExprTable{Items: items}
}

// ExprOp 一元或二元运算符的位置
type ExprOp struct {
	base
	OpPosition token.Position
}

func (*ExprOp) Kind() Kind { return KindExprOp }

// NewExprOp 创建运算符装饰
func NewExprOp(pos token.Position) *ExprOp {
	return &ExprOp{OpPosition: pos}
}

// ExprTypeAssertion :: 的位置
type ExprTypeAssertion struct {
	base
	OpPosition token.Position
}

func (*ExprTypeAssertion) Kind() Kind { return KindExprTypeAssertion }

// NewExprTypeAssertion 创建类型断言装饰
func NewExprTypeAssertion(pos token.Position) *ExprTypeAssertion {
	return &ExprTypeAssertion{OpPosition: pos}
}

// ExprIfElse if 表达式的 then / else 位置
//
// IsElseIf 为 true 时 ElsePosition 指向 elseif 关键字，FalseExpr 是嵌套的 if 表达式。
type ExprIfElse struct {
	base
	ThenPosition token.Position
	ElsePosition token.Position
	IsElseIf     bool
}

func (*ExprIfElse) Kind() Kind { return KindExprIfElse }

// NewExprIfElse 创建 if 表达式装饰
func NewExprIfElse(then, els token.Position, isElseIf bool) *ExprIfElse {
	return &ExprIfElse{ThenPosition: then, ElsePosition: els, IsElseIf: isElseIf}
}

// ExprInterpString 插值字符串各段的原文与起点
//
// StringPositions[i] 是第 i 段前导分隔符（` 或 }）的位置。
type ExprInterpString struct {
	base
	SourceStrings   []string
	StringPositions []token.Position
}

func (*ExprInterpString) Kind() Kind { return KindExprInterpString }

// NewExprInterpString 创建插值字符串装饰
func NewExprInterpString(sources []string, positions []token.Position) *ExprInterpString {
	errors.Assert(len(sources) == len(positions),
		"cst: interpolated string has %d segments but %d positions", len(sources), len(positions))
	errors.Assert(len(sources) > 0, "cst: interpolated string without segments")
	return &ExprInterpString{SourceStrings: sources, StringPositions: positions}
}
