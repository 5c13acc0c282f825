package cst

import (
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// 泛型参数装饰
// ============================================================================

// GenericType 泛型参数默认值的 = 位置
type GenericType struct {
	base
	DefaultEqualsPosition *token.Position
}

func (*GenericType) Kind() Kind { return KindGenericType }

// NewGenericType 创建泛型参数装饰
func NewGenericType(equals *token.Position) *GenericType {
	return &GenericType{DefaultEqualsPosition: equals}
}

// GenericTypePack 泛型类型包参数的 ... 与 = 位置
type GenericTypePack struct {
	base
	EllipsisPosition      token.Position
	DefaultEqualsPosition *token.Position
}

func (*GenericTypePack) Kind() Kind { return KindGenericTypePack }

// NewGenericTypePack 创建泛型类型包参数装饰
func NewGenericTypePack(ellipsis token.Position, equals *token.Position) *GenericTypePack {
	return &GenericTypePack{EllipsisPosition: ellipsis, DefaultEqualsPosition: equals}
}

// ============================================================================
// 类型装饰
// ============================================================================

// TypeReference 具名类型的 . 与参数尖括号
type TypeReference struct {
	base
	PrefixPointPosition      *token.Position
	OpenParametersPosition   *token.Position
	ParametersCommaPositions []token.Position
	CloseParametersPosition  *token.Position
}

func (*TypeReference) Kind() Kind { return KindTypeReference }

// NewTypeReference 创建类型引用装饰
func NewTypeReference(t TypeReference) *TypeReference {
	errors.Assert((t.OpenParametersPosition == nil) == (t.CloseParametersPosition == nil),
		"cst: type parameter brackets must be recorded in pairs")
	return &t
}

// TypeTableItemKind 表类型元素种类
type TypeTableItemKind int

const (
	TypeTableIndexer        TypeTableItemKind = iota // [K]: V
	TypeTableProperty                                // name: T
	TypeTableStringProperty                          // ["name"]: T
)

// TypeTableItem 表类型元素的标点
//
// Items 按源码顺序排列，索引器可以出现在属性之间。
// StringProperty 的 StringInfo 记录键的引号形式。
type TypeTableItem struct {
	Kind                 TypeTableItemKind
	IndexerOpenPosition  *token.Position
	IndexerClosePosition *token.Position
	ColonPosition        token.Position
	Separator            Separator
	SeparatorPosition    *token.Position
	StringInfo           *TypeSingletonString
}

// TypeTable 表类型的元素标点
//
// IsArray 为 true 时源码是数组简写 {T}，Items 为空。
type TypeTable struct {
	base
	Items   []TypeTableItem
	IsArray bool
}

func (*TypeTable) Kind() Kind { return KindTypeTable }

// NewTypeTable 创建表类型装饰
func NewTypeTable(t TypeTable) *TypeTable {
	errors.Assert(!t.IsArray || len(t.Items) == 0, "cst: array table type with %d items", len(t.Items))
	for i, item := range t.Items {
		if item.Kind != TypeTableProperty {
			errors.Assert(item.IndexerOpenPosition != nil && item.IndexerClosePosition != nil,
				"cst: table type item %d needs brackets", i)
		}
		errors.Assert(item.Kind != TypeTableStringProperty || item.StringInfo != nil,
			"cst: table type item %d: string property without quote information", i)
		errors.Assert((item.Separator == SeparatorNone) == (item.SeparatorPosition == nil),
			"cst: table type item %d: separator and its position must be recorded together", i)
	}
	return &t
}

// TypeFunction 函数类型的标点
//
// ArgumentNameColonPositions 与参数一一对应，未命名的参数为 nil。
type TypeFunction struct {
	base
	OpenGenericsPosition       *token.Position
	GenericsCommaPositions     []token.Position
	CloseGenericsPosition      *token.Position
	OpenArgsPosition           token.Position
	ArgumentNameColonPositions []*token.Position
	ArgumentsCommaPositions    []token.Position
	CloseArgsPosition          token.Position
	ReturnArrowPosition        token.Position
}

func (*TypeFunction) Kind() Kind { return KindTypeFunction }

// NewTypeFunction 创建函数类型装饰
func NewTypeFunction(t TypeFunction) *TypeFunction {
	errors.Assert((t.OpenGenericsPosition == nil) == (t.CloseGenericsPosition == nil),
		"cst: function type generic brackets must be recorded in pairs")
	return &t
}

// TypeTypeof typeof 的括号
type TypeTypeof struct {
	base
	OpenPosition  token.Position
	ClosePosition token.Position
}

func (*TypeTypeof) Kind() Kind { return KindTypeTypeof }

// NewTypeTypeof 创建 typeof 装饰
func NewTypeTypeof(open, closing token.Position) *TypeTypeof {
	return &TypeTypeof{OpenPosition: open, ClosePosition: closing}
}

// TypeUnion 联合类型的分隔符
//
// LeadingPosition 是可选的前导 |；SeparatorPositions 只记录成员之间实际写出的 |，
// 可选标记 ? 不占分隔符。
type TypeUnion struct {
	base
	LeadingPosition    *token.Position
	SeparatorPositions []token.Position
}

func (*TypeUnion) Kind() Kind { return KindTypeUnion }

// NewTypeUnion 创建联合类型装饰
func NewTypeUnion(leading *token.Position, separators []token.Position) *TypeUnion {
	return &TypeUnion{LeadingPosition: leading, SeparatorPositions: separators}
}

// TypeIntersection 交叉类型的分隔符，字段含义同 TypeUnion
type TypeIntersection struct {
	base
	LeadingPosition    *token.Position
	SeparatorPositions []token.Position
}

func (*TypeIntersection) Kind() Kind { return KindTypeIntersection }

// NewTypeIntersection 创建交叉类型装饰
func NewTypeIntersection(leading *token.Position, separators []token.Position) *TypeIntersection {
	return &TypeIntersection{LeadingPosition: leading, SeparatorPositions: separators}
}

// TypeSingletonString 字符串单例类型的原文与引号
type TypeSingletonString struct {
	base
	SourceString string
	QuoteStyle   QuoteStyle
	BlockDepth   int
}

func (*TypeSingletonString) Kind() Kind { return KindTypeSingletonString }

// NewTypeSingletonString 创建字符串单例类型装饰
func NewTypeSingletonString(source string, style QuoteStyle, depth int) *TypeSingletonString {
	errors.Assert(style != QuoteInterp, "cst: interpolated quote style on a singleton type")
	errors.Assert(depth == 0 || style == QuoteRaw, "cst: block depth %d on a %s string", depth, style)
	return &TypeSingletonString{SourceString: source, QuoteStyle: style, BlockDepth: depth}
}

// ============================================================================
// 类型包装饰
// ============================================================================

// TypePackExplicit 显式类型列表的括号与逗号
type TypePackExplicit struct {
	base
	HasParentheses           bool
	OpenParenthesesPosition  token.Position
	CloseParenthesesPosition token.Position
	CommaPositions           []token.Position
}

func (*TypePackExplicit) Kind() Kind { return KindTypePackExplicit }

// NewTypePackExplicit 创建显式类型包装饰
func NewTypePackExplicit(t TypePackExplicit) *TypePackExplicit {
	return &t
}

// TypePackGeneric 泛型类型包 T... 中 ... 的位置
type TypePackGeneric struct {
	base
	EllipsisPosition token.Position
}

func (*TypePackGeneric) Kind() Kind { return KindTypePackGeneric }

// NewTypePackGeneric 创建泛型类型包装饰
func NewTypePackGeneric(ellipsis token.Position) *TypePackGeneric {
	return &TypePackGeneric{EllipsisPosition: ellipsis}
}
