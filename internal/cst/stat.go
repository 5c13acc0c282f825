package cst

import (
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// 语句装饰
// ============================================================================

// StatDo do ... end 中 end 的位置
type StatDo struct {
	base
	EndPosition token.Position
}

func (*StatDo) Kind() Kind { return KindStatDo }

// NewStatDo 创建 do 块装饰
func NewStatDo(end token.Position) *StatDo {
	return &StatDo{EndPosition: end}
}

// StatRepeat until 的位置
type StatRepeat struct {
	base
	UntilPosition token.Position
}

func (*StatRepeat) Kind() Kind { return KindStatRepeat }

// NewStatRepeat 创建 repeat 装饰
func NewStatRepeat(until token.Position) *StatRepeat {
	return &StatRepeat{UntilPosition: until}
}

// StatReturn 返回值之间的逗号
type StatReturn struct {
	base
	CommaPositions []token.Position
}

func (*StatReturn) Kind() Kind { return KindStatReturn }

// NewStatReturn 创建 return 装饰
func NewStatReturn(commas []token.Position) *StatReturn {
	return &StatReturn{CommaPositions: commas}
}

// StatLocal local 声明的标点
//
// VarsAnnotationColonPositions 与变量一一对应，没有注解的变量为 nil。
type StatLocal struct {
	base
	VarsAnnotationColonPositions []*token.Position
	VarsCommaPositions           []token.Position
	ValuesCommaPositions         []token.Position
}

func (*StatLocal) Kind() Kind { return KindStatLocal }

// NewStatLocal 创建 local 装饰
func NewStatLocal(colons []*token.Position, varCommas, valueCommas []token.Position) *StatLocal {
	return &StatLocal{
		VarsAnnotationColonPositions: colons,
		VarsCommaPositions:           varCommas,
		ValuesCommaPositions:         valueCommas,
	}
}

// StatFor 数值 for 的标点
type StatFor struct {
	base
	AnnotationColonPosition *token.Position
	EqualsPosition          token.Position
	EndCommaPosition        token.Position
	StepCommaPosition       *token.Position
}

func (*StatFor) Kind() Kind { return KindStatFor }

// NewStatFor 创建数值 for 装饰
func NewStatFor(colon *token.Position, equals, endComma token.Position, stepComma *token.Position) *StatFor {
	return &StatFor{
		AnnotationColonPosition: colon,
		EqualsPosition:          equals,
		EndCommaPosition:        endComma,
		StepCommaPosition:       stepComma,
	}
}

// StatForIn 泛型 for 的标点，字段含义同 StatLocal
type StatForIn struct {
	base
	VarsAnnotationColonPositions []*token.Position
	VarsCommaPositions           []token.Position
	ValuesCommaPositions         []token.Position
}

func (*StatForIn) Kind() Kind { return KindStatForIn }

// NewStatForIn 创建泛型 for 装饰
func NewStatForIn(colons []*token.Position, varCommas, valueCommas []token.Position) *StatForIn {
	return &StatForIn{
		VarsAnnotationColonPositions: colons,
		VarsCommaPositions:           varCommas,
		ValuesCommaPositions:         valueCommas,
	}
}

// StatAssign 赋值的标点
type StatAssign struct {
	base
	VarsCommaPositions   []token.Position
	EqualsPosition       token.Position
	ValuesCommaPositions []token.Position
}

func (*StatAssign) Kind() Kind { return KindStatAssign }

// NewStatAssign 创建赋值装饰
func NewStatAssign(varCommas []token.Position, equals token.Position, valueCommas []token.Position) *StatAssign {
	return &StatAssign{VarsCommaPositions: varCommas, EqualsPosition: equals, ValuesCommaPositions: valueCommas}
}

// StatCompoundAssign 复合赋值运算符的位置
type StatCompoundAssign struct {
	base
	OpPosition token.Position
}

func (*StatCompoundAssign) Kind() Kind { return KindStatCompoundAssign }

// NewStatCompoundAssign 创建复合赋值装饰
func NewStatCompoundAssign(op token.Position) *StatCompoundAssign {
	return &StatCompoundAssign{OpPosition: op}
}

// StatLocalFunction local function 中 function 关键字的位置
type StatLocalFunction struct {
	base
	FunctionKeywordPosition token.Position
}

func (*StatLocalFunction) Kind() Kind { return KindStatLocalFunction }

// NewStatLocalFunction 创建局部函数装饰
func NewStatLocalFunction(function token.Position) *StatLocalFunction {
	return &StatLocalFunction{FunctionKeywordPosition: function}
}

// StatTypeAlias 类型别名的标点
type StatTypeAlias struct {
	base
	TypeKeywordPosition    token.Position
	GenericsOpenPosition   *token.Position
	GenericsCommaPositions []token.Position
	GenericsClosePosition  *token.Position
	EqualsPosition         token.Position
}

func (*StatTypeAlias) Kind() Kind { return KindStatTypeAlias }

// NewStatTypeAlias 创建类型别名装饰
func NewStatTypeAlias(s StatTypeAlias) *StatTypeAlias {
	errors.Assert((s.GenericsOpenPosition == nil) == (s.GenericsClosePosition == nil),
		"cst: type alias generic brackets must be recorded in pairs")
	return &s
}

// StatTypeFunction type function 的关键字位置
type StatTypeFunction struct {
	base
	TypeKeywordPosition     token.Position
	FunctionKeywordPosition token.Position
}

func (*StatTypeFunction) Kind() Kind { return KindStatTypeFunction }

// NewStatTypeFunction 创建类型函数装饰
func NewStatTypeFunction(typeKw, functionKw token.Position) *StatTypeFunction {
	return &StatTypeFunction{TypeKeywordPosition: typeKw, FunctionKeywordPosition: functionKw}
}
