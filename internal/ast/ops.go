package ast

import "fmt"

// UnaryOp 一元运算符
type UnaryOp int

const (
	UnaryNot   UnaryOp = iota // not
	UnaryMinus                // -
	UnaryLen                  // #
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNot:
		return "not"
	case UnaryMinus:
		return "-"
	case UnaryLen:
		return "#"
	}
	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

// BinaryOp 二元运算符
type BinaryOp int

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryFloorDiv
	BinaryMod
	BinaryPow
	BinaryConcat
	BinaryCompareNe
	BinaryCompareEq
	BinaryCompareLt
	BinaryCompareLe
	BinaryCompareGt
	BinaryCompareGe
	BinaryAnd
	BinaryOr
)

var binaryOpText = [...]string{
	BinaryAdd:       "+",
	BinarySub:       "-",
	BinaryMul:       "*",
	BinaryDiv:       "/",
	BinaryFloorDiv:  "//",
	BinaryMod:       "%",
	BinaryPow:       "^",
	BinaryConcat:    "..",
	BinaryCompareNe: "~=",
	BinaryCompareEq: "==",
	BinaryCompareLt: "<",
	BinaryCompareLe: "<=",
	BinaryCompareGt: ">",
	BinaryCompareGe: ">=",
	BinaryAnd:       "and",
	BinaryOr:        "or",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// IsKeyword and / or 以关键字形式书写
func (op BinaryOp) IsKeyword() bool {
	return op == BinaryAnd || op == BinaryOr
}
