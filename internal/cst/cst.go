// Package cst 定义具体语法树装饰
//
// CST 节点挂在 AST 节点旁边，只保存 AST 为了语义规范化而丢弃的排版事实：
// 可省略括号的位置、逗号位置、引号风格、关键字位置、分隔符种类等。
// 每个 AST 节点至多对应一个 CST 节点，对应关系由 Map 以 ast.NodeID 为键维护。
package cst

import (
	"fmt"

	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/errors"
)

// ============================================================================
// 节点种类
// ============================================================================

// Kind CST 节点种类标签，编译期枚举
type Kind int

const (
	kindInvalid Kind = iota

	KindExprConstantNumber
	KindExprConstantString
	KindExprCall
	KindExprIndexExpr
	KindExprFunction
	KindExprTable
	KindExprOp
	KindExprTypeAssertion
	KindExprIfElse
	KindExprInterpString

	KindStatDo
	KindStatRepeat
	KindStatReturn
	KindStatLocal
	KindStatFor
	KindStatForIn
	KindStatAssign
	KindStatCompoundAssign
	KindStatLocalFunction
	KindStatTypeAlias
	KindStatTypeFunction

	KindGenericType
	KindGenericTypePack

	KindTypeReference
	KindTypeTable
	KindTypeFunction
	KindTypeTypeof
	KindTypeUnion
	KindTypeIntersection
	KindTypeSingletonString
	KindTypePackExplicit
	KindTypePackGeneric

	kindCount
)

var kindNames = [kindCount]string{
	kindInvalid:             "Invalid",
	KindExprConstantNumber:  "ExprConstantNumber",
	KindExprConstantString:  "ExprConstantString",
	KindExprCall:            "ExprCall",
	KindExprIndexExpr:       "ExprIndexExpr",
	KindExprFunction:        "ExprFunction",
	KindExprTable:           "ExprTable",
	KindExprOp:              "ExprOp",
	KindExprTypeAssertion:   "ExprTypeAssertion",
	KindExprIfElse:          "ExprIfElse",
	KindExprInterpString:    "ExprInterpString",
	KindStatDo:              "StatDo",
	KindStatRepeat:          "StatRepeat",
	KindStatReturn:          "StatReturn",
	KindStatLocal:           "StatLocal",
	KindStatFor:             "StatFor",
	KindStatForIn:           "StatForIn",
	KindStatAssign:          "StatAssign",
	KindStatCompoundAssign:  "StatCompoundAssign",
	KindStatLocalFunction:   "StatLocalFunction",
	KindStatTypeAlias:       "StatTypeAlias",
	KindStatTypeFunction:    "StatTypeFunction",
	KindGenericType:         "GenericType",
	KindGenericTypePack:     "GenericTypePack",
	KindTypeReference:       "TypeReference",
	KindTypeTable:           "TypeTable",
	KindTypeFunction:        "TypeFunction",
	KindTypeTypeof:          "TypeTypeof",
	KindTypeUnion:           "TypeUnion",
	KindTypeIntersection:    "TypeIntersection",
	KindTypeSingletonString: "TypeSingletonString",
	KindTypePackExplicit:    "TypePackExplicit",
	KindTypePackGeneric:     "TypePackGeneric",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ============================================================================
// 节点接口与向下转换
// ============================================================================

// Node CST 节点接口
//
// 实现只有本包中的变体。所有变体的 Kind 方法使用指针接收者且不解引用，
// 因此对 nil 指针调用也能得到正确的标签。
type Node interface {
	Kind() Kind
	cstNode()
}

type base struct{}

func (base) cstNode() {}

// As 检查种类标签后把 n 转换为具体变体
//
// T 必须是变体的指针类型（例如 *cst.ExprCall）。标签不匹配或 n 为 nil 时
// 返回 (零值, false)。这是唯一的向下转换入口。
func As[T Node](n Node) (T, bool) {
	var zero T
	if n == nil || n.Kind() != zero.Kind() {
		return zero, false
	}
	t, ok := n.(T)
	return t, ok
}

// Find 在映射中查找 id 对应的 T 变体
//
// 未记录时返回 (零值, false)；记录了但种类不符说明 AST/CST 生产者有缺陷，
// 以内部错误 panic。
func Find[T Node](m *Map, id ast.NodeID) (T, bool) {
	n := m.Lookup(id)
	if n == nil {
		var zero T
		return zero, false
	}
	t, ok := As[T](n)
	if !ok {
		var zero T
		errors.Internalf("cst: node %d is decorated with %s, expected %s", id, n.Kind(), zero.Kind())
	}
	return t, true
}
