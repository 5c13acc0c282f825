// Package transpiler 把 AST 打印回 Luau 源码
//
// 有 CST 装饰时输出与原始输入逐字节一致（注释除外）；没有装饰时按规范形式输出。
package transpiler

import (
	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/parser"
)

// Transpile 解析源码并打印回源码
//
// 总是开启 StoreCstData。解析出错时返回空字符串与第一个语法错误。
//
// 参数:
//   - source: Luau 源码
//   - opts: 解析选项
//   - withTypes: 是否保留类型注解与类型声明
func Transpile(source string, opts parser.Options, withTypes bool) (string, error) {
	opts.StoreCstData = true
	result := parser.Parse(source, opts)

	if len(result.Errors) > 0 {
		return "", result.Errors[0]
	}
	errors.Assert(result.Root != nil, "transpiler: parser yielded an empty tree")

	if withTypes {
		return TranspileBlockWithTypes(result.Root, result.Nodes), nil
	}
	return TranspileBlock(result.Root, result.Nodes), nil
}

// TranspileBlock 打印语句块，不输出类型
//
// nodes 为 nil 时按规范形式输出。
func TranspileBlock(root *ast.StatBlock, nodes *cst.Map) string {
	return printRoot(root, nodes, false)
}

// TranspileBlockWithTypes 打印语句块并输出类型
func TranspileBlockWithTypes(root *ast.StatBlock, nodes *cst.Map) string {
	return printRoot(root, nodes, true)
}

func printRoot(root *ast.StatBlock, nodes *cst.Map, withTypes bool) string {
	w := NewWriter()
	NewPrinter(w, nodes, withTypes).printBlock(root)
	return w.String()
}

// ToString 以规范形式打印单个节点，包括类型
//
// 输出从节点自身的起始位置开始计算，因此节点内部的换行与缩进得以保留。
func ToString(node ast.Node) string {
	w := newWriterAt(node.Loc().Begin)
	p := NewPrinter(w, nil, true)

	switch n := node.(type) {
	case ast.Stat:
		p.printStat(n)
	case ast.Expr:
		p.printExpr(n)
	case ast.Type:
		p.printType(n)
	case ast.TypePack:
		p.printTypePack(n, false)
	default:
		errors.Internalf("transpiler: cannot print %T", node)
	}

	return w.String()
}
