package transpiler

import (
	"math"
	"strconv"

	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// Printer AST 打印器
// ============================================================================
//
// 每个节点都可能在 CST 映射中带有一份装饰。有装饰时按装饰中记录的位置与
// 书写方式逐字节还原（精确模式）；没有装饰时用默认规则重建（规范模式）。
// 两种模式共用同一套代码：layout 在没有装饰时返回零值装饰，其中的位置都是
// (0, 0)，Advance 到这些位置不产生输出。只有两种模式确实不同的地方才判断
// exact。
//
// ============================================================================

// Printer AST 打印器
type Printer struct {
	w          *Writer
	nodes      *cst.Map
	writeTypes bool
}

// NewPrinter 创建打印器
//
// 参数:
//   - w: 输出目标
//   - nodes: CST 映射，nil 等同于 cst.Disabled()
//   - writeTypes: 是否输出类型注解与类型声明
func NewPrinter(w *Writer, nodes *cst.Map, writeTypes bool) *Printer {
	if nodes == nil {
		nodes = cst.Disabled()
	}
	return &Printer{w: w, nodes: nodes, writeTypes: writeTypes}
}

// layout 返回节点的 CST 装饰
//
// 没有装饰时返回零值装饰与 false。装饰种类与期望不符是内部错误。
func layout[T any, P interface {
	*T
	cst.Node
}](p *Printer, n ast.Node) (P, bool) {
	if c, ok := cst.Find[P](p.nodes, n.ID()); ok {
		return c, true
	}
	return P(new(T)), false
}

func (p *Printer) advance(pos token.Position) {
	p.w.Advance(pos)
}

// before 返回 pos 左侧 n 列的位置
func before(pos token.Position, n int) token.Position {
	if pos.Column >= n {
		pos.Column -= n
	}
	return pos
}

// writeEnd 在 loc 末尾前 3 列写出 end
func (p *Printer) writeEnd(loc token.Location) {
	p.advance(before(loc.End, 3))
	p.w.Keyword("end")
}

// ============================================================================
// 逗号分隔
// ============================================================================

// commaList 在列表元素之间写出逗号
//
// 精确模式下每个逗号推进到记录的位置，记录的位置不够用是内部错误。
type commaList struct {
	p         *Printer
	positions []token.Position
	exact     bool
	first     bool
	next      int
}

func (p *Printer) commas(positions []token.Position, exact bool) *commaList {
	return &commaList{p: p, positions: positions, exact: exact, first: true}
}

// sep 在除第一个元素以外的每个元素之前调用
func (c *commaList) sep() {
	if c.first {
		c.first = false
		return
	}
	if c.exact {
		errors.Assert(c.next < len(c.positions), "transpiler: ran out of comma positions (%d recorded)", len(c.positions))
		c.p.advance(c.positions[c.next])
		c.next++
	}
	c.p.w.Symbol(",")
}

// ============================================================================
// 块
// ============================================================================

// printBlock 逐条打印语句，最后推进到块的末尾
func (p *Printer) printBlock(block *ast.StatBlock) {
	for _, s := range block.Body {
		p.printStat(s)
	}
	p.advance(block.Loc().End)
}

// ============================================================================
// 局部变量
// ============================================================================

// printLocal 打印局部变量声明，colon 为注解冒号的位置
func (p *Printer) printLocal(local *ast.Local, colon *token.Position) {
	p.advance(local.Location.Begin)
	p.w.Identifier(local.Name)

	if p.writeTypes && local.Annotation != nil {
		if colon != nil {
			p.advance(*colon)
		}
		p.w.Symbol(":")
		p.printType(local.Annotation)
	}
}

// colonAt 取 positions[i]，越界时返回 nil
func colonAt(positions []*token.Position, i int) *token.Position {
	if i < len(positions) {
		return positions[i]
	}
	return nil
}

// ============================================================================
// 表达式
// ============================================================================

// printExpr 打印表达式
func (p *Printer) printExpr(expr ast.Expr) {
	p.advance(expr.Loc().Begin)

	switch e := expr.(type) {
	case *ast.ExprGroup:
		p.w.Symbol("(")
		p.printExpr(e.Expr)
		p.advance(before(e.Loc().End, 1))
		p.w.Symbol(")")

	case *ast.ExprConstantNil:
		p.w.Keyword("nil")

	case *ast.ExprConstantBool:
		if e.Value {
			p.w.Keyword("true")
		} else {
			p.w.Keyword("false")
		}

	case *ast.ExprConstantNumber:
		if c, exact := layout[cst.ExprConstantNumber](p, e); exact {
			p.w.Literal(c.Value)
		} else {
			p.w.Literal(formatNumber(e.Value))
		}

	case *ast.ExprConstantString:
		if c, exact := layout[cst.ExprConstantString](p, e); exact {
			p.w.SourceString(c.SourceString, c.QuoteStyle, c.BlockDepth)
		} else {
			p.w.QuotedString(e.Value)
		}

	case *ast.ExprLocal:
		p.w.Identifier(e.Local.Name)

	case *ast.ExprGlobal:
		p.w.Identifier(e.Name)

	case *ast.ExprVarargs:
		p.w.Symbol("...")

	case *ast.ExprCall:
		p.printCall(e)

	case *ast.ExprIndexName:
		p.printExpr(e.Expr)
		p.advance(e.OpPosition)
		p.w.Symbol(string(e.Op))
		p.advance(e.IndexLocation.Begin)
		p.w.Identifier(e.Index)

	case *ast.ExprIndexExpr:
		c, _ := layout[cst.ExprIndexExpr](p, e)
		p.printExpr(e.Expr)
		p.advance(c.OpenBracketPosition)
		p.w.Symbol("[")
		p.printExpr(e.Index)
		p.advance(c.CloseBracketPosition)
		p.w.Symbol("]")

	case *ast.ExprFunction:
		p.w.Keyword("function")
		p.printFunctionBody(e)

	case *ast.ExprTable:
		p.printTable(e)

	case *ast.ExprUnary:
		c, _ := layout[cst.ExprOp](p, e)
		p.advance(c.OpPosition)
		switch e.Op {
		case ast.UnaryNot:
			p.w.Keyword("not")
		case ast.UnaryMinus:
			p.w.Symbol("-")
		case ast.UnaryLen:
			p.w.Symbol("#")
		default:
			errors.Internalf("transpiler: unknown unary operator %s", e.Op)
		}
		p.printExpr(e.Expr)

	case *ast.ExprBinary:
		p.printBinary(e)

	case *ast.ExprTypeAssertion:
		p.printExpr(e.Expr)
		if p.writeTypes {
			c, exact := layout[cst.ExprTypeAssertion](p, e)
			if exact {
				p.advance(c.OpPosition)
			} else {
				p.w.MaybeSpace(e.Annotation.Loc().Begin, 2)
			}
			p.w.Symbol("::")
			p.printType(e.Annotation)
		}

	case *ast.ExprIfElse:
		p.w.Keyword("if")
		p.printIfElseTail(e)

	case *ast.ExprInterpString:
		p.printInterpString(e)

	case *ast.ExprError:
		p.w.Symbol("(error-expr")
		for i, sub := range e.Expressions {
			if i == 0 {
				p.w.Symbol(": ")
			} else {
				p.w.Symbol(", ")
			}
			p.printExpr(sub)
		}
		p.w.Symbol(")")

	default:
		errors.Internalf("transpiler: unknown expression %T", expr)
	}
}

// printCall 打印函数调用
//
// 精确模式下只有记录了括号才写出括号，f"s" 与 f{} 的语法糖因此得以保留。
func (p *Printer) printCall(e *ast.ExprCall) {
	p.printExpr(e.Func)

	c, exact := layout[cst.ExprCall](p, e)
	if !exact {
		p.w.Symbol("(")
	} else if c.OpenParens != nil {
		p.advance(*c.OpenParens)
		p.w.Symbol("(")
	}

	comma := p.commas(c.CommaPositions, exact)
	for _, arg := range e.Args {
		comma.sep()
		p.printExpr(arg)
	}

	if !exact {
		p.w.Symbol(")")
	} else if c.CloseParens != nil {
		p.advance(*c.CloseParens)
		p.w.Symbol(")")
	}
}

// printTable 打印表构造器
func (p *Printer) printTable(e *ast.ExprTable) {
	c, exact := layout[cst.ExprTable](p, e)
	if exact {
		errors.Assert(len(c.Items) == len(e.Items),
			"transpiler: table has %d items but %d recorded", len(e.Items), len(c.Items))
	}

	p.w.Symbol("{")

	for i, item := range e.Items {
		var ci cst.TableItem
		if exact {
			ci = c.Items[i]
			errors.Assert(ci.Kind == item.Kind, "transpiler: table item %d recorded as a different kind", i)
		} else if i > 0 {
			p.w.Symbol(",")
		}

		switch item.Kind {
		case ast.TableItemList:

		case ast.TableItemRecord:
			key, ok := item.Key.(*ast.ExprConstantString)
			errors.Assert(ok, "transpiler: record key is %T, expected a constant string", item.Key)
			p.advance(key.Loc().Begin)
			p.w.Identifier(key.Value)
			if exact {
				p.advance(*ci.EqualsPosition)
			} else {
				p.w.MaybeSpace(item.Value.Loc().Begin, 1)
			}
			p.w.Symbol("=")

		case ast.TableItemGeneral:
			if exact {
				p.advance(*ci.IndexerOpenPosition)
			}
			p.w.Symbol("[")
			p.printExpr(item.Key)
			if exact {
				p.advance(*ci.IndexerClosePosition)
			}
			p.w.Symbol("]")
			if exact {
				p.advance(*ci.EqualsPosition)
			} else {
				p.w.MaybeSpace(item.Value.Loc().Begin, 1)
			}
			p.w.Symbol("=")

		default:
			errors.Internalf("transpiler: unknown table item kind %d", item.Kind)
		}

		p.printExpr(item.Value)

		if exact && ci.SeparatorPosition != nil {
			p.advance(*ci.SeparatorPosition)
			p.w.Symbol(ci.Separator.Text())
		}
	}

	p.advance(before(e.Loc().End, 1))
	p.w.Symbol("}")
	p.advance(e.Loc().End)
}

// binaryReserve 规范模式下二元运算符前 MaybeSpace 的预留宽度
func binaryReserve(op ast.BinaryOp) int {
	switch op {
	case ast.BinaryConcat, ast.BinaryCompareNe, ast.BinaryCompareEq,
		ast.BinaryCompareLe, ast.BinaryCompareGe, ast.BinaryOr:
		return 3
	case ast.BinaryAnd:
		return 4
	}
	return 2
}

// printBinary 打印二元运算
func (p *Printer) printBinary(e *ast.ExprBinary) {
	p.printExpr(e.Left)

	c, exact := layout[cst.ExprOp](p, e)
	reserve := binaryReserve(e.Op)
	switch {
	case exact:
		p.advance(c.OpPosition)
		if e.Op.IsKeyword() {
			p.w.Keyword(e.Op.String())
		} else {
			p.w.Symbol(e.Op.String())
		}
	case reserve == 2:
		p.w.MaybeSpace(e.Right.Loc().Begin, reserve)
		p.w.Symbol(e.Op.String())
	default:
		p.w.MaybeSpace(e.Right.Loc().Begin, reserve)
		p.w.Keyword(e.Op.String())
	}

	p.printExpr(e.Right)
}

// printIfElseTail 打印 if 表达式 if 关键字之后的部分
func (p *Printer) printIfElseTail(e *ast.ExprIfElse) {
	c, exact := layout[cst.ExprIfElse](p, e)

	p.printExpr(e.Condition)
	p.advance(c.ThenPosition)
	p.w.Keyword("then")
	p.printExpr(e.TrueExpr)
	p.advance(c.ElsePosition)

	if nested, ok := e.FalseExpr.(*ast.ExprIfElse); ok && exact && c.IsElseIf {
		p.w.Keyword("elseif")
		p.printIfElseTail(nested)
		return
	}

	p.w.Keyword("else")
	p.printExpr(e.FalseExpr)
}

// printInterpString 打印插值字符串
func (p *Printer) printInterpString(e *ast.ExprInterpString) {
	errors.Assert(len(e.Strings) == len(e.Expressions)+1,
		"transpiler: interpolated string has %d segments for %d expressions", len(e.Strings), len(e.Expressions))

	c, exact := layout[cst.ExprInterpString](p, e)
	if !exact {
		p.w.Symbol("`")
		for i, s := range e.Strings {
			p.w.write(escape(s, '`', true))
			if i < len(e.Expressions) {
				p.w.Symbol("{")
				p.printExpr(e.Expressions[i])
				p.w.Symbol("}")
			}
		}
		p.w.Symbol("`")
		return
	}

	errors.Assert(len(c.SourceStrings) == len(e.Strings),
		"transpiler: interpolated string has %d segments but %d recorded", len(e.Strings), len(c.SourceStrings))

	for i, raw := range c.SourceStrings {
		p.advance(c.StringPositions[i])
		if i == 0 {
			p.w.Symbol("`")
		} else {
			p.w.Symbol("}")
		}
		p.w.writeMultiline(raw)
		if i < len(e.Expressions) {
			p.w.Symbol("{")
			p.printExpr(e.Expressions[i])
		}
	}
	p.w.Symbol("`")
}

// formatNumber 数字的规范文本
func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "1e500"
	case math.IsInf(v, -1):
		return "-1e500"
	case math.IsNaN(v):
		return "0/0"
	case isIntegerish(v):
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// isIntegerish v 是否为 int32 范围内的整数（-0 除外）
func isIntegerish(v float64) bool {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return false
	}
	return math.Trunc(v) == v && !(v == 0 && math.Signbit(v))
}

// ============================================================================
// 函数体
// ============================================================================

// printFunctionBody 打印 function 关键字之后的部分
func (p *Printer) printFunctionBody(fn *ast.ExprFunction) {
	c, exact := layout[cst.ExprFunction](p, fn)

	if len(fn.Generics) > 0 || len(fn.GenericPacks) > 0 {
		if c.OpenGenericsPosition != nil {
			p.advance(*c.OpenGenericsPosition)
		}
		p.w.Symbol("<")
		p.printGenerics(fn.Generics, fn.GenericPacks, c.GenericsCommaPositions, exact)
		if c.CloseGenericsPosition != nil {
			p.advance(*c.CloseGenericsPosition)
		}
		p.w.Symbol(">")
	}

	if fn.ArgLocation != nil {
		p.advance(fn.ArgLocation.Begin)
	}
	p.w.Symbol("(")

	comma := p.commas(c.ArgsCommaPositions, exact)
	for i, arg := range fn.Args {
		comma.sep()
		p.printLocal(arg, colonAt(c.ArgsAnnotationColonPositions, i))
	}

	if fn.Vararg {
		comma.sep()
		p.advance(fn.VarargLocation.Begin)
		p.w.Symbol("...")

		if p.writeTypes && fn.VarargAnnotation != nil {
			if c.VarargAnnotationColonPosition != nil {
				p.advance(*c.VarargAnnotationColonPosition)
			}
			p.w.Symbol(":")
			p.printTypePack(fn.VarargAnnotation, true)
		}
	}

	if fn.ArgLocation != nil {
		p.advance(before(fn.ArgLocation.End, 1))
	}
	p.w.Symbol(")")

	if p.writeTypes && fn.ReturnAnnotation != nil {
		if exact && c.ReturnSpecifierPosition != nil {
			p.advance(*c.ReturnSpecifierPosition)
			p.w.Symbol(":")
		} else {
			p.w.Symbol(":")
			p.w.Space()
		}
		p.printExplicitPack(fn.ReturnAnnotation, false)
	}

	p.printBlock(fn.Body)
	p.writeEnd(fn.Loc())
}
