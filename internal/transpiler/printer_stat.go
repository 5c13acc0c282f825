package transpiler

import (
	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
)

// ============================================================================
// 语句
// ============================================================================

// compoundText 复合赋值运算符的文本
var compoundText = map[ast.BinaryOp]string{
	ast.BinaryAdd:      "+=",
	ast.BinarySub:      "-=",
	ast.BinaryMul:      "*=",
	ast.BinaryDiv:      "/=",
	ast.BinaryFloorDiv: "//=",
	ast.BinaryMod:      "%=",
	ast.BinaryPow:      "^=",
	ast.BinaryConcat:   "..=",
}

// printStat 打印语句
func (p *Printer) printStat(stat ast.Stat) {
	p.advance(stat.Loc().Begin)

	switch s := stat.(type) {
	case *ast.StatBlock:
		c, exact := layout[cst.StatDo](p, s)
		p.w.Keyword("do")
		for _, sub := range s.Body {
			p.printStat(sub)
		}
		if exact {
			p.advance(c.EndPosition)
			p.w.Keyword("end")
		} else {
			p.writeEnd(s.Loc())
		}

	case *ast.StatIf:
		p.w.Keyword("if")
		p.printIfTail(s)

	case *ast.StatWhile:
		p.w.Keyword("while")
		p.printExpr(s.Condition)
		p.advance(s.DoLocation.Begin)
		p.w.Keyword("do")
		p.printBlock(s.Body)
		p.writeEnd(s.Loc())

	case *ast.StatRepeat:
		c, exact := layout[cst.StatRepeat](p, s)
		p.w.Keyword("repeat")
		p.printBlock(s.Body)
		if exact {
			p.advance(c.UntilPosition)
		} else if cond := s.Condition.Loc().Begin; cond.Column > 5 {
			p.advance(before(cond, 6))
		}
		p.w.Keyword("until")
		p.printExpr(s.Condition)

	case *ast.StatBreak:
		p.w.Keyword("break")

	case *ast.StatContinue:
		p.w.Keyword("continue")

	case *ast.StatReturn:
		c, exact := layout[cst.StatReturn](p, s)
		p.w.Keyword("return")
		comma := p.commas(c.CommaPositions, exact)
		for _, e := range s.List {
			comma.sep()
			p.printExpr(e)
		}

	case *ast.StatExpr:
		p.printExpr(s.Expr)

	case *ast.StatLocal:
		p.printLocalStat(s)

	case *ast.StatFor:
		p.printFor(s)

	case *ast.StatForIn:
		p.printForIn(s)

	case *ast.StatAssign:
		c, exact := layout[cst.StatAssign](p, s)
		varComma := p.commas(c.VarsCommaPositions, exact)
		for _, v := range s.Vars {
			varComma.sep()
			p.printExpr(v)
		}
		if exact {
			p.advance(c.EqualsPosition)
		} else if len(s.Values) > 0 {
			p.w.MaybeSpace(s.Values[0].Loc().Begin, 2)
		}
		p.w.Symbol("=")
		valueComma := p.commas(c.ValuesCommaPositions, exact)
		for _, v := range s.Values {
			valueComma.sep()
			p.printExpr(v)
		}

	case *ast.StatCompoundAssign:
		c, exact := layout[cst.StatCompoundAssign](p, s)
		p.printExpr(s.Var)
		text, ok := compoundText[s.Op]
		errors.Assert(ok, "transpiler: unexpected compound assignment operator %s", s.Op)
		if exact {
			p.advance(c.OpPosition)
		} else {
			p.w.MaybeSpace(s.Value.Loc().Begin, len(text)+1)
		}
		p.w.Symbol(text)
		p.printExpr(s.Value)

	case *ast.StatFunction:
		p.w.Keyword("function")
		p.printExpr(s.Name)
		p.printFunctionBody(s.Func)

	case *ast.StatLocalFunction:
		c, exact := layout[cst.StatLocalFunction](p, s)
		p.w.Keyword("local")
		if exact {
			p.advance(c.FunctionKeywordPosition)
		} else {
			p.w.Space()
		}
		p.w.Keyword("function")
		p.advance(s.Name.Location.Begin)
		p.w.Identifier(s.Name.Name)
		p.printFunctionBody(s.Func)

	case *ast.StatTypeAlias:
		if p.writeTypes {
			p.printTypeAlias(s)
		}

	case *ast.StatTypeFunction:
		if p.writeTypes {
			c, _ := layout[cst.StatTypeFunction](p, s)
			if s.Exported {
				p.w.Keyword("export")
			}
			p.advance(c.TypeKeywordPosition)
			p.w.Keyword("type")
			p.advance(c.FunctionKeywordPosition)
			p.w.Keyword("function")
			p.advance(s.NameLocation.Begin)
			p.w.Identifier(s.Name)
			p.printFunctionBody(s.Body)
		}

	case *ast.StatError:
		p.w.Symbol("(error-stat")
		for i, e := range s.Expressions {
			if i == 0 {
				p.w.Symbol(": ")
			} else {
				p.w.Symbol(", ")
			}
			p.printExpr(e)
		}
		for i, sub := range s.Statements {
			if i == 0 && len(s.Expressions) == 0 {
				p.w.Symbol(": ")
			} else {
				p.w.Symbol(", ")
			}
			p.printStat(sub)
		}
		p.w.Symbol(")")

	default:
		errors.Internalf("transpiler: unknown statement %T", stat)
	}

	if stat.Semicolon() {
		p.w.Symbol(";")
	}
}

// printIfTail 打印 if / elseif 关键字之后的部分
func (p *Printer) printIfTail(s *ast.StatIf) {
	p.printExpr(s.Condition)
	if s.ThenLocation != nil {
		p.advance(s.ThenLocation.Begin)
	}
	p.w.Keyword("then")
	p.printBlock(s.ThenBody)

	switch els := s.ElseBody.(type) {
	case nil:
		p.writeEnd(s.Loc())

	case *ast.StatIf:
		if s.ElseLocation != nil {
			p.advance(s.ElseLocation.Begin)
		}
		p.w.Keyword("elseif")
		p.printIfTail(els)

	case *ast.StatBlock:
		if s.ElseLocation != nil {
			p.advance(s.ElseLocation.Begin)
		}
		p.w.Keyword("else")
		p.printBlock(els)
		p.writeEnd(s.Loc())

	default:
		errors.Internalf("transpiler: unexpected else branch %T", s.ElseBody)
	}
}

// printLocalStat 打印 local 声明
func (p *Printer) printLocalStat(s *ast.StatLocal) {
	c, exact := layout[cst.StatLocal](p, s)
	p.w.Keyword("local")

	varComma := p.commas(c.VarsCommaPositions, exact)
	for i, v := range s.Vars {
		varComma.sep()
		p.printLocal(v, colonAt(c.VarsAnnotationColonPositions, i))
	}

	if s.EqualsSignLocation != nil {
		p.advance(s.EqualsSignLocation.Begin)
		p.w.Symbol("=")
	}

	valueComma := p.commas(c.ValuesCommaPositions, exact)
	for _, v := range s.Values {
		valueComma.sep()
		p.printExpr(v)
	}
}

// printFor 打印数值 for
func (p *Printer) printFor(s *ast.StatFor) {
	c, exact := layout[cst.StatFor](p, s)
	p.w.Keyword("for")

	p.printLocal(s.Var, c.AnnotationColonPosition)
	if exact {
		p.advance(c.EqualsPosition)
	} else {
		p.w.MaybeSpace(s.From.Loc().Begin, 2)
	}
	p.w.Symbol("=")
	p.printExpr(s.From)
	p.advance(c.EndCommaPosition)
	p.w.Symbol(",")
	p.printExpr(s.To)
	if s.Step != nil {
		if c.StepCommaPosition != nil {
			p.advance(*c.StepCommaPosition)
		}
		p.w.Symbol(",")
		p.printExpr(s.Step)
	}

	p.advance(s.DoLocation.Begin)
	p.w.Keyword("do")
	p.printBlock(s.Body)
	p.writeEnd(s.Loc())
}

// printForIn 打印泛型 for
func (p *Printer) printForIn(s *ast.StatForIn) {
	c, exact := layout[cst.StatForIn](p, s)
	p.w.Keyword("for")

	varComma := p.commas(c.VarsCommaPositions, exact)
	for i, v := range s.Vars {
		varComma.sep()
		p.printLocal(v, colonAt(c.VarsAnnotationColonPositions, i))
	}

	p.advance(s.InLocation.Begin)
	p.w.Keyword("in")

	valueComma := p.commas(c.ValuesCommaPositions, exact)
	for _, v := range s.Values {
		valueComma.sep()
		p.printExpr(v)
	}

	p.advance(s.DoLocation.Begin)
	p.w.Keyword("do")
	p.printBlock(s.Body)
	p.writeEnd(s.Loc())
}

// printTypeAlias 打印 [export] type Name<T> = Type
func (p *Printer) printTypeAlias(s *ast.StatTypeAlias) {
	c, exact := layout[cst.StatTypeAlias](p, s)

	if s.Exported {
		p.w.Keyword("export")
	}
	p.advance(c.TypeKeywordPosition)
	p.w.Keyword("type")
	p.advance(s.NameLocation.Begin)
	p.w.Identifier(s.Name)

	if len(s.Generics) > 0 || len(s.GenericPacks) > 0 {
		if c.GenericsOpenPosition != nil {
			p.advance(*c.GenericsOpenPosition)
		}
		p.w.Symbol("<")
		p.printGenerics(s.Generics, s.GenericPacks, c.GenericsCommaPositions, exact)
		if c.GenericsClosePosition != nil {
			p.advance(*c.GenericsClosePosition)
		}
		p.w.Symbol(">")
	}

	if exact {
		p.advance(c.EqualsPosition)
	} else {
		p.w.MaybeSpace(s.Type.Loc().Begin, 2)
	}
	p.w.Symbol("=")
	p.printType(s.Type)
}
