package transpiler

import (
	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// 泛型参数
// ============================================================================

// printGenerics 打印 < 与 > 之间的泛型参数列表
func (p *Printer) printGenerics(generics []*ast.GenericType, packs []*ast.GenericTypePack, commas []token.Position, exact bool) {
	comma := p.commas(commas, exact)

	for _, g := range generics {
		comma.sep()
		c, recorded := layout[cst.GenericType](p, g)
		p.advance(g.Loc().Begin)
		p.w.Identifier(g.Name)

		if g.DefaultValue != nil {
			if recorded && c.DefaultEqualsPosition != nil {
				p.advance(*c.DefaultEqualsPosition)
			} else {
				p.w.MaybeSpace(g.DefaultValue.Loc().Begin, 2)
			}
			p.w.Symbol("=")
			p.printType(g.DefaultValue)
		}
	}

	for _, g := range packs {
		comma.sep()
		c, recorded := layout[cst.GenericTypePack](p, g)
		p.advance(g.Loc().Begin)
		p.w.Identifier(g.Name)
		p.advance(c.EllipsisPosition)
		p.w.Symbol("...")

		if g.DefaultValue != nil {
			if recorded && c.DefaultEqualsPosition != nil {
				p.advance(*c.DefaultEqualsPosition)
			} else {
				p.w.MaybeSpace(g.DefaultValue.Loc().Begin, 2)
			}
			p.w.Symbol("=")
			p.printTypePack(g.DefaultValue, false)
		}
	}
}

// ============================================================================
// 类型包
// ============================================================================

// printTypePack 打印类型包
//
// forVararg 为 true 时是 ...: T 形式的可变参数注解，不写出前导 ...。
func (p *Printer) printTypePack(pack ast.TypePack, forVararg bool) {
	p.advance(pack.Loc().Begin)

	switch t := pack.(type) {
	case *ast.TypePackVariadic:
		if !forVararg {
			p.w.Symbol("...")
		}
		p.printType(t.VariadicType)

	case *ast.TypePackGeneric:
		c, _ := layout[cst.TypePackGeneric](p, t)
		p.w.Identifier(t.GenericName)
		p.advance(c.EllipsisPosition)
		p.w.Symbol("...")

	case *ast.TypePackExplicit:
		errors.Assert(!forVararg, "transpiler: explicit type pack as a vararg annotation")
		p.printExplicitPack(t, true)

	default:
		errors.Internalf("transpiler: unknown type pack %T", pack)
	}
}

// printExplicitPack 打印显式类型列表
//
// 规范模式下 force 为 true 或元素个数不为 1 时加括号。
func (p *Printer) printExplicitPack(t *ast.TypePackExplicit, force bool) {
	p.advance(t.Loc().Begin)

	list := t.TypeList
	c, exact := layout[cst.TypePackExplicit](p, t)

	parens := c.HasParentheses
	if !exact {
		count := len(list.Types)
		if list.Tail != nil {
			count++
		}
		parens = force || count != 1
	}

	if parens {
		p.advance(c.OpenParenthesesPosition)
		p.w.Symbol("(")
	}

	comma := p.commas(c.CommaPositions, exact)
	for _, el := range list.Types {
		comma.sep()
		p.printType(el)
	}
	if list.Tail != nil {
		comma.sep()
		p.printTypePack(list.Tail, false)
	}

	if parens {
		p.advance(c.CloseParenthesesPosition)
		p.w.Symbol(")")
	}
}

// ============================================================================
// 类型
// ============================================================================

// printType 打印类型注解
func (p *Printer) printType(typ ast.Type) {
	p.advance(typ.Loc().Begin)

	switch t := typ.(type) {
	case *ast.TypeReference:
		p.printTypeReference(t)

	case *ast.TypeFunction:
		p.printFunctionType(t)

	case *ast.TypeTable:
		p.printTableType(t)

	case *ast.TypeTypeof:
		c, _ := layout[cst.TypeTypeof](p, t)
		p.w.Keyword("typeof")
		p.advance(c.OpenPosition)
		p.w.Symbol("(")
		p.printExpr(t.Expr)
		p.advance(c.ClosePosition)
		p.w.Symbol(")")

	case *ast.TypeUnion:
		c, exact := layout[cst.TypeUnion](p, t)
		p.printTypeSet(t.Types, "|", c.LeadingPosition, c.SeparatorPositions, exact)

	case *ast.TypeIntersection:
		c, exact := layout[cst.TypeIntersection](p, t)
		p.printTypeSet(t.Types, "&", c.LeadingPosition, c.SeparatorPositions, exact)

	case *ast.TypeOptional:
		p.w.Symbol("?")

	case *ast.TypeGroup:
		p.w.Symbol("(")
		p.printType(t.Type)
		p.advance(before(t.Loc().End, 1))
		p.w.Symbol(")")

	case *ast.TypeSingletonBool:
		if t.Value {
			p.w.Keyword("true")
		} else {
			p.w.Keyword("false")
		}

	case *ast.TypeSingletonString:
		if c, exact := layout[cst.TypeSingletonString](p, t); exact {
			p.w.SourceString(c.SourceString, c.QuoteStyle, c.BlockDepth)
		} else {
			p.w.QuotedString(t.Value)
		}

	case *ast.TypeError:
		p.w.Symbol("%error-type%")

	default:
		errors.Internalf("transpiler: unknown type %T", typ)
	}
}

// printTypeReference [prefix.]Name[<params>]
func (p *Printer) printTypeReference(t *ast.TypeReference) {
	c, exact := layout[cst.TypeReference](p, t)

	if t.HasPrefix {
		p.w.Identifier(t.Prefix)
		if c.PrefixPointPosition != nil {
			p.advance(*c.PrefixPointPosition)
		}
		p.w.Symbol(".")
		p.advance(t.NameLocation.Begin)
	}
	p.w.Identifier(t.Name)

	if !t.HasParameterList && len(t.Parameters) == 0 {
		return
	}

	if c.OpenParametersPosition != nil {
		p.advance(*c.OpenParametersPosition)
	}
	p.w.Symbol("<")

	comma := p.commas(c.ParametersCommaPositions, exact)
	for _, param := range t.Parameters {
		comma.sep()
		if param.Type != nil {
			p.printType(param.Type)
		} else {
			p.printTypePack(param.TypePack, false)
		}
	}

	if c.CloseParametersPosition != nil {
		p.advance(*c.CloseParametersPosition)
	}
	p.w.Symbol(">")
}

// printFunctionType <T>(a: A, ...B) -> R
func (p *Printer) printFunctionType(t *ast.TypeFunction) {
	c, exact := layout[cst.TypeFunction](p, t)

	if len(t.Generics) > 0 || len(t.GenericPacks) > 0 {
		if c.OpenGenericsPosition != nil {
			p.advance(*c.OpenGenericsPosition)
		}
		p.w.Symbol("<")
		p.printGenerics(t.Generics, t.GenericPacks, c.GenericsCommaPositions, exact)
		if c.CloseGenericsPosition != nil {
			p.advance(*c.CloseGenericsPosition)
		}
		p.w.Symbol(">")
	}

	p.advance(c.OpenArgsPosition)
	p.w.Symbol("(")

	comma := p.commas(c.ArgumentsCommaPositions, exact)
	for i, arg := range t.ArgTypes.Types {
		comma.sep()
		if i < len(t.ArgNames) && t.ArgNames[i] != nil {
			name := t.ArgNames[i]
			p.advance(name.Location.Begin)
			p.w.Identifier(name.Name)
			if colon := colonAt(c.ArgumentNameColonPositions, i); colon != nil {
				p.advance(*colon)
			}
			p.w.Symbol(":")
		}
		p.printType(arg)
	}
	if t.ArgTypes.Tail != nil {
		comma.sep()
		p.printTypePack(t.ArgTypes.Tail, false)
	}

	p.advance(c.CloseArgsPosition)
	p.w.Symbol(")")
	p.advance(c.ReturnArrowPosition)
	p.w.Symbol("->")

	if explicit, ok := t.ReturnTypes.(*ast.TypePackExplicit); ok {
		p.printExplicitPack(explicit, true)
	} else {
		p.printTypePack(t.ReturnTypes, false)
	}
}

// printTableType 打印表类型
func (p *Printer) printTableType(t *ast.TypeTable) {
	c, exact := layout[cst.TypeTable](p, t)

	if (exact && c.IsArray) || (!exact && len(t.Props) == 0 && t.Indexer != nil && isNumberReference(t.Indexer.IndexType)) {
		errors.Assert(t.Indexer != nil, "transpiler: array table type without an indexer")
		p.w.Symbol("{")
		p.printType(t.Indexer.ResultType)
		p.advance(before(t.Loc().End, 1))
		p.w.Symbol("}")
		return
	}

	p.w.Symbol("{")
	if exact {
		p.printTableItems(t, c.Items)
	} else {
		comma := p.commas(nil, false)
		for _, prop := range t.Props {
			comma.sep()
			p.advance(prop.Location.Begin)
			if isIdentifier(prop.Name) {
				p.w.Identifier(prop.Name)
			} else {
				p.w.Symbol("[")
				p.w.QuotedString(prop.Name)
				p.w.Symbol("]")
			}
			p.w.Symbol(":")
			p.printType(prop.Type)
		}
		if t.Indexer != nil {
			comma.sep()
			p.w.Symbol("[")
			p.printType(t.Indexer.IndexType)
			p.w.Symbol("]")
			p.w.Symbol(":")
			p.printType(t.Indexer.ResultType)
		}
	}
	p.advance(before(t.Loc().End, 1))
	p.w.Symbol("}")
}

// printTableItems 按源码顺序打印表类型的元素
//
// 属性按出现顺序与 t.Props 一一对应，索引器最多一个。
func (p *Printer) printTableItems(t *ast.TypeTable, items []cst.TypeTableItem) {
	next := 0
	indexer := false

	for i, item := range items {
		switch item.Kind {
		case cst.TypeTableIndexer:
			errors.Assert(t.Indexer != nil && !indexer, "transpiler: table type item %d is an unexpected indexer", i)
			indexer = true
			p.advance(*item.IndexerOpenPosition)
			p.w.Symbol("[")
			p.printType(t.Indexer.IndexType)
			p.advance(*item.IndexerClosePosition)
			p.w.Symbol("]")
			p.advance(item.ColonPosition)
			p.w.Symbol(":")
			p.printType(t.Indexer.ResultType)

		case cst.TypeTableProperty, cst.TypeTableStringProperty:
			errors.Assert(next < len(t.Props), "transpiler: table type has %d properties, more recorded", len(t.Props))
			prop := t.Props[next]
			next++

			if item.Kind == cst.TypeTableStringProperty {
				p.advance(*item.IndexerOpenPosition)
				p.w.Symbol("[")
				p.advance(prop.Location.Begin)
				p.w.SourceString(item.StringInfo.SourceString, item.StringInfo.QuoteStyle, item.StringInfo.BlockDepth)
				p.advance(*item.IndexerClosePosition)
				p.w.Symbol("]")
			} else {
				p.advance(prop.Location.Begin)
				p.w.Identifier(prop.Name)
			}
			p.advance(item.ColonPosition)
			p.w.Symbol(":")
			p.printType(prop.Type)

		default:
			errors.Internalf("transpiler: unknown table type item kind %d", item.Kind)
		}

		if item.SeparatorPosition != nil {
			p.advance(*item.SeparatorPosition)
			p.w.Symbol(item.Separator.Text())
		}
	}

	errors.Assert(next == len(t.Props), "transpiler: table type has %d properties but %d recorded", len(t.Props), next)
	errors.Assert(indexer == (t.Indexer != nil), "transpiler: table type indexer not recorded")
}

// printTypeSet 打印联合或交叉类型
//
// 规范模式下给函数类型以及另一种组合类型的成员加括号。
func (p *Printer) printTypeSet(types []ast.Type, sym string, leading *token.Position, separators []token.Position, exact bool) {
	if leading != nil {
		p.advance(*leading)
		p.w.Symbol(sym)
	}

	next := 0
	for i, member := range types {
		if _, ok := member.(*ast.TypeOptional); ok {
			p.printType(member)
			continue
		}

		if i > 0 {
			if exact {
				errors.Assert(next < len(separators), "transpiler: ran out of '%s' positions", sym)
				p.advance(separators[next])
				next++
			} else {
				p.w.MaybeSpace(member.Loc().Begin, 2)
			}
			p.w.Symbol(sym)
		}

		wrap := false
		if !exact {
			switch member.(type) {
			case *ast.TypeFunction:
				wrap = true
			case *ast.TypeUnion:
				wrap = sym == "&"
			case *ast.TypeIntersection:
				wrap = sym == "|"
			}
		}

		if wrap {
			p.w.Symbol("(")
		}
		p.printType(member)
		if wrap {
			p.w.Symbol(")")
		}
	}
}

// isNumberReference t 是否为不带参数的 number 类型引用
func isNumberReference(t ast.Type) bool {
	ref, ok := t.(*ast.TypeReference)
	return ok && !ref.HasPrefix && !ref.HasParameterList && ref.Name == "number"
}

// isIdentifier name 能否直接作为表类型的属性名
func isIdentifier(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentifierChar(name[i]) {
			return false
		}
	}
	return token.LookupIdent(name) == token.NAME
}
