package parser

import (
	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// 泛型参数列表
// ============================================================================

// genericList 解析出的 <...> 列表
type genericList struct {
	generics []*ast.GenericType
	packs    []*ast.GenericTypePack
	open     token.Position
	commas   []token.Position
	close    token.Position
}

// parseGenericList <T, U = X, V...>，当前 token 为 <
//
// withDefaults 为 true 时允许默认值（类型别名）。
func (p *Parser) parseGenericList(withDefaults bool) genericList {
	lt := p.advance()
	list := genericList{open: lt.Loc.Begin}

	for !p.check(token.GT) && !p.panicMode {
		nameTok := p.consumeName("generic type name")
		if p.panicMode {
			break
		}

		if p.check(token.ELLIPSIS) {
			ellipsis := p.advance().Loc.Begin
			pack := &ast.GenericTypePack{Name: nameTok.Value}
			var eq *token.Position
			if withDefaults && p.check(token.ASSIGN) {
				pos := p.advance().Loc.Begin
				eq = &pos
				pack.DefaultValue = p.parseTypePackDefault()
			}
			ast.Add(p.arena, pack, nameTok.Loc)
			p.record(pack, cst.NewGenericTypePack(ellipsis, eq))
			list.packs = append(list.packs, pack)
		} else {
			if len(list.packs) > 0 {
				p.error(nameTok.Loc, errors.E0001, i18n.T(i18n.ErrGenericOrder))
			}
			generic := &ast.GenericType{Name: nameTok.Value}
			var eq *token.Position
			if withDefaults && p.check(token.ASSIGN) {
				pos := p.advance().Loc.Begin
				eq = &pos
				generic.DefaultValue = p.parseType()
			}
			ast.Add(p.arena, generic, nameTok.Loc)
			p.record(generic, cst.NewGenericType(eq))
			list.generics = append(list.generics, generic)
		}

		if !p.check(token.COMMA) {
			break
		}
		list.commas = append(list.commas, p.advance().Loc.Begin)
	}

	list.close = p.consumeClosing(token.GT, lt).Loc.Begin
	return list
}

// ============================================================================
// 类型
// ============================================================================

// parseType 解析类型，包括联合与交叉
func (p *Parser) parseType() ast.Type {
	defer p.leave()
	if !p.enter() {
		pos := p.peek().Loc.Begin
		return ast.Add(p.arena, &ast.TypeError{IsMissing: true, MessageIndex: len(p.errors) - 1}, token.Loc(pos, pos))
	}

	if p.checkAny(token.PIPE, token.AMPERSAND) {
		leading := p.advance()
		first := p.parseSimpleType()
		return p.parseTypeSuffix(first, leading.Loc.Begin, &leading)
	}

	first := p.parseSimpleType()
	return p.parseTypeSuffix(first, first.Loc().Begin, nil)
}

// parseTypeSuffix 在已解析的第一个成员之后解析 | T、& T 与 ?
//
// leading 为可选的前导分隔符 token。
func (p *Parser) parseTypeSuffix(first ast.Type, begin token.Position, leading *token.Token) ast.Type {
	parts := []ast.Type{first}
	var separators []token.Position
	isUnion := leading != nil && leading.Type == token.PIPE
	isIntersection := leading != nil && leading.Type == token.AMPERSAND

loop:
	for !p.panicMode {
		switch p.peek().Type {
		case token.PIPE:
			separators = append(separators, p.advance().Loc.Begin)
			parts = append(parts, p.parseSimpleType())
			isUnion = true
		case token.QUESTION:
			tok := p.advance()
			parts = append(parts, ast.Add(p.arena, &ast.TypeOptional{}, tok.Loc))
			isUnion = true
		case token.AMPERSAND:
			separators = append(separators, p.advance().Loc.Begin)
			parts = append(parts, p.parseSimpleType())
			isIntersection = true
		default:
			break loop
		}
	}

	if len(parts) == 1 && leading == nil {
		return first
	}

	loc := token.Loc(begin, parts[len(parts)-1].Loc().End)
	if isUnion && isIntersection {
		p.fail(loc, errors.E0001, i18n.T(i18n.ErrMixedUnion))
		return ast.Add(p.arena, &ast.TypeError{Types: parts, MessageIndex: len(p.errors) - 1}, loc)
	}

	var leadingPos *token.Position
	if leading != nil {
		pos := leading.Loc.Begin
		leadingPos = &pos
	}

	if isIntersection {
		t := ast.Add(p.arena, &ast.TypeIntersection{Types: parts}, loc)
		p.record(t, cst.NewTypeIntersection(leadingPos, separators))
		return t
	}
	t := ast.Add(p.arena, &ast.TypeUnion{Types: parts}, loc)
	p.record(t, cst.NewTypeUnion(leadingPos, separators))
	return t
}

// parseSimpleType 解析联合/交叉的单个成员
func (p *Parser) parseSimpleType() ast.Type {
	tok := p.peek()

	switch tok.Type {
	case token.NIL:
		p.advance()
		ref := ast.Add(p.arena, &ast.TypeReference{Name: "nil", NameLocation: tok.Loc}, tok.Loc)
		p.record(ref, cst.NewTypeReference(cst.TypeReference{}))
		return ref

	case token.TRUE, token.FALSE:
		p.advance()
		return ast.Add(p.arena, &ast.TypeSingletonBool{Value: tok.Type == token.TRUE}, tok.Loc)

	case token.STRING, token.RAW_STRING:
		p.advance()
		s := ast.Add(p.arena, &ast.TypeSingletonString{Value: tok.Value}, tok.Loc)
		style, depth := quoteStyle(tok)
		p.record(s, cst.NewTypeSingletonString(tok.Raw, style, depth))
		return s

	case token.NAME:
		if tok.Value == "typeof" && p.peekNext().Type == token.LPAREN {
			return p.parseTypeof()
		}
		return p.parseTypeReference()

	case token.LBRACE:
		return p.parseTableType()

	case token.LPAREN, token.LT:
		t, _ := p.parseFunctionTypeOrGroup(false)
		return t
	}

	p.expected("type", "")
	return ast.Add(p.arena, &ast.TypeError{IsMissing: true, MessageIndex: len(p.errors) - 1},
		token.Loc(tok.Loc.Begin, tok.Loc.Begin))
}

// parseTypeReference [prefix.]Name[<params>]
func (p *Parser) parseTypeReference() ast.Type {
	nameTok := p.advance()
	ref := &ast.TypeReference{Name: nameTok.Value, NameLocation: nameTok.Loc}
	var c cst.TypeReference
	end := nameTok.Loc.End

	if p.check(token.DOT) {
		dot := p.advance().Loc.Begin
		member := p.consumeName("type name")
		ref.HasPrefix = true
		ref.Prefix = nameTok.Value
		ref.PrefixLocation = nameTok.Loc
		ref.Name = member.Value
		ref.NameLocation = member.Loc
		c.PrefixPointPosition = &dot
		end = member.Loc.End
	}

	if p.check(token.LT) {
		lt := p.advance()
		ref.HasParameterList = true
		for !p.check(token.GT) && !p.panicMode {
			ref.Parameters = append(ref.Parameters, p.parseTypeParam())
			if !p.check(token.COMMA) {
				break
			}
			c.ParametersCommaPositions = append(c.ParametersCommaPositions, p.advance().Loc.Begin)
		}
		gt := p.consumeClosing(token.GT, lt)
		open, closing := lt.Loc.Begin, gt.Loc.Begin
		c.OpenParametersPosition, c.CloseParametersPosition = &open, &closing
		end = gt.Loc.End
	}

	ast.Add(p.arena, ref, token.Loc(nameTok.Loc.Begin, end))
	p.record(ref, cst.NewTypeReference(c))
	return ref
}

// parseTypeParam 类型参数：类型或类型包
func (p *Parser) parseTypeParam() ast.TypeOrPack {
	t, pack := p.parseTypeOrPack()
	return ast.TypeOrPack{Type: t, TypePack: pack}
}

// parseTypeOrPack 解析类型或类型包，二者恰有一个非空
func (p *Parser) parseTypeOrPack() (ast.Type, ast.TypePack) {
	switch {
	case p.check(token.ELLIPSIS):
		return nil, p.parseVariadicPack()
	case p.check(token.NAME) && p.peekNext().Type == token.ELLIPSIS:
		return nil, p.parseGenericPack()
	case p.check(token.LPAREN):
		t, pack := p.parseFunctionTypeOrGroup(true)
		if pack != nil {
			return nil, pack
		}
		return p.parseTypeSuffix(t, t.Loc().Begin, nil), nil
	}
	return p.parseType(), nil
}

// parseVariadicPack ...T
func (p *Parser) parseVariadicPack() ast.TypePack {
	ellipsis := p.advance()
	t := p.parseType()
	return ast.Add(p.arena, &ast.TypePackVariadic{VariadicType: t}, token.Loc(ellipsis.Loc.Begin, t.Loc().End))
}

// parseGenericPack T...
func (p *Parser) parseGenericPack() ast.TypePack {
	nameTok := p.advance()
	ellipsis := p.advance()
	pack := ast.Add(p.arena, &ast.TypePackGeneric{GenericName: nameTok.Value},
		token.Loc(nameTok.Loc.Begin, ellipsis.Loc.End))
	p.record(pack, cst.NewTypePackGeneric(ellipsis.Loc.Begin))
	return pack
}

// parseVariadicAnnotation 可变参数注解 ...: T 或 ...: T...，冒号已被消费
//
// 注解中的 T 不带前导 ...，结果仍表示为 TypePackVariadic。
func (p *Parser) parseVariadicAnnotation() ast.TypePack {
	if p.check(token.NAME) && p.peekNext().Type == token.ELLIPSIS {
		return p.parseGenericPack()
	}
	t := p.parseType()
	return ast.Add(p.arena, &ast.TypePackVariadic{VariadicType: t}, t.Loc())
}

// parseTypePackDefault 泛型类型包参数的默认值
func (p *Parser) parseTypePackDefault() ast.TypePack {
	t, pack := p.parseTypeOrPack()
	if pack != nil {
		return pack
	}
	p.fail(t.Loc(), errors.E0001, i18n.T(i18n.ErrExpectedButGot, "type pack", "type"))
	explicit := ast.Add(p.arena, &ast.TypePackExplicit{TypeList: ast.TypeList{Types: []ast.Type{t}}}, t.Loc())
	p.record(explicit, cst.NewTypePackExplicit(cst.TypePackExplicit{}))
	return explicit
}

// parseReturnType 函数返回类型，总是得到显式类型包
func (p *Parser) parseReturnType() *ast.TypePackExplicit {
	var types []ast.Type
	var tail ast.TypePack

	switch {
	case p.check(token.LPAREN):
		t, pack := p.parseFunctionTypeOrGroup(true)
		if explicit, ok := pack.(*ast.TypePackExplicit); ok {
			return explicit
		}
		types = []ast.Type{p.parseTypeSuffix(t, t.Loc().Begin, nil)}
	case p.check(token.ELLIPSIS):
		tail = p.parseVariadicPack()
	case p.check(token.NAME) && p.peekNext().Type == token.ELLIPSIS:
		tail = p.parseGenericPack()
	default:
		types = []ast.Type{p.parseType()}
	}

	var loc token.Location
	if tail != nil {
		loc = tail.Loc()
	} else {
		loc = types[0].Loc()
	}
	explicit := ast.Add(p.arena, &ast.TypePackExplicit{TypeList: ast.TypeList{Types: types, Tail: tail}}, loc)
	p.record(explicit, cst.NewTypePackExplicit(cst.TypePackExplicit{}))
	return explicit
}

// parseFunctionTypeOrGroup 以 ( 或 < 开始的类型
//
// 返回函数类型、括号类型，或者在 allowPack 为 true 时返回带括号的显式类型包。
// allowPack 时单个类型 (T) 只有后面紧跟 | & ? 才被当作括号类型。
func (p *Parser) parseFunctionTypeOrGroup(allowPack bool) (ast.Type, ast.TypePack) {
	begin := p.peek().Loc.Begin
	fn := &ast.TypeFunction{}
	var c cst.TypeFunction

	hasGenerics := p.check(token.LT)
	if hasGenerics {
		list := p.parseGenericList(false)
		fn.Generics, fn.GenericPacks = list.generics, list.packs
		c.OpenGenericsPosition = &list.open
		c.GenericsCommaPositions = list.commas
		c.CloseGenericsPosition = &list.close
	}

	open := p.consume(token.LPAREN, "function type")
	c.OpenArgsPosition = open.Loc.Begin

	var types []ast.Type
	var names []*ast.ArgumentName
	var tail ast.TypePack
	named := false

	for !p.check(token.RPAREN) && !p.panicMode {
		if p.check(token.ELLIPSIS) {
			tail = p.parseVariadicPack()
			break
		}
		if p.check(token.NAME) && p.peekNext().Type == token.ELLIPSIS {
			tail = p.parseGenericPack()
			break
		}

		var name *ast.ArgumentName
		var colon *token.Position
		if p.check(token.NAME) && p.peekNext().Type == token.COLON {
			nameTok := p.advance()
			pos := p.advance().Loc.Begin
			name = &ast.ArgumentName{Name: nameTok.Value, Location: nameTok.Loc}
			colon = &pos
			named = true
		}
		names = append(names, name)
		c.ArgumentNameColonPositions = append(c.ArgumentNameColonPositions, colon)
		types = append(types, p.parseType())

		if !p.check(token.COMMA) {
			break
		}
		c.ArgumentsCommaPositions = append(c.ArgumentsCommaPositions, p.advance().Loc.Begin)
	}

	closeTok := p.consumeClosing(token.RPAREN, open)
	c.CloseArgsPosition = closeTok.Loc.Begin
	parenLoc := token.Loc(open.Loc.Begin, closeTok.Loc.End)

	if p.check(token.ARROW) || hasGenerics {
		arrow := p.consume(token.ARROW, "function type")
		c.ReturnArrowPosition = arrow.Loc.Begin

		fn.ArgTypes = ast.TypeList{Types: types, Tail: tail}
		fn.ArgNames = names
		fn.ReturnTypes = p.parseReturnType()

		ast.Add(p.arena, fn, token.Loc(begin, fn.ReturnTypes.Loc().End))
		p.record(fn, cst.NewTypeFunction(c))
		return fn, nil
	}

	single := len(types) == 1 && tail == nil && !named
	if single && (!allowPack || p.checkAny(token.PIPE, token.AMPERSAND, token.QUESTION)) {
		return ast.Add(p.arena, &ast.TypeGroup{Type: types[0]}, parenLoc), nil
	}

	if allowPack && !named {
		pack := ast.Add(p.arena, &ast.TypePackExplicit{TypeList: ast.TypeList{Types: types, Tail: tail}}, parenLoc)
		p.record(pack, cst.NewTypePackExplicit(cst.TypePackExplicit{
			HasParentheses:           true,
			OpenParenthesesPosition:  open.Loc.Begin,
			CloseParenthesesPosition: closeTok.Loc.Begin,
			CommaPositions:           c.ArgumentsCommaPositions,
		}))
		return nil, pack
	}

	p.expected("'->'", "function type")
	return ast.Add(p.arena, &ast.TypeError{Types: types, MessageIndex: len(p.errors) - 1}, parenLoc), nil
}

// parseTypeof typeof(expr)
func (p *Parser) parseTypeof() ast.Type {
	kw := p.advance()
	open := p.advance()
	expr := p.parseExpr()
	closeTok := p.consumeClosing(token.RPAREN, open)

	t := ast.Add(p.arena, &ast.TypeTypeof{Expr: expr}, token.Loc(kw.Loc.Begin, closeTok.Loc.End))
	p.record(t, cst.NewTypeTypeof(open.Loc.Begin, closeTok.Loc.Begin))
	return t
}

// parseTableType { name: T, ["str"]: T, [K]: V } 或数组简写 {T}
func (p *Parser) parseTableType() ast.Type {
	open := p.advance()
	table := &ast.TypeTable{}
	var c cst.TypeTable

	// 数组简写
	if !p.check(token.RBRACE) && !p.check(token.LBRACKET) &&
		!(p.check(token.NAME) && p.peekNext().Type == token.COLON) {
		value := p.parseType()
		closeTok := p.consumeClosing(token.RBRACE, open)

		number := ast.Add(p.arena, &ast.TypeReference{Name: "number", NameLocation: value.Loc()}, value.Loc())
		table.Indexer = &ast.TableIndexer{IndexType: number, ResultType: value, Location: value.Loc()}
		c.IsArray = true

		ast.Add(p.arena, table, token.Loc(open.Loc.Begin, closeTok.Loc.End))
		p.record(table, cst.NewTypeTable(c))
		return table
	}

	for !p.check(token.RBRACE) && !p.panicMode {
		var item cst.TypeTableItem

		if p.check(token.LBRACKET) {
			bracket := p.advance()
			openPos := bracket.Loc.Begin
			item.IndexerOpenPosition = &openPos

			if p.checkAny(token.STRING, token.RAW_STRING) && p.peekNext().Type == token.RBRACKET {
				str := p.advance()
				closePos := p.advance().Loc.Begin
				item.IndexerClosePosition = &closePos
				colon := p.consume(token.COLON, "table field")
				item.ColonPosition = colon.Loc.Begin

				style, depth := quoteStyle(str)
				item.Kind = cst.TypeTableStringProperty
				item.StringInfo = cst.NewTypeSingletonString(str.Raw, style, depth)
				table.Props = append(table.Props, ast.TableProp{Name: str.Value, Location: str.Loc, Type: p.parseType()})
			} else {
				key := p.parseType()
				closeTok := p.consumeClosing(token.RBRACKET, bracket)
				closePos := closeTok.Loc.Begin
				item.IndexerClosePosition = &closePos
				colon := p.consume(token.COLON, "table field")
				item.ColonPosition = colon.Loc.Begin
				value := p.parseType()

				item.Kind = cst.TypeTableIndexer
				if table.Indexer != nil {
					p.error(token.Loc(bracket.Loc.Begin, value.Loc().End), errors.E0001, i18n.T(i18n.ErrMultipleIndexers))
				} else {
					table.Indexer = &ast.TableIndexer{
						IndexType:  key,
						ResultType: value,
						Location:   token.Loc(bracket.Loc.Begin, value.Loc().End),
					}
				}
			}
		} else {
			nameTok := p.consumeName("table field")
			if p.panicMode {
				break
			}
			colon := p.consume(token.COLON, "table field")
			item.ColonPosition = colon.Loc.Begin
			item.Kind = cst.TypeTableProperty
			table.Props = append(table.Props, ast.TableProp{Name: nameTok.Value, Location: nameTok.Loc, Type: p.parseType()})
		}

		stop := true
		if p.checkAny(token.COMMA, token.SEMICOLON) {
			sep := p.advance()
			sepPos := sep.Loc.Begin
			item.Separator = cst.SeparatorComma
			if sep.Type == token.SEMICOLON {
				item.Separator = cst.SeparatorSemicolon
			}
			item.SeparatorPosition = &sepPos
			stop = false
		}

		c.Items = append(c.Items, item)
		if stop {
			break
		}
	}

	closeTok := p.consumeClosing(token.RBRACE, open)
	ast.Add(p.arena, table, token.Loc(open.Loc.Begin, closeTok.Loc.End))
	p.record(table, cst.NewTypeTable(c))
	return table
}
