package parser

import (
	"strconv"
	"strings"

	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// 运算符优先级
// ============================================================================

// priority 二元运算符的左右优先级，右结合的运算符右优先级更低
type priority struct {
	left, right int
}

var binaryPriority = map[ast.BinaryOp]priority{
	ast.BinaryAdd:       {6, 6},
	ast.BinarySub:       {6, 6},
	ast.BinaryMul:       {7, 7},
	ast.BinaryDiv:       {7, 7},
	ast.BinaryFloorDiv:  {7, 7},
	ast.BinaryMod:       {7, 7},
	ast.BinaryPow:       {10, 9},
	ast.BinaryConcat:    {5, 4},
	ast.BinaryCompareNe: {3, 3},
	ast.BinaryCompareEq: {3, 3},
	ast.BinaryCompareLt: {3, 3},
	ast.BinaryCompareLe: {3, 3},
	ast.BinaryCompareGt: {3, 3},
	ast.BinaryCompareGe: {3, 3},
	ast.BinaryAnd:       {2, 2},
	ast.BinaryOr:        {1, 1},
}

// unaryPriority 一元运算符优先级
const unaryPriority = 8

var binaryOps = map[token.TokenType]ast.BinaryOp{
	token.PLUS:      ast.BinaryAdd,
	token.MINUS:     ast.BinarySub,
	token.STAR:      ast.BinaryMul,
	token.SLASH:     ast.BinaryDiv,
	token.FLOOR_DIV: ast.BinaryFloorDiv,
	token.PERCENT:   ast.BinaryMod,
	token.CARET:     ast.BinaryPow,
	token.CONCAT:    ast.BinaryConcat,
	token.NE:        ast.BinaryCompareNe,
	token.EQ:        ast.BinaryCompareEq,
	token.LT:        ast.BinaryCompareLt,
	token.LE:        ast.BinaryCompareLe,
	token.GT:        ast.BinaryCompareGt,
	token.GE:        ast.BinaryCompareGe,
	token.AND:       ast.BinaryAnd,
	token.OR:        ast.BinaryOr,
}

var unaryOps = map[token.TokenType]ast.UnaryOp{
	token.NOT:   ast.UnaryNot,
	token.MINUS: ast.UnaryMinus,
	token.HASH:  ast.UnaryLen,
}

// ============================================================================
// 表达式
// ============================================================================

// parseExpr 解析表达式
func (p *Parser) parseExpr() ast.Expr {
	return p.parseSubExpr(0)
}

// parseExprList 解析逗号分隔的表达式列表，至少一个
func (p *Parser) parseExprList() ([]ast.Expr, []token.Position) {
	exprs := []ast.Expr{p.parseExpr()}
	var commas []token.Position
	for p.check(token.COMMA) {
		commas = append(commas, p.advance().Loc.Begin)
		exprs = append(exprs, p.parseExpr())
	}
	return exprs, commas
}

// enter 进入一层递归，超过深度限制时返回 false
func (p *Parser) enter() bool {
	p.exprDepth++
	if p.exprDepth > maxExprDepth {
		p.fail(p.peek().Loc, errors.E0005, i18n.T(i18n.ErrRecursionLimit))
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.exprDepth--
}

// parseSubExpr 按优先级爬升解析 (unop exp | simpleexp) { binop exp }
func (p *Parser) parseSubExpr(limit int) ast.Expr {
	defer p.leave()
	if !p.enter() {
		return p.exprError(token.Loc(p.peek().Loc.Begin, p.peek().Loc.Begin))
	}

	var left ast.Expr
	if op, ok := unaryOps[p.peek().Type]; ok {
		opTok := p.advance()
		operand := p.parseSubExpr(unaryPriority)
		unary := ast.Add(p.arena, &ast.ExprUnary{
			Op:   op,
			Expr: operand,
		}, token.Loc(opTok.Loc.Begin, operand.Loc().End))
		p.record(unary, cst.NewExprOp(opTok.Loc.Begin))
		left = unary
	} else {
		left = p.parseAssertionExpr()
	}

	for {
		op, ok := binaryOps[p.peek().Type]
		if !ok || binaryPriority[op].left <= limit {
			break
		}
		opTok := p.advance()
		right := p.parseSubExpr(binaryPriority[op].right)
		binary := ast.Add(p.arena, &ast.ExprBinary{
			Op:    op,
			Left:  left,
			Right: right,
		}, token.Loc(left.Loc().Begin, right.Loc().End))
		p.record(binary, cst.NewExprOp(opTok.Loc.Begin))
		left = binary
	}

	return left
}

// parseAssertionExpr simpleexp [:: Type]
func (p *Parser) parseAssertionExpr() ast.Expr {
	expr := p.parseSimpleExpr()
	if !p.check(token.DOUBLE_COLON) {
		return expr
	}

	opTok := p.advance()
	annotation := p.parseType()
	assertion := ast.Add(p.arena, &ast.ExprTypeAssertion{
		Expr:       expr,
		Annotation: annotation,
	}, token.Loc(expr.Loc().Begin, annotation.Loc().End))
	p.record(assertion, cst.NewExprTypeAssertion(opTok.Loc.Begin))
	return assertion
}

// parseSimpleExpr 字面量、函数、表、if 表达式或 primaryexp
func (p *Parser) parseSimpleExpr() ast.Expr {
	tok := p.peek()

	switch tok.Type {
	case token.NIL:
		p.advance()
		return ast.Add(p.arena, &ast.ExprConstantNil{}, tok.Loc)

	case token.TRUE, token.FALSE:
		p.advance()
		return ast.Add(p.arena, &ast.ExprConstantBool{Value: tok.Type == token.TRUE}, tok.Loc)

	case token.NUMBER:
		return p.parseNumber()

	case token.STRING, token.RAW_STRING:
		return p.parseString()

	case token.INTERP_SIMPLE, token.INTERP_BEGIN:
		return p.parseInterpString()

	case token.ELLIPSIS:
		p.advance()
		if !p.functions[len(p.functions)-1].vararg {
			p.error(tok.Loc, errors.E0001, i18n.T(i18n.ErrVarargOutside))
		}
		return ast.Add(p.arena, &ast.ExprVarargs{}, tok.Loc)

	case token.LBRACE:
		return p.parseTable()

	case token.FUNCTION:
		fnTok := p.advance()
		return p.parseFunctionBody(fnTok, "", false)

	case token.IF:
		ifTok := p.advance()
		return p.parseIfElseExpr(ifTok)
	}

	return p.parsePrimaryExpr()
}

// parseNumber 数字字面量，支持十六进制、二进制与下划线分隔
func (p *Parser) parseNumber() ast.Expr {
	tok := p.advance()

	value, ok := parseNumberValue(tok.Literal)
	if !ok {
		p.fail(tok.Loc, errors.E0003, i18n.T(i18n.ErrMalformedNumber))
	}

	num := ast.Add(p.arena, &ast.ExprConstantNumber{Value: value}, tok.Loc)
	p.record(num, cst.NewExprConstantNumber(tok.Literal))
	return num
}

// parseNumberValue 把数字字面量文本转换为数值
//
// 超出 float64 范围的十进制数得到 ±Inf（例如 1e500），这与 Luau 一致。
func parseNumberValue(text string) (float64, bool) {
	s := strings.ReplaceAll(text, "_", "")

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	// Go 的 ParseFloat 还接受十六进制浮点与 inf/nan，Luau 不接受
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// parseString 引号字符串或长括号字符串
func (p *Parser) parseString() *ast.ExprConstantString {
	tok := p.advance()

	str := ast.Add(p.arena, &ast.ExprConstantString{Value: tok.Value}, tok.Loc)
	style, depth := quoteStyle(tok)
	p.record(str, cst.NewExprConstantString(tok.Raw, style, depth))
	return str
}

// quoteStyle 字符串 token 的引号形式
func quoteStyle(tok token.Token) (cst.QuoteStyle, int) {
	if tok.Type == token.RAW_STRING {
		return cst.QuoteRaw, tok.Depth
	}
	if strings.HasPrefix(tok.Literal, "'") {
		return cst.QuoteSingle, 0
	}
	return cst.QuoteDouble, 0
}

// parseInterpString 插值字符串 `a{b}c`
func (p *Parser) parseInterpString() ast.Expr {
	first := p.peek()

	var values, sources []string
	var positions []token.Position
	var exprs []ast.Expr

	last := first
	for {
		seg := p.advance()
		last = seg
		values = append(values, seg.Value)
		sources = append(sources, seg.Raw)
		positions = append(positions, seg.Loc.Begin)

		if seg.Type == token.INTERP_SIMPLE || seg.Type == token.INTERP_END {
			break
		}

		if p.checkAny(token.INTERP_MID, token.INTERP_END) {
			p.fail(p.peek().Loc, errors.E0001, i18n.T(i18n.ErrMalformedInterpExpr))
			return p.exprError(token.Loc(first.Loc.Begin, p.peek().Loc.End), exprs...)
		}

		exprs = append(exprs, p.parseExpr())

		if !p.checkAny(token.INTERP_MID, token.INTERP_END) {
			p.expected("'}'", "interpolated string")
			return p.exprError(token.Loc(first.Loc.Begin, p.previous().Loc.End), exprs...)
		}
	}

	interp := ast.Add(p.arena, &ast.ExprInterpString{
		Strings:     values,
		Expressions: exprs,
	}, token.Loc(first.Loc.Begin, last.Loc.End))
	p.record(interp, cst.NewExprInterpString(sources, positions))
	return interp
}

// parseIfElseExpr if cond then a [elseif ...] else b，if / elseif 已被消费
func (p *Parser) parseIfElseExpr(kw token.Token) ast.Expr {
	cond := p.parseExpr()
	thenTok := p.consume(token.THEN, "if then else expression")
	trueExpr := p.parseExpr()

	var elsePos token.Position
	var falseExpr ast.Expr
	isElseIf := false
	if p.check(token.ELSEIF) {
		elseifTok := p.advance()
		elsePos = elseifTok.Loc.Begin
		isElseIf = true
		falseExpr = p.parseIfElseExpr(elseifTok)
	} else {
		elseTok := p.consume(token.ELSE, "if then else expression")
		elsePos = elseTok.Loc.Begin
		falseExpr = p.parseExpr()
	}

	expr := ast.Add(p.arena, &ast.ExprIfElse{
		Condition: cond,
		HasThen:   thenTok.Type == token.THEN,
		TrueExpr:  trueExpr,
		HasElse:   true,
		FalseExpr: falseExpr,
	}, token.Loc(kw.Loc.Begin, falseExpr.Loc().End))
	p.record(expr, cst.NewExprIfElse(thenTok.Loc.Begin, elsePos, isElseIf))
	return expr
}

// ============================================================================
// primaryexp
// ============================================================================

// parsePrimaryExpr prefixexp { .name | [exp] | :name args | args }
func (p *Parser) parsePrimaryExpr() ast.Expr {
	expr := p.parsePrefixExpr()

	for {
		switch p.peek().Type {
		case token.DOT:
			expr, _ = p.parseIndexName(expr, '.')

		case token.LBRACKET:
			open := p.advance()
			index := p.parseExpr()
			closeTok := p.consumeClosing(token.RBRACKET, open)
			indexExpr := ast.Add(p.arena, &ast.ExprIndexExpr{
				Expr:  expr,
				Index: index,
			}, token.Loc(expr.Loc().Begin, closeTok.Loc.End))
			p.record(indexExpr, cst.NewExprIndexExpr(open.Loc.Begin, closeTok.Loc.Begin))
			expr = indexExpr

		case token.COLON:
			method, _ := p.parseIndexName(expr, ':')
			expr = p.parseCallArgs(method, true)

		case token.LPAREN:
			// 换行后的 ( 既可能是参数列表也可能是新语句
			if tok := p.peek(); tok.Loc.Begin.Line != expr.Loc().End.Line {
				p.error(tok.Loc, errors.E0001, i18n.T(i18n.ErrAmbiguousCall))
			}
			expr = p.parseCallArgs(expr, false)

		case token.STRING, token.RAW_STRING, token.LBRACE:
			expr = p.parseCallArgs(expr, false)

		default:
			return expr
		}

		if p.panicMode {
			return expr
		}
	}
}

// parsePrefixExpr name | (expr)
func (p *Parser) parsePrefixExpr() ast.Expr {
	tok := p.peek()

	switch tok.Type {
	case token.LPAREN:
		open := p.advance()
		inner := p.parseExpr()
		closeTok := p.consumeClosing(token.RPAREN, open)
		return ast.Add(p.arena, &ast.ExprGroup{Expr: inner}, token.Loc(open.Loc.Begin, closeTok.Loc.End))

	case token.NAME:
		p.advance()
		return p.resolveName(tok)
	}

	if tok.Type == token.ILLEGAL {
		p.fail(tok.Loc, errors.E0003, tok.Value)
	} else {
		p.fail(tok.Loc, errors.E0001, i18n.T(i18n.ErrExpectedExpression, tok.Describe()))
	}
	return p.exprError(token.Loc(tok.Loc.Begin, tok.Loc.Begin))
}

// parseCallArgs 解析调用参数：(args)、字符串或表
func (p *Parser) parseCallArgs(fn ast.Expr, self bool) ast.Expr {
	switch p.peek().Type {
	case token.LPAREN:
		open := p.advance()
		var args []ast.Expr
		var commas []token.Position
		if !p.check(token.RPAREN) {
			args, commas = p.parseExprList()
		}
		closeTok := p.consumeClosing(token.RPAREN, open)

		call := ast.Add(p.arena, &ast.ExprCall{
			Func:        fn,
			Args:        args,
			Self:        self,
			ArgLocation: token.Loc(open.Loc.Begin, closeTok.Loc.End),
		}, token.Loc(fn.Loc().Begin, closeTok.Loc.End))
		openPos, closePos := open.Loc.Begin, closeTok.Loc.Begin
		p.record(call, cst.NewExprCall(&openPos, &closePos, commas))
		return call

	case token.STRING, token.RAW_STRING, token.LBRACE:
		var arg ast.Expr
		if p.check(token.LBRACE) {
			arg = p.parseTable()
		} else {
			arg = p.parseString()
		}

		call := ast.Add(p.arena, &ast.ExprCall{
			Func:        fn,
			Args:        []ast.Expr{arg},
			Self:        self,
			ArgLocation: arg.Loc(),
		}, token.Loc(fn.Loc().Begin, arg.Loc().End))
		p.record(call, cst.NewExprCall(nil, nil, nil))
		return call
	}

	p.expected("'(', '{' or <string>", "function call")
	return p.exprError(fn.Loc(), fn)
}

// ============================================================================
// 表构造器与函数
// ============================================================================

// parseTable { [k] = v, name = v, v }
func (p *Parser) parseTable() ast.Expr {
	open := p.advance()

	var items []ast.TableItem
	var cstItems []cst.TableItem

	for !p.check(token.RBRACE) && !p.panicMode {
		var item ast.TableItem
		var ci cst.TableItem

		switch {
		case p.check(token.LBRACKET):
			bracket := p.advance()
			item.Kind = ast.TableItemGeneral
			item.Key = p.parseExpr()
			closeTok := p.consumeClosing(token.RBRACKET, bracket)
			eqTok := p.consume(token.ASSIGN, "table field")
			item.Value = p.parseExpr()

			openPos, closePos, eqPos := bracket.Loc.Begin, closeTok.Loc.Begin, eqTok.Loc.Begin
			ci.IndexerOpenPosition, ci.IndexerClosePosition, ci.EqualsPosition = &openPos, &closePos, &eqPos

		case p.check(token.NAME) && p.peekNext().Type == token.ASSIGN:
			nameTok := p.advance()
			eqTok := p.advance()
			item.Kind = ast.TableItemRecord
			item.Key = ast.Add(p.arena, &ast.ExprConstantString{Value: nameTok.Value}, nameTok.Loc)
			item.Value = p.parseExpr()

			eqPos := eqTok.Loc.Begin
			ci.EqualsPosition = &eqPos

		default:
			item.Kind = ast.TableItemList
			item.Value = p.parseExpr()
		}
		ci.Kind = item.Kind

		stop := true
		if p.checkAny(token.COMMA, token.SEMICOLON) {
			sep := p.advance()
			sepPos := sep.Loc.Begin
			ci.Separator = cst.SeparatorComma
			if sep.Type == token.SEMICOLON {
				ci.Separator = cst.SeparatorSemicolon
			}
			ci.SeparatorPosition = &sepPos
			stop = false
		}

		items = append(items, item)
		cstItems = append(cstItems, ci)
		if stop {
			break
		}
	}

	closeTok := p.consumeClosing(token.RBRACE, open)
	table := ast.Add(p.arena, &ast.ExprTable{Items: items}, token.Loc(open.Loc.Begin, closeTok.Loc.End))
	p.record(table, cst.NewExprTable(cstItems))
	return table
}

// parseFunctionBody [<generics>] (args) [: ReturnType] block end
//
// 函数的位置从 function 关键字开始到 end 结束。
func (p *Parser) parseFunctionBody(fnTok token.Token, debugName string, hasSelf bool) *ast.ExprFunction {
	fn := &ast.ExprFunction{DebugName: debugName}
	var c cst.ExprFunction

	if p.check(token.LT) {
		list := p.parseGenericList(false)
		fn.Generics, fn.GenericPacks = list.generics, list.packs
		c.OpenGenericsPosition = &list.open
		c.GenericsCommaPositions = list.commas
		c.CloseGenericsPosition = &list.close
	}

	open := p.consume(token.LPAREN, "function")

	p.functions = append(p.functions, functionState{})
	mark := len(p.locals)

	if hasSelf {
		fn.Self = &ast.Local{Name: "self", Location: fnTok.Loc}
		p.declare(fn.Self)
	}

	if !p.check(token.RPAREN) && !p.panicMode {
		for {
			if p.check(token.ELLIPSIS) {
				varargTok := p.advance()
				fn.Vararg = true
				fn.VarargLocation = varargTok.Loc
				if p.check(token.COLON) {
					colon := p.advance().Loc.Begin
					c.VarargAnnotationColonPosition = &colon
					fn.VarargAnnotation = p.parseVariadicAnnotation()
				}
				break
			}

			arg, colon := p.parseBinding("function argument")
			fn.Args = append(fn.Args, arg)
			c.ArgsAnnotationColonPositions = append(c.ArgsAnnotationColonPositions, colon)
			if !p.check(token.COMMA) || p.panicMode {
				break
			}
			c.ArgsCommaPositions = append(c.ArgsCommaPositions, p.advance().Loc.Begin)
		}
	}
	p.functions[len(p.functions)-1].vararg = fn.Vararg

	closeTok := p.consumeClosing(token.RPAREN, open)
	argLoc := token.Loc(open.Loc.Begin, closeTok.Loc.End)
	fn.ArgLocation = &argLoc

	if p.check(token.COLON) {
		colon := p.advance().Loc.Begin
		c.ReturnSpecifierPosition = &colon
		fn.ReturnAnnotation = p.parseReturnType()
	}

	for _, arg := range fn.Args {
		p.declare(arg)
	}

	fn.Body = p.parseBlock(p.previous().Loc.End)
	endTok := p.consumeClosing(token.END, fnTok)

	p.locals = p.locals[:mark]
	p.functions = p.functions[:len(p.functions)-1]

	ast.Add(p.arena, fn, token.Loc(fnTok.Loc.Begin, endTok.Loc.End))
	p.record(fn, cst.NewExprFunction(c))
	return fn
}
