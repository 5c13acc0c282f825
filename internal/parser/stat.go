package parser

import (
	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// 语句块
// ============================================================================

// blockFollow 当前 token 是否结束一个语句块
func (p *Parser) blockFollow() bool {
	switch p.peek().Type {
	case token.EOF, token.ELSE, token.ELSEIF, token.END, token.UNTIL:
		return true
	}
	return false
}

// parseStatList 解析语句直到块结束
func (p *Parser) parseStatList() []ast.Stat {
	var body []ast.Stat

	for !p.blockFollow() && !p.aborted {
		p.panicMode = false // 每条语句重置 panicMode

		start := p.current
		stat := p.parseStat()
		if p.panicMode {
			stat = p.recoverStat(stat, start)
		}

		if p.match(token.SEMICOLON) {
			stat.SetSemicolon(true)
		}
		body = append(body, stat)

		// return / break / continue 之后块必须结束
		switch stat.(type) {
		case *ast.StatReturn, *ast.StatBreak, *ast.StatContinue:
			return body
		}
	}

	return body
}

// recoverStat 把出错的语句包装为 StatError 并同步到下一条语句
func (p *Parser) recoverStat(stat ast.Stat, start int) ast.Stat {
	p.synchronize(start)

	begin := p.tokens[start].Loc.Begin
	end := p.previous().Loc.End
	if end.Less(begin) {
		end = begin
	}

	var stats []ast.Stat
	if stat != nil {
		stats = append(stats, stat)
	}
	return ast.Add(p.arena, &ast.StatError{
		Statements:   stats,
		MessageIndex: len(p.errors) - 1,
	}, token.Loc(begin, end))
}

// parseBlock 解析语句块并在结束时关闭作用域
//
// begin 是开启 token 的末尾，块的 End 是闭合关键字的起点。
func (p *Parser) parseBlock(begin token.Position) *ast.StatBlock {
	mark := len(p.locals)
	block := p.parseBlockNoScope(begin)
	p.locals = p.locals[:mark]
	return block
}

// parseBlockNoScope 解析语句块，块内声明的局部变量在返回后仍然可见
func (p *Parser) parseBlockNoScope(begin token.Position) *ast.StatBlock {
	body := p.parseStatList()
	end := p.peek().Loc.Begin
	if end.Less(begin) {
		end = begin
	}
	return ast.Add(p.arena, &ast.StatBlock{Body: body}, token.Loc(begin, end))
}

// ============================================================================
// 语句
// ============================================================================

// parseStat 解析一条语句，总是返回非 nil
func (p *Parser) parseStat() ast.Stat {
	switch p.peek().Type {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDo()
	case token.FOR:
		return p.parseFor()
	case token.REPEAT:
		return p.parseRepeat()
	case token.FUNCTION:
		return p.parseFunctionStat()
	case token.LOCAL:
		return p.parseLocal()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		tok := p.advance()
		return ast.Add(p.arena, &ast.StatBreak{}, tok.Loc)
	}

	// 上下文关键字
	switch {
	case p.checkName("type") && (p.peekNext().Type == token.NAME || p.peekNext().Type == token.FUNCTION):
		typeTok := p.advance()
		return p.parseTypeAlias(typeTok.Loc.Begin, typeTok, false)
	case p.checkName("export") && p.peekNext().Type == token.NAME && p.peekNext().Value == "type":
		exportTok := p.advance()
		typeTok := p.advance()
		return p.parseTypeAlias(exportTok.Loc.Begin, typeTok, true)
	}

	return p.parseExprStat()
}

// parseIf if cond then ... [elseif ...] [else ...] end
func (p *Parser) parseIf() ast.Stat {
	ifTok := p.advance()
	return p.parseIfTail(ifTok, ifTok)
}

// parseIfTail 解析 if / elseif 之后的部分
//
// 参数:
//   - kw: 本分支的 if 或 elseif 关键字
//   - opener: 整个 if 语句的 if 关键字，用于闭合错误信息
func (p *Parser) parseIfTail(kw, opener token.Token) ast.Stat {
	cond := p.parseExpr()

	thenTok := p.consume(token.THEN, "if statement")
	thenLoc := thenTok.Loc
	thenBody := p.parseBlock(thenTok.Loc.End)

	stat := &ast.StatIf{
		Condition:    cond,
		ThenBody:     thenBody,
		ThenLocation: &thenLoc,
	}

	var end token.Position
	switch {
	case p.check(token.ELSEIF):
		elseifTok := p.advance()
		elseLoc := elseifTok.Loc
		stat.ElseLocation = &elseLoc
		stat.ElseBody = p.parseIfTail(elseifTok, opener)
		end = stat.ElseBody.Loc().End

	case p.check(token.ELSE):
		elseTok := p.advance()
		elseLoc := elseTok.Loc
		stat.ElseLocation = &elseLoc
		stat.ElseBody = p.parseBlock(elseTok.Loc.End)
		end = p.consumeClosing(token.END, opener).Loc.End

	default:
		end = p.consumeClosing(token.END, opener).Loc.End
	}

	return ast.Add(p.arena, stat, token.Loc(kw.Loc.Begin, end))
}

// parseWhile while cond do ... end
func (p *Parser) parseWhile() ast.Stat {
	whileTok := p.advance()
	cond := p.parseExpr()

	doTok := p.consume(token.DO, "while loop")
	body := p.parseBlock(doTok.Loc.End)
	endTok := p.consumeClosing(token.END, whileTok)

	return ast.Add(p.arena, &ast.StatWhile{
		Condition:  cond,
		Body:       body,
		HasDo:      doTok.Type == token.DO,
		DoLocation: doTok.Loc,
	}, token.Loc(whileTok.Loc.Begin, endTok.Loc.End))
}

// parseDo do ... end
func (p *Parser) parseDo() ast.Stat {
	doTok := p.advance()

	mark := len(p.locals)
	body := p.parseStatList()
	p.locals = p.locals[:mark]

	endTok := p.consumeClosing(token.END, doTok)
	block := ast.Add(p.arena, &ast.StatBlock{Body: body}, token.Loc(doTok.Loc.Begin, endTok.Loc.End))
	p.record(block, cst.NewStatDo(endTok.Loc.Begin))
	return block
}

// parseRepeat repeat ... until cond
//
// until 的条件可以访问循环体中声明的局部变量。
func (p *Parser) parseRepeat() ast.Stat {
	repeatTok := p.advance()

	mark := len(p.locals)
	body := p.parseBlockNoScope(repeatTok.Loc.End)
	untilTok := p.consumeClosing(token.UNTIL, repeatTok)
	cond := p.parseExpr()
	p.locals = p.locals[:mark]

	stat := ast.Add(p.arena, &ast.StatRepeat{
		Condition: cond,
		Body:      body,
	}, token.Loc(repeatTok.Loc.Begin, cond.Loc().End))
	p.record(stat, cst.NewStatRepeat(untilTok.Loc.Begin))
	return stat
}

// parseFor 数值 for 或泛型 for
func (p *Parser) parseFor() ast.Stat {
	forTok := p.advance()

	first, firstColon := p.parseBinding("for loop")

	if p.check(token.ASSIGN) {
		eqTok := p.advance()
		from := p.parseExpr()
		endComma := p.consume(token.COMMA, "index range")
		to := p.parseExpr()

		var step ast.Expr
		var stepComma *token.Position
		if p.check(token.COMMA) {
			pos := p.advance().Loc.Begin
			stepComma = &pos
			step = p.parseExpr()
		}

		doTok := p.consume(token.DO, "for loop")

		mark := len(p.locals)
		p.declare(first)
		body := p.parseBlock(doTok.Loc.End)
		p.locals = p.locals[:mark]

		endTok := p.consumeClosing(token.END, forTok)

		stat := ast.Add(p.arena, &ast.StatFor{
			Var:        first,
			From:       from,
			To:         to,
			Step:       step,
			Body:       body,
			HasDo:      doTok.Type == token.DO,
			DoLocation: doTok.Loc,
		}, token.Loc(forTok.Loc.Begin, endTok.Loc.End))
		p.record(stat, cst.NewStatFor(firstColon, eqTok.Loc.Begin, endComma.Loc.Begin, stepComma))
		return stat
	}

	vars := []*ast.Local{first}
	colons := []*token.Position{firstColon}
	var varCommas []token.Position
	for p.check(token.COMMA) {
		varCommas = append(varCommas, p.advance().Loc.Begin)
		v, colon := p.parseBinding("for loop")
		vars = append(vars, v)
		colons = append(colons, colon)
	}

	inTok := p.consume(token.IN, "for loop")
	values, valueCommas := p.parseExprList()
	doTok := p.consume(token.DO, "for loop")

	mark := len(p.locals)
	for _, v := range vars {
		p.declare(v)
	}
	body := p.parseBlock(doTok.Loc.End)
	p.locals = p.locals[:mark]

	endTok := p.consumeClosing(token.END, forTok)

	stat := ast.Add(p.arena, &ast.StatForIn{
		Vars:       vars,
		Values:     values,
		Body:       body,
		HasIn:      inTok.Type == token.IN,
		InLocation: inTok.Loc,
		HasDo:      doTok.Type == token.DO,
		DoLocation: doTok.Loc,
	}, token.Loc(forTok.Loc.Begin, endTok.Loc.End))
	p.record(stat, cst.NewStatForIn(colons, varCommas, valueCommas))
	return stat
}

// parseBinding 解析 name [: Type]，返回尚未声明的局部变量与冒号位置
func (p *Parser) parseBinding(context string) (*ast.Local, *token.Position) {
	local := newLocal(p.consumeName(context))
	if !p.check(token.COLON) {
		return local, nil
	}
	colon := p.advance().Loc.Begin
	local.Annotation = p.parseType()
	return local, &colon
}

// parseFunctionStat function a.b:c() ... end
func (p *Parser) parseFunctionStat() ast.Stat {
	fnTok := p.advance()

	nameTok := p.consumeName("function name")
	debugName := nameTok.Value
	name := p.resolveName(nameTok)

	for p.check(token.DOT) {
		name, debugName = p.parseIndexName(name, '.')
	}

	self := false
	if p.check(token.COLON) {
		name, debugName = p.parseIndexName(name, ':')
		self = true
	}

	fn := p.parseFunctionBody(fnTok, debugName, self)
	return ast.Add(p.arena, &ast.StatFunction{
		Name: name,
		Func: fn,
	}, token.Loc(fnTok.Loc.Begin, fn.Loc().End))
}

// parseIndexName 解析 .name 或 :name（当前 token 为 . 或 :）
func (p *Parser) parseIndexName(expr ast.Expr, op byte) (*ast.ExprIndexName, string) {
	opTok := p.advance()
	nameTok := p.consumeName("index name")
	return ast.Add(p.arena, &ast.ExprIndexName{
		Expr:          expr,
		Index:         nameTok.Value,
		IndexLocation: nameTok.Loc,
		OpPosition:    opTok.Loc.Begin,
		Op:            op,
	}, token.Loc(expr.Loc().Begin, nameTok.Loc.End)), nameTok.Value
}

// parseLocal local 声明或 local function
func (p *Parser) parseLocal() ast.Stat {
	localTok := p.advance()

	if p.check(token.FUNCTION) {
		fnTok := p.advance()
		nameTok := p.consumeName("local function")
		local := newLocal(nameTok)
		// 函数体内可以递归引用自身
		p.declare(local)

		fn := p.parseFunctionBody(fnTok, nameTok.Value, false)
		stat := ast.Add(p.arena, &ast.StatLocalFunction{
			Name: local,
			Func: fn,
		}, token.Loc(localTok.Loc.Begin, fn.Loc().End))
		p.record(stat, cst.NewStatLocalFunction(fnTok.Loc.Begin))
		return stat
	}

	var vars []*ast.Local
	var colons []*token.Position
	var varCommas []token.Position
	for {
		v, colon := p.parseBinding("local declaration")
		vars = append(vars, v)
		colons = append(colons, colon)
		if !p.check(token.COMMA) || p.panicMode {
			break
		}
		varCommas = append(varCommas, p.advance().Loc.Begin)
	}

	end := p.previous().Loc.End
	stat := &ast.StatLocal{Vars: vars}
	var valueCommas []token.Position
	if p.check(token.ASSIGN) {
		eqLoc := p.advance().Loc
		stat.EqualsSignLocation = &eqLoc
		stat.Values, valueCommas = p.parseExprList()
		end = p.previous().Loc.End
	}

	for _, v := range vars {
		p.declare(v)
	}

	ast.Add(p.arena, stat, token.Loc(localTok.Loc.Begin, end))
	p.record(stat, cst.NewStatLocal(colons, varCommas, valueCommas))
	return stat
}

// parseReturn return [exprlist]
func (p *Parser) parseReturn() ast.Stat {
	retTok := p.advance()

	stat := &ast.StatReturn{}
	var commas []token.Position
	end := retTok.Loc.End
	if !p.blockFollow() && !p.check(token.SEMICOLON) {
		stat.List, commas = p.parseExprList()
		end = stat.List[len(stat.List)-1].Loc().End
	}

	ast.Add(p.arena, stat, token.Loc(retTok.Loc.Begin, end))
	p.record(stat, cst.NewStatReturn(commas))
	return stat
}

// compoundOps 复合赋值 token 对应的二元运算符
var compoundOps = map[token.TokenType]ast.BinaryOp{
	token.PLUS_ASSIGN:      ast.BinaryAdd,
	token.MINUS_ASSIGN:     ast.BinarySub,
	token.STAR_ASSIGN:      ast.BinaryMul,
	token.SLASH_ASSIGN:     ast.BinaryDiv,
	token.FLOOR_DIV_ASSIGN: ast.BinaryFloorDiv,
	token.PERCENT_ASSIGN:   ast.BinaryMod,
	token.CARET_ASSIGN:     ast.BinaryPow,
	token.CONCAT_ASSIGN:    ast.BinaryConcat,
}

// parseExprStat 函数调用、赋值、复合赋值或 continue
func (p *Parser) parseExprStat() ast.Stat {
	expr := p.parsePrimaryExpr()
	begin := expr.Loc().Begin

	if _, ok := expr.(*ast.ExprCall); ok {
		return ast.Add(p.arena, &ast.StatExpr{Expr: expr}, expr.Loc())
	}

	if p.checkAny(token.COMMA, token.ASSIGN) {
		vars := []ast.Expr{expr}
		var varCommas []token.Position
		for p.check(token.COMMA) {
			varCommas = append(varCommas, p.advance().Loc.Begin)
			vars = append(vars, p.parsePrimaryExpr())
		}

		eqTok := p.consume(token.ASSIGN, "assignment")
		values, valueCommas := p.parseExprList()

		for _, v := range vars {
			p.checkAssignable(v)
		}

		stat := ast.Add(p.arena, &ast.StatAssign{
			Vars:   vars,
			Values: values,
		}, token.Loc(begin, values[len(values)-1].Loc().End))
		p.record(stat, cst.NewStatAssign(varCommas, eqTok.Loc.Begin, valueCommas))
		return stat
	}

	if op, ok := compoundOps[p.peek().Type]; ok {
		opTok := p.advance()
		value := p.parseExpr()
		p.checkAssignable(expr)

		stat := ast.Add(p.arena, &ast.StatCompoundAssign{
			Op:    op,
			Var:   expr,
			Value: value,
		}, token.Loc(begin, value.Loc().End))
		p.record(stat, cst.NewStatCompoundAssign(opTok.Loc.Begin))
		return stat
	}

	if g, ok := expr.(*ast.ExprGlobal); ok && g.Name == "continue" {
		return ast.Add(p.arena, &ast.StatContinue{}, expr.Loc())
	}

	if _, ok := expr.(*ast.ExprError); !ok {
		p.fail(expr.Loc(), errors.E0001, i18n.T(i18n.ErrIncompleteStatement))
	}
	return ast.Add(p.arena, &ast.StatError{
		Expressions:  []ast.Expr{expr},
		MessageIndex: len(p.errors) - 1,
	}, expr.Loc())
}

// checkAssignable 赋值目标只能是变量、字段或下标
func (p *Parser) checkAssignable(e ast.Expr) {
	switch e.(type) {
	case *ast.ExprLocal, *ast.ExprGlobal, *ast.ExprIndexName, *ast.ExprIndexExpr, *ast.ExprError:
		return
	}
	p.error(e.Loc(), errors.E0004, i18n.T(i18n.ErrAssignTarget))
}

// ============================================================================
// 类型声明
// ============================================================================

// parseTypeAlias [export] type Name<T> = Type 或 [export] type function Name() ... end
//
// 调用时 type 关键字已被消费。
func (p *Parser) parseTypeAlias(begin token.Position, typeTok token.Token, exported bool) ast.Stat {
	if p.check(token.FUNCTION) {
		fnTok := p.advance()
		nameTok := p.consumeName("type function name")
		body := p.parseFunctionBody(fnTok, nameTok.Value, false)

		stat := ast.Add(p.arena, &ast.StatTypeFunction{
			Name:         nameTok.Value,
			NameLocation: nameTok.Loc,
			Body:         body,
			Exported:     exported,
		}, token.Loc(begin, body.Loc().End))
		p.record(stat, cst.NewStatTypeFunction(typeTok.Loc.Begin, fnTok.Loc.Begin))
		return stat
	}

	nameTok := p.consumeName("type name")
	stat := &ast.StatTypeAlias{
		Name:         nameTok.Value,
		NameLocation: nameTok.Loc,
		Exported:     exported,
	}

	c := cst.StatTypeAlias{TypeKeywordPosition: typeTok.Loc.Begin}
	if p.check(token.LT) {
		list := p.parseGenericList(true)
		stat.Generics, stat.GenericPacks = list.generics, list.packs
		c.GenericsOpenPosition = &list.open
		c.GenericsCommaPositions = list.commas
		c.GenericsClosePosition = &list.close
	}

	eqTok := p.consume(token.ASSIGN, "type alias")
	c.EqualsPosition = eqTok.Loc.Begin
	stat.Type = p.parseType()

	ast.Add(p.arena, stat, token.Loc(begin, stat.Type.Loc().End))
	p.record(stat, cst.NewStatTypeAlias(c))
	return stat
}
