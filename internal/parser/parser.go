// Package parser 把 Luau 源码解析为 AST，并按需记录 CST 装饰
package parser

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"

	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/lexer"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// Options 解析选项
type Options struct {
	// StoreCstData 为 true 时记录逐字节还原源码所需的 CST 装饰
	StoreCstData bool
}

// Error 语法分析错误
type Error struct {
	Location token.Location
	Message  string
	Code     errors.Code
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location.Begin, e.Message)
}

// Result 解析结果
//
// 即使存在错误 Root 也不为 nil，出错的部分由 StatError / ExprError / TypeError 占位。
type Result struct {
	Root   *ast.StatBlock
	Errors []Error
	Nodes  *cst.Map // 未开启 StoreCstData 时为禁用的映射
	Arena  *ast.Arena
}

// Err 把全部错误合并为一个 error，没有错误时返回 nil
func (r *Result) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, e)
	}
	return err
}

// maxExprDepth 最大表达式嵌套深度，防止栈溢出
const maxExprDepth = 200

// maxParseErrors 最大错误数量限制，防止错误爆炸
const maxParseErrors = 50

// functionState 正在解析的函数的上下文
type functionState struct {
	vararg bool
}

// Parser 语法分析器
type Parser struct {
	lexer    *lexer.Lexer
	tokens   []token.Token
	current  int
	errors   []Error
	filename string
	options  Options

	panicMode bool // 错误恢复模式标志，用于避免级联报错
	aborted   bool // 错误数量超限后停止解析
	exprDepth int  // 表达式与类型的解析深度，防止栈溢出

	arena     *ast.Arena
	nodes     *cst.Map
	locals    []*ast.Local // 当前可见的局部变量，按声明顺序
	functions []functionState
}

// New 创建一个新的语法分析器
func New(source, filename string, options Options) *Parser {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	nodes := cst.Disabled()
	if options.StoreCstData {
		nodes = cst.NewMap()
	}

	return &Parser{
		lexer:    l,
		tokens:   tokens,
		filename: filename,
		options:  options,
		arena:    ast.NewArena(len(tokens)),
		nodes:    nodes,
	}
}

// Parse 解析一段源码
func Parse(source string, options Options) *Result {
	return New(source, "", options).Parse()
}

// Parse 解析整个源文件
func (p *Parser) Parse() *Result {
	p.functions = []functionState{{vararg: true}}

	body := p.parseStatList()
	if !p.isAtEnd() {
		p.panicMode = false
		p.expected("<eof>", "")
	}

	eof := p.tokens[len(p.tokens)-1]
	root := ast.Add(p.arena, &ast.StatBlock{Body: body}, token.Loc(token.Pos(0, 0), eof.Loc.End))

	p.mergeLexerErrors()

	return &Result{
		Root:   root,
		Errors: p.errors,
		Nodes:  p.nodes,
		Arena:  p.arena,
	}
}

// Errors 返回所有语法错误
func (p *Parser) Errors() []Error {
	return p.errors
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNext() token.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // 返回EOF
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return token.Token{}
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// checkName 当前 token 是否为指定的上下文关键字
func (p *Parser) checkName(name string) bool {
	tok := p.peek()
	return tok.Type == token.NAME && tok.Value == name
}

// consume 消费指定类型的 token
//
// 失败时报告 "Expected X [when parsing context], got Y" 并进入错误恢复模式，
// 返回一个位于当前 token 起点、长度为 0 的占位 token。
func (p *Parser) consume(t token.TokenType, context string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.expected(quote(t), context)
	return p.missing()
}

// consumeClosing 消费闭合 token，失败时在错误信息中指出与之配对的开启 token
func (p *Parser) consumeClosing(t token.TokenType, open token.Token) token.Token {
	if p.check(t) {
		return p.advance()
	}

	tok := p.peek()
	if tok.Type == token.ILLEGAL {
		p.error(tok.Loc, errors.E0003, tok.Value)
	} else if open.Loc.Begin.Line == tok.Loc.Begin.Line {
		p.error(tok.Loc, errors.E0002, i18n.T(i18n.ErrExpectedToCloseColumn,
			quote(t), open.Describe(), open.Loc.Begin.Column+1, tok.Describe()))
	} else {
		p.error(tok.Loc, errors.E0002, i18n.T(i18n.ErrExpectedToCloseLine,
			quote(t), open.Describe(), open.Loc.Begin.Line+1, tok.Describe()))
	}
	p.panicMode = true
	return p.missing()
}

// consumeName 消费一个名字
func (p *Parser) consumeName(context string) token.Token {
	if p.check(token.NAME) {
		return p.advance()
	}
	p.expected("identifier", context)
	return p.missing()
}

// missing 缺失 token 的占位
func (p *Parser) missing() token.Token {
	pos := p.peek().Loc.Begin
	return token.Token{Type: token.ILLEGAL, Loc: token.Loc(pos, pos)}
}

func quote(t token.TokenType) string {
	return fmt.Sprintf("'%s'", t)
}

// ============================================================================
// 错误处理
// ============================================================================

// error 记录一个错误
//
// panicMode 下跳过后续错误，避免级联报错；同一位置只报告一次。
func (p *Parser) error(loc token.Location, code errors.Code, message string) {
	if p.panicMode || p.aborted {
		return
	}

	if len(p.errors) > 0 {
		last := p.errors[len(p.errors)-1]
		if last.Location.Begin == loc.Begin {
			return
		}
	}

	if len(p.errors) >= maxParseErrors {
		p.errors = append(p.errors, Error{
			Location: loc,
			Message:  i18n.T(i18n.ErrTooManyErrors),
			Code:     errors.E0001,
		})
		p.aborted = true
		p.panicMode = true
		p.current = len(p.tokens) - 1
		return
	}

	p.errors = append(p.errors, Error{Location: loc, Message: message, Code: code})
}

// fail 记录错误并进入错误恢复模式
func (p *Parser) fail(loc token.Location, code errors.Code, message string) {
	p.error(loc, code, message)
	p.panicMode = true
}

// expected 报告当前 token 不符合预期
func (p *Parser) expected(what, context string) {
	tok := p.peek()
	switch {
	case tok.Type == token.ILLEGAL:
		p.fail(tok.Loc, errors.E0003, tok.Value)
	case context == "":
		p.fail(tok.Loc, errors.E0001, i18n.T(i18n.ErrExpectedButGot, what, tok.Describe()))
	default:
		p.fail(tok.Loc, errors.E0001, i18n.T(i18n.ErrExpectedWhenParsing, what, context, tok.Describe()))
	}
}

// synchronize 跳到下一个可以重新开始解析语句的位置
//
// 块的闭合关键字不会被消费，它们属于外层结构。
func (p *Parser) synchronize(start int) {
	if p.current == start {
		p.advance()
	}
	for !p.isAtEnd() {
		switch p.peek().Type {
		case token.SEMICOLON,
			token.LOCAL, token.FUNCTION, token.IF, token.FOR, token.WHILE, token.DO,
			token.REPEAT, token.RETURN, token.BREAK,
			token.END, token.ELSE, token.ELSEIF, token.UNTIL:
			return
		}
		p.advance()
	}
}

// mergeLexerErrors 补上在错误恢复中被跳过的词法错误，并按位置排序
func (p *Parser) mergeLexerErrors() {
	seen := make(map[token.Position]bool, len(p.errors))
	for _, e := range p.errors {
		seen[e.Location.Begin] = true
	}
	for _, le := range p.lexer.Errors() {
		if !seen[le.Loc.Begin] && len(p.errors) <= maxParseErrors {
			p.errors = append(p.errors, Error{Location: le.Loc, Message: le.Message, Code: errors.E0003})
		}
	}
	sort.SliceStable(p.errors, func(i, j int) bool {
		return p.errors[i].Location.Begin.Less(p.errors[j].Location.Begin)
	})
}

// ============================================================================
// 节点登记
// ============================================================================

// record 记录节点的 CST 装饰
func (p *Parser) record(n ast.Node, c cst.Node) {
	if p.options.StoreCstData {
		p.nodes.Set(n.ID(), c)
	}
}

// exprError 创建表达式占位节点，MessageIndex 指向最近一条错误
func (p *Parser) exprError(loc token.Location, exprs ...ast.Expr) *ast.ExprError {
	return ast.Add(p.arena, &ast.ExprError{Expressions: exprs, MessageIndex: len(p.errors) - 1}, loc)
}

// ============================================================================
// 作用域
// ============================================================================

// declare 声明局部变量，调用方负责在作用域结束时截断 p.locals
func (p *Parser) declare(local *ast.Local) {
	local.Shadow = p.lookup(local.Name)
	local.FunctionDepth = len(p.functions)
	p.locals = append(p.locals, local)
}

// lookup 由内向外查找可见的局部变量
func (p *Parser) lookup(name string) *ast.Local {
	for i := len(p.locals) - 1; i >= 0; i-- {
		if p.locals[i].Name == name {
			return p.locals[i]
		}
	}
	return nil
}

// newLocal 由名字 token 创建局部变量（尚未声明）
func newLocal(name token.Token) *ast.Local {
	return &ast.Local{Name: name.Value, Location: name.Loc}
}

// resolveName 把名字解析为局部变量引用或全局变量
func (p *Parser) resolveName(name token.Token) ast.Expr {
	if local := p.lookup(name.Value); local != nil {
		return ast.Add(p.arena, &ast.ExprLocal{
			Local:   local,
			Upvalue: local.FunctionDepth != len(p.functions),
		}, name.Loc)
	}
	return ast.Add(p.arena, &ast.ExprGlobal{Name: name.Value}, name.Loc)
}
