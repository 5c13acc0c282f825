package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器负责将 Luau 源代码转换为 Token 序列。
//
// 位置约定：行号与列号从 0 开始，列号按字节计数。
//
// 字符串类 token 同时保留两份内容：
//   - Raw: 定界符之间的原始字节，打印器凭它逐字节还原源码
//   - Value: 处理转义后的值，写入 AST
//
// 插值字符串依赖花括号栈：遇到 `...{ 时压入插值标记，
// 与之配对的 } 重新进入字符串扫描，产生 INTERP_MID 或 INTERP_END。
//
// 注释与空白不产生 token，它们的位置信息体现在相邻 token 的坐标里。
//
// ============================================================================

// braceKind 花括号栈元素
type braceKind int

const (
	braceNormal braceKind = iota // 普通的 {
	braceInterp                  // 插值字符串中的 {
)

// Lexer 词法分析器结构体
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	tokens   []token.Token // 已扫描的 Token 列表

	start    int            // 当前 Token 的起始位置（字节偏移）
	current  int            // 当前扫描位置（字节偏移）
	line     int            // 当前行号（从0开始）
	column   int            // 当前列号（从0开始）
	startPos token.Position // 当前 Token 的起始坐标

	braces []braceKind // 花括号栈
	errors []Error     // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Loc     token.Location // 错误范围
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc.Begin, e.Message)
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
//
// 参数:
//   - source: 源代码字符串
//   - filename: 源文件名（用于错误报告）
//
// 返回:
//   - *Lexer: 词法分析器实例
func New(source, filename string) *Lexer {
	estimatedTokens := len(source) / 4
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]token.Token, 0, estimatedTokens),
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 最后一个 Token 总是 EOF，它的位置是源码末尾（跳过所有尾随空白与注释之后），
// 打印器用它还原文件末尾的换行。
func (l *Lexer) ScanTokens() []token.Token {
	for !l.isAtEnd() {
		l.start = l.current
		l.startPos = l.pos()
		l.scanToken()
	}

	end := l.pos()
	l.tokens = append(l.tokens, token.Token{
		Type: token.EOF,
		Loc:  token.Loc(end, end),
	})

	return l.tokens
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// scanToken 扫描单个 token
func (l *Lexer) scanToken() {
	ch := l.next()

	switch ch {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		// 空白，换行已在 next 中计数

	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case ']':
		l.addToken(token.RBRACKET)
	case ',':
		l.addToken(token.COMMA)
	case ';':
		l.addToken(token.SEMICOLON)
	case '#':
		l.addToken(token.HASH)
	case '?':
		l.addToken(token.QUESTION)
	case '|':
		l.addToken(token.PIPE)
	case '&':
		l.addToken(token.AMPERSAND)
	case '@':
		l.addToken(token.AT)

	case '{':
		l.braces = append(l.braces, braceNormal)
		l.addToken(token.LBRACE)

	case '}':
		if n := len(l.braces); n > 0 && l.braces[n-1] == braceInterp {
			l.braces = l.braces[:n-1]
			l.interpSegment(false)
			return
		}
		if n := len(l.braces); n > 0 {
			l.braces = l.braces[:n-1]
		}
		l.addToken(token.RBRACE)

	case '[':
		if depth, ok := l.longBracket(); ok {
			l.longString(depth)
		} else {
			l.addToken(token.LBRACKET)
		}

	case '=':
		if l.match('=') {
			l.addToken(token.EQ)
		} else {
			l.addToken(token.ASSIGN)
		}

	case '~':
		if l.match('=') {
			l.addToken(token.NE)
		} else {
			l.illegal(i18n.T(i18n.ErrUnexpectedChar, "~"))
		}

	case '<':
		if l.match('=') {
			l.addToken(token.LE)
		} else {
			l.addToken(token.LT)
		}

	case '>':
		if l.match('=') {
			l.addToken(token.GE)
		} else {
			l.addToken(token.GT)
		}

	case ':':
		if l.match(':') {
			l.addToken(token.DOUBLE_COLON)
		} else {
			l.addToken(token.COLON)
		}

	case '.':
		switch {
		case l.match('.'):
			if l.match('.') {
				l.addToken(token.ELLIPSIS)
			} else if l.match('=') {
				l.addToken(token.CONCAT_ASSIGN)
			} else {
				l.addToken(token.CONCAT)
			}
		case isDigit(l.peek()):
			l.number()
		default:
			l.addToken(token.DOT)
		}

	case '-':
		switch {
		case l.match('-'):
			l.comment()
		case l.match('='):
			l.addToken(token.MINUS_ASSIGN)
		case l.match('>'):
			l.addToken(token.ARROW)
		default:
			l.addToken(token.MINUS)
		}

	case '+':
		l.addAssignable(token.PLUS, token.PLUS_ASSIGN)
	case '*':
		l.addAssignable(token.STAR, token.STAR_ASSIGN)
	case '%':
		l.addAssignable(token.PERCENT, token.PERCENT_ASSIGN)
	case '^':
		l.addAssignable(token.CARET, token.CARET_ASSIGN)

	case '/':
		if l.match('/') {
			l.addAssignable(token.FLOOR_DIV, token.FLOOR_DIV_ASSIGN)
		} else {
			l.addAssignable(token.SLASH, token.SLASH_ASSIGN)
		}

	case '"', '\'':
		l.quotedString(ch)

	case '`':
		l.interpSegment(true)

	default:
		switch {
		case isDigit(ch):
			l.number()
		case isAlpha(ch):
			l.identifier()
		case ch >= utf8.RuneSelf:
			// 非 ASCII 字符整体报错，避免把一个字符拆成多个错误
			l.current = l.start
			l.column = l.startPos.Column
			r, size := utf8.DecodeRuneInString(l.source[l.current:])
			for i := 0; i < size; i++ {
				l.next()
			}
			l.illegal(i18n.T(i18n.ErrUnexpectedChar, string(r)))
		default:
			l.illegal(i18n.T(i18n.ErrUnexpectedChar, string(rune(ch))))
		}
	}
}

// addAssignable 根据后面是否紧跟 '=' 选择普通运算符或复合赋值
func (l *Lexer) addAssignable(plain, assign token.TokenType) {
	if l.match('=') {
		l.addToken(assign)
	} else {
		l.addToken(plain)
	}
}

// ============================================================================
// 注释
// ============================================================================

// comment 跳过注释，调用时 "--" 已被消费
func (l *Lexer) comment() {
	if l.peek() == '[' {
		save, saveCol := l.current, l.column
		l.next()
		if depth, ok := l.longBracket(); ok {
			if _, closed := l.skipLongBracket(depth); !closed {
				l.illegal(i18n.T(i18n.ErrUnfinishedComment))
			}
			return
		}
		l.current, l.column = save, saveCol
	}
	for !l.isAtEnd() && l.peek() != '\n' {
		l.next()
	}
}

// ============================================================================
// 字符串
// ============================================================================

// longBracket 识别长括号的开头部分，调用时第一个 '[' 已被消费
//
// 返回:
//   - int: 等号个数
//   - bool: 是否构成长括号；不构成时不消费任何字符
func (l *Lexer) longBracket() (int, bool) {
	i := l.current
	for i < len(l.source) && l.source[i] == '=' {
		i++
	}
	if i >= len(l.source) || l.source[i] != '[' {
		return 0, false
	}
	depth := i - l.current
	for l.current <= i {
		l.next()
	}
	return depth, true
}

// skipLongBracket 扫描到与 depth 匹配的 ]==]
//
// 返回:
//   - string: 两个长括号之间的原始内容
//   - bool: 是否找到闭合括号
func (l *Lexer) skipLongBracket(depth int) (string, bool) {
	contentStart := l.current
	closing := "]" + strings.Repeat("=", depth) + "]"
	for !l.isAtEnd() {
		if l.peek() == ']' && strings.HasPrefix(l.source[l.current:], closing) {
			content := l.source[contentStart:l.current]
			for i := 0; i < len(closing); i++ {
				l.next()
			}
			return content, true
		}
		l.next()
	}
	return l.source[contentStart:l.current], false
}

// longString 扫描长括号字符串，开头的 [==[ 已被消费
func (l *Lexer) longString(depth int) {
	raw, closed := l.skipLongBracket(depth)
	if !closed {
		l.illegal(i18n.T(i18n.ErrMalformedLongString))
		return
	}

	// 紧跟开括号的第一个换行不属于字符串值
	value := raw
	switch {
	case strings.HasPrefix(value, "\r\n"):
		value = value[2:]
	case strings.HasPrefix(value, "\n"), strings.HasPrefix(value, "\r"):
		value = value[1:]
	}

	l.tokens = append(l.tokens, token.Token{
		Type:    token.RAW_STRING,
		Literal: l.source[l.start:l.current],
		Raw:     raw,
		Value:   value,
		Depth:   depth,
		Loc:     token.Loc(l.startPos, l.pos()),
	})
}

// quotedString 扫描单引号或双引号字符串，开头的引号已被消费
func (l *Lexer) quotedString(quote byte) {
	var value strings.Builder
	malformedEscape := false

	for {
		if l.isAtEnd() || l.peek() == '\n' || l.peek() == '\r' {
			l.illegal(i18n.T(i18n.ErrMalformedString))
			return
		}
		ch := l.next()
		if ch == quote {
			break
		}
		if ch == '\\' {
			if l.isAtEnd() {
				l.illegal(i18n.T(i18n.ErrMalformedString))
				return
			}
			if !l.escape(&value, false) {
				malformedEscape = true
			}
			continue
		}
		value.WriteByte(ch)
	}

	if malformedEscape {
		l.illegal(i18n.T(i18n.ErrMalformedEscape))
		return
	}

	l.tokens = append(l.tokens, token.Token{
		Type:    token.STRING,
		Literal: l.source[l.start:l.current],
		Raw:     l.source[l.start+1 : l.current-1],
		Value:   value.String(),
		Loc:     token.Loc(l.startPos, l.pos()),
	})
}

// interpSegment 扫描插值字符串的一个片段
//
// first 为 true 时开头的 ` 已被消费，否则开头的 } 已被消费。
// 片段以 ` 结束时产生 INTERP_SIMPLE / INTERP_END，以 { 结束时产生
// INTERP_BEGIN / INTERP_MID 并压入插值标记。
func (l *Lexer) interpSegment(first bool) {
	var value strings.Builder
	rawStart := l.current
	malformedEscape := false

	for {
		if l.isAtEnd() || l.peek() == '\n' || l.peek() == '\r' {
			l.illegal(i18n.T(i18n.ErrMalformedInterp))
			return
		}
		ch := l.next()
		switch ch {
		case '\\':
			if l.isAtEnd() {
				l.illegal(i18n.T(i18n.ErrMalformedInterp))
				return
			}
			if !l.escape(&value, true) {
				malformedEscape = true
			}

		case '`':
			typ := token.INTERP_END
			if first {
				typ = token.INTERP_SIMPLE
			}
			l.addInterp(typ, rawStart, value.String(), malformedEscape)
			return

		case '{':
			if l.peek() == '{' {
				l.next()
				l.illegal(i18n.T(i18n.ErrDoubleBrace))
				return
			}
			typ := token.INTERP_MID
			if first {
				typ = token.INTERP_BEGIN
			}
			l.braces = append(l.braces, braceInterp)
			l.addInterp(typ, rawStart, value.String(), malformedEscape)
			return

		default:
			value.WriteByte(ch)
		}
	}
}

// addInterp 添加插值字符串片段 token，Raw 不含两端的定界符
func (l *Lexer) addInterp(typ token.TokenType, rawStart int, value string, malformedEscape bool) {
	if malformedEscape {
		l.illegal(i18n.T(i18n.ErrMalformedEscape))
		return
	}
	l.tokens = append(l.tokens, token.Token{
		Type:    typ,
		Literal: l.source[l.start:l.current],
		Raw:     l.source[rawStart : l.current-1],
		Value:   value,
		Loc:     token.Loc(l.startPos, l.pos()),
	})
}

// escape 解码反斜杠之后的转义序列并写入 b
//
// 返回 false 表示转义序列非法；非法时仍会消费至少一个字符以保证前进。
func (l *Lexer) escape(b *strings.Builder, interp bool) bool {
	ch := l.next()
	switch ch {
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case '\\', '"', '\'':
		b.WriteByte(ch)
	case '\n':
		b.WriteByte('\n')
	case '\r':
		l.match('\n')
		b.WriteByte('\n')
	case 'z':
		for !l.isAtEnd() && isSpace(l.peek()) {
			l.next()
		}
	case 'x':
		if l.current+2 > len(l.source) || !isHexDigit(l.source[l.current]) || !isHexDigit(l.source[l.current+1]) {
			return false
		}
		n, _ := strconv.ParseUint(l.source[l.current:l.current+2], 16, 8)
		l.next()
		l.next()
		b.WriteByte(byte(n))
	case 'u':
		if l.peek() != '{' {
			return false
		}
		l.next()
		digits := l.current
		for !l.isAtEnd() && isHexDigit(l.peek()) {
			l.next()
		}
		if l.current == digits || l.current-digits > 8 || l.peek() != '}' {
			return false
		}
		n, err := strconv.ParseUint(l.source[digits:l.current], 16, 32)
		l.next()
		if err != nil || n > utf8.MaxRune {
			return false
		}
		b.WriteRune(rune(n))
	case '{', '`':
		if !interp {
			return false
		}
		b.WriteByte(ch)
	default:
		if !isDigit(ch) {
			return false
		}
		n := int(ch - '0')
		for i := 0; i < 2 && isDigit(l.peek()); i++ {
			n = n*10 + int(l.next()-'0')
		}
		if n > 255 {
			return false
		}
		b.WriteByte(byte(n))
	}
	return true
}

// ============================================================================
// 数字与标识符
// ============================================================================

// number 扫描数字字面量
//
// 这里只识别"像数字"的字符序列，数值与合法性由语法分析器检查，
// 所以 1..2 会整体成为一个畸形数字而不是 1 .. 2。
func (l *Lexer) number() {
	for isDigit(l.peek()) || l.peek() == '.' || l.peek() == '_' {
		l.next()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.next()
		if l.peek() == '+' || l.peek() == '-' {
			l.next()
		}
	}
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	l.addToken(token.NUMBER)
}

// identifier 扫描标识符或关键字
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	text := l.source[l.start:l.current]
	l.tokens = append(l.tokens, token.Token{
		Type:    token.LookupIdent(text),
		Literal: text,
		Value:   text,
		Loc:     token.Loc(l.startPos, l.pos()),
	})
}

// ============================================================================
// 辅助方法
// ============================================================================

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// next 消费一个字节并维护行列号
func (l *Lexer) next() byte {
	ch := l.source[l.current]
	l.current++
	if ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.next()
	return true
}

func (l *Lexer) pos() token.Position {
	return token.Pos(l.line, l.column)
}

func (l *Lexer) addToken(tokenType token.TokenType) {
	text := l.source[l.start:l.current]
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: text,
		Value:   text,
		Loc:     token.Loc(l.startPos, l.pos()),
	})
}

// illegal 添加 ILLEGAL token 并记录错误
func (l *Lexer) illegal(message string) {
	loc := token.Loc(l.startPos, l.pos())
	l.errors = append(l.errors, Error{Loc: loc, Message: message})
	l.tokens = append(l.tokens, token.Token{
		Type:    token.ILLEGAL,
		Literal: l.source[l.start:l.current],
		Value:   message,
		Loc:     loc,
	})
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}
