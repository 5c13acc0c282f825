package transpiler

import (
	"strconv"
	"strings"

	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// ============================================================================
// Writer 带位置跟踪的输出缓冲
// ============================================================================
//
// Writer 记录当前输出位置与最后写出的字符。打印器用 Advance 把光标推进到
// 节点在源码中的位置，从而还原原有的换行与缩进；Keyword / Identifier /
// Symbol / Literal 在必要时补一个空格，保证相邻 token 不会粘连成别的 token。
//
// 位置只会前进：Advance 到已经越过的位置不做任何事。
//
// ============================================================================

// Writer 输出缓冲
type Writer struct {
	buf         strings.Builder
	pos         token.Position
	lastChar    byte
	lastNumeric bool // 最后一个 token 是数字字面量
}

// NewWriter 创建一个从 (0, 0) 开始的 Writer
func NewWriter() *Writer {
	return &Writer{}
}

// newWriterAt 创建一个从指定位置开始的 Writer
func newWriterAt(pos token.Position) *Writer {
	return &Writer{pos: pos}
}

// String 返回已写出的文本
func (w *Writer) String() string {
	return w.buf.String()
}

// Position 返回当前输出位置
func (w *Writer) Position() token.Position {
	return w.pos
}

// Advance 输出换行直到行号一致，再输出空格直到列号一致
func (w *Writer) Advance(target token.Position) {
	for w.pos.Line < target.Line {
		w.Newline()
	}
	if w.pos.Column < target.Column {
		w.write(strings.Repeat(" ", target.Column-w.pos.Column))
	}
}

// Newline 输出一个换行
func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
	w.pos.Line++
	w.pos.Column = 0
	w.lastChar = '\n'
	w.lastNumeric = false
}

// Space 输出一个空格
func (w *Writer) Space() {
	w.write(" ")
}

// MaybeSpace 当前列加上 reserve 仍在 next 之前时输出一个空格
//
// reserve 是接下来要写出的符号宽度加一。
func (w *Writer) MaybeSpace(next token.Position, reserve int) {
	if w.pos.Column+reserve < next.Column {
		w.Space()
	}
}

// Keyword 输出关键字
func (w *Writer) Keyword(s string) {
	if s == "" {
		return
	}
	if isIdentifierChar(w.lastChar) {
		w.Space()
	}
	w.write(s)
}

// Identifier 输出名字
func (w *Writer) Identifier(s string) {
	w.Keyword(s)
}

// Symbol 输出符号
//
// 数字字面量之后的 . 前补空格，避免 1 .. x 变成 1..x；
// - 之后的 - 前补空格，避免形成注释。
func (w *Writer) Symbol(s string) {
	if s == "" {
		return
	}
	w.guard(s[0])
	w.write(s)
}

// Literal 输出数字字面量
func (w *Writer) Literal(s string) {
	if s == "" {
		return
	}
	if isIdentifierChar(w.lastChar) && isDigit(s[0]) {
		w.Space()
	}
	w.guard(s[0])
	w.write(s)
	w.lastNumeric = true
}

// QuotedString 以规范形式输出字符串常量
//
// 默认使用单引号；值中含有单引号而不含双引号时改用双引号。
func (w *Writer) QuotedString(value string) {
	quote := byte('\'')
	if strings.IndexByte(value, '\'') >= 0 && strings.IndexByte(value, '"') < 0 {
		quote = '"'
	}
	w.write(string(quote))
	w.write(escape(value, quote, false))
	w.write(string(quote))
}

// SourceString 按原样输出字符串常量的源文本
func (w *Writer) SourceString(raw string, style cst.QuoteStyle, depth int) {
	switch style {
	case cst.QuoteRaw:
		eq := strings.Repeat("=", depth)
		w.write("[" + eq + "[")
		w.writeMultiline(raw)
		w.write("]" + eq + "]")
	case cst.QuoteSingle:
		w.write("'")
		w.writeMultiline(raw)
		w.write("'")
	case cst.QuoteDouble:
		w.write("\"")
		w.writeMultiline(raw)
		w.write("\"")
	case cst.QuoteInterp:
		w.write("`")
		w.writeMultiline(raw)
		w.write("`")
	}
}

// guard 在 s 以 c 开头时补上防止 token 粘连的空格
func (w *Writer) guard(c byte) {
	switch {
	case c == '.' && w.lastNumeric && isDigit(w.lastChar):
		w.Space()
	case c == '-' && w.lastChar == '-':
		w.Space()
	}
}

// write 输出不含换行的文本
func (w *Writer) write(s string) {
	if s == "" {
		return
	}
	w.buf.WriteString(s)
	w.pos.Column += len(s)
	w.lastChar = s[len(s)-1]
	w.lastNumeric = false
}

// writeMultiline 输出可能含有换行的原始文本，并同步行列号
func (w *Writer) writeMultiline(s string) {
	if s == "" {
		return
	}
	w.buf.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		w.pos.Line += strings.Count(s, "\n")
		w.pos.Column = len(s) - i - 1
	} else {
		w.pos.Column += len(s)
	}
	w.lastChar = s[len(s)-1]
	w.lastNumeric = false
}

// ============================================================================
// 转义
// ============================================================================

// escape 把字符串值转义为可放入引号之间的源文本
//
// 参数:
//   - s: 字符串值
//   - quote: 外层引号字符
//   - interp: 为 true 时按插值字符串转义 ` 与 {
func escape(s string, quote byte, interp bool) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\', c == quote, interp && (c == '`' || c == '{'):
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < ' ' || c == 0x7f:
			b.WriteByte('\\')
			switch c {
			case '\a':
				b.WriteByte('a')
			case '\b':
				b.WriteByte('b')
			case '\f':
				b.WriteByte('f')
			case '\n':
				b.WriteByte('n')
			case '\r':
				b.WriteByte('r')
			case '\t':
				b.WriteByte('t')
			case '\v':
				b.WriteByte('v')
			default:
				d := strconv.Itoa(int(c))
				b.WriteString(strings.Repeat("0", 3-len(d)))
				b.WriteString(d)
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentifierChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || isDigit(c)
}
