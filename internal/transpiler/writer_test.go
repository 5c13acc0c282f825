package transpiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/token"
)

func TestWriterAdvance(t *testing.T) {
	w := NewWriter()
	w.Advance(token.Pos(2, 3))
	w.Keyword("x")
	assert.Equal(t, "\n\n   x", w.String())
	assert.Equal(t, token.Pos(2, 4), w.Position())

	// 已经越过的位置不产生输出
	w.Advance(token.Pos(1, 0))
	w.Advance(token.Pos(2, 1))
	assert.Equal(t, "\n\n   x", w.String())
}

func TestWriterStartsAtPosition(t *testing.T) {
	w := newWriterAt(token.Pos(4, 8))
	w.Advance(token.Pos(4, 8))
	w.Keyword("return")
	assert.Equal(t, "return", w.String())
	assert.Equal(t, token.Pos(4, 14), w.Position())
}

func TestWriterSeparatesWords(t *testing.T) {
	w := NewWriter()
	w.Keyword("local")
	w.Identifier("x")
	w.Symbol("=")
	w.Literal("1")
	assert.Equal(t, "local x=1", w.String())

	w = NewWriter()
	w.Identifier("a")
	w.Literal("1")
	w.Symbol("(")
	w.Literal("2")
	assert.Equal(t, "a 1(2", w.String())

	w = NewWriter()
	w.Newline()
	w.Keyword("end")
	assert.Equal(t, "\nend", w.String())
}

func TestWriterGuards(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{"number then concat", func(w *Writer) { w.Literal("1"); w.Symbol("..") }, "1 .."},
		{"float then concat", func(w *Writer) { w.Literal("1.5"); w.Symbol("..") }, "1.5 .."},
		{"name ending in digit then dot", func(w *Writer) { w.Identifier("a1"); w.Symbol("."); w.Identifier("b") }, "a1.b"},
		{"closing paren then dot", func(w *Writer) { w.Literal("1"); w.Symbol(")"); w.Symbol(".") }, "1)."},
		{"minus minus", func(w *Writer) { w.Symbol("-"); w.Symbol("-"); w.Identifier("x") }, "- -x"},
		{"minus then negative literal", func(w *Writer) { w.Symbol("-"); w.Literal("-1") }, "- -1"},
		{"minus then name", func(w *Writer) { w.Symbol("-"); w.Identifier("x") }, "-x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.write(w)
			assert.Equal(t, tt.want, w.String())
		})
	}
}

func TestWriterMaybeSpace(t *testing.T) {
	w := NewWriter()
	w.Identifier("a")
	w.MaybeSpace(token.Pos(0, 5), 2)
	assert.Equal(t, "a ", w.String())

	w = NewWriter()
	w.Identifier("a")
	w.MaybeSpace(token.Pos(0, 5), 4)
	assert.Equal(t, "a", w.String())
}

func TestWriterQuotedString(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"hello", `'hello'`},
		{"it's", `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`a "b" c`, `'a "b" c'`},
		{`a'b"c`, `'a\'b"c'`},
		{"back\\slash", `'back\\slash'`},
		{"x\ny\tz", `'x\ny\tz'`},
		{"\a\b\f\r\v", `'\a\b\f\r\v'`},
		{"\x01", `'\001'`},
		{"\x7f", `'\127'`},
		{"", `''`},
	}

	for _, tt := range tests {
		w := NewWriter()
		w.QuotedString(tt.value)
		assert.Equal(t, tt.want, w.String(), "value %q", tt.value)
	}
}

func TestWriterSourceString(t *testing.T) {
	w := NewWriter()
	w.SourceString("text", cst.QuoteRaw, 2)
	assert.Equal(t, "[==[text]==]", w.String())

	w = NewWriter()
	w.SourceString("a\nbc", cst.QuoteRaw, 0)
	assert.Equal(t, "[[a\nbc]]", w.String())
	assert.Equal(t, token.Pos(1, 4), w.Position())

	w = NewWriter()
	w.SourceString(`it\'s`, cst.QuoteSingle, 0)
	w.SourceString(`x`, cst.QuoteDouble, 0)
	w.SourceString(`y`, cst.QuoteInterp, 0)
	assert.Equal(t, `'it\'s'"x"`+"`y`", w.String())
}

func TestEscapeInterp(t *testing.T) {
	assert.Equal(t, "a\\{b\\`c", escape("a{b`c", '`', true))
	assert.Equal(t, "a{b`c", escape("a{b`c", '\'', false))
	assert.Equal(t, "}", escape("}", '`', true))
}
