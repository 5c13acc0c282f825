package transpiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/cst"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/parser"
	"github.com/JohnnyMorganz/luau/internal/token"
)

// roundTrip 以精确模式打印，要求输出与输入一致
func roundTrip(t *testing.T, source string, withTypes bool) {
	t.Helper()
	out, err := Transpile(source, parser.Options{}, withTypes)
	require.NoError(t, err)
	assert.Equal(t, source, out)
}

// canonical 解析时不记录 CST，按规范形式打印
func canonical(t *testing.T, source string) string {
	t.Helper()
	result := parser.Parse(source, parser.Options{})
	require.Empty(t, result.Errors)
	return TranspileBlockWithTypes(result.Root, result.Nodes)
}

func expectInternal(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected an internal error")
		_, ok := errors.AsInternal(r)
		assert.True(t, ok, "expected *errors.InternalError, got %T", r)
	}()
	fn()
}

// ============================================================================
// 精确还原
// ============================================================================

func TestRoundTripStatements(t *testing.T) {
	sources := []string{
		"",
		"local x = 1\n",
		"local a, b = 1, 2",
		"local a , b   =   1 ,2",
		"x = y",
		"a.b.c = d[e]",
		"a [ b ] = c . d",
		"a:b(c, d)",
		"print 'hello'",
		"print \"hello\"",
		"f{1, 2}",
		"f()\ng()\n\n\nh()\n",
		"local t = { a = 1, [\"b\"] = 2; 3, }",
		"local t = {}",
		"if a then\n  b()\nelseif c then\n  d()\nelse\n  e()\nend",
		"if a then end",
		"while true do break end",
		"while x do continue end",
		"repeat\n  x += 1\nuntil x > 10",
		"for i = 1, 10, 2 do\nend",
		"for i=1,3 do print(i) end",
		"for k, v in pairs(t) do\n  print(k, v)\nend",
		"do\n  local x = 1\nend",
		"do end",
		"function a.b:c(x, ...)\n  return x, ...\nend",
		"local function f()\nend",
		"local  function f() end",
		"local f = function(a, b) return a + b end",
		"return",
		"a //= 2\nb ..= 'x'\nc ^= 2",
		"local x = 1;",
		"f();g()",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			roundTrip(t, src, false)
		})
	}
}

func TestRoundTripExpressions(t *testing.T) {
	sources := []string{
		"local x = not a and -b or #c",
		"local x = - -y",
		"local x = (1 + 2) * 3",
		"x = ((1))",
		"local n = 0x10 + 1e3 + 3.14 + 1_000",
		"local s = 'a' .. \"b\"",
		"local s = 1 .. 2",
		"local s = [[raw]]",
		"local s = [==[\nraw\n]==]",
		"local s = 'it\\'s'",
		"local s = \"tab\\there\"",
		"local s = `hello {name}, {1 + 2}!`",
		"local s = `plain`",
		"local s = `{a}{b}`",
		"local v = if a then 1 else 2",
		"local v = if a then 1 elseif b then 2 else 3",
		"local v = a == b and c ~= d or e <= f and g >= h",
		"local v = a // b % c ^ d",
		"local v = t.x:y(z).w",
		"local f = function(...) return ... end",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			roundTrip(t, src, false)
		})
	}
}

func TestRoundTripTypes(t *testing.T) {
	sources := []string{
		"local x: number = 1",
		"local a: string, b: boolean? = 'a', nil",
		"type Point = { x: number, y: number }",
		"type Point = { x: number; y: number; }",
		"export type List<T> = { T }",
		"type Map = { [string]: number }",
		"type Props = { [\"weird key\"]: number }",
		"type F = (number, string) -> ...boolean",
		"type F = () -> ()",
		"type F = (x: number, y: string) -> (boolean, number)",
		"type F = <T>(T) -> T",
		"type U = string | number",
		"type U = | string | number",
		"type O = number?",
		"type I = A & B",
		"type S = \"a\" | 'b'",
		"type B = true | false",
		"type G<U, T...> = (T...) -> U",
		"type D<T = string> = { value: T }",
		"type Q = typeof(x)",
		"type R = mod.Type<number, string>",
		"type P = Packed<...number>",
		"type Grouped = (string)",
		"local function f<T>(x: T): T return x end",
		"local function f(...: number): (number, string) end",
		"local y = x :: any",
		"for i: number = 1, 2 do end",
		"for k: string, v: number in next, t do end",
		"type function tf(t)\n  return t\nend",
		"export type function tf(t)\nend",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			roundTrip(t, src, true)
		})
	}
}

func TestRoundTripPreservesTrailingSpace(t *testing.T) {
	roundTrip(t, "local x = 1   ", false)
	roundTrip(t, "\n\nlocal x = 1\n\n", false)
}

// ============================================================================
// 规范形式
// ============================================================================

func TestCanonicalQuoteStyle(t *testing.T) {
	assert.Equal(t, "local s = 'x'", canonical(t, `local s = "x"`))
	// 根块的末尾是源码的末尾，规范文本变短时以空格补齐
	assert.Equal(t, `local s = "it's" `, canonical(t, `local s = 'it\'s'`))
	assert.Equal(t, `local s = 'raw'  `, canonical(t, `local s = [[raw]]`))
	assert.Equal(t, `local s = 'a "b" c'`, canonical(t, `local s = 'a "b" c'`))

	out, err := Transpile(`local s = "x"`, parser.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, `local s = "x"`, out)

	out, err = Transpile(`local s = 'a "b" c'`, parser.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, `local s = 'a "b" c'`, out)
}

func TestCanonicalNumbers(t *testing.T) {
	assert.Equal(t, "x = 16  ", canonical(t, "x = 0x10"))
	assert.Equal(t, "x = 1.5 ", canonical(t, "x = 1.50"))
	assert.Equal(t, "x = 1000 ", canonical(t, "x = 1_000"))
}

func TestCanonicalTableSeparators(t *testing.T) {
	assert.Equal(t, "t = {1, 2, 3}", canonical(t, "t = {1, 2; 3}"))

	out, err := Transpile("t = {1, 2; 3}", parser.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, "t = {1, 2; 3}", out)
}

func TestCanonicalAssignmentSpacing(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"x = 1", "x = 1"},
		{"a, b = 1, 2", "a, b = 1, 2"},
		{"x += 1", "x += 1"},
		{"s ..= 'a'", "s ..= 'a'"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, canonical(t, tt.source), "source %q", tt.source)
	}

	assert.Contains(t, canonical(t, "for i = 1, 2 do end"), "for i = 1, 2 do")
}

func TestCanonicalCallParens(t *testing.T) {
	assert.Equal(t, "print('hello')", canonical(t, "print 'hello'"))
}

func TestCanonicalIfElseExpression(t *testing.T) {
	out := canonical(t, "local v = if a then 1 elseif b then 2 else 3")
	assert.Contains(t, out, "1 else if b then 2 else 3")
}

func TestCanonicalIsStable(t *testing.T) {
	sources := []string{
		"local t = {1, 2; 3}",
		"local s = \"x\" .. [[y]]",
		"print 'hello'",
		"local x: number = 0x10",
		"type U = string | number",
		"x = a.b.c",
		"x += 1",
	}

	for _, src := range sources {
		once := canonical(t, src)
		twice := canonical(t, once)
		assert.Equal(t, once, twice, "source %q", src)
	}
}

func TestTranspileWithoutTypes(t *testing.T) {
	out, err := Transpile("local x: number = 1", parser.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, "local x         = 1", out)

	out, err = Transpile("type T = number\nlocal y = 2", parser.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, "\nlocal y = 2", out)
}

// ============================================================================
// 错误路径
// ============================================================================

func TestTranspileReportsFirstError(t *testing.T) {
	out, err := Transpile("local = 1\nlocal = 2", parser.Options{}, false)
	assert.Empty(t, out)
	require.Error(t, err)

	var perr parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, token.Pos(0, 6), perr.Location.Begin)
}

func TestPrintInterpolatedConstantString(t *testing.T) {
	arena := ast.NewArena(0)
	loc := token.Loc(token.Pos(0, 0), token.Pos(0, 11))
	str := ast.Add(arena, &ast.ExprConstantString{Value: "hi"}, token.Loc(token.Pos(0, 7), token.Pos(0, 11)))
	ret := ast.Add(arena, &ast.StatReturn{List: []ast.Expr{str}}, loc)
	root := ast.Add(arena, &ast.StatBlock{Body: []ast.Stat{ret}}, loc)

	nodes := cst.NewMap()
	nodes.Set(str.ID(), cst.NewExprConstantString("hi", cst.QuoteInterp, 0))

	assert.Equal(t, "return `hi`", TranspileBlock(root, nodes))
	assert.Equal(t, "return 'hi'", TranspileBlock(root, nil))
}

func TestPrintMismatchedDecorationPanics(t *testing.T) {
	arena := ast.NewArena(0)
	loc := token.Loc(token.Pos(0, 0), token.Pos(0, 8))
	num := ast.Add(arena, &ast.ExprConstantNumber{Value: 1}, token.Loc(token.Pos(0, 7), token.Pos(0, 8)))
	ret := ast.Add(arena, &ast.StatReturn{List: []ast.Expr{num}}, loc)
	root := ast.Add(arena, &ast.StatBlock{Body: []ast.Stat{ret}}, loc)

	nodes := cst.NewMap()
	nodes.Set(num.ID(), cst.NewExprOp(token.Pos(0, 7)))

	expectInternal(t, func() { TranspileBlock(root, nodes) })
}

func TestPrintMissingCommaPositionsPanics(t *testing.T) {
	arena := ast.NewArena(0)
	loc := token.Loc(token.Pos(0, 0), token.Pos(0, 12))
	a := ast.Add(arena, &ast.ExprGlobal{Name: "a"}, token.Loc(token.Pos(0, 7), token.Pos(0, 8)))
	b := ast.Add(arena, &ast.ExprGlobal{Name: "b"}, token.Loc(token.Pos(0, 10), token.Pos(0, 11)))
	ret := ast.Add(arena, &ast.StatReturn{List: []ast.Expr{a, b}}, loc)
	root := ast.Add(arena, &ast.StatBlock{Body: []ast.Stat{ret}}, loc)

	nodes := cst.NewMap()
	nodes.Set(ret.ID(), cst.NewStatReturn(nil))

	expectInternal(t, func() { TranspileBlock(root, nodes) })
}

func TestPrintTableItemCountMismatchPanics(t *testing.T) {
	arena := ast.NewArena(0)
	loc := token.Loc(token.Pos(0, 0), token.Pos(0, 10))
	one := ast.Add(arena, &ast.ExprConstantNumber{Value: 1}, token.Loc(token.Pos(0, 8), token.Pos(0, 9)))
	table := ast.Add(arena, &ast.ExprTable{Items: []ast.TableItem{{Kind: ast.TableItemList, Value: one}}},
		token.Loc(token.Pos(0, 7), token.Pos(0, 10)))
	ret := ast.Add(arena, &ast.StatReturn{List: []ast.Expr{table}}, loc)
	root := ast.Add(arena, &ast.StatBlock{Body: []ast.Stat{ret}}, loc)

	nodes := cst.NewMap()
	nodes.Set(table.ID(), cst.NewExprTable(nil))

	expectInternal(t, func() { TranspileBlock(root, nodes) })
}

// ============================================================================
// 合成节点
// ============================================================================

func TestSynthesizedNumbers(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{3, "3"},
		{-7, "-7"},
		{3.5, "3.5"},
		{math.Inf(1), "1e500"},
		{math.Inf(-1), "-1e500"},
		{math.NaN(), "0/0"},
		{math.Copysign(0, -1), "-0"},
		{2147483648, "2.147483648e+09"},
		{1e300, "1e+300"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToString(&ast.ExprConstantNumber{Value: tt.value}))
	}
}

func TestSynthesizedTree(t *testing.T) {
	// 未登记的节点没有位置，全部按规范规则补空格
	local := &ast.Local{Name: "x"}
	stat := &ast.StatLocal{
		Vars:               []*ast.Local{local},
		Values:             []ast.Expr{&ast.ExprConstantString{Value: "hi"}},
		EqualsSignLocation: &token.Location{},
	}
	root := &ast.StatBlock{Body: []ast.Stat{
		stat,
		&ast.StatReturn{List: []ast.Expr{&ast.ExprLocal{Local: local}, &ast.ExprConstantNil{}}},
	}}

	assert.Equal(t, "local x='hi'return x,nil", TranspileBlock(root, nil))
}

func TestToString(t *testing.T) {
	result := parser.Parse("local x = 1\nlocal f = function()\n  return 1\nend", parser.Options{})
	require.Empty(t, result.Errors)
	require.Len(t, result.Root.Body, 2)

	assert.Equal(t, "local x = 1", ToString(result.Root.Body[0]))

	fn := result.Root.Body[1].(*ast.StatLocal).Values[0]
	assert.Equal(t, "function()\n  return 1\nend", ToString(fn))
}

func TestToStringType(t *testing.T) {
	result := parser.Parse("local x: {number} = {}", parser.Options{})
	require.Empty(t, result.Errors)

	local := result.Root.Body[0].(*ast.StatLocal)
	assert.Equal(t, "{number}", ToString(local.Vars[0].Annotation))
}
