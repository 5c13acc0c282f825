package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyMorganz/luau/internal/ast"
	"github.com/JohnnyMorganz/luau/internal/errors"
	"github.com/JohnnyMorganz/luau/internal/token"
)

func pos(l, c int) *token.Position {
	p := token.Pos(l, c)
	return &p
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

func TestAsMatchesKind(t *testing.T) {
	var n Node = NewExprOp(token.Pos(0, 2))

	op, ok := As[*ExprOp](n)
	require.True(t, ok)
	assert.Equal(t, token.Pos(0, 2), op.OpPosition)

	_, ok = As[*ExprCall](n)
	assert.False(t, ok)

	_, ok = As[*ExprOp](nil)
	assert.False(t, ok)
}

func TestKindOnNilPointer(t *testing.T) {
	var call *ExprCall
	assert.Equal(t, KindExprCall, call.Kind())
	assert.Equal(t, "ExprCall", call.Kind().String())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}

func TestMapSetLookup(t *testing.T) {
	m := NewMap()
	m.Set(3, NewStatDo(token.Pos(2, 0)))

	assert.Equal(t, 1, m.Len())
	assert.Nil(t, m.Lookup(4))
	assert.Nil(t, m.Lookup(0))

	do, ok := Find[*StatDo](m, 3)
	require.True(t, ok)
	assert.Equal(t, token.Pos(2, 0), do.EndPosition)

	_, ok = Find[*StatDo](m, 9)
	assert.False(t, ok)
}

func TestFindWrongKindIsInternal(t *testing.T) {
	m := NewMap()
	m.Set(1, NewStatDo(token.Pos(0, 0)))
	expectInternal(t, func() { Find[*StatRepeat](m, 1) })
}

func TestMapInvariants(t *testing.T) {
	m := NewMap()
	m.Set(1, NewStatReturn(nil))

	expectInternal(t, func() { m.Set(1, NewStatReturn(nil)) })
	expectInternal(t, func() { m.Set(0, NewStatReturn(nil)) })
	expectInternal(t, func() { m.Set(2, nil) })
	expectInternal(t, func() { Disabled().Set(1, NewStatReturn(nil)) })
}

func TestDisabledMap(t *testing.T) {
	for _, m := range []*Map{Disabled(), nil} {
		assert.True(t, m.IsDisabled())
		assert.Nil(t, m.Lookup(1))
		assert.Zero(t, m.Len())
		_, ok := Find[*ExprCall](m, 1)
		assert.False(t, ok)
	}
	assert.False(t, NewMap().IsDisabled())
}

func TestConstructorValidation(t *testing.T) {
	t.Run("string depth only on raw strings", func(t *testing.T) {
		s := NewExprConstantString("x", QuoteRaw, 2)
		assert.Equal(t, 2, s.BlockDepth)
		expectInternal(t, func() { NewExprConstantString("x", QuoteDouble, 1) })
		expectInternal(t, func() { NewExprConstantString("x", QuoteInterp, 1) })
		assert.Equal(t, QuoteInterp, NewExprConstantString("x", QuoteInterp, 0).QuoteStyle)
		// 类型位置不允许插值字符串
		expectInternal(t, func() { NewTypeSingletonString("x", QuoteInterp, 0) })
	})

	t.Run("call parentheses in pairs", func(t *testing.T) {
		c := NewExprCall(nil, nil, nil)
		assert.Nil(t, c.OpenParens)
		expectInternal(t, func() { NewExprCall(pos(0, 1), nil, nil) })
	})

	t.Run("table items", func(t *testing.T) {
		items := []TableItem{
			{Kind: ast.TableItemList, Separator: SeparatorComma, SeparatorPosition: pos(0, 2)},
			{Kind: ast.TableItemRecord, EqualsPosition: pos(0, 6), Separator: SeparatorSemicolon, SeparatorPosition: pos(0, 8)},
			{Kind: ast.TableItemGeneral, IndexerOpenPosition: pos(0, 10), IndexerClosePosition: pos(0, 12), EqualsPosition: pos(0, 14)},
		}
		assert.Len(t, NewExprTable(items).Items, 3)

		expectInternal(t, func() { NewExprTable([]TableItem{{Kind: ast.TableItemRecord}}) })
		expectInternal(t, func() { NewExprTable([]TableItem{{Kind: ast.TableItemGeneral, EqualsPosition: pos(0, 1)}}) })
		expectInternal(t, func() { NewExprTable([]TableItem{{Kind: ast.TableItemList, Separator: SeparatorComma}}) })
	})

	t.Run("interpolated segments", func(t *testing.T) {
		s := NewExprInterpString([]string{"a", "b"}, []token.Position{token.Pos(0, 0), token.Pos(0, 4)})
		assert.Len(t, s.SourceStrings, 2)
		expectInternal(t, func() { NewExprInterpString([]string{"a"}, nil) })
		expectInternal(t, func() { NewExprInterpString(nil, nil) })
	})

	t.Run("table types", func(t *testing.T) {
		expectInternal(t, func() {
			NewTypeTable(TypeTable{IsArray: true, Items: []TypeTableItem{{Kind: TypeTableProperty}}})
		})
		expectInternal(t, func() {
			NewTypeTable(TypeTable{Items: []TypeTableItem{{Kind: TypeTableIndexer}}})
		})
		expectInternal(t, func() {
			NewTypeTable(TypeTable{Items: []TypeTableItem{{
				Kind: TypeTableStringProperty, IndexerOpenPosition: pos(0, 1), IndexerClosePosition: pos(0, 5),
			}}})
		})
	})

	t.Run("generic brackets in pairs", func(t *testing.T) {
		expectInternal(t, func() { NewExprFunction(ExprFunction{OpenGenericsPosition: pos(0, 1)}) })
		expectInternal(t, func() { NewStatTypeAlias(StatTypeAlias{GenericsClosePosition: pos(0, 1)}) })
		expectInternal(t, func() { NewTypeFunction(TypeFunction{CloseGenericsPosition: pos(0, 1)}) })
		expectInternal(t, func() { NewTypeReference(TypeReference{OpenParametersPosition: pos(0, 1)}) })
	})
}

func TestSeparatorText(t *testing.T) {
	assert.Equal(t, ",", SeparatorComma.Text())
	assert.Equal(t, ";", SeparatorSemicolon.Text())
	assert.Equal(t, "", SeparatorNone.Text())
}
