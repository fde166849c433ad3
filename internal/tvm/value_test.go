package tvm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

func TestFromAny(t *testing.T) {
	c := cell.BeginCell().MustStoreUInt(7, 8).EndCell()

	tests := []struct {
		name	string
		in	any
		kind	Kind
	}{
		{name: "nil", in: nil, kind: KindNull},
		{name: "int", in: big.NewInt(42), kind: KindInt},
		{name: "cell", in: c, kind: KindCell},
		{name: "slice", in: c.BeginParse(), kind: KindSlice},
		{name: "tuple", in: []any{big.NewInt(1), nil}, kind: KindTuple},
		{name: "unknown", in: "str", kind: KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, FromAny(tt.in).Kind())
		})
	}
}

func TestFromAnyNestedTuple(t *testing.T) {
	v := FromAny([]any{[]any{big.NewInt(5)}, big.NewInt(6)})

	tup, ok := v.(Tuple)
	require.True(t, ok)
	require.Len(t, tup.Items, 2)

	inner, ok := tup.Items[0].(Tuple)
	require.True(t, ok)
	require.Len(t, inner.Items, 1)
	assert.Equal(t, int64(5), inner.Items[0].(Int).V.Int64())
	assert.Equal(t, int64(6), tup.Items[1].(Int).V.Int64())
}

func TestCursorOrder(t *testing.T) {
	items := []Value{NewInt(1), NewInt(2), NewInt(3)}

	fwd := NewCursor(items)
	rev := NewReverseCursor(items)

	for _, want := range []int64{1, 2, 3} {
		v, err := fwd.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, v.(Int).V.Int64())
	}
	for _, want := range []int64{3, 2, 1} {
		v, err := rev.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, v.(Int).V.Int64())
	}

	_, err := fwd.Pop()
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, 0, rev.Remaining())

	// the underlying slice is untouched
	assert.Len(t, items, 3)
	assert.Equal(t, int64(1), items[0].(Int).V.Int64())
}
