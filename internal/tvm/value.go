package tvm

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

type Kind string

const (
	KindInt		Kind	= "int"
	KindCell	Kind	= "cell"
	KindSlice	Kind	= "slice"
	KindTuple	Kind	= "tuple"
	KindNull	Kind	= "null"
	KindUnsupported	Kind	= "unsupported"
)

// Value is one entry of a get-method result stack.
// The set of implementations is closed: Int, Cell, Slice, Tuple, Null, Unsupported.
type Value interface {
	Kind() Kind
	isValue()
}

type Int struct {
	V *big.Int
}

type Cell struct {
	C *cell.Cell
}

type Slice struct {
	S *cell.Slice
}

type Tuple struct {
	Items []Value
}

type Null struct{}

// Unsupported keeps the transport tag of an entry the decoder has no use for
// (continuations, builders and so on).
type Unsupported struct {
	Tag string
}

func (Int) Kind() Kind		{ return KindInt }
func (Cell) Kind() Kind		{ return KindCell }
func (Slice) Kind() Kind	{ return KindSlice }
func (Tuple) Kind() Kind	{ return KindTuple }
func (Null) Kind() Kind		{ return KindNull }
func (Unsupported) Kind() Kind	{ return KindUnsupported }

func (Int) isValue()		{}
func (Cell) isValue()		{}
func (Slice) isValue()		{}
func (Tuple) isValue()		{}
func (Null) isValue()		{}
func (Unsupported) isValue()	{}

func NewInt(v int64) Int {
	return Int{V: big.NewInt(v)}
}

// FromAny converts an element of tonutils-go ExecutionResult.AsTuple() into a Value.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case *big.Int:
		if x == nil {
			return Null{}
		}
		return Int{V: x}
	case *cell.Cell:
		if x == nil {
			return Null{}
		}
		return Cell{C: x}
	case *cell.Slice:
		if x == nil {
			return Null{}
		}
		return Slice{S: x}
	case []any:
		items := make([]Value, 0, len(x))
		for _, it := range x {
			items = append(items, FromAny(it))
		}
		return Tuple{Items: items}
	case Value:
		return x
	default:
		return Unsupported{Tag: fmt.Sprintf("%T", v)}
	}
}

// FromStack converts a whole AsTuple() result.
func FromStack(stack []any) []Value {
	out := make([]Value, 0, len(stack))
	for _, v := range stack {
		out = append(out, FromAny(v))
	}
	return out
}
