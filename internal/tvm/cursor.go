package tvm

import "errors"

var ErrStackUnderflow = errors.New("stack underflow")

// Cursor walks an ordered sequence of values without modifying it.
type Cursor struct {
	items	[]Value
	pos	int
	reverse	bool
}

// NewCursor reads items front to back, the order a get-method result stack is returned in.
func NewCursor(items []Value) *Cursor {
	return &Cursor{items: items}
}

// NewReverseCursor reads items back to front.
func NewReverseCursor(items []Value) *Cursor {
	return &Cursor{items: items, reverse: true}
}

func (c *Cursor) Pop() (Value, error) {
	if c.pos >= len(c.items) {
		return nil, ErrStackUnderflow
	}

	idx := c.pos
	if c.reverse {
		idx = len(c.items) - 1 - c.pos
	}
	c.pos++

	return c.items[idx], nil
}

func (c *Cursor) Remaining() int {
	return len(c.items) - c.pos
}
