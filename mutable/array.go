package mutable

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Array is a raw ordered sequence holding plain Go values or nested raw
// containers. It never holds wrappers.
type Array struct {
	items []any

	// the single wrapper observing this sequence, if any
	wrapper *MutableArray
}

// NewArray creates a raw sequence, converting items with From.
func NewArray(items ...any) *Array {
	a := &Array{items: make([]any, len(items))}
	for i, v := range items {
		a.items[i] = From(v)
	}

	return a
}

func (a *Array) Len() int {
	return len(a.items)
}

// At returns the raw value at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}

	return a.items[i]
}

// SetAt stores v at i, converted with From, growing the sequence with nils
// when i is past the end. It panics if i is negative.
func (a *Array) SetAt(i int, v any) {
	if i < 0 {
		panic(fmt.Sprintf("mutable: negative index %d", i))
	}

	if i >= len(a.items) {
		a.items = append(a.items, make([]any, i-len(a.items)+1)...)
	}

	a.items[i] = From(v)
}

// Items returns a copy of the raw values.
func (a *Array) Items() []any {
	return slices.Clone(a.items)
}

// All iterates over raw index/value pairs.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < len(a.items); i++ {
			if !yield(i, a.items[i]) {
				return
			}
		}
	}
}

func (a *Array) holds(c any) bool {
	for _, v := range a.items {
		if sameContainer(v, c) {
			return true
		}
	}

	return false
}

// MarshalJSON encodes the sequence's data.
func (a *Array) MarshalJSON() ([]byte, error) {
	if a.items == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(a.items)
}
