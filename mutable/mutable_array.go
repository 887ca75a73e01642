package mutable

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/AnatoleLucet/velo/revision"
)

// MutableArray is the observable view of a raw sequence.
//
// Positions given to Splice, Fill and CopyWithin are relative: a negative
// position counts from the end, and positions are clamped to the bounds.
type MutableArray struct {
	core

	raw *Array
}

// Raw returns the observed sequence.
func (m *MutableArray) Raw() *Array {
	return m.raw
}

// Target implements revision.Proxy.
func (m *MutableArray) Target() any {
	if m == nil {
		return nil
	}

	return m.raw
}

// TouchTarget implements revision.Proxy.
func (m *MutableArray) TouchTarget(t *revision.Tracker) {
	revision.TouchWith(t, m.raw)
}

func (m *MutableArray) Len() int {
	return m.raw.Len()
}

// At returns the value at i, nested containers as wrappers, or nil when i
// is out of range.
func (m *MutableArray) At(i int) any {
	return m.project(m.raw.At(i))
}

// Set stores v at i and notifies, growing the sequence when i is past the end.
// It panics if i is negative, leaving the sequence untouched.
func (m *MutableArray) Set(i int, v any) {
	old := m.raw.At(i)

	v = From(v)
	m.raw.SetAt(i, v)

	m.detach(old, m.raw.holds)
	m.link(v)

	m.notify()
}

// Push appends values and returns the new length.
func (m *MutableArray) Push(values ...any) int {
	for _, v := range values {
		v = From(v)
		m.raw.items = append(m.raw.items, v)
		m.link(v)
	}

	m.notify()
	return m.raw.Len()
}

// Pop removes and returns the last value, nil when empty.
func (m *MutableArray) Pop() any {
	n := m.raw.Len()
	if n == 0 {
		m.notify()
		return nil
	}

	last := m.raw.items[n-1]
	v := m.project(last)

	m.raw.items = slices.Delete(m.raw.items, n-1, n)
	m.detach(last, m.raw.holds)

	m.notify()
	return v
}

// Shift removes and returns the first value, nil when empty.
func (m *MutableArray) Shift() any {
	if m.raw.Len() == 0 {
		m.notify()
		return nil
	}

	first := m.raw.items[0]
	v := m.project(first)

	m.raw.items = slices.Delete(m.raw.items, 0, 1)
	m.detach(first, m.raw.holds)

	m.notify()
	return v
}

// Unshift prepends values and returns the new length.
func (m *MutableArray) Unshift(values ...any) int {
	inserted := fromAll(values)
	m.raw.items = slices.Insert(m.raw.items, 0, inserted...)

	for _, v := range inserted {
		m.link(v)
	}

	m.notify()
	return m.raw.Len()
}

// Splice removes deleteCount values at start, inserts values in their
// place and returns the removed values.
func (m *MutableArray) Splice(start, deleteCount int, values ...any) []any {
	n := m.raw.Len()
	start = relative(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removedRaw := slices.Clone(m.raw.items[start : start+deleteCount])
	removed := make([]any, len(removedRaw))
	for i, v := range removedRaw {
		removed[i] = m.project(v)
	}

	inserted := fromAll(values)
	m.raw.items = slices.Replace(m.raw.items, start, start+deleteCount, inserted...)

	for _, v := range removedRaw {
		m.detach(v, m.raw.holds)
	}
	for _, v := range inserted {
		m.link(v)
	}

	m.notify()
	return removed
}

// Sort sorts the values in place with a stable sort. compare receives
// values as At returns them. A nil compare orders by the values' default
// string formatting.
func (m *MutableArray) Sort(compare func(a, b any) int) {
	type entry struct {
		raw  any
		view any
	}

	entries := make([]entry, m.raw.Len())
	for i, v := range m.raw.items {
		entries[i] = entry{raw: v, view: m.project(v)}
	}

	if compare == nil {
		slices.SortStableFunc(entries, func(a, b entry) int {
			return cmp.Compare(fmt.Sprint(a.raw), fmt.Sprint(b.raw))
		})
	} else {
		slices.SortStableFunc(entries, func(a, b entry) int {
			return compare(a.view, b.view)
		})
	}

	for i, e := range entries {
		m.raw.items[i] = e.raw
	}

	m.notify()
}

// Reverse reverses the values in place.
func (m *MutableArray) Reverse() {
	slices.Reverse(m.raw.items)
	m.notify()
}

// Fill stores v at every position in [start, end).
func (m *MutableArray) Fill(v any, start, end int) {
	n := m.raw.Len()
	start, end = relative(start, n), relative(end, n)
	v = From(v)

	var overwritten []any
	for i := start; i < end; i++ {
		overwritten = append(overwritten, m.raw.items[i])
		m.raw.items[i] = v
	}

	for _, old := range overwritten {
		m.detach(old, m.raw.holds)
	}
	if start < end {
		m.link(v)
	}

	m.notify()
}

// CopyWithin copies the values in [start, end) to position target,
// overwriting what was there, without changing the length.
func (m *MutableArray) CopyWithin(target, start, end int) {
	n := m.raw.Len()
	target, start, end = relative(target, n), relative(start, n), relative(end, n)

	count := min(end-start, n-target)
	if count > 0 {
		overwritten := slices.Clone(m.raw.items[target : target+count])
		copy(m.raw.items[target:target+count], m.raw.items[start:start+count])

		for _, old := range overwritten {
			m.detach(old, m.raw.holds)
		}
	}

	m.notify()
}

// Map returns a derived sequence of fn's results. The derived wrapper
// notifies this sequence, so mutations reached through it are seen by
// this sequence's listeners.
func (m *MutableArray) Map(fn func(v any, i int) any) *MutableArray {
	items := make([]any, 0, m.raw.Len())
	for i, v := range m.raw.Items() {
		items = append(items, From(fn(m.project(v), i)))
	}

	return m.derive(items)
}

// FlatMap is Map flattening sequences returned by fn one level.
func (m *MutableArray) FlatMap(fn func(v any, i int) any) *MutableArray {
	items := make([]any, 0, m.raw.Len())
	for i, v := range m.raw.Items() {
		switch r := From(fn(m.project(v), i)).(type) {
		case *Array:
			items = append(items, r.items...)
		default:
			items = append(items, r)
		}
	}

	return m.derive(items)
}

// Flat returns a derived sequence with nested sequences flattened up to
// depth levels.
func (m *MutableArray) Flat(depth int) *MutableArray {
	return m.derive(flatten(m.raw.Items(), depth))
}

// Filter returns a derived sequence of the values pred accepts. pred
// receives exactly the instances At returns.
func (m *MutableArray) Filter(pred func(v any, i int) bool) *MutableArray {
	items := make([]any, 0, m.raw.Len())
	for i, v := range m.raw.Items() {
		if pred(m.project(v), i) {
			items = append(items, v)
		}
	}

	return m.derive(items)
}

// All iterates over index/value pairs, nested containers as wrappers.
func (m *MutableArray) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i, v := range m.raw.All() {
			if !yield(i, m.project(v)) {
				return
			}
		}
	}
}

// MarshalJSON encodes the raw sequence.
func (m *MutableArray) MarshalJSON() ([]byte, error) {
	return m.raw.MarshalJSON()
}

func (m *MutableArray) derive(items []any) *MutableArray {
	return m.factory.wrapArray(&Array{items: items}, m.changed)
}

func flatten(items []any, depth int) []any {
	out := make([]any, 0, len(items))
	for _, v := range items {
		if nested, ok := v.(*Array); ok && depth > 0 {
			out = append(out, flatten(nested.items, depth-1)...)
			continue
		}

		out = append(out, v)
	}

	return out
}

func fromAll(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = From(v)
	}

	return out
}

// relative resolves a possibly negative position against length n.
func relative(i, n int) int {
	if i < 0 {
		return max(n+i, 0)
	}

	return min(i, n)
}
