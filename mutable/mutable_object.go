package mutable

import (
	"iter"

	"github.com/AnatoleLucet/velo/revision"
)

// MutableObject is the observable view of a raw record.
type MutableObject struct {
	core

	raw *Object
}

// Raw returns the observed record.
func (m *MutableObject) Raw() *Object {
	return m.raw
}

// Target implements revision.Proxy.
func (m *MutableObject) Target() any {
	if m == nil {
		return nil
	}

	return m.raw
}

// TouchTarget implements revision.Proxy.
func (m *MutableObject) TouchTarget(t *revision.Tracker) {
	revision.TouchWith(t, m.raw)
}

// Get returns the value at key, nested containers as wrappers.
func (m *MutableObject) Get(key string) any {
	v, _ := m.Lookup(key)
	return v
}

// Lookup is Get reporting whether key is present.
func (m *MutableObject) Lookup(key string) (any, bool) {
	v, ok := m.raw.Get(key)
	if !ok {
		return nil, false
	}

	return m.project(v), true
}

// Has reports whether key is present.
func (m *MutableObject) Has(key string) bool {
	return m.raw.Has(key)
}

// Set stores v at key and notifies. Wrappers are stored as their raw
// container and plain maps and slices are converted with From. A container
// previously stored at key stops notifying this record.
func (m *MutableObject) Set(key string, v any) {
	old, had := m.raw.Get(key)

	v = From(v)
	m.raw.Set(key, v)

	if had {
		m.detach(old, m.raw.holds)
	}
	m.link(v)

	m.notify()
}

// Delete removes key and notifies, reporting whether key was present.
func (m *MutableObject) Delete(key string) bool {
	old, had := m.raw.Get(key)

	m.raw.Delete(key)

	if had {
		m.detach(old, m.raw.holds)
	}

	m.notify()
	return had
}

// Keys returns the keys in insertion order.
func (m *MutableObject) Keys() []string {
	return m.raw.Keys()
}

func (m *MutableObject) Len() int {
	return m.raw.Len()
}

// All iterates over key/value pairs, nested containers as wrappers.
func (m *MutableObject) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range m.raw.All() {
			if !yield(k, m.project(v)) {
				return
			}
		}
	}
}

// MarshalJSON encodes the raw record.
func (m *MutableObject) MarshalJSON() ([]byte, error) {
	return m.raw.MarshalJSON()
}
