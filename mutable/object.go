package mutable

import (
	"bytes"
	"encoding/json"
	"iter"
	"maps"
	"slices"
)

// Object is a raw record: string keys in insertion order, values that are
// plain Go values or nested raw containers. It never holds wrappers.
//
// Raw accessors do not notify anyone; go through a MutableObject to make
// writes observable.
type Object struct {
	keys   []string
	fields map[string]any

	// the single wrapper observing this record, if any
	wrapper *MutableObject
}

// NewObject creates a raw record from fields, converting nested maps and
// slices with From. Keys are ordered alphabetically since maps have no order.
func NewObject(fields map[string]any) *Object {
	o := &Object{fields: make(map[string]any, len(fields))}

	for _, k := range slices.Sorted(maps.Keys(fields)) {
		o.Set(k, fields[k])
	}

	return o
}

// Get returns the raw value stored at key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Set stores v at key, converting it with From.
func (o *Object) Set(key string, v any) {
	if o.fields == nil {
		o.fields = make(map[string]any)
	}

	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.fields[key] = From(v)
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.fields[key]; !ok {
		return false
	}

	delete(o.fields, key)
	if index := slices.Index(o.keys, key); index != -1 {
		o.keys = slices.Delete(o.keys, index, index+1)
	}

	return true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	return len(o.keys)
}

// All iterates over raw key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range slices.Clone(o.keys) {
			v, ok := o.fields[k]
			if !ok {
				continue
			}

			if !yield(k, v) {
				return
			}
		}
	}
}

// holds reports whether any slot stores the raw container c.
func (o *Object) holds(c any) bool {
	for _, v := range o.fields {
		if sameContainer(v, c) {
			return true
		}
	}

	return false
}

// MarshalJSON encodes the record's data in key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(o.fields[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
