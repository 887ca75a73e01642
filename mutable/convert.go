package mutable

import (
	"encoding/json"
	"fmt"
)

// From converts plain Go trees into raw containers: map[string]any becomes
// an *Object, []any an *Array, recursively. Wrappers become their raw
// container and anything else is returned unchanged.
func From(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return NewObject(v)
	case []any:
		return NewArray(v...)
	}

	return unwrap(v)
}

// Parse decodes JSON into raw containers.
func Parse(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("mutable: parse: %w", err)
	}

	return From(v), nil
}

func unwrap(v any) any {
	if m, ok := asMutable(v); ok {
		return m.Target()
	}

	return v
}

// asMutable is a type assertion to Mutable that rejects nil wrappers.
func asMutable(v any) (Mutable, bool) {
	switch m := v.(type) {
	case *MutableObject:
		return m, m != nil
	case *MutableArray:
		return m, m != nil
	}

	return nil, false
}

// wrapperOf returns the cached wrapper of a raw container, or nil.
func wrapperOf(v any) Mutable {
	switch raw := v.(type) {
	case *Object:
		if raw != nil && raw.wrapper != nil {
			return raw.wrapper
		}
	case *Array:
		if raw != nil && raw.wrapper != nil {
			return raw.wrapper
		}
	}

	return nil
}

// sameContainer reports whether a and b are the same raw container.
// Plain values never are, so uncomparable ones are never compared.
func sameContainer(a, b any) bool {
	switch a := a.(type) {
	case *Object:
		b, ok := b.(*Object)
		return ok && a == b
	case *Array:
		b, ok := b.(*Array)
		return ok && a == b
	}

	return false
}
