// Package revision stamps containers with process-wide monotonic version
// numbers so change detection never has to compare contents.
//
// A container is any non-nil pointer. Revisions live in an identity keyed
// side table owned by a Tracker, so the container itself is never
// modified and its serialized form never carries bookkeeping.
package revision

import (
	"reflect"
	"runtime"
	"sync"
	"unsafe"
	"weak"
)

// Untracked is the revision of primitives and of containers that were
// never touched.
const Untracked uint64 = 0

// Revisioned pairs a value with the revision it carried when observed.
type Revisioned struct {
	Value any
	Rev   uint64
}

// Tracked reports whether the value carried a real revision number.
func (r Revisioned) Tracked() bool { return r.Rev != Untracked }

// Proxy is implemented by values whose revision is carried by another
// value, like mutable wrappers and the raw container they observe.
type Proxy interface {
	// Target returns the value holding the revision.
	Target() any

	// TouchTarget stamps the target with the tracker's next revision.
	TouchTarget(t *Tracker)
}

// key identifies a container by address and pointer type: a struct and
// its first field share an address but not a type.
type key struct {
	addr uintptr
	typ  reflect.Type
}

type entry struct {
	rev uint64

	// current address of the referent, 0 once it was reclaimed
	addr func() uintptr
}

type eviction struct {
	key   key
	entry *entry
}

// Tracker owns a monotonic counter and the revision side table.
type Tracker struct {
	mu sync.Mutex

	next    uint64
	entries map[key]*entry
}

// New creates an independent tracker. Most callers want Default.
func New() *Tracker {
	return &Tracker{
		entries: make(map[key]*entry),
	}
}

var defaultTracker = New()

// Default returns the process-wide tracker shared by every wrapper and
// engine that was not configured with its own.
func Default() *Tracker {
	return defaultTracker
}

// Reset forgets every stamp and restarts the counter. Only meant for tests
// that own the tracker.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next = 0
	t.entries = make(map[key]*entry)
}

// Current returns the last revision handed out.
func (t *Tracker) Current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.next
}

// TouchWith stamps p with t's next revision and returns p.
// Every call advances the counter, even for the same container.
func TouchWith[T any](t *Tracker, p *T) *T {
	if p == nil {
		return p
	}

	if proxy, ok := any(p).(Proxy); ok {
		proxy.TouchTarget(t)
		return p
	}

	k := key{addr: uintptr(unsafe.Pointer(p)), typ: reflect.TypeFor[*T]()}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.lookup(k)
	if e == nil {
		wp := weak.Make(p)
		e = &entry{addr: func() uintptr { return uintptr(unsafe.Pointer(wp.Value())) }}
		t.entries[k] = e

		runtime.AddCleanup(p, t.evict, eviction{key: k, entry: e})
	}

	t.next++
	e.rev = t.next

	return p
}

// Revision returns v with its current revision, or Untracked.
func (t *Tracker) Revision(v any) Revisioned {
	return Revisioned{Value: v, Rev: t.revisionOf(v)}
}

// CheckModified compares v against a previously observed value.
//
// With no previous value v is always modified. A tracked v is modified
// when its revision differs from the previous one; anything else compares
// by value, or by reference for maps, slices and funcs. Two distinct
// containers with equal contents are therefore always modified, and a
// container mutated in place is modified only if it was touched since.
func (t *Tracker) CheckModified(v any, old *Revisioned) (Revisioned, bool) {
	next := t.Revision(v)
	if old == nil {
		return next, true
	}

	if next.Tracked() {
		return next, next.Rev != old.Rev
	}

	return next, !SameValue(v, old.Value)
}

func (t *Tracker) revisionOf(v any) uint64 {
	if proxy, ok := v.(Proxy); ok {
		v = proxy.Target()
	}

	k, ok := keyOf(v)
	if !ok {
		return Untracked
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if e := t.lookup(k); e != nil {
		return e.rev
	}

	return Untracked
}

// lookup returns the live entry for k, dropping it if the container it was
// created for is gone and its address got reused.
func (t *Tracker) lookup(k key) *entry {
	e, ok := t.entries[k]
	if !ok {
		return nil
	}

	if e.addr() != k.addr {
		delete(t.entries, k)
		return nil
	}

	return e
}

func (t *Tracker) evict(ev eviction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entries[ev.key] == ev.entry {
		delete(t.entries, ev.key)
	}
}

func keyOf(v any) (key, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return key{}, false
	}

	return key{addr: rv.Pointer(), typ: rv.Type()}, true
}

// Touch stamps p with the default tracker's next revision.
func Touch[T any](p *T) *T {
	return TouchWith(Default(), p)
}

// GetRevision returns v with its revision in the default tracker.
func GetRevision(v any) Revisioned {
	return Default().Revision(v)
}

// CheckModified compares v against old using the default tracker.
func CheckModified(v any, old *Revisioned) (Revisioned, bool) {
	return Default().CheckModified(v, old)
}
