// Package mutable makes nested records and sequences observable.
//
// A wrapper is an observable view over one raw container. Reads project
// nested raw containers into wrappers, created on first access and cached
// on the raw container so the same slot always yields the same instance.
// Writes store raw values and fire the wrapper's change notifier, which
// re-touches the raw container's revision and notifies its listeners. A
// child wrapper listens to nothing but holds its parent's notifier, so a
// mutation deep in a tree bumps the revision of every ancestor and leaves
// sibling subtrees alone.
package mutable

import (
	"github.com/AnatoleLucet/velo/revision"
)

// Mutable is implemented by *MutableObject and *MutableArray.
type Mutable interface {
	revision.Proxy

	// AddListener registers l to be notified after every mutation.
	AddListener(l *Listener)

	// RemoveListener unregisters l.
	RemoveListener(l *Listener)

	// Changed returns the wrapper's own change notifier.
	Changed() *Listener

	observable()
}

// Factory creates wrappers stamping revisions on a given tracker.
type Factory struct {
	revisions *revision.Tracker
}

// NewFactory creates a factory using t for revisions.
func NewFactory(t *revision.Tracker) *Factory {
	return &Factory{revisions: t}
}

var defaultFactory = NewFactory(revision.Default())

// Default returns the factory backed by the default revision tracker.
func Default() *Factory {
	return defaultFactory
}

// Revisions returns the tracker the factory stamps.
func (f *Factory) Revisions() *revision.Tracker {
	return f.revisions
}

// Wrap returns the observable wrapper of a raw container.
//
// Non-containers and wrappers are returned unchanged. A raw container that
// was already wrapped returns its existing wrapper. Otherwise a new wrapper
// is created with notifyParent as its first listener, and children that
// are already wrapped start notifying it.
func (f *Factory) Wrap(raw any, notifyParent *Listener) any {
	switch raw := raw.(type) {
	case *Object:
		if raw == nil {
			return raw
		}
		return f.wrapObject(raw, notifyParent)
	case *Array:
		if raw == nil {
			return raw
		}
		return f.wrapArray(raw, notifyParent)
	}

	return raw
}

// WrapObject is Wrap for a raw record without parent.
func (f *Factory) WrapObject(raw *Object) *MutableObject {
	return f.wrapObject(raw, nil)
}

// WrapArray is Wrap for a raw sequence without parent.
func (f *Factory) WrapArray(raw *Array) *MutableArray {
	return f.wrapArray(raw, nil)
}

// Of converts v with From and wraps the result.
func (f *Factory) Of(v any) any {
	return f.Wrap(From(v), nil)
}

func (f *Factory) wrapObject(raw *Object, notifyParent *Listener) *MutableObject {
	if raw.wrapper != nil {
		return raw.wrapper
	}

	w := &MutableObject{raw: raw}
	w.init(f, notifyParent, func() { revision.TouchWith(f.revisions, raw) })

	for _, v := range raw.All() {
		w.link(v)
	}

	raw.wrapper = w
	return w
}

func (f *Factory) wrapArray(raw *Array, notifyParent *Listener) *MutableArray {
	if raw.wrapper != nil {
		return raw.wrapper
	}

	w := &MutableArray{raw: raw}
	w.init(f, notifyParent, func() { revision.TouchWith(f.revisions, raw) })

	for _, v := range raw.All() {
		w.link(v)
	}

	raw.wrapper = w
	return w
}

// core is the bookkeeping shared by both wrapper kinds.
type core struct {
	factory   *Factory
	listeners listenerSet
	changed   *Listener
	touch     func()
}

func (c *core) init(f *Factory, notifyParent *Listener, touch func()) {
	c.factory = f
	c.touch = touch
	c.listeners = newListenerSet(notifyParent)
	c.changed = NewListener(c.notify)

	c.touch()
}

// notify re-touches the raw container and notifies every listener.
func (c *core) notify() {
	c.touch()
	c.listeners.notify()
}

func (c *core) AddListener(l *Listener) {
	c.listeners.add(l)
}

func (c *core) RemoveListener(l *Listener) {
	c.listeners.remove(l)
}

func (c *core) Changed() *Listener {
	return c.changed
}

// HasListener reports whether l is registered.
func (c *core) HasListener(l *Listener) bool {
	return c.listeners.has(l)
}

// ListenerCount returns the number of registered listeners.
func (c *core) ListenerCount() int {
	return c.listeners.len()
}

func (c *core) observable() {}

// project turns a raw slot value into what a read returns: nested
// containers are wrapped on first access with this wrapper as parent.
func (c *core) project(v any) any {
	switch raw := v.(type) {
	case *Object:
		if raw != nil {
			return c.factory.wrapObject(raw, c.changed)
		}
	case *Array:
		if raw != nil {
			return c.factory.wrapArray(raw, c.changed)
		}
	}

	return v
}

// link makes an already wrapped child notify this wrapper.
func (c *core) link(v any) {
	if child := wrapperOf(v); child != nil {
		child.AddListener(c.changed)
	}
}

// detach stops a removed child from notifying this wrapper, unless the
// container still holds it in another slot.
func (c *core) detach(v any, holds func(any) bool) {
	child := wrapperOf(v)
	if child == nil || holds(v) {
		return
	}

	child.RemoveListener(c.changed)
}

// Wrap wraps raw with the default factory.
func Wrap(raw any, notifyParent *Listener) any {
	return defaultFactory.Wrap(raw, notifyParent)
}

// WrapObject wraps a raw record with the default factory.
func WrapObject(raw *Object) *MutableObject {
	return defaultFactory.WrapObject(raw)
}

// WrapArray wraps a raw sequence with the default factory.
func WrapArray(raw *Array) *MutableArray {
	return defaultFactory.WrapArray(raw)
}

// Of converts v with From and wraps it with the default factory.
func Of(v any) any {
	return defaultFactory.Of(v)
}

// IsMutable reports whether x is a wrapper.
func IsMutable(x any) bool {
	_, ok := asMutable(x)
	return ok
}

// AddListener registers l on the wrapper x. It does nothing when x is not
// a wrapper.
func AddListener(x any, l *Listener) {
	if m, ok := asMutable(x); ok {
		m.AddListener(l)
	}
}

// RemoveListener unregisters l from the wrapper x.
func RemoveListener(x any, l *Listener) {
	if m, ok := asMutable(x); ok {
		m.RemoveListener(l)
	}
}
