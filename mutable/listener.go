package mutable

import "slices"

// Listener is a change callback with an identity, so it can be registered
// on several wrappers and removed again.
type Listener struct {
	fn func()
}

// NewListener creates a listener calling fn on every notification.
func NewListener(fn func()) *Listener {
	return &Listener{fn: fn}
}

// Notify calls the listener's callback.
func (l *Listener) Notify() {
	if l != nil && l.fn != nil {
		l.fn()
	}
}

// listenerSet is an insertion ordered set of listeners.
type listenerSet struct {
	items []*Listener
}

func newListenerSet(seed *Listener) listenerSet {
	s := listenerSet{}
	s.add(seed)
	return s
}

func (s *listenerSet) add(l *Listener) {
	if l == nil || slices.Contains(s.items, l) {
		return
	}

	s.items = append(s.items, l)
}

func (s *listenerSet) remove(l *Listener) {
	if index := slices.Index(s.items, l); index != -1 {
		s.items = slices.Delete(s.items, index, index+1)
	}
}

func (s *listenerSet) has(l *Listener) bool {
	return slices.Contains(s.items, l)
}

func (s *listenerSet) len() int {
	return len(s.items)
}

// notify calls every listener present when the pass starts, in insertion
// order. Listeners added during the pass wait for the next one; listeners
// removed during the pass are still called in this one.
func (s *listenerSet) notify() {
	// clonning to avoid mutation during iteration
	for _, l := range slices.Clone(s.items) {
		l.Notify()
	}
}
