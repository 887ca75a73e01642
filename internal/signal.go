package internal

import (
	"github.com/AnatoleLucet/velo/mutable"
	"github.com/AnatoleLucet/velo/revision"
)

type Signal struct {
	r *Runtime

	current revision.Revisioned
	written bool // false until the first write

	// reactions that read this signal while recording, by index
	// flags are never cleared
	deps []bool

	// registered on the stored wrapper so in-place mutation triggers deps
	onMutate *mutable.Listener
}

func (r *Runtime) newSignal() *Signal {
	s := &Signal{
		r:    r,
		deps: make([]bool, 0),
	}
	s.onMutate = mutable.NewListener(s.triggerReactions)

	return s
}

// NewSignal creates a signal holding initial.
func (r *Runtime) NewSignal(initial any) *Signal {
	s := r.newSignal()
	s.Write(initial)

	return s
}

// NewComputedSignal creates a signal kept up to date by a reaction storing
// compute's result.
func (r *Runtime) NewComputedSignal(compute func() any) *Signal {
	s := r.newSignal()
	r.NewReaction(func() {
		s.Write(compute())
	})

	return s
}

// Read returns the current value, recording the current reaction as a
// dependent when there is one.
func (s *Signal) Read() any {
	if index, ok := s.r.tracker.Tracking(); ok {
		s.depend(index)
	}

	return s.current.Value
}

// Write stores v and triggers the dependents if it counts as modified.
// It returns the stored value.
func (s *Signal) Write(v any) any {
	if s.written && mutable.IsMutable(s.current.Value) {
		mutable.RemoveListener(s.current.Value, s.onMutate)
	}

	var old *revision.Revisioned
	if s.written {
		old = &s.current
	}

	next, changed := s.r.revisions.CheckModified(v, old)
	s.current = next
	s.written = true

	s.r.metrics.stateWritten(changed)

	if changed {
		s.triggerReactions()
	}

	if mutable.IsMutable(next.Value) {
		mutable.AddListener(next.Value, s.onMutate)
	}

	return next.Value
}

// Update writes fn's result for the current value.
func (s *Signal) Update(fn func(any) any) any {
	return s.Write(fn(s.current.Value))
}

// Revision returns the value and revision the signal last stored.
func (s *Signal) Revision() revision.Revisioned {
	return s.current
}

// Dependents returns the indices of the reactions depending on s.
func (s *Signal) Dependents() []int {
	indices := make([]int, 0)
	for index, dep := range s.deps {
		if dep {
			indices = append(indices, index)
		}
	}

	return indices
}

func (s *Signal) depend(index int) {
	if index >= len(s.deps) {
		s.deps = append(s.deps, make([]bool, index-len(s.deps)+1)...)
	}

	s.deps[index] = true
}

func (s *Signal) triggerReactions() {
	for index := 0; index < len(s.deps); index++ {
		if s.deps[index] {
			s.r.trigger(index)
		}
	}
}
