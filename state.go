package velo

import (
	"github.com/AnatoleLucet/velo/internal"
	"github.com/AnatoleLucet/velo/revision"
)

type State[T any] struct {
	signal *internal.Signal
}

// CreateState creates a state holding initial.
//
// A mutable wrapper stored in a state is observed: mutating it in place
// triggers the state's dependents without a Set.
func CreateState[T any](e *Engine, initial T) *State[T] {
	return &State[T]{
		e.rt.NewSignal(initial),
	}
}

// CreateComputed creates a state holding compute's result. compute runs as
// a reaction, so while recording the state follows its dependencies.
func CreateComputed[T any](e *Engine, compute func() T) *State[T] {
	return &State[T]{
		e.rt.NewComputedSignal(func() any { return compute() }),
	}
}

// Signal is CreateState as a getter/setter pair.
func Signal[T any](e *Engine, initial T) (func() T, func(T) T) {
	s := CreateState(e, initial)
	return s.Get, s.Set
}

// Get returns the current value, recording a dependency when read by a
// reaction being created while recording.
func (s *State[T]) Get() T {
	return as[T](s.signal.Read())
}

// Set stores v and returns it. Dependents are triggered when v counts as
// modified: a different value, a different container, or the same
// container touched since it was stored.
func (s *State[T]) Set(v T) T {
	return as[T](s.signal.Write(v))
}

// Update sets the result of fn applied to the current value.
func (s *State[T]) Update(fn func(T) T) T {
	return as[T](s.signal.Update(func(v any) any { return fn(as[T](v)) }))
}

// Revision returns the stored value with the revision it was stored at.
func (s *State[T]) Revision() revision.Revisioned {
	return s.signal.Revision()
}
