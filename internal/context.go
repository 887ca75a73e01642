package internal

// Stack holds the contexts a piece of code runs under, innermost last.
type Stack[T any] struct {
	items []T
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0),
	}
}

// RunWith runs fn with ctx as the current context. The previous context is
// restored even if fn panics.
func (s *Stack[T]) RunWith(ctx T, fn func()) {
	s.items = append(s.items, ctx)
	defer func() { s.items = s.items[:len(s.items)-1] }()

	fn()
}

// Current returns the innermost context.
func (s *Stack[T]) Current() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	return s.items[len(s.items)-1], true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
