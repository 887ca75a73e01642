package velo

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newEngine(opts ...Option) *Engine {
	return New(append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)...)
}

// settle waits for the engine's current dirty window to be flushed.
func settle(t *testing.T, e *Engine) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, e.ToBeClean().Wait(ctx))
}

func ExampleCreateState() {
	e := New()

	count := Record(e, func() *State[int] {
		count := CreateState(e, 12)
		e.CreateReaction(func() {
			fmt.Println("count", count.Get())
		})
		return count
	})

	count.Set(13)
	fmt.Println("set")

	e.ToBeClean().Wait(context.Background())

	// Output:
	// count 12
	// set
	// count 13
}

func ExampleCreateComputed() {
	e := New()

	count := Record(e, func() *State[int] {
		count := CreateState(e, 1)
		double := CreateComputed(e, func() int {
			fmt.Println("doubling")
			return count.Get() * 2
		})
		e.CreateReaction(func() {
			fmt.Println("double", double.Get())
		})
		return count
	})

	count.Set(10)
	e.Flush()

	// Output:
	// doubling
	// double 2
	// doubling
	// double 20
}

func ExampleBatch() {
	e := New()

	a, setA := Signal(e, 1)
	b, setB := Signal(e, 2)
	e.Record(func() {
		e.CreateReaction(func() {
			fmt.Println("sum", a()+b())
		})
	})

	sum := Batch(e, func() int {
		setA(10)
		setB(20)
		return a() + b()
	})
	fmt.Println("batch returned", sum)

	// Output:
	// sum 3
	// sum 30
	// batch returned 30
}
