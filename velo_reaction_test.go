package velo

import (
	"fmt"
	"testing"

	"github.com/AnatoleLucet/velo/revision"
	"github.com/stretchr/testify/assert"
)

type person struct {
	Name string
}

func TestReaction(t *testing.T) {
	t.Run("runs on creation", func(t *testing.T) {
		count := 0
		e := newEngine()

		e.Record(func() {
			e.CreateReaction(func() { count++ })
		})

		assert.Equal(t, 1, count)
	})

	t.Run("runs on creation outside a record", func(t *testing.T) {
		count := 0
		e := newEngine()

		e.CreateReaction(func() { count++ })

		assert.Equal(t, 1, count)
	})

	t.Run("reruns when a dependency changes", func(t *testing.T) {
		log := []string{}
		e := newEngine()

		state := Record(e, func() *State[int] {
			state := CreateState(e, 12)
			e.CreateReaction(func() {
				log = append(log, fmt.Sprintf("state %d", state.Get()))
			})
			return state
		})

		state.Set(13)
		assert.Equal(t, []string{"state 12"}, log)

		settle(t, e)
		assert.Equal(t, []string{"state 12", "state 13"}, log)
	})

	t.Run("does not rerun when another state changes", func(t *testing.T) {
		log := []string{}
		e := newEngine()

		var state2 *State[int]
		e.Record(func() {
			state := CreateState(e, 12)
			state2 = CreateState(e, 100)
			e.CreateReaction(func() {
				log = append(log, fmt.Sprintf("state %d", state.Get()))
			})
		})

		state2.Set(101)
		settle(t, e)

		assert.Equal(t, []string{"state 12"}, log)
	})

	t.Run("does not rerun for the same value", func(t *testing.T) {
		log := []string{}
		e := newEngine()

		state := Record(e, func() *State[int] {
			state := CreateState(e, 12)
			e.CreateReaction(func() {
				log = append(log, fmt.Sprintf("state %d", state.Get()))
			})
			return state
		})

		state.Set(12)

		assert.Equal(t, 0, e.Pending())
		assert.True(t, e.ToBeClean().Resolved())
		assert.Equal(t, []string{"state 12"}, log)
	})

	t.Run("does not rerun for the same container at the same revision", func(t *testing.T) {
		log := []string{}
		e := newEngine()
		value := revision.Touch(&person{Name: "abc"})

		state := Record(e, func() *State[*person] {
			state := CreateState(e, value)
			e.CreateReaction(func() {
				log = append(log, state.Get().Name)
			})
			return state
		})

		value.Name = "def"
		state.Set(value)
		settle(t, e)

		assert.Equal(t, []string{"abc"}, log)
	})

	t.Run("reruns for the same container touched since", func(t *testing.T) {
		log := []string{}
		e := newEngine()
		value := revision.Touch(&person{Name: "abc"})

		state := Record(e, func() *State[*person] {
			state := CreateState(e, value)
			e.CreateReaction(func() {
				log = append(log, state.Get().Name)
			})
			return state
		})

		value.Name = "def"
		revision.Touch(value)
		state.Set(value)
		settle(t, e)

		assert.Equal(t, []string{"abc", "def"}, log)
	})

	t.Run("reruns for an equal but distinct container", func(t *testing.T) {
		count := 0
		e := newEngine()

		state := Record(e, func() *State[*person] {
			state := CreateState(e, revision.Touch(&person{Name: "abc"}))
			e.CreateReaction(func() {
				state.Get()
				count++
			})
			return state
		})

		state.Set(revision.Touch(&person{Name: "abc"}))
		settle(t, e)

		assert.Equal(t, 2, count)
	})

	t.Run("keeps dependencies it stopped reading", func(t *testing.T) {
		log := []string{}
		e := newEngine()

		var enabled, value *State[int]
		e.Record(func() {
			enabled = CreateState(e, 1)
			value = CreateState(e, 10)
			e.CreateReaction(func() {
				if enabled.Get() == 1 {
					log = append(log, fmt.Sprintf("value %d", value.Get()))
					return
				}
				log = append(log, "disabled")
			})
		})

		enabled.Set(0)
		settle(t, e)

		value.Set(20)
		settle(t, e)

		assert.Equal(t, []string{"value 10", "disabled", "disabled"}, log)
	})

	t.Run("runs in index order", func(t *testing.T) {
		log := []string{}
		e := newEngine()

		var state, state2, state3, state4 *State[int]
		e.Record(func() {
			state = CreateState(e, 1)
			state2 = CreateState(e, 2)
			state3 = CreateState(e, 3)
			state4 = CreateState(e, 10)

			e.CreateReaction(func() {
				state2.Set(state.Get() + 1)
			})
			e.CreateReaction(func() {
				state3.Set(state2.Get() + 1)
			})
			e.CreateReaction(func() {
				log = append(log, fmt.Sprintf("sum %d", state3.Get()+state4.Get()))
			})
		})

		e.BatchReactions(func() {
			state4.Set(20)
			state.Set(4)
		})

		assert.Equal(t, 5, state2.Get())
		assert.Equal(t, 6, state3.Get())
		assert.Equal(t, []string{"sum 13", "sum 26"}, log)
	})

	t.Run("drops reactions dirtied behind the flush", func(t *testing.T) {
		log := []string{}
		e := newEngine()

		var a, b *State[int]
		e.Record(func() {
			a = CreateState(e, 0)
			b = CreateState(e, 0)

			e.CreateReaction(func() {
				log = append(log, fmt.Sprintf("a %d", a.Get()))
			})
			e.CreateReaction(func() {
				a.Set(b.Get())
			})
		})

		b.Set(1)
		e.Flush()

		assert.Equal(t, 1, a.Get())
		assert.Equal(t, []string{"a 0"}, log)
		assert.Equal(t, 0, e.Pending())
	})

	t.Run("nested records keep recording", func(t *testing.T) {
		count := 0
		e := newEngine()

		state := Record(e, func() *State[int] {
			state := CreateState(e, 0)
			e.Record(func() {})
			e.CreateReaction(func() {
				state.Get()
				count++
			})
			return state
		})

		state.Set(1)
		settle(t, e)

		assert.Equal(t, 2, count)
	})

	t.Run("reaction created inside a reaction records its own reads", func(t *testing.T) {
		log := []string{}
		e := newEngine()

		var outer, inner *State[int]
		e.Record(func() {
			outer = CreateState(e, 0)
			inner = CreateState(e, 0)

			e.CreateReaction(func() {
				log = append(log, fmt.Sprintf("outer %d", outer.Get()))

				if e.Reactions() == 1 {
					e.CreateReaction(func() {
						log = append(log, fmt.Sprintf("inner %d", inner.Get()))
					})
				}
			})
		})

		inner.Set(1)
		settle(t, e)

		assert.Equal(t, []string{"outer 0", "inner 0", "inner 1"}, log)
	})

	t.Run("panic restores recording", func(t *testing.T) {
		count := 0
		e := newEngine()
		state := CreateState(e, 0)

		assert.PanicsWithValue(t, "boom", func() {
			e.Record(func() {
				e.CreateReaction(func() {
					panic("boom")
				})
			})
		})

		e.CreateReaction(func() {
			state.Get()
			count++
		})

		state.Set(1)
		settle(t, e)

		assert.Equal(t, 1, count)
		assert.Equal(t, 2, e.Reactions())
	})
}
