package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirtySet(t *testing.T) {
	t.Run("drains in ascending order", func(t *testing.T) {
		d := NewDirtySet()
		d.Mark(4)
		d.Mark(1)
		d.Mark(2)
		d.Mark(1)

		assert.Equal(t, 3, d.Len())

		visited := []int{}
		d.Drain(func(index int) { visited = append(visited, index) })

		assert.Equal(t, []int{1, 2, 4}, visited)
		assert.Equal(t, 0, d.Len())
		assert.False(t, d.Has(4))
	})

	t.Run("visits indices marked ahead of the cursor", func(t *testing.T) {
		d := NewDirtySet()
		d.Mark(0)

		visited := []int{}
		d.Drain(func(index int) {
			visited = append(visited, index)
			if index == 0 {
				d.Mark(3)
			}
		})

		assert.Equal(t, []int{0, 3}, visited)
	})

	t.Run("drops indices marked behind the cursor", func(t *testing.T) {
		d := NewDirtySet()
		d.Mark(2)

		visited := []int{}
		d.Drain(func(index int) {
			visited = append(visited, index)
			d.Mark(0)
		})

		assert.Equal(t, []int{2}, visited)
		assert.Equal(t, 0, d.Len())
	})

	t.Run("nested drain skips the index being visited", func(t *testing.T) {
		d := NewDirtySet()
		d.Mark(0)
		d.Mark(1)

		visited := []int{}
		d.Drain(func(index int) {
			visited = append(visited, index)
			if index == 0 {
				assert.False(t, d.Has(0))
				d.Drain(func(index int) { visited = append(visited, index) })
			}
		})

		assert.Equal(t, []int{0, 1}, visited)
		assert.Equal(t, 0, d.Len())
	})

	t.Run("unmark", func(t *testing.T) {
		d := NewDirtySet()
		d.Mark(1)
		d.Unmark(1)
		d.Unmark(7)

		assert.Equal(t, 0, d.Len())
		assert.False(t, d.Has(1))
	})

	t.Run("clears even if a visit panics", func(t *testing.T) {
		d := NewDirtySet()
		d.Mark(0)
		d.Mark(1)

		assert.Panics(t, func() {
			d.Drain(func(int) { panic("boom") })
		})
		assert.Equal(t, 0, d.Len())
	})
}

func TestBatcher(t *testing.T) {
	t.Run("completes once for nested batches", func(t *testing.T) {
		log := []string{}
		b := NewBatcher()

		complete := func() { log = append(log, "complete") }

		b.Batch(func() {
			log = append(log, "outer")
			b.Batch(func() {
				log = append(log, "inner")
			}, complete)
			log = append(log, "outer end")
		}, complete)

		assert.Equal(t, []string{"outer", "inner", "outer end", "complete"}, log)
		assert.False(t, b.IsBatching())
	})

	t.Run("is still batching while completing", func(t *testing.T) {
		b := NewBatcher()

		var batching bool
		b.Batch(func() {}, func() { batching = b.IsBatching() })

		assert.True(t, batching)
		assert.False(t, b.IsBatching())
	})

	t.Run("completes and restores depth on panic", func(t *testing.T) {
		completed := false
		b := NewBatcher()

		assert.PanicsWithValue(t, "boom", func() {
			b.Batch(func() { panic("boom") }, func() { completed = true })
		})

		assert.True(t, completed)
		assert.False(t, b.IsBatching())
	})
}

func TestTracker(t *testing.T) {
	t.Run("nested records", func(t *testing.T) {
		tr := NewTracker()

		tr.Record(func() {
			tr.Record(func() {})
			assert.True(t, tr.Recording())
		})

		assert.False(t, tr.Recording())
	})

	t.Run("tracks the innermost creation run", func(t *testing.T) {
		tr := NewTracker()

		tr.Record(func() {
			_, ok := tr.Tracking()
			assert.False(t, ok)

			tr.RunWithReaction(0, func() {
				tr.RunWithReaction(1, func() {
					index, ok := tr.Tracking()
					assert.True(t, ok)
					assert.Equal(t, 1, index)
				})

				index, _ := tr.Tracking()
				assert.Equal(t, 0, index)

				tr.RunUntracked(func() {
					_, ok := tr.Tracking()
					assert.False(t, ok)
				})
			})
		})
	})

	t.Run("does not track outside a record", func(t *testing.T) {
		tr := NewTracker()

		tr.RunWithReaction(0, func() {
			_, ok := tr.Tracking()
			assert.False(t, ok)
		})
	})

	t.Run("restores on panic", func(t *testing.T) {
		tr := NewTracker()

		assert.Panics(t, func() {
			tr.Record(func() {
				tr.RunWithReaction(0, func() { panic("boom") })
			})
		})

		assert.False(t, tr.Recording())
		assert.Equal(t, 0, tr.reactions.Len())
	})
}
