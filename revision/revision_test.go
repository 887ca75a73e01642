package revision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
}

func TestCheckModified(t *testing.T) {
	t.Run("first value is always modified", func(t *testing.T) {
		tr := New()

		value, modified := tr.CheckModified(2, nil)
		assert.True(t, modified)
		assert.Equal(t, 2, value.Value)
		assert.False(t, value.Tracked())
	})

	t.Run("primitives compare by value", func(t *testing.T) {
		tr := New()

		cases := []struct {
			first, second any
			modified      bool
		}{
			{2, 2, false},
			{2, 4, true},
			{"abc", "abc", false},
			{"abc", "dev", true},
			{false, false, false},
			{false, true, true},
			{2, "2", true},
			{nil, nil, false},
			{nil, 0, true},
		}

		for _, c := range cases {
			value, _ := tr.CheckModified(c.first, nil)
			value, modified := tr.CheckModified(c.second, &value)

			assert.Equal(t, c.modified, modified, "%v -> %v", c.first, c.second)
			assert.Equal(t, c.second, value.Value)
		}
	})

	t.Run("untouched containers compare by reference", func(t *testing.T) {
		tr := New()
		a, b := &person{}, &person{}

		value, _ := tr.CheckModified(a, nil)
		value, modified := tr.CheckModified(a, &value)
		assert.False(t, modified)
		assert.Same(t, a, value.Value)

		value, modified = tr.CheckModified(b, &value)
		assert.True(t, modified)
		assert.Same(t, b, value.Value)
	})

	t.Run("touched containers compare by revision", func(t *testing.T) {
		tr := New()
		p := TouchWith(tr, &person{Name: "abc"})

		value, _ := tr.CheckModified(p, nil)
		value, modified := tr.CheckModified(p, &value)
		assert.False(t, modified)

		p.Name = "def"
		value, modified = tr.CheckModified(p, &value)
		assert.False(t, modified, "mutating without touching is invisible")

		TouchWith(tr, p)
		_, modified = tr.CheckModified(p, &value)
		assert.True(t, modified)
	})

	t.Run("equal contents in a new container are modified", func(t *testing.T) {
		tr := New()
		a := TouchWith(tr, &person{Name: "abc"})
		b := TouchWith(tr, &person{Name: "abc"})

		value, _ := tr.CheckModified(a, nil)
		_, modified := tr.CheckModified(b, &value)
		assert.True(t, modified)
	})

	t.Run("slices and maps compare by reference", func(t *testing.T) {
		tr := New()
		s := []int{1, 2, 3}
		m := map[string]int{"a": 1}

		value, _ := tr.CheckModified(s, nil)
		_, modified := tr.CheckModified(s, &value)
		assert.False(t, modified)

		_, modified = tr.CheckModified([]int{1, 2, 3}, &value)
		assert.True(t, modified)

		value, _ = tr.CheckModified(m, nil)
		_, modified = tr.CheckModified(m, &value)
		assert.False(t, modified)
	})
}

func TestTouch(t *testing.T) {
	t.Run("counter strictly increases", func(t *testing.T) {
		tr := New()
		p := &person{}

		seen := map[uint64]bool{}
		last := uint64(0)
		for range 100 {
			TouchWith(tr, p)
			rev := tr.Revision(p).Rev

			assert.Greater(t, rev, last)
			assert.False(t, seen[rev])
			seen[rev] = true
			last = rev
		}
	})

	t.Run("revisions are shared across containers", func(t *testing.T) {
		tr := New()
		a, b := &person{}, &person{}

		TouchWith(tr, a)
		TouchWith(tr, b)

		assert.Equal(t, uint64(1), tr.Revision(a).Rev)
		assert.Equal(t, uint64(2), tr.Revision(b).Rev)
		assert.Equal(t, uint64(2), tr.Current())
	})

	t.Run("struct and first field are distinct containers", func(t *testing.T) {
		tr := New()
		p := &person{}

		TouchWith(tr, p)
		assert.True(t, tr.Revision(p).Tracked())
		assert.False(t, tr.Revision(&p.Name).Tracked())
	})

	t.Run("nil is untracked", func(t *testing.T) {
		tr := New()
		var p *person

		assert.Nil(t, TouchWith(tr, p))
		assert.False(t, tr.Revision(p).Tracked())
		assert.False(t, tr.Revision(nil).Tracked())
	})

	t.Run("trackers are isolated", func(t *testing.T) {
		a, b := New(), New()
		p := &person{}

		TouchWith(a, p)
		assert.True(t, a.Revision(p).Tracked())
		assert.False(t, b.Revision(p).Tracked())
	})

	t.Run("reset forgets stamps", func(t *testing.T) {
		tr := New()
		p := TouchWith(tr, &person{})
		require.True(t, tr.Revision(p).Tracked())

		tr.Reset()
		assert.False(t, tr.Revision(p).Tracked())
		assert.Equal(t, uint64(0), tr.Current())
	})
}

type proxy struct {
	target *person
}

func (p *proxy) Target() any { return p.target }
func (p *proxy) TouchTarget(t *Tracker) { TouchWith(t, p.target) }

func TestProxy(t *testing.T) {
	tr := New()
	target := &person{}
	px := &proxy{target: target}

	TouchWith(tr, px)
	assert.Equal(t, tr.Revision(target).Rev, tr.Revision(px).Rev)

	before, _ := tr.CheckModified(px, nil)
	TouchWith(tr, target)
	_, modified := tr.CheckModified(px, &before)
	assert.True(t, modified)
}

func TestDefault(t *testing.T) {
	p := Touch(&person{})
	rev0 := GetRevision(p)
	require.True(t, rev0.Tracked())

	_, modified := CheckModified(p, &rev0)
	assert.False(t, modified)

	Touch(p)
	_, modified = CheckModified(p, &rev0)
	assert.True(t, modified)
}
