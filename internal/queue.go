package internal

// DirtySet holds the indices of reactions waiting for the next flush.
type DirtySet struct {
	flags []bool
	count int
}

func NewDirtySet() *DirtySet {
	return &DirtySet{
		flags: make([]bool, 0),
	}
}

func (d *DirtySet) Mark(index int) {
	if index >= len(d.flags) {
		d.flags = append(d.flags, make([]bool, index-len(d.flags)+1)...)
	}

	if !d.flags[index] {
		d.flags[index] = true
		d.count++
	}
}

func (d *DirtySet) Unmark(index int) {
	if index < len(d.flags) && d.flags[index] {
		d.flags[index] = false
		d.count--
	}
}

func (d *DirtySet) Has(index int) bool {
	return index < len(d.flags) && d.flags[index]
}

func (d *DirtySet) Len() int {
	return d.count
}

// Drain calls fn for every marked index in ascending order, then clears the
// set. An index is unmarked before fn runs, so a nested Drain started from
// fn never visits it again. Indices marked ahead of the cursor while
// draining are visited in the same pass; indices marked behind it are
// dropped. The set is cleared even if fn panics.
func (d *DirtySet) Drain(fn func(index int)) {
	defer d.Clear()

	for index := 0; index < len(d.flags); index++ {
		if d.flags[index] {
			d.Unmark(index)
			fn(index)
		}
	}
}

func (d *DirtySet) Clear() {
	d.flags = d.flags[:0]
	d.count = 0
}
