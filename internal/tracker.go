package internal

// untracked marks a reaction re-run on the reaction stack: reads made while
// it is current record nothing.
const untracked = -1

type Tracker struct {
	// each nested Record increases the depth by 1
	// reads record dependencies only while depth > 0
	depth int

	// index of the reaction whose creation run is in progress
	reactions *Stack[int]
}

func NewTracker() *Tracker {
	return &Tracker{
		depth:     0,
		reactions: NewStack[int](),
	}
}

func (t *Tracker) Record(fn func()) {
	t.depth++
	defer func() { t.depth-- }()

	fn()
}

func (t *Tracker) Recording() bool {
	return t.depth > 0
}

// RunWithReaction runs a reaction's creation run with index as the
// reaction reads are recorded for.
func (t *Tracker) RunWithReaction(index int, fn func()) {
	t.reactions.RunWith(index, fn)
}

// RunUntracked runs a reaction re-run. Reads inside it are not recorded,
// not even for an enclosing creation run.
func (t *Tracker) RunUntracked(fn func()) {
	t.reactions.RunWith(untracked, fn)
}

// Tracking returns the reaction a read should be recorded for.
func (t *Tracker) Tracking() (int, bool) {
	if !t.Recording() {
		return 0, false
	}

	index, ok := t.reactions.Current()
	if !ok || index == untracked {
		return 0, false
	}

	return index, true
}
