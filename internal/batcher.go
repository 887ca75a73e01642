package internal

type Batcher struct {
	// each nested batch increases the depth by 1
	// if depth > 0, triggered reactions are queued until the outermost batch is complete
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{
		depth: 0,
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Batch runs fn, then onComplete if this is the outermost batch. The batch
// is still open while onComplete runs, and onComplete runs even if fn
// panics.
func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		defer func() { b.depth-- }()

		if b.depth == 1 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}
