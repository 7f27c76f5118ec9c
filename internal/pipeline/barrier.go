package pipeline

// tagBarrier coordinates the per-tag event ordering protocol:
// A (ids assigned), D (definitions indexed), C (compatible strings
// indexed), V (paths recorded durably). Each event is a channel that's
// closed exactly once; waiters just receive from it.
//
// Every tag has exactly one owner in each worker pool — runDefExtractor
// and runCompatExtractor partition tags as i, i+poolSize, i+2*poolSize,
// ... across workers, so no two workers ever touch the same tag. All
// four events are therefore closed directly by their single owner, with
// no counter needed.
type tagBarrier struct {
	tag    string
	newIDs []uint64 // ids first introduced by this tag; valid once a is closed

	a chan struct{}
	d chan struct{}
	c chan struct{}
	v chan struct{}
}

func newTagBarrier(tag string) *tagBarrier {
	return &tagBarrier{
		tag: tag,
		a:   make(chan struct{}),
		d:   make(chan struct{}),
		c:   make(chan struct{}),
		v:   make(chan struct{}),
	}
}

// arriveA is called once by BlobIdAssigner when it's done with this tag.
func (b *tagBarrier) arriveA(newIDs []uint64) {
	b.newIDs = newIDs
	close(b.a)
}

// arriveV is called once by VersionRecorder when this tag's paths are durable.
func (b *tagBarrier) arriveV() {
	close(b.v)
}

// arriveD is called once by this tag's sole DefExtractor owner.
func (b *tagBarrier) arriveD() {
	close(b.d)
}

// arriveC is called once by this tag's sole CompatExtractor owner.
func (b *tagBarrier) arriveC() {
	close(b.c)
}
