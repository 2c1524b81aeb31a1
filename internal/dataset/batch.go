package dataset

import (
	"fmt"
	"math/rand"
)

// Batcher hands out fixed-size shuffled batches of a DerivativeSet.
//
// Rows are reshuffled at every epoch boundary. The trailing partial
// batch of an epoch is dropped so every batch has exactly BatchSize
// rows.
type Batcher struct {
	set       *DerivativeSet
	batchSize int
	rng       *rand.Rand
	order     []int
	cursor    int
}

// NewBatcher creates a Batcher over set with the given batch size and
// shuffle seed.
func NewBatcher(set *DerivativeSet, batchSize int, seed int64) (*Batcher, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be > 0 (got %d)", batchSize)
	}
	if set.Len() < batchSize {
		return nil, fmt.Errorf("dataset: %d rows cannot fill a batch of %d", set.Len(), batchSize)
	}

	b := &Batcher{
		set:       set,
		batchSize: batchSize,
		rng:       rand.New(rand.NewSource(seed)),
		order:     make([]int, set.Len()),
	}
	b.reshuffle()
	return b, nil
}

func (b *Batcher) reshuffle() {
	for i := range b.order {
		b.order[i] = i
	}
	b.rng.Shuffle(len(b.order), func(i, j int) {
		b.order[i], b.order[j] = b.order[j], b.order[i]
	})
	b.cursor = 0
}

// Next returns the next batch, reshuffling when the epoch is exhausted.
func (b *Batcher) Next() *DerivativeSet {
	if b.cursor+b.batchSize > len(b.order) {
		b.reshuffle()
	}
	indices := b.order[b.cursor : b.cursor+b.batchSize]
	b.cursor += b.batchSize
	return b.set.Select(indices)
}

// BatchSize returns the configured batch size.
func (b *Batcher) BatchSize() int {
	return b.batchSize
}

// BatchesPerEpoch returns how many full batches one epoch yields.
func (b *Batcher) BatchesPerEpoch() int {
	return b.set.Len() / b.batchSize
}
