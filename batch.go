package bbtr

// Item is an opaque value supplied by a producer, either through Buffer or
// through the Streamer. The runner never inspects an item's contents; it
// only groups items into batches and hands them to the Handler.
type Item = interface{}

// Batch is an ordered, non-empty sequence of Items, sized at most
// MaxBatchSize. Empty batches are never constructed or enqueued.
type Batch []Item

// record pairs a Batch with the number of times it has previously been
// retried. It is the unit of work the batch queue and the handler task
// pool traffic in.
type record struct {
	batch   Batch
	retries int
}

// chunk splits items into contiguous segments of at most size length. The
// final segment may be shorter. It preserves the input order; chunking is
// the only operation allowed to observe item order across a flush or an
// initial-streamer delivery.
func chunk(items []Item, size int) []Batch {
	if len(items) == 0 {
		return nil
	}
	batches := make([]Batch, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, Batch(items[start:end]))
	}
	return batches
}
