package bbtr

// batchQueue is the FIFO of (Batch, retries) records awaiting dispatch. It
// is only ever touched from the Dispatcher goroutine, so it needs no
// internal locking; the Dispatcher's single-owner discipline is what keeps
// it safe.
type batchQueue struct {
	records []*record
}

// pushBack appends a single record to the tail. Used by flush and by retry
// re-enqueue.
func (q *batchQueue) pushBack(r *record) {
	q.records = append(q.records, r)
}

// pushBackAll splices a pre-built sequence of records onto the tail in
// order, preserving their relative order. Used by the Initial Streamer's
// async-enqueue delivery.
func (q *batchQueue) pushBackAll(rs []*record) {
	q.records = append(q.records, rs...)
}

// pushFront puts a record back at the head of the queue. Used to roll back
// a speculative pop when the handler pool turns out to have no room.
func (q *batchQueue) pushFront(r *record) {
	q.records = append([]*record{r}, q.records...)
}

// popFront removes and returns the head record, or reports ok=false if the
// queue is empty.
func (q *batchQueue) popFront() (r *record, ok bool) {
	if len(q.records) == 0 {
		return nil, false
	}
	r = q.records[0]
	// Clear the slot so the popped record's Batch can be garbage collected
	// even while the backing array is still referenced by the slice below.
	q.records[0] = nil
	q.records = q.records[1:]
	return r, true
}

// len returns the number of records currently queued.
func (q *batchQueue) len() int {
	return len(q.records)
}

// stagingBuffer is the unordered accumulator of item-lists submitted
// ad-hoc between flushes via Buffer. Each Buffer call appends one list;
// the whole thing is drained atomically at flush time.
type stagingBuffer struct {
	lists [][]Item
	count int
}

// add appends one producer-submitted list of items and returns the number
// of items it contributed, for telemetry.
func (s *stagingBuffer) add(items []Item) int {
	if len(items) == 0 {
		return 0
	}
	s.lists = append(s.lists, items)
	s.count += len(items)
	return len(items)
}

// itemCount returns the total number of items currently staged.
func (s *stagingBuffer) itemCount() int {
	return s.count
}

// drain flattens and clears the staged lists, returning every item in
// submission order. Order across producers is not meaningful (the buffer
// is an unordered multiset of lists), but within a single flush the
// returned slice preserves each list's own internal order and the order in
// which lists were added, which is what gives chunking its
// producer-observable order guarantee.
func (s *stagingBuffer) drain() []Item {
	if s.count == 0 {
		return nil
	}
	flat := make([]Item, 0, s.count)
	for _, list := range s.lists {
		flat = append(flat, list...)
	}
	s.lists = nil
	s.count = 0
	return flat
}
