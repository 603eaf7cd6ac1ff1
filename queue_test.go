package bbtr

import "testing"

func TestBatchQueue_FIFO(t *testing.T) {
	var q batchQueue

	q.pushBack(&record{batch: Batch{1}})
	q.pushBack(&record{batch: Batch{2}})
	q.pushBack(&record{batch: Batch{3}})

	if q.len() != 3 {
		t.Fatalf("len() = %d, want 3", q.len())
	}

	for _, want := range []Item{1, 2, 3} {
		r, ok := q.popFront()
		if !ok {
			t.Fatalf("popFront() ok = false, want true")
		}
		if r.batch[0] != want {
			t.Errorf("popFront() = %v, want %v", r.batch[0], want)
		}
	}

	if _, ok := q.popFront(); ok {
		t.Error("popFront() on empty queue returned ok = true")
	}
}

func TestBatchQueue_PushFront(t *testing.T) {
	var q batchQueue
	q.pushBack(&record{batch: Batch{1}})
	q.pushFront(&record{batch: Batch{0}})

	r, ok := q.popFront()
	if !ok || r.batch[0] != 0 {
		t.Fatalf("popFront() = %v, %v, want 0, true", r, ok)
	}
}

func TestBatchQueue_PushBackAll(t *testing.T) {
	var q batchQueue
	q.pushBackAll([]*record{
		{batch: Batch{1}},
		{batch: Batch{2}},
	})
	if q.len() != 2 {
		t.Fatalf("len() = %d, want 2", q.len())
	}
}

func TestStagingBuffer_AddAndDrain(t *testing.T) {
	var s stagingBuffer

	if n := s.add(nil); n != 0 {
		t.Errorf("add(nil) = %d, want 0", n)
	}
	if n := s.add([]Item{1, 2}); n != 2 {
		t.Errorf("add([1,2]) = %d, want 2", n)
	}
	s.add([]Item{3})

	if s.itemCount() != 3 {
		t.Fatalf("itemCount() = %d, want 3", s.itemCount())
	}

	drained := s.drain()
	if len(drained) != 3 {
		t.Fatalf("drain() returned %d items, want 3", len(drained))
	}
	if drained[0] != 1 || drained[1] != 2 || drained[2] != 3 {
		t.Errorf("drain() = %v, want [1 2 3]", drained)
	}

	if s.itemCount() != 0 {
		t.Errorf("itemCount() after drain = %d, want 0", s.itemCount())
	}
	if drained := s.drain(); drained != nil {
		t.Errorf("drain() on empty buffer = %v, want nil", drained)
	}
}
