package bbtr

import "context"

// streamerState tracks the lifecycle of the one Initial Streamer a Runner
// ever runs.
type streamerState int

const (
	streamerNotStarted streamerState = iota
	streamerRunning
	streamerComplete
)

// runInitialStreamer drives the one-shot initial enumeration in its own
// goroutine, accumulating items into fixed-size groups and delivering each
// completed group to the Dispatcher as a pre-chunked sub-queue. It cannot
// block the Dispatcher: every send to mailbox is the only point of contact,
// and the mailbox is sized so a single streamer delivery never deadlocks
// against a Dispatcher that is itself draining.
//
// The (count, pending) accumulator described in the spec is kept here as
// two local variables closed over by emit; it never escapes this function.
func runInitialStreamer(ctx context.Context, cfg Config, streamer Streamer, token Token, send func(message)) {
	var (
		count   int
		pending []Item
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		send(asyncEnqueueMsg{records: chunkIntoRecords(pending, cfg.MaxBatchSize)})
		count = 0
		pending = nil
	}

	emit := func(item Item) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		pending = append(pending, item)
		count++
		if count >= cfg.InitChunkSize {
			flush()
		}
		return nil
	}

	err := streamer.Stream(ctx, cfg.HandlerState, emit)
	flush()

	send(handlerCrashedMsg{token: token, reason: err})
}

// chunkIntoRecords chunks items into segments of at most maxBatchSize and
// wraps each one as a fresh (Batch, retries=0) record.
func chunkIntoRecords(items []Item, maxBatchSize int) []*record {
	batches := chunk(items, maxBatchSize)
	records := make([]*record, len(batches))
	for i, b := range batches {
		records[i] = &record{batch: b, retries: 0}
	}
	return records
}
