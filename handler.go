package bbtr

import "context"

// outcomeKind distinguishes the three ways a Handler invocation can report
// completion. See Ok, Retry, and RetryWithItems.
type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeRetry
	outcomeRetryWithItems
)

// Outcome is the result a Handler reports for a batch it was given. Build
// one with Ok, Retry, or RetryWithItems.
type Outcome struct {
	kind     outcomeKind
	newItems Batch
}

// Ok reports that the batch was handled successfully. The batch is
// discarded and its items will not be seen again.
func Ok() Outcome {
	return Outcome{kind: outcomeOK}
}

// Retry reports a transient failure. The original batch is re-enqueued at
// the tail of the batch queue with its retry count incremented.
func Retry() Outcome {
	return Outcome{kind: outcomeRetry}
}

// RetryWithItems reports a transient failure along with a replacement set
// of items to retry instead of the original batch (for example, only the
// items that actually failed within the batch). The replacement is
// re-enqueued at the tail of the batch queue with the retry count
// incremented; it is not re-chunked against MaxBatchSize, since the
// Handler is responsible for keeping it within a sensible size.
func RetryWithItems(items Batch) Outcome {
	return Outcome{kind: outcomeRetryWithItems, newItems: items}
}

// Handler performs the work for a single batch. retries is the number of
// times this batch (or an ancestor produced by a prior RetryWithItems) has
// previously been attempted; it starts at zero. handlerState is the opaque
// value supplied in Config.HandlerState, shared across every invocation
// and the Streamer.
//
// Handler implementations may perform arbitrary I/O and should respect
// ctx cancellation. A panic inside Run is recovered by the runner and
// treated exactly like Retry with the original batch; the core does not
// distinguish a crash from a requested retry for recovery purposes.
type Handler interface {
	Run(ctx context.Context, batch Batch, retries int, handlerState interface{}) Outcome
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, batch Batch, retries int, handlerState interface{}) Outcome

// Run implements Handler.
func (f HandlerFunc) Run(ctx context.Context, batch Batch, retries int, handlerState interface{}) Outcome {
	return f(ctx, batch, retries, handlerState)
}

// Streamer performs the one-shot initial enumeration of items that existed
// before the Runner started. Stream is invoked exactly once per Runner
// lifetime, in a goroutine separate from the Dispatcher, so it cannot block
// the Dispatcher's mailbox.
//
// Stream must call emit once per item, in enumeration order, and should
// stop and return emit's error if emit returns one (this happens only once
// the Runner has begun shutting down or the context passed to Start has
// been canceled). Stream returns when enumeration is
// complete; any error it returns is reported to the Runner as a streamer
// crash and does not restart the streamer mid-lifetime.
type Streamer interface {
	Stream(ctx context.Context, handlerState interface{}, emit func(Item) error) error
}

// StreamerFunc adapts a plain function to the Streamer interface.
type StreamerFunc func(ctx context.Context, handlerState interface{}, emit func(Item) error) error

// Stream implements Streamer.
func (f StreamerFunc) Stream(ctx context.Context, handlerState interface{}, emit func(Item) error) error {
	return f(ctx, handlerState, emit)
}
