package bbtr

import (
	"context"
	"sync"
	"time"
)

// Collaborator is the capability pair a caller supplies to Start: the
// Handler that does the per-batch work, and the Streamer that performs the
// one-shot initial enumeration. A single value implementing both is the
// idiomatic way to satisfy this interface; HandlerFunc and StreamerFunc
// compose into an anonymous struct for callers who would rather keep the
// two as separate functions:
//
//	type collaborator struct {
//		bbtr.HandlerFunc
//		bbtr.StreamerFunc
//	}
type Collaborator interface {
	Handler
	Streamer
}

// Runner is a started Buffered Batch Task Runner. Create one with Start.
type Runner struct {
	cfg  Config
	disp *dispatcher

	stopOnce sync.Once
	stopped  chan struct{}
}

// Start constructs a Runner and immediately schedules its Initial Streamer
// and first flush timer, per the spec's construction lifecycle. It
// returns an error if cfg fails Validate (a missing required field or a
// negative optional one); this is the only way construction fails.
func Start(ctx context.Context, collaborator Collaborator, cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	disp := newDispatcher(ctx, cfg, collaborator, collaborator)
	disp.start()

	r := &Runner{
		cfg:     cfg,
		disp:    disp,
		stopped: make(chan struct{}),
	}
	return r, nil
}

// Buffer implements buffer(items): append items to the staging buffer.
// timeout bounds how long Buffer waits for the Dispatcher's synchronous
// acknowledgement; it does not bound how long the items wait to be
// batched. A non-positive timeout waits indefinitely.
//
// Buffer returns ErrShutdown if Shutdown has already been called, and
// ErrBufferTimeout if the acknowledgement does not arrive within timeout.
// Neither error indicates item loss beyond what the error says: a timeout
// means the caller stopped waiting, either before the Dispatcher's mailbox
// accepted the items (they were not submitted) or after it did (they
// were submitted and will be staged).
func (r *Runner) Buffer(ctx context.Context, items []Item, timeout time.Duration) error {
	select {
	case <-r.stopped:
		return ErrShutdown
	default:
	}

	if len(items) == 0 {
		return nil
	}

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	ack := make(chan error, 1)
	select {
	case r.disp.mailbox <- bufferMsg{items: items, ack: ack}:
	case <-r.stopped:
		return ErrShutdown
	case <-ctx.Done():
		return ctx.Err()
	case <-timer:
		return ErrBufferTimeout
	}

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer:
		return ErrBufferTimeout
	}
}

// Metrics implements metrics(): {buffer_gauge, task_gauge} as defined in
// spec §4.1, read at the instant of the call.
func (r *Runner) Metrics(ctx context.Context) (Metrics, error) {
	reply := make(chan Metrics, 1)
	select {
	case r.disp.mailbox <- metricsMsg{reply: reply}:
	case <-r.stopped:
		return Metrics{}, ErrShutdown
	case <-ctx.Done():
		return Metrics{}, ctx.Err()
	}

	select {
	case m := <-reply:
		return m, nil
	case <-ctx.Done():
		return Metrics{}, ctx.Err()
	}
}

// Shutdown implements shutdown(): stop accepting new items, stop timers,
// cancel the Initial Streamer, wait for in-flight handler invocations up
// to Config.ShutdownTimeout, then stop the Dispatcher. Calling
// Shutdown more than once is safe; later calls wait for the first.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stopped) })

	reply := make(chan struct{})
	select {
	case r.disp.mailbox <- shutdownMsg{reply: reply}:
	case <-r.disp.closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-reply:
		return nil
	case <-r.disp.closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed once the Runner has fully stopped
// following a call to Shutdown.
func (r *Runner) Done() <-chan struct{} {
	return r.disp.done
}
