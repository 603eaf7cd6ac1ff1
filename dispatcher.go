package bbtr

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// dispatcher is the single-owner coordinator described in the package
// doc: the Batch Queue, Staging Buffer, Handler Task Pool, flush timer,
// and Initial Streamer state are all confined to run, which drains
// mailbox strictly sequentially. Nothing outside run ever mutates these
// fields; external callers only ever send a message.
type dispatcher struct {
	cfg      Config
	handler  Handler
	streamer Streamer

	mailbox chan message
	closed  chan struct{}
	done    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	// streamerCtx/streamerCancel govern only the Initial Streamer; it is
	// canceled independently of the Dispatcher's own context so shutdown
	// can stop enumeration without necessarily canceling in-flight
	// handler invocations.
	streamerCtx    context.Context
	streamerCancel context.CancelFunc
	streamerToken  Token
	streamerState  streamerState

	queue   batchQueue
	staging stagingBuffer
	pool    *handlerPool

	flushTimer *time.Timer

	shuttingDown  bool
	shutdownReply chan struct{}
}

// newDispatcher builds a dispatcher ready to run. cfg must already have
// passed Validate and withDefaults.
func newDispatcher(ctx context.Context, cfg Config, handler Handler, streamer Streamer) *dispatcher {
	dctx, cancel := context.WithCancel(ctx)
	sctx, scancel := context.WithCancel(ctx)

	return &dispatcher{
		cfg:            cfg,
		handler:        handler,
		streamer:       streamer,
		mailbox:        make(chan message, cfg.MailboxBufferSize),
		closed:         make(chan struct{}),
		done:           make(chan struct{}),
		ctx:            dctx,
		cancel:         cancel,
		streamerCtx:    sctx,
		streamerCancel: scancel,
		streamerToken:  newToken(),
		pool:           newHandlerPool(cfg.MaxConcurrency),
	}
}

// start launches the Dispatcher's run loop along with the startup tick
// that kicks off the Initial Streamer and the first flush timer. It
// returns immediately; run continues in the background.
func (d *dispatcher) start() {
	go d.run()
	d.mailbox <- initialStreamMsg{}
	d.armFlushTimer()
}

// run is the Dispatcher's serial reactor. It is the only goroutine that
// ever reads d.mailbox, and the only code that ever touches d.queue,
// d.staging, d.pool, or d.streamerState.
func (d *dispatcher) run() {
	defer close(d.closed)
	defer close(d.done)

	for {
		msg := <-d.mailbox

		switch m := msg.(type) {
		case bufferMsg:
			d.handleBuffer(m)
		case asyncEnqueueMsg:
			d.handleAsyncEnqueue(m)
		case flushMsg:
			d.handleFlush()
		case initialStreamMsg:
			d.handleInitialStream()
		case handlerDoneMsg:
			d.handleHandlerDone(m)
		case handlerCrashedMsg:
			d.handleHandlerCrashed(m)
		case metricsMsg:
			d.handleMetrics(m)
		case shutdownMsg:
			d.handleShutdown(m)
			if d.shouldFinishShutdown() {
				d.finishShutdown()
				return
			}
			continue
		case shutdownDeadlineMsg:
			if d.shuttingDown {
				d.finishShutdown()
				return
			}
			continue
		default:
			d.cfg.Logger.Warn("bbtr: dispatcher received unknown message type", zap.String("type", fmt.Sprintf("%T", m)))
			continue
		}

		if d.shuttingDown && d.shouldFinishShutdown() {
			d.finishShutdown()
			return
		}

		d.dispatchAttempt()
	}
}

// handleBuffer implements buffer(items): append to the staging buffer and
// acknowledge synchronously. It never touches the batch queue, so it can
// never block on downstream capacity.
func (d *dispatcher) handleBuffer(m bufferMsg) {
	added := d.staging.add(m.items)
	if added > 0 {
		d.cfg.Telemetry.StagingBufferGrow(d.cfg.Name, added)
	}
	m.ack <- nil
}

// handleAsyncEnqueue implements async-enqueue: splice the Initial
// Streamer's pre-chunked records onto the batch queue tail.
func (d *dispatcher) handleAsyncEnqueue(m asyncEnqueueMsg) {
	d.queue.pushBackAll(m.records)
}

// handleFlush implements the flush semantics of spec §4.1: chunk and move
// the staging buffer to the batch queue, in MaxBatchSize segments, then
// rearm the flush timer; the run loop's dispatch attempt follows as usual.
// If the staging buffer was already empty this degenerates to a no-op
// beyond rearming.
func (d *dispatcher) handleFlush() {
	items := d.staging.drain()
	if len(items) > 0 {
		for _, r := range chunkIntoRecords(items, d.cfg.MaxBatchSize) {
			d.queue.pushBack(r)
		}
		d.cfg.Telemetry.StagingBufferReset(d.cfg.Name)
	}
	d.armFlushTimer()
}

// handleInitialStream starts the Initial Streamer exactly once.
func (d *dispatcher) handleInitialStream() {
	if d.streamerState != streamerNotStarted {
		return
	}
	d.streamerState = streamerRunning
	mailbox, closed := d.mailbox, d.closed
	d.cfg.TaskSupervisor(func() {
		runInitialStreamer(d.streamerCtx, d.cfg, d.streamer, d.streamerToken, func(m message) {
			send(mailbox, closed, m)
		})
	})
}

// handleHandlerDone applies the outcome policy from spec §4.1.
func (d *dispatcher) handleHandlerDone(m handlerDoneMsg) {
	r, ok := d.pool.release(m.token)
	if !ok {
		// Unknown or already-released token. Nothing to do.
		return
	}

	switch {
	case m.outcome.kind == outcomeOK:
		d.cfg.Logger.Debug("batch succeeded", zap.String("token", m.token.String()), zap.Int("retries", r.retries))

	case m.outcome.kind == outcomeRetry:
		d.requeue(r.batch, r.retries+1)

	case m.outcome.kind == outcomeRetryWithItems:
		d.requeue(m.outcome.newItems, r.retries+1)
	}
}

// handleHandlerCrashed disambiguates the streamer's completion signal from
// an actual handler crash, per spec §4.1.
func (d *dispatcher) handleHandlerCrashed(m handlerCrashedMsg) {
	if m.token == d.streamerToken {
		d.streamerState = streamerComplete
		if m.reason != nil {
			d.cfg.Logger.Error("initial streamer exited abnormally", zap.Error(m.reason))
		} else {
			d.cfg.Logger.Info("initial streamer enumeration complete")
		}
		return
	}

	r, ok := d.pool.release(m.token)
	if !ok {
		return
	}
	d.cfg.Logger.Warn("handler invocation crashed, retrying", zap.String("token", m.token.String()), zap.Error(m.reason), zap.Int("retries", r.retries))
	d.requeue(r.batch, r.retries+1)
}

// requeue appends a record to the batch queue tail. Retried batches are
// never reprioritized ahead of other work.
func (d *dispatcher) requeue(batch Batch, retries int) {
	d.queue.pushBack(&record{batch: batch, retries: retries})
}

// handleMetrics implements metrics(): {buffer_gauge, task_gauge}.
func (d *dispatcher) handleMetrics(m metricsMsg) {
	metrics := d.snapshotMetrics()
	m.reply <- metrics
}

func (d *dispatcher) snapshotMetrics() Metrics {
	bufferGauge := d.staging.itemCount() + d.queue.len()*d.cfg.MaxBatchSize
	taskGauge := d.pool.len()
	d.cfg.Telemetry.SetBufferGauge(d.cfg.Name, float64(bufferGauge))
	d.cfg.Telemetry.SetTaskGauge(d.cfg.Name, float64(taskGauge))
	return Metrics{BufferGauge: bufferGauge, TaskGauge: taskGauge}
}

// handleShutdown begins the shutdown sequence: stop the flush timer,
// cancel the Initial Streamer, and arm the deadline. It does not block;
// the run loop keeps draining handlerDone/handlerCrashed messages for
// in-flight invocations until either the pool empties or the deadline
// message arrives.
func (d *dispatcher) handleShutdown(m shutdownMsg) {
	if d.shuttingDown {
		// A second shutdown call while one is already in flight just
		// rides along with the first; reply when that one finishes.
		go func(reply chan struct{}) {
			<-d.done
			close(reply)
		}(m.reply)
		return
	}

	d.shuttingDown = true
	d.shutdownReply = m.reply

	if d.flushTimer != nil {
		d.flushTimer.Stop()
	}
	d.streamerCancel()

	deadline := d.cfg.ShutdownTimeout
	mailbox := d.mailbox
	closed := d.closed
	time.AfterFunc(deadline, func() {
		select {
		case mailbox <- shutdownDeadlineMsg{}:
		case <-closed:
		}
	})
}

func (d *dispatcher) shouldFinishShutdown() bool {
	return d.shuttingDown && d.pool.len() == 0
}

func (d *dispatcher) finishShutdown() {
	d.cancel()
	if d.shutdownReply != nil {
		close(d.shutdownReply)
	}
}

// dispatchAttempt is the sole mechanism for starting new work: while the
// handler task pool has room and the batch queue is non-empty, dequeue the
// head record, admit it into the pool, and spawn its handler invocation.
func (d *dispatcher) dispatchAttempt() {
	if d.shuttingDown {
		// Don't start new handler invocations once shutdown has begun;
		// only let in-flight ones drain.
		return
	}
	for d.queue.len() > 0 {
		r, ok := d.queue.popFront()
		if !ok {
			break
		}
		token, admitted := d.pool.tryAdmit(r)
		if !admitted {
			d.queue.pushFront(r)
			break
		}
		d.spawnHandler(token, r)
	}
}

// spawnHandler runs one handler invocation through Config.TaskSupervisor
// (by default, on its own goroutine). A panic
// inside Handler.Run is recovered and reported as a handlerCrashedMsg,
// indistinguishable from any other crash for recovery purposes.
func (d *dispatcher) spawnHandler(token Token, r *record) {
	d.cfg.Logger.Debug("dispatching batch",
		zap.String("token", token.String()),
		zap.Int("batch_size", len(r.batch)),
		zap.Int("retries", r.retries),
	)

	d.cfg.TaskSupervisor(func() {
		defer func() {
			if rec := recover(); rec != nil {
				send(d.mailbox, d.closed, handlerCrashedMsg{
					token:  token,
					reason: fmt.Errorf("bbtr: handler panic: %v", rec),
				})
			}
		}()

		outcome := d.handler.Run(d.ctx, r.batch, r.retries, d.cfg.HandlerState)
		send(d.mailbox, d.closed, handlerDoneMsg{token: token, outcome: outcome})
	})
}

// armFlushTimer schedules the single one-shot flush timer. It is rearmed
// after every fire and canceled on shutdown; there is exactly one pending
// flush at any time after startup.
func (d *dispatcher) armFlushTimer() {
	mailbox := d.mailbox
	closed := d.closed
	d.flushTimer = time.AfterFunc(d.cfg.FlushInterval, func() {
		send(mailbox, closed, flushMsg{})
	})
}

// send delivers msg to mailbox unless closed has already been closed, in
// which case it drops the message. This is what lets goroutines spawned by
// a now-exited Dispatcher (abandoned handler invocations, a streamer that
// outlives shutdown) avoid leaking on a send nobody will ever read.
func send(mailbox chan message, closed <-chan struct{}, msg message) {
	select {
	case mailbox <- msg:
	case <-closed:
	}
}
