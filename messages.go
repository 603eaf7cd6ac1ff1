package bbtr

// message is the marker type for everything the Dispatcher's mailbox
// accepts. The Dispatcher processes exactly one message at a time, in
// arrival order, and runs a dispatch attempt after every one that can
// change its state.
type message interface{}

// bufferMsg implements buffer(items): append items to the staging buffer.
// ack receives nil once the items have been appended; the Dispatcher never
// blocks sending to ack because Runner.Buffer creates it with a buffer of
// one, so the send succeeds even if the caller has already timed out.
type bufferMsg struct {
	items []Item
	ack   chan error
}

// asyncEnqueueMsg implements async-enqueue: splice a pre-built sub-queue of
// records, produced by the Initial Streamer, onto the tail of the batch
// queue.
type asyncEnqueueMsg struct {
	records []*record
}

// flushMsg implements the periodic flush tick.
type flushMsg struct{}

// initialStreamMsg implements the startup tick that starts the Initial
// Streamer if it has not already been started.
type initialStreamMsg struct{}

// handlerDoneMsg reports a handler invocation's outcome.
type handlerDoneMsg struct {
	token   Token
	outcome Outcome
}

// handlerCrashedMsg reports either an abnormal handler termination or the
// Initial Streamer's exit (normal or abnormal). reason is nil exactly when
// this is the streamer's normal completion; any other value (including a
// handler panic wrapped as an error) is treated as a failure requiring
// retry of the associated (batch, retries), if token is a known handler
// invocation.
type handlerCrashedMsg struct {
	token  Token
	reason error
}

// metricsMsg implements metrics().
type metricsMsg struct {
	reply chan Metrics
}

// shutdownMsg implements shutdown(). reply is closed once the Dispatcher
// has fully stopped.
type shutdownMsg struct {
	reply chan struct{}
}

// shutdownDeadlineMsg is fed back into the mailbox by a timer started when
// shutdown begins. It lets the shutdown deadline be enforced without the
// Dispatcher ever blocking inline on a timeout.
type shutdownDeadlineMsg struct{}

// Metrics is the snapshot returned by Runner.Metrics.
type Metrics struct {
	// BufferGauge is the number of items staged plus the number of
	// queued batches times MaxBatchSize.
	BufferGauge int

	// TaskGauge is the number of handler invocations currently in
	// flight.
	TaskGauge int
}
