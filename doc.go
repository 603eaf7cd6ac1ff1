// Package bbtr contains a buffered batch task runner. The main type is
// Runner, created with Start. A Runner accepts opaque items through Buffer,
// groups them into batches of bounded size, and executes those batches
// concurrently through a user-supplied Handler with a capped degree of
// parallelism.
//
// A second source of items, the Streamer, is consumed exactly once per
// Runner lifetime to enumerate items that already existed before the Runner
// started (for example, rows already sitting in a database). Items read
// from the Streamer bypass the staging buffer and are chunked directly onto
// the batch queue.
//
// Runner is a single-owner coordinator: all of its mutable state (the batch
// queue, the staging buffer, the handler task pool, the timers) is confined
// to one goroutine that serially drains an inbound mailbox. Buffer,
// Metrics, and Shutdown are expressed as messages sent to that mailbox, so
// no locking is required around the coordinator's own state.
//
// Batches that fail, either by the Handler returning a retry outcome or by
// the handler invocation crashing, are appended back to the tail of the
// batch queue with an incremented retry count. The runner does not bound
// the number of retries and does not apply a retry delay; a Handler that
// wants to give up consults the retry count it is passed and returns Ok.
package bbtr
