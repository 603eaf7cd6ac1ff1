package bbtr

import "errors"

// ErrShutdown is returned by Buffer once Shutdown has been called. The
// runner stops accepting new items immediately when shutdown begins.
var ErrShutdown = errors.New("bbtr: runner is shutting down")

// ErrBufferTimeout is returned by Buffer when the caller-supplied timeout
// expires before the Dispatcher acknowledges the submission. It does not
// indicate that the items were lost from the Dispatcher's perspective if
// the mailbox send itself succeeded; it only means the caller gave up
// waiting for the acknowledgement.
var ErrBufferTimeout = errors.New("bbtr: buffer acknowledgement timed out")
