package bbtr

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Default values used when an optional Config field is left at its zero
// value.
const (
	// DefaultMailboxBufferSize is the buffer size for the Dispatcher's
	// inbound mailbox channel. It decouples producer call latency from the
	// speed at which the Dispatcher drains its mailbox.
	DefaultMailboxBufferSize = 100

	// DefaultShutdownTimeout bounds how long Shutdown waits for in-flight
	// handler invocations before abandoning them.
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds the construction configuration for a Runner. FlushInterval,
// MaxConcurrency, MaxBatchSize and InitChunkSize are required; Start
// returns an error naming the first missing or invalid field. HandlerState
// is passed through as given, nil included, and the remaining fields fall
// back to defaults when left at their zero values.
type Config struct {
	// FlushInterval is the interval between staging buffer drains.
	FlushInterval time.Duration

	// MaxConcurrency is the upper bound on simultaneous handler
	// invocations. The handler task pool never exceeds this size.
	MaxConcurrency int

	// MaxBatchSize is the maximum number of items delivered to the
	// handler in a single batch.
	MaxBatchSize int

	// InitChunkSize governs the Initial Streamer's delivery granularity:
	// how many items it accumulates before flushing a chunk of batches
	// onto the batch queue. It is independent of MaxBatchSize.
	InitChunkSize int

	// HandlerState is passed, unmodified by the runner, to every handler
	// invocation and to the Streamer. The runner treats it as opaque.
	HandlerState interface{}

	// Name is an optional identifier used for telemetry dimensions and
	// structured log fields. If empty, "bbtr" is used.
	Name string

	// MailboxBufferSize (optional) overrides DefaultMailboxBufferSize for
	// the Dispatcher's inbound mailbox channel.
	MailboxBufferSize int

	// ShutdownTimeout (optional) overrides DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger (optional) receives structured operational logs. If nil, a
	// no-op logger is used.
	Logger *zap.Logger

	// Telemetry (optional) receives the telemetry surface described on
	// the Telemetry interface. If nil, a no-op implementation is used.
	Telemetry Telemetry

	// TaskSupervisor (optional) is the factory used to run the Initial
	// Streamer and every handler invocation as an independent concurrent
	// task. If nil, each task runs on its own goroutine. Callers that
	// want invocations to run on a worker pool, or to be traced or
	// recovered by a shared supervisor, can supply their own.
	TaskSupervisor func(task func())
}

// Validate checks that all required Config fields are present and
// consistent, returning a descriptive error naming the first problem
// found. A missing or invalid required field is a construction-time
// failure per the runner's error handling contract: it is never recovered
// from silently.
func (c Config) Validate() error {
	if c.FlushInterval <= 0 {
		return errors.New("bbtr: Config.FlushInterval is required and must be positive")
	}
	if c.MaxConcurrency <= 0 {
		return errors.New("bbtr: Config.MaxConcurrency is required and must be positive")
	}
	if c.MaxBatchSize <= 0 {
		return errors.New("bbtr: Config.MaxBatchSize is required and must be positive")
	}
	if c.InitChunkSize <= 0 {
		return errors.New("bbtr: Config.InitChunkSize is required and must be positive")
	}
	if c.MailboxBufferSize < 0 {
		return fmt.Errorf("bbtr: Config.MailboxBufferSize cannot be negative, got %d", c.MailboxBufferSize)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("bbtr: Config.ShutdownTimeout cannot be negative, got %v", c.ShutdownTimeout)
	}
	return nil
}

// withDefaults returns a copy of c with optional zero-valued fields filled
// in. It assumes c has already passed Validate.
func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "bbtr"
	}
	if c.MailboxBufferSize == 0 {
		c.MailboxBufferSize = DefaultMailboxBufferSize
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Telemetry == nil {
		c.Telemetry = noopTelemetry{}
	}
	if c.TaskSupervisor == nil {
		c.TaskSupervisor = func(task func()) { go task() }
	}
	return c
}
