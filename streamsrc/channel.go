// Package streamsrc provides concrete bbtr.Streamer implementations, the
// way the teacher's source package shipped concrete implementations of its
// Source interface (Channel, Error, Nil) alongside the core batch engine.
package streamsrc

import (
	"context"

	"github.com/batchworks/bbtr"
)

// Channel streams every item sent on in, in order, until in is closed or
// ctx is done. It is the simplest possible Streamer, useful for tests and
// for adapting an existing producer that already has its own channel-based
// API.
type Channel struct {
	In <-chan bbtr.Item
}

// Stream implements bbtr.Streamer.
func (c Channel) Stream(ctx context.Context, _ interface{}, emit func(bbtr.Item) error) error {
	for {
		select {
		case item, ok := <-c.In:
			if !ok {
				return nil
			}
			if err := emit(item); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Nil is a Streamer that enumerates nothing and returns immediately. It is
// useful when a Runner has no pre-existing backlog to enumerate and only
// needs to accept items through Buffer.
type Nil struct{}

// Stream implements bbtr.Streamer.
func (Nil) Stream(context.Context, interface{}, func(bbtr.Item) error) error {
	return nil
}

// Slice streams every element of Items, in order, then returns. It is
// useful for tests that want a fixed, finite backlog.
type Slice struct {
	Items []bbtr.Item
}

// Stream implements bbtr.Streamer.
func (s Slice) Stream(ctx context.Context, _ interface{}, emit func(bbtr.Item) error) error {
	for _, item := range s.Items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := emit(item); err != nil {
			return err
		}
	}
	return nil
}
