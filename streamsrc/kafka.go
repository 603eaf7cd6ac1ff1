package streamsrc

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/batchworks/bbtr"
)

// Kafka streams the backlog already present across one or more partitions
// of a topic at the moment Stream begins, stopping once it catches up to
// each partition's high watermark. It models the Initial Streamer's
// "enumerate pre-existing pending items" contract against a log-structured
// external source rather than a database cursor; messages appended to the
// topic after Stream observes the watermarks are not enumerated (they are
// expected to arrive through Buffer via whatever consumer loop is reading
// the topic steadily, which is outside the Runner's concern).
type Kafka struct {
	Brokers    []string
	Topic      string
	Partitions []int
}

// Stream implements bbtr.Streamer. Partitions are read concurrently, but
// emit is only ever called from Stream's own goroutine: each partition
// reader publishes onto a shared channel, and a single consumer loop
// drains that channel and calls emit serially, preserving the Initial
// Streamer's single-caller assumption on its accumulator state.
func (k Kafka) Stream(ctx context.Context, _ interface{}, emit func(bbtr.Item) error) error {
	if len(k.Brokers) == 0 {
		return fmt.Errorf("streamsrc: Kafka.Brokers must not be empty")
	}
	partitions := k.Partitions
	if len(partitions) == 0 {
		partitions = []int{0}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	values := make(chan []byte)

	for _, partition := range partitions {
		partition := partition
		group.Go(func() error {
			return k.streamPartition(groupCtx, partition, values)
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- group.Wait()
		close(values)
	}()

	for v := range values {
		if err := emit(v); err != nil {
			return err
		}
	}
	return <-done
}

// streamPartition reads everything in [0, high-watermark) for one
// partition and publishes each message's value onto values.
func (k Kafka) streamPartition(ctx context.Context, partition int, values chan<- []byte) error {
	conn, err := kafka.DialLeader(ctx, "tcp", k.Brokers[0], k.Topic, partition)
	if err != nil {
		return fmt.Errorf("streamsrc: dial kafka leader (partition %d): %w", partition, err)
	}
	highWaterMark, offsetErr := conn.ReadLastOffset()
	closeErr := conn.Close()
	if offsetErr != nil {
		return fmt.Errorf("streamsrc: read last offset (partition %d): %w", partition, offsetErr)
	}
	if closeErr != nil {
		return fmt.Errorf("streamsrc: close leader conn (partition %d): %w", partition, closeErr)
	}
	if highWaterMark == 0 {
		return nil
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   k.Brokers,
		Topic:     k.Topic,
		Partition: partition,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	if err := reader.SetOffset(0); err != nil {
		return fmt.Errorf("streamsrc: set offset (partition %d): %w", partition, err)
	}

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			return fmt.Errorf("streamsrc: read message (partition %d): %w", partition, err)
		}
		select {
		case values <- msg.Value:
		case <-ctx.Done():
			return ctx.Err()
		}
		if msg.Offset+1 >= highWaterMark {
			return nil
		}
	}
}
