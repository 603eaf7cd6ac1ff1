package streamsrc

import (
	"context"
	"testing"
	"time"

	"github.com/batchworks/bbtr"
)

func TestChannel_StreamsUntilClosed(t *testing.T) {
	in := make(chan bbtr.Item)
	s := Channel{In: in}

	var got []bbtr.Item
	done := make(chan error, 1)
	go func() {
		done <- s.Stream(context.Background(), nil, func(item bbtr.Item) error {
			got = append(got, item)
			return nil
		})
	}()

	for i := 0; i < 5; i++ {
		in <- i
	}
	close(in)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stream() err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Stream() did not return after In was closed")
	}

	if len(got) != 5 {
		t.Fatalf("got %d items, want 5", len(got))
	}
	for i, item := range got {
		if item != i {
			t.Errorf("got[%d] = %v, want %v", i, item, i)
		}
	}
}

func TestChannel_StopsOnContextCancel(t *testing.T) {
	in := make(chan bbtr.Item)
	s := Channel{In: in}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Stream(ctx, nil, func(bbtr.Item) error { return nil })
	}()

	cancel()

	select {
	case err := <-done:
		if err != ctx.Err() {
			t.Errorf("Stream() err = %v, want %v", err, ctx.Err())
		}
	case <-time.After(time.Second):
		t.Fatal("Stream() did not return after ctx was canceled")
	}
}

func TestNil_ReturnsImmediately(t *testing.T) {
	var calls int
	err := Nil{}.Stream(context.Background(), nil, func(bbtr.Item) error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Stream() err = %v, want nil", err)
	}
	if calls != 0 {
		t.Errorf("emit was called %d times, want 0", calls)
	}
}

func TestSlice_StreamsEveryElementInOrder(t *testing.T) {
	s := Slice{Items: []bbtr.Item{"a", "b", "c"}}

	var got []bbtr.Item
	err := s.Stream(context.Background(), nil, func(item bbtr.Item) error {
		got = append(got, item)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() err = %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("got %v, want [a b c]", got)
	}
}
