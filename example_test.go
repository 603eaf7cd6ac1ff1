package bbtr_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/batchworks/bbtr"
)

// printHandler prints each batch it is given, counting down a
// WaitGroup so the example can wait for every item to be handled before
// printing its final line.
type printHandler struct {
	wg *sync.WaitGroup
}

func (h printHandler) Run(ctx context.Context, batch bbtr.Batch, retries int, _ interface{}) bbtr.Outcome {
	fmt.Println(batch)
	h.wg.Add(-len(batch))
	return bbtr.Ok()
}

func (printHandler) Stream(context.Context, interface{}, func(bbtr.Item) error) error {
	return nil
}

func Example() {
	var wg sync.WaitGroup
	wg.Add(3)

	r, err := bbtr.Start(context.Background(), printHandler{wg: &wg}, bbtr.Config{
		FlushInterval:  time.Millisecond,
		MaxConcurrency: 1,
		MaxBatchSize:   3,
		InitChunkSize:  1,
	})
	if err != nil {
		fmt.Println("start failed:", err)
		return
	}
	defer r.Shutdown(context.Background())

	if err := r.Buffer(context.Background(), []bbtr.Item{1, 2, 3}, time.Second); err != nil {
		fmt.Println("buffer failed:", err)
		return
	}

	wg.Wait()
	fmt.Println("done")

	// Output:
	// [1 2 3]
	// done
}
