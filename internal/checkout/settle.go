package checkout

import (
	"context"
	"sync"
)

// outcome is one settled task: either a value or an error, never both
// meaningful at once.
type outcome[T any] struct {
	value T
	err   error
}

// settleAll runs every task concurrently and waits for all of them to
// settle, returning outcomes in task order. Unlike an errgroup, a
// failing task does not cancel its siblings: the checkout fan-out
// needs every result, success or failure, before it can partition.
func settleAll[T any](ctx context.Context, tasks []func(context.Context) (T, error)) []outcome[T] {
	results := make([]outcome[T], len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task func(context.Context) (T, error)) {
			defer wg.Done()
			v, err := task(ctx)
			results[i] = outcome[T]{value: v, err: err}
		}(i, task)
	}
	wg.Wait()
	return results
}
