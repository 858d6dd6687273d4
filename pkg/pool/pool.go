// Package pool provides a generic fixed-size worker pool. Given N tasks and
// a concurrency limit C, min(C, N) workers each claim the next unclaimed
// task index from a single shared counter and run it to completion before
// claiming another. Results land at the task's original index, so output
// ordering matches input ordering regardless of completion order.
//
// Failure policy: best-effort. A failing task does not stop sibling workers
// from claiming further tasks; all errors are collected and returned joined,
// each one tagged with its task index.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Task is one unit of asynchronous work
type Task[T any] func(ctx context.Context) (T, error)

// Run executes all tasks with bounded concurrency and returns the results
// in task order. The results slice is fully populated even when some tasks
// fail; failed indexes hold the zero value.
func Run[T any](ctx context.Context, limit int, tasks []Task[T]) ([]T, error) {
	if limit < 1 {
		return nil, fmt.Errorf("pool: concurrency limit must be at least 1, got %d", limit)
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	workers := limit
	if len(tasks) < workers {
		workers = len(tasks)
	}

	results := make([]T, len(tasks))
	taskErrs := make([]error, len(tasks))

	var next atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(tasks) {
					return
				}
				result, err := tasks[i](ctx)
				if err != nil {
					taskErrs[i] = fmt.Errorf("task %d: %w", i, err)
					continue
				}
				results[i] = result
			}
		}()
	}

	wg.Wait()

	return results, errors.Join(taskErrs...)
}
