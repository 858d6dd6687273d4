package pool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPreservesOrdering(t *testing.T) {
	tasks := make([]Task[int], 10)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) (int, error) {
			// later tasks finish first
			time.Sleep(time.Duration(10-i) * time.Millisecond)
			return i * 10, nil
		}
	}

	results, err := Run(context.Background(), 3, tasks)
	require.NoError(t, err)
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i*10, r)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var inFlight, highWater atomic.Int64

	tasks := make([]Task[struct{}], 10)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (struct{}, error) {
			current := inFlight.Add(1)
			for {
				seen := highWater.Load()
				if current <= seen || highWater.CompareAndSwap(seen, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return struct{}{}, nil
		}
	}

	_, err := Run(context.Background(), 3, tasks)
	require.NoError(t, err)
	assert.LessOrEqual(t, highWater.Load(), int64(3), "at most 3 tasks in flight")
	assert.Greater(t, highWater.Load(), int64(0))
}

func TestRunCollectsAllErrors(t *testing.T) {
	boom2 := errors.New("boom two")
	boom5 := errors.New("boom five")
	var executed atomic.Int64

	tasks := make([]Task[string], 8)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) (string, error) {
			executed.Add(1)
			switch i {
			case 2:
				return "", boom2
			case 5:
				return "", boom5
			}
			return fmt.Sprintf("ok-%d", i), nil
		}
	}

	results, err := Run(context.Background(), 2, tasks)
	require.Error(t, err)

	// best-effort: every task still ran
	assert.Equal(t, int64(8), executed.Load())
	assert.True(t, errors.Is(err, boom2))
	assert.True(t, errors.Is(err, boom5))
	assert.Contains(t, err.Error(), "task 2")
	assert.Contains(t, err.Error(), "task 5")

	assert.Equal(t, "ok-0", results[0])
	assert.Equal(t, "", results[2])
	assert.Equal(t, "ok-7", results[7])
}

func TestRunFewerTasksThanWorkers(t *testing.T) {
	tasks := []Task[int]{
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 2, nil },
	}

	results, err := Run(context.Background(), 8, tasks)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, results)
}

func TestRunEmptyTaskList(t *testing.T) {
	results, err := Run[int](context.Background(), 4, nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestRunRejectsBadLimit(t *testing.T) {
	_, err := Run(context.Background(), 0, []Task[int]{
		func(ctx context.Context) (int, error) { return 0, nil },
	})
	require.Error(t, err)
}

func TestRunNoTaskClaimedTwice(t *testing.T) {
	var counts [20]atomic.Int64
	tasks := make([]Task[struct{}], 20)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) (struct{}, error) {
			counts[i].Add(1)
			return struct{}{}, nil
		}
	}

	_, err := Run(context.Background(), 4, tasks)
	require.NoError(t, err)
	for i := range counts {
		assert.Equal(t, int64(1), counts[i].Load(), "task %d", i)
	}
}
