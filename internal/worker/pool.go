// Package worker runs per-file jobs with configurable concurrency.
// A single worker preserves the tool's default sequential, throttled
// behavior; more workers are safe because each file job is
// self-contained and the shared stats are mutex-guarded.
package worker

import (
	"context"
	"sync"
	"time"
)

// ProcessFunc handles a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) R

// ResultFunc observes each result as it completes.
type ResultFunc[T any, R any] func(input T, result R)

// Pool is a generic worker pool with a throttle delay between job
// submissions, used to respect the translation service's rate limits.
type Pool[T any, R any] struct {
	workers  int
	throttle time.Duration
	process  ProcessFunc[T, R]
}

// NewPool creates a pool. Fewer than one worker is clamped to one.
func NewPool[T any, R any](workers int, throttle time.Duration, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, throttle: throttle, process: fn}
}

// Run feeds all inputs through the pool. onResult is invoked for each
// finished job under a lock, so observers need no synchronization of
// their own. Submission stops once ctx is cancelled; jobs already
// running complete normally, which is what keeps interruption from
// ever leaving a half-written file.
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T, onResult ResultFunc[T, R]) {
	inputCh := make(chan T)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for input := range inputCh {
				result := p.process(ctx, input)
				if onResult != nil {
					mu.Lock()
					onResult(input, result)
					mu.Unlock()
				}
			}
		}()
	}

submit:
	for i, input := range inputs {
		if i > 0 && p.throttle > 0 {
			select {
			case <-ctx.Done():
				break submit
			case <-time.After(p.throttle):
			}
		}
		select {
		case <-ctx.Done():
			break submit
		case inputCh <- input:
		}
	}
	close(inputCh)

	wg.Wait()
}
