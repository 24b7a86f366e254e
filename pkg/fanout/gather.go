package fanout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of one task, stored at the index of its input.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Gather starts fn for every input at once, waits for all of them, and
// returns their results in input order. A task that panics is reported as
// an error in its own Result.
func Gather[T, R any](ctx context.Context, inputs []T, fn func(ctx context.Context, input T) (R, error)) []Result[R] {
	results := make([]Result[R], len(inputs))
	if len(inputs) == 0 {
		return results
	}

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(len(inputs))
	for i, input := range inputs {
		go func(i int, input T) {
			defer wg.Done()
			results[i] = run(ctx, i, input, fn)
		}(i, input)
	}
	wg.Wait()

	log.Debug().
		Int("tasks", len(inputs)).
		Int("failed", Failed(results)).
		Dur("duration", time.Since(start)).
		Msg("Fan-out complete")

	return results
}

// run executes a single task, converting a panic into an error.
func run[T, R any](ctx context.Context, i int, input T, fn func(context.Context, T) (R, error)) (res Result[R]) {
	res.Index = i
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("task %d panicked: %v", i, p)
		}
	}()

	// Skip work nobody will consume.
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	res.Value, res.Err = fn(ctx, input)
	return res
}

// Failed returns how many results carry an error.
func Failed[R any](results []Result[R]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
