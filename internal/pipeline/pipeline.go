package pipeline

import (
	"context"
	"sync"
)

// Outcome carries either a value or the error produced for the item at Index.
type Outcome[T any] struct {
	Index int
	Value T
	Err   error
}

func (o Outcome[T]) OK() bool { return o.Err == nil }

// Run applies fn to every item and returns one outcome per item in input
// order. With workers <= 1 items are processed sequentially on the calling
// goroutine. A cancelled context marks the remaining items with ctx.Err().
func Run[I, O any](ctx context.Context, items []I, workers int, fn func(ctx context.Context, index int, item I) (O, error)) []Outcome[O] {
	if len(items) == 0 || fn == nil {
		return nil
	}
	out := make([]Outcome[O], len(items))
	if workers <= 1 {
		for i, item := range items {
			out[i] = call(ctx, i, item, fn)
		}
		return out
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = call(ctx, i, items[i], fn)
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

func Succeeded[T any](outcomes []Outcome[T]) []T {
	vals := make([]T, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

func call[I, O any](ctx context.Context, i int, item I, fn func(context.Context, int, I) (O, error)) Outcome[O] {
	if err := ctx.Err(); err != nil {
		return Outcome[O]{Index: i, Err: err}
	}
	v, err := fn(ctx, i, item)
	return Outcome[O]{Index: i, Value: v, Err: err}
}
