package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work run by FanOut.
type Task func(ctx context.Context) error

// FanOut runs tasks concurrently with at most limit in flight (limit <= 0
// means no limit). The first error cancels the shared context and is
// returned once every task has finished.
func FanOut(ctx context.Context, limit int, tasks ...Task) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return task(ctx)
		})
	}
	return g.Wait()
}
