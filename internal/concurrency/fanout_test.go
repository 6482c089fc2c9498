package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut_RunsAll(t *testing.T) {
	var n atomic.Int32
	task := func(ctx context.Context) error {
		n.Add(1)
		return nil
	}

	require.NoError(t, FanOut(context.Background(), 2, task, task, task, task))
	assert.Equal(t, int32(4), n.Load())
}

func TestFanOut_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	task := func(ctx context.Context) error {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		inFlight.Add(-1)
		return nil
	}

	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = task
	}
	require.NoError(t, FanOut(context.Background(), 3, tasks...))
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestFanOut_FirstErrorCancels(t *testing.T) {
	boom := errors.New("boom")

	err := FanOut(context.Background(), 0,
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)
	assert.ErrorIs(t, err, boom)
}
