package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatchRunsTasks(t *testing.T) {
	d := NewDispatcher(2, discardLogger())

	var ran atomic.Int32
	for range 5 {
		err := d.Dispatch(context.Background(), Task{
			Name: "count",
			Run: func(context.Context) error {
				ran.Add(1)
				return nil
			},
		})
		require.NoError(t, err)
	}

	d.Stop()
	assert.Equal(t, int32(5), ran.Load())
}

func TestDispatchRejectsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(1, discardLogger())

	release := make(chan struct{})
	blocked := make(chan struct{})
	require.NoError(t, d.Dispatch(context.Background(), Task{
		Name: "block",
		Run: func(context.Context) error {
			close(blocked)
			<-release
			return nil
		},
	}))
	<-blocked

	// Fill the queue behind the blocked worker.
	queued := 0
	for i := 0; i < 200; i++ {
		if err := d.Dispatch(context.Background(), Task{Name: "fill", Run: func(context.Context) error { return nil }}); err != nil {
			assert.ErrorContains(t, err, "task queue is full")
			break
		}
		queued++
	}
	assert.Equal(t, 100, queued, "queue capacity bounds accepted tasks")

	close(release)
	d.Stop()
}

func TestStopDrainsQueuedTasks(t *testing.T) {
	d := NewDispatcher(1, discardLogger())

	var ran atomic.Int32
	for range 10 {
		require.NoError(t, d.Dispatch(context.Background(), Task{
			Name: "drain",
			Run: func(context.Context) error {
				time.Sleep(time.Millisecond)
				ran.Add(1)
				return nil
			},
		}))
	}

	d.Stop()
	assert.Equal(t, int32(10), ran.Load(), "Stop waits for queued tasks to finish")
}
