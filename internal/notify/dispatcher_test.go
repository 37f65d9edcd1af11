package notify

import (
	"context"
	"errors"
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

func TestDispatcher_RunsJobs(t *testing.T) {
	d := NewDispatcher(discardLogger(), 2, 10, time.Second)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		d.Enqueue(Job{Name: "ok", Run: func(context.Context) error {
			ran.Add(1)
			return nil
		}})
	}

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(5), ran.Load())
	assert.Equal(t, int64(0), d.Failures())
}

func TestDispatcher_FailuresAreCountedNotReturned(t *testing.T) {
	d := NewDispatcher(discardLogger(), 1, 10, time.Second)

	d.Enqueue(
		Job{Name: "boom", Run: func(context.Context) error { return errors.New("smtp down") }},
		Job{Name: "panic", Run: func(context.Context) error { panic("bad template") }},
		Job{Name: "ok", Run: func(context.Context) error { return nil }},
	)

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int64(2), d.Failures())
}

func TestDispatcher_JobsGetTimeoutContext(t *testing.T) {
	d := NewDispatcher(discardLogger(), 1, 1, 20*time.Millisecond)

	errCh := make(chan error, 1)
	d.Enqueue(Job{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		errCh <- ctx.Err()
		return ctx.Err()
	}})

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job context never expired")
	}
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	d := NewDispatcher(discardLogger(), 1, 1, time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	d.Enqueue(Job{Name: "blocker", Run: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})
	<-started

	noop := Job{Name: "noop", Run: func(context.Context) error { return nil }}
	d.Enqueue(noop) // fills the queue
	d.Enqueue(noop) // dropped

	assert.Equal(t, int64(1), d.Failures())
	close(release)
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_EnqueueAfterShutdown(t *testing.T) {
	d := NewDispatcher(discardLogger(), 1, 1, time.Second)
	require.NoError(t, d.Shutdown(context.Background()))
	require.NoError(t, d.Shutdown(context.Background()))

	assert.NotPanics(t, func() {
		d.Enqueue(Job{Name: "late", Run: func(context.Context) error { return nil }})
	})
	assert.Equal(t, int64(1), d.Failures())
}

func TestDispatcher_ShutdownHonoursContext(t *testing.T) {
	d := NewDispatcher(discardLogger(), 1, 1, time.Minute)

	release := make(chan struct{})
	defer close(release)
	d.Enqueue(Job{Name: "stuck", Run: func(context.Context) error {
		<-release
		return nil
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)
}
