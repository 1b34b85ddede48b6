package debounce_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pharmakit/pkg/debounce"
)

func TestDebouncer_RunsLastCall(t *testing.T) {
	t.Parallel()

	d := debounce.New(100 * time.Millisecond)
	ran := make(chan int, 10)
	var calls atomic.Int32

	for i := range 5 {
		d.Trigger(context.Background(), func(context.Context) {
			calls.Add(1)
			ran <- i
		})
		time.Sleep(time.Millisecond)
	}

	select {
	case got := <-ran:
		assert.Equal(t, 4, got)
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_CancelsRunningCall(t *testing.T) {
	t.Parallel()

	d := debounce.New(time.Millisecond)
	started := make(chan struct{})
	stopped := make(chan error, 1)

	d.Trigger(context.Background(), func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		stopped <- ctx.Err()
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first call never started")
	}

	d.Trigger(context.Background(), func(context.Context) {})

	select {
	case err := <-stopped:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("stale call was not cancelled")
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	t.Parallel()

	d := debounce.New(10 * time.Millisecond)
	var calls atomic.Int32

	d.Trigger(context.Background(), func(context.Context) { calls.Add(1) })
	d.Cancel()
	d.Cancel()

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebouncer_DoneContextSkipsCall(t *testing.T) {
	t.Parallel()

	d := debounce.New(10 * time.Millisecond)
	var calls atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	d.Trigger(ctx, func(context.Context) { calls.Add(1) })
	cancel()

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestNew(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 300*time.Millisecond, debounce.New(300*time.Millisecond).Delay())
	assert.Panics(t, func() { debounce.New(-time.Second) })
}
