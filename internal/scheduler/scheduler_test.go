package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_ExecutesInCompletionTimeOrder(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	defer s.Shutdown()

	var mu sync.Mutex
	var order []string
	done := make(chan struct{}, 3)

	record := func(id string) Callback {
		return func(ctx context.Context) error {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			done <- struct{}{}
			return nil
		}
	}

	now := time.Now()
	s.Schedule("c", now.Add(30*time.Millisecond), record("c"))
	s.Schedule("a", now.Add(10*time.Millisecond), record("a"))
	s.Schedule("b", now.Add(20*time.Millisecond), record("b"))

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for scheduled tasks")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestScheduler_CancelRemovesPendingTask(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	s.Schedule("t1", time.Now().Add(50*time.Millisecond), func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})

	removed := s.Cancel("t1")
	assert.True(t, removed)
	assert.False(t, s.Cancel("t1"), "second cancel of the same id should report nothing removed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	defer s.Shutdown()

	select {
	case <-ran:
		t.Fatal("canceled task must not execute")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestScheduler_AtMostOnce(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	defer s.Shutdown()

	var executions int32
	var mu sync.Mutex
	done := make(chan struct{})
	s.Schedule("once", time.Now().Add(10*time.Millisecond), func(ctx context.Context) error {
		mu.Lock()
		executions++
		mu.Unlock()
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.EqualValues(t, 1, executions)
}

func TestRecover_CatchUpUsesScheduledTimeNotNow(t *testing.T) {
	s := New()

	var mu sync.Mutex
	var effectiveNows []time.Time

	base := time.Now().Add(-time.Hour)
	tasks := []RecoveryTask{
		{
			TaskID:         "future",
			CompletionTime: time.Now().Add(time.Hour),
			Run: func(ctx context.Context, effectiveNow time.Time) error {
				mu.Lock()
				effectiveNows = append(effectiveNows, effectiveNow)
				mu.Unlock()
				return nil
			},
		},
		{
			TaskID:         "past-2",
			CompletionTime: base.Add(20 * time.Minute),
			Run: func(ctx context.Context, effectiveNow time.Time) error {
				mu.Lock()
				effectiveNows = append(effectiveNows, effectiveNow)
				mu.Unlock()
				return nil
			},
		},
		{
			TaskID:         "past-1",
			CompletionTime: base.Add(10 * time.Minute),
			Run: func(ctx context.Context, effectiveNow time.Time) error {
				mu.Lock()
				effectiveNows = append(effectiveNows, effectiveNow)
				mu.Unlock()
				return nil
			},
		},
	}

	require.NoError(t, s.Recover(context.Background(), tasks, time.Now()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, effectiveNows, 2, "only the two past-due tasks run synchronously during Recover")
	assert.True(t, effectiveNows[0].Equal(base.Add(10*time.Minute)))
	assert.True(t, effectiveNows[1].Equal(base.Add(20*time.Minute)))
	assert.Equal(t, 1, s.PendingCount(), "the future task is enqueued, not executed")
}
