package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) CleanupOldSessions() int {
	s.calls.Add(1)
	return 0
}

func TestWorkerSweepsUntilCancelled(t *testing.T) {
	sweeper := &countingSweeper{}
	w := NewWorker(sweeper, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNewWorkerDefaultInterval(t *testing.T) {
	require.Equal(t, time.Hour, NewWorker(&countingSweeper{}, 0).Interval)
}
