package cleanup

import (
	"context"
	"time"

	"github.com/iamasit07/c4-minimax/internal/logging"
)

// SessionSweeper drops stale in-memory sessions and reports how many went.
type SessionSweeper interface {
	CleanupOldSessions() int
}

type Worker struct {
	Sessions SessionSweeper
	Interval time.Duration
}

func NewWorker(sessions SessionSweeper, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{Sessions: sessions, Interval: interval}
}

// Start runs one sweep immediately, then one per Interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	logging.Component("cleanup").Info().Dur("interval", w.Interval).Msg("background worker started")
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logging.Component("cleanup").Info().Msg("background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() {
	removed := w.Sessions.CleanupOldSessions()
	logging.Component("cleanup").Debug().Int("removed", removed).Msg("scheduled cleanup finished")
}
