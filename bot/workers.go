package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// SessionSweeper drops blackjack hands nobody finished
type SessionSweeper interface {
	Sweep(maxAge time.Duration) int
}

// RunSessionSweeper sweeps abandoned hands every interval until ctx is done
func RunSessionSweeper(ctx context.Context, sweeper SessionSweeper, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Session sweeper stopped")
			return
		case <-ticker.C:
			if removed := sweeper.Sweep(maxAge); removed > 0 {
				log.WithFields(log.Fields{
					"removed": removed,
					"maxAge":  maxAge,
				}).Info("Swept abandoned blackjack sessions")
			}
		}
	}
}
