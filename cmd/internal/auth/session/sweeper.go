package session

import (
	"context"
	"time"
)

// RunSweeper periodically deletes expired refresh-token records until ctx
// is cancelled. It is an optional supplement to the lazy request-triggered
// sweep and is enabled by a positive SweepInterval; concurrent sweeps are
// mutually idempotent, so running it alongside request traffic is safe.
func (s *Service) RunSweeper(ctx context.Context) {
	if s.cfg.SweepInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.log.Info("session.sweeper.start", "interval", s.cfg.SweepInterval.String())

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session.sweeper.stop")
			return
		case now := <-ticker.C:
			if err := s.store.DeleteExpired(ctx, now.UTC()); err != nil {
				s.log.Error("session.sweeper.fail", "err", err)
			}
		}
	}
}
