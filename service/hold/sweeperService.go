package holdsvc

import (
	"context"
	"log/slog"
	"time"

	"librarian/util/metrics"
)

// Sweeper reclaims inventory reserved by expired holds. Expiry stays a
// read-time derived state; the sweeper only moves the counters and marks
// the hold released.
type Sweeper interface {
	ReleaseExpired(ctx context.Context) (int64, error)
	Run(ctx context.Context, interval time.Duration, log *slog.Logger)
}

type sweeper struct {
	r Repo
}

func NewSweeper(r Repo) Sweeper { return &sweeper{r: r} }

func (s *sweeper) ReleaseExpired(ctx context.Context) (int64, error) {
	n, err := s.r.ReleaseExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.AddHoldsReleased(n)
	}
	return n, nil
}

// Run sweeps on a ticker until the context is canceled.
func (s *sweeper) Run(ctx context.Context, interval time.Duration, log *slog.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.ReleaseExpired(ctx)
			if err != nil {
				log.Error("hold sweep failed", "err", err)
				continue
			}
			if n > 0 {
				log.Info("expired holds released", "count", n)
			}
		}
	}
}
