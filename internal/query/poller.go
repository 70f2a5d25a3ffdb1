package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shelfsense/pidash/internal/api"
)

// PollFunc performs one poll of a lifecycle resource. Returning done=true
// stops the poller (the resource reached a terminal status).
type PollFunc func(ctx context.Context) (done bool, err error)

// Poller re-fetches a lifecycle resource on an interval until it reaches a
// terminal status, the capability turns out to be unavailable, or the
// context is cancelled. Transient errors are logged and polling continues.
type Poller struct {
	interval time.Duration
	logger   *zap.Logger
}

// NewPoller creates a poller with the given interval.
func NewPoller(interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{interval: interval, logger: logger}
}

// Run blocks, polling immediately and then on each tick. Cancellation is
// best-effort via ctx; correctness never depends on the poll loop observing
// cancellation at any particular moment.
func (p *Poller) Run(ctx context.Context, fn PollFunc) {
	if stop := p.poll(ctx, fn); stop {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if stop := p.poll(ctx, fn); stop {
				return
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context, fn PollFunc) bool {
	done, err := fn(ctx)
	if err != nil {
		if api.IsUnavailable(err) {
			p.logger.Info("polling stopped: capability unavailable", zap.Error(err))
			return true
		}
		if ctx.Err() != nil {
			return true
		}
		p.logger.Warn("poll failed, will retry on next tick", zap.Error(err))
		return false
	}
	if done {
		p.logger.Debug("polling stopped: resource reached terminal status")
	}
	return done
}
