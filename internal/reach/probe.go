// Package reach tracks whether the orchestrator host answers ICMP, so the
// overview panel can distinguish "API down" from "device unplugged".
package reach

import (
	"context"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// Snapshot is the latest reachability observation.
type Snapshot struct {
	Reachable   bool          `json:"reachable"`
	LatencyMS   float64       `json:"latency_ms"`
	CheckedAt   time.Time     `json:"checked_at"`
	LastChange  time.Time     `json:"last_change"`
	PacketsSent int           `json:"packets_sent"`
	PacketsRecv int           `json:"packets_recv"`
	Interval    time.Duration `json:"-"`
}

// Probe periodically pings the orchestrator host.
type Probe struct {
	host     string
	interval time.Duration
	timeout  time.Duration
	count    int
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	hasSnap  bool
}

// NewProbe creates a reachability probe for the given host.
func NewProbe(host string, interval, timeout time.Duration, logger *zap.Logger) *Probe {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Probe{
		host:     host,
		interval: interval,
		timeout:  timeout,
		count:    3,
		logger:   logger,
	}
}

// Run blocks, probing immediately and then on each tick until ctx ends.
func (p *Probe) Run(ctx context.Context) {
	p.check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

// Snapshot returns the latest observation; ok is false before the first probe
// completes.
func (p *Probe) Snapshot() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, p.hasSnap
}

func (p *Probe) check(ctx context.Context) {
	pinger, err := probing.NewPinger(p.host)
	if err != nil {
		p.logger.Debug("failed to create pinger", zap.String("host", p.host), zap.Error(err))
		p.record(Snapshot{Reachable: false, CheckedAt: time.Now().UTC()})
		return
	}

	pinger.Count = p.count
	pinger.Timeout = p.timeout
	// Unprivileged UDP ping; works without CAP_NET_RAW.
	pinger.SetPrivileged(false)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			p.logger.Debug("ping failed", zap.String("host", p.host), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return
	}

	stats := pinger.Statistics()
	p.record(Snapshot{
		Reachable:   stats.PacketsRecv > 0,
		LatencyMS:   float64(stats.AvgRtt) / float64(time.Millisecond),
		CheckedAt:   time.Now().UTC(),
		PacketsSent: stats.PacketsSent,
		PacketsRecv: stats.PacketsRecv,
	})
}

func (p *Probe) record(snap Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap.LastChange = p.snapshot.LastChange
	if !p.hasSnap || snap.Reachable != p.snapshot.Reachable {
		snap.LastChange = snap.CheckedAt
	}
	p.snapshot = snap
	p.hasSnap = true
}
