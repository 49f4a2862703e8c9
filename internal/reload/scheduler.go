// Package reload periodically re-reads the record source and swaps in the
// new dataset when its contents changed.
package reload

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/ingestion"
	"github.com/Aebel-Shajan/activity-tracker/internal/metrics"
)

// Loader produces a fresh dataset from the configured source.
type Loader interface {
	Load(ctx context.Context) (*ingestion.Dataset, error)
}

// Target receives replacement datasets.
type Target interface {
	Dataset() *ingestion.Dataset
	Replace(ds *ingestion.Dataset)
}

// Scheduler reloads the dataset on a fixed interval.
// Each tick is independent: a failed load keeps the previous dataset.
type Scheduler struct {
	interval time.Duration
	loader   Loader
	target   Target

	mu sync.Mutex // serializes loads so an older dataset never replaces a newer one
}

// NewScheduler creates a reload scheduler. An interval of zero or less
// disables periodic reloads; Start then returns immediately.
func NewScheduler(interval time.Duration, loader Loader, target Target) *Scheduler {
	return &Scheduler{
		interval: interval,
		loader:   loader,
		target:   target,
	}
}

// Enabled reports whether Start will tick.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Start reloads on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		slog.Info("[Reload] Periodic reload disabled")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Reload] Starting reload scheduler", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.ReloadOnce(ctx)
		case <-ctx.Done():
			slog.Info("[Reload] Stopping (context cancelled)")
			return nil
		}
	}
}

// ReloadOnce loads the source and replaces the target's dataset when the
// fingerprint differs. It returns the outcome used as the metric label.
// Safe for concurrent use.
func (s *Scheduler) ReloadOnce(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()

	ds, err := s.loader.Load(ctx)
	if err != nil {
		metrics.ReloadsTotal.WithLabelValues(metrics.ReloadFailed).Inc()
		slog.Error("[Reload] Load failed, keeping current dataset", "error", err)
		return metrics.ReloadFailed
	}

	if current := s.target.Dataset(); current != nil && current.Fingerprint == ds.Fingerprint {
		metrics.ReloadsTotal.WithLabelValues(metrics.ReloadUnchanged).Inc()
		slog.Debug("[Reload] Dataset unchanged", "fingerprint", ds.Fingerprint, "elapsed", time.Since(started))
		return metrics.ReloadUnchanged
	}

	s.target.Replace(ds)
	metrics.ReloadsTotal.WithLabelValues(metrics.ReloadReplaced).Inc()
	slog.Info("[Reload] Dataset replaced",
		"records", ds.Len(),
		"rejected", ds.Report.RejectedCount(),
		"elapsed", time.Since(started),
	)
	return metrics.ReloadReplaced
}
