package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/pkg/model"
)

// ListingRefresher regenerates the configured listings and reports the run.
type ListingRefresher interface {
	RefreshListings(ctx context.Context) (model.ListingRun, error)
}

// ListingWarmer periodically refreshes listings so inbound requests hit a warm cache.
type ListingWarmer struct {
	logger    *zap.Logger
	refresher ListingRefresher
	interval  time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewListingWarmer constructs a background job that runs every interval.
func NewListingWarmer(logger *zap.Logger, refresher ListingRefresher, interval time.Duration) *ListingWarmer {
	return &ListingWarmer{
		logger:    logger,
		refresher: refresher,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start runs one refresh immediately, then one per tick until stopped.
func (w *ListingWarmer) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("listing_warmer.started", zap.Duration("interval", w.interval))
	w.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-w.stopCh:
			w.logger.Info("listing_warmer.stopped", zap.String("reason", "manual stop"))
			return
		case <-ctx.Done():
			w.logger.Info("listing_warmer.stopped", zap.String("reason", "context canceled"))
			return
		}
	}
}

// Stop halts the warmer. Safe to call more than once.
func (w *ListingWarmer) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *ListingWarmer) runOnce(ctx context.Context) {
	start := time.Now()
	run, err := w.refresher.RefreshListings(ctx)
	if err != nil {
		w.logger.Error("listing_warmer.refresh_failed", zap.Error(err))
		return
	}

	counts := run.Counts()
	w.logger.Info("listing_warmer.success",
		zap.String("run_id", run.RunID.String()),
		zap.Int("ok", counts["ok"]),
		zap.Int("empty", counts["empty"]),
		zap.Int("failed", counts["failed"]),
		zap.Duration("duration", time.Since(start)))
}
