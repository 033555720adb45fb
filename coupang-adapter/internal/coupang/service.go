package coupang

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/metrics"
	"github.com/Checker-Finance/affiliate-adapters/internal/store"
	"github.com/Checker-Finance/affiliate-adapters/pkg/model"
)

const listingKeyPrefix = "listing:"

// ErrNoWarmCategories is returned by RefreshListings when nothing is configured.
var ErrNoWarmCategories = errors.New("no warm categories configured")

// ListingCache stores fully deeplinked ok category results between runs.
type ListingCache interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
}

// RunLedger persists completed runs.
type RunLedger interface {
	RecordListingRun(ctx context.Context, run model.ListingRun) error
}

// EventPublisher announces completed runs.
type EventPublisher interface {
	PublishListingGenerated(ctx context.Context, run model.ListingRun) error
	ListingGeneratedSubject() string
}

type categoryRunner interface {
	Run(ctx context.Context, specs []CategorySpec) []CategoryResult
}

// ServiceOptions wires the optional collaborators. A nil field disables it.
type ServiceOptions struct {
	Cache     ListingCache
	CacheTTL  time.Duration
	Ledger    RunLedger
	Events    EventPublisher
	WarmSpecs []CategorySpec
}

// Service fronts the pipeline with the listing cache, run ledger and run events.
type Service struct {
	logger    *zap.Logger
	pipeline  categoryRunner
	cache     ListingCache
	cacheTTL  time.Duration
	ledger    RunLedger
	events    EventPublisher
	warmSpecs []CategorySpec
	now       func() time.Time
}

// NewService constructs the listing service.
func NewService(logger *zap.Logger, pipeline categoryRunner, opts ServiceOptions) *Service {
	return &Service{
		logger:    logger,
		pipeline:  pipeline,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		ledger:    opts.Ledger,
		events:    opts.Events,
		warmSpecs: opts.WarmSpecs,
		now:       time.Now,
	}
}

// Recommend returns one result per spec in request order, serving ok
// results from the cache when present.
func (s *Service) Recommend(ctx context.Context, specs []CategorySpec) []CategoryResult {
	results, _ := s.generate(ctx, specs, true)
	return results
}

// Products runs a single category and returns its products and status.
func (s *Service) Products(ctx context.Context, spec CategorySpec) ([]Product, Status) {
	results, _ := s.generate(ctx, []CategorySpec{spec}, true)
	return results[0].Products, results[0].Status
}

// RefreshListings re-runs the warm categories past the cache and rewrites it.
func (s *Service) RefreshListings(ctx context.Context) (model.ListingRun, error) {
	if len(s.warmSpecs) == 0 {
		return model.ListingRun{}, ErrNoWarmCategories
	}
	_, run := s.generate(ctx, s.warmSpecs, false)
	return run, nil
}

func (s *Service) generate(ctx context.Context, specs []CategorySpec, readCache bool) ([]CategoryResult, model.ListingRun) {
	start := s.now()
	results := make([]CategoryResult, len(specs))
	cached := make([]bool, len(specs))

	var (
		missIdx   []int
		missSpecs []CategorySpec
	)
	for i, spec := range specs {
		if readCache {
			if r, ok := s.lookup(ctx, spec); ok {
				results[i] = r
				cached[i] = true
				continue
			}
		}
		missIdx = append(missIdx, i)
		missSpecs = append(missSpecs, spec)
	}

	if len(missSpecs) > 0 {
		fresh := s.pipeline.Run(ctx, missSpecs)
		for j, idx := range missIdx {
			results[idx] = fresh[j]
			switch {
			case fresh[j].Status != StatusOK:
			case !fresh[j].fullyDeeplinked():
				s.logger.Info("coupang.cache_skipped_degraded",
					zap.String("category", fresh[j].Spec.Key()),
					zap.Int("products", len(fresh[j].Products)),
					zap.Int("deeplinked", fresh[j].Deeplinked))
			default:
				s.save(ctx, fresh[j])
			}
		}
	}

	run := model.ListingRun{
		RunID:      uuid.New(),
		StartedAt:  start.UTC(),
		Duration:   s.now().Sub(start),
		Categories: make([]model.ListingSummary, len(results)),
	}
	for i, r := range results {
		run.Categories[i] = model.ListingSummary{
			Key:          r.Spec.Key(),
			Kind:         string(r.Spec.Kind),
			Status:       string(r.Status),
			ProductCount: len(r.Products),
			Reason:       r.Reason,
			Cached:       cached[i],
		}
	}
	s.record(ctx, run)
	return results, run
}

func (s *Service) lookup(ctx context.Context, spec CategorySpec) (CategoryResult, bool) {
	if s.cache == nil {
		return CategoryResult{}, false
	}
	var r CategoryResult
	err := s.cache.GetJSON(ctx, listingKeyPrefix+spec.Key(), &r)
	switch {
	case err == nil && r.Status == StatusOK:
		metrics.IncListingCache("hit")
		return r, true
	case err == nil, errors.Is(err, store.ErrNotFound):
		metrics.IncListingCache("miss")
	default:
		metrics.IncListingCache("error")
		s.logger.Warn("coupang.cache_read_failed",
			zap.String("category", spec.Key()),
			zap.Error(err))
	}
	return CategoryResult{}, false
}

func (s *Service) save(ctx context.Context, r CategoryResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, listingKeyPrefix+r.Spec.Key(), r, s.cacheTTL); err != nil {
		s.logger.Warn("coupang.cache_write_failed",
			zap.String("category", r.Spec.Key()),
			zap.Error(err))
	}
}

// record writes the run to the ledger and publishes it. Both are best effort.
func (s *Service) record(ctx context.Context, run model.ListingRun) {
	if s.ledger != nil {
		if err := s.ledger.RecordListingRun(ctx, run); err != nil {
			metrics.IncLedgerWriteError()
			s.logger.Warn("coupang.ledger_write_failed",
				zap.String("run_id", run.RunID.String()),
				zap.Error(err))
		}
	}
	if s.events != nil {
		if err := s.events.PublishListingGenerated(ctx, run); err != nil {
			metrics.IncNATSPublishError(s.events.ListingGeneratedSubject())
			s.logger.Warn("coupang.publish_failed",
				zap.String("run_id", run.RunID.String()),
				zap.Error(err))
		}
	}
}
