package coupang

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/metrics"
)

// deeplinkConverter is the upstream conversion call used by the resolver.
type deeplinkConverter interface {
	ConvertDeeplinks(ctx context.Context, urls []string) ([]DeeplinkPair, error)
}

// DeeplinkResolver turns product URLs into an original→short mapping.
// Failures never propagate: the affected URLs simply stay unmapped.
type DeeplinkResolver struct {
	logger    *zap.Logger
	converter deeplinkConverter
	batchSize int
}

// NewDeeplinkResolver builds a resolver. batchSize <= 0 sends every URL in one call.
func NewDeeplinkResolver(logger *zap.Logger, converter deeplinkConverter, batchSize int) *DeeplinkResolver {
	if batchSize < 0 {
		batchSize = 0
	}
	return &DeeplinkResolver{logger: logger, converter: converter, batchSize: batchSize}
}

// Resolve converts urls. Empty input returns an empty mapping without a call.
func (r *DeeplinkResolver) Resolve(ctx context.Context, urls []string) DeeplinkMapping {
	mapping := DeeplinkMapping{}
	if len(urls) == 0 {
		return mapping
	}

	for _, batch := range chunk(urls, r.batchSize) {
		pairs, err := r.converter.ConvertDeeplinks(ctx, batch)
		if err != nil {
			derr := &DeeplinkError{URLs: len(batch), Err: err}
			r.logger.Warn("coupang.deeplink_failed", zap.Error(derr))
			metrics.IncDeeplinkFailure(deeplinkFailureReason(err))
			continue
		}
		for _, p := range pairs {
			mapping[p.OriginalURL] = p.ShortenURL
		}
	}
	return mapping
}

// chunk splits urls into consecutive batches of at most size. size 0 means one batch.
func chunk(urls []string, size int) [][]string {
	if size <= 0 || len(urls) <= size {
		return [][]string{urls}
	}
	out := make([][]string, 0, (len(urls)+size-1)/size)
	for start := 0; start < len(urls); start += size {
		end := min(start+size, len(urls))
		out = append(out, urls[start:end])
	}
	return out
}

func deeplinkFailureReason(err error) string {
	var httpErr *UpstreamHTTPError
	var netErr *NetworkError
	var shapeErr *ShapeError
	switch {
	case errors.As(err, &httpErr):
		return "http"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &shapeErr):
		return "shape"
	default:
		return "other"
	}
}
