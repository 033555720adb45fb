package coupang

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/metrics"
)

type productFetcher interface {
	Fetch(ctx context.Context, spec CategorySpec) ([]Product, error)
}

type linkResolver interface {
	Resolve(ctx context.Context, urls []string) DeeplinkMapping
}

// Pipeline runs fetch → deeplink → substitute for each category.
// One category's failure never affects another.
type Pipeline struct {
	logger      *zap.Logger
	fetcher     productFetcher
	resolver    linkResolver
	concurrency int
}

// NewPipeline builds a pipeline. concurrency <= 1 processes categories strictly in order.
func NewPipeline(logger *zap.Logger, fetcher productFetcher, resolver linkResolver, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		logger:      logger,
		fetcher:     fetcher,
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// Run returns one result per spec, in the order given.
func (p *Pipeline) Run(ctx context.Context, specs []CategorySpec) []CategoryResult {
	if p.concurrency == 1 || len(specs) <= 1 {
		return fold(specs, make([]CategoryResult, 0, len(specs)),
			func(acc []CategoryResult, spec CategorySpec) []CategoryResult {
				return append(acc, p.runOne(ctx, spec))
			})
	}

	results := make([]CategoryResult, len(specs))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			results[i] = p.runOne(ctx, spec)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Pipeline) runOne(ctx context.Context, spec CategorySpec) CategoryResult {
	result := p.process(ctx, spec)
	metrics.IncCategoryResult(string(spec.Kind), string(result.Status))
	return result
}

func (p *Pipeline) process(ctx context.Context, spec CategorySpec) CategoryResult {
	products, err := p.fetcher.Fetch(ctx, spec)
	if err != nil {
		p.logger.Warn("coupang.category_failed",
			zap.String("category", spec.Key()),
			zap.Error(err))
		return failedResult(spec, failureReason(err))
	}
	if len(products) == 0 {
		p.logger.Info("coupang.category_empty", zap.String("category", spec.Key()))
		return emptyResult(spec)
	}

	urls := make([]string, len(products))
	for i, prod := range products {
		urls[i] = prod.URL
	}
	mapping := p.resolver.Resolve(ctx, urls)

	substituted := make([]Product, len(products))
	mapped := 0
	for i, prod := range products {
		if short, ok := mapping[prod.URL]; ok {
			substituted[i] = prod.WithURL(short)
			mapped++
			continue
		}
		substituted[i] = prod
	}
	metrics.AddDeeplinkSubstitutions("mapped", mapped)
	metrics.AddDeeplinkSubstitutions("original", len(products)-mapped)

	p.logger.Debug("coupang.category_ok",
		zap.String("category", spec.Key()),
		zap.Int("products", len(substituted)),
		zap.Int("deeplinked", mapped))
	return okResult(spec, substituted, mapped)
}

// fold applies step to each spec in order, threading the accumulator.
func fold[A any](specs []CategorySpec, acc A, step func(A, CategorySpec) A) A {
	for _, spec := range specs {
		acc = step(acc, spec)
	}
	return acc
}
