package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/api"
	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/coupang"
	internalsecrets "github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/secrets"
	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/pkg/config"
	"github.com/Checker-Finance/affiliate-adapters/internal/jobs"
	"github.com/Checker-Finance/affiliate-adapters/internal/publisher"
	"github.com/Checker-Finance/affiliate-adapters/internal/rate"
	"github.com/Checker-Finance/affiliate-adapters/internal/store"
	"github.com/Checker-Finance/affiliate-adapters/pkg/logger"
	"github.com/Checker-Finance/affiliate-adapters/pkg/secrets"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [coupang-adapter]...")

	// --- Partner credentials (env or AWS Secrets Manager) ---
	var provider secrets.Provider
	if cfg.UsesSecretsManager() {
		awsProvider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}
		provider = awsProvider
	}
	creds, err := internalsecrets.ResolveCredentials(ctx, logg.Desugar(), cfg, provider)
	if err != nil {
		logg.Fatalw("failed to resolve coupang credentials", "error", err)
	}

	signer, err := coupang.NewSigner(creds, time.Now)
	if err != nil {
		logg.Fatalw("failed to init signer", "error", err)
	}

	// --- Rate limiter ---
	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})

	// --- Coupang client, deeplink resolver and pipeline ---
	client := coupang.NewClient(logg.Desugar(), creds, signer, rateMgr, coupang.ClientOptions{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.HTTPTimeout,
		RetryMax: cfg.RetryMax,
	})
	resolver := coupang.NewDeeplinkResolver(logg.Desugar(), client, cfg.DeeplinkBatchSize)
	pipeline := coupang.NewPipeline(logg.Desugar(), client, resolver, cfg.PipelineConcurrency)

	warmSpecs, err := coupang.ParseCategories(cfg.WarmCategories, 0)
	if err != nil {
		logg.Fatalw("invalid WARM_CATEGORIES", "error", err)
	}

	opts := coupang.ServiceOptions{
		CacheTTL:  cfg.ListingCacheTTL,
		WarmSpecs: warmSpecs,
	}

	// --- Store (Redis cache + optional Postgres ledger) ---
	var st store.Store
	if cfg.RedisAddr != "" {
		hybrid, err := store.NewHybrid(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, cfg.DatabaseURL, store.PGPoolConfig{
			MaxConns:          int32(cfg.PGMaxConns),
			MinConns:          int32(cfg.PGMinConns),
			MaxConnLifetime:   cfg.PGMaxConnLifetime,
			MaxConnIdleTime:   cfg.PGMaxConnIdleTime,
			HealthCheckPeriod: cfg.PGHealthCheckPeriod,
		}, logg.Desugar())
		if err != nil {
			logg.Fatalw("failed to init store", "error", err)
		}
		st = hybrid
		opts.Cache = hybrid
		opts.Ledger = hybrid
	}

	// --- NATS publisher ---
	var (
		nc  *nats.Conn
		pub *publisher.Publisher
	)
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		pub, err = publisher.New(nc, cfg.EventsSubject, cfg.ServiceName, logg.Desugar())
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
		opts.Events = pub
	}

	svc := coupang.NewService(logg.Desugar(), pipeline, opts)

	// --- Listing warmer ---
	var warmer *jobs.ListingWarmer
	if len(warmSpecs) > 0 {
		warmer = jobs.NewListingWarmer(logg.Desugar(), svc, cfg.WarmInterval)
		go warmer.Start(ctx)
	}

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	handler := api.NewProductsHandler(logg.Desugar(), svc)
	api.RegisterRoutes(app, logg.Desugar(), nc, st, handler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[coupang-adapter] running",
		"env", cfg.Env,
		"base_url", cfg.BaseURL,
		"concurrency", cfg.PipelineConcurrency,
		"cache", st != nil,
		"events", pub != nil,
		"warm_categories", len(warmSpecs))

	<-ctx.Done()
	logg.Info("shutting down [coupang-adapter]...")

	if warmer != nil {
		warmer.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if pub != nil {
		if err := pub.Close(); err != nil {
			logg.Warnw("nats.drain_failed", "error", err)
		}
	}
	if st != nil {
		if err := st.Close(); err != nil {
			logg.Warnw("store.close_failed", "error", err)
		}
	}
}
