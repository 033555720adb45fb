package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/pkg/model"
	"github.com/Checker-Finance/affiliate-adapters/pkg/utils"
)

// ErrNotFound is returned by GetJSON when the key is absent.
var ErrNotFound = errors.New("store: key not found")

// Store defines the contract for the listing cache and the run ledger.
type Store interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
	RecordListingRun(ctx context.Context, run model.ListingRun) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// pgDB is the subset of pgxpool.Pool used by the ledger.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// HybridStore is Redis-first with an optional Postgres ledger.
type HybridStore struct {
	redis  *redis.Client
	pg     pgDB
	logger *zap.Logger
}

type PGPoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// NewHybrid creates the store. An empty pgURL disables the ledger.
func NewHybrid(redisAddr string, redisDB int, redisPassword, pgURL string, pgPoolConfig PGPoolConfig, logger *zap.Logger) (*HybridStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		DB:       redisDB,
		Password: redisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	s := &HybridStore{redis: rdb, logger: logger}
	if pgURL == "" {
		return s, nil
	}
	logger.Info("store.postgres_connecting", zap.String("dsn", utils.MaskDSN(pgURL)))

	cfg, err := pgxpool.ParseConfig(pgURL)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("invalid pg config: %w", err)
	}
	if pgPoolConfig.MaxConns > 0 {
		cfg.MaxConns = pgPoolConfig.MaxConns
	}
	if pgPoolConfig.MinConns > 0 {
		cfg.MinConns = pgPoolConfig.MinConns
	}
	if pgPoolConfig.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = pgPoolConfig.MaxConnLifetime
	}
	if pgPoolConfig.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = pgPoolConfig.MaxConnIdleTime
	}
	if pgPoolConfig.HealthCheckPeriod > 0 {
		cfg.HealthCheckPeriod = pgPoolConfig.HealthCheckPeriod
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	s.pg = pool
	return s, nil
}

// RecordListingRun inserts one row into affiliate.listing_run. No-op without Postgres.
func (s *HybridStore) RecordListingRun(ctx context.Context, run model.ListingRun) error {
	if s.pg == nil {
		return nil
	}
	categories, err := json.Marshal(run.Categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	counts := run.Counts()
	_, err = s.pg.Exec(ctx, `
		INSERT INTO affiliate.listing_run (
			run_id, started_at, duration_ms,
			ok_count, empty_count, failed_count, categories
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
	`, run.RunID, run.StartedAt, run.Duration.Milliseconds(),
		counts["ok"], counts["empty"], counts["failed"], string(categories))
	if err != nil {
		s.logger.Error("store.pg.insert_listing_run_failed",
			zap.String("run_id", run.RunID.String()),
			zap.Error(err))
	}
	return err
}

func (s *HybridStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, ttl).Err()
}

// GetJSON decodes the value at key into dest, returning ErrNotFound on a miss.
func (s *HybridStore) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *HybridStore) HealthCheck(ctx context.Context) error {
	if s.redis == nil {
		return fmt.Errorf("redis not initialized")
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if s.pg != nil {
		if err := s.pg.Ping(ctx); err != nil {
			return fmt.Errorf("postgres ping failed: %w", err)
		}
	}
	return nil
}

func (s *HybridStore) Close() error {
	if s.pg != nil {
		s.pg.Close()
	}
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
