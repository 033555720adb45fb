package config

import (
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Checker-Finance/affiliate-adapters/pkg/config"
)

// Config holds the runtime configuration for the coupang-adapter.
type Config struct {
	ServiceName      string
	Env              string
	LogLevel         string
	Port             int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	// Coupang Partners credentials. When SecretAccount is set they are
	// resolved from AWS Secrets Manager instead. See internal/secrets.
	AccessKey     string
	SecretKey     string
	PartnersID    string
	SubID         string
	SecretAccount string
	AWSRegion     string

	BaseURL        string
	HTTPTimeout    time.Duration
	RetryMax       int
	RateLimitRPS   int
	RateLimitBurst int

	PipelineConcurrency int
	DeeplinkBatchSize   int

	RedisAddr       string
	RedisDB         int
	RedisPass       string
	ListingCacheTTL time.Duration

	DatabaseURL         string
	PGMaxConns          int
	PGMinConns          int
	PGMaxConnLifetime   time.Duration
	PGMaxConnIdleTime   time.Duration
	PGHealthCheckPeriod time.Duration

	NATSURL       string
	EventsSubject string

	WarmCategories []string
	WarmInterval   time.Duration
}

// Load loads configuration from environment variables and optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:         pkgconfig.GetEnv("SERVICE_NAME", "coupang-adapter"),
		Env:                 pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:            pkgconfig.GetEnv("LOG_LEVEL", "info"),
		Port:                pkgconfig.GetEnvInt("COUPANG_PORT", 9040),
		HTTPReadTimeout:     pkgconfig.GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:    pkgconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:     pkgconfig.GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:       pkgconfig.GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),
		AccessKey:           pkgconfig.GetEnv("COUPANG_API_ACCESS_KEY", ""),
		SecretKey:           pkgconfig.GetEnv("COUPANG_API_SECRET_KEY", ""),
		PartnersID:          pkgconfig.GetEnv("COUPANG_PARTNERS_ID", ""),
		SubID:               pkgconfig.GetEnv("COUPANG_PARTNERS_SUB_ID", ""),
		SecretAccount:       pkgconfig.GetEnv("COUPANG_SECRET_ACCOUNT", ""),
		AWSRegion:           pkgconfig.GetEnv("AWS_REGION", "us-east-2"),
		BaseURL:             pkgconfig.GetEnv("COUPANG_BASE_URL", "https://api-gateway.coupang.com"),
		HTTPTimeout:         pkgconfig.GetEnvDuration("COUPANG_HTTP_TIMEOUT", 10*time.Second),
		RetryMax:            pkgconfig.GetEnvInt("COUPANG_RETRY_MAX", 0),
		RateLimitRPS:        pkgconfig.GetEnvInt("COUPANG_RATE_LIMIT_RPS", 10),
		RateLimitBurst:      pkgconfig.GetEnvInt("COUPANG_RATE_LIMIT_BURST", 20),
		PipelineConcurrency: pkgconfig.GetEnvInt("PIPELINE_CONCURRENCY", 1),
		DeeplinkBatchSize:   pkgconfig.GetEnvInt("DEEPLINK_BATCH_SIZE", 0),
		RedisAddr:           pkgconfig.GetEnv("REDIS_ADDR", ""),
		RedisDB:             pkgconfig.GetEnvInt("REDIS_DB", 0),
		RedisPass:           pkgconfig.GetEnv("REDIS_PASS", ""),
		ListingCacheTTL:     pkgconfig.GetEnvDuration("LISTING_CACHE_TTL", 10*time.Minute),
		DatabaseURL:         pkgconfig.GetEnv("DATABASE_URL", ""),
		PGMaxConns:          pkgconfig.GetEnvInt("PG_MAX_CONNS", 10),
		PGMinConns:          pkgconfig.GetEnvInt("PG_MIN_CONNS", 2),
		PGMaxConnLifetime:   pkgconfig.GetEnvDuration("PG_MAX_CONN_LIFETIME", 30*time.Minute),
		PGMaxConnIdleTime:   pkgconfig.GetEnvDuration("PG_MAX_CONN_IDLE_TIME", 5*time.Minute),
		PGHealthCheckPeriod: pkgconfig.GetEnvDuration("PG_HEALTH_CHECK_PERIOD", 1*time.Minute),
		NATSURL:             pkgconfig.GetEnv("NATS_URL", ""),
		EventsSubject:       pkgconfig.GetEnv("EVENTS_SUBJECT", "evt.affiliate"),
		WarmCategories:      pkgconfig.GetEnvList("WARM_CATEGORIES", nil),
		WarmInterval:        pkgconfig.GetEnvDuration("WARM_INTERVAL", 5*time.Minute),
	}
}

// UsesSecretsManager reports whether credentials come from AWS Secrets Manager.
func (c *Config) UsesSecretsManager() bool {
	return c.SecretAccount != ""
}
