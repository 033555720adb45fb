package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"SERVICE_NAME", "ENV", "LOG_LEVEL", "COUPANG_PORT",
		"COUPANG_API_ACCESS_KEY", "COUPANG_API_SECRET_KEY", "COUPANG_PARTNERS_ID",
		"COUPANG_PARTNERS_SUB_ID", "COUPANG_SECRET_ACCOUNT", "COUPANG_BASE_URL",
		"COUPANG_HTTP_TIMEOUT", "COUPANG_RETRY_MAX", "PIPELINE_CONCURRENCY",
		"DEEPLINK_BATCH_SIZE", "REDIS_ADDR", "LISTING_CACHE_TTL", "DATABASE_URL",
		"NATS_URL", "EVENTS_SUBJECT", "WARM_CATEGORIES", "WARM_INTERVAL",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "coupang-adapter", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 9040, cfg.Port)
	assert.Equal(t, "https://api-gateway.coupang.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.RetryMax)
	assert.Equal(t, 1, cfg.PipelineConcurrency)
	assert.Equal(t, 0, cfg.DeeplinkBatchSize)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.NATSURL)
	assert.Equal(t, "evt.affiliate", cfg.EventsSubject)
	assert.Equal(t, 10*time.Minute, cfg.ListingCacheTTL)
	assert.Nil(t, cfg.WarmCategories)
	assert.Equal(t, 5*time.Minute, cfg.WarmInterval)
	assert.False(t, cfg.UsesSecretsManager())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COUPANG_API_ACCESS_KEY", "ak")
	t.Setenv("COUPANG_API_SECRET_KEY", "sk")
	t.Setenv("COUPANG_PARTNERS_ID", "AF1234567")
	t.Setenv("COUPANG_PARTNERS_SUB_ID", "blog")
	t.Setenv("COUPANG_HTTP_TIMEOUT", "3s")
	t.Setenv("COUPANG_RETRY_MAX", "2")
	t.Setenv("PIPELINE_CONCURRENCY", "4")
	t.Setenv("DEEPLINK_BATCH_SIZE", "20")
	t.Setenv("WARM_CATEGORIES", "goldbox, coupangPL,1001")
	t.Setenv("WARM_INTERVAL", "90s")

	cfg := Load()

	assert.Equal(t, "ak", cfg.AccessKey)
	assert.Equal(t, "sk", cfg.SecretKey)
	assert.Equal(t, "AF1234567", cfg.PartnersID)
	assert.Equal(t, "blog", cfg.SubID)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.RetryMax)
	assert.Equal(t, 4, cfg.PipelineConcurrency)
	assert.Equal(t, 20, cfg.DeeplinkBatchSize)
	assert.Equal(t, []string{"goldbox", "coupangPL", "1001"}, cfg.WarmCategories)
	assert.Equal(t, 90*time.Second, cfg.WarmInterval)
}

func TestUsesSecretsManager(t *testing.T) {
	t.Setenv("COUPANG_SECRET_ACCOUNT", "partners-main")

	cfg := Load()
	assert.True(t, cfg.UsesSecretsManager())
	assert.Equal(t, "partners-main", cfg.SecretAccount)
}
