package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/coupang"
	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/pkg/config"
)

type mockProvider struct {
	secret map[string]string
	err    error
	names  []string
}

func (m *mockProvider) GetSecret(_ context.Context, name string) (map[string]string, error) {
	m.names = append(m.names, name)
	return m.secret, m.err
}

func TestParseCredentials_Valid(t *testing.T) {
	m := map[string]string{
		"access_key":  "ak",
		"secret_key":  "sk",
		"partners_id": "AF1234567",
		"sub_id":      "blog",
		"extra_field": "ignored",
	}

	creds, err := parseCredentials(m)
	require.NoError(t, err)
	assert.Equal(t, coupang.Credentials{AccessKey: "ak", SecretKey: "sk", PartnersID: "AF1234567", SubID: "blog"}, creds)
}

func TestParseCredentials_MissingAccessKey(t *testing.T) {
	_, err := parseCredentials(map[string]string{"secret_key": "sk"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_key")
}

func TestParseCredentials_MissingSecretKey(t *testing.T) {
	_, err := parseCredentials(map[string]string{"access_key": "ak"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret_key")
}

func TestParseCredentials_OptionalFields(t *testing.T) {
	creds, err := parseCredentials(map[string]string{"access_key": "ak", "secret_key": "sk"})
	require.NoError(t, err)
	assert.Empty(t, creds.PartnersID)
	assert.Empty(t, creds.SubID)
}

func TestSecretName(t *testing.T) {
	assert.Equal(t, "prod/main/coupang", SecretName("prod", "main"))
}

func TestResolveCredentials_FromEnv(t *testing.T) {
	cfg := &config.Config{AccessKey: "ak", SecretKey: "sk", SubID: "blog"}

	creds, err := ResolveCredentials(context.Background(), zap.NewNop(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "ak", creds.AccessKey)
	assert.Equal(t, "blog", creds.SubID)
}

func TestResolveCredentials_FromEnvMissingKey(t *testing.T) {
	cfg := &config.Config{AccessKey: "ak"}

	_, err := ResolveCredentials(context.Background(), zap.NewNop(), cfg, nil)
	var cfgErr *coupang.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "secret key", cfgErr.Field)
}

func TestResolveCredentials_FromSecretsManager(t *testing.T) {
	cfg := &config.Config{Env: "dev", SecretAccount: "main", AccessKey: "ignored"}
	provider := &mockProvider{secret: map[string]string{"access_key": "ak", "secret_key": "sk", "sub_id": "stored"}}

	creds, err := ResolveCredentials(context.Background(), zap.NewNop(), cfg, provider)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev/main/coupang"}, provider.names)
	assert.Equal(t, "ak", creds.AccessKey)
	assert.Equal(t, "stored", creds.SubID)
}

func TestResolveCredentials_EnvSubIDOverridesSecret(t *testing.T) {
	cfg := &config.Config{Env: "dev", SecretAccount: "main", SubID: "campaign"}
	provider := &mockProvider{secret: map[string]string{"access_key": "ak", "secret_key": "sk", "sub_id": "stored"}}

	creds, err := ResolveCredentials(context.Background(), zap.NewNop(), cfg, provider)
	require.NoError(t, err)
	assert.Equal(t, "campaign", creds.SubID)
}

func TestResolveCredentials_ProviderError(t *testing.T) {
	cfg := &config.Config{Env: "dev", SecretAccount: "main"}
	provider := &mockProvider{err: errors.New("access denied")}

	_, err := ResolveCredentials(context.Background(), zap.NewNop(), cfg, provider)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestResolveCredentials_InvalidSecret(t *testing.T) {
	cfg := &config.Config{Env: "dev", SecretAccount: "main"}
	provider := &mockProvider{secret: map[string]string{"access_key": "ak"}}

	_, err := ResolveCredentials(context.Background(), zap.NewNop(), cfg, provider)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev/main/coupang")
	assert.Contains(t, err.Error(), "secret_key")
}

func TestResolveCredentials_NoProvider(t *testing.T) {
	cfg := &config.Config{Env: "dev", SecretAccount: "main"}

	_, err := ResolveCredentials(context.Background(), zap.NewNop(), cfg, nil)
	require.Error(t, err)
}
