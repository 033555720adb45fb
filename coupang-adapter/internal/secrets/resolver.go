package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/internal/coupang"
	"github.com/Checker-Finance/affiliate-adapters/coupang-adapter/pkg/config"
	pkgsecrets "github.com/Checker-Finance/affiliate-adapters/pkg/secrets"
)

// SecretName returns the Secrets Manager name for a partner account.
//
// Secret naming convention: {env}/{account}/coupang
// Secret JSON format:       {"access_key": "...", "secret_key": "...", "partners_id": "...", "sub_id": "..."}
func SecretName(env, account string) string {
	return fmt.Sprintf("%s/%s/coupang", env, account)
}

// ResolveCredentials builds the partner credentials once at startup. They come
// from the environment unless cfg names a secret account, in which case
// provider must be non-nil.
func ResolveCredentials(ctx context.Context, logger *zap.Logger, cfg *config.Config, provider pkgsecrets.Provider) (coupang.Credentials, error) {
	if !cfg.UsesSecretsManager() {
		creds := coupang.Credentials{
			AccessKey:  cfg.AccessKey,
			SecretKey:  cfg.SecretKey,
			PartnersID: cfg.PartnersID,
			SubID:      cfg.SubID,
		}
		if err := creds.Validate(); err != nil {
			return coupang.Credentials{}, err
		}
		logger.Info("coupang.credentials_loaded", zap.String("source", "env"), zap.Object("credentials", creds))
		return creds, nil
	}

	if provider == nil {
		return coupang.Credentials{}, fmt.Errorf("secret account %q configured without a secrets provider", cfg.SecretAccount)
	}
	name := SecretName(cfg.Env, cfg.SecretAccount)
	m, err := provider.GetSecret(ctx, name)
	if err != nil {
		return coupang.Credentials{}, err
	}
	creds, err := parseCredentials(m)
	if err != nil {
		return coupang.Credentials{}, fmt.Errorf("secret [%s]: %w", name, err)
	}
	// A sub id set in the environment overrides the stored one.
	if cfg.SubID != "" {
		creds.SubID = cfg.SubID
	}
	logger.Info("coupang.credentials_loaded",
		zap.String("source", "secretsmanager"),
		zap.String("secret", name),
		zap.Object("credentials", creds))
	return creds, nil
}

// parseCredentials extracts Credentials from the raw secret map.
func parseCredentials(m map[string]string) (coupang.Credentials, error) {
	creds := coupang.Credentials{
		AccessKey:  m["access_key"],
		SecretKey:  m["secret_key"],
		PartnersID: m["partners_id"],
		SubID:      m["sub_id"],
	}
	if creds.AccessKey == "" {
		return coupang.Credentials{}, fmt.Errorf("missing required field 'access_key'")
	}
	if creds.SecretKey == "" {
		return coupang.Credentials{}, fmt.Errorf("missing required field 'secret_key'")
	}
	return creds, nil
}
