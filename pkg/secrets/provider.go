package secrets

import "context"

// Provider defines a generic secrets manager interface.
type Provider interface {
	// GetSecret retrieves a secret by name and returns its JSON body as a key-value map.
	GetSecret(ctx context.Context, name string) (map[string]string, error)
}
