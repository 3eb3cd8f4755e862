package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringResolver reads secrets from the OS keychain. It is meant for
// running the dashboard on a workstation without vault access.
type KeyringResolver struct {
	service string
}

func NewKeyringResolver(service string) *KeyringResolver {
	return &KeyringResolver{service: service}
}

func (r *KeyringResolver) GetSecret(_ context.Context, name string) (string, error) {
	value, err := keyring.Get(r.service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}
		return "", fmt.Errorf("failed to read keyring secret %s: %w", name, err)
	}
	return value, nil
}

// SetSecret stores a secret under the resolver's service.
func (r *KeyringResolver) SetSecret(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("secret name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(r.service, name, value)
}
