package secrets

import (
	"context"
	"errors"
)

var (
	// ErrSecretNotFound is returned when the vault has no secret under the requested name.
	ErrSecretNotFound = errors.New("secret not found")
	// ErrIncompleteSecret is returned when a credential secret lacks a required key.
	ErrIncompleteSecret = errors.New("incomplete database secret")
)

// Resolver fetches a named secret. Every call goes to the backing store.
type Resolver interface {
	GetSecret(ctx context.Context, name string) (string, error)
}
