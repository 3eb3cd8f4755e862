package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringResolver(t *testing.T) {
	keyring.MockInit()
	r := NewKeyringResolver("tl-dashboard-test")

	_, err := r.GetSecret(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	require.NoError(t, r.SetSecret("db", validSecret))
	value, err := r.GetSecret(context.Background(), "db")
	require.NoError(t, err)
	assert.Equal(t, validSecret, value)

	assert.Error(t, r.SetSecret(" ", "x"))
	assert.Error(t, r.SetSecret("db", ""))
}
