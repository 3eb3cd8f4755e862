package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = `{"SQL_DB_SERVER":"db.example.net","SQL_DB":"messages","SQL_USER":"reader","SQL_PASSWORD":"s3cret"}`

type fakeResolver struct {
	value string
	err   error
	calls int
}

func (f *fakeResolver) GetSecret(ctx context.Context, name string) (string, error) {
	f.calls++
	return f.value, f.err
}

func TestParseDBCredentials(t *testing.T) {
	creds, err := ParseDBCredentials(validSecret)
	require.NoError(t, err)
	assert.Equal(t, DBCredentials{
		Server:   "db.example.net",
		Database: "messages",
		User:     "reader",
		Password: "s3cret",
	}, creds)
}

func TestParseDBCredentials_Errors(t *testing.T) {
	_, err := ParseDBCredentials("not json")
	assert.Error(t, err)

	_, err = ParseDBCredentials(`{"SQL_DB_SERVER":"db","SQL_DB":"messages","SQL_USER":"reader"}`)
	assert.ErrorIs(t, err, ErrIncompleteSecret)
	assert.Contains(t, err.Error(), "SQL_PASSWORD")
}

func TestSecretProvider_PropagatesResolverError(t *testing.T) {
	boom := errors.New("vault unreachable")
	p := NewSecretProvider(&fakeResolver{err: boom}, "db")

	_, err := p.Credentials(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCachedProvider_TTL(t *testing.T) {
	resolver := &fakeResolver{value: validSecret}
	p := NewCachedProvider(NewSecretProvider(resolver, "db"), time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.Credentials(context.Background())
	require.NoError(t, err)
	_, err = p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls)

	now = now.Add(2 * time.Minute)
	_, err = p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.calls)

	p.Invalidate()
	_, err = p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, resolver.calls)
}

func TestCachedProvider_ZeroTTLAlwaysFetches(t *testing.T) {
	resolver := &fakeResolver{value: validSecret}
	p := NewCachedProvider(NewSecretProvider(resolver, "db"), 0)

	for i := 0; i < 3; i++ {
		_, err := p.Credentials(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, resolver.calls)
}

func TestCachedProvider_DoesNotCacheErrors(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("denied")}
	p := NewCachedProvider(NewSecretProvider(resolver, "db"), time.Hour)

	_, err := p.Credentials(context.Background())
	require.Error(t, err)

	resolver.err = nil
	resolver.value = validSecret
	creds, err := p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "reader", creds.User)
	assert.Equal(t, 2, resolver.calls)
}
