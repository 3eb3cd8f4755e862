package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// DBCredentials is the decoded database secret.
type DBCredentials struct {
	Server   string `json:"SQL_DB_SERVER"`
	Database string `json:"SQL_DB"`
	User     string `json:"SQL_USER"`
	Password string `json:"SQL_PASSWORD"`
}

// CredentialProvider hands out database credentials.
type CredentialProvider interface {
	Credentials(ctx context.Context) (DBCredentials, error)
}

// ParseDBCredentials decodes a secret payload and checks every key is present.
func ParseDBCredentials(raw string) (DBCredentials, error) {
	var creds DBCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return DBCredentials{}, fmt.Errorf("failed to decode database secret: %w", err)
	}

	missing := ""
	switch {
	case creds.Server == "":
		missing = "SQL_DB_SERVER"
	case creds.Database == "":
		missing = "SQL_DB"
	case creds.User == "":
		missing = "SQL_USER"
	case creds.Password == "":
		missing = "SQL_PASSWORD"
	}
	if missing != "" {
		return DBCredentials{}, fmt.Errorf("%w: missing %s", ErrIncompleteSecret, missing)
	}
	return creds, nil
}

// SecretProvider resolves and decodes the named secret on every call.
type SecretProvider struct {
	resolver Resolver
	name     string
}

func NewSecretProvider(resolver Resolver, name string) *SecretProvider {
	return &SecretProvider{resolver: resolver, name: name}
}

func (p *SecretProvider) Credentials(ctx context.Context) (DBCredentials, error) {
	raw, err := p.resolver.GetSecret(ctx, p.name)
	if err != nil {
		return DBCredentials{}, err
	}
	return ParseDBCredentials(raw)
}

// CachedProvider keeps the last credentials for ttl. A ttl of zero
// disables caching.
type CachedProvider struct {
	next CredentialProvider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	creds   DBCredentials
	expires time.Time
	valid   bool
}

func NewCachedProvider(next CredentialProvider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, ttl: ttl, now: time.Now}
}

func (p *CachedProvider) Credentials(ctx context.Context) (DBCredentials, error) {
	if p.ttl <= 0 {
		return p.next.Credentials(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.valid && p.now().Before(p.expires) {
		return p.creds, nil
	}

	creds, err := p.next.Credentials(ctx)
	if err != nil {
		return DBCredentials{}, err
	}
	p.creds = creds
	p.expires = p.now().Add(p.ttl)
	p.valid = true
	return creds, nil
}

// Invalidate forces the next call to refetch, e.g. after a login failure
// caused by a rotated password.
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.valid = false
}
