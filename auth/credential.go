package auth

import (
	"sync"
	"time"
)

// Credential holds the client identity and tokens for one platform account.
// It is built from configuration at process start and never persisted.
// Refreshing is a single-writer operation: all token reads and writes go
// through the mutex so concurrent jobs sharing a credential never race.
type Credential struct {
	mu sync.Mutex

	ClientID     string
	ClientSecret string
	RedirectURI  string

	accessToken  string
	refreshToken string
	authCode     string
	expiry       time.Time
}

// NewCredential creates a credential from client identity plus whichever
// tokens configuration supplied. Empty strings are simply absent.
func NewCredential(clientID, clientSecret, accessToken, refreshToken, authCode string) *Credential {
	return &Credential{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		authCode:     authCode,
	}
}

// AccessToken returns the current access token, which may be empty.
func (c *Credential) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// Valid reports whether the access token is present and unexpired.
// A zero expiry means the token never expires as far as we know.
func (c *Credential) Valid(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid(now)
}

func (c *Credential) valid(now time.Time) bool {
	if c.accessToken == "" {
		return false
	}
	return c.expiry.IsZero() || now.Before(c.expiry)
}

// setToken replaces the access token and expiry together, so readers never
// observe a fresh token with a stale expiry.
func (c *Credential) setToken(token string, expiry time.Time) {
	c.accessToken = token
	c.expiry = expiry
}

// SetExpiry overrides the expiry instant. Used by config loading when the
// stored token's lifetime is known up front.
func (c *Credential) SetExpiry(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiry = t
}
