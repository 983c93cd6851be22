package auth

import (
	"strings"
	"time"
)

const tokenPath = "/identity/v2/oauth2/token"

// Credential is a bearer token together with the instant after which it must not be used.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the credential is present and not expired at now
func (c Credential) Valid(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}

// IsZero reports whether no token has been fetched yet
func (c Credential) IsZero() bool {
	return c.Token == "" && c.ExpiresAt.IsZero()
}

// Config holds the fixed client credentials of the process.
type Config struct {
	ClientID     string
	ClientSecret string
	// APIKey is the subscription key sent as x-api-key with the token request.
	APIKey  string
	BaseURL string
}

// TokenURL returns the client-credentials endpoint for the configured base URL
func (c *Config) TokenURL() string {
	return strings.TrimRight(c.BaseURL, "/") + tokenPath
}
