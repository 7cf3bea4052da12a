package client

import (
	"net/http"
	"time"
)

const (
	DefaultIdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenBaseURL    = "https://securetoken.googleapis.com/v1"
	DefaultPageLimit       = 10
)

type Config struct {
	// BaseURL is the API root including the version, e.g. http://localhost:8080/v1.
	BaseURL         string
	FirebaseAPIKey  string
	IdentityBaseURL string
	TokenBaseURL    string
	// SessionFile persists the signed-in session; empty keeps it in memory.
	SessionFile string
	PageLimit   int
	Timeout     time.Duration
	// MaxRetries bounds retries of idempotent requests; negative disables them.
	MaxRetries int
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.IdentityBaseURL == "" {
		c.IdentityBaseURL = DefaultIdentityBaseURL
	}
	if c.TokenBaseURL == "" {
		c.TokenBaseURL = DefaultTokenBaseURL
	}
	if c.PageLimit <= 0 {
		c.PageLimit = DefaultPageLimit
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}
