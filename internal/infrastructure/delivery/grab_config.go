package delivery

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/erp/grabfood/internal/infrastructure/config"
)

const (
	// GrabProductionTokenURL is the OAuth client-credentials endpoint
	GrabProductionTokenURL = "https://api.grab.com/grabid/v1/oauth2/token"
	// GrabProductionPartnerURL is the partner API base
	GrabProductionPartnerURL = "https://partner-api.grab.com/grabfood/partner"
	// GrabPartnerScope is the scope requested for partner API tokens
	GrabPartnerScope = "food.partner_api"
)

// Errors for Grab configuration
var (
	ErrGrabConfigMissingClientID     = errors.New("grab: client ID is required")
	ErrGrabConfigMissingClientSecret = errors.New("grab: client secret is required")
	ErrGrabConfigInvalidBaseURL      = errors.New("grab: partner base URL is invalid")
)

// GrabConfig holds configuration for the Grab partner API client
type GrabConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	// PartnerBaseURL may or may not end in /partner; both forms are accepted
	PartnerBaseURL string
	Scope          string
	// Timeout bounds every single HTTP attempt
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt of a retryable call
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// TokenTTL is used when the token response carries no expires_in
	TokenTTL time.Duration
	// TokenRefreshGap renews a cached token this long before it expires
	TokenRefreshGap time.Duration
}

// NewGrabConfig maps application configuration to the client configuration
func NewGrabConfig(cfg config.GrabConfig) *GrabConfig {
	return &GrabConfig{
		ClientID:        cfg.ClientID,
		ClientSecret:    cfg.ClientSecret,
		TokenURL:        cfg.TokenURL,
		PartnerBaseURL:  cfg.PartnerBaseURL,
		Scope:           cfg.Scope,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		InitialBackoff:  cfg.InitialBackoff,
		MaxBackoff:      cfg.MaxBackoff,
		TokenTTL:        cfg.TokenTTL,
		TokenRefreshGap: cfg.TokenRefreshGap,
	}
}

// Validate checks required fields and fills defaults
func (c *GrabConfig) Validate() error {
	if c.ClientID == "" {
		return ErrGrabConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrGrabConfigMissingClientSecret
	}
	if c.TokenURL == "" {
		c.TokenURL = GrabProductionTokenURL
	}
	if c.PartnerBaseURL == "" {
		c.PartnerBaseURL = GrabProductionPartnerURL
	}
	if u, err := url.Parse(c.PartnerBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrGrabConfigInvalidBaseURL
	}
	if c.Scope == "" {
		c.Scope = GrabPartnerScope
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Second
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 604799 * time.Second
	}
	if c.TokenRefreshGap <= 0 {
		c.TokenRefreshGap = 60 * time.Second
	}
	return nil
}

// rootURL is the partner base without its trailing /partner segment
func (c *GrabConfig) rootURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.PartnerBaseURL), "/")
	return strings.TrimSuffix(base, "/partner")
}

// endpoint joins a /partner/v1 path to the root URL
func (c *GrabConfig) endpoint(path string) string {
	return c.rootURL() + "/partner/v1/" + strings.TrimLeft(path, "/")
}
