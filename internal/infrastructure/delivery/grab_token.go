package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/shared"
)

// GrabTokenCacheKey is the store key holding the cached partner API token
const GrabTokenCacheKey = "grab:access_token"

// TokenSource issues Grab OAuth tokens and caches them in a key-value store
type TokenSource struct {
	config     *GrabConfig
	httpClient *http.Client
	store      shared.KeyValueStore
	logger     *zap.Logger
	now        func() time.Time

	mu sync.Mutex
}

// NewTokenSource creates a token source. The store may be shared across instances.
func NewTokenSource(config *GrabConfig, httpClient *http.Client, store shared.KeyValueStore, logger *zap.Logger) *TokenSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenSource{
		config:     config,
		httpClient: httpClient,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns a cached token while it is valid for longer than the refresh gap
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if tok, ok := s.cached(ctx); ok {
		return tok, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another caller may have refreshed while we waited
	if tok, ok := s.cached(ctx); ok {
		return tok, nil
	}
	return s.fetch(ctx)
}

// Invalidate drops the cached token
func (s *TokenSource) Invalidate(ctx context.Context) {
	if err := s.store.Delete(ctx, GrabTokenCacheKey); err != nil {
		s.logger.Warn("Failed to clear cached Grab token", zap.Error(err))
	}
}

func (s *TokenSource) cached(ctx context.Context) (string, bool) {
	raw, ok, err := s.store.Get(ctx, GrabTokenCacheKey)
	if err != nil {
		s.logger.Warn("Failed to read cached Grab token", zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	var tok cachedToken
	if err := json.Unmarshal([]byte(raw), &tok); err != nil || tok.AccessToken == "" {
		return "", false
	}
	remaining := time.Unix(tok.ExpiresAt, 0).Sub(s.now())
	if remaining <= s.config.TokenRefreshGap {
		return "", false
	}
	return tok.AccessToken, true
}

func (s *TokenSource) fetch(ctx context.Context) (string, error) {
	body, err := json.Marshal(grabTokenRequest{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		GrantType:    "client_credentials",
		Scope:        s.config.Scope,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.config.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read token response: %v", integration.ErrPlatformUnavailable, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: token endpoint returned HTTP %d", integration.ErrPlatformUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: token endpoint returned HTTP %d: %s",
			integration.ErrPlatformAuthFailed, resp.StatusCode, truncate(respBody, 200))
	}

	var tr grabTokenResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", integration.ErrPlatformInvalidResponse)
	}

	ttl := time.Duration(tr.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = s.config.TokenTTL
	}
	cached, _ := json.Marshal(cachedToken{
		AccessToken: tr.AccessToken,
		ExpiresAt:   s.now().Add(ttl).Unix(),
	})
	if err := s.store.Set(ctx, GrabTokenCacheKey, string(cached), ttl); err != nil {
		s.logger.Warn("Failed to cache Grab token", zap.Error(err))
	}

	s.logger.Info("Fetched Grab partner token", zap.Duration("ttl", ttl))
	return tr.AccessToken, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
