package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/erp/grabfood/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidClaims       = errors.New("invalid token claims")
	ErrTokenNotYetValid    = errors.New("token is not yet valid")
	ErrInvalidClient       = errors.New("invalid client credentials")
	ErrInvalidScope        = errors.New("invalid scope")
	ErrUnsupportedGrant    = errors.New("unsupported grant type")
	ErrClientNotConfigured = errors.New("partner client is not configured")
)

// GrantTypeClientCredentials is the only grant the partner token endpoint accepts
const GrantTypeClientCredentials = "client_credentials"

// devSigningSecret signs tokens when no secret is configured outside production
const devSigningSecret = "grabfood-development-signing-secret"

// Claims represents partner access token claims
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
	Scope    string `json:"scope"`
}

// AccessToken is the OAuth token response body
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"-"`
}

// PartnerTokenService issues and validates bearer tokens for the platform's calls into us
type PartnerTokenService struct {
	clientID     string
	clientSecret string
	secretHash   []byte
	signingKey   []byte
	issuer       string
	scope        string
	expiration   time.Duration
	now          func() time.Time
}

// NewPartnerTokenService creates a new partner token service
func NewPartnerTokenService(cfg config.PartnerConfig) *PartnerTokenService {
	key := cfg.SigningSecret
	if key == "" {
		key = devSigningSecret
	}
	return &PartnerTokenService{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		secretHash:   []byte(cfg.ClientSecretHash),
		signingKey:   []byte(key),
		issuer:       cfg.Issuer,
		scope:        cfg.Scope,
		expiration:   cfg.TokenTTL,
		now:          time.Now,
	}
}

// Authenticate checks client credentials. A bcrypt hash takes precedence over a plain secret.
func (s *PartnerTokenService) Authenticate(clientID, clientSecret string) error {
	if s.clientID == "" || (s.clientSecret == "" && len(s.secretHash) == 0) {
		return ErrClientNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(clientID), []byte(s.clientID)) != 1 {
		return ErrInvalidClient
	}
	if len(s.secretHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(s.secretHash, []byte(clientSecret)); err != nil {
			return ErrInvalidClient
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(clientSecret), []byte(s.clientSecret)) != 1 {
		return ErrInvalidClient
	}
	return nil
}

// CheckScope accepts an empty scope or one that lists the partner scope
func (s *PartnerTokenService) CheckScope(scope string) error {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil
	}
	for _, part := range strings.Fields(scope) {
		if part == s.scope {
			return nil
		}
	}
	return ErrInvalidScope
}

// CheckGrantType accepts only client_credentials
func (s *PartnerTokenService) CheckGrantType(grantType string) error {
	if grantType != GrantTypeClientCredentials {
		return ErrUnsupportedGrant
	}
	return nil
}

// Issue signs a new access token for the client
func (s *PartnerTokenService) Issue(clientID string) (*AccessToken, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   clientID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		ClientID: clientID,
		Scope:    s.scope,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, err
	}
	return &AccessToken{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.expiration / time.Second),
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate parses a bearer token and returns its claims
func (s *PartnerTokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.ClientID == "" || s.CheckScope(claims.Scope) != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expiration returns the configured token lifetime
func (s *PartnerTokenService) Expiration() time.Duration {
	return s.expiration
}
