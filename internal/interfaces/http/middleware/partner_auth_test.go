package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/infrastructure/auth"
	"github.com/erp/grabfood/internal/infrastructure/config"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s stubValidator) Validate(string) (*auth.Claims, error) {
	return s.claims, s.err
}

func newTokenService() *auth.PartnerTokenService {
	return auth.NewPartnerTokenService(config.PartnerConfig{
		ClientID:      "grab-client",
		ClientSecret:  "secret",
		SigningSecret: "test-signing-secret",
		Issuer:        "grabfood-test",
		Scope:         "food.partner_api",
		TokenTTL:      time.Hour,
	})
}

func partnerRouter(cfg PartnerAuthConfig) *gin.Engine {
	router := gin.New()
	router.Use(PartnerAuthWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetPartnerClientID(c))
	})
	return router
}

func TestPartnerAuth(t *testing.T) {
	tokens := newTokenService()
	issued, err := tokens.Issue("grab-client")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		validator  TokenValidator
		optional   bool
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer " + issued.AccessToken, validator: tokens, wantStatus: http.StatusOK, wantBody: "grab-client"},
		{name: "missing header", validator: tokens, wantStatus: http.StatusUnauthorized, wantBody: `{"error":"missing_token"}`},
		{name: "optional without header", validator: tokens, optional: true, wantStatus: http.StatusOK, wantBody: ""},
		{name: "optional with bad token", header: "Bearer nope", validator: tokens, optional: true, wantStatus: http.StatusUnauthorized, wantBody: `{"error":"invalid_token"}`},
		{name: "basic scheme", header: "Basic Zm9vOmJhcg==", validator: tokens, wantStatus: http.StatusUnauthorized, wantBody: `{"error":"invalid_authorization_header"}`},
		{name: "empty bearer", header: "Bearer  ", validator: tokens, wantStatus: http.StatusUnauthorized, wantBody: `{"error":"missing_token"}`},
		{name: "expired token", header: "Bearer x", validator: stubValidator{err: auth.ErrExpiredToken}, wantStatus: http.StatusUnauthorized, wantBody: `{"error":"token_expired"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := partnerRouter(PartnerAuthConfig{Validator: tt.validator, Optional: tt.optional, Logger: zap.NewNop()})
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			} else {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestGetPartnerClaims(t *testing.T) {
	claims := &auth.Claims{ClientID: "grab-client"}
	router := gin.New()
	router.Use(PartnerAuth(stubValidator{claims: claims}, nil))
	router.GET("/test", func(c *gin.Context) {
		got := GetPartnerClaims(c)
		assert.Same(t, claims, got)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetPartnerClaims(c))
	assert.Empty(t, GetPartnerClientID(c))
}
