package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/infrastructure/auth"
	"github.com/erp/grabfood/internal/infrastructure/logger"
)

// TokenIssuer checks partner client credentials and signs access tokens
type TokenIssuer interface {
	Authenticate(clientID, clientSecret string) error
	CheckScope(scope string) error
	CheckGrantType(grantType string) error
	Issue(clientID string) (*auth.AccessToken, error)
}

// PartnerTokenHandler issues bearer tokens the delivery platform uses to call our endpoints
type PartnerTokenHandler struct {
	BaseHandler
	issuer TokenIssuer
}

// NewPartnerTokenHandler creates a new PartnerTokenHandler
func NewPartnerTokenHandler(issuer TokenIssuer) *PartnerTokenHandler {
	return &PartnerTokenHandler{issuer: issuer}
}

// TokenRequest is the client-credentials grant body
// @Description OAuth client-credentials request
type TokenRequest struct {
	ClientID     string `json:"client_id" form:"client_id" example:"grab-partner"`
	ClientSecret string `json:"client_secret" form:"client_secret"`
	GrantType    string `json:"grant_type" form:"grant_type" example:"client_credentials"`
	Scope        string `json:"scope" form:"scope" example:"food.partner_api"`
}

// TokenResponse is the OAuth access token body
// @Description OAuth access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"604800"`
}

// IssueToken godoc
// @ID           issuePartnerToken
// @Summary      Issue a partner access token
// @Description  Client-credentials grant. Credentials come from the body or HTTP Basic auth; a scope, when sent, must be food.partner_api.
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        request body TokenRequest false "Client credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} PartnerErrorResponse
// @Failure      401 {object} PartnerErrorResponse
// @Router       /grab/oauth/token [post]
func (h *PartnerTokenHandler) IssueToken(c *gin.Context) {
	log := logger.GetGinLogger(c)

	var req TokenRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			h.oauthError(c, http.StatusBadRequest, "invalid_request", "Malformed token request")
			return
		}
	}

	if user, pass, ok := c.Request.BasicAuth(); ok {
		req.ClientID, req.ClientSecret = user, pass
		if req.GrantType == "" {
			req.GrantType = auth.GrantTypeClientCredentials
		}
	}

	req.ClientID = strings.TrimSpace(req.ClientID)
	if req.ClientID == "" || req.ClientSecret == "" {
		h.oauthError(c, http.StatusBadRequest, "invalid_request", "client_id and client_secret are required")
		return
	}
	if err := h.issuer.CheckGrantType(req.GrantType); err != nil {
		h.oauthError(c, http.StatusBadRequest, "unsupported_grant_type", "Only client_credentials is supported")
		return
	}
	if err := h.issuer.Authenticate(req.ClientID, req.ClientSecret); err != nil {
		if errors.Is(err, auth.ErrClientNotConfigured) {
			log.Error("Partner OAuth client is not configured")
		} else {
			log.Warn("Partner client authentication failed", zap.String("client_id", req.ClientID))
		}
		h.oauthError(c, http.StatusUnauthorized, "invalid_client", "Client authentication failed")
		return
	}
	if err := h.issuer.CheckScope(req.Scope); err != nil {
		h.oauthError(c, http.StatusBadRequest, "invalid_scope", "")
		return
	}

	token, err := h.issuer.Issue(req.ClientID)
	if err != nil {
		log.Error("Failed to sign partner token", zap.Error(err))
		h.oauthError(c, http.StatusInternalServerError, "server_error", "")
		return
	}

	log.Info("Partner token issued",
		zap.String("client_id", req.ClientID),
		zap.Int64("expires_in", token.ExpiresIn))
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	})
}

func (h *PartnerTokenHandler) oauthError(c *gin.Context, status int, code, description string) {
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Basic realm="grab"`)
	}
	c.JSON(status, PartnerErrorResponse{
		Error:            code,
		ErrorDescription: description,
		RequestID:        getRequestID(c),
	})
}
