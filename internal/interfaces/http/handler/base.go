package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/domain/shared"
	"github.com/erp/grabfood/internal/interfaces/http/dto"
	"github.com/erp/grabfood/internal/interfaces/http/middleware"
)

// RequestIDKey is the header echoing the request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// sentinelCodes maps domain sentinel errors to API error codes, most specific first
var sentinelCodes = []struct {
	err  error
	code string
}{
	{integration.ErrMenuNotFound, dto.ErrCodeMenuNotFound},
	{order.ErrOrderNotFound, dto.ErrCodeOrderNotFound},
	{order.ErrDuplicateOrder, dto.ErrCodeDuplicateOrder},
	{order.ErrMalformedPayload, dto.ErrCodeInvalidJSON},
	{integration.ErrMenuMissingMerchant, dto.ErrCodeMenuNotLinked},
	{integration.ErrMenuMissingPartner, dto.ErrCodeMenuNotLinked},
	{integration.ErrMenuNoSyncTrace, dto.ErrCodeMenuNotLinked},
	{integration.ErrMenuPushTooFrequent, dto.ErrCodeRateLimited},
	{integration.ErrPlatformRateLimited, dto.ErrCodeRateLimited},
	{integration.ErrPlatformNotConfigured, dto.ErrCodeUpstreamUnavailable},
	{integration.ErrPlatformUnavailable, dto.ErrCodeUpstreamUnavailable},
	{integration.ErrPlatformAuthFailed, dto.ErrCodeUpstream},
	{integration.ErrPlatformRequestFailed, dto.ErrCodeUpstream},
	{integration.ErrPlatformInvalidResponse, dto.ErrCodeUpstream},
	{integration.ErrActivationURLMissing, dto.ErrCodeUpstream},
}

// HandleError converts domain and sentinel errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var missing *order.MissingFieldsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, dto.NewMissingFieldsErrorResponse(getRequestID(c), missing.Fields))
		return
	}

	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			h.ErrorWithCode(c, s.code, err.Error())
			return
		}
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
