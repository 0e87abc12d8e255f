package dto

import "net/http"

// API error codes. Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"

	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeMenuNotFound   = "ERR_MENU_NOT_FOUND"
	ErrCodeOrderNotFound  = "ERR_ORDER_NOT_FOUND"
	ErrCodeAlreadyExists  = "ERR_ALREADY_EXISTS"
	ErrCodeDuplicateOrder = "ERR_DUPLICATE_ORDER"

	// ErrCodeInvalidState is returned when an order or menu cannot take the requested transition
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeBusinessRule  = "ERR_BUSINESS_RULE"
	ErrCodeMenuNotLinked = "ERR_MENU_NOT_LINKED"

	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeMissingFields rejects an order document lacking required top-level keys
	ErrCodeMissingFields = "ERR_MISSING_FIELDS"

	// ErrCodeRateLimited covers both the local rate limiter and the menu push cooldown
	ErrCodeRateLimited = "ERR_RATE_LIMITED"

	// ErrCodeUpstream is used when the delivery platform rejects or fails a call
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodeUpstreamUnavailable is used when the delivery platform is unreachable or not configured
	ErrCodeUpstreamUnavailable = "ERR_UPSTREAM_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP statuses
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,

	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeMenuNotFound:   http.StatusNotFound,
	ErrCodeOrderNotFound:  http.StatusNotFound,
	ErrCodeAlreadyExists:  http.StatusConflict,
	ErrCodeDuplicateOrder: http.StatusConflict,

	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:  http.StatusUnprocessableEntity,
	ErrCodeMenuNotLinked: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeUpstream:            http.StatusBadGateway,
	ErrCodeUpstreamUnavailable: http.StatusServiceUnavailable,
	ErrCodeMissingFields:       http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for an API error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodes maps shared.DomainError codes raised by the services to API codes
var DomainErrorCodes = map[string]string{
	"NOT_FOUND":                  ErrCodeNotFound,
	"ALREADY_EXISTS":             ErrCodeAlreadyExists,
	"INVALID_INPUT":              ErrCodeInvalidInput,
	"INVALID_STATE":              ErrCodeInvalidState,
	"UNAUTHORIZED":               ErrCodeUnauthorized,
	"VALIDATION_ERROR":           ErrCodeValidation,
	"RATE_LIMITED":               ErrCodeRateLimited,
	"UPSTREAM_FAILED":            ErrCodeUpstream,
	"INVALID_PRICE_PLAN":         ErrCodeInvalidInput,
	"INVALID_MARK_STATUS":        ErrCodeInvalidInput,
	"INVALID_READY_TIME":         ErrCodeInvalidInput,
	"INVALID_INTEGRATION_STATUS": ErrCodeInvalidInput,
	"NO_PRODUCT_CATEGORY":        ErrCodeBusinessRule,
}

// NormalizeErrorCode converts a domain error code to its API code.
// Codes already in API form and unknown codes pass through.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodes[code]; ok {
		return apiCode
	}
	return code
}
