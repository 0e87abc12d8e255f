package handler

import "github.com/erp/grabfood/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// PartnerErrorResponse is the flat error body of the partner endpoints
// @Description Partner endpoint error
type PartnerErrorResponse struct {
	Error            string `json:"error" example:"invalid_client"`
	ErrorDescription string `json:"error_description,omitempty"`
	RequestID        string `json:"rid,omitempty"`
}

// URLData wraps a URL in responses
// @Description URL data
type URLData struct {
	URL string `json:"url"`
}

// CooldownData reports the remaining menu push cooldown
// @Description Push cooldown
type CooldownData struct {
	MerchantID       string `json:"merchant_id"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}
