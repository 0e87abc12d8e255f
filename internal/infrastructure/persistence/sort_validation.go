package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// MenuSortFields contains allowed sort fields for menus
var MenuSortFields = map[string]bool{
	"id":                 true,
	"name":               true,
	"merchant_id":        true,
	"integration_status": true,
	"created_at":         true,
	"updated_at":         true,
}

// OrderSortFields contains allowed sort fields for delivery orders
var OrderSortFields = map[string]bool{
	"created_at":         true,
	"updated_at":         true,
	"order_time":         true,
	"external_order_id":  true,
	"short_order_number": true,
	"merchant_id":        true,
	"state":              true,
	"total":              true,
}
