package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/erp/grabfood/internal/domain/shared"
)

var (
	ErrMalformedPayload = errors.New("order: malformed payload")
	ErrOrderNotFound    = errors.New("order: order not found")
	ErrDuplicateOrder   = errors.New("order: external order ID already stored")
)

// RequiredFields are the top-level keys every order document must carry
var RequiredFields = []string{
	"orderID",
	"shortOrderNumber",
	"merchantID",
	"paymentType",
	"cutlery",
	"orderTime",
	"currency",
	"featureFlags",
	"items",
	"price",
}

// MissingFieldsError rejects an order document that lacks required keys
type MissingFieldsError struct {
	Fields []string
}

// Error implements the error interface
func (e *MissingFieldsError) Error() string {
	return "order: missing required fields: " + strings.Join(e.Fields, ", ")
}

// Unwrap lets errors.Is match the generic validation error
func (e *MissingFieldsError) Unwrap() error {
	return shared.ErrValidation
}

// ValidateRequired checks that every required key is present and not null.
// Missing keys are reported in RequiredFields order.
func ValidateRequired(doc map[string]json.RawMessage) error {
	var missing []string
	for _, key := range RequiredFields {
		raw, ok := doc[key]
		if !ok || isNull(raw) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
