package order

import (
	"context"
	"time"

	"github.com/erp/grabfood/internal/domain/shared"
)

// UpsertOutcome tells whether an upsert created or replaced an order
type UpsertOutcome string

const (
	OutcomeCreated  UpsertOutcome = "CREATED"
	OutcomeReplaced UpsertOutcome = "REPLACED"
)

// UpsertResult reports what an upsert did
type UpsertResult struct {
	Outcome UpsertOutcome
	// FailedLines lists indexes of lines that could not be stored
	FailedLines []int
}

// Filter narrows an order listing
type Filter struct {
	shared.Filter
	MerchantID string
	State      string
	From       *time.Time
	To         *time.Time
}

// Repository defines the interface for order persistence
type Repository interface {
	// Upsert stores an order keyed by ExternalOrderID in one transaction.
	// A new ID creates the order; a known ID overwrites the header and replaces
	// every line, campaign and promo.
	Upsert(ctx context.Context, o *Order) (*UpsertResult, error)

	// FindByExternalID loads an order with its children; ErrOrderNotFound when absent
	FindByExternalID(ctx context.Context, externalOrderID string) (*Order, error)

	// FindAll lists orders without children, newest first
	FindAll(ctx context.Context, filter Filter) ([]Order, int64, error)

	// UpdateState stores the state fields, driver ETA and scheduled time of an order
	UpdateState(ctx context.Context, o *Order) error
}
