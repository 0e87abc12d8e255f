package integration

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ---------------------------------------------------------------------------
// DeliveryPlatform Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformAuthFailed      = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")

	// Menu errors
	ErrMenuNotFound         = errors.New("integration: menu not found")
	ErrMenuMissingMerchant  = errors.New("integration: menu has no merchant ID")
	ErrMenuMissingPartner   = errors.New("integration: menu has no partner merchant ID")
	ErrMenuNoSyncTrace      = errors.New("integration: no menu request or job ID recorded")
	ErrMenuPushTooFrequent  = errors.New("integration: menu push too frequent, retry later")
	ErrActivationURLMissing = errors.New("integration: no activation URL returned")

	// Value errors
	ErrInvalidAmount = errors.New("integration: invalid amount")
)

// IsRetryable returns true for faults worth retrying later
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPlatformUnavailable) || errors.Is(err, ErrPlatformRateLimited)
}

// ---------------------------------------------------------------------------
// OrderMark is the markStatus value of the mark-order call
// ---------------------------------------------------------------------------

// OrderMark is the markStatus value of the mark-order call
type OrderMark int

const (
	// OrderMarkReady tells the platform the food is ready for pickup
	OrderMarkReady OrderMark = 1
	// OrderMarkCompleted closes a dine-in order
	OrderMarkCompleted OrderMark = 2
)

// IsValid returns true if the mark is known
func (m OrderMark) IsValid() bool {
	return m == OrderMarkReady || m == OrderMarkCompleted
}

// String returns the name of the mark
func (m OrderMark) String() string {
	switch m {
	case OrderMarkReady:
		return "READY"
	case OrderMarkCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// ---------------------------------------------------------------------------
// Request/Response types
// ---------------------------------------------------------------------------

// OrderListRequest selects one page of a merchant's orders on a day
type OrderListRequest struct {
	MerchantID string
	Date       time.Time
	Page       int
}

// OrderListPage is one page of platform orders, each kept as raw JSON for ingestion
type OrderListPage struct {
	Orders []json.RawMessage
	More   bool
}

// MenuTrace is the sync trace the platform keeps for a menu request or job
type MenuTrace struct {
	// Key is the query parameter that produced the trace (requestId, jobID, ...)
	Key   string
	Value string
	Body  map[string]any
}

// MenuNotificationResult tells whether the platform accepted a menu update notice
type MenuNotificationResult struct {
	StatusCode int
	Accepted   bool
}

// ---------------------------------------------------------------------------
// DeliveryPlatform port
// ---------------------------------------------------------------------------

// DeliveryPlatform is the outbound contract with the food-delivery platform.
// Implementations must bound every call with a timeout and report transient faults
// as ErrPlatformUnavailable or ErrPlatformRateLimited.
type DeliveryPlatform interface {
	// NotifyMenuUpdate asks the platform to fetch the merchant's menu again
	NotifyMenuUpdate(ctx context.Context, merchantID string) (*MenuNotificationResult, error)
	// MarkOrder marks an order ready or completed
	MarkOrder(ctx context.Context, orderID string, mark OrderMark) error
	// UpdateOrderReadyTime announces a new ready time for an order
	UpdateOrderReadyTime(ctx context.Context, orderID string, readyAt time.Time) error
	// CreateSelfServeActivation returns the merchant onboarding URL
	CreateSelfServeActivation(ctx context.Context, partnerMerchantID string) (string, error)
	// GetMenuTrace looks up the sync trace by request ID, then job ID
	GetMenuTrace(ctx context.Context, requestID, jobID string) (*MenuTrace, error)
	// ListOrders returns one page of orders for a merchant and day
	ListOrders(ctx context.Context, req OrderListRequest) (*OrderListPage, error)
}
