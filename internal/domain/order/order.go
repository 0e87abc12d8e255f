package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order states set locally; platform states are stored as reported after normalization
const (
	StateCompleted = "COMPLETED"
)

// Currency describes the currency an order was placed in
type Currency struct {
	Code     string
	Symbol   string
	Exponent int32
}

// Order is a delivery-platform order stored in major currency units.
// ExternalOrderID is the idempotency key: one Order exists per platform order.
type Order struct {
	ID                uuid.UUID
	ExternalOrderID   string
	ShortOrderNumber  string
	MerchantID        string
	PartnerMerchantID string
	PaymentType       string
	Cutlery           bool
	OrderTime         *time.Time
	SubmitTime        *time.Time
	CompleteTime      *time.Time
	ScheduledTime     *time.Time
	State             string
	StateMessage      string
	StateCode         string
	DriverETA         *int
	Currency          Currency
	MembershipID      string

	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	DeliveryFee       decimal.Decimal
	MerchantFundPromo decimal.Decimal
	GrabFundPromo     decimal.Decimal
	EaterPayment      decimal.Decimal
	Total             decimal.Decimal
	// PriceBreakdown holds every numeric entry of the payload price block, converted to major units
	PriceBreakdown map[string]decimal.Decimal

	FeatureFlags         json.RawMessage
	DineIn               json.RawMessage
	Receiver             json.RawMessage
	OrderReadyEstimation json.RawMessage
	// RawPayload is the order document exactly as received
	RawPayload json.RawMessage

	Lines     []Line
	Campaigns []Campaign
	Promos    []Promo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Line is one ordered item. CatalogItemID is nil when the item could not be matched.
type Line struct {
	ID                    uuid.UUID
	OrderID               uuid.UUID
	CatalogItemID         *int64
	ItemCode              string
	PlatformItemID        string
	Name                  string
	Quantity              int
	Price                 decimal.Decimal
	Tax                   decimal.Decimal
	Specifications        string
	OutOfStockInstruction json.RawMessage
	Modifiers             []ModifierSelection
	ResolvedBy            ResolutionStep
}

// ModifierSelection is a modifier chosen on a line
type ModifierSelection struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Tax      decimal.Decimal `json:"tax"`
}

// Campaign is a platform campaign applied to an order
type Campaign struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	CampaignID         string
	Name               string
	Level              string
	Type               string
	UsageCount         int
	MexFundedRatio     decimal.Decimal
	DeductedAmount     decimal.Decimal
	DeductedPart       string
	CampaignNameForMex string
	AppliedItemIDs     json.RawMessage
	FreeItem           json.RawMessage
}

// Promo is a promo code applied to an order
type Promo struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	Code             string
	Name             string
	Description      string
	PromoAmount      decimal.Decimal
	MexFundedRatio   decimal.Decimal
	MexFundedAmount  decimal.Decimal
	TargetedPrice    decimal.Decimal
	PromoAmountInMin decimal.Decimal
}

// AdoptIdentity gives a freshly parsed order the identity of the stored one it replaces
// and points every child at it.
func (o *Order) AdoptIdentity(id uuid.UUID, createdAt time.Time) {
	o.ID = id
	o.CreatedAt = createdAt
	o.attachChildren()
}

func (o *Order) attachChildren() {
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
	}
	for i := range o.Campaigns {
		o.Campaigns[i].OrderID = o.ID
	}
	for i := range o.Promos {
		o.Promos[i].OrderID = o.ID
	}
}

// ApplyStateUpdate records a state change pushed by the platform
func (o *Order) ApplyStateUpdate(u StateUpdate) {
	o.State = u.State
	o.StateMessage = u.Message
	o.StateCode = u.Code
	if u.DriverETA != nil {
		eta := *u.DriverETA
		o.DriverETA = &eta
	}
	o.UpdatedAt = time.Now()
}

// MarkCompleted sets the local state after the platform accepted a completion mark
func (o *Order) MarkCompleted() {
	o.State = StateCompleted
	o.UpdatedAt = time.Now()
}

// SetReadyTime stores a new ready time as the scheduled time
func (o *Order) SetReadyTime(t time.Time) {
	utc := t.UTC()
	o.ScheduledTime = &utc
	o.UpdatedAt = time.Now()
}

// UnresolvedLines counts lines without a catalog link
func (o *Order) UnresolvedLines() int {
	n := 0
	for _, l := range o.Lines {
		if l.CatalogItemID == nil {
			n++
		}
	}
	return n
}

// StateUpdate is a normalized order-state notification
type StateUpdate struct {
	ExternalOrderID string
	State           string
	Code            string
	Message         string
	DriverETA       *int
}
