package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the order-submission document sent by the platform.
// All amounts are integers in minor units of Currency.
type Payload struct {
	OrderID              string                     `json:"orderID"`
	ShortOrderNumber     flexString                 `json:"shortOrderNumber"`
	MerchantID           string                     `json:"merchantID"`
	PartnerMerchantID    string                     `json:"partnerMerchantID"`
	PaymentType          string                     `json:"paymentType"`
	Cutlery              bool                       `json:"cutlery"`
	OrderTime            string                     `json:"orderTime"`
	SubmitTime           string                     `json:"submitTime"`
	CompleteTime         string                     `json:"completeTime"`
	ScheduledTime        string                     `json:"scheduledTime"`
	OrderState           string                     `json:"orderState"`
	Currency             CurrencyPayload            `json:"currency"`
	FeatureFlags         json.RawMessage            `json:"featureFlags"`
	DineIn               json.RawMessage            `json:"dineIn"`
	Receiver             json.RawMessage            `json:"receiver"`
	OrderReadyEstimation json.RawMessage            `json:"orderReadyEstimation"`
	Price                map[string]json.RawMessage `json:"price"`
	MembershipID         flexString                 `json:"membershipID"`
	Items                []ItemPayload              `json:"items"`
	Campaigns            []CampaignPayload          `json:"campaigns"`
	Promos               []PromoPayload             `json:"promos"`
}

// CurrencyPayload is the currency block; Exponent is nil when not sent
type CurrencyPayload struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Exponent *int32 `json:"exponent"`
}

// ItemPayload is one ordered item
type ItemPayload struct {
	ID                    string            `json:"id"`
	GrabItemID            string            `json:"grabItemID"`
	Name                  string            `json:"name"`
	ItemName              string            `json:"itemName"`
	Barcode               string            `json:"barcode"`
	Quantity              int               `json:"quantity"`
	Price                 json.Number       `json:"price"`
	Tax                   json.Number       `json:"tax"`
	Specifications        string            `json:"specifications"`
	OutOfStockInstruction json.RawMessage   `json:"outOfStockInstruction"`
	Modifiers             []ModifierPayload `json:"modifiers"`
}

// ModifierPayload is one modifier chosen on an item
type ModifierPayload struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price"`
	Tax      json.Number `json:"tax"`
}

// CampaignPayload is a platform campaign applied to the order
type CampaignPayload struct {
	ID                 flexString      `json:"id"`
	Name               string          `json:"name"`
	Level              string          `json:"level"`
	Type               string          `json:"type"`
	UsageCount         int             `json:"usageCount"`
	MexFundedRatio     json.Number     `json:"mexFundedRatio"`
	DeductedAmount     json.Number     `json:"deductedAmount"`
	DeductedPart       string          `json:"deductedPart"`
	CampaignNameForMex string          `json:"campaignNameForMex"`
	AppliedItemIDs     json.RawMessage `json:"appliedItemIDs"`
	FreeItem           json.RawMessage `json:"freeItem"`
}

// PromoPayload is a promo code applied to the order
type PromoPayload struct {
	Code             string      `json:"code"`
	Description      string      `json:"description"`
	Name             string      `json:"name"`
	PromoAmount      json.Number `json:"promoAmount"`
	MexFundedRatio   json.Number `json:"mexFundedRatio"`
	MexFundedAmount  json.Number `json:"mexFundedAmount"`
	TargetedPrice    json.Number `json:"targetedPrice"`
	PromoAmountInMin json.Number `json:"promoAmountInMin"`
}

// StatePayload is the order-state-update document
type StatePayload struct {
	OrderID   string       `json:"orderID"`
	State     string       `json:"state"`
	Code      flexString   `json:"code"`
	Message   string       `json:"message"`
	DriverETA *json.Number `json:"driverETA"`
}

// ParsePayload decodes an order document after checking its required keys.
// Returns ErrMalformedPayload for invalid JSON and *MissingFieldsError when keys are absent.
func ParsePayload(body []byte) (*Payload, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if keys == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedPayload)
	}
	if err := ValidateRequired(keys); err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	p.OrderID = strings.TrimSpace(p.OrderID)
	if p.OrderID == "" {
		return nil, &MissingFieldsError{Fields: []string{"orderID"}}
	}
	return &p, nil
}

// ParseStatePayload decodes an order-state document and checks orderID and state
func ParseStatePayload(body []byte) (*StateUpdate, error) {
	var p StatePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	var missing []string
	if strings.TrimSpace(p.OrderID) == "" {
		missing = append(missing, "orderID")
	}
	if strings.TrimSpace(p.State) == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	u := &StateUpdate{
		ExternalOrderID: strings.TrimSpace(p.OrderID),
		State:           p.State,
		Code:            string(p.Code),
		Message:         p.Message,
	}
	if p.DriverETA != nil {
		if eta, err := p.DriverETA.Int64(); err == nil {
			v := int(eta)
			u.DriverETA = &v
		} else if f, err := p.DriverETA.Float64(); err == nil {
			v := int(f)
			u.DriverETA = &v
		}
	}
	return u, nil
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}
