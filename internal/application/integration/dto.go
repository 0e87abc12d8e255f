package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
)

// ---------------------------------------------------------------------------
// Order DTOs
// ---------------------------------------------------------------------------

// IngestResult reports what happened to one order document
type IngestResult struct {
	OrderID         uuid.UUID           `json:"order_id"`
	ExternalOrderID string              `json:"external_order_id"`
	Outcome         order.UpsertOutcome `json:"outcome"`
	Lines           int                 `json:"lines"`
	UnresolvedLines int                 `json:"unresolved_lines"`
	FailedLines     []int               `json:"failed_lines,omitempty"`
	Issues          []string            `json:"issues,omitempty"`
	ArchiveKey      string              `json:"archive_key,omitempty"`
}

// OrderResponse represents a stored order in API responses
type OrderResponse struct {
	ID                uuid.UUID                  `json:"id"`
	ExternalOrderID   string                     `json:"external_order_id"`
	ShortOrderNumber  string                     `json:"short_order_number"`
	MerchantID        string                     `json:"merchant_id"`
	PartnerMerchantID string                     `json:"partner_merchant_id,omitempty"`
	PaymentType       string                     `json:"payment_type"`
	Cutlery           bool                       `json:"cutlery"`
	State             string                     `json:"state"`
	StateMessage      string                     `json:"state_message,omitempty"`
	StateCode         string                     `json:"state_code,omitempty"`
	DriverETA         *int                       `json:"driver_eta,omitempty"`
	OrderTime         *time.Time                 `json:"order_time,omitempty"`
	SubmitTime        *time.Time                 `json:"submit_time,omitempty"`
	CompleteTime      *time.Time                 `json:"complete_time,omitempty"`
	ScheduledTime     *time.Time                 `json:"scheduled_time,omitempty"`
	CurrencyCode      string                     `json:"currency_code"`
	Subtotal          decimal.Decimal            `json:"subtotal"`
	Tax               decimal.Decimal            `json:"tax"`
	DeliveryFee       decimal.Decimal            `json:"delivery_fee"`
	EaterPayment      decimal.Decimal            `json:"eater_payment"`
	Total             decimal.Decimal            `json:"total"`
	PriceBreakdown    map[string]decimal.Decimal `json:"price_breakdown,omitempty"`
	Lines             []OrderLineResponse        `json:"lines,omitempty"`
	Campaigns         []CampaignResponse         `json:"campaigns,omitempty"`
	Promos            []PromoResponse            `json:"promos,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID             uuid.UUID                 `json:"id"`
	CatalogItemID  *int64                    `json:"catalog_item_id,omitempty"`
	ItemCode       string                    `json:"item_code,omitempty"`
	PlatformItemID string                    `json:"platform_item_id,omitempty"`
	Name           string                    `json:"name"`
	Quantity       int                       `json:"quantity"`
	Price          decimal.Decimal           `json:"price"`
	Tax            decimal.Decimal           `json:"tax"`
	Specifications string                    `json:"specifications,omitempty"`
	Modifiers      []order.ModifierSelection `json:"modifiers,omitempty"`
	ResolvedBy     order.ResolutionStep      `json:"resolved_by"`
}

// CampaignResponse represents an applied campaign in API responses
type CampaignResponse struct {
	CampaignID     string          `json:"campaign_id"`
	Name           string          `json:"name"`
	MexFundedRatio decimal.Decimal `json:"mex_funded_ratio"`
	DeductedAmount decimal.Decimal `json:"deducted_amount"`
}

// PromoResponse represents an applied promo in API responses
type PromoResponse struct {
	Code        string          `json:"code"`
	Name        string          `json:"name,omitempty"`
	PromoAmount decimal.Decimal `json:"promo_amount"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID,
		ExternalOrderID:   o.ExternalOrderID,
		ShortOrderNumber:  o.ShortOrderNumber,
		MerchantID:        o.MerchantID,
		PartnerMerchantID: o.PartnerMerchantID,
		PaymentType:       o.PaymentType,
		Cutlery:           o.Cutlery,
		State:             o.State,
		StateMessage:      o.StateMessage,
		StateCode:         o.StateCode,
		DriverETA:         o.DriverETA,
		OrderTime:         o.OrderTime,
		SubmitTime:        o.SubmitTime,
		CompleteTime:      o.CompleteTime,
		ScheduledTime:     o.ScheduledTime,
		CurrencyCode:      o.Currency.Code,
		Subtotal:          o.Subtotal,
		Tax:               o.Tax,
		DeliveryFee:       o.DeliveryFee,
		EaterPayment:      o.EaterPayment,
		Total:             o.Total,
		PriceBreakdown:    o.PriceBreakdown,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ID:             l.ID,
			CatalogItemID:  l.CatalogItemID,
			ItemCode:       l.ItemCode,
			PlatformItemID: l.PlatformItemID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			Price:          l.Price,
			Tax:            l.Tax,
			Specifications: l.Specifications,
			Modifiers:      l.Modifiers,
			ResolvedBy:     l.ResolvedBy,
		})
	}
	for _, c := range o.Campaigns {
		resp.Campaigns = append(resp.Campaigns, CampaignResponse{
			CampaignID:     c.CampaignID,
			Name:           c.Name,
			MexFundedRatio: c.MexFundedRatio,
			DeductedAmount: c.DeductedAmount,
		})
	}
	for _, p := range o.Promos {
		resp.Promos = append(resp.Promos, PromoResponse{
			Code:        p.Code,
			Name:        p.Name,
			PromoAmount: p.PromoAmount,
		})
	}
	return resp
}

// ToOrderResponses converts a list of orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// SyncResult summarizes a pull of platform orders
type SyncResult struct {
	MerchantID string   `json:"merchant_id"`
	Date       string   `json:"date"`
	Pages      int      `json:"pages"`
	Created    int      `json:"created"`
	Replaced   int      `json:"replaced"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// ---------------------------------------------------------------------------
// Menu DTOs
// ---------------------------------------------------------------------------

// MerchantQuery identifies the merchant a menu export is for
type MerchantQuery struct {
	MerchantID        string
	PartnerMerchantID string
}

// ExportResult is a rendered menu document with the issues met while building it
type ExportResult struct {
	MenuID   int64
	Document *integration.MenuDocument
	Issues   []integration.BuildIssue
	Created  bool
}

// PushResult reports a menu update notification
type PushResult struct {
	MenuID     int64  `json:"menu_id"`
	MerchantID string `json:"merchant_id"`
	StatusCode int    `json:"status_code"`
	Accepted   bool   `json:"accepted"`
}

// MenuSyncLogResponse represents a sync-state callback in API responses
type MenuSyncLogResponse struct {
	ID                uuid.UUID  `json:"id"`
	RequestID         string     `json:"request_id,omitempty"`
	JobID             string     `json:"job_id,omitempty"`
	MerchantID        string     `json:"merchant_id,omitempty"`
	PartnerMerchantID string     `json:"partner_merchant_id,omitempty"`
	Status            string     `json:"status"`
	Errors            string     `json:"errors,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToMenuSyncLogResponses converts sync logs to response DTOs
func ToMenuSyncLogResponses(logs []integration.MenuSyncLog) []MenuSyncLogResponse {
	out := make([]MenuSyncLogResponse, len(logs))
	for i, l := range logs {
		out[i] = MenuSyncLogResponse{
			ID:                l.ID,
			RequestID:         l.RequestID,
			JobID:             l.JobID,
			MerchantID:        l.MerchantID,
			PartnerMerchantID: l.PartnerMerchantID,
			Status:            l.Status,
			Errors:            l.Errors,
			UpdatedAt:         l.UpdatedAt,
			CreatedAt:         l.CreatedAt,
		}
	}
	return out
}
