package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/erp/grabfood/internal/domain/catalog"
)

// PricePlanRequest is the price wizard input
type PricePlanRequest struct {
	ItemIDs          []int64             `json:"item_ids" binding:"required,min=1"`
	Strategy         string              `json:"strategy" binding:"omitempty,oneof=copy markup custom"`
	MarkupPercentage decimal.Decimal     `json:"markup_percentage"`
	GSTRate          decimal.NullDecimal `json:"gst_rate"`
	CustomBasePrice  decimal.Decimal     `json:"custom_base_price"`
}

// Plan converts the request into a domain price plan
func (r PricePlanRequest) Plan() catalog.PricePlan {
	return catalog.PricePlan{
		Strategy:         catalog.PriceStrategy(r.Strategy),
		MarkupPercentage: r.MarkupPercentage,
		GSTRate:          r.GSTRate,
		CustomBasePrice:  r.CustomBasePrice,
	}
}

// PriceQuoteResponse previews one item's new platform price
type PriceQuoteResponse struct {
	ItemID       int64           `json:"item_id"`
	ItemName     string          `json:"item_name"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	NewGrabPrice decimal.Decimal `json:"new_grab_price"`
	GSTAmount    decimal.Decimal `json:"gst_amount"`
	FinalPrice   decimal.Decimal `json:"final_price"`
}

// PricePreviewResponse lists the quotes of a price plan
type PricePreviewResponse struct {
	Strategy         string               `json:"strategy"`
	MarkupPercentage decimal.Decimal      `json:"markup_percentage"`
	GSTRate          decimal.Decimal      `json:"gst_rate"`
	Quotes           []PriceQuoteResponse `json:"quotes"`
	Skipped          []int64              `json:"skipped,omitempty"`
}

// PriceApplyResponse reports how many items were repriced
type PriceApplyResponse struct {
	Updated int     `json:"updated"`
	Skipped []int64 `json:"skipped,omitempty"`
}

// ItemIDsRequest selects items for a bulk action
type ItemIDsRequest struct {
	ItemIDs []int64 `json:"item_ids" binding:"required,min=1"`
}

// ModifierSyncResponse reports a modifier rebuild
type ModifierSyncResponse struct {
	Items     int `json:"items"`
	Groups    int `json:"groups"`
	Modifiers int `json:"modifiers"`
}

// CategorySyncResponse reports items created from a product category
type CategorySyncResponse struct {
	CategoryID int64   `json:"category_id"`
	Created    []int64 `json:"created"`
	Skipped    int     `json:"skipped"`
}

func toQuoteResponse(q catalog.PriceQuote) PriceQuoteResponse {
	return PriceQuoteResponse{
		ItemID:       q.ItemID,
		ItemName:     q.ItemName,
		CurrentPrice: q.CurrentPrice,
		NewGrabPrice: q.NewGrabPrice,
		GSTAmount:    q.GSTAmount,
		FinalPrice:   q.FinalPrice,
	}
}
