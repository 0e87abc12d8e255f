package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceStrategy selects how a platform base price is derived from the product price
type PriceStrategy string

const (
	PriceStrategyCopy   PriceStrategy = "copy"
	PriceStrategyMarkup PriceStrategy = "markup"
	PriceStrategyCustom PriceStrategy = "custom"
)

// DefaultMarkupPercentage covers platform fees when no markup is given
var DefaultMarkupPercentage = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// PricePlan describes a bulk price change for platform items
type PricePlan struct {
	Strategy         PriceStrategy
	MarkupPercentage decimal.Decimal
	GSTRate          decimal.NullDecimal
	CustomBasePrice  decimal.Decimal
}

// Validate checks the plan and fills defaults
func (p *PricePlan) Validate() error {
	if p.Strategy == "" {
		p.Strategy = PriceStrategyMarkup
	}
	switch p.Strategy {
	case PriceStrategyCopy, PriceStrategyMarkup, PriceStrategyCustom:
	default:
		return fmt.Errorf("catalog: unknown price strategy %q", p.Strategy)
	}
	if p.Strategy == PriceStrategyMarkup && p.MarkupPercentage.IsZero() {
		p.MarkupPercentage = DefaultMarkupPercentage
	}
	if !p.GSTRate.Valid {
		p.GSTRate = decimal.NewNullDecimal(DefaultGSTRate)
	}
	if p.MarkupPercentage.IsNegative() || p.GSTRate.Decimal.IsNegative() || p.CustomBasePrice.IsNegative() {
		return fmt.Errorf("catalog: price plan values cannot be negative")
	}
	return nil
}

// PriceQuote previews what a plan does to one item
type PriceQuote struct {
	ItemID       int64
	ItemName     string
	CurrentPrice decimal.Decimal
	NewGrabPrice decimal.Decimal
	GSTAmount    decimal.Decimal
	FinalPrice   decimal.Decimal
}

// Quote computes the new platform price of an item. Items without a product are skipped.
func (p PricePlan) Quote(item *Item) (PriceQuote, bool) {
	if item.Product == nil {
		return PriceQuote{}, false
	}
	current := item.Product.ListPrice
	base := current
	switch p.Strategy {
	case PriceStrategyMarkup:
		base = current.Add(current.Mul(p.MarkupPercentage).Div(hundred))
	case PriceStrategyCustom:
		base = p.CustomBasePrice
	}
	gst := base.Mul(p.rate()).Div(hundred)
	return PriceQuote{
		ItemID:       item.ID,
		ItemName:     item.DisplayName(),
		CurrentPrice: current,
		NewGrabPrice: base,
		GSTAmount:    gst,
		FinalPrice:   base.Add(gst),
	}, true
}

func (p PricePlan) rate() decimal.Decimal {
	if !p.GSTRate.Valid {
		return DefaultGSTRate
	}
	return p.GSTRate.Decimal
}

// ApplyPricePlan stores the plan's base price and GST rate on the item and enables platform pricing
func (i *Item) ApplyPricePlan(plan PricePlan) bool {
	quote, ok := plan.Quote(i)
	if !ok {
		return false
	}
	i.GrabPrice = quote.NewGrabPrice
	i.GSTRate = decimal.NewNullDecimal(plan.rate())
	i.UseGrabPrice = true
	return true
}
