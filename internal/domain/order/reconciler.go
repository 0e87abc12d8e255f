package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/grabfood/internal/domain/integration"
)

// LineIssue describes a non-fatal fault met while converting an order
type LineIssue struct {
	Index   int
	Code    string
	Message string
}

// Reconciler converts order documents into Orders in major units with resolved lines
type Reconciler struct {
	resolver *ItemResolver
}

// NewReconciler creates a Reconciler
func NewReconciler(resolver *ItemResolver) *Reconciler {
	return &Reconciler{resolver: resolver}
}

// Build converts a parsed payload into a new Order. raw is stored verbatim.
// Every amount is divided by 10^exponent of the payload currency (default 2).
func (r *Reconciler) Build(ctx context.Context, p *Payload, raw []byte) (*Order, []LineIssue) {
	exponent := integration.DefaultCurrencyExponent
	if p.Currency.Exponent != nil {
		exponent = integration.EffectiveExponent(*p.Currency.Exponent)
	}
	conv := &converter{exponent: exponent}

	now := time.Now()
	o := &Order{
		ID:                   uuid.New(),
		ExternalOrderID:      p.OrderID,
		ShortOrderNumber:     string(p.ShortOrderNumber),
		MerchantID:           p.MerchantID,
		PartnerMerchantID:    p.PartnerMerchantID,
		PaymentType:          p.PaymentType,
		Cutlery:              p.Cutlery,
		OrderTime:            ParseTimestamp(p.OrderTime),
		SubmitTime:           ParseTimestamp(p.SubmitTime),
		CompleteTime:         ParseTimestamp(p.CompleteTime),
		ScheduledTime:        ParseTimestamp(p.ScheduledTime),
		State:                integration.NormalizeOrderState(p.OrderState),
		Currency:             Currency{Code: p.Currency.Code, Symbol: p.Currency.Symbol, Exponent: exponent},
		MembershipID:         string(p.MembershipID),
		FeatureFlags:         p.FeatureFlags,
		DineIn:               p.DineIn,
		Receiver:             p.Receiver,
		OrderReadyEstimation: p.OrderReadyEstimation,
		RawPayload:           json.RawMessage(append([]byte(nil), raw...)),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	o.PriceBreakdown = conv.priceBlock(p.Price)
	o.Subtotal = o.PriceBreakdown["subtotal"]
	o.Tax = o.PriceBreakdown["tax"]
	o.DeliveryFee = o.PriceBreakdown["deliveryFee"]
	o.MerchantFundPromo = o.PriceBreakdown["merchantFundPromo"]
	o.GrabFundPromo = o.PriceBreakdown["grabFundPromo"]
	o.EaterPayment = o.PriceBreakdown["eaterPayment"]
	o.Total = orderTotal(o.PriceBreakdown)

	o.Lines = make([]Line, 0, len(p.Items))
	for i, item := range p.Items {
		o.Lines = append(o.Lines, r.buildLine(ctx, i, item, conv))
	}
	o.Campaigns = make([]Campaign, 0, len(p.Campaigns))
	for i, c := range p.Campaigns {
		o.Campaigns = append(o.Campaigns, Campaign{
			ID:                 uuid.New(),
			CampaignID:         string(c.ID),
			Name:               c.Name,
			Level:              c.Level,
			Type:               c.Type,
			UsageCount:         c.UsageCount,
			MexFundedRatio:     conv.plain(c.MexFundedRatio, i, "campaign.mexFundedRatio"),
			DeductedAmount:     conv.amount(c.DeductedAmount, i, "campaign.deductedAmount"),
			DeductedPart:       c.DeductedPart,
			CampaignNameForMex: c.CampaignNameForMex,
			AppliedItemIDs:     c.AppliedItemIDs,
			FreeItem:           c.FreeItem,
		})
	}
	o.Promos = make([]Promo, 0, len(p.Promos))
	for i, pr := range p.Promos {
		o.Promos = append(o.Promos, Promo{
			ID:               uuid.New(),
			Code:             pr.Code,
			Name:             pr.Name,
			Description:      pr.Description,
			PromoAmount:      conv.amount(pr.PromoAmount, i, "promo.promoAmount"),
			MexFundedRatio:   conv.plain(pr.MexFundedRatio, i, "promo.mexFundedRatio"),
			MexFundedAmount:  conv.amount(pr.MexFundedAmount, i, "promo.mexFundedAmount"),
			TargetedPrice:    conv.amount(pr.TargetedPrice, i, "promo.targetedPrice"),
			PromoAmountInMin: conv.amount(pr.PromoAmountInMin, i, "promo.promoAmountInMin"),
		})
	}
	o.attachChildren()
	return o, conv.issues
}

func (r *Reconciler) buildLine(ctx context.Context, index int, item ItemPayload, conv *converter) Line {
	line := Line{
		ID:                    uuid.New(),
		ItemCode:              NormalizeCode(item.ID),
		PlatformItemID:        NormalizeCode(item.GrabItemID),
		Quantity:              item.Quantity,
		Price:                 conv.amount(item.Price, index, "item.price"),
		Tax:                   conv.amount(item.Tax, index, "item.tax"),
		Specifications:        item.Specifications,
		OutOfStockInstruction: item.OutOfStockInstruction,
		Modifiers:             make([]ModifierSelection, 0, len(item.Modifiers)),
	}
	for _, m := range item.Modifiers {
		line.Modifiers = append(line.Modifiers, ModifierSelection{
			ID:       m.ID,
			Name:     m.Name,
			Quantity: m.Quantity,
			Price:    conv.amount(m.Price, index, "modifier.price"),
			Tax:      conv.amount(m.Tax, index, "modifier.tax"),
		})
	}

	res, err := r.resolver.Resolve(ctx, item)
	if err != nil {
		conv.issues = append(conv.issues, LineIssue{Index: index, Code: "RESOLUTION_FAILED", Message: err.Error()})
		res = Resolution{Step: Unresolved, Name: lineName(item, "", firstNonEmpty(line.ItemCode, line.PlatformItemID))}
	}
	line.Name = res.Name
	line.ResolvedBy = res.Step
	if res.Item != nil {
		id := res.Item.ID
		line.CatalogItemID = &id
	}
	return line
}

// orderTotal prefers an explicit total, then what the eater paid, then subtotal plus tax
func orderTotal(b map[string]decimal.Decimal) decimal.Decimal {
	if v, ok := b["total"]; ok {
		return v
	}
	if v, ok := b["eaterPayment"]; ok {
		return v
	}
	return b["subtotal"].Add(b["tax"])
}

type converter struct {
	exponent int32
	issues   []LineIssue
}

// amount converts a minor-unit number to major units; absent values are zero
func (c *converter) amount(n json.Number, index int, field string) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := integration.ToMajorUnits(string(n), c.exponent)
	if err != nil {
		c.issues = append(c.issues, LineIssue{Index: index, Code: "INVALID_AMOUNT", Message: fmt.Sprintf("%s: %v", field, err)})
		return decimal.Zero
	}
	return d
}

// plain parses a number that is not a currency amount, such as a ratio
func (c *converter) plain(n json.Number, index int, field string) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		c.issues = append(c.issues, LineIssue{Index: index, Code: "INVALID_NUMBER", Message: fmt.Sprintf("%s: %v", field, err)})
		return decimal.Zero
	}
	return d
}

// priceBlock converts every numeric entry of the price block; other entries are ignored
func (c *converter) priceBlock(price map[string]json.RawMessage) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(price))
	for key, raw := range price {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil || strings.TrimSpace(string(n)) == "" {
			continue
		}
		out[key] = c.amount(n, -1, "price."+key)
	}
	return out
}
