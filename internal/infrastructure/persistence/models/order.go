package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/grabfood/internal/domain/order"
)

// DeliveryOrderModel is the persistence model for a delivery-platform order
type DeliveryOrderModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	ExternalOrderID   string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	ShortOrderNumber  string     `gorm:"type:varchar(50)"`
	MerchantID        string     `gorm:"type:varchar(100);not null;index"`
	PartnerMerchantID string     `gorm:"type:varchar(100)"`
	PaymentType       string     `gorm:"type:varchar(30)"`
	Cutlery           bool       `gorm:"not null;default:false"`
	OrderTime         *time.Time `gorm:"index"`
	SubmitTime        *time.Time
	CompleteTime      *time.Time
	ScheduledTime     *time.Time
	State             string `gorm:"type:varchar(50);index"`
	StateMessage      string `gorm:"type:text"`
	StateCode         string `gorm:"type:varchar(50)"`
	DriverETA         *int   `gorm:"column:driver_eta"`
	CurrencyCode      string `gorm:"type:varchar(10)"`
	CurrencySymbol    string `gorm:"type:varchar(10)"`
	CurrencyExponent  int32  `gorm:"not null;default:2"`
	MembershipID      string `gorm:"type:varchar(100)"`

	Subtotal          decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Tax               decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	DeliveryFee       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	MerchantFundPromo decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	GrabFundPromo     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	EaterPayment      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Total             decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	PriceBreakdown       string `gorm:"type:jsonb"`
	FeatureFlags         string `gorm:"type:jsonb"`
	DineIn               string `gorm:"type:jsonb"`
	Receiver             string `gorm:"type:jsonb"`
	OrderReadyEstimation string `gorm:"type:jsonb"`
	RawPayload           string `gorm:"type:jsonb"`

	Lines     []DeliveryOrderLineModel     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Campaigns []DeliveryOrderCampaignModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Promos    []DeliveryOrderPromoModel    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeliveryOrderModel) TableName() string {
	return "delivery_orders"
}

// ToDomain converts the persistence model to a domain Order with whatever children were loaded
func (m *DeliveryOrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:                m.ID,
		ExternalOrderID:   m.ExternalOrderID,
		ShortOrderNumber:  m.ShortOrderNumber,
		MerchantID:        m.MerchantID,
		PartnerMerchantID: m.PartnerMerchantID,
		PaymentType:       m.PaymentType,
		Cutlery:           m.Cutlery,
		OrderTime:         utcPtr(m.OrderTime),
		SubmitTime:        utcPtr(m.SubmitTime),
		CompleteTime:      utcPtr(m.CompleteTime),
		ScheduledTime:     utcPtr(m.ScheduledTime),
		State:             m.State,
		StateMessage:      m.StateMessage,
		StateCode:         m.StateCode,
		DriverETA:         m.DriverETA,
		Currency: order.Currency{
			Code:     m.CurrencyCode,
			Symbol:   m.CurrencySymbol,
			Exponent: m.CurrencyExponent,
		},
		MembershipID:         m.MembershipID,
		Subtotal:             m.Subtotal,
		Tax:                  m.Tax,
		DeliveryFee:          m.DeliveryFee,
		MerchantFundPromo:    m.MerchantFundPromo,
		GrabFundPromo:        m.GrabFundPromo,
		EaterPayment:         m.EaterPayment,
		Total:                m.Total,
		FeatureFlags:         rawJSON(m.FeatureFlags),
		DineIn:               rawJSON(m.DineIn),
		Receiver:             rawJSON(m.Receiver),
		OrderReadyEstimation: rawJSON(m.OrderReadyEstimation),
		RawPayload:           rawJSON(m.RawPayload),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if raw := rawJSON(m.PriceBreakdown); raw != nil {
		breakdown := make(map[string]decimal.Decimal)
		if err := json.Unmarshal(raw, &breakdown); err == nil {
			o.PriceBreakdown = breakdown
		}
	}
	for i := range m.Lines {
		o.Lines = append(o.Lines, m.Lines[i].ToDomain())
	}
	for i := range m.Campaigns {
		o.Campaigns = append(o.Campaigns, m.Campaigns[i].ToDomain())
	}
	for i := range m.Promos {
		o.Promos = append(o.Promos, m.Promos[i].ToDomain())
	}
	return o
}

// FromDomain populates the header columns from a domain Order. Children are not copied.
func (m *DeliveryOrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.ExternalOrderID = o.ExternalOrderID
	m.ShortOrderNumber = o.ShortOrderNumber
	m.MerchantID = o.MerchantID
	m.PartnerMerchantID = o.PartnerMerchantID
	m.PaymentType = o.PaymentType
	m.Cutlery = o.Cutlery
	m.OrderTime = o.OrderTime
	m.SubmitTime = o.SubmitTime
	m.CompleteTime = o.CompleteTime
	m.ScheduledTime = o.ScheduledTime
	m.State = o.State
	m.StateMessage = o.StateMessage
	m.StateCode = o.StateCode
	m.DriverETA = o.DriverETA
	m.CurrencyCode = o.Currency.Code
	m.CurrencySymbol = o.Currency.Symbol
	m.CurrencyExponent = o.Currency.Exponent
	m.MembershipID = o.MembershipID
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.DeliveryFee = o.DeliveryFee
	m.MerchantFundPromo = o.MerchantFundPromo
	m.GrabFundPromo = o.GrabFundPromo
	m.EaterPayment = o.EaterPayment
	m.Total = o.Total
	m.PriceBreakdown = jsonNull
	if len(o.PriceBreakdown) > 0 {
		m.PriceBreakdown = marshalJSON(o.PriceBreakdown)
	}
	m.FeatureFlags = jsonText(o.FeatureFlags)
	m.DineIn = jsonText(o.DineIn)
	m.Receiver = jsonText(o.Receiver)
	m.OrderReadyEstimation = jsonText(o.OrderReadyEstimation)
	m.RawPayload = jsonText(o.RawPayload)
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// DeliveryOrderLineModel is the persistence model for an order line
type DeliveryOrderLineModel struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position              int             `gorm:"not null;default:0"`
	CatalogItemID         *int64          `gorm:"index"`
	ItemCode              string          `gorm:"type:varchar(100)"`
	PlatformItemID        string          `gorm:"type:varchar(100)"`
	Name                  string          `gorm:"type:varchar(300)"`
	Quantity              int             `gorm:"not null;default:1"`
	Price                 decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Tax                   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Specifications        string          `gorm:"type:text"`
	OutOfStockInstruction string          `gorm:"type:jsonb"`
	Modifiers             string          `gorm:"type:jsonb"`
	ResolvedBy            string          `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (DeliveryOrderLineModel) TableName() string {
	return "delivery_order_lines"
}

// ToDomain converts the persistence model to a domain Line
func (m *DeliveryOrderLineModel) ToDomain() order.Line {
	l := order.Line{
		ID:                    m.ID,
		OrderID:               m.OrderID,
		CatalogItemID:         m.CatalogItemID,
		ItemCode:              m.ItemCode,
		PlatformItemID:        m.PlatformItemID,
		Name:                  m.Name,
		Quantity:              m.Quantity,
		Price:                 m.Price,
		Tax:                   m.Tax,
		Specifications:        m.Specifications,
		OutOfStockInstruction: rawJSON(m.OutOfStockInstruction),
		ResolvedBy:            order.ResolutionStep(m.ResolvedBy),
	}
	if raw := rawJSON(m.Modifiers); raw != nil {
		var mods []order.ModifierSelection
		if err := json.Unmarshal(raw, &mods); err == nil {
			l.Modifiers = mods
		}
	}
	return l
}

// DeliveryOrderLineModelFromDomain builds the line row stored at the given position
func DeliveryOrderLineModelFromDomain(l *order.Line, position int) *DeliveryOrderLineModel {
	m := &DeliveryOrderLineModel{
		ID:                    l.ID,
		OrderID:               l.OrderID,
		Position:              position,
		CatalogItemID:         l.CatalogItemID,
		ItemCode:              l.ItemCode,
		PlatformItemID:        l.PlatformItemID,
		Name:                  l.Name,
		Quantity:              l.Quantity,
		Price:                 l.Price,
		Tax:                   l.Tax,
		Specifications:        l.Specifications,
		OutOfStockInstruction: jsonText(l.OutOfStockInstruction),
		Modifiers:             jsonNull,
		ResolvedBy:            string(l.ResolvedBy),
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if len(l.Modifiers) > 0 {
		m.Modifiers = marshalJSON(l.Modifiers)
	}
	return m
}

// DeliveryOrderCampaignModel is the persistence model for a campaign applied to an order
type DeliveryOrderCampaignModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CampaignID         string          `gorm:"type:varchar(100)"`
	Name               string          `gorm:"type:varchar(300)"`
	Level              string          `gorm:"type:varchar(50)"`
	Type               string          `gorm:"type:varchar(50)"`
	UsageCount         int             `gorm:"not null;default:0"`
	MexFundedRatio     decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	DeductedAmount     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	DeductedPart       string          `gorm:"type:varchar(50)"`
	CampaignNameForMex string          `gorm:"type:varchar(300)"`
	AppliedItemIDs     string          `gorm:"column:applied_item_ids;type:jsonb"`
	FreeItem           string          `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (DeliveryOrderCampaignModel) TableName() string {
	return "delivery_order_campaigns"
}

// ToDomain converts the persistence model to a domain Campaign
func (m *DeliveryOrderCampaignModel) ToDomain() order.Campaign {
	return order.Campaign{
		ID:                 m.ID,
		OrderID:            m.OrderID,
		CampaignID:         m.CampaignID,
		Name:               m.Name,
		Level:              m.Level,
		Type:               m.Type,
		UsageCount:         m.UsageCount,
		MexFundedRatio:     m.MexFundedRatio,
		DeductedAmount:     m.DeductedAmount,
		DeductedPart:       m.DeductedPart,
		CampaignNameForMex: m.CampaignNameForMex,
		AppliedItemIDs:     rawJSON(m.AppliedItemIDs),
		FreeItem:           rawJSON(m.FreeItem),
	}
}

// DeliveryOrderCampaignModelFromDomain builds a campaign row
func DeliveryOrderCampaignModelFromDomain(c *order.Campaign) *DeliveryOrderCampaignModel {
	m := &DeliveryOrderCampaignModel{
		ID:                 c.ID,
		OrderID:            c.OrderID,
		CampaignID:         c.CampaignID,
		Name:               c.Name,
		Level:              c.Level,
		Type:               c.Type,
		UsageCount:         c.UsageCount,
		MexFundedRatio:     c.MexFundedRatio,
		DeductedAmount:     c.DeductedAmount,
		DeductedPart:       c.DeductedPart,
		CampaignNameForMex: c.CampaignNameForMex,
		AppliedItemIDs:     jsonText(c.AppliedItemIDs),
		FreeItem:           jsonText(c.FreeItem),
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return m
}

// DeliveryOrderPromoModel is the persistence model for a promo applied to an order
type DeliveryOrderPromoModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code             string          `gorm:"type:varchar(100)"`
	Name             string          `gorm:"type:varchar(300)"`
	Description      string          `gorm:"type:text"`
	PromoAmount      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	MexFundedRatio   decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	MexFundedAmount  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TargetedPrice    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	PromoAmountInMin decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (DeliveryOrderPromoModel) TableName() string {
	return "delivery_order_promos"
}

// ToDomain converts the persistence model to a domain Promo
func (m *DeliveryOrderPromoModel) ToDomain() order.Promo {
	return order.Promo{
		ID:               m.ID,
		OrderID:          m.OrderID,
		Code:             m.Code,
		Name:             m.Name,
		Description:      m.Description,
		PromoAmount:      m.PromoAmount,
		MexFundedRatio:   m.MexFundedRatio,
		MexFundedAmount:  m.MexFundedAmount,
		TargetedPrice:    m.TargetedPrice,
		PromoAmountInMin: m.PromoAmountInMin,
	}
}

// DeliveryOrderPromoModelFromDomain builds a promo row
func DeliveryOrderPromoModelFromDomain(p *order.Promo) *DeliveryOrderPromoModel {
	m := &DeliveryOrderPromoModel{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Code:             p.Code,
		Name:             p.Name,
		Description:      p.Description,
		PromoAmount:      p.PromoAmount,
		MexFundedRatio:   p.MexFundedRatio,
		MexFundedAmount:  p.MexFundedAmount,
		TargetedPrice:    p.TargetedPrice,
		PromoAmountInMin: p.PromoAmountInMin,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return m
}
