package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Exported identifier prefixes
const (
	CategoryIDPrefix      = "CATEGORY-"
	ItemIDPrefix          = "ITEM-"
	ModifierGroupIDPrefix = "MG-"
	ModifierIDPrefix      = "MODI-"
)

// DefaultGSTRate is the goods and services tax percentage applied to platform prices
var DefaultGSTRate = decimal.NewFromInt(7)

// Item is a sellable entry in a category, usually wrapping a catalog product
type Item struct {
	ID              int64
	CategoryID      int64
	ProductID       int64
	VariantID       *int64
	Product         *Product
	Name            string
	ExternalCode    string
	Sequence        int
	AvailableStatus string
	Description     string
	ImageURL        string
	// Price overrides the product list price when set
	Price     decimal.NullDecimal
	GrabPrice decimal.Decimal
	// GSTRate is unset when the item follows DefaultGSTRate; a valid zero means no GST
	GSTRate        decimal.NullDecimal
	UseGrabPrice   bool
	ModifierGroups []ModifierGroup
	UpdatedAt      time.Time
}

// ExportID is the stable identifier sent to the platform
func (i *Item) ExportID() string {
	if i.ExternalCode != "" {
		return i.ExternalCode
	}
	return fmt.Sprintf("%s%d", ItemIDPrefix, i.ID)
}

// DisplayName returns the item name, falling back to the product name
func (i *Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Product != nil {
		return i.Product.Name
	}
	return ""
}

// EffectiveGSTRate returns the configured GST rate or the default when none is set
func (i *Item) EffectiveGSTRate() decimal.Decimal {
	if !i.GSTRate.Valid {
		return DefaultGSTRate
	}
	return i.GSTRate.Decimal
}

// GrabPriceWithGST returns the platform base price with GST added.
// The base is the custom Grab price when enabled, otherwise the product list price.
func (i *Item) GrabPriceWithGST() decimal.Decimal {
	base := decimal.Zero
	if i.UseGrabPrice && !i.GrabPrice.IsZero() {
		base = i.GrabPrice
	} else if i.Product != nil {
		base = i.Product.ListPrice
	}
	rate := i.EffectiveGSTRate()
	return base.Add(base.Mul(rate).Div(decimal.NewFromInt(100)))
}

func (i *Item) sortModifiers() {
	sort.SliceStable(i.ModifierGroups, func(a, b int) bool {
		return i.ModifierGroups[a].ID < i.ModifierGroups[b].ID
	})
	for gi := range i.ModifierGroups {
		mods := i.ModifierGroups[gi].Modifiers
		sort.SliceStable(mods, func(a, b int) bool { return mods[a].ID < mods[b].ID })
	}
}

// ModifierGroup is a named set of add-ons for an item.
// SelectionRangeMin and SelectionRangeMax are nil when not configured.
type ModifierGroup struct {
	ID                int64
	ItemID            int64
	Name              string
	Code              string
	AvailableStatus   string
	SelectionRangeMin *int
	SelectionRangeMax *int
	Modifiers         []Modifier
}

// ExportID is the stable identifier sent to the platform
func (g *ModifierGroup) ExportID() string {
	if g.Code != "" {
		return g.Code
	}
	return fmt.Sprintf("%s%d", ModifierGroupIDPrefix, g.ID)
}

// Modifier is one selectable option of a modifier group
type Modifier struct {
	ID              int64
	GroupID         int64
	Name            string
	Code            string
	AvailableStatus string
	Price           decimal.Decimal
	Barcode         string
}

// ExportID is the stable identifier sent to the platform
func (m *Modifier) ExportID() string {
	if m.Code != "" {
		return m.Code
	}
	return fmt.Sprintf("%s%d", ModifierIDPrefix, m.ID)
}

// ExportID is the stable identifier of a category sent to the platform
func (c *Category) ExportID() string {
	return fmt.Sprintf("%s%d", CategoryIDPrefix, c.ID)
}
