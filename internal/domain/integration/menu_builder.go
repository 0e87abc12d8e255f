package integration

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erp/grabfood/internal/domain/catalog"
)

// MenuBuilderConfig holds the export options of the menu builder
type MenuBuilderConfig struct {
	// BaseURL is the public URL the catalog image endpoint is served from
	BaseURL string
	// ExternalImageField is tried first among the external image URL fields
	ExternalImageField string
	// PriceTaxIncluded makes product list prices include product tax
	PriceTaxIncluded bool
}

// BuildInput carries the per-request parts of an export
type BuildInput struct {
	// MerchantID and PartnerMerchantID override the menu's stored identifiers when set
	MerchantID        string
	PartnerMerchantID string
	// Placeholder is the published product used when the menu has no categories; may be nil
	Placeholder *catalog.Product
}

// BuildIssue describes a node that was defaulted or omitted during an export
type BuildIssue struct {
	NodeID  string
	Message string
}

func (i BuildIssue) String() string {
	return fmt.Sprintf("%s: %s", i.NodeID, i.Message)
}

// MenuBuilder turns a catalog tree into the platform's menu document.
// It never mutates the catalog and never fails as a whole; per-node faults are returned as issues.
type MenuBuilder struct {
	cfg    MenuBuilderConfig
	images *ImageResolver
}

// NewMenuBuilder creates a MenuBuilder
func NewMenuBuilder(cfg MenuBuilderConfig) *MenuBuilder {
	return &MenuBuilder{
		cfg:    cfg,
		images: NewImageResolver(cfg.BaseURL, cfg.ExternalImageField),
	}
}

// Build assembles the export document for a menu
func (b *MenuBuilder) Build(menu *catalog.Menu, in BuildInput) (*MenuDocument, []BuildIssue) {
	exponent := int32(menu.CurrencyExponent)
	if exponent <= 0 {
		exponent = DefaultCurrencyExponent
	}
	doc := &MenuDocument{
		MerchantID:        firstNonEmpty(in.MerchantID, menu.MerchantID),
		PartnerMerchantID: firstNonEmpty(in.PartnerMerchantID, menu.PartnerMerchantID),
		Currency: CurrencyDocument{
			Code:     firstNonEmpty(menu.CurrencyCode, catalog.DefaultCurrencyCode),
			Symbol:   firstNonEmpty(menu.CurrencySymbol, catalog.DefaultCurrencySymbol),
			Exponent: exponent,
		},
		SellingTimes: AllDaySellingTimes(),
	}

	var issues []BuildIssue
	doc.Categories = b.buildCategories(menu, exponent, &issues)
	if len(doc.Categories) == 0 {
		doc.Categories = []MenuCategory{b.placeholderCategory(in.Placeholder, exponent, &issues)}
	}
	return doc, issues
}

// buildCategories flattens sections into one category list, first occurrence wins
func (b *MenuBuilder) buildCategories(menu *catalog.Menu, exponent int32, issues *[]BuildIssue) []MenuCategory {
	categories := make([]MenuCategory, 0)
	seen := make(map[string]struct{})
	for si := range menu.Sections {
		for ci := range menu.Sections[si].Categories {
			cat := &menu.Sections[si].Categories[ci]
			id := cat.ExportID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			categories = append(categories, b.buildCategory(cat, exponent, issues))
		}
	}
	return categories
}

func (b *MenuBuilder) buildCategory(cat *catalog.Category, exponent int32, issues *[]BuildIssue) MenuCategory {
	out := MenuCategory{
		ID:              cat.ExportID(),
		Name:            cat.Name,
		Sequence:        catalog.EffectiveSequence(cat.Sequence),
		AvailableStatus: NormalizeStatus(cat.AvailableStatus, StatusAvailable),
		SellingTimeID:   AllDaySellingTimeID,
		Items:           make([]MenuItem, 0, len(cat.Items)),
	}
	seen := make(map[string]struct{})
	for ii := range cat.Items {
		item := &cat.Items[ii]
		id := item.ExportID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if built, ok := b.safeBuildItem(item, exponent, issues); ok {
			out.Items = append(out.Items, built)
		}
	}
	return out
}

// safeBuildItem omits an item whose transformation panics instead of failing the export
func (b *MenuBuilder) safeBuildItem(item *catalog.Item, exponent int32, issues *[]BuildIssue) (built MenuItem, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			*issues = append(*issues, BuildIssue{NodeID: item.ExportID(), Message: fmt.Sprintf("item omitted: %v", r)})
			built, ok = MenuItem{}, false
		}
	}()
	return b.buildItem(item, exponent, issues), true
}

func (b *MenuBuilder) buildItem(item *catalog.Item, exponent int32, issues *[]BuildIssue) MenuItem {
	id := item.ExportID()
	name := item.DisplayName()
	if name == "" {
		name = UnnamedItem
	}

	price, err := ToMinorUnits(b.itemPrice(item), exponent)
	if err != nil {
		*issues = append(*issues, BuildIssue{NodeID: id, Message: "price defaulted to 0: " + err.Error()})
	}

	var fallbacks []string
	if item.Product != nil {
		fallbacks = item.Product.DescriptionCandidates()
	}
	image := b.images.ItemImage(item)

	return MenuItem{
		ID:              id,
		Name:            name,
		Sequence:        catalog.EffectiveSequence(item.Sequence),
		AvailableStatus: NormalizeStatus(item.AvailableStatus, StatusAvailable),
		Price:           price,
		Description:     SanitizeDescription(item.Description, fallbacks...),
		ImageURL:        image,
		Photos:          photoList(image),
		ModifierGroups:  b.buildModifierGroups(item, exponent, issues),
	}
}

// itemPrice picks the major-unit price: platform price with GST, then the item override,
// then the product list price.
func (b *MenuBuilder) itemPrice(item *catalog.Item) decimal.Decimal {
	if item.UseGrabPrice {
		return item.GrabPriceWithGST()
	}
	if item.Price.Valid {
		return item.Price.Decimal
	}
	if item.Product != nil {
		if b.cfg.PriceTaxIncluded {
			return item.Product.PriceWithTax()
		}
		return item.Product.ListPrice
	}
	return decimal.Zero
}

func (b *MenuBuilder) buildModifierGroups(item *catalog.Item, exponent int32, issues *[]BuildIssue) []MenuModifierGroup {
	groups := make([]MenuModifierGroup, 0, len(item.ModifierGroups))
	for gi := range item.ModifierGroups {
		g := &item.ModifierGroups[gi]
		minSel, maxSel := DeriveSelectionRange(g.SelectionRangeMin, g.SelectionRangeMax, len(g.Modifiers))
		out := MenuModifierGroup{
			ID:                g.ExportID(),
			Name:              g.Name,
			SelectionRangeMin: minSel,
			SelectionRangeMax: maxSel,
			AvailableStatus:   NormalizeStatus(g.AvailableStatus, StatusAvailable),
			Modifiers:         make([]MenuModifier, 0, len(g.Modifiers)),
		}
		for mi := range g.Modifiers {
			m := &g.Modifiers[mi]
			price, err := ToMinorUnits(m.Price, exponent)
			if err != nil {
				*issues = append(*issues, BuildIssue{NodeID: m.ExportID(), Message: "price defaulted to 0: " + err.Error()})
			}
			out.Modifiers = append(out.Modifiers, MenuModifier{
				ID:              m.ExportID(),
				Name:            m.Name,
				Price:           price,
				AvailableStatus: NormalizeStatus(m.AvailableStatus, StatusAvailable),
			})
		}
		groups = append(groups, out)
	}
	return groups
}

// placeholderCategory keeps an empty menu valid with one item drawn from a published product
func (b *MenuBuilder) placeholderCategory(p *catalog.Product, exponent int32, issues *[]BuildIssue) MenuCategory {
	name := PlaceholderItemName
	amount := decimal.NewFromInt(1)
	image := ""
	if p != nil {
		if p.Name != "" {
			name = p.Name
		}
		amount = p.ListPrice
		image = b.images.ProductImage(p)
	}
	price, err := ToMinorUnits(amount, exponent)
	if err != nil {
		*issues = append(*issues, BuildIssue{NodeID: PlaceholderItemID, Message: "price defaulted to 0: " + err.Error()})
	}
	return MenuCategory{
		ID:              PlaceholderCategoryID,
		Name:            PlaceholderCategoryName,
		Sequence:        1,
		AvailableStatus: StatusAvailable,
		SellingTimeID:   AllDaySellingTimeID,
		Items: []MenuItem{{
			ID:              PlaceholderItemID,
			Name:            name,
			Sequence:        1,
			AvailableStatus: StatusAvailable,
			Price:           price,
			Description:     PlaceholderDescription,
			ImageURL:        image,
			Photos:          photoList(image),
			ModifierGroups:  []MenuModifierGroup{},
		}},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
