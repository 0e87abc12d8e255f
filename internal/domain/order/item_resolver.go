package order

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ResolutionStep names the strategy that linked an order line to a catalog item
type ResolutionStep string

const (
	ResolvedByExternalCode ResolutionStep = "EXTERNAL_CODE"
	ResolvedByPlatformID   ResolutionStep = "PLATFORM_ID"
	ResolvedByVariantSKU   ResolutionStep = "VARIANT_SKU"
	ResolvedByBarcode      ResolutionStep = "VARIANT_BARCODE"
	ResolvedByExportID     ResolutionStep = "EXPORT_ID"
	Unresolved             ResolutionStep = "UNRESOLVED"
)

// ItemRef identifies a catalog item
type ItemRef struct {
	ID           int64
	Name         string
	ExternalCode string
}

// VariantRef identifies a product variant and its product
type VariantRef struct {
	ID        int64
	ProductID int64
}

// CatalogLookup is the read side of the catalog used to match order lines.
// Every method returns nil and no error when nothing matches.
type CatalogLookup interface {
	ItemByExternalCode(ctx context.Context, code string) (*ItemRef, error)
	ItemByID(ctx context.Context, id int64) (*ItemRef, error)
	VariantBySKU(ctx context.Context, sku string) (*VariantRef, error)
	VariantByBarcode(ctx context.Context, barcode string) (*VariantRef, error)
	ItemByVariant(ctx context.Context, variantID int64) (*ItemRef, error)
	ItemByProduct(ctx context.Context, productID int64) (*ItemRef, error)
}

// Resolution is the outcome of matching one order line
type Resolution struct {
	Item *ItemRef
	Step ResolutionStep
	// Name is the display name for the line
	Name string
}

var exportIDPattern = regexp.MustCompile(`(?i)^ITEM-(\d+)$`)

// ItemResolver matches order lines against the catalog
type ItemResolver struct {
	lookup CatalogLookup
}

// NewItemResolver creates an ItemResolver
func NewItemResolver(lookup CatalogLookup) *ItemResolver {
	return &ItemResolver{lookup: lookup}
}

// NormalizeCode applies NFKC normalization and trims surrounding whitespace
func NormalizeCode(code string) string {
	return strings.TrimSpace(norm.NFKC.String(code))
}

// Resolve finds the catalog item for a line, first match wins:
// stored external code by code, then by platform item ID; a variant by SKU (code, then
// platform ID) or by barcode, mapped to the item wrapping the variant or its product;
// finally the derived ITEM-<id> export ID of an item without its own code.
// A line that matches nothing resolves to Unresolved with a display name from the payload.
func (r *ItemResolver) Resolve(ctx context.Context, line ItemPayload) (Resolution, error) {
	code := NormalizeCode(line.ID)
	platformID := NormalizeCode(line.GrabItemID)
	barcode := NormalizeCode(line.Barcode)

	steps := []struct {
		step ResolutionStep
		find func() (*ItemRef, error)
	}{
		{ResolvedByExternalCode, func() (*ItemRef, error) { return r.byExternalCode(ctx, code) }},
		{ResolvedByPlatformID, func() (*ItemRef, error) { return r.byExternalCode(ctx, platformID) }},
		{ResolvedByVariantSKU, func() (*ItemRef, error) { return r.bySKU(ctx, code, platformID) }},
		{ResolvedByBarcode, func() (*ItemRef, error) { return r.byBarcode(ctx, barcode) }},
		{ResolvedByExportID, func() (*ItemRef, error) { return r.byExportID(ctx, code, platformID) }},
	}
	for _, s := range steps {
		item, err := s.find()
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve line %q by %s: %w", code, s.step, err)
		}
		if item != nil {
			return Resolution{Item: item, Step: s.step, Name: lineName(line, item.Name, code)}, nil
		}
	}
	return Resolution{Step: Unresolved, Name: lineName(line, "", firstNonEmpty(code, platformID))}, nil
}

func (r *ItemResolver) byExternalCode(ctx context.Context, code string) (*ItemRef, error) {
	if code == "" {
		return nil, nil
	}
	return r.lookup.ItemByExternalCode(ctx, code)
}

func (r *ItemResolver) bySKU(ctx context.Context, candidates ...string) (*ItemRef, error) {
	for _, sku := range candidates {
		if sku == "" {
			continue
		}
		v, err := r.lookup.VariantBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		item, err := r.itemForVariant(ctx, v)
		if err != nil || item != nil {
			return item, err
		}
	}
	return nil, nil
}

func (r *ItemResolver) byBarcode(ctx context.Context, barcode string) (*ItemRef, error) {
	if barcode == "" {
		return nil, nil
	}
	v, err := r.lookup.VariantByBarcode(ctx, barcode)
	if err != nil || v == nil {
		return nil, err
	}
	return r.itemForVariant(ctx, v)
}

// itemForVariant prefers the item wrapping the variant, then any item wrapping its product
func (r *ItemResolver) itemForVariant(ctx context.Context, v *VariantRef) (*ItemRef, error) {
	item, err := r.lookup.ItemByVariant(ctx, v.ID)
	if err != nil || item != nil {
		return item, err
	}
	if v.ProductID == 0 {
		return nil, nil
	}
	return r.lookup.ItemByProduct(ctx, v.ProductID)
}

// byExportID matches ITEM-<id> against items that export under their derived ID
func (r *ItemResolver) byExportID(ctx context.Context, candidates ...string) (*ItemRef, error) {
	for _, c := range candidates {
		m := exportIDPattern.FindStringSubmatch(c)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		item, err := r.lookup.ItemByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item != nil && item.ExternalCode == "" {
			return item, nil
		}
	}
	return nil, nil
}

// lineName prefers the matched catalog item's name; payload names only stand in when
// nothing matched or the catalog item is unnamed.
func lineName(line ItemPayload, catalogName, fallback string) string {
	return firstNonEmpty(strings.TrimSpace(catalogName), strings.TrimSpace(line.Name), strings.TrimSpace(line.ItemName), fallback)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
