package persistence

import (
	"context"
	"errors"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/domain/shared"
)

// CatalogLookup adapts the catalog repositories to the lookups used when matching order lines.
// A missing record yields nil without error.
type CatalogLookup struct {
	items    catalog.ItemRepository
	products catalog.ProductRepository
}

// NewCatalogLookup creates a CatalogLookup
func NewCatalogLookup(items catalog.ItemRepository, products catalog.ProductRepository) *CatalogLookup {
	return &CatalogLookup{items: items, products: products}
}

var _ order.CatalogLookup = (*CatalogLookup)(nil)

func itemRef(item *catalog.Item, err error) (*order.ItemRef, error) {
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order.ItemRef{ID: item.ID, Name: item.DisplayName(), ExternalCode: item.ExternalCode}, nil
}

func variantRef(v *catalog.Variant, err error) (*order.VariantRef, error) {
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order.VariantRef{ID: v.ID, ProductID: v.ProductID}, nil
}

// ItemByExternalCode finds an item by its stored external code
func (l *CatalogLookup) ItemByExternalCode(ctx context.Context, code string) (*order.ItemRef, error) {
	return itemRef(l.items.FindByExternalCode(ctx, code))
}

// ItemByID finds an item by ID
func (l *CatalogLookup) ItemByID(ctx context.Context, id int64) (*order.ItemRef, error) {
	return itemRef(l.items.FindByID(ctx, id))
}

// VariantBySKU finds a variant by SKU
func (l *CatalogLookup) VariantBySKU(ctx context.Context, sku string) (*order.VariantRef, error) {
	return variantRef(l.products.FindVariantBySKU(ctx, sku))
}

// VariantByBarcode finds a variant by barcode
func (l *CatalogLookup) VariantByBarcode(ctx context.Context, barcode string) (*order.VariantRef, error) {
	return variantRef(l.products.FindVariantByBarcode(ctx, barcode))
}

// ItemByVariant finds the item wrapping a variant
func (l *CatalogLookup) ItemByVariant(ctx context.Context, variantID int64) (*order.ItemRef, error) {
	return itemRef(l.items.FindByVariantID(ctx, variantID))
}

// ItemByProduct finds the first item wrapping a product
func (l *CatalogLookup) ItemByProduct(ctx context.Context, productID int64) (*order.ItemRef, error) {
	return itemRef(l.items.FindByProductID(ctx, productID))
}
