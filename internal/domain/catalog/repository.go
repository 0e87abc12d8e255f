package catalog

import (
	"context"

	"github.com/erp/grabfood/internal/domain/shared"
)

// MenuRepository defines the interface for menu persistence.
// Lookups return shared.ErrNotFound when nothing matches.
type MenuRepository interface {
	// FindByID loads a menu with its full tree in display order
	FindByID(ctx context.Context, id int64) (*Menu, error)

	// FindByPartnerMerchantID loads the menu owned by a partner merchant ID
	FindByPartnerMerchantID(ctx context.Context, partnerMerchantID string) (*Menu, error)

	// FindByMerchantID loads the menu owned by a platform merchant ID
	FindByMerchantID(ctx context.Context, merchantID string) (*Menu, error)

	// FindFirst loads the menu with the lowest ID
	FindFirst(ctx context.Context) (*Menu, error)

	// FindAll lists menu headers without their trees
	FindAll(ctx context.Context, filter shared.Filter) ([]Menu, int64, error)

	// FindCategory loads one category with its items
	FindCategory(ctx context.Context, categoryID int64) (*Category, error)

	// Save creates or updates a menu header
	Save(ctx context.Context, menu *Menu) error
}

// ItemRepository defines the interface for menu item persistence
type ItemRepository interface {
	// FindByID loads an item with its product, attributes and modifier groups
	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindByIDs loads several items; unknown IDs are skipped
	FindByIDs(ctx context.Context, ids []int64) ([]Item, error)

	// FindByExternalCode finds the item whose stored external code equals code
	FindByExternalCode(ctx context.Context, code string) (*Item, error)

	// FindByVariantID finds the item wrapping a product variant
	FindByVariantID(ctx context.Context, variantID int64) (*Item, error)

	// FindByProductID finds the first item wrapping a product
	FindByProductID(ctx context.Context, productID int64) (*Item, error)

	// ExistsInCategory checks whether a category already holds an item for a product
	ExistsInCategory(ctx context.Context, categoryID, productID int64) (bool, error)

	// Create inserts a new item
	Create(ctx context.Context, item *Item) error

	// SavePricing stores the platform price fields of an item
	SavePricing(ctx context.Context, item *Item) error

	// ReplaceModifierGroups deletes an item's modifier groups and inserts groups in their place
	ReplaceModifierGroups(ctx context.Context, itemID int64, groups []ModifierGroup) error
}

// ProductRepository defines the interface for catalog product persistence
type ProductRepository interface {
	// FindByID loads a product with its variants and attribute lines
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindFirstPublished returns the first website-published product
	FindFirstPublished(ctx context.Context) (*Product, error)

	// FindVariantBySKU finds a variant by its SKU code
	FindVariantBySKU(ctx context.Context, sku string) (*Variant, error)

	// FindVariantByBarcode finds a variant by its barcode
	FindVariantByBarcode(ctx context.Context, barcode string) (*Variant, error)

	// FindSellableByCategory lists active, sellable products of a product category
	FindSellableByCategory(ctx context.Context, productCategoryID int64) ([]Product, error)

	// Save creates or updates a product with its variants and attribute lines
	Save(ctx context.Context, product *Product) error
}
