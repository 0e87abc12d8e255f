package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/shared"
)

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) item(args mock.Arguments) (*catalog.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id int64) (*catalog.Item, error) {
	return m.item(m.Called(ctx, id))
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByExternalCode(ctx context.Context, code string) (*catalog.Item, error) {
	return m.item(m.Called(ctx, code))
}

func (m *MockItemRepository) FindByVariantID(ctx context.Context, variantID int64) (*catalog.Item, error) {
	return m.item(m.Called(ctx, variantID))
}

func (m *MockItemRepository) FindByProductID(ctx context.Context, productID int64) (*catalog.Item, error) {
	return m.item(m.Called(ctx, productID))
}

func (m *MockItemRepository) ExistsInCategory(ctx context.Context, categoryID, productID int64) (bool, error) {
	args := m.Called(ctx, categoryID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SavePricing(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) ReplaceModifierGroups(ctx context.Context, itemID int64, groups []catalog.ModifierGroup) error {
	return m.Called(ctx, itemID, groups).Error(0)
}

// MockMenuRepository is a mock implementation of catalog.MenuRepository
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) menu(args mock.Arguments) (*catalog.Menu, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Menu), args.Error(1)
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id int64) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx, id))
}

func (m *MockMenuRepository) FindByPartnerMerchantID(ctx context.Context, partnerMerchantID string) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx, partnerMerchantID))
}

func (m *MockMenuRepository) FindByMerchantID(ctx context.Context, merchantID string) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx, merchantID))
}

func (m *MockMenuRepository) FindFirst(ctx context.Context) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx))
}

func (m *MockMenuRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Menu, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Menu), args.Get(1).(int64), args.Error(2)
}

func (m *MockMenuRepository) FindCategory(ctx context.Context, categoryID int64) (*catalog.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockMenuRepository) Save(ctx context.Context, menu *catalog.Menu) error {
	return m.Called(ctx, menu).Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFirstPublished(ctx context.Context) (*catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindVariantBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockProductRepository) FindVariantByBarcode(ctx context.Context, barcode string) (*catalog.Variant, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockProductRepository) FindSellableByCategory(ctx context.Context, productCategoryID int64) ([]catalog.Product, error) {
	args := m.Called(ctx, productCategoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}
