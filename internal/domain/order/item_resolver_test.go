package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalogLookup struct {
	mock.Mock
}

func (m *mockCatalogLookup) ItemByExternalCode(ctx context.Context, code string) (*ItemRef, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemRef), args.Error(1)
}

func (m *mockCatalogLookup) ItemByID(ctx context.Context, id int64) (*ItemRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemRef), args.Error(1)
}

func (m *mockCatalogLookup) VariantBySKU(ctx context.Context, sku string) (*VariantRef, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VariantRef), args.Error(1)
}

func (m *mockCatalogLookup) VariantByBarcode(ctx context.Context, barcode string) (*VariantRef, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VariantRef), args.Error(1)
}

func (m *mockCatalogLookup) ItemByVariant(ctx context.Context, variantID int64) (*ItemRef, error) {
	args := m.Called(ctx, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemRef), args.Error(1)
}

func (m *mockCatalogLookup) ItemByProduct(ctx context.Context, productID int64) (*ItemRef, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemRef), args.Error(1)
}

func TestItemResolver_ExternalCode(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, "LATTE-01").Return(&ItemRef{ID: 7, Name: "Latte", ExternalCode: "LATTE-01"}, nil)

	res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "  LATTE-01 "})
	require.NoError(t, err)
	assert.Equal(t, ResolvedByExternalCode, res.Step)
	assert.Equal(t, int64(7), res.Item.ID)
	assert.Equal(t, "Latte", res.Name)
	lookup.AssertExpectations(t)
}

func TestItemResolver_PlatformID(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, "UNKNOWN").Return(nil, nil)
	lookup.On("ItemByExternalCode", ctx, "GRAB-9").Return(&ItemRef{ID: 9, Name: "Mocha"}, nil)

	res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "UNKNOWN", GrabItemID: "GRAB-9", Name: "Mocha Large"})
	require.NoError(t, err)
	assert.Equal(t, ResolvedByPlatformID, res.Step)
	assert.Equal(t, int64(9), res.Item.ID)
	assert.Equal(t, "Mocha", res.Name, "catalog name wins over the payload name")
}

func TestItemResolver_UnnamedCatalogItemKeepsPayloadName(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, "LATTE-01").Return(&ItemRef{ID: 7, ExternalCode: "LATTE-01"}, nil)

	res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "LATTE-01", ItemName: "Hot Latte"})
	require.NoError(t, err)
	assert.Equal(t, ResolvedByExternalCode, res.Step)
	assert.Equal(t, "Hot Latte", res.Name)
}

func TestItemResolver_FullWidthCodeIsNormalized(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, "ABC12").Return(&ItemRef{ID: 3, Name: "Tea"}, nil)

	res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "ＡＢＣ１２"})
	require.NoError(t, err)
	assert.Equal(t, ResolvedByExternalCode, res.Step)
}

func TestItemResolver_SKUWinsOverExportID(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, "ITEM-42").Return(nil, nil)
	lookup.On("VariantBySKU", ctx, "ITEM-42").Return(&VariantRef{ID: 100, ProductID: 55}, nil)
	lookup.On("ItemByVariant", ctx, int64(100)).Return(&ItemRef{ID: 8, Name: "Variant Item"}, nil)

	res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "ITEM-42"})
	require.NoError(t, err)
	assert.Equal(t, ResolvedByVariantSKU, res.Step)
	assert.Equal(t, int64(8), res.Item.ID)
	lookup.AssertNotCalled(t, "ItemByID", mock.Anything, mock.Anything)
}

func TestItemResolver_SKUFallsBackToProductItem(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, "SKU-1").Return(nil, nil)
	lookup.On("VariantBySKU", ctx, "SKU-1").Return(&VariantRef{ID: 100, ProductID: 55}, nil)
	lookup.On("ItemByVariant", ctx, int64(100)).Return(nil, nil)
	lookup.On("ItemByProduct", ctx, int64(55)).Return(&ItemRef{ID: 12, Name: "Product Item"}, nil)

	res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "SKU-1"})
	require.NoError(t, err)
	assert.Equal(t, ResolvedByVariantSKU, res.Step)
	assert.Equal(t, int64(12), res.Item.ID)
}

func TestItemResolver_Barcode(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, "X").Return(nil, nil)
	lookup.On("VariantBySKU", ctx, "X").Return(nil, nil)
	lookup.On("VariantByBarcode", ctx, "8888").Return(&VariantRef{ID: 5, ProductID: 6}, nil)
	lookup.On("ItemByVariant", ctx, int64(5)).Return(&ItemRef{ID: 21, Name: "Scanned"}, nil)

	res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "X", Barcode: "8888"})
	require.NoError(t, err)
	assert.Equal(t, ResolvedByBarcode, res.Step)
	assert.Equal(t, int64(21), res.Item.ID)
}

func TestItemResolver_ExportID(t *testing.T) {
	ctx := context.Background()

	t.Run("matches item without own code", func(t *testing.T) {
		lookup := new(mockCatalogLookup)
		lookup.On("ItemByExternalCode", ctx, "ITEM-42").Return(nil, nil)
		lookup.On("VariantBySKU", ctx, "ITEM-42").Return(nil, nil)
		lookup.On("ItemByID", ctx, int64(42)).Return(&ItemRef{ID: 42, Name: "Plain"}, nil)

		res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "ITEM-42"})
		require.NoError(t, err)
		assert.Equal(t, ResolvedByExportID, res.Step)
		assert.Equal(t, int64(42), res.Item.ID)
	})

	t.Run("ignores item that exports under its own code", func(t *testing.T) {
		lookup := new(mockCatalogLookup)
		lookup.On("ItemByExternalCode", ctx, "ITEM-42").Return(nil, nil)
		lookup.On("VariantBySKU", ctx, "ITEM-42").Return(nil, nil)
		lookup.On("ItemByID", ctx, int64(42)).Return(&ItemRef{ID: 42, Name: "Coded", ExternalCode: "COFFEE"}, nil)

		res, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "ITEM-42"})
		require.NoError(t, err)
		assert.Equal(t, Unresolved, res.Step)
		assert.Nil(t, res.Item)
		assert.Equal(t, "ITEM-42", res.Name)
	})
}

func TestItemResolver_Unresolved(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	lookup.On("ItemByExternalCode", ctx, mock.Anything).Return(nil, nil)
	lookup.On("VariantBySKU", ctx, mock.Anything).Return(nil, nil)

	tests := []struct {
		name     string
		line     ItemPayload
		expected string
	}{
		{"payload name wins", ItemPayload{ID: "A", Name: "Iced Tea", ItemName: "Tea"}, "Iced Tea"},
		{"item name when name empty", ItemPayload{ID: "A", ItemName: "Tea"}, "Tea"},
		{"code when no names", ItemPayload{ID: "A"}, "A"},
		{"platform ID when no code", ItemPayload{GrabItemID: "G-1"}, "G-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewItemResolver(lookup).Resolve(ctx, tt.line)
			require.NoError(t, err)
			assert.Equal(t, Unresolved, res.Step)
			assert.Equal(t, tt.expected, res.Name)
		})
	}
}

func TestItemResolver_LookupError(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockCatalogLookup)
	boom := errors.New("connection reset")
	lookup.On("ItemByExternalCode", ctx, "A").Return(nil, boom)

	_, err := NewItemResolver(lookup).Resolve(ctx, ItemPayload{ID: "A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
