package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricedItems() []catalog.Item {
	return []catalog.Item{
		{ID: 1, Name: "Latte", Product: &catalog.Product{ID: 10, Name: "Latte", ListPrice: dec("10")}},
		{ID: 2, Name: "Orphan"},
	}
}

func TestPricingService_Preview(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		req      PricePlanRequest
		newPrice string
		final    string
	}{
		{"default markup", PricePlanRequest{ItemIDs: []int64{1, 2}}, "12", "12.84"},
		{"copy", PricePlanRequest{ItemIDs: []int64{1, 2}, Strategy: "copy"}, "10", "10.7"},
		{"custom base with GST", PricePlanRequest{ItemIDs: []int64{1, 2}, Strategy: "custom", CustomBasePrice: dec("8"), GSTRate: decimal.NewNullDecimal(dec("9"))}, "8", "8.72"},
		{"custom base without GST", PricePlanRequest{ItemIDs: []int64{1, 2}, Strategy: "custom", CustomBasePrice: dec("8"), GSTRate: decimal.NewNullDecimal(decimal.Zero)}, "8", "8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := new(MockItemRepository)
			items.On("FindByIDs", ctx, []int64{1, 2}).Return(pricedItems(), nil)
			svc := NewPricingService(items, zap.NewNop())

			resp, err := svc.Preview(ctx, tt.req)
			require.NoError(t, err)
			require.Len(t, resp.Quotes, 1)
			assert.True(t, dec(tt.newPrice).Equal(resp.Quotes[0].NewGrabPrice), "got %s", resp.Quotes[0].NewGrabPrice)
			assert.True(t, dec(tt.final).Equal(resp.Quotes[0].FinalPrice), "got %s", resp.Quotes[0].FinalPrice)
			assert.Equal(t, []int64{2}, resp.Skipped)
			items.AssertNotCalled(t, "SavePricing", mock.Anything, mock.Anything)
		})
	}

	t.Run("unknown strategy", func(t *testing.T) {
		svc := NewPricingService(new(MockItemRepository), zap.NewNop())
		_, err := svc.Preview(ctx, PricePlanRequest{ItemIDs: []int64{1}, Strategy: "double"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_PRICE_PLAN", domainErr.Code)
	})
}

func TestPricingService_Apply(t *testing.T) {
	ctx := context.Background()
	items := new(MockItemRepository)
	items.On("FindByIDs", ctx, []int64{1, 2}).Return(pricedItems(), nil)
	items.On("SavePricing", ctx, mock.MatchedBy(func(i *catalog.Item) bool {
		return i.ID == 1 && i.UseGrabPrice && i.GrabPrice.Equal(dec("12")) && i.GSTRate.Valid && i.GSTRate.Decimal.Equal(dec("7"))
	})).Return(nil)

	resp, err := NewPricingService(items, zap.NewNop()).Apply(ctx, PricePlanRequest{ItemIDs: []int64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, []int64{2}, resp.Skipped)
	items.AssertExpectations(t)
}

func TestModifierSyncService_Sync(t *testing.T) {
	ctx := context.Background()
	items := new(MockItemRepository)
	items.On("FindByIDs", ctx, []int64{5, 6}).Return([]catalog.Item{
		{ID: 5, Product: &catalog.Product{ID: 50, AttributeLines: []catalog.AttributeLine{
			{AttributeID: 3, AttributeName: "Size", Values: []catalog.AttributeValue{
				{ID: 31, Name: "Large", PriceExtra: dec("1")},
				{ID: 32, Name: "Small"},
			}},
		}}},
		{ID: 6},
	}, nil)
	items.On("ReplaceModifierGroups", ctx, int64(5), mock.MatchedBy(func(groups []catalog.ModifierGroup) bool {
		return len(groups) == 1 && groups[0].Code == "5_3" && groups[0].Modifiers[0].Code == "5_3_31"
	})).Return(nil)

	resp, err := NewModifierSyncService(items, zap.NewNop()).Sync(ctx, []int64{5, 6})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Items)
	assert.Equal(t, 1, resp.Groups)
	assert.Equal(t, 2, resp.Modifiers)
	items.AssertNumberOfCalls(t, "ReplaceModifierGroups", 1)
}

func TestCategorySyncService_Sync(t *testing.T) {
	ctx := context.Background()
	productCategory := int64(9)

	t.Run("creates items for missing products", func(t *testing.T) {
		menus := new(MockMenuRepository)
		items := new(MockItemRepository)
		products := new(MockProductRepository)
		menus.On("FindCategory", ctx, int64(1)).Return(&catalog.Category{
			ID:                1,
			ProductCategoryID: &productCategory,
			Items:             []catalog.Item{{ID: 100, ProductID: 10}},
		}, nil)
		products.On("FindSellableByCategory", ctx, productCategory).Return([]catalog.Product{
			{ID: 10, Name: "Latte"},
			{ID: 11, Name: "Mocha"},
		}, nil)
		items.On("ExistsInCategory", ctx, int64(1), int64(10)).Return(true, nil)
		items.On("ExistsInCategory", ctx, int64(1), int64(11)).Return(false, nil)
		items.On("Create", ctx, mock.MatchedBy(func(i *catalog.Item) bool {
			return i.ProductID == 11 && i.Name == "Mocha" && i.Sequence == 2
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*catalog.Item).ID = 101
		}).Return(nil)

		resp, err := NewCategorySyncService(menus, items, products, zap.NewNop()).Sync(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{101}, resp.Created)
		assert.Equal(t, 1, resp.Skipped)
	})

	t.Run("category without product category", func(t *testing.T) {
		menus := new(MockMenuRepository)
		menus.On("FindCategory", ctx, int64(2)).Return(&catalog.Category{ID: 2}, nil)

		_, err := NewCategorySyncService(menus, new(MockItemRepository), new(MockProductRepository), zap.NewNop()).Sync(ctx, 2)
		require.Error(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		menus := new(MockMenuRepository)
		menus.On("FindCategory", ctx, int64(3)).Return(nil, shared.ErrNotFound)

		_, err := NewCategorySyncService(menus, new(MockItemRepository), new(MockProductRepository), zap.NewNop()).Sync(ctx, 3)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
