package integration

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/grabfood/internal/domain/catalog"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleMenu() *catalog.Menu {
	latte := catalog.Item{
		ID:           11,
		Name:         "Latte",
		ExternalCode: "LATTE-01",
		Sequence:     2,
		Description:  "<p>Great <b>milk tea</b></p>",
		Price:        decimal.NewNullDecimal(dec("4.50")),
		ModifierGroups: []catalog.ModifierGroup{{
			ID:                3,
			Name:              "Milk",
			SelectionRangeMin: intPtr(2),
			SelectionRangeMax: intPtr(1),
			Modifiers: []catalog.Modifier{
				{ID: 31, Name: "Oat", Price: dec("0.80")},
				{ID: 32, Name: "Soy", Code: "SOY", Price: dec("0.5"), AvailableStatus: "unavailable"},
			},
		}},
	}
	cake := catalog.Item{
		ID:              12,
		AvailableStatus: "Unavailable_Today",
		Product:         &catalog.Product{ID: 40, Name: "Cheesecake", ListPrice: dec("6"), TaxRate: dec("9")},
	}
	drinks := catalog.Category{ID: 1, Name: "Drinks", Items: []catalog.Item{latte, latte}}
	desserts := catalog.Category{ID: 2, Name: "Desserts", AvailableStatus: "hide", Items: []catalog.Item{cake}}
	return &catalog.Menu{
		MerchantID:        "M-1",
		PartnerMerchantID: "P-1",
		Sections: []catalog.Section{
			{ID: 1, Categories: []catalog.Category{drinks, desserts}},
			{ID: 2, Categories: []catalog.Category{drinks}},
		},
	}
}

func TestMenuBuilder_Build(t *testing.T) {
	b := NewMenuBuilder(MenuBuilderConfig{})
	doc, issues := b.Build(sampleMenu(), BuildInput{PartnerMerchantID: "P-override"})
	assert.Empty(t, issues)

	assert.Equal(t, "M-1", doc.MerchantID)
	assert.Equal(t, "P-override", doc.PartnerMerchantID)
	assert.Equal(t, "SGD", doc.Currency.Code)
	assert.Equal(t, int32(2), doc.Currency.Exponent)
	require.Len(t, doc.SellingTimes, 1)
	assert.Len(t, doc.SellingTimes[0].ServiceHours, 7)

	require.Len(t, doc.Categories, 2, "category shared by two sections is emitted once")
	drinks := doc.Categories[0]
	assert.Equal(t, "CATEGORY-1", drinks.ID)
	assert.Equal(t, AllDaySellingTimeID, drinks.SellingTimeID)
	require.Len(t, drinks.Items, 1, "duplicate item is emitted once")

	latte := drinks.Items[0]
	assert.Equal(t, "LATTE-01", latte.ID)
	assert.Equal(t, int64(450), latte.Price)
	assert.Equal(t, "Great milk tea", latte.Description)
	assert.Equal(t, StatusAvailable, latte.AvailableStatus)
	assert.Equal(t, []string{}, latte.Photos)

	require.Len(t, latte.ModifierGroups, 1)
	group := latte.ModifierGroups[0]
	assert.Equal(t, "MG-3", group.ID)
	assert.Equal(t, 2, group.SelectionRangeMin)
	assert.Equal(t, 2, group.SelectionRangeMax)
	require.Len(t, group.Modifiers, 2)
	assert.Equal(t, "MODI-31", group.Modifiers[0].ID)
	assert.Equal(t, int64(80), group.Modifiers[0].Price)
	assert.Equal(t, "SOY", group.Modifiers[1].ID)
	assert.Equal(t, StatusUnavailable, group.Modifiers[1].AvailableStatus)

	desserts := doc.Categories[1]
	assert.Equal(t, StatusHide, desserts.AvailableStatus)
	cake := desserts.Items[0]
	assert.Equal(t, "ITEM-12", cake.ID)
	assert.Equal(t, "Cheesecake", cake.Name)
	assert.Equal(t, int64(600), cake.Price)
	assert.Equal(t, StatusUnavailableToday, cake.AvailableStatus)
	assert.Equal(t, 2, doc.ItemCount())
}

func TestMenuBuilder_PriceTaxIncluded(t *testing.T) {
	b := NewMenuBuilder(MenuBuilderConfig{PriceTaxIncluded: true})
	doc, _ := b.Build(sampleMenu(), BuildInput{})
	assert.Equal(t, int64(654), doc.Categories[1].Items[0].Price)
}

func TestMenuBuilder_GrabPrice(t *testing.T) {
	menu := &catalog.Menu{Sections: []catalog.Section{{Categories: []catalog.Category{{
		ID: 1,
		Items: []catalog.Item{{
			ID:           1,
			Name:         "Kopi",
			UseGrabPrice: true,
			GrabPrice:    dec("2.00"),
			GSTRate:      decimal.NewNullDecimal(dec("9")),
			Price:        decimal.NewNullDecimal(dec("1.50")),
		}},
	}}}}}
	doc, _ := NewMenuBuilder(MenuBuilderConfig{}).Build(menu, BuildInput{})
	assert.Equal(t, int64(218), doc.Categories[0].Items[0].Price)

	menu.Sections[0].Categories[0].Items[0].GSTRate = decimal.NewNullDecimal(decimal.Zero)
	doc, _ = NewMenuBuilder(MenuBuilderConfig{}).Build(menu, BuildInput{})
	assert.Equal(t, int64(200), doc.Categories[0].Items[0].Price, "zero GST adds nothing")
}

func TestMenuBuilder_EmptyMenuPlaceholder(t *testing.T) {
	b := NewMenuBuilder(MenuBuilderConfig{BaseURL: "https://shop.example.com"})

	t.Run("with published product", func(t *testing.T) {
		product := &catalog.Product{ID: 8, Name: "House Blend", ListPrice: dec("3.20"), Images: catalog.ImageSet{Has512: true}}
		doc, issues := b.Build(&catalog.Menu{}, BuildInput{MerchantID: "M-9", Placeholder: product})
		assert.Empty(t, issues)
		require.Len(t, doc.Categories, 1)
		cat := doc.Categories[0]
		assert.Equal(t, PlaceholderCategoryID, cat.ID)
		require.Len(t, cat.Items, 1)
		item := cat.Items[0]
		assert.Equal(t, PlaceholderItemID, item.ID)
		assert.Equal(t, "House Blend", item.Name)
		assert.Equal(t, int64(320), item.Price)
		assert.NotEmpty(t, item.ImageURL)
		assert.Equal(t, []string{item.ImageURL}, item.Photos)
	})

	t.Run("without any product", func(t *testing.T) {
		doc, _ := b.Build(&catalog.Menu{}, BuildInput{})
		require.Len(t, doc.Categories, 1)
		require.Len(t, doc.Categories[0].Items, 1)
		assert.Equal(t, PlaceholderItemName, doc.Categories[0].Items[0].Name)
		assert.Equal(t, int64(100), doc.Categories[0].Items[0].Price)
	})
}

func TestMenuBuilder_DocumentShape(t *testing.T) {
	doc, _ := NewMenuBuilder(MenuBuilderConfig{}).Build(sampleMenu(), BuildInput{})
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"merchantID", "partnerMerchantID", "currency", "sellingTimes", "categories"} {
		assert.Contains(t, generic, key)
	}
	item := generic["categories"].([]any)[0].(map[string]any)["items"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "name", "price", "availableStatus", "imageUrl", "photos", "modifierGroups"} {
		assert.Contains(t, item, key)
	}
}
