package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rate(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestItem_GrabPriceWithGST(t *testing.T) {
	product := &Product{ListPrice: dec("10.00")}

	t.Run("uses list price when platform price disabled", func(t *testing.T) {
		item := &Item{Product: product, GrabPrice: dec("12.00")}
		assert.True(t, dec("10.70").Equal(item.GrabPriceWithGST()))
	})

	t.Run("uses platform price when enabled", func(t *testing.T) {
		item := &Item{Product: product, GrabPrice: dec("12.00"), UseGrabPrice: true, GSTRate: rate("9")}
		assert.True(t, dec("13.08").Equal(item.GrabPriceWithGST()))
	})

	t.Run("zero platform price falls back to list price", func(t *testing.T) {
		item := &Item{Product: product, UseGrabPrice: true}
		assert.True(t, dec("10.70").Equal(item.GrabPriceWithGST()))
	})

	t.Run("zero GST rate is kept", func(t *testing.T) {
		item := &Item{Product: product, GrabPrice: dec("12.00"), UseGrabPrice: true, GSTRate: rate("0")}
		assert.True(t, item.EffectiveGSTRate().IsZero())
		assert.True(t, dec("12.00").Equal(item.GrabPriceWithGST()))
	})

	t.Run("no product and no price is zero", func(t *testing.T) {
		assert.True(t, (&Item{}).GrabPriceWithGST().IsZero())
	})
}

func TestPricePlan_Validate(t *testing.T) {
	t.Run("defaults to markup with 20 percent and default GST", func(t *testing.T) {
		p := PricePlan{}
		require.NoError(t, p.Validate())
		assert.Equal(t, PriceStrategyMarkup, p.Strategy)
		assert.True(t, DefaultMarkupPercentage.Equal(p.MarkupPercentage))
		require.True(t, p.GSTRate.Valid)
		assert.True(t, DefaultGSTRate.Equal(p.GSTRate.Decimal))
	})

	t.Run("keeps explicit zero GST", func(t *testing.T) {
		p := PricePlan{Strategy: PriceStrategyCopy, GSTRate: rate("0")}
		require.NoError(t, p.Validate())
		assert.True(t, p.GSTRate.Decimal.IsZero())
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		p := PricePlan{Strategy: "double"}
		assert.Error(t, p.Validate())
	})

	t.Run("rejects negative values", func(t *testing.T) {
		p := PricePlan{Strategy: PriceStrategyCustom, CustomBasePrice: dec("-1")}
		assert.Error(t, p.Validate())

		p = PricePlan{Strategy: PriceStrategyCopy, GSTRate: rate("-7")}
		assert.Error(t, p.Validate())
	})
}

func TestPricePlan_Quote(t *testing.T) {
	item := &Item{ID: 7, Name: "Kopi", Product: &Product{Name: "Kopi O", ListPrice: dec("10.00")}}

	tests := []struct {
		name      string
		plan      PricePlan
		wantBase  string
		wantFinal string
	}{
		{"copy", PricePlan{Strategy: PriceStrategyCopy, GSTRate: rate("7")}, "10", "10.7"},
		{"markup", PricePlan{Strategy: PriceStrategyMarkup, MarkupPercentage: dec("20"), GSTRate: rate("7")}, "12", "12.84"},
		{"custom", PricePlan{Strategy: PriceStrategyCustom, CustomBasePrice: dec("15"), GSTRate: rate("9")}, "15", "16.35"},
		{"zero GST", PricePlan{Strategy: PriceStrategyCopy, GSTRate: rate("0")}, "10", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := tt.plan.Quote(item)
			require.True(t, ok)
			assert.Equal(t, "Kopi", q.ItemName)
			assert.True(t, dec(tt.wantBase).Equal(q.NewGrabPrice), q.NewGrabPrice.String())
			assert.True(t, dec(tt.wantFinal).Equal(q.FinalPrice), q.FinalPrice.String())
		})
	}

	t.Run("item without product is skipped", func(t *testing.T) {
		_, ok := PricePlan{Strategy: PriceStrategyCopy}.Quote(&Item{ID: 1})
		assert.False(t, ok)
	})
}

func TestItem_ApplyPricePlan(t *testing.T) {
	item := &Item{Product: &Product{ListPrice: dec("5")}}
	plan := PricePlan{Strategy: PriceStrategyMarkup}
	require.NoError(t, plan.Validate())

	assert.True(t, item.ApplyPricePlan(plan))
	assert.True(t, item.UseGrabPrice)
	assert.True(t, dec("6").Equal(item.GrabPrice))
	require.True(t, item.GSTRate.Valid)
	assert.True(t, dec("7").Equal(item.GSTRate.Decimal))
}

func TestProduct_PriceWithTax(t *testing.T) {
	assert.True(t, dec("10").Equal((&Product{ListPrice: dec("10")}).PriceWithTax()))
	assert.True(t, dec("10.9").Equal((&Product{ListPrice: dec("10"), TaxRate: dec("9")}).PriceWithTax()))
}

func TestItem_ModifierGroupsFromAttributes(t *testing.T) {
	item := &Item{ID: 12, Product: &Product{AttributeLines: []AttributeLine{
		{AttributeID: 4, AttributeName: "Size", Values: []AttributeValue{
			{ID: 1, Name: "Regular"},
			{ID: 2, Name: "Large", PriceExtra: dec("0.80")},
		}},
		{AttributeID: 5, AttributeName: "Sugar", Values: []AttributeValue{{ID: 3, Name: "Less"}}},
	}}}

	groups := item.ModifierGroupsFromAttributes()
	require.Len(t, groups, 2)

	size := groups[0]
	assert.Equal(t, "Size", size.Name)
	assert.Equal(t, "12_4", size.Code)
	require.NotNil(t, size.SelectionRangeMin)
	assert.Equal(t, 1, *size.SelectionRangeMin)
	assert.Equal(t, 1, *size.SelectionRangeMax)
	require.Len(t, size.Modifiers, 2)
	assert.Equal(t, "12_4_2", size.Modifiers[1].Code)
	assert.Equal(t, "Large", size.Modifiers[1].Barcode)
	assert.True(t, dec("0.80").Equal(size.Modifiers[1].Price))

	assert.Nil(t, (&Item{}).ModifierGroupsFromAttributes())
}
