package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/grabfood/internal/domain/shared"
)

func TestNewMenuForMerchant(t *testing.T) {
	t.Run("names menu after partner merchant ID", func(t *testing.T) {
		m := NewMenuForMerchant("GRAB-1", "PM-1")
		assert.Equal(t, "Grab Menu (PM-1)", m.Name)
		assert.Equal(t, "GRAB-1", m.MerchantID)
		assert.Equal(t, "PM-1", m.PartnerMerchantID)
		assert.Equal(t, DefaultCurrencyCode, m.CurrencyCode)
		assert.Equal(t, DefaultCurrencySymbol, m.CurrencySymbol)
		assert.Equal(t, DefaultCurrencyExponent, m.CurrencyExponent)
	})

	t.Run("falls back to merchant ID then NEW", func(t *testing.T) {
		assert.Equal(t, "Grab Menu (GRAB-1)", NewMenuForMerchant("GRAB-1", "").Name)
		assert.Equal(t, "Grab Menu (NEW)", NewMenuForMerchant("", "").Name)
	})
}

func TestMenu_AdoptMerchantIDs(t *testing.T) {
	tests := []struct {
		name        string
		menu        Menu
		mid, pmid   string
		wantChanged bool
		wantMID     string
		wantPMID    string
	}{
		{"replaces changed merchant ID", Menu{MerchantID: "A", PartnerMerchantID: "P"}, "B", "", true, "B", "P"},
		{"fills empty partner ID", Menu{MerchantID: "A"}, "", "P", true, "A", "P"},
		{"keeps existing partner ID", Menu{MerchantID: "A", PartnerMerchantID: "P"}, "A", "Q", false, "A", "P"},
		{"no input changes nothing", Menu{MerchantID: "A"}, "", "", false, "A", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.menu
			assert.Equal(t, tt.wantChanged, m.AdoptMerchantIDs(tt.mid, tt.pmid))
			assert.Equal(t, tt.wantMID, m.MerchantID)
			assert.Equal(t, tt.wantPMID, m.PartnerMerchantID)
		})
	}
}

func TestMenu_SetIntegrationStatus(t *testing.T) {
	m := &Menu{}
	require.NoError(t, m.SetIntegrationStatus(IntegrationStatusActive))
	assert.Equal(t, IntegrationStatusActive, m.IntegrationStatus)

	err := m.SetIntegrationStatus("BOGUS")
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_INTEGRATION_STATUS", de.Code)
	assert.Equal(t, IntegrationStatusActive, m.IntegrationStatus)
}

func TestMenu_RecordSyncTrace(t *testing.T) {
	m := &Menu{}
	assert.False(t, m.HasSyncTrace())

	m.RecordSyncTrace("req-1", "")
	assert.True(t, m.HasSyncTrace())
	assert.Equal(t, "req-1", m.LastMenuRequestID)

	m.RecordSyncTrace("", "job-9")
	assert.Equal(t, "req-1", m.LastMenuRequestID)
	assert.Equal(t, "job-9", m.LastMenuJobID)
}

func TestMenu_SortTree(t *testing.T) {
	m := &Menu{Sections: []Section{
		{ID: 2, Sequence: 1, Categories: []Category{
			{ID: 30, Sequence: 2},
			{ID: 20, Sequence: 0},
			{ID: 10, Sequence: 2, Items: []Item{
				{ID: 5, Sequence: 3},
				{ID: 4, Sequence: 1, ModifierGroups: []ModifierGroup{
					{ID: 9, Modifiers: []Modifier{{ID: 3}, {ID: 1}}},
					{ID: 7},
				}},
			}},
		}},
		{ID: 1, Sequence: 1},
	}}

	m.SortTree()

	require.Len(t, m.Sections, 2)
	assert.Equal(t, int64(1), m.Sections[0].ID, "ties broken by ID")

	cats := m.Sections[1].Categories
	assert.Equal(t, []int64{20, 10, 30}, []int64{cats[0].ID, cats[1].ID, cats[2].ID}, "sequence 0 counts as 1")

	items := cats[1].Items
	assert.Equal(t, int64(4), items[0].ID)
	assert.Equal(t, int64(7), items[0].ModifierGroups[0].ID)
	assert.Equal(t, int64(1), items[0].ModifierGroups[1].Modifiers[0].ID)
}

func TestExportIDs(t *testing.T) {
	assert.Equal(t, "CATEGORY-12", (&Category{ID: 12}).ExportID())
	assert.Equal(t, "ITEM-42", (&Item{ID: 42}).ExportID())
	assert.Equal(t, "LATTE", (&Item{ID: 42, ExternalCode: "LATTE"}).ExportID())
	assert.Equal(t, "MG-3", (&ModifierGroup{ID: 3}).ExportID())
	assert.Equal(t, "12_4", (&ModifierGroup{ID: 3, Code: "12_4"}).ExportID())
	assert.Equal(t, "MODI-8", (&Modifier{ID: 8}).ExportID())
	assert.Equal(t, "12_4_2", (&Modifier{ID: 8, Code: "12_4_2"}).ExportID())
}
