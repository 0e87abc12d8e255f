package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/erp/grabfood/internal/domain/shared"
)

// IntegrationStatus is the merchant onboarding state reported by the delivery platform
type IntegrationStatus string

const (
	IntegrationStatusPending   IntegrationStatus = "PENDING"
	IntegrationStatusActive    IntegrationStatus = "ACTIVE"
	IntegrationStatusInactive  IntegrationStatus = "INACTIVE"
	IntegrationStatusRejected  IntegrationStatus = "REJECTED"
	IntegrationStatusSuspended IntegrationStatus = "SUSPENDED"
)

// IsValid returns true if the status is one the platform reports
func (s IntegrationStatus) IsValid() bool {
	switch s {
	case IntegrationStatusPending, IntegrationStatusActive, IntegrationStatusInactive,
		IntegrationStatusRejected, IntegrationStatusSuspended:
		return true
	}
	return false
}

// Menu currency defaults
const (
	DefaultCurrencyCode     = "SGD"
	DefaultCurrencySymbol   = "S$"
	DefaultCurrencyExponent = 2
)

// Menu is the root of one merchant's catalog tree.
// Sections, categories, items, modifier groups and modifiers hang below it in display order.
type Menu struct {
	ID                int64
	Name              string
	MerchantID        string
	PartnerMerchantID string
	IntegrationStatus IntegrationStatus
	CurrencyCode      string
	CurrencySymbol    string
	CurrencyExponent  int
	LastMenuRequestID string
	LastMenuJobID     string
	Sections          []Section
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewMenuForMerchant creates the empty menu handed out the first time a merchant asks for its menu
func NewMenuForMerchant(merchantID, partnerMerchantID string) *Menu {
	label := partnerMerchantID
	if label == "" {
		label = merchantID
	}
	if label == "" {
		label = "NEW"
	}
	now := time.Now()
	return &Menu{
		Name:              fmt.Sprintf("Grab Menu (%s)", label),
		MerchantID:        merchantID,
		PartnerMerchantID: partnerMerchantID,
		CurrencyCode:      DefaultCurrencyCode,
		CurrencySymbol:    DefaultCurrencySymbol,
		CurrencyExponent:  DefaultCurrencyExponent,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// AdoptMerchantIDs records the identifiers a platform request used for this menu.
// A different merchant ID replaces the stored one; a partner ID only fills an empty slot.
// Returns true when anything changed.
func (m *Menu) AdoptMerchantIDs(merchantID, partnerMerchantID string) bool {
	changed := false
	if merchantID != "" && m.MerchantID != merchantID {
		m.MerchantID = merchantID
		changed = true
	}
	if partnerMerchantID != "" && m.PartnerMerchantID == "" {
		m.PartnerMerchantID = partnerMerchantID
		changed = true
	}
	if changed {
		m.UpdatedAt = time.Now()
	}
	return changed
}

// SetIntegrationStatus applies a status pushed by the platform
func (m *Menu) SetIntegrationStatus(status IntegrationStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_INTEGRATION_STATUS", fmt.Sprintf("unknown integration status %q", status))
	}
	m.IntegrationStatus = status
	m.UpdatedAt = time.Now()
	return nil
}

// RecordSyncTrace keeps the latest menu sync identifiers for trace lookups
func (m *Menu) RecordSyncTrace(requestID, jobID string) {
	if requestID != "" {
		m.LastMenuRequestID = requestID
	}
	if jobID != "" {
		m.LastMenuJobID = jobID
	}
	m.UpdatedAt = time.Now()
}

// HasSyncTrace reports whether a trace lookup is possible
func (m *Menu) HasSyncTrace() bool {
	return m.LastMenuRequestID != "" || m.LastMenuJobID != ""
}

// Section groups categories under one service-hours window
type Section struct {
	ID           int64
	MenuID       int64
	Name         string
	Sequence     int
	ServiceHours string
	Categories   []Category
}

// Category is a display group of items inside a section
type Category struct {
	ID                int64
	SectionID         int64
	Name              string
	Sequence          int
	AvailableStatus   string
	ProductCategoryID *int64
	Items             []Item
}

// SortTree orders every level of the tree by sequence, ties broken by ID.
// A sequence of 0 counts as the default of 1.
func (m *Menu) SortTree() {
	sort.SliceStable(m.Sections, func(i, j int) bool {
		return lessBySequence(m.Sections[i].Sequence, m.Sections[i].ID, m.Sections[j].Sequence, m.Sections[j].ID)
	})
	for si := range m.Sections {
		cats := m.Sections[si].Categories
		sort.SliceStable(cats, func(i, j int) bool {
			return lessBySequence(cats[i].Sequence, cats[i].ID, cats[j].Sequence, cats[j].ID)
		})
		for ci := range cats {
			items := cats[ci].Items
			sort.SliceStable(items, func(i, j int) bool {
				return lessBySequence(items[i].Sequence, items[i].ID, items[j].Sequence, items[j].ID)
			})
			for ii := range items {
				items[ii].sortModifiers()
			}
		}
	}
}

// EffectiveSequence returns the display sequence with the default applied
func EffectiveSequence(seq int) int {
	if seq <= 0 {
		return 1
	}
	return seq
}

func lessBySequence(seqA int, idA int64, seqB int, idB int64) bool {
	a, b := EffectiveSequence(seqA), EffectiveSequence(seqB)
	if a != b {
		return a < b
	}
	return idA < idB
}
