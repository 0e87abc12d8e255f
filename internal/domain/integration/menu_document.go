package integration

// ---------------------------------------------------------------------------
// Menu export document (platform wire format)
// ---------------------------------------------------------------------------
//
// All amounts are integers in minor currency units.

// Selling-time and placeholder constants of the export document
const (
	AllDaySellingTimeID   = "SELLINGTIME-01"
	AllDaySellingTimeName = "All Day"
	OpenPeriodType        = "OpenPeriod"
	SellingWindowStart    = "1000-01-01 00:00:00"
	SellingWindowEnd      = "9999-12-31 23:59:59"
	DayOpen               = "00:00"
	DayClose              = "23:59"

	PlaceholderCategoryID   = "CATEGORY-PLACEHOLDER"
	PlaceholderCategoryName = "Placeholder"
	PlaceholderItemID       = "ITEM-PLACEHOLDER"
	PlaceholderItemName     = "Sample Item"
	PlaceholderDescription  = "Autogenerated placeholder to pass validation."
	UnnamedItem             = "Unnamed"
)

// Weekdays are the serviceHours keys, Monday first
var Weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// MenuDocument is the full menu export sent to the platform
type MenuDocument struct {
	MerchantID        string           `json:"merchantID"`
	PartnerMerchantID string           `json:"partnerMerchantID"`
	Currency          CurrencyDocument `json:"currency"`
	SellingTimes      []SellingTime    `json:"sellingTimes"`
	Categories        []MenuCategory   `json:"categories"`
}

// CurrencyDocument describes the currency of every amount in a document
type CurrencyDocument struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Exponent int32  `json:"exponent"`
}

// SellingTime is a named schedule window a category can be ordered in
type SellingTime struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Sequence     int                     `json:"sequence"`
	ServiceHours map[string]ServiceHours `json:"serviceHours"`
	StartTime    string                  `json:"startTime"`
	EndTime      string                  `json:"endTime"`
}

// ServiceHours lists the open periods of one weekday
type ServiceHours struct {
	OpenPeriodType string       `json:"openPeriodType"`
	Periods        []OpenPeriod `json:"periods"`
}

// OpenPeriod is a HH:MM time range
type OpenPeriod struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// MenuCategory is a flattened category with its items
type MenuCategory struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Sequence        int             `json:"sequence"`
	AvailableStatus AvailableStatus `json:"availableStatus"`
	SellingTimeID   string          `json:"sellingTimeID"`
	Items           []MenuItem      `json:"items"`
}

// MenuItem is one sellable item. ImageURL and Photos always carry the same image.
type MenuItem struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Sequence        int                 `json:"sequence"`
	AvailableStatus AvailableStatus     `json:"availableStatus"`
	Price           int64               `json:"price"`
	Description     string              `json:"description"`
	ImageURL        string              `json:"imageUrl"`
	Photos          []string            `json:"photos"`
	ModifierGroups  []MenuModifierGroup `json:"modifierGroups"`
}

// MenuModifierGroup is an option group with its selection range
type MenuModifierGroup struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SelectionRangeMin int             `json:"selectionRangeMin"`
	SelectionRangeMax int             `json:"selectionRangeMax"`
	AvailableStatus   AvailableStatus `json:"availableStatus"`
	Modifiers         []MenuModifier  `json:"modifiers"`
}

// MenuModifier is one option of a modifier group
type MenuModifier struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           int64           `json:"price"`
	AvailableStatus AvailableStatus `json:"availableStatus"`
}

// AllDaySellingTimes returns the fixed every-day window used for all categories
func AllDaySellingTimes() []SellingTime {
	hours := make(map[string]ServiceHours, len(Weekdays))
	for _, day := range Weekdays {
		hours[day] = ServiceHours{
			OpenPeriodType: OpenPeriodType,
			Periods:        []OpenPeriod{{StartTime: DayOpen, EndTime: DayClose}},
		}
	}
	return []SellingTime{{
		ID:           AllDaySellingTimeID,
		Name:         AllDaySellingTimeName,
		Sequence:     1,
		ServiceHours: hours,
		StartTime:    SellingWindowStart,
		EndTime:      SellingWindowEnd,
	}}
}

// photoList mirrors imageUrl as the photos array
func photoList(url string) []string {
	if url == "" {
		return []string{}
	}
	return []string{url}
}

// ItemCount returns the number of items across all categories
func (d *MenuDocument) ItemCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Items)
	}
	return n
}
