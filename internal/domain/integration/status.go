package integration

import "strings"

// AvailableStatus is the availability enum the platform accepts for menu nodes
type AvailableStatus string

const (
	StatusAvailable        AvailableStatus = "AVAILABLE"
	StatusUnavailable      AvailableStatus = "UNAVAILABLE"
	StatusUnavailableToday AvailableStatus = "UNAVAILABLETODAY"
	StatusHide             AvailableStatus = "HIDE"
)

// IsValid returns true if the status is one of the canonical values
func (s AvailableStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusUnavailableToday, StatusHide:
		return true
	default:
		return false
	}
}

// String returns the string representation of AvailableStatus
func (s AvailableStatus) String() string {
	return string(s)
}

var statusSeparators = strings.NewReplacer(" ", "", "_", "", "-", "", "\t", "")

// NormalizeStatus maps a loosely formatted status to a canonical AvailableStatus.
// nil, empty strings and booleans count as unset and yield def, as does anything unrecognised.
func NormalizeStatus(raw any, def AvailableStatus) AvailableStatus {
	var s string
	switch v := raw.(type) {
	case nil, bool:
		return def
	case string:
		s = v
	case AvailableStatus:
		s = string(v)
	case *string:
		if v == nil {
			return def
		}
		s = *v
	default:
		return def
	}
	s = statusSeparators.Replace(strings.ToUpper(strings.TrimSpace(s)))
	if s == "" {
		return def
	}
	if status := AvailableStatus(s); status.IsValid() {
		return status
	}
	return def
}

// NormalizeOrderState uppercases a platform order state and joins words with underscores
func NormalizeOrderState(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}
