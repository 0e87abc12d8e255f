package integration

import (
	"math"
	"strconv"
	"strings"
)

// DeriveSelectionRange computes a valid [min, max] selection range for a modifier group.
// min defaults to 0 and non-numeric or negative values count as 0.
// max falls back to modifierCount when unset or not positive, then is raised to at least max(min, 1).
func DeriveSelectionRange(configuredMin, configuredMax any, modifierCount int) (int, int) {
	lo, ok := coerceInt(configuredMin)
	if !ok || lo < 0 {
		lo = 0
	}
	hi, ok := coerceInt(configuredMax)
	if !ok || hi <= 0 {
		hi = modifierCount
	}
	if hi < lo {
		hi = lo
	}
	if hi < 1 {
		hi = 1
	}
	return lo, hi
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil, bool:
		return 0, false
	case int:
		return n, true
	case *int:
		if n == nil {
			return 0, false
		}
		return *n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f)
		}
		return 0, false
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
