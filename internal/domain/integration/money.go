package integration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencyExponent is the number of minor-unit digits assumed when a payload does not declare one
const DefaultCurrencyExponent int32 = 2

// EffectiveExponent returns exponent, or the default when it is negative or absurd
func EffectiveExponent(exponent int32) int32 {
	if exponent < 0 || exponent > 8 {
		return DefaultCurrencyExponent
	}
	return exponent
}

// ToMinorUnits converts a major-unit amount to an integer count of minor units,
// rounding half to even. Non-numeric input yields 0 and an error for the caller to log.
func ToMinorUnits(amount any, exponent int32) (int64, error) {
	d, err := toDecimal(amount)
	if err != nil {
		return 0, err
	}
	return d.Shift(EffectiveExponent(exponent)).RoundBank(0).IntPart(), nil
}

// ToMajorUnits converts a minor-unit amount to a major-unit decimal
func ToMajorUnits(minor any, exponent int32) (decimal.Decimal, error) {
	d, err := toDecimal(minor)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(-EffectiveExponent(exponent)), nil
}

// MinorToMajor converts an integer minor-unit amount to major units
func MinorToMajor(minor int64, exponent int32) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-EffectiveExponent(exponent))
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("%w: nil amount", ErrInvalidAmount)
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, fmt.Errorf("%w: nil amount", ErrInvalidAmount)
		}
		return *n, nil
	case decimal.NullDecimal:
		if !n.Valid {
			return decimal.Zero, fmt.Errorf("%w: null amount", ErrInvalidAmount)
		}
		return n.Decimal, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case json.Number:
		return parseDecimal(string(n))
	case string:
		return parseDecimal(n)
	case bool:
		return decimal.Zero, fmt.Errorf("%w: boolean amount", ErrInvalidAmount)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}
