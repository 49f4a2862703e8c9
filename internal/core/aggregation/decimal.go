package aggregation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts a dynamically typed JSON value into a decimal.
// JSON numbers decode to float64; numeric strings are accepted as well since
// some exporters quote their numbers. ok is false for anything else,
// including NaN and infinities which float conversion would reject.
func ParseDecimal(v interface{}) (d decimal.Decimal, ok bool) {
	defer func() {
		// NewFromFloat panics on NaN/Inf.
		if recover() != nil {
			d, ok = decimal.Zero, false
		}
	}()

	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat32(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case int32:
		return decimal.NewFromInt(int64(val)), true
	case decimal.Decimal:
		return val, true
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(val))
		if err == nil {
			return parsed, true
		}
	}
	return decimal.Zero, false
}

// Seconds converts a float usage value into a decimal for exact summation.
func Seconds(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
