package objects

import (
	"fmt"

	"github.com/shopspring/decimal"
)

//nolint:gochecknoinits // global marshal mode for prices.
func init() {
	// Prices serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseDecimal converts loosely-typed input (form values, JSON numbers) to a
// decimal without going through float precision loss for strings.
func ParseDecimal(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Zero, fmt.Errorf("parse decimal: unsupported type %T", v)
	}
}
