package kernel

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce converts loosely typed numeric input into a decimal. Anything that
// cannot be read as a number becomes zero: import rows are often partially
// filled and must not be rejected for it.
func Coerce(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case float64:
		return decimal.NewFromFloat(n)
	case json.Number:
		return CoerceString(n.String())
	case string:
		return CoerceString(n)
	case *string:
		if n == nil {
			return decimal.Zero
		}
		return CoerceString(*n)
	default:
		return decimal.Zero
	}
}

// CoerceString parses spreadsheet-style numbers: surrounding spaces, thousands
// separators (space or non-breaking space) and a comma decimal separator are accepted.
func CoerceString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
