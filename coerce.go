// FILE: lixenwraith/cli/coerce.go
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// parseBoolWord recognizes the config file boolean vocabulary, case-insensitively.
func parseBoolWord(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "yes", "true", "on":
		return true, true
	case "no", "false", "off":
		return false, true
	}
	return false, false
}

// coerceValue converts a raw string read from a config file into a typed value.
// The second return is false when the value means "unset" and must be skipped.
// Anything that matches no rule stays a string.
func coerceValue(s string) (any, bool) {
	if b, ok := parseBoolWord(s); ok {
		return b, true
	}
	if strings.EqualFold(s, "none") {
		return nil, false
	}

	digits := strings.Replace(s, ".", "", 1)
	if digits == "" || !isDigits(digits) {
		return s, true
	}

	if !strings.Contains(s, ".") {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		// Too large for int, keep full precision
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d, true
	}
	return s, true
}

// normalizeValue brings values decoded by typed codecs onto the coercion targets.
func normalizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		return coerceValue(v)
	case bool, int, decimal.Decimal:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return decimal.NewFromUint64(v), true
		}
		return int(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	default:
		return fmt.Sprint(v), true
	}
}

// formatValue renders a value for the config file.
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return formatBool(v)
	case decimal.Decimal:
		return formatDecimal(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatDecimal keeps the written scale, so 1.50 stays 1.50
func formatDecimal(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// formatBool writes booleans the way they are written back to config files.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
