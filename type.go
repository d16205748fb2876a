// File: lixenwraith/cli/type.go
package cli

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"
)

// String retrieves an option as a string.
// Attempts conversion from common types if the stored value isn't already a string.
func (s *Section) String(option string) (string, error) {
	val := s.Get(option)
	if val == nil {
		return "", fmt.Errorf("%w: %s.%s", ErrNotSet, s.name, option)
	}

	if strVal, ok := val.(string); ok {
		return strVal, nil
	}

	switch v := val.(type) {
	case decimal.Decimal:
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), nil
	case bool:
		return formatBool(v), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for %s.%s", val, s.name, option)
	}
}

// Int retrieves an option as an int.
// Decimals are truncated, booleans map to 0 and 1, strings are parsed.
func (s *Section) Int(option string) (int, error) {
	val := s.Get(option)
	if val == nil {
		return 0, fmt.Errorf("%w: %s.%s", ErrNotSet, s.name, option)
	}

	if d, ok := val.(decimal.Decimal); ok {
		return int(d.IntPart()), nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return int(v.Float()), nil
	case reflect.String:
		str := v.String()
		if i, err := strconv.Atoi(str); err == nil {
			return i, nil
		} else {
			return 0, fmt.Errorf("cannot convert string %q to int for %s.%s: %w", str, s.name, option, err)
		}
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int for %s.%s", val, s.name, option)
}

// Bool retrieves an option as a bool.
// Strings follow the config file vocabulary (yes/true/on, no/false/off), numbers are non-zero.
func (s *Section) Bool(option string) (bool, error) {
	val := s.Get(option)
	if val == nil {
		return false, fmt.Errorf("%w: %s.%s", ErrNotSet, s.name, option)
	}

	if d, ok := val.(decimal.Decimal); ok {
		return !d.IsZero(), nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		if b, ok := parseBoolWord(v.String()); ok {
			return b, nil
		}
		return false, fmt.Errorf("cannot convert string %q to bool for %s.%s", v.String(), s.name, option)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for %s.%s", val, s.name, option)
}

// Decimal retrieves an option as an arbitrary-precision decimal.
func (s *Section) Decimal(option string) (decimal.Decimal, error) {
	val := s.Get(option)
	if val == nil {
		return decimal.Zero, fmt.Errorf("%w: %s.%s", ErrNotSet, s.name, option)
	}

	switch v := val.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("cannot convert string %q to decimal for %s.%s: %w", v, s.name, option, err)
		}
		return d, nil
	}

	return decimal.Zero, fmt.Errorf("cannot convert type %T to decimal for %s.%s", val, s.name, option)
}

// Float64 retrieves an option as a float64. Decimal precision may be lost.
func (s *Section) Float64(option string) (float64, error) {
	if f, ok := s.Get(option).(float64); ok {
		return f, nil
	}
	d, err := s.Decimal(option)
	if err != nil {
		return 0.0, err
	}
	return d.InexactFloat64(), nil
}
