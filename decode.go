// FILE: lixenwraith/cli/decode.go
package cli

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

// scanTagName is the struct tag read by Scan
const scanTagName = "config"

// Scan decodes one section into the target struct or map.
// Options missing from the section are taken from the user section, the same
// fallback Section.Get applies. The target must be a non-nil pointer.
func (t *Tree) Scan(section string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	sectionMap := make(map[string]any)
	if section != UserSection {
		if user, exists := t.lookupSection(UserSection); exists {
			for option, value := range user.Items() {
				setNestedValue(sectionMap, option, value)
			}
		}
	}
	for option, value := range t.Section(section).Items() {
		if value == nil {
			continue
		}
		setNestedValue(sectionMap, option, value)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          scanTagName,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for section %q: %w", section, err)
	}
	return nil
}

// decimalHookFunc converts decimal values into the numeric or string kind of the target field
func decimalHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		d, isDecimal := data.(decimal.Decimal)
		if !isDecimal {
			return data, nil
		}
		switch t.Kind() {
		case reflect.Float32, reflect.Float64:
			return d.InexactFloat64(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return d.IntPart(), nil
		case reflect.String:
			return d.String(), nil
		default:
			return data, nil
		}
	}
}
