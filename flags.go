// FILE: lixenwraith/cli/flags.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// Argument declares a command-line flag for the entrypoint or a subcommand.
type Argument struct {
	Name    string // long flag, e.g. "log-file"; the destination becomes "log_file"
	Short   string // optional one-letter shorthand
	Default any
	Kind    ArgKind
	Help    string
	ArgOnly bool // parsed into Args but never merged into the configuration
}

// binding ties a declared argument to the pflag flags that carry it.
type binding struct {
	record ArgumentRecord
	flags  []*pflag.Flag
	value  func() any
}

// parsed reports the argument value together with parser-observed presence.
func (b *binding) parsed() ParsedValue {
	changed := false
	for _, flag := range b.flags {
		if flag.Changed {
			changed = true
			break
		}
	}

	value := b.value()
	if !changed && b.record.Default == nil {
		// No default and no flag: the argument is absent
		value = nil
	}
	return ParsedValue{Value: value, Changed: changed, Tracked: true}
}

// bindFlag defines the pflag flags for a record on fs.
// Toggles define both the enable flag and its --no- counterpart.
func bindFlag(fs *pflag.FlagSet, record ArgumentRecord, short, help string) (*binding, error) {
	b := &binding{record: record}

	switch record.Kind {
	case KindString:
		def := ""
		if record.Default != nil {
			def = fmt.Sprint(record.Default)
		}
		p := fs.StringP(record.Flag, short, def, help)
		b.value = func() any { return *p }

	case KindInt:
		def, err := toInt(record.Default)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", record.Name, err)
		}
		p := fs.IntP(record.Flag, short, def, help)
		b.value = func() any { return *p }

	case KindDecimal:
		dv := &decimalValue{}
		if record.Default != nil {
			d, err := toDecimal(record.Default)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", record.Name, err)
			}
			dv.value = d
		}
		fs.VarP(dv, record.Flag, short, help)
		b.value = func() any { return dv.value }

	case KindStoreTrue, KindStoreFalse:
		target, _ := record.Default.(bool)
		tv := &toggleValue{target: &target, invert: record.Kind == KindStoreFalse}
		fs.VarPF(tv, record.Flag, short, help).NoOptDefVal = "true"
		b.value = func() any { return target }

	case KindToggle:
		target, _ := record.Default.(bool)
		enable := fs.VarPF(&toggleValue{target: &target}, record.Flag, short, "Enable "+help)
		enable.NoOptDefVal = "true"
		disable := fs.VarPF(&toggleValue{target: &target, invert: true}, "no-"+record.Flag, "", "Disable "+help)
		disable.NoOptDefVal = "true"
		b.value = func() any { return target }

	default:
		return nil, fmt.Errorf("argument %q: unsupported kind %d", record.Name, record.Kind)
	}

	b.flags = append(b.flags, fs.Lookup(record.Flag))
	if record.Kind == KindToggle {
		b.flags = append(b.flags, fs.Lookup("no-"+record.Flag))
	}
	return b, nil
}

// toggleValue writes a boolean into a shared target; inverted flags store the negation.
// Enable and disable flags of a toggle share one target, so the last flag on the line wins.
type toggleValue struct {
	target *bool
	invert bool
}

func (v *toggleValue) String() string {
	if v.target == nil {
		return "false"
	}
	return strconv.FormatBool(*v.target != v.invert)
}

func (v *toggleValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*v.target = b != v.invert
	return nil
}

func (v *toggleValue) Type() string { return "bool" }

// decimalValue is a pflag.Value holding an arbitrary-precision decimal
type decimalValue struct {
	value decimal.Decimal
}

func (v *decimalValue) String() string { return v.value.String() }

func (v *decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	v.value = d
	return nil
}

func (v *decimalValue) Type() string { return "decimal" }

// inferKind chooses a parse kind from a default value
func inferKind(def any) ArgKind {
	switch def.(type) {
	case bool:
		return KindStoreTrue
	case int, int64, int32:
		return KindInt
	case decimal.Decimal, float64, float32:
		return KindDecimal
	default:
		return KindString
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	}
	return 0, fmt.Errorf("default %v (%T) is not an integer", v, v)
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		return decimal.NewFromString(n)
	}
	return decimal.Zero, fmt.Errorf("default %v (%T) is not a decimal", v, v)
}
