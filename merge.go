// FILE: lixenwraith/cli/merge.go
package cli

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Source records where a configuration value came from
type Source string

const (
	// SourceConfigFile marks values read from the configuration file or set for persistence
	SourceConfigFile Source = "config_file"
	// SourceArgument marks values explicitly passed on the command line
	SourceArgument Source = "argument"
)

// Bookkeeping keys that parsers may leave in the parsed mapping
const (
	SubcommandKey = "subcommands"
	EntrypointKey = "entrypoint"
)

// ParsedValue is one argument as produced by the command-line parser.
// When Tracked is set the parser observed presence directly and Changed is authoritative;
// otherwise explicitness is inferred from the value and the declared defaults.
type ParsedValue struct {
	Value   any
	Changed bool
	Tracked bool
}

// MergeInput carries everything the merge engine reconciles.
type MergeInput struct {
	Registry   *Registry
	Parsed     map[string]ParsedValue
	Subcommand string // active section, empty when the entrypoint runs
	Config     *Tree
	Source     *Tree
	Logger     *zap.Logger
}

// Merge folds parsed command-line values into the configuration tree.
// Resulting precedence per option: explicit argument > config file > compiled default.
// Running it twice on the same input and the same starting tree yields the same tree.
func Merge(in MergeInput) error {
	if in.Registry == nil || in.Config == nil || in.Source == nil {
		return errors.New("merge requires a registry, a config tree and a source tree")
	}
	logger := in.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	active := sectionName(in.Subcommand)

	var mergeErrors []error
	for _, name := range sortedKeys(in.Parsed) {
		if name == SubcommandKey || name == EntrypointKey {
			continue
		}
		parsed := in.Parsed[name]

		section, found := resolveSection(in.Registry, name, active)
		if !found {
			mergeErrors = append(mergeErrors, fmt.Errorf("%w: %q", ErrUnknownArgument, name))
			continue
		}
		if in.Registry.IsArgOnly(section, name) {
			continue
		}

		explicit := passedOnCommandLine(in.Registry, in.Source, section, name, parsed)
		if explicit {
			in.Config.Section(section).Set(name, parsed.Value)
			in.Source.Section(section).Set(name, string(SourceArgument))
			logger.Debug("argument merged",
				zap.String("section", section),
				zap.String("option", name),
				zap.Any("value", parsed.Value))
			continue
		}

		// Unexercised default: only fills a slot the file left empty
		if current, exists := in.Config.Section(section).Lookup(name); !exists || current == nil {
			in.Config.Section(section).Set(name, parsed.Value)
		}
	}

	return errors.Join(mergeErrors...)
}

// resolveSection picks the section an argument belongs to. General wins over the subcommand.
func resolveSection(registry *Registry, name, active string) (string, bool) {
	if registry.Declared(GeneralSection, name) {
		return GeneralSection, true
	}
	if active != "" && registry.Declared(active, name) {
		return active, true
	}
	return "", false
}

// passedOnCommandLine decides whether a value was deliberately supplied.
// Without parser-tracked presence this is a heuristic: a user typing the exact
// default value next to a config file value is indistinguishable from no flag.
func passedOnCommandLine(registry *Registry, source *Tree, section, name string, parsed ParsedValue) bool {
	if parsed.Tracked {
		return parsed.Changed
	}

	value := parsed.Value
	if b, isBool := value.(bool); isBool {
		storeTrue, storeFalse := registry.IsStoreTrue(section, name), registry.IsStoreFalse(section, name)
		if storeTrue && storeFalse {
			// Toggle pair: only a value away from the default can come from either flag
			defaultValue, _ := registry.Default(section, name)
			return b != defaultValue
		}
		if storeTrue && b {
			return true
		}
		if storeFalse && !b {
			return true
		}
	}
	if value == nil {
		return false
	}

	origin, _ := source.Section(section).Lookup(name)
	hasFileValue := origin == string(SourceConfigFile)
	defaultValue, _ := registry.Default(section, name)
	return !hasFileValue || !equalValues(value, defaultValue)
}

// equalValues compares option values, treating decimals by numeric value.
func equalValues(a, b any) bool {
	if da, ok := a.(decimal.Decimal); ok {
		if db, ok := b.(decimal.Decimal); ok {
			return da.Equal(db)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}
