// FILE: lixenwraith/cli/register.go
package cli

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ArgKind selects how an argument is parsed from the command line
type ArgKind int

const (
	// KindAuto infers the kind from the default value
	KindAuto ArgKind = iota
	// KindString stores the flag value as a string
	KindString
	// KindInt stores the flag value as an int
	KindInt
	// KindDecimal stores the flag value as an arbitrary-precision decimal
	KindDecimal
	// KindStoreTrue stores true when the flag is present
	KindStoreTrue
	// KindStoreFalse stores false when the flag is present
	KindStoreFalse
	// KindToggle declares an enable flag and a --no- disable flag sharing one destination
	KindToggle
)

// ArgumentRecord describes one declared flag.
type ArgumentRecord struct {
	Scope      string // GeneralSection or a subcommand name
	Name       string // destination name, also the config option name
	Flag       string // long flag without dashes
	Default    any
	Kind       ArgKind
	StoreTrue  bool
	StoreFalse bool
	ArgOnly    bool
}

// Registry tracks declared arguments and their defaults per scope.
// It is open for declarations until Close is called.
type Registry struct {
	records    map[string]map[string][]ArgumentRecord // scope -> name -> records
	defaults   map[string]map[string]any
	storeTrue  map[string]map[string]bool
	storeFalse map[string]map[string]bool
	argOnly    map[string]map[string]bool
	closed     bool
	logger     *zap.Logger
	mutex      sync.RWMutex
}

// NewRegistry creates an open registry. A nil logger discards diagnostics.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		records:    make(map[string]map[string][]ArgumentRecord),
		defaults:   make(map[string]map[string]any),
		storeTrue:  make(map[string]map[string]bool),
		storeFalse: make(map[string]map[string]bool),
		argOnly:    make(map[string]map[string]bool),
		logger:     logger,
	}
}

// Declare records an argument default under its scope.
// Re-declaring a name in the same scope replaces the default and logs a warning.
func (r *Registry) Declare(record ArgumentRecord) error {
	if record.Kind == KindToggle {
		def, _ := record.Default.(bool)
		return r.DeclareToggle(record.Scope, record.Name, def)
	}
	if err := validateRecord(&record); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return fmt.Errorf("%w: cannot declare %q", ErrRegistrationClosed, record.Name)
	}

	if _, exists := r.defaults[record.Scope][record.Name]; exists {
		r.logger.Warn("argument declared more than once, last default wins",
			zap.String("scope", record.Scope),
			zap.String("name", record.Name),
			zap.Any("default", record.Default))
		r.forgetLocked(record.Scope, record.Name)
	}

	r.addLocked(record)
	return nil
}

// DeclareToggle records an enable/disable pair sharing one destination.
// Both records are added under one lock acquisition.
func (r *Registry) DeclareToggle(scope, name string, defaultValue bool) error {
	enable := ArgumentRecord{
		Scope:     scope,
		Name:      name,
		Flag:      strings.ReplaceAll(name, "_", "-"),
		Default:   defaultValue,
		Kind:      KindStoreTrue,
		StoreTrue: true,
	}
	if err := validateRecord(&enable); err != nil {
		return err
	}
	disable := ArgumentRecord{
		Scope:      enable.Scope,
		Name:       enable.Name,
		Flag:       "no-" + enable.Flag,
		Default:    defaultValue,
		Kind:       KindStoreFalse,
		StoreFalse: true,
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return fmt.Errorf("%w: cannot declare toggle %q", ErrRegistrationClosed, name)
	}

	if existing, exists := r.records[enable.Scope][enable.Name]; exists {
		if !isTogglePair(existing) {
			return fmt.Errorf("%w: %q is already declared as a plain argument in %q", ErrIncompatibleToggle, enable.Name, enable.Scope)
		}
		r.logger.Warn("toggle declared more than once, last default wins",
			zap.String("scope", enable.Scope),
			zap.String("name", enable.Name))
		r.forgetLocked(enable.Scope, enable.Name)
	}
	if _, exists := r.records[enable.Scope][flagToName(disable.Flag)]; exists {
		return fmt.Errorf("%w: --%s collides with an existing argument", ErrIncompatibleToggle, disable.Flag)
	}

	r.addLocked(enable)
	r.addLocked(disable)
	return nil
}

// Close ends the registration phase. Later declarations fail.
func (r *Registry) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.closed = true
}

// Closed reports whether the registration phase has ended.
func (r *Registry) Closed() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.closed
}

// Default returns the declared default for name in scope.
func (r *Registry) Default(scope, name string) (any, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	value, exists := r.defaults[scope][name]
	return value, exists
}

// Declared reports whether name is declared in scope.
func (r *Registry) Declared(scope, name string) bool {
	_, exists := r.Default(scope, name)
	return exists
}

// IsStoreTrue reports whether name stores true on presence in scope.
func (r *Registry) IsStoreTrue(scope, name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.storeTrue[scope][name]
}

// IsStoreFalse reports whether name stores false on presence in scope.
func (r *Registry) IsStoreFalse(scope, name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.storeFalse[scope][name]
}

// IsArgOnly reports whether name is kept out of the configuration in scope.
func (r *Registry) IsArgOnly(scope, name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.argOnly[scope][name]
}

// Records returns the declared records of a scope ordered by name.
func (r *Registry) Records(scope string) []ArgumentRecord {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	byName := r.records[scope]
	result := make([]ArgumentRecord, 0, len(byName))
	for _, name := range sortedKeys(byName) {
		result = append(result, byName[name]...)
	}
	return result
}

// Scopes returns every scope with at least one declaration.
func (r *Registry) Scopes() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return sortedKeys(r.records)
}

func (r *Registry) addLocked(record ArgumentRecord) {
	scope, name := record.Scope, record.Name
	if r.records[scope] == nil {
		r.records[scope] = make(map[string][]ArgumentRecord)
		r.defaults[scope] = make(map[string]any)
		r.storeTrue[scope] = make(map[string]bool)
		r.storeFalse[scope] = make(map[string]bool)
		r.argOnly[scope] = make(map[string]bool)
	}
	r.records[scope][name] = append(r.records[scope][name], record)
	r.defaults[scope][name] = record.Default
	if record.StoreTrue {
		r.storeTrue[scope][name] = true
	}
	if record.StoreFalse {
		r.storeFalse[scope][name] = true
	}
	if record.ArgOnly {
		r.argOnly[scope][name] = true
	}
}

func (r *Registry) forgetLocked(scope, name string) {
	delete(r.records[scope], name)
	delete(r.defaults[scope], name)
	delete(r.storeTrue[scope], name)
	delete(r.storeFalse[scope], name)
	delete(r.argOnly[scope], name)
}

// validateRecord fills derived fields and rejects malformed declarations.
func validateRecord(record *ArgumentRecord) error {
	if record.Scope == "" {
		record.Scope = GeneralSection
	}
	if record.Flag == "" {
		record.Flag = strings.ReplaceAll(record.Name, "_", "-")
	}
	if record.Name == "" {
		record.Name = flagToName(record.Flag)
	}
	if !isValidKeySegment(record.Name) {
		return fmt.Errorf("invalid argument name %q", record.Name)
	}
	if record.Kind == KindAuto {
		record.Kind = inferKind(record.Default)
	}
	switch record.Kind {
	case KindStoreTrue:
		record.StoreTrue, record.StoreFalse = true, false
		if record.Default == nil {
			record.Default = false
		}
	case KindStoreFalse:
		record.StoreTrue, record.StoreFalse = false, true
		if record.Default == nil {
			record.Default = true
		}
	}
	if record.StoreTrue && record.StoreFalse {
		return fmt.Errorf("%w: %q cannot store both true and false", ErrIncompatibleToggle, record.Name)
	}
	return nil
}

func isTogglePair(records []ArgumentRecord) bool {
	if len(records) != 2 {
		return false
	}
	return records[0].StoreTrue && records[1].StoreFalse
}

// flagToName converts a long flag into its destination name.
func flagToName(flag string) string {
	return strings.ReplaceAll(strings.TrimLeft(flag, "-"), "-", "_")
}
