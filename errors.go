// FILE: lixenwraith/cli/errors.go
package cli

import "errors"

// Lookup and data errors
var (
	// ErrKeyNotFound is returned by strict containers for absent keys
	ErrKeyNotFound = errors.New("key not found")
	// ErrConfigNotFound reports a missing configuration file, which is not fatal
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrEmptyConfig is returned when a save would replace the file with zero bytes
	ErrEmptyConfig = errors.New("refusing to write empty configuration file")
	// ErrNotSet is returned by typed getters when an option has no value
	ErrNotSet = errors.New("option not set")
)

// Programmer-usage errors. The App surface panics with these.
var (
	// ErrRegistrationClosed is returned when declaring arguments after parsing started
	ErrRegistrationClosed = errors.New("argument registration is closed")
	// ErrUnknownScope is returned when arguments target neither the entrypoint nor a subcommand
	ErrUnknownScope = errors.New("scope is not the entrypoint or a registered subcommand")
	// ErrIncompatibleToggle is returned when a toggle pair collides with an existing argument
	ErrIncompatibleToggle = errors.New("incompatible toggle declaration")
	// ErrUnknownArgument is returned by the merge engine for undeclared arguments
	ErrUnknownArgument = errors.New("argument was never declared")
	// ErrNoEntrypoint is returned when no handler can be dispatched
	ErrNoEntrypoint = errors.New("no entrypoint provided")
	// ErrDuplicateSubcommand is returned when a subcommand name is registered twice
	ErrDuplicateSubcommand = errors.New("subcommand already registered")
)
