// FILE: lixenwraith/cli/app.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Exit codes returned by Run
const (
	ExitSuccess = 0
	ExitUsage   = 2
	ExitFatal   = 255
)

// Options of the general section declared by every App
const (
	verboseOption     = "verbose"
	datetimeFmtOption = "datetime_fmt"
	logFileOption     = "log_file"
	logFormatOption   = "log_format"
	colorOption       = "color"
	configFileOption  = "config_file"
)

// Handler runs an entrypoint or subcommand once configuration is merged.
type Handler func(ctx context.Context, app *App) error

// ValidatorFunc checks the merged configuration before any handler runs.
type ValidatorFunc func(app *App) error

// subcommand is a registered subcommand and its cobra command
type subcommand struct {
	name        string // section name
	description string
	hidden      bool
	handler     Handler
	cmd         *cobra.Command
}

// handlerError marks failures raised after parsing, as opposed to usage errors
type handlerError struct {
	err error
}

func (e *handlerError) Error() string { return e.err.Error() }
func (e *handlerError) Unwrap() error { return e.err }

// App ties the command line, the configuration file and logging together.
// Declare the entrypoint, subcommands and arguments first, then call Run once.
type App struct {
	name        string
	version     string
	author      string
	description string
	rawArgs     []string
	out         io.Writer
	errOut      io.Writer

	registry   *Registry
	config     *Tree
	source     *Tree
	args       *AttrDict
	store      *Store
	validators []ValidatorFunc

	diag        *zap.Logger // library diagnostics until logging is configured
	logger      *zap.Logger
	fixedLogger bool
	closeLog    func()

	root        *cobra.Command
	entrypoint  Handler
	subcommands map[string]*subcommand
	arguments   map[string]map[string]Argument // scope -> name -> declaration
	bindings    map[string][]*binding
	positional  []string
	active      string

	prepared bool
	merged   bool
	mutex    sync.Mutex
}

// newApp creates an App and loads its configuration file.
// A missing file is not an error.
func newApp(b *Builder) (*App, error) {
	diag := b.logger
	if diag == nil {
		diag = zap.NewNop()
	}

	a := &App{
		name:        b.name,
		version:     b.version,
		author:      b.author,
		description: b.description,
		rawArgs:     b.args,
		out:         b.out,
		errOut:      b.errOut,
		registry:    NewRegistry(diag),
		args:        NewAttrDict(),
		validators:  b.validators,
		diag:        diag,
		logger:      diag,
		fixedLogger: b.logger != nil,
		subcommands: make(map[string]*subcommand),
		arguments:   make(map[string]map[string]Argument),
		bindings:    make(map[string][]*binding),
	}

	configPath := b.configFile
	if configPath == "" {
		configPath = FindConfigFile(a.name, a.author, a.rawArgs)
	} else {
		configPath = resolvePath(configPath)
	}
	a.store = NewStore(b.fs, configPath, diag)

	config, source, err := a.store.Load()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}
	a.config, a.source = config, source
	if errors.Is(err, ErrConfigNotFound) {
		diag.Debug("no configuration file", zap.String("path", configPath))
	}

	a.root = &cobra.Command{
		Use:           a.name,
		Short:         a.description,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			return a.dispatch(cmd.Context(), GeneralSection, positional)
		},
	}
	a.root.CompletionOptions.DisableDefaultCmd = true
	a.root.SetOut(a.out)
	a.root.SetErr(a.errOut)

	a.declareGeneralArguments(configPath)
	return a, nil
}

// declareGeneralArguments adds the flags every application carries
func (a *App) declareGeneralArguments(configPath string) {
	a.Argument(GeneralSection, Argument{Name: "verbose", Short: "v", Kind: KindStoreTrue, Help: "Make the logging more verbose"})
	a.Argument(GeneralSection, Argument{Name: "datetime-fmt", Default: defaultDatetimeFormat, Help: "Format string for datetimes"})
	a.Argument(GeneralSection, Argument{Name: "log-file", Kind: KindString, Help: "File to write log messages to"})
	a.Argument(GeneralSection, Argument{Name: "log-format", Default: string(LogFormatConsole), Help: "Log encoding: console or structured"})
	a.Argument(GeneralSection, Argument{Name: "color", Default: true, Kind: KindToggle, Help: "color in output"})
	a.Argument(GeneralSection, Argument{Name: "config-file", Default: configPath, ArgOnly: true, Help: "The location for the configuration file"})
}

// Entrypoint sets the handler run when no subcommand is given.
func (a *App) Entrypoint(description string, handler Handler) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.prepared {
		panic(fmt.Errorf("%w: entrypoint must be set before Run", ErrRegistrationClosed))
	}
	a.description = description
	a.root.Short = description
	a.entrypoint = handler
}

// Subcommand registers a subcommand. Dashes and underscores in name are interchangeable;
// the command line uses dashes and the configuration section uses underscores.
func (a *App) Subcommand(name, description string, handler Handler, hidden bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.prepared {
		panic(fmt.Errorf("%w: subcommand %q must be registered before Run", ErrRegistrationClosed, name))
	}
	section := sectionName(name)
	if section == GeneralSection || section == UserSection || !isValidKeySegment(section) {
		panic(fmt.Errorf("invalid subcommand name %q", name))
	}
	if _, exists := a.subcommands[section]; exists {
		panic(fmt.Errorf("%w: %q", ErrDuplicateSubcommand, name))
	}

	sub := &subcommand{
		name:        section,
		description: description,
		hidden:      hidden,
		handler:     handler,
	}
	sub.cmd = &cobra.Command{
		Use:    strings.ReplaceAll(section, "_", "-"),
		Short:  description,
		Hidden: hidden,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, positional []string) error {
			return a.dispatch(cmd.Context(), section, positional)
		},
	}
	a.subcommands[section] = sub
	a.root.AddCommand(sub.cmd)
}

// Argument declares a flag on the entrypoint (scope GeneralSection or "") or on a subcommand.
// Declaring into an unknown scope or after Run panics.
func (a *App) Argument(scope string, arg Argument) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.argumentLocked(scope, arg); err != nil {
		panic(err)
	}
}

func (a *App) argumentLocked(scope string, arg Argument) error {
	if scope == "" {
		scope = GeneralSection
	}
	scope = sectionName(scope)
	if scope != GeneralSection {
		if _, exists := a.subcommands[scope]; !exists {
			return fmt.Errorf("%w: %q", ErrUnknownScope, scope)
		}
	}

	flag := strings.TrimLeft(arg.Name, "-")
	record := ArgumentRecord{
		Scope:   scope,
		Name:    flagToName(flag),
		Flag:    flag,
		Default: arg.Default,
		Kind:    arg.Kind,
		ArgOnly: arg.ArgOnly,
	}

	var err error
	if arg.Kind == KindToggle {
		def, _ := arg.Default.(bool)
		err = a.registry.DeclareToggle(scope, record.Name, def)
	} else {
		err = a.registry.Declare(record)
	}
	if err != nil {
		return err
	}

	if a.arguments[scope] == nil {
		a.arguments[scope] = make(map[string]Argument)
	}
	a.arguments[scope][record.Name] = arg
	return nil
}

// Run parses the command line, merges it into the configuration, configures
// logging and runs the selected handler. Panics in handlers are logged and
// reported as ExitFatal.
func (a *App) Run(ctx context.Context) (code int) {
	defer func() {
		if r := recover(); r != nil {
			a.Log().Error("uncaught failure", zap.Any("panic", r), zap.Stack("stack"))
			code = ExitFatal
		}
		a.flushLog()
	}()

	if err := a.prepare(); err != nil {
		a.Log().Error("command line setup failed", zap.Error(err))
		return ExitFatal
	}

	// A nil slice would make cobra fall back to os.Args
	args := append([]string{}, a.rawArgs...)
	a.root.SetArgs(args)
	err := a.root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var failure *handlerError
	if errors.As(err, &failure) {
		a.Log().Error("command failed", zap.String("command", a.active), zap.Error(failure.err))
		return ExitFatal
	}
	fmt.Fprintf(a.errOut, "Error: %v\n", err)
	fmt.Fprintf(a.errOut, "Run '%s --help' for usage.\n", a.root.CommandPath())
	return ExitUsage
}

// Main runs the application and exits the process with its exit code.
func (a *App) Main() {
	os.Exit(a.Run(context.Background()))
}

// prepare closes registration and binds every declared argument to its flag set.
func (a *App) prepare() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.prepared {
		a.diag.Debug("command line already prepared")
		return nil
	}
	a.prepared = true
	a.registry.Close()

	if len(a.subcommands) == 0 {
		a.root.Args = cobra.ArbitraryArgs
	}

	for _, scope := range a.registry.Scopes() {
		fs := a.flagSetFor(scope)
		if fs == nil {
			return fmt.Errorf("%w: %q", ErrUnknownScope, scope)
		}
		for _, group := range groupByName(a.registry.Records(scope)) {
			record := group[len(group)-1]
			if isTogglePair(group) {
				record = group[0]
				record.Kind = KindToggle
			}
			decl := a.arguments[scope][record.Name]
			b, err := bindFlag(fs, record, decl.Short, decl.Help)
			if err != nil {
				return err
			}
			a.bindings[scope] = append(a.bindings[scope], b)
		}
	}
	return nil
}

func (a *App) flagSetFor(scope string) *pflag.FlagSet {
	if scope == GeneralSection {
		return a.root.PersistentFlags()
	}
	if sub, exists := a.subcommands[scope]; exists {
		return sub.cmd.Flags()
	}
	return nil
}

// groupByName splits name-ordered records into runs sharing a destination
func groupByName(records []ArgumentRecord) [][]ArgumentRecord {
	var groups [][]ArgumentRecord
	for i, record := range records {
		if i > 0 && records[i-1].Name == record.Name {
			groups[len(groups)-1] = append(groups[len(groups)-1], record)
			continue
		}
		groups = append(groups, []ArgumentRecord{record})
	}
	return groups
}

// dispatch merges, validates and runs the handler for scope.
func (a *App) dispatch(ctx context.Context, scope string, positional []string) error {
	if err := a.merge(scope, positional); err != nil {
		return &handlerError{err: err}
	}

	for _, validate := range a.validators {
		if err := validate(a); err != nil {
			return &handlerError{err: fmt.Errorf("configuration validation failed: %w", err)}
		}
	}

	handler := a.entrypoint
	if scope != GeneralSection {
		handler = a.subcommands[scope].handler
	}
	if handler == nil {
		return &handlerError{err: ErrNoEntrypoint}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if err := handler(ctx, a); err != nil {
		return &handlerError{err: err}
	}
	return nil
}

func (a *App) merge(scope string, positional []string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.mergeLocked(scope, positional)
}

// mergeLocked collects parsed flags, merges them into the configuration and sets up logging.
// A second call is a no-op.
func (a *App) mergeLocked(scope string, positional []string) error {
	if a.merged {
		a.logger.Debug("arguments already parsed, ignoring")
		return nil
	}
	a.merged = true
	a.active = scope
	a.positional = positional

	parsed := make(map[string]ParsedValue)
	for _, b := range a.bindings[GeneralSection] {
		parsed[b.record.Name] = b.parsed()
	}
	if scope != GeneralSection {
		for _, b := range a.bindings[scope] {
			if _, exists := parsed[b.record.Name]; !exists {
				parsed[b.record.Name] = b.parsed()
			}
		}
	}
	for name, value := range parsed {
		a.args.Set(name, value.Value)
	}

	active := ""
	if scope != GeneralSection {
		active = scope
	}
	mergeErr := Merge(MergeInput{
		Registry:   a.registry,
		Parsed:     parsed,
		Subcommand: active,
		Config:     a.config,
		Source:     a.source,
		Logger:     a.diag,
	})

	if err := a.configureLoggingLocked(); err != nil {
		return errors.Join(mergeErr, err)
	}
	return mergeErr
}

// Config returns the merged configuration tree.
func (a *App) Config() *Tree {
	return a.config
}

// ConfigSource returns the provenance tree: each value is SourceConfigFile or SourceArgument.
// Options without an entry carry a compiled-in default.
func (a *App) ConfigSource() *Tree {
	return a.source
}

// Args returns the parsed arguments of the general scope and the active subcommand.
func (a *App) Args() *AttrDict {
	return a.args
}

// Positional returns the non-flag arguments given to the active command.
func (a *App) Positional() []string {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return append([]string(nil), a.positional...)
}

// ActiveCommand returns the section of the running subcommand, or GeneralSection for the entrypoint.
func (a *App) ActiveCommand() string {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.active
}

// Log returns the application logger.
func (a *App) Log() *zap.Logger {
	return a.logger
}

// Name returns the application name.
func (a *App) Name() string {
	return a.name
}

// ConfigFile returns the configuration file location.
func (a *App) ConfigFile() string {
	return a.store.Path()
}

// Echo writes a formatted line to the application's output.
func (a *App) Echo(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// SaveConfig writes options whose provenance is the config file.
// Failures keep the previous file and are logged as warnings.
func (a *App) SaveConfig() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.store.Save(a.config, a.source); err != nil {
		a.logger.Warn("config file saving failed", zap.String("path", a.store.Path()), zap.Error(err))
		return err
	}
	a.logger.Info("wrote configuration", zap.String("path", a.store.Path()))
	return nil
}
