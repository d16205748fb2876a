// File: lixenwraith/cli/doc.go

// Package cli provides scaffolding for command-line applications: a command tree
// with subcommands, layered configuration merged from a config file and the
// command line, and structured logging configured from that configuration.
//
// Features:
//   - Entrypoint and subcommands with per-command flags (cobra/pflag)
//   - INI configuration file by default, TOML and YAML by extension
//   - Per-option provenance: config file, command line, or compiled-in default
//   - Atomic config file saves that never replace a file with nothing
//   - A "user" section whose options act as defaults for every other section
//   - zap logging set up from the general section (verbosity, format, file, color)
//   - Thread-safe configuration containers
//
// Quick Start:
//
//	app := cli.NewBuilder().
//	    WithName("hello").
//	    WithVersion("1.0.0").
//	    MustBuild()
//
//	app.Entrypoint("Greet someone", func(ctx context.Context, app *cli.App) error {
//	    name, _ := app.Config().Section("general").String("name")
//	    app.Echo("Hello, %s!", name)
//	    return nil
//	})
//	app.Argument("", cli.Argument{Name: "name", Short: "n", Default: "World", Help: "Who to greet"})
//	app.Main()
//
// Precedence per option (highest to lowest):
//  1. Flags given on the command line (--name=Alice)
//  2. The configuration file ([general] name = Bob)
//  3. Argument defaults
//
// Flags belong to the general section when declared on the entrypoint and to a
// section named after the subcommand otherwise, with dashes turned into underscores.
// Toggles declare both --flag and --no-flag.
//
// Thread Safety:
// Trees, sections and argument dictionaries guard their data with read-write
// mutexes. App serializes declarations, merging and saving behind one mutex.
package cli
