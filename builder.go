// File: lixenwraith/cli/builder.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Builder provides a fluent interface for building applications
type Builder struct {
	name        string
	version     string
	author      string
	description string
	configFile  string
	args        []string
	fs          afero.Fs
	logger      *zap.Logger
	out         io.Writer
	errOut      io.Writer
	err         error
	validators  []ValidatorFunc
}

// NewBuilder creates a new application builder.
// The name defaults to the executable name and the arguments to os.Args[1:].
func NewBuilder() *Builder {
	name := strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
	return &Builder{
		name:       name,
		args:       os.Args[1:],
		out:        os.Stdout,
		errOut:     os.Stderr,
		validators: make([]ValidatorFunc, 0),
	}
}

// WithName sets the application name used for help output and config file discovery
func (b *Builder) WithName(name string) *Builder {
	if name == "" {
		b.err = errors.New("application name cannot be empty")
		return b
	}
	b.name = name
	return b
}

// WithVersion sets the version reported by --version
func (b *Builder) WithVersion(version string) *Builder {
	b.version = version
	return b
}

// WithAuthor sets the author, used in the config directory on Windows
func (b *Builder) WithAuthor(author string) *Builder {
	b.author = author
	return b
}

// WithDescription sets the entrypoint description
func (b *Builder) WithDescription(description string) *Builder {
	b.description = description
	return b
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithConfigFile sets the configuration file path, bypassing discovery
func (b *Builder) WithConfigFile(path string) *Builder {
	b.configFile = path
	return b
}

// WithFs sets the filesystem the configuration file lives on
func (b *Builder) WithFs(fs afero.Fs) *Builder {
	b.fs = fs
	return b
}

// WithLogger sets a fixed logger. The general logging options are then not applied.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithOutput sets where Echo, help and log output go
func (b *Builder) WithOutput(out, errOut io.Writer) *Builder {
	if out != nil {
		b.out = out
	}
	if errOut != nil {
		b.errOut = errOut
	}
	return b
}

// WithValidator adds a validation function that runs after merging, before any handler.
// Multiple validators run in the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the App, reading the configuration file if it exists
func (b *Builder) Build() (*App, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.fs == nil {
		b.fs = afero.NewOsFs()
	}

	app, err := newApp(b)
	if err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}
	return app, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *App {
	app, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("application build failed: %v", err))
	}
	return app
}
