// FILE: lixenwraith/cli/config_command.go
package cli

import (
	"context"
	"fmt"
	"strings"
)

const configCommandName = "config"

// AddConfigCommand registers a "config" subcommand for reading and editing the configuration file.
//
//	app config                      print options set in the file or on the command line
//	app config --all                print every option, defaults included
//	app config section              print one section
//	app config section.option       print one option
//	app config section.option=value set an option and save the file
//	app config section.option=None  remove an option from the file
//
// With --read-only changes are printed but not saved.
func (a *App) AddConfigCommand() {
	a.Subcommand(configCommandName, "Read and write configuration settings", runConfigCommand, false)
	a.Argument(configCommandName, Argument{Name: "all", Short: "a", Kind: KindStoreTrue, ArgOnly: true, Help: "Show all options, including defaults"})
	a.Argument(configCommandName, Argument{Name: "read-only", Kind: KindStoreTrue, ArgOnly: true, Help: "Do not write the configuration file"})
}

func runConfigCommand(ctx context.Context, a *App) error {
	all := argFlag(a.Args(), "all")
	readOnly := argFlag(a.Args(), "read_only")

	tokens := a.Positional()
	if len(tokens) == 0 {
		return a.Dump(a.out, all)
	}

	changed := false
	for _, token := range tokens {
		path, value, isAssignment := strings.Cut(token, "=")
		section, option, hasOption := strings.Cut(path, ".")

		switch {
		case isAssignment:
			if !hasOption {
				return fmt.Errorf("invalid setting %q, expected section.option=value", token)
			}
			transition, err := a.SetConfig(section, option, value)
			if err != nil {
				return err
			}
			a.Echo("%s", transition)
			changed = true

		case hasOption:
			a.Echo("%s.%s=%s", section, option, displayValue(a.config.Get(path)))

		default:
			for _, line := range a.configLines(section, true) {
				a.Echo("%s", line)
			}
		}
	}

	if changed && !readOnly {
		return a.SaveConfig()
	}
	return nil
}

// argFlag reads a boolean argument, treating absence as false
func argFlag(args *AttrDict, name string) bool {
	value, err := args.Get(name)
	if err != nil {
		return false
	}
	b, _ := value.(bool)
	return b
}
