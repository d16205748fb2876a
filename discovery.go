// FILE: lixenwraith/cli/discovery.go
package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// configFileFlag is checked in the raw arguments before any parsing
const configFileFlag = "--config-file"

// indexArg returns the position of a long flag in args, matching both
// "--flag value" and "--flag=value" forms, or -1.
func indexArg(args []string, flag string) int {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name, _, _ := strings.Cut(arg, "=")
		if name == flag {
			return i
		}
	}
	return -1
}

// flagValue extracts the value of a long flag from raw arguments.
func flagValue(args []string, flag string) (string, bool) {
	i := indexArg(args, flag)
	if i < 0 {
		return "", false
	}
	if _, value, found := strings.Cut(args[i], "="); found {
		return value, true
	}
	if i+1 < len(args) {
		return args[i+1], true
	}
	return "", false
}

// FindConfigFile resolves the configuration file location.
// An explicit --config-file in args wins; otherwise the per-user config directory is used.
func FindConfigFile(appName, appAuthor string, args []string) string {
	if path, found := flagValue(args, configFileFlag); found && path != "" {
		return resolvePath(path)
	}
	return filepath.Join(userConfigDir(appName, appAuthor), appName+".ini")
}

// resolvePath expands a leading ~ and makes the path absolute.
func resolvePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// userConfigDir returns the per-user configuration directory for the application.
// XDG rules apply on Linux and BSDs, the platform directory elsewhere.
func userConfigDir(appName, appAuthor string) string {
	switch runtime.GOOS {
	case "windows":
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, appAuthor, appName)
		}
	case "darwin":
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, appName)
		}
	default:
		if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
			return filepath.Join(xdgHome, appName)
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appName)
		}
	}
	return filepath.Join(".", appName)
}
