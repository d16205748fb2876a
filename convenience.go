// File: lixenwraith/cli/convenience.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Transition describes one option changed by SetConfig
type Transition struct {
	Section string
	Option  string
	Old     any
	New     any
}

// String renders the transition as "section.option: old -> new"
func (t Transition) String() string {
	return fmt.Sprintf("%s.%s: %s -> %s", t.Section, t.Option, displayValue(t.Old), displayValue(t.New))
}

// Dump writes the configuration as section.option=value lines in sorted order.
// Without all, options still carrying their compiled-in default are left out.
func (a *App) Dump(w io.Writer, all bool) error {
	for _, line := range a.configLines("", all) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// configLines renders options of one section, or of every section when section is empty
func (a *App) configLines(section string, all bool) []string {
	items := a.config.Items()
	names := sortedKeys(items)
	if section != "" {
		names = []string{section}
	}

	var lines []string
	for _, name := range names {
		options := items[name]
		for _, option := range sortedKeys(options) {
			if !all && a.sourceOf(name, option) == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s.%s=%s", name, option, displayValue(options[option])))
		}
	}
	return lines
}

// Debug returns every configuration value together with where it came from
func (a *App) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString(fmt.Sprintf("Config file: %s\n", a.ConfigFile()))
	b.WriteString("Current values:\n")

	items := a.config.Items()
	for _, section := range sortedKeys(items) {
		for _, option := range sortedKeys(items[section]) {
			origin := a.sourceOf(section, option)
			if origin == "" {
				origin = "default"
			}
			b.WriteString(fmt.Sprintf("  %s.%s = %s (%s)\n", section, option, displayValue(items[section][option]), origin))
		}
	}
	return b.String()
}

// Validate checks that each section.option path has a value
func (a *App) Validate(required ...string) error {
	var missing []string
	for _, path := range required {
		if a.config.Get(path) == nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SetConfig changes one option and marks it for persistence by SaveConfig.
// String values go through the same coercion as the config file; a nil value removes the option on save.
func (a *App) SetConfig(section, option string, value any) (Transition, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if !isValidKeySegment(section) || !isValidKeySegment(option) {
		return Transition{}, fmt.Errorf("invalid option path %q", section+"."+option)
	}
	if s, isString := value.(string); isString {
		coerced, keep := coerceValue(s)
		if !keep {
			coerced = nil
		}
		value = coerced
	}

	old, _ := a.config.Section(section).Lookup(option)
	a.config.Section(section).Set(option, value)
	a.source.Section(section).Set(option, string(SourceConfigFile))

	transition := Transition{Section: section, Option: option, Old: old, New: value}
	a.logger.Debug("configuration changed",
		zap.String("section", section),
		zap.String("option", option),
		zap.Any("old", old),
		zap.Any("new", value))
	return transition, nil
}

func (a *App) sourceOf(section, option string) string {
	sources, exists := a.source.lookupSection(section)
	if !exists {
		return ""
	}
	origin, _ := sources.Lookup(option)
	s, _ := origin.(string)
	return s
}

// displayValue renders a value for reports; nil prints as None
func displayValue(value any) string {
	if value == nil {
		return "None"
	}
	return formatValue(value)
}
