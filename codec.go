// FILE: lixenwraith/cli/codec.go
package cli

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Format names a configuration file encoding
type Format string

const (
	FormatINI  Format = "ini"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// sections is the codec-neutral shape of a configuration file: section -> option -> value
type sections map[string]map[string]any

// Codec converts between file bytes and sections.
type Codec interface {
	Format() Format
	Decode(data []byte) (sections, error)
	Encode(data sections) ([]byte, error)
}

// codecFor picks a codec by file extension. Unknown extensions use INI.
func codecFor(path string) Codec {
	switch detectFileFormat(path) {
	case FormatTOML:
		return tomlCodec{}
	case FormatYAML:
		return yamlCodec{}
	default:
		return iniCodec{}
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatINI
	}
}

type iniCodec struct{}

func (iniCodec) Format() Format { return FormatINI }

func (iniCodec) Decode(data []byte) (sections, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, err
	}

	result := make(sections)
	for _, section := range file.Sections() {
		keys := section.Keys()
		if section.Name() == ini.DefaultSection && len(keys) == 0 {
			continue
		}
		options := make(map[string]any, len(keys))
		for _, key := range keys {
			options[key.Name()] = key.Value()
		}
		result[section.Name()] = options
	}
	return result, nil
}

func (iniCodec) Encode(data sections) ([]byte, error) {
	file := ini.Empty()
	for _, name := range sortedKeys(data) {
		section, err := file.NewSection(name)
		if err != nil {
			return nil, fmt.Errorf("failed to add section %q: %w", name, err)
		}
		options := data[name]
		for _, option := range sortedKeys(options) {
			if _, err := section.NewKey(option, formatValue(options[option])); err != nil {
				return nil, fmt.Errorf("failed to add option %s.%s: %w", name, option, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type tomlCodec struct{}

func (tomlCodec) Format() Format { return FormatTOML }

func (tomlCodec) Decode(data []byte) (sections, error) {
	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromNested(raw), nil
}

func (tomlCodec) Encode(data sections) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(toNested(data)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type yamlCodec struct{}

func (yamlCodec) Format() Format { return FormatYAML }

func (yamlCodec) Decode(data []byte) (sections, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromNested(raw), nil
}

func (yamlCodec) Encode(data sections) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return yaml.Marshal(toNested(data))
}

// fromNested maps a typed document onto sections.
// Top-level scalars belong to the general section, deeper tables flatten into dotted options.
func fromNested(raw map[string]any) sections {
	result := make(sections)
	for key, value := range raw {
		table, isTable := value.(map[string]any)
		if !isTable {
			if result[GeneralSection] == nil {
				result[GeneralSection] = make(map[string]any)
			}
			result[GeneralSection][key] = value
			continue
		}
		if result[key] == nil {
			result[key] = make(map[string]any)
		}
		for option, optionValue := range flattenMap(table, "") {
			result[key][option] = optionValue
		}
	}
	return result
}

// toNested is the inverse of fromNested. Decimals are written as strings to keep precision.
func toNested(data sections) map[string]any {
	nested := make(map[string]any, len(data))
	for name, options := range data {
		table := make(map[string]any, len(options))
		for option, value := range options {
			if d, isDecimal := value.(decimal.Decimal); isDecimal {
				value = formatDecimal(d)
			}
			setNestedValue(table, option, value)
		}
		nested[name] = table
	}
	return nested
}
