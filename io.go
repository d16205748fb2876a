// File: lixenwraith/cli/io.go
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Store reads and writes a configuration file on a filesystem.
type Store struct {
	fs     afero.Fs
	path   string
	codec  Codec
	logger *zap.Logger
}

// NewStore creates a store for path. A nil fs means the OS filesystem.
func NewStore(fs afero.Fs, path string, logger *zap.Logger) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fs:     fs,
		path:   path,
		codec:  codecFor(path),
		logger: logger,
	}
}

// Path returns the configuration file location.
func (s *Store) Path() string {
	return s.path
}

// Format returns the encoding used for the file.
func (s *Store) Format() Format {
	return s.codec.Format()
}

// Load reads the file into a fresh configuration tree and a provenance tree where
// every loaded option is marked SourceConfigFile.
// A missing file yields empty trees and ErrConfigNotFound.
func (s *Store) Load() (*Tree, *Tree, error) {
	config, source := NewTree(), NewTree()

	data, err := s.read()
	if err != nil {
		return config, source, err
	}

	for section, options := range data {
		for option, raw := range options {
			value, keep := normalizeValue(raw)
			if !keep {
				continue
			}
			config.Section(section).Set(option, value)
			source.Section(section).Set(option, string(SourceConfigFile))
		}
	}
	return config, source, nil
}

// read decodes the file contents
func (s *Store) read() (sections, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", s.path, err)
	}

	data, err := s.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s config file '%s': %w", s.codec.Format(), s.path, err)
	}
	return data, nil
}

// Save persists options whose provenance is SourceConfigFile.
// The file is re-read first so options edited externally survive; a nil value removes the option.
// general.config_file is never written.
func (s *Store) Save(config, source *Tree) error {
	data, err := s.read()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}
	if data == nil {
		data = make(sections)
	}

	for section, origins := range source.Items() {
		for option, origin := range origins {
			if origin != string(SourceConfigFile) {
				continue
			}
			value, _ := config.Section(section).Lookup(option)
			applyOption(data, section, option, value)
		}
	}

	return s.write(data)
}

// WriteOption persists a single option, leaving the rest of the file untouched.
func (s *Store) WriteOption(section, option string, value any) error {
	data, err := s.read()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}
	if data == nil {
		data = make(sections)
	}

	applyOption(data, section, option, value)
	return s.write(data)
}

// applyOption sets or removes one option in decoded file data
func applyOption(data sections, section, option string, value any) {
	if section == GeneralSection && option == configFileOption {
		return
	}
	if value == nil {
		delete(data[section], option)
		return
	}
	if data[section] == nil {
		data[section] = make(map[string]any)
	}
	data[section][option] = value
}

// write encodes data and replaces the file atomically.
func (s *Store) write(data sections) error {
	encoded, err := s.codec.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to marshal config data to %s: %w", s.codec.Format(), err)
	}
	if err := atomicWriteFile(s.fs, s.path, encoded); err != nil {
		return err
	}
	s.logger.Debug("configuration written", zap.String("path", s.path), zap.Int("bytes", len(encoded)))
	return nil
}

// atomicWriteFile writes to a temporary file in the target directory and renames it into place.
// An empty temporary file is never renamed, so the previous file survives.
func atomicWriteFile(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	// Ensure the directory exists
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
	}

	tempFile, err := afero.TempFile(fs, dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file in '%s': %w", dir, err)
	}

	tempFilePath := tempFile.Name()
	removed := false
	defer func() {
		if !removed {
			fs.Remove(tempFilePath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temp config file '%s': %w", tempFilePath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temp config file '%s': %w", tempFilePath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp config file '%s': %w", tempFilePath, err)
	}

	info, err := fs.Stat(tempFilePath)
	if err != nil {
		return fmt.Errorf("failed to stat temp config file '%s': %w", tempFilePath, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: not replacing '%s' with '%s'", ErrEmptyConfig, path, tempFilePath)
	}

	if err := fs.Chmod(tempFilePath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on temporary config file '%s': %w", tempFilePath, err)
	}

	// Atomically replace the original file
	if err := fs.Rename(tempFilePath, path); err != nil {
		return fmt.Errorf("failed to rename temp file '%s' to '%s': %w", tempFilePath, path, err)
	}
	removed = true

	return nil
}
