// FILE: lixenwraith/cli/tree.go
package cli

import (
	"strings"
	"sync"
)

// Reserved section names
const (
	// GeneralSection holds arguments declared on the entrypoint
	GeneralSection = "general"
	// UserSection supplies fallback values for every other section
	UserSection = "user"
)

// Tree is a two-level configuration store: sections of options.
// Unknown sections are created on access, so every path yields a value or nil.
type Tree struct {
	sections map[string]*Section
	mutex    sync.RWMutex
}

// Section is a named group of options inside a Tree.
// Reads of absent or nil options fall back to the tree's user section.
type Section struct {
	name    string
	parent  *Tree // navigation only, the tree owns its sections
	options map[string]any
	mutex   sync.RWMutex
}

// NewTree creates an empty configuration tree.
func NewTree() *Tree {
	return &Tree{sections: make(map[string]*Section)}
}

// Section returns the named section, creating it if needed.
func (t *Tree) Section(name string) *Section {
	t.mutex.RLock()
	section, exists := t.sections[name]
	t.mutex.RUnlock()
	if exists {
		return section
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	// Re-check after upgrading the lock
	if section, exists = t.sections[name]; exists {
		return section
	}
	section = &Section{name: name, parent: t, options: make(map[string]any)}
	t.sections[name] = section
	return section
}

// Attr is the attribute view of Section.
func (t *Tree) Attr(name string) *Section {
	return t.Section(name)
}

// lookupSection returns a section without creating it.
func (t *Tree) lookupSection(name string) (*Section, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	section, exists := t.sections[name]
	return section, exists
}

// Get resolves a dot-separated "section.option" path.
// A path without a dot addresses an option of the general section.
func (t *Tree) Get(path string) any {
	section, option := splitPath(path)
	return t.Section(section).Get(option)
}

// Set stores a value under a dot-separated "section.option" path.
func (t *Tree) Set(path string, value any) {
	section, option := splitPath(path)
	t.Section(section).Set(option, value)
}

// Contains reports whether a section exists.
func (t *Tree) Contains(name string) bool {
	_, exists := t.lookupSection(name)
	return exists
}

// Delete removes a section and all of its options.
func (t *Tree) Delete(name string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	delete(t.sections, name)
}

// Len returns the number of sections.
func (t *Tree) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.sections)
}

// Keys returns section names in sorted order.
func (t *Tree) Keys() []string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return sortedKeys(t.sections)
}

// Items returns a snapshot of the tree as nested maps holding only local values.
func (t *Tree) Items() map[string]map[string]any {
	t.mutex.RLock()
	sections := make([]*Section, 0, len(t.sections))
	for _, section := range t.sections {
		sections = append(sections, section)
	}
	t.mutex.RUnlock()

	items := make(map[string]map[string]any, len(sections))
	for _, section := range sections {
		items[section.name] = section.Items()
	}
	return items
}

// Clone returns a deep copy of the tree. Values are copied by assignment.
func (t *Tree) Clone() *Tree {
	clone := NewTree()
	for name, options := range t.Items() {
		section := clone.Section(name)
		for option, value := range options {
			section.options[option] = value
		}
	}
	return clone
}

// Name returns the section name.
func (s *Section) Name() string {
	return s.name
}

// Get returns the local value when present and non-nil, otherwise the value of
// the same option in the user section, otherwise nil. Falsy local values such as
// false, 0 and "" are authoritative.
func (s *Section) Get(option string) any {
	if value, exists := s.Lookup(option); exists && value != nil {
		return value
	}
	return s.fallback(option)
}

// Attr is the attribute view of Get and follows the same resolution rule.
func (s *Section) Attr(option string) any {
	if isReservedName(option) {
		return nil
	}
	return s.Get(option)
}

// fallback reads option from the user section without creating it.
// The lookup is single-level: the user section never falls back further.
func (s *Section) fallback(option string) any {
	if s.parent == nil || s.name == UserSection {
		return nil
	}
	user, exists := s.parent.lookupSection(UserSection)
	if !exists {
		return nil
	}
	value, _ := user.Lookup(option)
	return value
}

// Lookup returns the locally stored value and whether the option is present.
func (s *Section) Lookup(option string) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	value, exists := s.options[option]
	return value, exists
}

// Set stores value under option.
func (s *Section) Set(option string, value any) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.options[option] = value
}

// Delete removes option if present.
func (s *Section) Delete(option string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.options, option)
}

// Contains reports whether option is stored locally.
func (s *Section) Contains(option string) bool {
	_, exists := s.Lookup(option)
	return exists
}

// Len returns the number of local options.
func (s *Section) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.options)
}

// Keys returns local option names in sorted order.
func (s *Section) Keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return sortedKeys(s.options)
}

// Items returns a snapshot copy of the local options.
func (s *Section) Items() map[string]any {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	items := make(map[string]any, len(s.options))
	for option, value := range s.options {
		items[option] = value
	}
	return items
}

// splitPath separates "section.option"; the option part may itself contain dots.
func splitPath(path string) (string, string) {
	section, option, found := strings.Cut(path, ".")
	if !found {
		return GeneralSection, path
	}
	return section, option
}
