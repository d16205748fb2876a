// FILE: lixenwraith/cli/attrdict.go
package cli

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// reservedPrefix marks keys that are stored but hidden from attribute access
const reservedPrefix = "_"

// AttrDict is a string-keyed container readable by key or by attribute name.
// Reading an absent key returns ErrKeyNotFound. It backs the parsed arguments.
type AttrDict struct {
	data  map[string]any
	mutex sync.RWMutex
}

// NewAttrDict creates an empty strict container.
func NewAttrDict() *AttrDict {
	return &AttrDict{data: make(map[string]any)}
}

// Get returns the value stored under key.
func (d *AttrDict) Get(key string) (any, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	value, exists := d.data[key]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return value, nil
}

// Attr returns the value stored under name through the attribute view.
// Reserved names (leading underscore) are never visible here.
func (d *AttrDict) Attr(name string) (any, error) {
	if isReservedName(name) {
		return nil, fmt.Errorf("%w: %q is reserved", ErrKeyNotFound, name)
	}
	return d.Get(name)
}

// Set stores value under key. The key and attribute views change together.
func (d *AttrDict) Set(key string, value any) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.data[key] = value
}

// Delete removes key if present.
func (d *AttrDict) Delete(key string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.data, key)
}

// Contains reports whether key is stored.
func (d *AttrDict) Contains(key string) bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	_, exists := d.data[key]
	return exists
}

// Len returns the number of stored keys.
func (d *AttrDict) Len() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.data)
}

// Keys returns the stored keys in sorted order.
func (d *AttrDict) Keys() []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return sortedKeys(d.data)
}

// Values returns the stored values ordered by key.
func (d *AttrDict) Values() []any {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	keys := sortedKeys(d.data)
	values := make([]any, 0, len(keys))
	for _, key := range keys {
		values = append(values, d.data[key])
	}
	return values
}

// Items returns a snapshot copy of the backing map.
func (d *AttrDict) Items() map[string]any {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	items := make(map[string]any, len(d.data))
	for key, value := range d.data {
		items[key] = value
	}
	return items
}

// SparseAttrDict never fails on reads: absent keys read as nil and are created.
type SparseAttrDict struct {
	AttrDict
}

// NewSparseAttrDict creates an empty sparse container.
func NewSparseAttrDict() *SparseAttrDict {
	return &SparseAttrDict{AttrDict: AttrDict{data: make(map[string]any)}}
}

// Get returns the value under key, creating a nil entry when absent.
func (d *SparseAttrDict) Get(key string) any {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	value, exists := d.data[key]
	if !exists {
		d.data[key] = nil
	}
	return value
}

// Attr returns the value under name, or nil for absent and reserved names.
func (d *SparseAttrDict) Attr(name string) any {
	if isReservedName(name) {
		return nil
	}
	return d.Get(name)
}

func isReservedName(name string) bool {
	return strings.HasPrefix(name, reservedPrefix)
}

// sortedKeys returns map keys in a stable order for deterministic iteration
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
