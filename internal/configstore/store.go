// Package configstore persists the shell's configuration graph: named groups
// of key/value pairs kept in a TOML file, one table per group.
package configstore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Store holds every group in memory. Reads never touch the disk; Sync writes
// the whole file back.
//
// A Store is not safe for concurrent use. The shell only touches it from its
// control thread.
type Store struct {
	path   string
	groups map[string]map[string]any
	synced []byte
	dirty  bool
}

// New returns an empty in-memory store. Sync on a store without a path is a
// no-op.
func New() *Store {
	return &Store{groups: make(map[string]map[string]any)}
}

// Open loads the store at path. A missing file yields an empty store that
// will be created on the first Sync.
func Open(path string) (*Store, error) {
	s := New()
	s.path = path
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file, or "" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// HasGroup reports whether a group with that name exists.
func (s *Store) HasGroup(name string) bool {
	_, ok := s.groups[name]
	return ok
}

// Group returns a view of the named group. The group is created on the
// first Set.
func (s *Store) Group(name string) *Group {
	return &Group{store: s, name: name}
}

// Groups returns all group names in sorted order.
func (s *Store) Groups() []string {
	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeleteGroup removes a group and all its keys.
func (s *Store) DeleteGroup(name string) {
	if _, ok := s.groups[name]; ok {
		delete(s.groups, name)
		s.dirty = true
	}
}

// Dirty reports whether there are unsynced changes.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Sync writes pending changes to disk.
func (s *Store) Sync() error {
	if s.path == "" || !s.dirty {
		s.dirty = false
		return nil
	}

	data, err := toml.Marshal(s.groups)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace store: %w", err)
	}

	s.synced = data
	s.dirty = false
	return nil
}

// Reload re-reads the backing file and replaces the in-memory groups. It
// reports false when the file content is what this store last read or wrote,
// which filters out the watcher echo of our own Sync.
func (s *Store) Reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		data = nil
	} else if err != nil {
		return false, fmt.Errorf("read store: %w", err)
	}

	if s.synced != nil && bytes.Equal(data, s.synced) {
		return false, nil
	}

	groups := make(map[string]map[string]any)
	if len(bytes.TrimSpace(data)) > 0 {
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return false, fmt.Errorf("parse store %s: %w", s.path, err)
		}
		for name, v := range raw {
			table, ok := v.(map[string]any)
			if !ok {
				return false, fmt.Errorf("parse store %s: top-level key %q is not a group", s.path, name)
			}
			groups[name] = table
		}
	}

	s.groups = groups
	s.synced = data
	if s.synced == nil {
		s.synced = []byte{}
	}
	s.dirty = false
	return true, nil
}

// Group is a view of one named group.
type Group struct {
	store *Store
	name  string
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Exists reports whether the group is present in the store.
func (g *Group) Exists() bool {
	return g.store.HasGroup(g.name)
}

// Keys returns the group's keys in sorted order.
func (g *Group) Keys() []string {
	table := g.store.groups[g.name]
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is set.
func (g *Group) Has(key string) bool {
	_, ok := g.lookup(key)
	return ok
}

// String returns key as a string, or def when unset. Scalars are formatted.
func (g *Group) String(key, def string) string {
	v, ok := g.lookup(key)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case string:
		return val
	case []any, []string:
		return strings.Join(g.List(key), ",")
	default:
		return fmt.Sprint(val)
	}
}

// Int returns key as an int, or def when unset or not a number.
func (g *Group) Int(key string, def int) int {
	v, ok := g.lookup(key)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case int64:
		return int(val)
	case int:
		return val
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return def
}

// Bool returns key as a bool, or def when unset or not a boolean.
func (g *Group) Bool(key string, def bool) bool {
	v, ok := g.lookup(key)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return def
}

// List returns key as a list of strings. A string value is split on commas;
// empty items are dropped.
func (g *Group) List(key string) []string {
	v, ok := g.lookup(key)
	if !ok {
		return nil
	}

	var items []string
	switch val := v.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []any:
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
	default:
		items = []string{fmt.Sprint(val)}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Set stores a value. Supported types are string, bool, int and []string.
func (g *Group) Set(key string, value any) {
	switch val := value.(type) {
	case int:
		value = int64(val)
	case []string:
		value = append([]string(nil), val...)
	}

	table, ok := g.store.groups[g.name]
	if !ok {
		table = make(map[string]any)
		g.store.groups[g.name] = table
	}
	if old, ok := table[key]; ok && fmt.Sprint(old) == fmt.Sprint(value) {
		return
	}
	table[key] = value
	g.store.dirty = true
}

// Delete removes key from the group.
func (g *Group) Delete(key string) {
	table := g.store.groups[g.name]
	if _, ok := table[key]; ok {
		delete(table, key)
		g.store.dirty = true
	}
}

func (g *Group) lookup(key string) (any, bool) {
	table, ok := g.store.groups[g.name]
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}
