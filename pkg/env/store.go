// Package env implements the scoped environment used while resolving a
// dotfiles document: an ordered, parent-linked variable store with
// copy-on-write semantics, and shell-like `$VAR` expansion over it.
package env

import (
	"github.com/arthur-debert/dots/pkg/diagnostics"
)

// Kind distinguishes plain string values from filesystem paths.
type Kind int

const (
	KindString Kind = iota
	KindPath
)

func (k Kind) String() string {
	if k == KindPath {
		return "path"
	}
	return "string"
}

// Value is the content of an environment entry.
type Value struct {
	Kind Kind
	Text string
}

// String returns a plain string value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Path returns a path value.
func Path(s string) Value { return Value{Kind: KindPath, Text: s} }

// Meta records where an entry came from and whether shells should see it.
type Meta struct {
	// Inherited is set for entries read from the host process environment.
	Inherited bool
	// Exported entries are emitted by shell-init.
	Exported bool
	// Origin is the document location that defined the entry, if any.
	Origin *diagnostics.Location
}

// Entry is a value with its metadata.
type Entry struct {
	Value Value
	Meta  Meta
}

// table is the local, insertion-ordered map of a store. It may be shared
// between clones until one of them writes.
type table struct {
	keys    []string
	entries map[string]Entry
}

func newTable() *table {
	return &table{entries: make(map[string]Entry)}
}

func (t *table) clone() *table {
	c := &table{
		keys:    make([]string, len(t.keys)),
		entries: make(map[string]Entry, len(t.entries)),
	}
	copy(c.keys, t.keys)
	for k, v := range t.entries {
		c.entries[k] = v
	}
	return c
}

// Store is an ordered key/value map with an optional parent. Lookups check
// the local entries first and then walk the parent chain. Writes only ever
// touch the local entries.
//
// A Store is not safe for concurrent mutation.
type Store struct {
	local  *table
	owned  bool
	parent *Store
}

// New returns an empty root store.
func New() *Store {
	return &Store{local: newTable(), owned: true}
}

// FromMap returns a root store seeded with vars in the order given by keys.
// Every entry is marked as inherited.
func FromMap(keys []string, vars map[string]string) *Store {
	s := New()
	for _, k := range keys {
		if v, ok := vars[k]; ok {
			s.Set(k, Entry{Value: String(v), Meta: Meta{Inherited: true}})
		}
	}
	return s
}

// Child returns an empty store whose lookups fall back to s.
func (s *Store) Child() *Store {
	return &Store{local: newTable(), owned: true, parent: s}
}

// Clone returns a store with the same entries and parent as s. Both stores
// share their local entries until either one is written to.
func (s *Store) Clone() *Store {
	s.owned = false
	return &Store{local: s.local, owned: false, parent: s.parent}
}

// Parent returns the store lookups fall back to, or nil.
func (s *Store) Parent() *Store {
	return s.parent
}

// Lookup returns the entry for key, searching the parent chain.
func (s *Store) Lookup(key string) (Entry, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if e, ok := cur.local.entries[key]; ok {
			return e, true
		}
	}
	return Entry{}, false
}

// Get returns the text of the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	e, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	return e.Value.Text, true
}

// Set stores e under key in the local entries. A key that is already
// present keeps its position and takes the new entry.
func (s *Store) Set(key string, e Entry) {
	if !s.owned {
		s.local = s.local.clone()
		s.owned = true
	}
	if _, exists := s.local.entries[key]; !exists {
		s.local.keys = append(s.local.keys, key)
	}
	s.local.entries[key] = e
}

// SetString stores a plain, unexported string value.
func (s *Store) SetString(key, value string) {
	s.Set(key, Entry{Value: String(value)})
}

// Keys returns every visible key: the parent chain's keys first, then keys
// introduced by this store, each once.
func (s *Store) Keys() []string {
	var chain []*Store
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	seen := make(map[string]bool)
	var keys []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, k := range chain[i].local.keys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Len returns the number of visible keys.
func (s *Store) Len() int {
	return len(s.Keys())
}

// KeyValue is a resolved key and its visible entry.
type KeyValue struct {
	Key   string
	Entry Entry
}

// Entries returns every visible entry in Keys order. Entries shadowed by a
// closer store are reported with the closer value.
func (s *Store) Entries() []KeyValue {
	keys := s.Keys()
	out := make([]KeyValue, 0, len(keys))
	for _, k := range keys {
		e, _ := s.Lookup(k)
		out = append(out, KeyValue{Key: k, Entry: e})
	}
	return out
}

// Exported returns the visible entries marked for export.
func (s *Store) Exported() []KeyValue {
	var out []KeyValue
	for _, kv := range s.Entries() {
		if kv.Entry.Meta.Exported {
			out = append(out, kv)
		}
	}
	return out
}

// Map flattens the visible entries into a plain map.
func (s *Store) Map() map[string]string {
	out := make(map[string]string)
	for _, kv := range s.Entries() {
		out[kv.Key] = kv.Entry.Value.Text
	}
	return out
}

// Expand expands input against the visible entries of s.
func (s *Store) Expand(input string) (Expanded, error) {
	return Expand(input, s)
}
