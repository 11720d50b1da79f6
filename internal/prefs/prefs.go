// Package prefs parses, merges, and re-serializes user_pref declarations.
//
// A declaration is a single line of the form
//
//	user_pref("browser.startup.page", 0);
//
// The value text is treated as opaque: commas, quotes, and parentheses past
// the first comma split are preserved verbatim and never interpreted.
package prefs

import (
	"fmt"
	"strings"
)

// declPrefix marks a preference declaration line.
const declPrefix = "user_pref("

// Entry is one preference declaration. Value holds the raw, unparsed
// textual expression.
type Entry struct {
	Key   string
	Value string
}

// IsDeclaration reports whether line begins a user_pref declaration.
func IsDeclaration(line string) bool {
	return strings.HasPrefix(line, declPrefix)
}

// Extract parses a declaration line into an Entry. The key has surrounding
// quotes and whitespace stripped; the value is trimmed of whitespace only.
// A line that does not start with the declaration prefix, lacks a closing
// parenthesis, or lacks a comma is malformed.
func Extract(line string) (Entry, error) {
	rest, ok := strings.CutPrefix(line, declPrefix)
	if !ok {
		return Entry{}, fmt.Errorf("line %q is not a user_pref declaration", line)
	}
	body, _, ok := strings.Cut(rest, ")")
	if !ok {
		return Entry{}, fmt.Errorf("declaration %q has no closing parenthesis", line)
	}
	key, value, ok := strings.Cut(body, ",")
	if !ok {
		return Entry{}, fmt.Errorf("declaration %q has no comma", line)
	}
	key = strings.Trim(strings.TrimSpace(key), `"`)
	return Entry{Key: key, Value: strings.TrimSpace(value)}, nil
}

// Set is an order-preserving key→value collection. Re-inserting an existing
// key overwrites its value in place, so serialization order is always order
// of first appearance. A plain map would make merge output unstable across
// runs.
type Set struct {
	entries []Entry
	index   map[string]int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Put inserts or overwrites the value for key.
func (s *Set) Put(key, value string) {
	if i, ok := s.index[key]; ok {
		s.entries[i].Value = value
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, Entry{Key: key, Value: value})
}

// Get returns the value for key and whether it is present.
func (s *Set) Get(key string) (string, bool) {
	i, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.entries[i].Value, true
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entries returns the entries in first-appearance order. The slice is
// shared; callers must not mutate it.
func (s *Set) Entries() []Entry {
	return s.entries
}

// Serialize renders every entry back to declaration syntax, one per line,
// in first-appearance order.
func (s *Set) Serialize() string {
	lines := make([]string, len(s.entries))
	for i, e := range s.entries {
		lines[i] = fmt.Sprintf(`user_pref("%s", %s);`, e.Key, e.Value)
	}
	return strings.Join(lines, "\n")
}
