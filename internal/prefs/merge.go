package prefs

import (
	"fmt"
	"strings"
)

// headerLines is the length of the comment banner at the top of the
// upstream user.js. These lines are copied through verbatim; declaration
// syntax inside them is never parsed.
const headerLines = 76

// Merge combines a base document and an overrides document into one blob.
//
// The first headerLines lines of base are emitted unchanged, followed by a
// blank line, followed by every declaration from base overlaid with every
// declaration from overrides (override wins on key conflicts, last one wins
// within overrides). Output order is first appearance across base then
// overrides, so merging is deterministic. All other body text is dropped.
//
// A malformed declaration in either document fails the whole merge rather
// than producing partial output.
func Merge(base, overrides string) (string, error) {
	baseLines := strings.Split(base, "\n")

	n := headerLines
	if n > len(baseLines) {
		n = len(baseLines)
	}
	header := strings.Join(baseLines[:n], "\n")

	set := NewSet()
	if err := collect(set, baseLines); err != nil {
		return "", fmt.Errorf("merging base document: %w", err)
	}
	if err := collect(set, strings.Split(overrides, "\n")); err != nil {
		return "", fmt.Errorf("merging overrides: %w", err)
	}

	return header + "\n\n" + set.Serialize(), nil
}

// collect scans lines for declarations and inserts them into set.
func collect(set *Set, lines []string) error {
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !IsDeclaration(line) {
			continue
		}
		e, err := Extract(line)
		if err != nil {
			return err
		}
		set.Put(e.Key, e.Value)
	}
	return nil
}
