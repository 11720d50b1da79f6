// Package header extracts the identity/version/date record embedded as
// comments at the top of a user.js file.
//
// The upstream file opens with a fixed four-line prologue:
//
//	/******
//	* name: ghacks user.js
//	* date: 14 February 2020
//	* version 67-alpha
//
// Only these four lines are read; the rest of the document is never touched.
package header

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	nameMarker    = "name: "
	dateMarker    = "date: "
	versionMarker = "version "
)

// Version is the identity triple parsed from a script header. It is
// immutable once constructed; two versions are the same exactly when all
// three fields are equal.
type Version struct {
	Name    string
	Version string
	Date    string
}

// Equal reports structural equality of all three fields.
func (v Version) Equal(o Version) bool {
	return v == o
}

func (v Version) String() string {
	return fmt.Sprintf("%s: %s from %s", v.Name, v.Version, v.Date)
}

// ParseError describes a malformed or unrecognized script header.
type ParseError struct {
	Context string
}

func (e *ParseError) Error() string {
	return "error parsing input: " + e.Context
}

// Parse reads the four leading lines of a script and returns its Version.
// Line 1 is the comment-open marker and is discarded; lines 2-4 must carry
// the name, date, and version markers in that order. The name must contain
// token (the file-family recognition string) or parsing fails. Callers
// never receive a partially populated record: any missing line or marker
// is an error.
func Parse(r io.Reader, token string) (Version, error) {
	sc := bufio.NewScanner(r)

	// Comment-open line.
	if !sc.Scan() {
		return Version{}, scanFailure(sc, "missing comment-open line")
	}

	name, err := markerLine(sc, nameMarker)
	if err != nil {
		return Version{}, err
	}
	date, err := markerLine(sc, dateMarker)
	if err != nil {
		return Version{}, err
	}
	version, err := markerLine(sc, versionMarker)
	if err != nil {
		return Version{}, err
	}

	if !strings.Contains(name, token) {
		return Version{}, &ParseError{Context: "Version not recognized"}
	}

	return Version{Name: name, Version: version, Date: date}, nil
}

// markerLine reads the next line and returns the suffix after marker,
// trimmed of a trailing carriage return.
func markerLine(sc *bufio.Scanner, marker string) (string, error) {
	if !sc.Scan() {
		return "", scanFailure(sc, fmt.Sprintf("missing %q line", strings.TrimSpace(marker)))
	}
	line := sc.Text()
	_, suffix, ok := strings.Cut(line, marker)
	if !ok {
		return "", &ParseError{Context: fmt.Sprintf("line %q lacks %q marker", line, marker)}
	}
	return strings.TrimRight(suffix, "\r"), nil
}

// scanFailure distinguishes an underlying read error from plain truncation.
func scanFailure(sc *bufio.Scanner, context string) error {
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	return &ParseError{Context: context}
}
