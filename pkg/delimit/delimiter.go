// Package delimit reindents text by user supplied delimiter pairs: every
// start delimiter opens a level, every end delimiter closes one, and each
// segment between delimiters is printed on its own line at its level.
//
// It knows nothing about grammars or parse trees and shares no state with
// the outline viewer.
package delimit

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Separator splits the start and end halves of a delimiter pair.
const Separator = "<=>"

var (
	// ErrMissingSeparator is returned for a pair without "<=>".
	ErrMissingSeparator = errors.New("missing delimiter separator `<=>`")
	// ErrTooManySeparators is returned for a pair with more than one "<=>".
	ErrTooManySeparators = errors.New("expected exactly two delimiters: one start and one end delimiter")
	// ErrMustBeChar is returned when a half is empty or not a single-byte
	// character.
	ErrMustBeChar = errors.New("delimiter must be a char")
)

// Delimiter is one start/end pair.
type Delimiter struct {
	Start byte
	End   byte
}

// DefaultDelimiters is used when neither flags nor config name any pair.
var DefaultDelimiters = []Delimiter{{Start: '(', End: ')'}}

// String renders the pair in the form ParseDelimiter accepts.
func (d Delimiter) String() string {
	return string(d.Start) + Separator + string(d.End)
}

// ParseDelimiter parses "S<=>E". Only the first character of each half is
// used, and it must be ASCII since the scanner works on bytes.
func ParseDelimiter(s string) (Delimiter, error) {
	parts := strings.Split(s, Separator)
	switch {
	case len(parts) == 1:
		return Delimiter{}, ErrMissingSeparator
	case len(parts) > 2:
		return Delimiter{}, ErrTooManySeparators
	}
	start, err := firstByte(parts[0])
	if err != nil {
		return Delimiter{}, err
	}
	end, err := firstByte(parts[1])
	if err != nil {
		return Delimiter{}, err
	}
	return Delimiter{Start: start, End: end}, nil
}

// ParseDelimiters parses every pair, stopping at the first error.
func ParseDelimiters(specs []string) ([]Delimiter, error) {
	out := make([]Delimiter, 0, len(specs))
	for _, s := range specs {
		d, err := ParseDelimiter(s)
		if err != nil {
			return nil, &PairError{Pair: s, Err: err}
		}
		out = append(out, d)
	}
	return out, nil
}

// PairError wraps a parse failure with the offending pair.
type PairError struct {
	Pair string
	Err  error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("delimiter %q: %v", e.Pair, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

func firstByte(s string) (byte, error) {
	if s == "" {
		return 0, ErrMustBeChar
	}
	if r, _ := utf8.DecodeRuneInString(s); r >= utf8.RuneSelf {
		return 0, ErrMustBeChar
	}
	return s[0], nil
}
