// Package inspect provides device inspection and component manipulation utilities.
//
// The inspect package offers a unified interface for:
//   - Parsing dotted path expressions (e.g., "tower1.h1n_state")
//   - Reading signals and positioners
//   - Moving positioners and writing signals
//   - Formatting output for display
package inspect

import (
	"errors"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("invalid path format")
)

// Path represents a parsed component path.
// Format: attr[.attr...], e.g. "calc.th1_c.motor.user_readback".
type Path struct {
	// Segments are the attribute names from the device root.
	Segments []string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a dotted path. A leading device name followed by a
// dot is not stripped; paths are always relative to the device root.
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	parts := strings.Split(input, ".")
	for _, part := range parts {
		if !validSegment(part) {
			return nil, ErrInvalidPath
		}
	}
	return &Path{Segments: parts, Raw: input}, nil
}

// String returns the path in dotted form.
func (p *Path) String() string {
	return strings.Join(p.Segments, ".")
}

// Parent returns the path without its last segment, or nil at the root.
func (p *Path) Parent() *Path {
	if len(p.Segments) <= 1 {
		return nil
	}
	segs := append([]string(nil), p.Segments[:len(p.Segments)-1]...)
	return &Path{Segments: segs, Raw: strings.Join(segs, ".")}
}

// Last returns the final attribute name.
func (p *Path) Last() string {
	return p.Segments[len(p.Segments)-1]
}

// validSegment accepts attribute names made of letters, digits and '_'.
func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
