// Package keypath addresses values inside nested objects with dotted,
// bracketed key paths such as "a.b[3].c".
//
// A path is a sequence of property steps separated by dots; each step may be
// followed by any number of bracketed array indices. An empty bracket pair
// ("[]") is the generic array-level marker used by layouts and schema
// lookups to mean "any item".
package keypath

import (
	"fmt"
	"strconv"
	"strings"
)

// Generic is the index recorded for an empty bracket pair.
const Generic = -1

// Segment is one property step with its trailing array indices.
type Segment struct {
	Name    string
	Indices []int
}

// Path is a parsed key path.
type Path []Segment

// SyntaxError reports a malformed key path.
type SyntaxError struct {
	Path   string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("keypath: %s at offset %d in %q", e.Msg, e.Offset, e.Path)
}

// Parse parses s into a Path. The empty string parses to an empty Path.
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	var p Path
	pos := 0
	for {
		seg, next, err := scanSegment(s, pos)
		if err != nil {
			return nil, err
		}
		p = append(p, seg)
		if next == len(s) {
			return p, nil
		}
		// scanSegment stops on '.' only.
		pos = next + 1
		if pos == len(s) {
			return nil, &SyntaxError{Path: s, Offset: next, Msg: "trailing dot"}
		}
	}
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// scanSegment reads one segment starting at pos and returns the offset of
// the first byte after it.
func scanSegment(s string, pos int) (Segment, int, error) {
	start := pos
	for pos < len(s) && s[pos] != '.' && s[pos] != '[' {
		if s[pos] == ']' {
			return Segment{}, pos, &SyntaxError{Path: s, Offset: pos, Msg: "unexpected ']'"}
		}
		pos++
	}
	seg := Segment{Name: s[start:pos]}
	for pos < len(s) && s[pos] == '[' {
		end := strings.IndexByte(s[pos:], ']')
		if end < 0 {
			return Segment{}, pos, &SyntaxError{Path: s, Offset: pos, Msg: "unclosed '['"}
		}
		digits := s[pos+1 : pos+end]
		idx := Generic
		if digits != "" {
			n, err := strconv.Atoi(digits)
			if err != nil || n < 0 {
				return Segment{}, pos, &SyntaxError{Path: s, Offset: pos + 1, Msg: "invalid index " + strconv.Quote(digits)}
			}
			idx = n
		}
		seg.Indices = append(seg.Indices, idx)
		pos += end + 1
	}
	if pos < len(s) && s[pos] != '.' {
		return Segment{}, pos, &SyntaxError{Path: s, Offset: pos, Msg: "unexpected character after ']'"}
	}
	if seg.Name == "" && len(seg.Indices) == 0 {
		return Segment{}, pos, &SyntaxError{Path: s, Offset: pos, Msg: "empty segment"}
	}
	return seg, pos, nil
}

// String renders the path back to its textual form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
		for _, idx := range seg.Indices {
			if idx == Generic {
				b.WriteString("[]")
				continue
			}
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(idx))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Depth returns the number of array levels in the path.
func (p Path) Depth() int {
	n := 0
	for _, seg := range p {
		n += len(seg.Indices)
	}
	return n
}

// IsGeneric reports whether any array level in the path is the generic marker.
func (p Path) IsGeneric() bool {
	for _, seg := range p {
		for _, idx := range seg.Indices {
			if idx == Generic {
				return true
			}
		}
	}
	return false
}
