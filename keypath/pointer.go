package keypath

import (
	"strconv"
	"strings"
)

// FromPointer converts a JSON Pointer, optionally prefixed by a URI and '#',
// into a key path:
//
//	FromPointer("urn:form#/pictures/1/thumbnail") == "pictures[1].thumbnail"
//
// Numeric tokens after the first one are read as array indices.
func FromPointer(ptr string) string {
	if i := strings.LastIndexByte(ptr, '#'); i >= 0 {
		ptr = ptr[i+1:]
	}
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, tok := range strings.Split(ptr, "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		if i > 0 {
			if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
				b.WriteString("[" + tok + "]")
				continue
			}
			b.WriteByte('.')
		}
		b.WriteString(tok)
	}
	return b.String()
}

// ToPointer renders a concrete key path as a JSON Pointer.
func ToPointer(p Path) string {
	var b strings.Builder
	for _, seg := range p {
		if seg.Name != "" {
			b.WriteByte('/')
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg.Name, "~", "~0"), "/", "~1"))
		}
		for _, idx := range seg.Indices {
			b.WriteByte('/')
			if idx == Generic {
				b.WriteByte('-')
				continue
			}
			b.WriteString(strconv.Itoa(idx))
		}
	}
	return b.String()
}

// Slugify replaces spaces with underscores so s can be used in identifiers.
func Slugify(s string) string { return strings.ReplaceAll(s, " ", "_") }

// Dash renders key in a form usable as a class name: dots become "---".
func Dash(key string) string { return Slugify(strings.ReplaceAll(key, ".", "---")) }
