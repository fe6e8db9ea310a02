package keypath

import (
	"strconv"
	"strings"
)

// TruncateToArrayDepth cuts key right before its (depth+1)-th generic array
// marker, keeping the property step that precedes it:
//
//	TruncateToArrayDepth("foo.bar[].baz.toto[].truc[].bidule", 1) == "foo.bar[].baz.toto"
//
// Keys that are not deep enough are returned unchanged.
func TruncateToArrayDepth(key string, depth int) string {
	if key == "" {
		return ""
	}
	pos := 0
	for d := 0; d < depth; d++ {
		i := strings.Index(key[pos:], "[]")
		if i < 0 {
			return key
		}
		pos += i + 2
	}
	i := strings.Index(key[pos:], "[]")
	if i < 0 {
		return key
	}
	return key[:pos+i]
}

// ApplyArrayPath replaces, left to right, the bracketed array levels of key
// with the entries of arrayPath:
//
//	ApplyArrayPath("foo.bar[].baz.toto[].truc[].bidule", []int{4, 2}) == "foo.bar[4].baz.toto[2].truc[].bidule"
//
// Both generic ("[]") and concrete ("[7]") levels are replaced, which lets a
// field name be moved from one item to another. Levels beyond the end of
// arrayPath are left untouched. key may be free text such as a label: only
// brackets followed by '[', '.' or the end of the string count as levels.
func ApplyArrayPath(key string, arrayPath []int) string {
	if key == "" || len(arrayPath) == 0 {
		return key
	}
	return replaceLevels(key, func(depth int, level string) string {
		if depth < len(arrayPath) {
			return "[" + strconv.Itoa(arrayPath[depth]) + "]"
		}
		return level
	})
}

// GenericKey turns every concrete array level of key into "[]".
func GenericKey(key string) string {
	return replaceLevels(key, func(int, string) string { return "[]" })
}

// ParentArray strips a trailing "[]<property>" from key, if present.
func ParentArray(key string) string {
	i := strings.LastIndex(key, "[]")
	if i < 0 || strings.ContainsAny(key[i+2:], "[]") {
		return key
	}
	return key[:i]
}

// replaceLevels walks key with an explicit cursor and hands every array
// level to fn together with its depth.
func replaceLevels(key string, fn func(depth int, level string) string) string {
	var b strings.Builder
	depth := 0
	pos := 0
	for pos < len(key) {
		end, ok := scanLevel(key, pos)
		if !ok {
			b.WriteByte(key[pos])
			pos++
			continue
		}
		b.WriteString(fn(depth, key[pos:end]))
		depth++
		pos = end
	}
	return b.String()
}

// scanLevel reports whether key[pos:] starts with an array level and
// returns the offset right after it.
func scanLevel(key string, pos int) (int, bool) {
	if key[pos] != '[' {
		return 0, false
	}
	i := pos + 1
	for i < len(key) && key[i] >= '0' && key[i] <= '9' {
		i++
	}
	if i >= len(key) || key[i] != ']' {
		return 0, false
	}
	i++
	if i < len(key) && key[i] != '[' && key[i] != '.' {
		return 0, false
	}
	return i, true
}
