// Package tmpl renders the small templates found in form labels and values.
//
// Two delimiter families are recognized:
//
//	{{ expr }}            interpolates the value of expr
//	{[ if expr ]} ... {[ else ]} ... {[ end ]}   conditional sections
//
// Expressions are evaluated by expr-lang/expr against a closed environment:
// idx, value, getValue(key) and the caller's template data. Builtins are
// disabled. A backslash escapes '{' and '\'.
package tmpl

import (
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// Bag is the data an expression can see.
type Bag struct {
	// Idx is the 1-based position of the enclosing array item.
	Idx int
	// Value is the current value of the field being rendered.
	Value any
	// GetValue looks up the value of another field by key.
	GetValue func(key string) any
	// Data holds extra named values. It cannot shadow idx or value.
	Data map[string]any
}

// HasTemplate reports whether s contains template delimiters.
func HasTemplate(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{[")
}

// Render renders s against bag. Text without delimiters is returned as is.
// An interpolation that fails to compile or run is left in place verbatim.
func Render(s string, bag Bag) string {
	if !HasTemplate(s) && !strings.Contains(s, `\`) {
		return s
	}
	nodes := parse(scan(s))
	var b strings.Builder
	exec(&b, nodes, bag)
	return b.String()
}

// RewriteValueRefs turns "{{values.a.b}}" into "{{getValue("a.b")}}" so that
// references to other fields go through the bag's lookup function.
func RewriteValueRefs(s string) string {
	const open, close = "{{values.", "}}"
	var b strings.Builder
	pos := 0
	for {
		i := strings.Index(s[pos:], open)
		if i < 0 {
			b.WriteString(s[pos:])
			return b.String()
		}
		start := pos + i
		end := strings.Index(s[start+len(open):], close)
		if end <= 0 {
			b.WriteString(s[pos:])
			return b.String()
		}
		key := s[start+len(open) : start+len(open)+end]
		if strings.ContainsAny(key, "}") {
			b.WriteString(s[pos : start+len(open)])
			pos = start + len(open)
			continue
		}
		b.WriteString(s[pos:start])
		b.WriteString(`{{getValue(` + strconv.Quote(key) + `)}}`)
		pos = start + len(open) + end + len(close)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// Format renders a value the way interpolations print it.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	b, err := j.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
