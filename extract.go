package formtree

import (
	"math"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/formtree/keypath"
	"github.com/reoring/formtree/schema"
)

// Field is one named value as held by a presentation layer.
type Field struct {
	Name  string
	Value any
}

// ExtractValues builds the structured value object described by root from
// flat fields, coercing each value to its schema type. When remap is not
// empty, field names are rewritten with keypath.ApplyArrayPath first, which
// reads an item's fields as if they belonged to another position.
//
// Fields unknown to the schema and values that coerce to nil are skipped.
// Garbage input never fails: text that does not parse as a number is kept as
// text, malformed object text becomes an empty object.
func ExtractValues(root *schema.Element, fields []Field, remap []int) map[string]any {
	values := map[string]any{}
	for _, f := range fields {
		name := f.Name
		if len(remap) > 0 {
			name = keypath.ApplyArrayPath(name, remap)
		}
		el, err := schema.Resolve(root, name)
		if err != nil || el == nil {
			continue
		}
		if el.CheckboxesAsArray {
			if base, idx, ok := splitLastIndex(name); ok {
				cur, _ := keypath.GetString(values, base)
				list, _ := cur.([]any)
				if list == nil {
					list = []any{}
				}
				if checked(f.Value) && idx < len(el.Enum) {
					list = append(list, el.Enum[idx])
				}
				_ = keypath.SetString(values, base, list)
				continue
			}
		}
		v := coerce(el, f.Value)
		if v == nil {
			continue
		}
		_ = keypath.SetString(values, name, v)
	}
	return values
}

// CollectFields lists the fields bound by input nodes in the subtree of n,
// using the values resolved on the nodes.
func CollectFields(n *Node) []Field {
	var out []Field
	n.Walk(func(c *Node) bool {
		if f, ok := c.Field(); ok {
			out = append(out, f)
		}
		return true
	})
	return out
}

func splitLastIndex(name string) (string, int, bool) {
	if !strings.HasSuffix(name, "]") {
		return "", 0, false
	}
	open := strings.LastIndexByte(name, '[')
	if open < 0 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(name[open+1 : len(name)-1])
	if err != nil || idx < 0 {
		return "", 0, false
	}
	return name[:open], idx, true
}

func checked(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "1" || x == "true" || x == "on"
	}
	return false
}

// primaryType returns the first declared type other than "null".
func primaryType(el *schema.Element) string {
	for _, t := range el.Type {
		if t != "null" {
			return t
		}
	}
	return ""
}

func coerce(el *schema.Element, v any) any {
	switch primaryType(el) {
	case "boolean":
		switch x := v.(type) {
		case string:
			return x != "0" && x != ""
		case nil:
			return false
		}
		return truthy(v)
	case "number", "integer":
		s, ok := v.(string)
		if !ok {
			return v
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		// Non-finite numbers have no JSON form; keep the text.
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
		return v
	case "string":
		if s, ok := v.(string); ok && s == "" && !el.AllowEmpty {
			return nil
		}
		return v
	case "object":
		s, ok := v.(string)
		if !ok {
			return v
		}
		if strings.HasPrefix(s, "{") {
			var out any
			if err := j.Unmarshal([]byte(s), &out); err != nil {
				return map[string]any{}
			}
			return out
		}
		if s == "null" || s == "" {
			return nil
		}
		return v
	}
	return v
}
