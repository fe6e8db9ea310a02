package schema

import (
	"fmt"
	"sort"

	"github.com/reoring/formtree/internal/jsonorder"
)

// ParseJSON parses a root schema from JSON, keeping property order.
func ParseJSON(b []byte) (*Element, error) {
	v, err := jsonorder.DecodeJSON(b)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return ParseRoot(v)
}

// ParseYAML parses a root schema from YAML, keeping property order.
func ParseYAML(b []byte) (*Element, error) {
	v, err := jsonorder.DecodeYAML(b)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return ParseRoot(v)
}

// MustParseJSON is like ParseJSON but panics on error.
func MustParseJSON(s string) *Element {
	e, err := ParseJSON([]byte(s))
	if err != nil {
		panic(err)
	}
	return e
}

// ParseRoot parses a decoded root schema. A root without "properties" is
// read as a bare property map: {"name": {...}} is the same as
// {"type": "object", "properties": {"name": {...}}}.
func ParseRoot(v any) (*Element, error) {
	obj, err := asObject(v, "")
	if err != nil {
		return nil, err
	}
	if _, ok := obj.Get("properties"); !ok {
		wrapped := jsonorder.NewObject()
		wrapped.Set("type", "object")
		wrapped.Set("properties", obj)
		obj = wrapped
	}
	return parseElement(obj, "")
}

// Parse parses a single decoded schema element.
func Parse(v any) (*Element, error) { return parseElement(v, "") }

func asObject(v any, at string) (*jsonorder.Object, error) {
	switch x := v.(type) {
	case *jsonorder.Object:
		return x, nil
	case map[string]any:
		// Unordered input: fall back to lexical order.
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := jsonorder.NewObject()
		for _, k := range keys {
			o.Set(k, x[k])
		}
		return o, nil
	}
	return nil, fmt.Errorf("schema: element at %q must be an object, got %T", at, v)
}

func parseElement(v any, at string) (*Element, error) {
	obj, err := asObject(v, at)
	if err != nil {
		return nil, err
	}
	e := &Element{Raw: jsonorder.Plain(obj).(map[string]any)}

	switch t := e.Raw["type"].(type) {
	case string:
		e.Type = []string{t}
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok {
				e.Type = append(e.Type, s)
			}
		}
	}
	e.Title, _ = e.Raw["title"].(string)
	e.Description, _ = e.Raw["description"].(string)
	e.Format, _ = e.Raw["format"].(string)
	e.Pattern, _ = e.Raw["pattern"].(string)
	e.Ref, _ = e.Raw["$ref"].(string)
	if d, ok := e.Raw["default"]; ok {
		e.Default, e.HasDefault = d, true
	}
	if en, ok := e.Raw["enum"].([]any); ok {
		e.Enum = en
	}
	e.MinItems = intField(e.Raw, "minItems")
	e.MaxItems = intField(e.Raw, "maxItems")
	e.MinLength = intField(e.Raw, "minLength")
	e.MaxLength = intField(e.Raw, "maxLength")
	e.Minimum = floatField(e.Raw, "minimum")
	e.Maximum = floatField(e.Raw, "maximum")
	// exclusiveMinimum/Maximum: boolean modifiers (draft 4) or bounds (draft 6+).
	switch x := e.Raw["exclusiveMinimum"].(type) {
	case bool:
		e.ExclusiveMinimum = x
	case float64:
		e.Minimum, e.ExclusiveMinimum = &x, true
	}
	switch x := e.Raw["exclusiveMaximum"].(type) {
	case bool:
		e.ExclusiveMaximum = x
	case float64:
		e.Maximum, e.ExclusiveMaximum = &x, true
	}
	e.Step = e.Raw["step"]
	if ro, ok := e.Raw["readOnly"].(bool); ok {
		e.ReadOnly = ro
	} else if ro, ok := e.Raw["readonly"].(bool); ok {
		e.ReadOnly = ro
	}
	switch r := e.Raw["required"].(type) {
	case bool:
		e.Required = r
	case []any:
		for _, x := range r {
			if s, ok := x.(string); ok {
				e.RequiredNames = append(e.RequiredNames, s)
			}
		}
	}

	if pv, ok := obj.Get("properties"); ok {
		po, err := asObject(pv, at+"/properties")
		if err != nil {
			return nil, err
		}
		e.Properties = NewProperties()
		for _, name := range po.Keys {
			child, err := parseElement(po.Values[name], at+"/properties/"+name)
			if err != nil {
				return nil, err
			}
			e.Properties.Add(name, child)
		}
	}
	if iv, ok := obj.Get("items"); ok {
		if tuple, ok := iv.([]any); ok {
			for i, it := range tuple {
				child, err := parseElement(it, fmt.Sprintf("%s/items/%d", at, i))
				if err != nil {
					return nil, err
				}
				e.ItemsTuple = append(e.ItemsTuple, child)
			}
		} else {
			child, err := parseElement(iv, at+"/items")
			if err != nil {
				return nil, err
			}
			e.Items = child
		}
	}
	return e, nil
}

func intField(m map[string]any, k string) *int {
	switch x := m[k].(type) {
	case float64:
		n := int(x)
		return &n
	case int:
		return &x
	}
	return nil
}

func floatField(m map[string]any, k string) *float64 {
	if x, ok := m[k].(float64); ok {
		return &x
	}
	return nil
}
