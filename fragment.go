package formtree

import (
	"fmt"
	"sort"

	"github.com/reoring/formtree/internal/jsonorder"
)

// Fragment is one entry of a form layout. It names a schema key, a
// presentation type, or both, and may nest further fragments.
type Fragment struct {
	Key  string
	Type string
	// Wildcard marks the "*" entry that expands to every schema property.
	Wildcard bool

	Name        string
	ID          string
	Title       string
	Description string
	Legend      string
	Placeholder string
	Prepend     string
	Append      string
	InlineTitle string
	HelpValue   string

	Value    any
	HasValue bool

	ReadOnly      bool
	Disabled      bool
	Required      bool
	NoTitle       bool
	AllowEmpty    bool
	ValueInLegend bool
	Indicator     bool
	Draggable     *bool

	TitleMap map[string]string
	Options  []Option
	Items    []*Fragment

	HTMLClass      string
	FieldHTMLClass string
	Step           any

	// Extra keeps layout properties this package does not interpret.
	Extra map[string]any

	kind Kind
}

// Option is one choice of a select-like element.
type Option struct {
	Value any
	Title string
}

// KeyFragment returns a fragment that only names a schema key.
func KeyFragment(key string) *Fragment { return &Fragment{Key: key} }

// Wildcard returns the "*" fragment.
func Wildcard() *Fragment { return &Fragment{Wildcard: true} }

// Kind returns the kind resolved by the compiler.
func (f *Fragment) Kind() Kind { return f.kind }

// copy returns a shallow copy with its own Items slice, so compilation can
// annotate it without touching the caller's layout.
func (f *Fragment) copy() *Fragment {
	c := *f
	if f.Items != nil {
		c.Items = append([]*Fragment(nil), f.Items...)
	}
	if f.Options != nil {
		c.Options = append([]Option(nil), f.Options...)
	}
	return &c
}

// ParseFragment reads a fragment from a decoded layout entry: "*", a key
// string, or an object.
func ParseFragment(v any) (*Fragment, error) {
	switch x := v.(type) {
	case string:
		if x == "*" {
			return Wildcard(), nil
		}
		return KeyFragment(x), nil
	case *jsonorder.Object:
		return parseFragmentObject(x)
	case map[string]any:
		o := jsonorder.NewObject()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.Set(k, x[k])
		}
		return parseFragmentObject(o)
	}
	return nil, compileErr(CodeInvalidLayout, "", fmt.Errorf("%w: layout entry must be a string or an object, got %T", ErrInvalidLayout, v))
}

func parseFragmentObject(o *jsonorder.Object) (*Fragment, error) {
	f := &Fragment{}
	for _, k := range o.Keys {
		raw := o.Values[k]
		v := jsonorder.Plain(raw)
		switch k {
		case "key":
			f.Key = str(v)
		case "type":
			f.Type = str(v)
		case "name":
			f.Name = str(v)
		case "id":
			f.ID = str(v)
		case "title":
			f.Title = str(v)
		case "description":
			f.Description = str(v)
		case "legend":
			f.Legend = str(v)
		case "placeholder":
			f.Placeholder = str(v)
		case "prepend":
			f.Prepend = str(v)
		case "append":
			f.Append = str(v)
		case "inlinetitle":
			f.InlineTitle = str(v)
		case "helpvalue":
			f.HelpValue = str(v)
		case "htmlClass":
			f.HTMLClass = str(v)
		case "fieldHtmlClass":
			f.FieldHTMLClass = str(v)
		case "value":
			f.Value, f.HasValue = v, true
		case "readonly", "readOnly":
			f.ReadOnly = f.ReadOnly || truth(v)
		case "disabled":
			f.Disabled = truth(v)
		case "required":
			f.Required = truth(v)
		case "notitle":
			f.NoTitle = truth(v)
		case "allowEmpty":
			f.AllowEmpty = truth(v)
		case "valueInLegend":
			f.ValueInLegend = truth(v)
		case "indicator":
			f.Indicator = truth(v)
		case "draggable":
			b := truth(v)
			f.Draggable = &b
		case "step":
			f.Step = v
		case "titleMap":
			m, ok := v.(map[string]any)
			if !ok {
				return nil, compileErr(CodeInvalidLayout, f.Key, fmt.Errorf("%w: titleMap must be an object", ErrInvalidLayout))
			}
			f.TitleMap = make(map[string]string, len(m))
			for mk, mv := range m {
				f.TitleMap[mk] = str(mv)
			}
		case "options":
			opts, err := parseOptions(raw)
			if err != nil {
				return nil, compileErr(CodeInvalidLayout, f.Key, err)
			}
			f.Options = opts
		case "items":
			entries, ok := raw.([]any)
			if !ok {
				entries = []any{raw}
			}
			for _, e := range entries {
				child, err := ParseFragment(e)
				if err != nil {
					return nil, err
				}
				f.Items = append(f.Items, child)
			}
		default:
			if f.Extra == nil {
				f.Extra = map[string]any{}
			}
			f.Extra[k] = v
		}
	}
	return f, nil
}

// parseOptions accepts a list of values, a list of {value, title} objects,
// or an object mapping values to titles.
func parseOptions(raw any) ([]Option, error) {
	switch x := raw.(type) {
	case []any:
		out := make([]Option, 0, len(x))
		for _, e := range x {
			if m, ok := jsonorder.Plain(e).(map[string]any); ok {
				out = append(out, Option{Value: m["value"], Title: str(m["title"])})
				continue
			}
			out = append(out, Option{Value: e, Title: str(e)})
		}
		return out, nil
	case *jsonorder.Object:
		out := make([]Option, 0, x.Len())
		for _, k := range x.Keys {
			out = append(out, Option{Value: k, Title: str(x.Values[k])})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: options must be a list or an object", ErrInvalidLayout)
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func truth(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != "" && x != "false" && x != "0"
	case float64:
		return x != 0
	}
	return v != nil
}
