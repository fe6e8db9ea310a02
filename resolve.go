package formtree

import (
	"fmt"
	"strings"

	"github.com/reoring/formtree/internal/debug"
	"github.com/reoring/formtree/keypath"
	"github.com/reoring/formtree/schema"
	"github.com/reoring/formtree/tmpl"
)

// maxLookupDepth bounds getValue chains between defaults.
const maxLookupDepth = 8

// resolve computes array paths, identifiers, labels and values for the
// subtree of n, materializing array items as it goes.
func (t *Tree) resolve(n *Node, values map[string]any, ignoreDefaults bool) {
	n.ArrayPath = []int{}
	if p := n.parent; p != nil {
		n.ArrayPath = append(n.ArrayPath, p.ArrayPath...)
		if p.IsArray() {
			n.ArrayPath = append(n.ArrayPath, n.ChildPos)
		}
	}
	f := n.Fragment
	ap := n.ArrayPath
	bag := t.bag(n, values, 0)

	switch {
	case f.ID != "":
		n.ID = keypath.ApplyArrayPath(f.ID, ap)
	case n.ID != "":
		// Generated identifiers survive re-resolution.
	case n.IsArray() || n.IsArrayItem() || n.Kind.View().Counter:
		t.counter++
		n.ID = fmt.Sprintf("%s-elt-counter-%d", t.prefix, t.counter)
	}
	if f.Key != "" {
		n.Key = keypath.ApplyArrayPath(f.Key, ap)
		n.KeyDash = keypath.Dash(n.Key)
	}
	n.Name = keypath.ApplyArrayPath(f.Name, ap)

	n.Title = t.label(f.Title, ap, bag)
	n.Legend = t.label(f.Legend, ap, bag)
	n.Description = t.label(f.Description, ap, bag)
	n.Append = t.label(f.Append, ap, bag)
	n.Prepend = t.label(f.Prepend, ap, bag)
	n.InlineTitle = t.label(f.InlineTitle, ap, bag)
	n.HelpValue = t.label(f.HelpValue, ap, bag)
	n.Placeholder = t.label(f.Placeholder, ap, bag)
	n.Disabled = f.Disabled
	n.ReadOnly = f.ReadOnly
	n.Options = nil
	for _, o := range f.Options {
		v := o.Value
		if v == nil {
			v = ""
		}
		n.Options = append(n.Options, Option{Value: v, Title: t.label(o.Title, ap, bag)})
	}

	n.Value, n.FromDefault = nil, false
	if f.HasValue {
		n.Value = t.templated(f.Value, ap, bag)
	}

	switch {
	case n.IsArray():
		count := 1
		if values != nil {
			count = t.previousItems(n, values, ap)
		}
		n.Children = nil
		for i := 0; i < count; i++ {
			n.appendChild(n.Template.clone())
		}
		if debug.Resolve() {
			debug.Logf("resolve: array %q path=%v items=%d", n.Key, ap, count)
		}
	case n.Schema != nil:
		if values != nil {
			if v, ok := keypath.GetString(values, n.Key); ok && v != nil {
				n.Value = v
				break
			}
		}
		if n.Value == nil && !ignoreDefaults && n.Schema.HasDefault {
			n.Value = t.templated(n.Schema.Default, ap, bag)
			n.FromDefault = true
		}
		n.Value = truncate(n.Value, n.Schema)
	}

	for _, c := range n.Children {
		t.resolve(c, values, ignoreDefaults)
	}
	if f.ValueInLegend {
		t.propagateLegend(n, values)
	}
}

// bag builds the template data for n.
func (t *Tree) bag(n *Node, values map[string]any, depth int) tmpl.Bag {
	idx := n.ChildPos + 1
	if l := len(n.ArrayPath); l > 0 {
		idx = n.ArrayPath[l-1] + 1
	}
	ap := n.ArrayPath
	return tmpl.Bag{
		Idx:   idx,
		Value: "",
		GetValue: func(key string) any {
			return t.initialValue(key, ap, values, depth+1)
		},
		Data: t.tplData,
	}
}

// label renders a layout string for a node at array path ap.
func (t *Tree) label(s string, ap []int, bag tmpl.Bag) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "{{values.") {
		s = tmpl.RewriteValueRefs(s)
	} else {
		s = keypath.ApplyArrayPath(s, ap)
	}
	return tmpl.Render(s, bag)
}

// templated renders v when it is a string; other values pass through.
func (t *Tree) templated(v any, ap []int, bag tmpl.Bag) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	return t.label(s, ap, bag)
}

func truncate(v any, el *schema.Element) any {
	s, ok := v.(string)
	if !ok || el == nil || el.MaxLength == nil || *el.MaxLength < 1 {
		return v
	}
	r := []rune(s)
	if len(r) <= *el.MaxLength {
		return v
	}
	return string(r[:*el.MaxLength-1]) + "…"
}

// InitialValue computes the value a field at key would start with, for the
// item selected by arrayPath: the descriptor's submitted value, else the
// layout value, else the schema default. Templates are rendered, a titleMap
// label replaces the raw value, and long strings are cut to the schema's
// maxLength.
func (t *Tree) InitialValue(key string, arrayPath []int) any {
	return t.initialValue(key, arrayPath, t.values, 0)
}

func (t *Tree) initialValue(key string, ap []int, values map[string]any, depth int) any {
	if depth > maxLookupDepth {
		return nil
	}
	generic := keypath.GenericKey(key)
	frag := findFragment(t.layout, generic)
	el, _ := schema.Resolve(t.schema, generic)

	var v any
	if values != nil {
		if got, ok := keypath.GetString(values, keypath.ApplyArrayPath(key, ap)); ok {
			v = got
		}
	}
	bag := tmpl.Bag{
		Idx: 1,
		GetValue: func(k string) any {
			return t.initialValue(k, ap, values, depth+1)
		},
		Data: t.tplData,
	}
	if l := len(ap); l > 0 {
		bag.Idx = ap[l-1] + 1
	}
	if v == nil {
		switch {
		case frag != nil && frag.HasValue:
			v = frag.Value
		case el != nil && el.HasDefault:
			v = el.Default
		}
		v = t.templated(v, ap, bag)
	}
	if v != nil && frag != nil {
		if title, ok := frag.TitleMap[tmpl.Format(v)]; ok {
			v = tmpl.Render(title, bag)
		}
	}
	return truncate(v, el)
}

// findFragment looks a key up in the layout, depth first.
func findFragment(frags []*Fragment, key string) *Fragment {
	for _, f := range frags {
		if f == nil {
			continue
		}
		if f.Key == key {
			return f
		}
		if found := findFragment(f.Items, key); found != nil {
			return found
		}
	}
	return nil
}

// previousItems counts the items an array needs to hold the submitted
// values found below n at array path ap.
func (t *Tree) previousItems(n *Node, values map[string]any, ap []int) int {
	if values == nil {
		return 0
	}
	if n.IsArray() {
		if n.Template == nil {
			return 0
		}
		return t.previousItems(n.Template, values, ap)
	}
	best := 0
	for _, c := range n.Children {
		best = max(best, t.previousItems(c, values, ap))
	}
	if n.Schema == nil || n.Fragment.Key == "" {
		return best
	}
	key := keypath.ApplyArrayPath(keypath.TruncateToArrayDepth(n.Fragment.Key, len(ap)), ap)
	v, ok := keypath.GetString(values, key)
	if !ok || v == nil {
		return 0
	}
	if arr, ok := v.([]any); ok {
		return max(best, len(arr))
	}
	return best
}
