package schema

import (
	"fmt"

	"github.com/reoring/formtree/keypath"
)

// Resolve returns the element describing the value at valuePath, such as
// "friends[2].name" or "friends[].name". Array levels step into "items";
// an "items" tuple is read through its first entry.
//
// A missing element yields (nil, nil). An element reached through "$ref"
// fails with ErrUnsupported.
func Resolve(root *Element, valuePath string) (*Element, error) {
	if root == nil || valuePath == "" {
		return nil, nil
	}
	vp, err := keypath.Parse(valuePath)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	sp := SchemaPath(vp)
	if root.Properties == nil {
		return nil, nil
	}
	v, ok := keypath.Get(root.Properties, sp, true)
	if el, _ := v.(*Element); ok && el != nil {
		if el.Ref != "" {
			return nil, fmt.Errorf("%w: $ref at %q", ErrUnsupported, valuePath)
		}
		return el, nil
	}
	// A missing element may hide behind a reference on the way down.
	for i := 1; i < len(sp); i++ {
		pv, ok := keypath.Get(root.Properties, sp[:i], true)
		if el, _ := pv.(*Element); ok && el != nil && el.Ref != "" {
			return nil, fmt.Errorf("%w: $ref at %q", ErrUnsupported, valuePath)
		}
	}
	return nil, nil
}

// SchemaPath converts a value path rooted at a properties map into the
// matching path through the schema: "a.b[1].c" becomes
// "a.properties.b.items.properties.c".
func SchemaPath(vp keypath.Path) keypath.Path {
	var out keypath.Path
	for i, seg := range vp {
		if i > 0 {
			out = append(out, keypath.Segment{Name: "properties"})
		}
		if seg.Name != "" {
			out = append(out, keypath.Segment{Name: seg.Name})
		}
		for range seg.Indices {
			out = append(out, keypath.Segment{Name: "items"})
		}
	}
	return out
}

// ConcreteType returns the single type of e. A "null" entry is dropped and
// clears the legacy Required flag. An empty result means no type is
// declared.
func (e *Element) ConcreteType() (string, error) {
	if e == nil {
		return "", nil
	}
	var types []string
	for _, t := range e.Type {
		if t == "null" {
			e.Required = false
			continue
		}
		types = append(types, t)
	}
	switch len(types) {
	case 0:
		return "", nil
	case 1:
		return types[0], nil
	}
	return "", fmt.Errorf("%w: %v", ErrMultipleTypes, types)
}
