// Package schema models the JSON-Schema-like structural description a form
// is compiled against, and resolves value paths to schema elements.
package schema

import "errors"

var (
	// ErrUnsupported is returned when resolution meets a construct the
	// resolver does not follow, such as "$ref".
	ErrUnsupported = errors.New("unsupported schema construct")
	// ErrMultipleTypes is returned when an element still lists more than one
	// type after removing "null".
	ErrMultipleTypes = errors.New("multiple schema types")
)

// Element is one node of a parsed schema.
type Element struct {
	Type        []string
	Title       string
	Description string
	Format      string
	Pattern     string
	Ref         string

	Default    any
	HasDefault bool
	Enum       []any

	Properties *Properties
	Items      *Element
	ItemsTuple []*Element

	MinItems  *int
	MaxItems  *int
	MinLength *int
	MaxLength *int

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	Step             any

	ReadOnly bool
	// Required is the legacy per-property boolean flag.
	Required      bool
	RequiredNames []string

	// Raw is the element as decoded, with plain maps.
	Raw map[string]any

	// AllowEmpty keeps empty strings during value extraction.
	AllowEmpty bool
	// CheckboxesAsArray marks an enumerated item schema rendered as a set of
	// checkboxes whose checked entries are collected into an array.
	CheckboxesAsArray bool
}

// Clone copies e and every element below it. Decoded values such as
// Default, Enum and Raw stay shared.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	c.Type = append([]string(nil), e.Type...)
	c.Items = e.Items.Clone()
	if e.ItemsTuple != nil {
		c.ItemsTuple = make([]*Element, len(e.ItemsTuple))
		for i, it := range e.ItemsTuple {
			c.ItemsTuple[i] = it.Clone()
		}
	}
	if e.Properties != nil {
		c.Properties = NewProperties()
		for _, name := range e.Properties.names {
			c.Properties.Add(name, e.Properties.elems[name].Clone())
		}
	}
	return &c
}

// HasType reports whether t is one of the element's declared types.
func (e *Element) HasType(t string) bool {
	if e == nil {
		return false
	}
	for _, x := range e.Type {
		if x == t {
			return true
		}
	}
	return false
}

// ItemSchema returns the schema of array items: the single item schema, or
// the first tuple entry.
func (e *Element) ItemSchema() *Element {
	if e == nil {
		return nil
	}
	if e.Items != nil {
		return e.Items
	}
	if len(e.ItemsTuple) > 0 {
		return e.ItemsTuple[0]
	}
	return nil
}

// GetKey exposes "properties" and "items" to keypath lookups.
func (e *Element) GetKey(name string) (any, bool) {
	if e == nil {
		return nil, false
	}
	switch name {
	case "properties":
		if e.Properties == nil {
			return nil, false
		}
		return e.Properties, true
	case "items":
		if len(e.ItemsTuple) > 0 {
			out := make([]any, len(e.ItemsTuple))
			for i, it := range e.ItemsTuple {
				out[i] = it
			}
			return out, true
		}
		if e.Items == nil {
			return nil, false
		}
		return e.Items, true
	}
	return nil, false
}

// Properties is an ordered set of named sub-schemas.
type Properties struct {
	names []string
	elems map[string]*Element
}

// NewProperties returns an empty property set.
func NewProperties() *Properties { return &Properties{elems: map[string]*Element{}} }

// Add appends or replaces the property named name.
func (p *Properties) Add(name string, e *Element) {
	if _, ok := p.elems[name]; !ok {
		p.names = append(p.names, name)
	}
	p.elems[name] = e
}

// Names returns property names in declaration order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return p.names
}

// Get returns the property named name or nil.
func (p *Properties) Get(name string) *Element {
	if p == nil {
		return nil
	}
	return p.elems[name]
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

func (p *Properties) GetKey(name string) (any, bool) {
	e := p.Get(name)
	if e == nil {
		return nil, false
	}
	return e, true
}
