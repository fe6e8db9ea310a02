package formtree

import (
	"github.com/reoring/formtree/keypath"
	"github.com/reoring/formtree/schema"
)

// Boundaries holds the item count limits of an array node. -1 means
// unconstrained.
type Boundaries struct {
	MinItems int
	MaxItems int
}

var unbounded = Boundaries{MinItems: -1, MaxItems: -1}

// ArrayBoundaries returns the item count limits of the array node n.
//
// A keyed array reads minItems and maxItems from its own schema element.
// A keyless array takes the tightest combination over its descendants: the
// largest minimum and the smallest maximum of the arrays their keys live
// in. Keyless nested arrays are not followed.
func (t *Tree) ArrayBoundaries(n *Node) Boundaries {
	if !n.IsArray() {
		return unbounded
	}
	return t.nodeBoundaries(n, n)
}

func (t *Tree) nodeBoundaries(n, initial *Node) Boundaries {
	if n != initial && n.IsArray() && n.Fragment.Key == "" {
		return unbounded
	}
	if key := n.Fragment.Key; key != "" {
		key = keypath.GenericKey(key)
		if n != initial {
			key = keypath.ParentArray(key)
		}
		el, err := schema.Resolve(t.schema, key)
		if err != nil || el == nil {
			return unbounded
		}
		return elementBoundaries(el)
	}

	b := unbounded
	children := n.Children
	if len(children) == 0 && n.Template != nil {
		children = []*Node{n.Template}
	}
	for _, c := range children {
		sub := t.nodeBoundaries(c, initial)
		if sub.MinItems != -1 && (b.MinItems == -1 || sub.MinItems > b.MinItems) {
			b.MinItems = sub.MinItems
		}
		if sub.MaxItems != -1 && (b.MaxItems == -1 || sub.MaxItems < b.MaxItems) {
			b.MaxItems = sub.MaxItems
		}
	}
	return b
}

func elementBoundaries(el *schema.Element) Boundaries {
	if !el.HasType("array") {
		return unbounded
	}
	return Boundaries{
		MinItems: firstLimit(el.MinItems, el.MinLength),
		MaxItems: firstLimit(el.MaxItems, el.MaxLength),
	}
}

// firstLimit returns the first positive limit, or -1.
func firstLimit(limits ...*int) int {
	for _, l := range limits {
		if l != nil && *l > 0 {
			return *l
		}
	}
	return -1
}
