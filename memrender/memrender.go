// Package memrender provides an in-memory formtree.Renderer. It keeps live
// field values the way a browser form would: as text keyed by field name,
// with checkboxes holding booleans. Tests and tools use it to drive array
// edits and user input without a real presentation layer.
package memrender

import (
	"fmt"
	"slices"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/tmpl"
)

// Renderer is an in-memory formtree.Renderer.
type Renderer struct {
	fields   map[string]any
	names    map[*formtree.Node][]string
	byName   map[string]*formtree.Node
	parents  map[*formtree.Node]*formtree.Node
	order    map[*formtree.Node][]*formtree.Node
	presents map[*formtree.Node]int
}

// New returns an empty renderer.
func New() *Renderer {
	return &Renderer{
		fields:   map[string]any{},
		names:    map[*formtree.Node][]string{},
		byName:   map[string]*formtree.Node{},
		parents:  map[*formtree.Node]*formtree.Node{},
		order:    map[*formtree.Node][]*formtree.Node{},
		presents: map[*formtree.Node]int{},
	}
}

var _ formtree.Renderer = (*Renderer)(nil)

// Present stores the resolved values of the subtree of n as live fields.
func (r *Renderer) Present(n *formtree.Node) (formtree.Handle, error) {
	n.Walk(func(c *formtree.Node) bool {
		r.presents[c]++
		if p := c.Parent(); p != nil {
			r.parents[c] = p
			if !slices.Contains(r.order[p], c) {
				r.order[p] = append(r.order[p], c)
			}
		}
		r.store(c)
		return true
	})
	return n, nil
}

func (r *Renderer) store(n *formtree.Node) {
	if !n.Kind.View().Input || n.Name == "" {
		return
	}
	for _, old := range r.names[n] {
		delete(r.fields, old)
		delete(r.byName, old)
	}
	var names []string
	set := func(name string, v any) {
		r.fields[name] = v
		r.byName[name] = n
		names = append(names, name)
	}
	switch {
	case n.Kind == formtree.KindCheckboxes:
		for _, ch := range n.Tree().RenderData(n).Choices {
			set(ch.Name, ch.Checked)
		}
	case n.Kind == formtree.KindCheckbox:
		set(n.Name, checked(n.Value))
	default:
		if b, ok := n.Value.(bool); ok {
			set(n.Name, b)
			break
		}
		set(n.Name, tmpl.Format(n.Value))
	}
	r.names[n] = names
}

// ReadValues returns the structured values of the live fields below n.
func (r *Renderer) ReadValues(n *formtree.Node, arrayPath []int) (map[string]any, error) {
	var fields []formtree.Field
	n.Walk(func(c *formtree.Node) bool {
		for _, name := range r.names[c] {
			if v, ok := r.fields[name]; ok {
				fields = append(fields, formtree.Field{Name: name, Value: v})
			}
		}
		return true
	})
	return formtree.ExtractValues(n.Tree().Schema(), fields, arrayPath), nil
}

// ClearValues blanks the live fields below n.
func (r *Renderer) ClearValues(n *formtree.Node) {
	n.Walk(func(c *formtree.Node) bool {
		for _, name := range r.names[c] {
			if _, ok := r.fields[name].(bool); ok {
				r.fields[name] = false
				continue
			}
			r.fields[name] = ""
		}
		return true
	})
}

// Remove forgets the subtree of n.
func (r *Renderer) Remove(n *formtree.Node) {
	if p, ok := r.parents[n]; ok {
		r.order[p] = slices.DeleteFunc(r.order[p], func(c *formtree.Node) bool { return c == n })
	}
	n.Walk(func(c *formtree.Node) bool {
		for _, name := range r.names[c] {
			if r.byName[name] == c {
				delete(r.fields, name)
				delete(r.byName, name)
			}
		}
		delete(r.names, c)
		delete(r.parents, c)
		delete(r.order, c)
		delete(r.presents, c)
		return true
	})
}

// InsertBefore moves n right before sibling among the presented children of
// its parent. A nil sibling moves it last.
func (r *Renderer) InsertBefore(n *formtree.Node, sibling formtree.Handle) error {
	p, ok := r.parents[n]
	if !ok {
		return fmt.Errorf("memrender: node %q was not presented", n.ID)
	}
	list := slices.DeleteFunc(r.order[p], func(c *formtree.Node) bool { return c == n })
	at := len(list)
	if sibling != nil {
		s, ok := sibling.(*formtree.Node)
		if !ok {
			return fmt.Errorf("memrender: unexpected handle %T", sibling)
		}
		if at = slices.Index(list, s); at < 0 {
			return fmt.Errorf("memrender: sibling %q is not presented under the same parent", s.ID)
		}
	}
	r.order[p] = slices.Insert(list, at, n)
	return nil
}

// Input simulates the user typing v into the field called name, then
// notifies the tree.
func (r *Renderer) Input(name string, v any) error {
	n, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("memrender: no field named %q", name)
	}
	r.fields[name] = v
	n.Tree().NotifyChange(n, v)
	return nil
}

// Field returns the live value of the field called name.
func (r *Renderer) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Children returns the presented children of n in presentation order.
func (r *Renderer) Children(n *formtree.Node) []*formtree.Node {
	return slices.Clone(r.order[n])
}

// Presents returns how many times n was presented.
func (r *Renderer) Presents(n *formtree.Node) int { return r.presents[n] }

func checked(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "1" || x == "true" || x == "on"
	case float64:
		return x != 0
	}
	return v != nil
}
