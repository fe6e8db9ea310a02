package formtree

import "github.com/reoring/formtree/schema"

// Node is one element of a compiled form tree.
//
// Fragment and Schema are shared with every clone of the node; everything
// else is owned by the node and recomputed by resolution.
type Node struct {
	ID      string
	Key     string
	KeyDash string
	Name    string
	Kind    Kind

	Fragment *Fragment
	Schema   *schema.Element

	// ArrayPath holds the item index at each enclosing array level.
	ArrayPath []int
	// ChildPos is the position of the node among its parent's children.
	ChildPos int

	Value any
	// FromDefault is set when Value comes from the schema default.
	FromDefault bool

	Title       string
	Legend      string
	Description string
	Append      string
	Prepend     string
	InlineTitle string
	HelpValue   string
	Placeholder string
	Disabled    bool
	ReadOnly    bool
	Options     []Option

	Children []*Node
	// Template is the item prototype of an array node.
	Template *Node
	// LegendChild is the descendant whose value feeds this node's legend.
	LegendChild *Node

	// Handle is what the renderer returned when the node was presented.
	Handle Handle

	parent *Node
	tree   *Tree
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Tree returns the tree that owns the node.
func (n *Node) Tree() *Tree { return n.tree }

// IsArray reports whether the node materializes array items.
func (n *Node) IsArray() bool { return n != nil && n.Kind.View().Array }

// IsArrayItem reports whether the node is an item of an array node.
func (n *Node) IsArrayItem() bool { return n.parent.IsArray() }

// Walk calls fn for n and its descendants in depth-first order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// HasNonDefaultValue reports whether the subtree holds a value the user
// entered. Hidden fields are ignored.
func (n *Node) HasNonDefaultValue() bool {
	if n.Kind == KindHidden {
		return false
	}
	if truthy(n.Value) && !n.FromDefault {
		return true
	}
	for _, c := range n.Children {
		if c.HasNonDefaultValue() {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	}
	return true
}

// clone copies the structure below n. Resolved state is left empty.
func (n *Node) clone() *Node {
	c := &Node{
		Kind:     n.Kind,
		Fragment: n.Fragment,
		Schema:   n.Schema,
		ChildPos: n.ChildPos,
		tree:     n.tree,
	}
	if n.Template != nil {
		c.setTemplate(n.Template.clone())
	}
	for _, ch := range n.Children {
		c.appendChild(ch.clone())
	}
	return c
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	c.ChildPos = len(n.Children)
	n.Children = append(n.Children, c)
}

func (n *Node) setTemplate(c *Node) {
	c.parent = n
	c.ChildPos = 0
	n.Template = c
}

// removeLastChild detaches and returns the last child.
func (n *Node) removeLastChild() *Node {
	last := len(n.Children) - 1
	c := n.Children[last]
	n.Children[last] = nil
	n.Children = n.Children[:last]
	c.parent = nil
	return c
}

// Field returns the submitted name and value of an input node.
func (n *Node) Field() (Field, bool) {
	if !n.Kind.View().Input || n.Name == "" {
		return Field{}, false
	}
	return Field{Name: n.Name, Value: n.Value}, true
}
