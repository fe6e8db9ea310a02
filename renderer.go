package formtree

import (
	"strconv"

	"github.com/reoring/formtree/keypath"
	"github.com/reoring/formtree/tmpl"
)

// Handle is an opaque reference returned by a Renderer for a presented node.
type Handle any

// Renderer is the presentation layer a Tree drives. Live field values belong
// to the renderer: array edits read them back through ReadValues before
// moving them between items.
type Renderer interface {
	// Present renders the subtree of n from its resolved values.
	Present(n *Node) (Handle, error)
	// ReadValues returns the structured values currently held by the fields
	// of the subtree of n. A non-empty arrayPath rewrites field names as if
	// the subtree sat at that array position.
	ReadValues(n *Node, arrayPath []int) (map[string]any, error)
	// ClearValues empties the fields of the subtree of n.
	ClearValues(n *Node)
	// Remove discards the presentation of the subtree of n.
	Remove(n *Node)
	// InsertBefore places n right before sibling; a nil sibling places it
	// last among its siblings.
	InsertBefore(n *Node, sibling Handle) error
}

// nodeRenderer is used when no renderer is configured: values live on the
// nodes themselves.
type nodeRenderer struct{}

func (nodeRenderer) Present(n *Node) (Handle, error) { return n, nil }

func (nodeRenderer) ReadValues(n *Node, arrayPath []int) (map[string]any, error) {
	return ExtractValues(n.tree.schema, CollectFields(n), arrayPath), nil
}

func (nodeRenderer) ClearValues(*Node) {}
func (nodeRenderer) Remove(*Node) {}
func (nodeRenderer) InsertBefore(*Node, Handle) error { return nil }

// Values returns the structured value object currently held by the form.
func (t *Tree) Values() (map[string]any, error) {
	return t.renderer.ReadValues(t.Root, nil)
}

// Present renders the whole tree and runs the insertion hooks.
func (t *Tree) Present() error { return t.present(t.Root) }

func (t *Tree) present(n *Node) error {
	h, err := t.renderer.Present(n)
	if err != nil {
		return err
	}
	n.Handle = h
	return t.enhance(n)
}

// enhance runs OnInsert hooks over the subtree of n.
func (t *Tree) enhance(n *Node) error {
	if hook := n.Kind.View().OnInsert; hook != nil {
		if err := hook(t, n); err != nil {
			return err
		}
	}
	children := append([]*Node(nil), n.Children...)
	for _, c := range children {
		if err := t.enhance(c); err != nil {
			return err
		}
	}
	return nil
}

// NotifyChange tells the tree that the live value of n became v.
func (t *Tree) NotifyChange(n *Node, v any) {
	if hook := n.Kind.View().OnChange; hook != nil {
		hook(t, n, v)
	}
}

// RenderData is what a renderer needs to draw one node.
type RenderData struct {
	Node           *Node
	ID             string
	Name           string
	Value          any
	FieldHTMLClass string
	Required       bool

	Range   *Range
	Choices []Choice
	Tabs    []Tab
	// Active is the index of the child shown first by selectfieldsets.
	Active int
}

// Range describes the bounds of a slider.
type Range struct {
	Min, Max, Step float64
	Indicator      bool
}

// Choice is one entry of a choice list.
type Choice struct {
	Name    string
	Value   any
	Title   string
	Checked bool
}

// Tab is one tab of a tabbed array.
type Tab struct {
	Title string
	Item  *Node
}

// RenderData builds the data context of n, running its BeforeRender hook.
func (t *Tree) RenderData(n *Node) *RenderData {
	d := &RenderData{
		Node:     n,
		ID:       n.ID,
		Name:     n.Name,
		Value:    n.Value,
		Required: n.Schema != nil && n.Schema.Required,
	}
	if d.Value == nil {
		d.Value = ""
	}
	d.FieldHTMLClass = n.Fragment.FieldHTMLClass
	if d.FieldHTMLClass == "" {
		if c, ok := t.params["fieldHtmlClass"].(string); ok {
			d.FieldHTMLClass = c
		}
	}
	if hook := n.Kind.View().BeforeRender; hook != nil {
		hook(t, n, d)
	}
	return d
}

func rangeBeforeRender(_ *Tree, n *Node, d *RenderData) {
	r := &Range{Min: 1, Max: 100, Step: 1}
	d.Range = r
	if n.Schema == nil {
		return
	}
	if s, ok := n.Fragment.Step.(float64); ok && s > 0 {
		r.Step = s
	}
	r.Indicator = n.Fragment.Indicator
	if m := n.Schema.Minimum; m != nil {
		r.Min = *m
		if n.Schema.ExclusiveMinimum {
			r.Min += r.Step
		}
	}
	if m := n.Schema.Maximum; m != nil {
		r.Max = *m
		if n.Schema.ExclusiveMaximum {
			r.Max -= r.Step
		}
	}
}

func optionsBeforeRender(_ *Tree, n *Node, d *RenderData) {
	for _, o := range n.Options {
		d.Choices = append(d.Choices, Choice{
			Name:    n.Name,
			Value:   o.Value,
			Title:   o.Title,
			Checked: n.Value != nil && tmpl.Format(o.Value) == tmpl.Format(n.Value),
		})
	}
}

func checkboxesBeforeRender(_ *Tree, n *Node, d *RenderData) {
	if n.Schema == nil {
		return
	}
	enum := n.Schema.Enum
	if item := n.Schema.ItemSchema(); item != nil {
		enum = item.Enum
	}
	selected, _ := n.Value.([]any)
	for i, choice := range enum {
		title := tmpl.Format(choice)
		if tm, ok := n.Fragment.TitleMap[title]; ok {
			title = tm
		}
		c := Choice{Name: n.Key + "[" + strconv.Itoa(i) + "]", Value: choice, Title: title}
		for _, s := range selected {
			if tmpl.Format(s) == tmpl.Format(choice) {
				c.Checked = true
			}
		}
		d.Choices = append(d.Choices, c)
	}
}

func tabsBeforeRender(_ *Tree, n *Node, d *RenderData) {
	for i, item := range n.Children {
		title := item.Legend
		if title == "" {
			title = item.Title
		}
		if title == "" {
			title = "Item " + strconv.Itoa(i+1)
		}
		d.Tabs = append(d.Tabs, Tab{Title: title, Item: item})
	}
}

func selectFieldsetBeforeRender(_ *Tree, n *Node, d *RenderData) {
	for i, c := range n.Children {
		if c.HasNonDefaultValue() {
			d.Active = i
			return
		}
	}
}

// fillToMinItems tops an array up to its minimum number of items.
func fillToMinItems(t *Tree, n *Node) error {
	b := t.ArrayBoundaries(n)
	for b.MinItems > 0 && len(n.Children) < b.MinItems {
		if err := t.InsertItem(n, len(n.Children)); err != nil {
			return err
		}
	}
	return nil
}

func legendOnChange(t *Tree, n *Node, v any) {
	if n.Fragment.ValueInLegend {
		t.updateLegend(n, v, t.values)
	}
}

// propagateLegend recomputes the legend fed by n's resolved value.
func (t *Tree) propagateLegend(n *Node, values map[string]any) { t.updateLegend(n, n.Value, values) }

// updateLegend walks up from n to the nearest array item with a legend and
// renders it with v as the template value.
func (t *Tree) updateLegend(n *Node, v any, values map[string]any) {
	for a := n; a != nil; a = a.parent {
		if !a.parent.IsArray() {
			continue
		}
		a.LegendChild = n
		if a.Fragment.Legend == "" {
			continue
		}
		bag := t.bag(a, values, 0)
		if v != nil {
			bag.Value = v
		}
		a.Legend = tmpl.Render(keypath.ApplyArrayPath(a.Fragment.Legend, a.ArrayPath), bag)
		return
	}
}
