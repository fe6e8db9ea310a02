package formtree

import (
	"fmt"

	"github.com/reoring/formtree/internal/debug"
)

// InsertItem inserts a blank item at idx. Items at idx and after keep their
// values and move one position down; the new item gets layout and schema
// defaults.
func (t *Tree) InsertItem(n *Node, idx int) error {
	if !n.IsArray() {
		return fmt.Errorf("formtree: insert into %q: %w", n.Key, ErrNotArray)
	}
	if idx < 0 || idx > len(n.Children) {
		return fmt.Errorf("formtree: insert at %d of %d: %w", idx, len(n.Children), ErrIndexOutOfRange)
	}
	if debug.Array() {
		debug.Logf("array: insert %q at %d (len %d)", n.Key, idx, len(n.Children))
	}
	child := n.Template.clone()
	n.appendChild(child)
	t.resolve(child, nil, true)

	for i := len(n.Children) - 2; i >= idx; i-- {
		if err := t.moveValues(n.Children[i], n.Children[i+1]); err != nil {
			return err
		}
	}
	t.resetNode(n.Children[idx])
	t.resolve(n.Children[idx], nil, false)

	for i := idx; i < len(n.Children); i++ {
		if err := t.present(n.Children[i]); err != nil {
			return err
		}
	}
	return t.renderer.InsertBefore(child, nil)
}

// DeleteItem removes the item at idx. Later items move one position up.
func (t *Tree) DeleteItem(n *Node, idx int) error {
	if !n.IsArray() {
		return fmt.Errorf("formtree: delete from %q: %w", n.Key, ErrNotArray)
	}
	if idx < 0 || idx >= len(n.Children) {
		return fmt.Errorf("formtree: delete at %d of %d: %w", idx, len(n.Children), ErrIndexOutOfRange)
	}
	if debug.Array() {
		debug.Logf("array: delete %q at %d (len %d)", n.Key, idx, len(n.Children))
	}
	for i := idx; i < len(n.Children)-1; i++ {
		if err := t.moveValues(n.Children[i+1], n.Children[i]); err != nil {
			return err
		}
		if err := t.present(n.Children[i]); err != nil {
			return err
		}
	}
	t.renderer.Remove(n.removeLastChild())
	return nil
}

// MoveItem moves the values of the item at from to position to, shifting
// the items in between. Nodes stay where they are; only values travel, one
// adjacent swap at a time.
func (t *Tree) MoveItem(n *Node, from, to int) error {
	if !n.IsArray() {
		return fmt.Errorf("formtree: move in %q: %w", n.Key, ErrNotArray)
	}
	l := len(n.Children)
	if from < 0 || from >= l || to < 0 || to >= l {
		return fmt.Errorf("formtree: move %d to %d of %d: %w", from, to, l, ErrIndexOutOfRange)
	}
	if from == to {
		return nil
	}
	if debug.Array() {
		debug.Logf("array: move %q %d -> %d", n.Key, from, to)
	}
	step := 1
	if to < from {
		step = -1
	}
	for i := from; i != to; i += step {
		a, b := n.Children[i], n.Children[i+step]
		if err := t.switchValues(a, b); err != nil {
			return err
		}
		if err := t.present(a); err != nil {
			return err
		}
		if err := t.present(b); err != nil {
			return err
		}
	}
	// Put the presentations back in node order.
	lo, hi := min(from, to), max(from, to)
	for i := hi; i >= lo; i-- {
		var next Handle
		if i+1 < l {
			next = n.Children[i+1].Handle
		}
		if err := t.renderer.InsertBefore(n.Children[i], next); err != nil {
			return err
		}
	}
	return nil
}

// AppendItem adds an item at the end unless the array is full.
func (t *Tree) AppendItem(n *Node) error {
	if !t.CanAppend(n) {
		if !n.IsArray() {
			return fmt.Errorf("formtree: append to %q: %w", n.Key, ErrNotArray)
		}
		return fmt.Errorf("formtree: append to %q: %w", n.Key, ErrArrayFull)
	}
	return t.InsertItem(n, len(n.Children))
}

// RemoveLastItem removes the last item unless the array is at its minimum.
func (t *Tree) RemoveLastItem(n *Node) error {
	if !n.IsArray() {
		return fmt.Errorf("formtree: remove from %q: %w", n.Key, ErrNotArray)
	}
	if len(n.Children) == 0 {
		return fmt.Errorf("formtree: remove from empty %q: %w", n.Key, ErrIndexOutOfRange)
	}
	if !t.CanRemove(n) {
		return fmt.Errorf("formtree: remove from %q: %w", n.Key, ErrArrayAtMinimum)
	}
	return t.DeleteItem(n, len(n.Children)-1)
}

// CanAppend reports whether another item fits in n.
func (t *Tree) CanAppend(n *Node) bool {
	if !n.IsArray() {
		return false
	}
	b := t.ArrayBoundaries(n)
	return b.MaxItems < 0 || len(n.Children) < b.MaxItems
}

// CanRemove reports whether n holds more items than its minimum.
func (t *Tree) CanRemove(n *Node) bool {
	if !n.IsArray() || len(n.Children) == 0 {
		return false
	}
	b := t.ArrayBoundaries(n)
	return b.MinItems <= 0 || len(n.Children) > b.MinItems
}

// moveValues re-resolves dst from the live values of src, read as if src
// sat at dst's position.
func (t *Tree) moveValues(src, dst *Node) error {
	values, err := t.renderer.ReadValues(src, dst.ArrayPath)
	if err != nil {
		return err
	}
	t.resetNode(dst)
	t.resolve(dst, values, true)
	return nil
}

// switchValues exchanges the live values of a and b.
func (t *Tree) switchValues(a, b *Node) error {
	av, err := t.renderer.ReadValues(a, b.ArrayPath)
	if err != nil {
		return err
	}
	bv, err := t.renderer.ReadValues(b, a.ArrayPath)
	if err != nil {
		return err
	}
	t.resetNode(b)
	t.resolve(b, av, true)
	t.resetNode(a)
	t.resolve(a, bv, true)
	return nil
}

// resetNode blanks the live values of n and drops materialized array items
// below it.
func (t *Tree) resetNode(n *Node) {
	t.renderer.ClearValues(n)
	t.dropItems(n)
}

func (t *Tree) dropItems(n *Node) {
	n.Value, n.FromDefault = nil, false
	if n.IsArray() {
		for _, c := range n.Children {
			t.renderer.Remove(c)
			c.parent = nil
		}
		n.Children = nil
		return
	}
	for _, c := range n.Children {
		t.dropItems(c)
	}
}
