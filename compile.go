package formtree

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/reoring/formtree/internal/debug"
	"github.com/reoring/formtree/keypath"
	"github.com/reoring/formtree/schema"
)

// Tree is a compiled form: the node hierarchy plus the state needed to
// resolve values and edit arrays.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	Root *Node

	schema   *schema.Element
	prefix   string
	params   map[string]any
	tplData  map[string]any
	values   map[string]any
	layout   []*Fragment
	opts     Options
	renderer Renderer
	counter  int
}

var prefixSeq atomic.Int64

// Compile compiles desc with default options.
func Compile(desc *FormDescriptor) (*Tree, error) { return New(desc, Options{}) }

// New compiles desc into a Tree and resolves its initial values from
// desc.Value. Compilation stops at the first error; no partial tree is
// returned. The tree annotates its own copy of desc.Schema.
func New(desc *FormDescriptor, opts Options) (*Tree, error) {
	if desc == nil || desc.Schema == nil {
		return nil, compileErr(CodeInvalidLayout, "", fmt.Errorf("%w: descriptor has no schema", ErrInvalidLayout))
	}
	t := &Tree{
		schema:  desc.Schema.Clone(),
		prefix:  desc.Prefix,
		params:  desc.Params,
		tplData: desc.TplData,
		values:  desc.Value,
		opts:    opts,
	}
	if opts.Prefix != "" {
		t.prefix = opts.Prefix
	}
	if t.prefix == "" {
		t.prefix = fmt.Sprintf("formtree-%d", prefixSeq.Add(1))
	}
	t.renderer = opts.Renderer
	if t.renderer == nil {
		t.renderer = nodeRenderer{}
	}

	t.layout = desc.Form
	if len(t.layout) == 0 {
		t.layout = defaultLayout()
	}

	t.Root = &Node{Kind: KindRoot, Fragment: &Fragment{Type: "root", kind: KindRoot}, tree: t}
	for _, f := range t.layout {
		if f == nil {
			continue
		}
		if f.Wildcard {
			for _, name := range t.schema.Properties.Names() {
				child, err := t.build(KeyFragment(name))
				if err != nil {
					return nil, err
				}
				t.Root.appendChild(child)
			}
			continue
		}
		child, err := t.build(f)
		if err != nil {
			return nil, err
		}
		t.Root.appendChild(child)
	}
	t.resolve(t.Root, t.values, opts.IgnoreSchemaDefaults)
	return t, nil
}

func defaultLayout() []*Fragment {
	return []*Fragment{
		Wildcard(),
		{Type: "actions", Items: []*Fragment{{Type: "submit", Value: "Submit", HasValue: true}}},
	}
}

// Schema returns the root schema element.
func (t *Tree) Schema() *schema.Element { return t.schema }

// Prefix returns the prefix used for generated identifiers.
func (t *Tree) Prefix() string { return t.prefix }

// Renderer returns the renderer the tree talks to.
func (t *Tree) Renderer() Renderer { return t.renderer }

// build compiles one layout fragment, recursively.
func (t *Tree) build(src *Fragment) (*Node, error) {
	f := src.copy()
	var el *schema.Element
	if f.Key != "" {
		var err error
		el, err = schema.Resolve(t.schema, f.Key)
		if err != nil {
			if errors.Is(err, schema.ErrUnsupported) {
				return nil, compileErr(CodeUnsupportedSchemaConstruct, f.Key, err)
			}
			return nil, compileErr(CodeInvalidLayout, f.Key, err)
		}
		if el == nil {
			return nil, compileErr(CodeUnknownSchemaKey, f.Key, nil)
		}
		if t.opts.OnElementSchema != nil {
			t.opts.OnElementSchema(f, el)
		}
		if err := t.complete(f, el); err != nil {
			return nil, err
		}
	}
	if f.Type == "" {
		f.Type = KindNone.String()
	}
	kind, ok := ParseKind(f.Type)
	if !ok {
		return nil, compileErr(CodeUnknownKind, f.Type, nil)
	}
	f.kind = kind
	if debug.Compile() {
		debug.Logf("compile: key=%q kind=%s", f.Key, kind)
	}

	n := &Node{Kind: kind, Fragment: f, Schema: el, tree: t}

	if el != nil && el.HasType("object") {
		for _, name := range el.Properties.Names() {
			child, err := t.build(KeyFragment(f.Key + "." + name))
			if err != nil {
				return nil, err
			}
			n.appendChild(child)
		}
	}

	if kind.View().Array {
		item := KeyFragment(f.Key + "[]")
		if len(f.Items) > 0 {
			item = f.Items[0]
		}
		tpl, err := t.build(item)
		if err != nil {
			return nil, err
		}
		n.setTemplate(tpl)
		return n, nil
	}
	for _, item := range f.Items {
		child, err := t.build(item)
		if err != nil {
			return nil, err
		}
		n.appendChild(child)
	}
	return n, nil
}

// complete fills in what a keyed fragment leaves unsaid from its schema
// element.
func (t *Tree) complete(f *Fragment, el *schema.Element) error {
	if f.Name == "" {
		f.Name = f.Key
	}
	if f.Title == "" {
		f.Title = el.Title
	}
	if f.Description == "" {
		f.Description = el.Description
	}
	f.ReadOnly = f.ReadOnly || el.ReadOnly
	if f.ID == "" {
		f.ID = t.prefix + "-elt-" + keypath.Slugify(f.Key)
	}
	if f.AllowEmpty {
		el.AllowEmpty = true
	}
	if f.Type == "" {
		kind, err := inferKind(el)
		if err != nil {
			return compileErr(codeFor(err), f.Key, err)
		}
		f.Type = kind
	}
	if len(f.Options) == 0 && el.Enum != nil {
		f.Options = enumOptions(el.Enum, f.TitleMap)
	}
	if f.Type == KindCheckboxes.String() {
		if item := el.ItemSchema(); item != nil && item.Enum != nil {
			item.CheckboxesAsArray = true
		}
	}
	if f.Type == KindNumber.String() && f.Step == nil && el.HasType("number") {
		f.Step = "any"
	}
	return nil
}

func codeFor(err error) string {
	if errors.Is(err, ErrMultipleSchemaTypes) {
		return CodeMultipleSchemaTypes
	}
	return CodeUnresolvableType
}

// inferKind picks a presentation kind from a schema element.
func inferKind(el *schema.Element) (string, error) {
	typ, err := el.ConcreteType()
	if err != nil {
		return "", err
	}
	hasEnum := el.Enum != nil
	switch {
	case typ == "string" && el.Format == "color":
		return KindColor.String(), nil
	case (typ == "number" || typ == "integer") && !hasEnum:
		return KindNumber.String(), nil
	case (typ == "string" || typ == "any") && !hasEnum:
		return KindText.String(), nil
	case typ == "boolean":
		return KindCheckbox.String(), nil
	case typ == "object":
		if el.Properties != nil {
			return KindFieldset.String(), nil
		}
		return KindTextarea.String(), nil
	case hasEnum:
		return KindSelect.String(), nil
	case typ == "":
		return "", fmt.Errorf("%w: schema declares no type", ErrUnresolvableType)
	}
	if _, ok := ParseKind(typ); ok {
		return typ, nil
	}
	return "", fmt.Errorf("%w: no element type for schema type %q", ErrUnresolvableType, typ)
}

func enumOptions(enum []any, titleMap map[string]string) []Option {
	out := make([]Option, 0, len(enum))
	for _, v := range enum {
		title := str(v)
		if tm, ok := titleMap[title]; ok {
			title = tm
		}
		out = append(out, Option{Value: v, Title: title})
	}
	return out
}

// HasRequiredField reports whether the schema declares any required value.
func (t *Tree) HasRequiredField() bool { return t.schema.HasRequired() }

// FindByKey returns the first node bound to key, or nil.
func (t *Tree) FindByKey(key string) *Node {
	var found *Node
	t.Root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// ForEach calls fn for every node of the tree in depth-first order.
func (t *Tree) ForEach(fn func(*Node)) {
	t.Root.Walk(func(n *Node) bool { fn(n); return true })
}
