// Package formtree compiles a form layout and a JSON schema into a tree of
// nodes bound to a nested value object, and keeps that binding consistent
// while array items are inserted, deleted and reordered.
//
// Package layout:
//   - keypath: dotted/bracketed key paths ("friends[2].name"), array path
//     substitution and JSON Pointer conversion.
//   - schema: schema elements with ordered properties, and lookup of the
//     element describing a value path.
//   - tmpl: the restricted label and value templates.
//   - memrender: an in-memory Renderer holding live field values.
//   - validator/jsonschema: a Validator backed by a JSON Schema engine.
//   - cmd/formtree: a CLI to inspect compiled forms.
//
// Typical usage:
//
//	desc, err := formtree.LoadFile("form.json")
//	t, err := formtree.New(desc, formtree.Options{Renderer: memrender.New()})
//	err = t.Present()
//	friends := t.FindByKey("friends")
//	err = t.InsertItem(friends, 0)
//	values, err := t.Values()
//
// A Tree and its nodes are not safe for concurrent use.
package formtree
