package formtree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/schema"
)

func mustLoad(t *testing.T, desc string) *formtree.FormDescriptor {
	t.Helper()
	d, err := formtree.LoadJSON([]byte(desc))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	return d
}

func mustCompile(t *testing.T, desc string, opts formtree.Options) *formtree.Tree {
	t.Helper()
	tree, err := formtree.New(mustLoad(t, desc), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tree
}

func childKeys(n *formtree.Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Key)
	}
	return out
}

func TestCompile_DefaultLayoutFollowsSchemaOrder(t *testing.T) {
	tree := mustCompile(t, `{
		"schema": {
			"zeta": {"type": "string"},
			"alpha": {"type": "integer"},
			"mid": {"type": "boolean"}
		}
	}`, formtree.Options{Prefix: "f"})

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid", ""}, childKeys(tree.Root)); diff != "" {
		t.Fatalf("root children (-want +got):\n%s", diff)
	}
	kinds := []formtree.Kind{formtree.KindText, formtree.KindNumber, formtree.KindCheckbox, formtree.KindActions}
	for i, c := range tree.Root.Children {
		if c.Kind != kinds[i] {
			t.Errorf("child %d kind = %s, want %s", i, c.Kind, kinds[i])
		}
	}
	actions := tree.Root.Children[3]
	if len(actions.Children) != 1 || actions.Children[0].Kind != formtree.KindSubmit {
		t.Fatalf("actions children = %+v", actions.Children)
	}
	if v := actions.Children[0].Value; v != "Submit" {
		t.Fatalf("submit value = %v", v)
	}
}

func TestCompile_WildcardExpandsInPlace(t *testing.T) {
	tree := mustCompile(t, `{
		"schema": {"b": {"type": "string"}, "a": {"type": "string"}, "c": {"type": "string"}},
		"form": ["c", "*", {"type": "help"}]
	}`, formtree.Options{})

	if diff := cmp.Diff([]string{"c", "b", "a", "c", ""}, childKeys(tree.Root)); diff != "" {
		t.Fatalf("root children (-want +got):\n%s", diff)
	}
}

func TestCompile_CompletesFromSchema(t *testing.T) {
	tree := mustCompile(t, `{
		"schema": {
			"user": {
				"type": "object",
				"title": "User",
				"properties": {
					"name": {"type": "string", "title": "Name", "description": "Full name"},
					"color": {"type": "string", "format": "color"},
					"size": {"type": "string", "enum": ["s", "m"]},
					"ratio": {"type": "number"},
					"meta": {"type": "object"}
				}
			}
		},
		"form": ["user"],
		"prefix": "p"
	}`, formtree.Options{})

	user := tree.Root.Children[0]
	if user.Kind != formtree.KindFieldset || user.Title != "User" {
		t.Fatalf("user = %s %q", user.Kind, user.Title)
	}
	want := []string{"user.name", "user.color", "user.size", "user.ratio", "user.meta"}
	if diff := cmp.Diff(want, childKeys(user)); diff != "" {
		t.Fatalf("user children (-want +got):\n%s", diff)
	}
	name := user.Children[0]
	if name.ID != "p-elt-user.name" || name.Name != "user.name" || name.KeyDash != "user---name" {
		t.Errorf("name identity = %q %q %q", name.ID, name.Name, name.KeyDash)
	}
	if name.Title != "Name" || name.Description != "Full name" {
		t.Errorf("name labels = %q %q", name.Title, name.Description)
	}
	if k := user.Children[1].Kind; k != formtree.KindColor {
		t.Errorf("color kind = %s", k)
	}
	size := user.Children[2]
	if size.Kind != formtree.KindSelect {
		t.Errorf("size kind = %s", size.Kind)
	}
	if diff := cmp.Diff([]formtree.Option{{Value: "s", Title: "s"}, {Value: "m", Title: "m"}}, size.Options); diff != "" {
		t.Errorf("size options (-want +got):\n%s", diff)
	}
	if step := user.Children[3].Fragment.Step; step != "any" {
		t.Errorf("ratio step = %v", step)
	}
	if k := user.Children[4].Kind; k != formtree.KindTextarea {
		t.Errorf("meta kind = %s", k)
	}
}

func TestCompile_Errors(t *testing.T) {
	cases := []struct {
		name string
		desc string
		code string
		want error
	}{
		{
			"unknown key",
			`{"schema": {"a": {"type": "string"}}, "form": ["nosuch"]}`,
			formtree.CodeUnknownSchemaKey, formtree.ErrUnknownSchemaKey,
		},
		{
			"ref",
			`{"schema": {"a": {"$ref": "#/definitions/x"}}, "form": ["a"]}`,
			formtree.CodeUnsupportedSchemaConstruct, formtree.ErrUnsupportedSchemaConstruct,
		},
		{
			"below ref",
			`{"schema": {"a": {"$ref": "#/definitions/x"}}, "form": ["a.b"]}`,
			formtree.CodeUnsupportedSchemaConstruct, formtree.ErrUnsupportedSchemaConstruct,
		},
		{
			"multiple types",
			`{"schema": {"a": {"type": ["string", "number"]}}}`,
			formtree.CodeMultipleSchemaTypes, formtree.ErrMultipleSchemaTypes,
		},
		{
			"no type",
			`{"schema": {"a": {"title": "A"}}, "form": ["a"]}`,
			formtree.CodeUnresolvableType, formtree.ErrUnresolvableType,
		},
		{
			"unknown schema type",
			`{"schema": {"a": {"type": "weird"}}, "form": ["a"]}`,
			formtree.CodeUnresolvableType, formtree.ErrUnresolvableType,
		},
		{
			"unknown kind",
			`{"schema": {"a": {"type": "string"}}, "form": [{"key": "a", "type": "spinner"}]}`,
			formtree.CodeUnknownKind, formtree.ErrUnknownKind,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree, err := formtree.New(mustLoad(t, c.desc), formtree.Options{})
			if err == nil {
				t.Fatal("expected an error")
			}
			if tree != nil {
				t.Fatal("expected no tree on failure")
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("errors.Is(%v, %v) = false", err, c.want)
			}
			var ce *formtree.CompileError
			if !errors.As(err, &ce) || ce.Code != c.code {
				t.Fatalf("error = %#v, want code %s", err, c.code)
			}
		})
	}
}

func TestCompile_NullTypeIsDropped(t *testing.T) {
	tree := mustCompile(t, `{"schema": {"a": {"type": ["null", "string"], "required": true}}, "form": ["a"]}`, formtree.Options{})
	a := tree.Root.Children[0]
	if a.Kind != formtree.KindText {
		t.Fatalf("kind = %s", a.Kind)
	}
	if a.Schema.Required {
		t.Fatal("null type should clear required")
	}
}

func TestCompile_DoesNotMutateLayout(t *testing.T) {
	desc := mustLoad(t, `{"schema": {"a": {"type": "string", "title": "A"}}}`)
	frag := formtree.KeyFragment("a")
	desc.Form = []*formtree.Fragment{frag}

	first, err := formtree.New(desc, formtree.Options{Prefix: "one"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := formtree.New(desc, formtree.Options{Prefix: "two"})
	if err != nil {
		t.Fatal(err)
	}
	if frag.Name != "" || frag.Type != "" || frag.ID != "" || frag.Title != "" {
		t.Fatalf("caller fragment was modified: %+v", frag)
	}
	if a, b := first.Root.Children[0].ID, second.Root.Children[0].ID; a != "one-elt-a" || b != "two-elt-a" {
		t.Fatalf("ids = %q, %q", a, b)
	}
}

func TestCompile_DoesNotMutateSchema(t *testing.T) {
	desc := mustLoad(t, `{
		"schema": {
			"a": {"type": ["null", "string"], "required": true},
			"s": {"type": "string"},
			"tags": {"type": "array", "items": {"type": "string", "enum": ["x", "y"]}}
		},
		"form": [{"key": "a"}, {"key": "s", "allowEmpty": true}, {"key": "tags", "type": "checkboxes"}]
	}`)
	tree, err := formtree.New(desc, formtree.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !tree.Root.Children[1].Schema.AllowEmpty || !tree.Root.Children[2].Schema.Items.CheckboxesAsArray {
		t.Fatal("tree schema not annotated")
	}
	props := desc.Schema.Properties
	if !props.Get("a").Required {
		t.Error("caller schema lost required")
	}
	if props.Get("s").AllowEmpty {
		t.Error("caller schema got allowEmpty")
	}
	if props.Get("tags").Items.CheckboxesAsArray {
		t.Error("caller schema got checkboxesAsArray")
	}
	if tree.Schema() == desc.Schema {
		t.Error("tree shares the caller schema")
	}
}

func TestCompile_DefaultPrefixIsUnique(t *testing.T) {
	const desc = `{"schema": {"a": {"type": "string"}}}`
	a := mustCompile(t, desc, formtree.Options{})
	b := mustCompile(t, desc, formtree.Options{})
	if a.Prefix() == b.Prefix() {
		t.Fatalf("prefixes collide: %q", a.Prefix())
	}
}

func TestCompile_OnElementSchema(t *testing.T) {
	var seen []string
	mustCompile(t, `{"schema": {"a": {"type": "string"}, "b": {"type": "object", "properties": {"c": {"type": "string"}}}}}`,
		formtree.Options{OnElementSchema: func(f *formtree.Fragment, _ *schema.Element) {
			seen = append(seen, f.Key)
		}})
	if diff := cmp.Diff([]string{"a", "b", "b.c"}, seen); diff != "" {
		t.Fatalf("hook calls (-want +got):\n%s", diff)
	}
}

func TestTree_FindByKeyAndHasRequired(t *testing.T) {
	tree := mustCompile(t, `{
		"schema": {
			"properties": {
				"a": {"type": "string"},
				"b": {"type": "object", "properties": {"c": {"type": "string"}}, "required": ["c"]}
			}
		}
	}`, formtree.Options{})
	if n := tree.FindByKey("b.c"); n == nil || n.Parent().Key != "b" {
		t.Fatalf("FindByKey(b.c) = %+v", n)
	}
	if tree.FindByKey("nope") != nil {
		t.Fatal("FindByKey(nope) should be nil")
	}
	if !tree.HasRequiredField() {
		t.Fatal("HasRequiredField = false")
	}
	count := 0
	tree.ForEach(func(*formtree.Node) { count++ })
	// root, a, b, b.c, actions, submit
	if count != 6 {
		t.Fatalf("ForEach visited %d nodes", count)
	}
}
