package schema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/formtree/schema"
)

const friends = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "title": "Name", "maxLength": 10},
    "friends": {
      "type": "array",
      "minItems": 2,
      "items": {
        "type": "object",
        "properties": {
          "nick": {"type": "string", "required": true},
          "tags": {"type": "array", "items": [{"type": "string", "enum": ["a", "b"]}]}
        }
      }
    },
    "linked": {"$ref": "#/definitions/other"},
    "age": {"type": ["integer", "null"], "required": true}
  }
}`

func TestParse_PropertyOrder(t *testing.T) {
	root := schema.MustParseJSON(friends)
	if diff := cmp.Diff([]string{"name", "friends", "linked", "age"}, root.Properties.Names()); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	f := root.Properties.Get("friends")
	if f.MinItems == nil || *f.MinItems != 2 {
		t.Fatalf("minItems = %v", f.MinItems)
	}
	if f.ItemSchema() == nil || !f.ItemSchema().HasType("object") {
		t.Fatalf("items not parsed")
	}
}

func TestParseRoot_Shorthand(t *testing.T) {
	root := schema.MustParseJSON(`{"b": {"type": "string"}, "a": {"type": "number"}}`)
	if !root.HasType("object") {
		t.Fatalf("wrapped root should be an object, got %v", root.Type)
	}
	if diff := cmp.Diff([]string{"b", "a"}, root.Properties.Names()); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	root := schema.MustParseJSON(friends)
	cases := []struct {
		path  string
		title string
		typ   string
	}{
		{"name", "Name", "string"},
		{"friends", "", "array"},
		{"friends[3].nick", "", "string"},
		{"friends[].nick", "", "string"},
		{"friends[0].tags[1]", "", "string"},
		{"friends[]", "", "object"},
	}
	for _, c := range cases {
		el, err := schema.Resolve(root, c.path)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", c.path, err)
		}
		if el == nil {
			t.Fatalf("Resolve(%q): nil", c.path)
		}
		if !el.HasType(c.typ) || el.Title != c.title {
			t.Fatalf("Resolve(%q) = %v %q", c.path, el.Type, el.Title)
		}
	}
}

func TestResolve_Missing(t *testing.T) {
	root := schema.MustParseJSON(friends)
	for _, p := range []string{"nope", "name.deeper", "friends[0].nope", ""} {
		el, err := schema.Resolve(root, p)
		if err != nil || el != nil {
			t.Fatalf("Resolve(%q) = %v, %v; want nil, nil", p, el, err)
		}
	}
}

func TestResolve_Ref(t *testing.T) {
	root := schema.MustParseJSON(friends)
	for _, p := range []string{"linked", "linked.inner"} {
		_, err := schema.Resolve(root, p)
		if !errors.Is(err, schema.ErrUnsupported) {
			t.Fatalf("Resolve(%q): want ErrUnsupported, got %v", p, err)
		}
	}
}

func TestConcreteType(t *testing.T) {
	root := schema.MustParseJSON(friends)
	age := root.Properties.Get("age")
	if !age.Required {
		t.Fatalf("age should start required")
	}
	typ, err := age.ConcreteType()
	if err != nil || typ != "integer" {
		t.Fatalf("ConcreteType = %q, %v", typ, err)
	}
	if age.Required {
		t.Fatalf("nullable type should clear required")
	}

	multi := schema.MustParseJSON(`{"x": {"type": ["string", "number"]}}`).Properties.Get("x")
	if _, err := multi.ConcreteType(); !errors.Is(err, schema.ErrMultipleTypes) {
		t.Fatalf("want ErrMultipleTypes, got %v", err)
	}
}

func TestDraft7_LiftsRequired(t *testing.T) {
	root := schema.MustParseJSON(`{
	  "properties": {
	    "a": {"type": "string", "required": true},
	    "b": {"type": "any"},
	    "c": {"type": "object", "properties": {"d": {"type": "string", "required": true}}}
	  }
	}`)
	got := root.Draft7()
	want := map[string]any{
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{},
			"c": map[string]any{
				"type":       "object",
				"required":   []any{"d"},
				"properties": map[string]any{"d": map[string]any{"type": "string"}},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("draft7 (-want +got):\n%s", diff)
	}
}

func TestHasRequired(t *testing.T) {
	if !schema.MustParseJSON(friends).HasRequired() {
		t.Fatalf("friends schema has a required nick")
	}
	if schema.MustParseJSON(`{"flag": {"type": "boolean", "required": true}}`).HasRequired() {
		t.Fatalf("required booleans do not count")
	}
}
