package formtree_test

import (
	"testing"

	j "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/schema"
)

func TestExtractValues_Coercion(t *testing.T) {
	root := schema.MustParseJSON(`{
		"flag": {"type": "boolean"},
		"on": {"type": "boolean"},
		"n": {"type": "number"},
		"i": {"type": "integer"},
		"blank": {"type": "number"},
		"s": {"type": "string"},
		"keep": {"type": "string"},
		"obj": {"type": "object"},
		"bad": {"type": "object"},
		"none": {"type": "object"},
		"tags": {"type": "array", "items": {"type": "string", "enum": ["a", "b", "c"]}},
		"list": {"type": "array", "items": {"type": "object", "properties": {"x": {"type": "integer"}}}}
	}`)
	root.Properties.Get("keep").AllowEmpty = true
	root.Properties.Get("tags").Items.CheckboxesAsArray = true

	fields := []formtree.Field{
		{Name: "flag", Value: "0"},
		{Name: "on", Value: "yes"},
		{Name: "n", Value: "3.5"},
		{Name: "i", Value: "abc"},
		{Name: "blank", Value: " "},
		{Name: "s", Value: ""},
		{Name: "keep", Value: ""},
		{Name: "obj", Value: `{"k": 1}`},
		{Name: "bad", Value: "{nope"},
		{Name: "none", Value: "null"},
		{Name: "tags[0]", Value: true},
		{Name: "tags[1]", Value: false},
		{Name: "tags[2]", Value: "on"},
		{Name: "list[1].x", Value: "4"},
		{Name: "unknown", Value: "x"},
	}
	want := map[string]any{
		"flag": false,
		"on":   true,
		"n":    3.5,
		"i":    "abc",
		"keep": "",
		"obj":  map[string]any{"k": float64(1)},
		"bad":  map[string]any{},
		"tags": []any{"a", "c"},
		"list": []any{nil, map[string]any{"x": float64(4)}},
	}
	got := formtree.ExtractValues(root, fields, nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
}

func TestExtractValues_NonFiniteNumbersStayText(t *testing.T) {
	root := schema.MustParseJSON(`{"n": {"type": "number"}}`)
	for _, in := range []string{"NaN", "Inf", "+Inf", "-infinity", "abc"} {
		got := formtree.ExtractValues(root, []formtree.Field{{Name: "n", Value: in}}, nil)
		if diff := cmp.Diff(map[string]any{"n": in}, got); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", in, diff)
		}
		if _, err := j.Marshal(got); err != nil {
			t.Fatalf("%q: marshal: %v", in, err)
		}
	}
}

func TestExtractValues_Remap(t *testing.T) {
	root := schema.MustParseJSON(`{
		"friends": {"type": "array", "items": {"type": "object", "properties": {
			"name": {"type": "string"},
			"tags": {"type": "array", "items": {"type": "string"}}
		}}}
	}`)
	fields := []formtree.Field{
		{Name: "friends[0].name", Value: "a"},
		{Name: "friends[0].tags[1]", Value: "t"},
	}
	want := map[string]any{"friends": []any{
		nil, nil,
		map[string]any{"name": "a", "tags": []any{nil, "t"}},
	}}
	if diff := cmp.Diff(want, formtree.ExtractValues(root, fields, []int{2})); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
}

func TestCollectFields(t *testing.T) {
	tree := mustCompile(t, `{
		"schema": {"a": {"type": "string", "default": "x"}, "b": {"type": "object", "properties": {"c": {"type": "integer"}}}},
		"value": {"b": {"c": 3}}
	}`, formtree.Options{})
	want := []formtree.Field{{Name: "a", Value: "x"}, {Name: "b.c", Value: float64(3)}}
	if diff := cmp.Diff(want, formtree.CollectFields(tree.Root)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
}
