package memrender_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/memrender"
)

const desc = `{
	"schema": {
		"name": {"type": "string"},
		"age": {"type": "integer"},
		"subscribed": {"type": "boolean"},
		"meta": {"type": "object"},
		"tags": {"type": "array", "items": {"type": "string", "enum": ["a", "b", "c"]}},
		"friends": {"type": "array", "items": {"type": "object", "properties": {"nick": {"type": "string"}}}}
	},
	"form": [
		"name", "age", "subscribed", "meta",
		{"key": "tags", "type": "checkboxes"},
		{"key": "friends", "items": [{"type": "fieldset", "legend": "Friend {{value}}", "items": [{"key": "friends[].nick", "valueInLegend": true}]}]}
	],
	"value": {
		"name": "Ann", "age": 30, "subscribed": true, "meta": {"k": "v"},
		"tags": ["b"], "friends": [{"nick": "x"}, {"nick": "y"}]
	}
}`

func setup(t *testing.T) (*formtree.Tree, *memrender.Renderer) {
	t.Helper()
	d, err := formtree.LoadJSON([]byte(desc))
	if err != nil {
		t.Fatal(err)
	}
	r := memrender.New()
	tree, err := formtree.New(d, formtree.Options{Renderer: r})
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Present(); err != nil {
		t.Fatal(err)
	}
	return tree, r
}

func TestPresentStoresFieldsAsText(t *testing.T) {
	_, r := setup(t)
	want := map[string]any{
		"name":            "Ann",
		"age":             "30",
		"subscribed":      true,
		"meta":            `{"k":"v"}`,
		"tags[0]":         false,
		"tags[1]":         true,
		"tags[2]":         false,
		"friends[0].nick": "x",
		"friends[1].nick": "y",
	}
	for name, w := range want {
		got, ok := r.Field(name)
		if !ok {
			t.Errorf("field %q missing", name)
			continue
		}
		if got != w {
			t.Errorf("field %q = %#v, want %#v", name, got, w)
		}
	}
}

func TestValuesRoundTrip(t *testing.T) {
	tree, _ := setup(t)
	got, err := tree.Values()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"name": "Ann", "age": float64(30), "subscribed": true, "meta": map[string]any{"k": "v"},
		"tags":    []any{"b"},
		"friends": []any{map[string]any{"nick": "x"}, map[string]any{"nick": "y"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
}

func TestInputUpdatesValuesAndLegend(t *testing.T) {
	tree, r := setup(t)
	for name, v := range map[string]any{
		"age":             "41",
		"subscribed":      false,
		"tags[2]":         true,
		"friends[1].nick": "zed",
		"name":            "",
	} {
		if err := r.Input(name, v); err != nil {
			t.Fatalf("Input(%q): %v", name, err)
		}
	}
	if err := r.Input("nosuch", "x"); err == nil {
		t.Fatal("Input on an unknown field succeeded")
	}

	got, err := tree.Values()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"age": float64(41), "subscribed": false, "meta": map[string]any{"k": "v"},
		"tags":    []any{"b", "c"},
		"friends": []any{map[string]any{"nick": "x"}, map[string]any{"nick": "zed"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
	if l := tree.FindByKey("friends").Children[1].Legend; l != "Friend zed" {
		t.Fatalf("legend = %q", l)
	}
}

func TestArrayEditsFollowLiveValues(t *testing.T) {
	tree, r := setup(t)
	friends := tree.FindByKey("friends")
	if err := r.Input("friends[0].nick", "edited"); err != nil {
		t.Fatal(err)
	}
	if err := tree.InsertItem(friends, 0); err != nil {
		t.Fatal(err)
	}
	got, err := tree.Values()
	if err != nil {
		t.Fatal(err)
	}
	want := []any{nil, map[string]any{"nick": "edited"}, map[string]any{"nick": "y"}}
	if diff := cmp.Diff(want, got["friends"]); diff != "" {
		t.Fatalf("friends (-want +got):\n%s", diff)
	}
	if v, _ := r.Field("friends[0].nick"); v != "" {
		t.Fatalf("new item field = %#v", v)
	}
	if n := r.Presents(friends.Children[0]); n != 2 {
		t.Fatalf("first item presented %d times", n)
	}
	if n := r.Presents(friends.Children[2]); n != 1 {
		t.Fatalf("new item presented %d times", n)
	}

	if err := tree.DeleteItem(friends, 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Field("friends[2].nick"); ok {
		t.Fatal("removed item still has a field")
	}
	if n := len(r.Children(friends)); n != 2 {
		t.Fatalf("presented items = %d", n)
	}
}
