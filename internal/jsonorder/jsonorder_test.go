package jsonorder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeJSON_KeepsOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"zeta": 1, "alpha": {"y": true, "b": null}, "mid": [1, "two"]}`))
	if err != nil {
		t.Fatal(err)
	}
	obj := v.(*Object)
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, obj.Keys); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	inner := obj.Values["alpha"].(*Object)
	if diff := cmp.Diff([]string{"y", "b"}, inner.Keys); diff != "" {
		t.Fatalf("inner keys (-want +got):\n%s", diff)
	}
	want := map[string]any{
		"zeta":  float64(1),
		"alpha": map[string]any{"y": true, "b": nil},
		"mid":   []any{float64(1), "two"},
	}
	if diff := cmp.Diff(want, Plain(v)); diff != "" {
		t.Fatalf("plain (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	for _, in := range []string{`{"a":`, `{"a":1} {}`, ``} {
		if _, err := DecodeJSON([]byte(in)); err == nil {
			t.Fatalf("DecodeJSON(%q): expected error", in)
		}
	}
}

func TestDecodeYAML_KeepsOrder(t *testing.T) {
	src := "zeta: 1\nalpha:\n  y: true\n  b: ~\nmid:\n  - 1\n  - two\n"
	v, err := DecodeYAML([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	obj := v.(*Object)
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, obj.Keys); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	want := map[string]any{
		"zeta":  float64(1),
		"alpha": map[string]any{"y": true, "b": nil},
		"mid":   []any{float64(1), "two"},
	}
	if diff := cmp.Diff(want, Plain(v)); diff != "" {
		t.Fatalf("plain (-want +got):\n%s", diff)
	}
}

func TestObject_SetKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("a", 1)
	o.Set("b", 2)
	o.Set("a", 3)
	if diff := cmp.Diff([]string{"a", "b"}, o.Keys); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if v, _ := o.Get("a"); v != 3 {
		t.Fatalf("a = %v", v)
	}
}
