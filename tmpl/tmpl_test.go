package tmpl_test

import (
	"testing"

	"github.com/reoring/formtree/tmpl"
)

func TestRender(t *testing.T) {
	lookup := func(key string) any {
		switch key {
		case "user.name":
			return "Bob"
		case "count":
			return float64(3)
		}
		return nil
	}
	cases := []struct {
		name string
		in   string
		bag  tmpl.Bag
		want string
	}{
		{"plain", "no templates here", tmpl.Bag{}, "no templates here"},
		{"idx", "Item {{idx}}", tmpl.Bag{Idx: 2}, "Item 2"},
		{"value", "{{ value }}!", tmpl.Bag{Value: "hi"}, "hi!"},
		{"nil value", "[{{value}}]", tmpl.Bag{}, "[]"},
		{"lookup", `Hello {{getValue("user.name")}}`, tmpl.Bag{GetValue: lookup}, "Hello Bob"},
		{"number", `{{getValue("count")}} items`, tmpl.Bag{GetValue: lookup}, "3 items"},
		{"arith", "#{{idx + 1}}", tmpl.Bag{Idx: 1}, "#2"},
		{"data", "{{site}}/{{idx}}", tmpl.Bag{Idx: 4, Data: map[string]any{"site": "x", "idx": 99}}, "x/4"},
		{"escape", `\{{idx}} and \\`, tmpl.Bag{Idx: 1}, `{{idx}} and \`},
		{"unknown name kept", "a {{nosuch}} b", tmpl.Bag{}, "a {{nosuch}} b"},
		{"builtins unavailable", `a {{ len("ab") }} b`, tmpl.Bag{}, `a {{ len("ab") }} b`},
		{"syntax error kept", "a {{ (idx }} b", tmpl.Bag{}, "a {{ (idx }} b"},
		{"unclosed", "a {{idx", tmpl.Bag{Idx: 1}, "a {{idx"},
		{"if true", "{[ if value ]}on{[ else ]}off{[ end ]}", tmpl.Bag{Value: true}, "on"},
		{"if false", "{[ if value ]}on{[ else ]}off{[ end ]}", tmpl.Bag{Value: ""}, "off"},
		{"if no else", "x{[ if idx > 1 ]}-{{idx}}{[ end ]}", tmpl.Bag{Idx: 3}, "x-3"},
		{"nested if", "{[ if idx ]}a{[ if value ]}b{[ end ]}c{[ end ]}", tmpl.Bag{Idx: 1}, "ac"},
		{"missing end", "{[ if value ]}kept", tmpl.Bag{Value: "y"}, "kept"},
		{"stray end", "a{[ end ]}b", tmpl.Bag{}, "ab"},
		{"unknown statement", "a{[ print(1) ]}b", tmpl.Bag{}, "ab"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := tmpl.Render(c.in, c.bag); got != c.want {
				t.Fatalf("Render(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestRewriteValueRefs(t *testing.T) {
	cases := map[string]string{
		"Hello {{values.user.name}}":       `Hello {{getValue("user.name")}}`,
		"{{values.a}} & {{values.b[0].c}}": `{{getValue("a")}} & {{getValue("b[0].c")}}`,
		"{{value}}":                        "{{value}}",
		"{{values.}}":                      "{{values.}}",
	}
	for in, want := range cases {
		if got := tmpl.RewriteValueRefs(in); got != want {
			t.Errorf("RewriteValueRefs(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasTemplate(t *testing.T) {
	if tmpl.HasTemplate("plain") || !tmpl.HasTemplate("{{x}}") || !tmpl.HasTemplate("{[ if x ]}") {
		t.Fatal("HasTemplate mismatch")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{float64(5), "5"},
		{1.5, "1.5"},
		{true, "true"},
		{[]any{"a"}, `["a"]`},
	}
	for _, c := range cases {
		if got := tmpl.Format(c.in); got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
