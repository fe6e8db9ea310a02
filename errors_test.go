package formtree_test

import (
	"fmt"
	"testing"

	"github.com/reoring/formtree"
)

func TestIssuesError(t *testing.T) {
	iss := formtree.Issues{
		{Path: "/a", Code: formtree.CodeRequired},
		{Path: "", Code: formtree.CodeInvalidType},
		{Path: "/b/0", Code: formtree.CodeTooBig},
		{Path: "/c", Code: formtree.CodePattern},
	}
	cases := []struct {
		in   formtree.Issues
		want string
	}{
		{nil, ""},
		{iss[:1], "required at /a"},
		{iss[:3], "required at /a; invalid_type; too_big at /b/0"},
		{iss, "required at /a; invalid_type; too_big at /b/0 (+1 more)"},
	}
	for _, c := range cases {
		if got := c.in.Error(); got != c.want {
			t.Fatalf("Error() = %q, want %q", got, c.want)
		}
	}

	wrapped := fmt.Errorf("submit: %w", iss)
	got, ok := formtree.AsIssues(wrapped)
	if !ok || len(got) != len(iss) {
		t.Fatalf("AsIssues = %v, %v", got, ok)
	}
	if _, ok := formtree.AsIssues(nil); ok {
		t.Fatal("AsIssues(nil) reported issues")
	}
	if _, ok := formtree.AsIssues(formtree.ErrUnknownKind); ok {
		t.Fatal("AsIssues matched a sentinel")
	}
}
