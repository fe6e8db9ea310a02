package formtree

import (
	"context"
	"fmt"

	"github.com/reoring/formtree/keypath"
	"github.com/reoring/formtree/schema"
)

// Validator checks a value object against a schema. Implementations report
// findings as Issues whose Path is a JSON Pointer into values; the error
// return is reserved for failures of the validator itself.
type Validator interface {
	Validate(ctx context.Context, values map[string]any, root *schema.Element) (Issues, error)
}

// Highlight ties a validation issue to the form field it concerns.
type Highlight struct {
	// Key is the value path of the issue, such as "friends[1].name".
	Key  string
	Dash string
	// Node is the field bound to Key, or nil when the form has none.
	Node  *Node
	Issue Issue
}

// IssueAt builds an Issue for the value at key.
func IssueAt(key, code, msg string, params map[string]any) Issue {
	p, err := keypath.Parse(key)
	if err != nil {
		return Issue{Path: "", Code: code, Message: msg, Severity: Error, Params: params}
	}
	return Issue{Path: keypath.ToPointer(p), Code: code, Message: msg, Severity: Error, Params: params}
}

// Validate reads the current values of the form, runs v over them and maps
// every issue back to the field it concerns.
func (t *Tree) Validate(ctx context.Context, v Validator) ([]Highlight, error) {
	err := t.Check(ctx, v)
	if err == nil {
		return nil, nil
	}
	iss, ok := AsIssues(err)
	if !ok {
		return nil, err
	}
	return t.Highlights(iss), nil
}

// Check validates the current values of the form and returns the issues
// found as an error, or nil when the values are valid. Use AsIssues to get
// them back; Highlights maps them to fields.
func (t *Tree) Check(ctx context.Context, v Validator) error {
	values, err := t.Values()
	if err != nil {
		return err
	}
	iss, err := v.Validate(ctx, values, t.schema)
	if err != nil {
		return fmt.Errorf("formtree: validate: %w", err)
	}
	kept := iss[:0:0]
	for _, is := range iss {
		if is.Severity != Ignore {
			kept = append(kept, is)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// Highlights maps issues to form fields. Issues are kept in order; those
// below the Ignore threshold are dropped.
func (t *Tree) Highlights(iss Issues) []Highlight {
	out := make([]Highlight, 0, len(iss))
	for _, is := range iss {
		if is.Severity == Ignore {
			continue
		}
		key := keypath.FromPointer(is.Path)
		out = append(out, Highlight{
			Key:   key,
			Dash:  keypath.Dash(key),
			Node:  t.FindByKey(key),
			Issue: is,
		})
	}
	return out
}
