// Package jsonschema validates form values with a draft-7 JSON Schema
// engine and reports the findings as formtree issues.
package jsonschema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	j "github.com/goccy/go-json"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
	"github.com/reoring/formtree/keypath"
	"github.com/reoring/formtree/schema"
)

const resourceURL = "mem:///formtree/schema.json"

// Validator implements formtree.Validator. Compiled schemas are cached per
// root element; a Validator is safe for concurrent use.
type Validator struct {
	mu       sync.Mutex
	compiled map[*schema.Element]*jschema.Schema
}

// New returns a Validator with an empty cache.
func New() *Validator {
	return &Validator{compiled: map[*schema.Element]*jschema.Schema{}}
}

var _ formtree.Validator = (*Validator)(nil)

// Validate checks values against root. Schema compilation failures are
// returned as errors; findings are returned as Issues sorted by path.
func (v *Validator) Validate(ctx context.Context, values map[string]any, root *schema.Element) (formtree.Issues, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sch, err := v.compile(root)
	if err != nil {
		return nil, err
	}
	doc, err := normalize(values)
	if err != nil {
		return nil, err
	}
	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("jsonschema: validate: %w", err)
	}
	var iss formtree.Issues
	for _, leaf := range leaves(ve, nil) {
		iss = append(iss, issuesFor(leaf, values, root)...)
	}
	slices.SortStableFunc(iss, func(a, b formtree.Issue) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return iss, nil
}

func (v *Validator) compile(root *schema.Element) (*jschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.compiled[root]; ok {
		return sch, nil
	}
	raw, err := j.Marshal(root.Draft7())
	if err != nil {
		return nil, fmt.Errorf("jsonschema: encode schema: %w", err)
	}
	c := jschema.NewCompiler()
	c.Draft = jschema.Draft7
	if err := c.AddResource(resourceURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("jsonschema: load schema: %w", err)
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile schema: %w", err)
	}
	v.compiled[root] = sch
	return sch, nil
}

// normalize round-trips values through JSON so the engine only sees JSON
// types.
func normalize(values map[string]any) (any, error) {
	if values == nil {
		values = map[string]any{}
	}
	b, err := j.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: encode values: %w", err)
	}
	var doc any
	if err := j.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("jsonschema: decode values: %w", err)
	}
	return doc, nil
}

func leaves(ve *jschema.ValidationError, out []*jschema.ValidationError) []*jschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(out, ve)
	}
	for _, c := range ve.Causes {
		out = leaves(c, out)
	}
	return out
}

func keyword(ve *jschema.ValidationError) string {
	loc := ve.KeywordLocation
	return loc[strings.LastIndexByte(loc, '/')+1:]
}

func codeFor(kw string) string {
	switch kw {
	case "required":
		return formtree.CodeRequired
	case "type":
		return formtree.CodeInvalidType
	case "minLength", "minItems", "minProperties":
		return formtree.CodeTooShort
	case "maxLength", "maxItems", "maxProperties":
		return formtree.CodeTooLong
	case "minimum", "exclusiveMinimum":
		return formtree.CodeTooSmall
	case "maximum", "exclusiveMaximum":
		return formtree.CodeTooBig
	case "pattern":
		return formtree.CodePattern
	case "enum", "const":
		return formtree.CodeInvalidEnum
	case "format":
		return formtree.CodeInvalidFormat
	}
	return formtree.CodeInvalid
}

// issuesFor converts one leaf error. A missing required property is
// reported at the property itself so that it can be tied to its field.
func issuesFor(ve *jschema.ValidationError, values map[string]any, root *schema.Element) formtree.Issues {
	kw := keyword(ve)
	code := codeFor(kw)
	mk := func(path string) formtree.Issue {
		return formtree.Issue{
			Path:     path,
			Code:     code,
			Message:  i18n.T(code, nil),
			Severity: formtree.Error,
			Params:   map[string]any{"keyword": kw, "detail": ve.Message},
		}
	}
	if kw != "required" {
		return formtree.Issues{mk(ve.InstanceLocation)}
	}
	missing := missingRequired(ve.InstanceLocation, values, root)
	if len(missing) == 0 {
		return formtree.Issues{mk(ve.InstanceLocation)}
	}
	out := make(formtree.Issues, 0, len(missing))
	for _, name := range missing {
		esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
		out = append(out, mk(ve.InstanceLocation+"/"+esc))
	}
	return out
}

func missingRequired(ptr string, values map[string]any, root *schema.Element) []string {
	key := keypath.FromPointer(ptr)
	el := root
	var obj any = values
	if key != "" {
		var err error
		if el, err = schema.Resolve(root, key); err != nil || el == nil {
			return nil
		}
		obj, _ = keypath.GetString(values, key)
	}
	m, _ := obj.(map[string]any)
	names := slices.Clone(el.RequiredNames)
	for _, name := range el.Properties.Names() {
		if el.Properties.Get(name).Required && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	var missing []string
	for _, name := range names {
		if m[name] == nil {
			missing = append(missing, name)
		}
	}
	return missing
}
