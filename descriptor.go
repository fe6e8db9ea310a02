package formtree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/formtree/internal/jsonorder"
	"github.com/reoring/formtree/schema"
)

// FormDescriptor is the input of compilation.
type FormDescriptor struct {
	Schema *schema.Element
	// Form is the layout. Empty means every schema property followed by a
	// submit button.
	Form []*Fragment
	// Value holds previously submitted values.
	Value  map[string]any
	Prefix string
	Params map[string]any
	// TplData is extra data visible to label and value templates.
	TplData map[string]any
}

// LoadJSON reads a descriptor from JSON.
func LoadJSON(b []byte) (*FormDescriptor, error) {
	v, err := jsonorder.DecodeJSON(b)
	if err != nil {
		return nil, fmt.Errorf("formtree: decode descriptor: %w", err)
	}
	return descriptorFrom(v)
}

// LoadYAML reads a descriptor from YAML.
func LoadYAML(b []byte) (*FormDescriptor, error) {
	v, err := jsonorder.DecodeYAML(b)
	if err != nil {
		return nil, fmt.Errorf("formtree: decode descriptor: %w", err)
	}
	return descriptorFrom(v)
}

// LoadFile reads a descriptor from path, choosing YAML for .yaml/.yml files
// and JSON otherwise.
func LoadFile(path string) (*FormDescriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(b)
	}
	return LoadJSON(b)
}

// LoadValues reads a submitted value object from JSON or YAML bytes.
func LoadValues(b []byte, yaml bool) (map[string]any, error) {
	var (
		v   any
		err error
	)
	if yaml {
		v, err = jsonorder.DecodeYAML(b)
	} else {
		v, err = jsonorder.DecodeJSON(b)
	}
	if err != nil {
		return nil, fmt.Errorf("formtree: decode values: %w", err)
	}
	m, ok := jsonorder.Plain(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("formtree: values must be an object, got %T", v)
	}
	return m, nil
}

func descriptorFrom(v any) (*FormDescriptor, error) {
	obj, ok := v.(*jsonorder.Object)
	if !ok {
		return nil, fmt.Errorf("formtree: descriptor must be an object, got %T", v)
	}
	d := &FormDescriptor{}
	sv, ok := obj.Get("schema")
	if !ok {
		return nil, fmt.Errorf("formtree: descriptor has no schema")
	}
	s, err := schema.ParseRoot(sv)
	if err != nil {
		return nil, err
	}
	d.Schema = s
	if fv, ok := obj.Get("form"); ok {
		entries, ok := fv.([]any)
		if !ok {
			entries = []any{fv}
		}
		for _, e := range entries {
			f, err := ParseFragment(e)
			if err != nil {
				return nil, err
			}
			d.Form = append(d.Form, f)
		}
	}
	for _, name := range []string{"value", "values"} {
		if vv, ok := obj.Get(name); ok && vv != nil {
			m, ok := jsonorder.Plain(vv).(map[string]any)
			if !ok {
				return nil, fmt.Errorf("formtree: descriptor %s must be an object", name)
			}
			d.Value = m
		}
	}
	if pv, ok := obj.Get("prefix"); ok {
		d.Prefix = str(pv)
	}
	if pv, ok := obj.Get("params"); ok {
		d.Params, _ = jsonorder.Plain(pv).(map[string]any)
	}
	if tv, ok := obj.Get("tpldata"); ok {
		d.TplData, _ = jsonorder.Plain(tv).(map[string]any)
	}
	return d, nil
}
