package schema

// Draft7 returns the raw schema rewritten for draft-7 validators: boolean
// "required" flags on properties are lifted into the parent's "required"
// list, and the "any" pseudo-type is dropped.
func (e *Element) Draft7() map[string]any {
	if e == nil {
		return map[string]any{}
	}
	return draft7(e.Raw)
}

func draft7(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	if _, ok := out["required"].(bool); ok {
		delete(out, "required")
	}
	switch t := out["type"].(type) {
	case string:
		if t == "any" {
			delete(out, "type")
		}
	case []any:
		kept := make([]any, 0, len(t))
		for _, x := range t {
			if x != "any" {
				kept = append(kept, x)
			}
		}
		out["type"] = kept
	}
	if props, ok := out["properties"].(map[string]any); ok {
		var required []any
		if names, ok := out["required"].([]any); ok {
			required = append(required, names...)
		}
		np := make(map[string]any, len(props))
		for name, pv := range props {
			pm, ok := pv.(map[string]any)
			if !ok {
				np[name] = pv
				continue
			}
			if r, ok := pm["required"].(bool); ok && r {
				required = appendUnique(required, name)
			}
			np[name] = draft7(pm)
		}
		out["properties"] = np
		if len(required) > 0 {
			out["required"] = required
		}
	}
	switch it := out["items"].(type) {
	case map[string]any:
		out["items"] = draft7(it)
	case []any:
		items := make([]any, len(it))
		for i, x := range it {
			if xm, ok := x.(map[string]any); ok {
				items[i] = draft7(xm)
			} else {
				items[i] = x
			}
		}
		out["items"] = items
	}
	return out
}

func appendUnique(list []any, name string) []any {
	for _, x := range list {
		if x == name {
			return list
		}
	}
	return append(list, name)
}

// HasRequired reports whether e or any element below it declares a
// required, non-boolean value.
func (e *Element) HasRequired() bool {
	if e == nil {
		return false
	}
	if e.Required && !e.HasType("boolean") {
		return true
	}
	if len(e.RequiredNames) > 0 {
		return true
	}
	for _, name := range e.Properties.Names() {
		if e.Properties.Get(name).HasRequired() {
			return true
		}
	}
	if e.Items.HasRequired() {
		return true
	}
	for _, it := range e.ItemsTuple {
		if it.HasRequired() {
			return true
		}
	}
	return false
}
