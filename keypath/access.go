package keypath

import "errors"

// Getter is implemented by values that expose named children without being
// a map[string]any, such as parsed schema elements.
type Getter interface {
	GetKey(name string) (any, bool)
}

var (
	// ErrEmptyPath is returned by Set for an empty path.
	ErrEmptyPath = errors.New("keypath: empty path")
	// ErrRootIndex is returned by Set when the path starts with an index.
	ErrRootIndex = errors.New("keypath: path must start with a property")
	// ErrGenericIndex is returned by Set when the path contains "[]".
	ErrGenericIndex = errors.New("keypath: cannot set through a generic index")
)

// Get returns the value found at p inside v.
//
// Objects are map[string]any or Getter values, arrays are []any. The second
// result is false when a step is missing or traverses a non-container.
//
// When lenient is true a property step applied to an array looks the
// property up in the array's first element, and an array found at the end
// of the path is unwrapped to its first element. Schema lookups rely on this
// to treat "items" given as a tuple like a single item schema.
func Get(v any, p Path, lenient bool) (any, bool) {
	cur := v
	for _, seg := range p {
		if seg.Name != "" {
			next, ok := property(cur, seg.Name, lenient)
			if !ok {
				return nil, false
			}
			cur = next
		}
		for _, idx := range seg.Indices {
			arr, ok := cur.([]any)
			if !ok || idx == Generic || idx >= len(arr) {
				return nil, false
			}
			cur = arr[idx]
		}
	}
	if lenient {
		if arr, ok := cur.([]any); ok {
			if len(arr) == 0 {
				return nil, false
			}
			cur = arr[0]
		}
	}
	return cur, true
}

// GetString is a convenience wrapper parsing key before calling Get.
func GetString(v any, key string) (any, bool) {
	p, err := Parse(key)
	if err != nil {
		return nil, false
	}
	return Get(v, p, false)
}

func property(cur any, name string, lenient bool) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		v, ok := c[name]
		return v, ok
	case Getter:
		return c.GetKey(name)
	case []any:
		if lenient && len(c) > 0 {
			return property(c[0], name, false)
		}
	}
	return nil, false
}

type step struct {
	name  string
	index int
	isIdx bool
}

func steps(p Path) []step {
	out := make([]step, 0, len(p)+p.Depth())
	for _, seg := range p {
		if seg.Name != "" {
			out = append(out, step{name: seg.Name})
		}
		for _, idx := range seg.Indices {
			out = append(out, step{index: idx, isIdx: true})
		}
	}
	return out
}

// Set assigns v at p inside root, creating intermediate objects and arrays
// as needed. Arrays grow with nil holes. Intermediates that are not
// containers of the expected kind are replaced.
func Set(root map[string]any, p Path, v any) error {
	if len(p) == 0 {
		return ErrEmptyPath
	}
	if p[0].Name == "" {
		return ErrRootIndex
	}
	if p.IsGeneric() {
		return ErrGenericIndex
	}
	if root == nil {
		return errors.New("keypath: nil root")
	}
	setStep(root, steps(p), v)
	return nil
}

// SetString is a convenience wrapper parsing key before calling Set.
func SetString(root map[string]any, key string, v any) error {
	p, err := Parse(key)
	if err != nil {
		return err
	}
	return Set(root, p, v)
}

func setStep(cur any, st []step, v any) any {
	if len(st) == 0 {
		return v
	}
	s := st[0]
	if s.isIdx {
		arr, _ := cur.([]any)
		for len(arr) <= s.index {
			arr = append(arr, nil)
		}
		arr[s.index] = setStep(arr[s.index], st[1:], v)
		return arr
	}
	m, ok := cur.(map[string]any)
	if !ok || m == nil {
		m = map[string]any{}
	}
	m[s.name] = setStep(m[s.name], st[1:], v)
	return m
}
