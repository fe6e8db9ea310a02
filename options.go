package formtree

import "github.com/reoring/formtree/schema"

// Options configures compilation and the runtime behavior of a Tree.
type Options struct {
	// Renderer receives presentation requests and owns live field values.
	// When nil, values are read from the nodes themselves.
	Renderer Renderer
	// Prefix overrides the descriptor prefix used for generated identifiers.
	Prefix string
	// IgnoreSchemaDefaults skips schema defaults during initial resolution.
	IgnoreSchemaDefaults bool
	// OnElementSchema is called for every keyed fragment once its schema
	// element is known, before the fragment is completed from it.
	OnElementSchema func(f *Fragment, el *schema.Element)
}
