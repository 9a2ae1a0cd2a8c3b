// Package projection produces filtered field→value mappings for entities.
// It is the serialization counterpart of the repository layer: an adapter
// exposes an entity's natural fields, and Project restricts the output to an
// allow-list, the complement of a deny-list, or both.
package projection

// Context carries per-request serialization hints, such as which
// related-entity fields to surface.
type Context map[string]any

const requestedFieldsKey = "requested_fields"

// RequestedFields returns the context's requested_fields list, or nil when
// the context carries none.
func (c Context) RequestedFields() []string {
	return c.StringSlice(requestedFieldsKey)
}

// StringSlice reads a []string value out of the context.
func (c Context) StringSlice(key string) []string {
	if c == nil {
		return nil
	}
	v, ok := c[key]
	if !ok {
		return nil
	}
	s, ok := v.([]string)
	if !ok {
		return nil
	}
	return s
}

// Nested reads a child Context out of the context, for projecting a related
// entity with settings independent of the parent's.
func (c Context) Nested(key string) Context {
	if c == nil {
		return nil
	}
	v, ok := c[key]
	if !ok {
		return nil
	}
	n, ok := v.(Context)
	if !ok {
		return nil
	}
	return n
}

// Source exposes an entity's natural field set, fully loaded.
type Source interface {
	Fields() map[string]any
}

// ContextSource additionally computes fields that are not part of the natural
// set, typically read off a related entity. A computed field is included only
// when its name appears in the context's requested_fields list.
type ContextSource interface {
	Source
	ContextField(name string, ctx Context) (any, bool)
}

// Options controls a single projection.
//
// Fields, when non-nil, is an allow-list: only names present in both the
// natural set and Fields survive; unknown names are silently dropped.
// Exclude is a deny-list applied last, so it wins over both Fields and
// context-requested extras.
type Options struct {
	Fields  []string
	Exclude []string
	Context Context
}

// Project maps src through opts. It is pure: it never mutates src and never
// fetches data beyond what the source has already loaded.
func Project(src Source, opts Options) map[string]any {
	out := make(map[string]any)

	natural := src.Fields()
	if opts.Fields != nil {
		allowed := make(map[string]struct{}, len(opts.Fields))
		for _, name := range opts.Fields {
			allowed[name] = struct{}{}
		}
		for name, value := range natural {
			if _, ok := allowed[name]; ok {
				out[name] = value
			}
		}
	} else {
		for name, value := range natural {
			out[name] = value
		}
	}

	if cs, ok := src.(ContextSource); ok {
		for _, name := range opts.Context.RequestedFields() {
			if value, ok := cs.ContextField(name, opts.Context); ok {
				out[name] = value
			}
		}
	}

	// Deny always wins, including over extras.
	for _, name := range opts.Exclude {
		delete(out, name)
	}

	return out
}
