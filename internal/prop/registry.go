package prop

import "sort"

// Registry resolves proposition ids to definitions. Macro steps look up
// their inner proposition here.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds or replaces a definition.
func (r *Registry) Register(d *Def) {
	r.defs[d.ID] = d
}

// Lookup returns the definition for id. The second result is false when
// the id is unknown; callers treat that as a silent no-op, never an
// error.
func (r *Registry) Lookup(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns the registered proposition ids in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.defs))
	for id := range r.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
