package tour

import "fmt"

// Registry holds the immutable tour catalog in load order.
//
// The backing slice is copied at construction to prevent external mutation
// from changing catalog order or contents.
type Registry struct {
	defs []Definition
	byID map[string]int
}

// NewRegistry builds a registry from definitions, rejecting duplicate IDs.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		defs: make([]Definition, len(defs)),
		byID: make(map[string]int, len(defs)),
	}
	copy(r.defs, defs)
	for i, d := range r.defs {
		if d.ID == "" {
			return nil, fmt.Errorf("tour at index %d has empty id", i)
		}
		if _, exists := r.byID[d.ID]; exists {
			return nil, fmt.Errorf("duplicate tour id %q", d.ID)
		}
		r.byID[d.ID] = i
	}
	return r, nil
}

// Get returns the definition for id. The second return value reports
// whether the id is known.
func (r *Registry) Get(id string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// All returns the catalog in load order.
func (r *Registry) All() []Definition {
	if r == nil {
		return nil
	}
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// ForRole returns the catalog filtered to tours visible to role, preserving
// load order. Tours without a role allow-list are included for every role.
func (r *Registry) ForRole(role string) []Definition {
	if r == nil {
		return nil
	}
	var out []Definition
	for _, d := range r.defs {
		if d.VisibleTo(role) {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of tours in the catalog.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}
