package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no registered skill matches the lookup.
	ErrNotFound = errors.New("skill not found")
	// ErrDuplicateID is returned when two manifests declare the same ID.
	ErrDuplicateID = errors.New("duplicate skill id")
)

// Registry is the ordered catalogue of loaded skill manifests. Registration
// order is significant: when several skills declare the same trigger intent
// the first registered manifest wins, deterministically. The registry is
// read-only after construction and therefore safe for concurrent lookups.
type Registry struct {
	manifests []*Manifest
	byID      map[string]*Manifest
}

// NewRegistry builds a registry from manifests in registration order.
func NewRegistry(manifests ...*Manifest) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Manifest, len(manifests))}
	for _, m := range manifests {
		if m.ID == "" {
			return nil, fmt.Errorf("manifest %q: missing id", m.Name)
		}
		if _, exists := r.byID[m.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, m.ID)
		}
		r.manifests = append(r.manifests, m)
		r.byID[m.ID] = m
	}
	return r, nil
}

// Lookup resolves a recognized intent to the skill and action that should
// handle it. The scan walks manifests in registration order and actions in
// declaration order, so the mapping is stable across runs.
func (r *Registry) Lookup(intent string) (skillID, actionID string, ok bool) {
	for _, m := range r.manifests {
		for _, a := range m.Actions {
			for _, trigger := range a.TriggerIntents {
				if trigger == intent {
					return m.ID, a.ID, true
				}
			}
		}
	}
	return "", "", false
}

// Get returns the manifest for an explicit skill ID, for callers that invoke
// a skill directly rather than via intent dispatch.
func (r *Registry) Get(skillID string) (*Manifest, error) {
	m, ok := r.byID[skillID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, skillID)
	}
	return m, nil
}

// Manifests returns the registered manifests in registration order.
func (r *Registry) Manifests() []*Manifest {
	out := make([]*Manifest, len(r.manifests))
	copy(out, r.manifests)
	return out
}
