package scene

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/user/district-runner/internal/types"
)

// Lookup resolves scene ids.
type Lookup interface {
	Scene(id string) (*Scene, bool)
}

// Registry is an in-memory Lookup over loaded scenes.
type Registry struct {
	scenes map[string]*Scene
	order  []string
}

// NewRegistry indexes scenes by id. Duplicate ids are rejected.
func NewRegistry(scenes []*Scene) (*Registry, error) {
	r := &Registry{scenes: make(map[string]*Scene, len(scenes))}
	for _, s := range scenes {
		if _, exists := r.scenes[s.ID]; exists {
			return nil, &types.ContentError{Unit: "scene", ID: s.ID, Err: types.ErrDuplicateID}
		}
		r.scenes[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r, nil
}

// Scene returns a scene by id.
func (r *Registry) Scene(id string) (*Scene, bool) {
	s, ok := r.scenes[id]
	return s, ok
}

// IDs returns scene ids in load order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of scenes.
func (r *Registry) Len() int {
	return len(r.order)
}

// Validate reports every option that points at a missing scene. Each error
// is a *types.ContentError wrapping types.ErrDanglingReference.
func (r *Registry) Validate() []error {
	var errs []error
	for _, id := range r.order {
		for _, target := range r.scenes[id].Targets() {
			if _, ok := r.scenes[target]; ok {
				continue
			}
			errs = append(errs, &types.ContentError{
				Unit:  "scene",
				ID:    id,
				Field: "options",
				Err:   fmt.Errorf("%w: scene %q%s", types.ErrDanglingReference, target, r.hint(target)),
			})
		}
	}
	return errs
}

func (r *Registry) hint(id string) string {
	if s := r.Suggest(id); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}

// Suggest returns the closest known scene id within a length-scaled edit
// distance, or "".
func (r *Registry) Suggest(id string) string {
	best := ""
	bestDist := suggestLimit(len(id)) + 1
	for _, candidate := range r.order {
		dist := levenshtein.ComputeDistance(id, candidate)
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
