// Package scene implements the narrative scene graph: scenes, gated
// options, attribute checks, consequences and the engine that walks them.
package scene

import (
	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/types"
	"github.com/user/district-runner/internal/world"
)

// Check gates an option on a minimum stat or resource value.
type Check struct {
	Stat        types.Stat `json:"stat"`
	Threshold   int        `json:"threshold"`
	Description string     `json:"description,omitempty"`
}

// Evaluate reports whether the character meets the threshold.
func (ch Check) Evaluate(c *character.Character) bool {
	return c.Effective(ch.Stat) >= ch.Threshold
}

// Option is one choice offered by a scene.
type Option struct {
	Text          string
	Checks        []Check
	Consequences  []Consequence
	NextSceneID   string
	FailSceneID   string
	RequiredFlags map[string]bool
	SecretRoute   string
}

// Visible reports whether every required flag matches world state. A
// missing flag counts as false.
func (o Option) Visible(w *world.State) bool {
	return w.MatchesAll(o.RequiredFlags)
}

// Passes reports whether every check passes. Options without checks pass.
func (o Option) Passes(c *character.Character) bool {
	for _, ch := range o.Checks {
		if !ch.Evaluate(c) {
			return false
		}
	}
	return true
}

// Scene is a node of the narrative graph.
type Scene struct {
	ID            string
	Title         string
	Body          string
	Location      string
	Music         string
	Closing       bool
	Outcome       types.MissionOutcome // optional, closing scenes only
	EntryFlags    map[string]bool
	RequiredFlags map[string]bool
	Options       []Option
}

// Enterable reports whether the scene's required flags hold.
func (s *Scene) Enterable(w *world.State) bool {
	return w.MatchesAll(s.RequiredFlags)
}

// Targets returns every scene id the options can lead to.
func (s *Scene) Targets() []string {
	var out []string
	for _, o := range s.Options {
		if o.NextSceneID != "" {
			out = append(out, o.NextSceneID)
		}
		if o.FailSceneID != "" {
			out = append(out, o.FailSceneID)
		}
	}
	return out
}
