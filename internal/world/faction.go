package world

import (
	"math"
	"sort"
)

// Standing is a faction reputation tier.
type Standing int

const (
	Hostile Standing = iota
	Unfriendly
	Neutral
	Friendly
	Allied
)

var standingNames = map[Standing]string{
	Hostile:    "hostile",
	Unfriendly: "unfriendly",
	Neutral:    "neutral",
	Friendly:   "friendly",
	Allied:     "allied",
}

func (s Standing) String() string {
	if name, ok := standingNames[s]; ok {
		return name
	}
	return "unknown"
}

// PriceMultiplier returns the shop price factor for the tier.
func (s Standing) PriceMultiplier() float64 {
	switch s {
	case Hostile:
		return 1.50
	case Unfriendly:
		return 1.25
	case Friendly:
		return 0.85
	case Allied:
		return 0.70
	}
	return 1.00
}

// DialogueKey returns the localization key suffix for dialogue variants.
func (s Standing) DialogueKey() string {
	return "dialogue." + s.String()
}

// StandingFor maps a reputation score to its tier. Lower bounds are
// inclusive and evaluated from the best tier down.
func StandingFor(rep int) Standing {
	switch {
	case rep >= 50:
		return Allied
	case rep >= 20:
		return Friendly
	case rep >= 0:
		return Neutral
	case rep >= -20:
		return Unfriendly
	}
	// -50 is the hostile threshold; everything below it stays hostile.
	return Hostile
}

// Factions maps faction ids to clamped reputation.
type Factions struct {
	rep map[string]int
}

// NewFactions returns an empty faction ladder.
func NewFactions() *Factions {
	return &Factions{rep: make(map[string]int)}
}

// Reputation returns the reputation with a faction, 0 if unknown.
func (f *Factions) Reputation(id string) int {
	return f.rep[id]
}

// ModifyReputation adds delta and re-clamps.
func (f *Factions) ModifyReputation(id string, delta int) int {
	f.rep[id] = clampReputation(f.rep[id] + delta)
	return f.rep[id]
}

// SetReputation stores a clamped reputation.
func (f *Factions) SetReputation(id string, value int) {
	f.rep[id] = clampReputation(value)
}

// Standing returns the tier for a faction.
func (f *Factions) Standing(id string) Standing {
	return StandingFor(f.rep[id])
}

// Price applies the faction's standing multiplier to a base price. An empty
// faction id sells at list price.
func (f *Factions) Price(id string, base int) int {
	if id == "" {
		return base
	}
	return int(math.Round(float64(base) * f.Standing(id).PriceMultiplier()))
}

// IDs returns known faction ids in sorted order.
func (f *Factions) IDs() []string {
	out := make([]string, 0, len(f.rep))
	for id := range f.rep {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of every faction reputation.
func (f *Factions) Snapshot() map[string]int {
	out := make(map[string]int, len(f.rep))
	for k, v := range f.rep {
		out[k] = v
	}
	return out
}

// RestoreFactions rebuilds the faction ladder from a snapshot.
func RestoreFactions(snap map[string]int) *Factions {
	f := NewFactions()
	for id, v := range snap {
		f.SetReputation(id, v)
	}
	return f
}
