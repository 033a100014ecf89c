package character

import (
	"sort"

	"github.com/user/district-runner/internal/types"
)

// Permanent is the duration value for modifiers that never expire.
const Permanent = -1

// ModifierID identifies a modifier within one character's arena.
type ModifierID int

// Modifier is a signed adjustment to a single stat.
type Modifier struct {
	ID          ModifierID `json:"id"`
	Target      types.Stat `json:"target"`
	Value       int        `json:"value"`
	Remaining   int        `json:"remaining"`
	Permanent   bool       `json:"permanent"`
	Description string     `json:"description"`
	Source      string     `json:"source,omitempty"` // owning item id
}

// modifierArena stores modifiers by id and sweeps expired ones explicitly,
// so nothing iterates a slice while removing from it.
type modifierArena struct {
	byID map[ModifierID]*Modifier
	next ModifierID
}

func newModifierArena() *modifierArena {
	return &modifierArena{
		byID: make(map[ModifierID]*Modifier),
		next: 1,
	}
}

func (a *modifierArena) add(target types.Stat, value, duration int, description, source string) ModifierID {
	id := a.next
	a.next++
	a.byID[id] = &Modifier{
		ID:          id,
		Target:      target,
		Value:       value,
		Remaining:   max(duration, 0),
		Permanent:   duration < 0,
		Description: description,
		Source:      source,
	}
	return id
}

func (a *modifierArena) remove(id ModifierID) bool {
	if _, ok := a.byID[id]; !ok {
		return false
	}
	delete(a.byID, id)
	return true
}

func (a *modifierArena) removeSource(source string) int {
	var expired []ModifierID
	for id, m := range a.byID {
		if m.Source == source {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(a.byID, id)
	}
	return len(expired)
}

func (a *modifierArena) sum(target types.Stat) int {
	total := 0
	for _, m := range a.byID {
		if m.Target == target {
			total += m.Value
		}
	}
	return total
}

// tick decrements every timed modifier and sweeps those that reached zero.
func (a *modifierArena) tick() []Modifier {
	var expired []ModifierID
	for id, m := range a.byID {
		if m.Permanent {
			continue
		}
		m.Remaining--
		if m.Remaining <= 0 {
			expired = append(expired, id)
		}
	}

	out := make([]Modifier, 0, len(expired))
	for _, id := range expired {
		out = append(out, *a.byID[id])
		delete(a.byID, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (a *modifierArena) list() []Modifier {
	out := make([]Modifier, 0, len(a.byID))
	for _, m := range a.byID {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
