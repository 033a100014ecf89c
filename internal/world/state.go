package world

import "sort"

const (
	MinReputation = -100
	MaxReputation = 100

	// DefaultDistrict is the district tag of a fresh run.
	DefaultDistrict = "normal"
)

// State holds the global narrative state of one run.
type State struct {
	flags      map[string]bool
	reputation int
	items      map[string]struct{}
	district   string
	locations  map[string]struct{}
}

// NewState returns an empty world in the default district.
func NewState() *State {
	return &State{
		flags:     make(map[string]bool),
		items:     make(map[string]struct{}),
		district:  DefaultDistrict,
		locations: make(map[string]struct{}),
	}
}

// SetFlag stores a flag value.
func (s *State) SetFlag(name string, value bool) {
	s.flags[name] = value
}

// HasFlag reports whether a flag is set to true. Missing flags are false.
func (s *State) HasFlag(name string) bool {
	return s.flags[name]
}

// ClearFlag removes a flag.
func (s *State) ClearFlag(name string) {
	delete(s.flags, name)
}

// FlagMatches reports whether the flag equals want, treating a missing flag
// as false.
func (s *State) FlagMatches(name string, want bool) bool {
	return s.flags[name] == want
}

// MatchesAll reports whether every required flag matches.
func (s *State) MatchesAll(required map[string]bool) bool {
	for name, want := range required {
		if !s.FlagMatches(name, want) {
			return false
		}
	}
	return true
}

// Flags returns a copy of every stored flag.
func (s *State) Flags() map[string]bool {
	out := make(map[string]bool, len(s.flags))
	for k, v := range s.flags {
		out[k] = v
	}
	return out
}

// Reputation returns the global reputation.
func (s *State) Reputation() int {
	return s.reputation
}

// ModifyReputation adds delta and re-clamps to [MinReputation, MaxReputation].
func (s *State) ModifyReputation(delta int) int {
	s.reputation = clampReputation(s.reputation + delta)
	return s.reputation
}

// SetReputation stores a clamped reputation.
func (s *State) SetReputation(value int) {
	s.reputation = clampReputation(value)
}

// AddItem records a narrative item. It reports whether the item was new.
func (s *State) AddItem(id string) bool {
	if _, ok := s.items[id]; ok {
		return false
	}
	s.items[id] = struct{}{}
	return true
}

// RemoveItem forgets a narrative item. It reports whether the item was held.
func (s *State) RemoveItem(id string) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// HasItem reports whether a narrative item has been acquired.
func (s *State) HasItem(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Items returns acquired narrative items in sorted order.
func (s *State) Items() []string {
	return sortedKeys(s.items)
}

// District returns the district state tag.
func (s *State) District() string {
	return s.district
}

// SetDistrict replaces the district state tag.
func (s *State) SetDistrict(tag string) {
	s.district = tag
}

// UnlockLocation marks a location as reachable.
func (s *State) UnlockLocation(id string) bool {
	if _, ok := s.locations[id]; ok {
		return false
	}
	s.locations[id] = struct{}{}
	return true
}

// IsLocationUnlocked reports whether a location was unlocked.
func (s *State) IsLocationUnlocked(id string) bool {
	_, ok := s.locations[id]
	return ok
}

// Locations returns unlocked locations in sorted order.
func (s *State) Locations() []string {
	return sortedKeys(s.locations)
}

// Snapshot is the persisted form of a world state.
type Snapshot struct {
	Flags      map[string]bool `json:"flags"`
	Reputation int             `json:"reputation"`
	Items      []string        `json:"items"`
	District   string          `json:"district"`
	Locations  []string        `json:"locations"`
}

// Snapshot captures the world state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Flags:      s.Flags(),
		Reputation: s.reputation,
		Items:      s.Items(),
		District:   s.district,
		Locations:  s.Locations(),
	}
}

// Restore rebuilds a world state from a snapshot.
func Restore(snap Snapshot) *State {
	s := NewState()
	for k, v := range snap.Flags {
		s.flags[k] = v
	}
	s.SetReputation(snap.Reputation)
	for _, id := range snap.Items {
		s.items[id] = struct{}{}
	}
	if snap.District != "" {
		s.district = snap.District
	}
	for _, id := range snap.Locations {
		s.locations[id] = struct{}{}
	}
	return s
}

func clampReputation(value int) int {
	if value < MinReputation {
		return MinReputation
	}
	if value > MaxReputation {
		return MaxReputation
	}
	return value
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
