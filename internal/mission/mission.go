package mission

import (
	"fmt"
	"strings"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/types"
	"github.com/user/district-runner/internal/world"
)

// Type is the mission category.
type Type string

const (
	TypeMain   Type = "main"
	TypeSide   Type = "side"
	TypeIntel  Type = "intel"
	TypeCombat Type = "combat"
)

// ParseType converts a content string into a Type.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TypeMain, TypeSide, TypeIntel, TypeCombat:
		return t, nil
	}
	return "", fmt.Errorf("%w: mission type %q", types.ErrUnknownEnum, raw)
}

// Status is the lifecycle state of a mission. Hidden and Expired are
// overlays kept in Mission.Overlay; they never replace the lifecycle status.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusHidden    Status = "hidden"
	StatusExpired   Status = "expired"
)

// ParseStatus converts a content string into a Status. Empty means locked.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "":
		return StatusLocked, nil
	case StatusLocked, StatusAvailable, StatusAccepted, StatusCompleted, StatusHidden, StatusExpired:
		return s, nil
	}
	return "", fmt.Errorf("%w: mission status %q", types.ErrUnknownEnum, raw)
}

// SpawnConditions gate whether a mission is currently offerable. Nil bounds
// are unconstrained.
type SpawnConditions struct {
	MinReputation  *int     `json:"min_reputation,omitempty"`
	MaxReputation  *int     `json:"max_reputation,omitempty"`
	MinNotoriety   *int     `json:"min_notoriety,omitempty"`
	MaxNotoriety   *int     `json:"max_notoriety,omitempty"`
	MinKarma       *int     `json:"min_karma,omitempty"`
	MaxKarma       *int     `json:"max_karma,omitempty"`
	RequiredFlags  []string `json:"required_flags,omitempty"`
	ForbiddenFlags []string `json:"forbidden_flags,omitempty"`
	DistrictState  string   `json:"district_state,omitempty"`
}

// Allows evaluates the conditions against live state.
func (sc SpawnConditions) Allows(w *world.State, c *character.Character) bool {
	if !within(w.Reputation(), sc.MinReputation, sc.MaxReputation) {
		return false
	}
	if !within(c.Notoriety(), sc.MinNotoriety, sc.MaxNotoriety) {
		return false
	}
	if !within(c.Karma(), sc.MinKarma, sc.MaxKarma) {
		return false
	}
	for _, flag := range sc.RequiredFlags {
		if !w.HasFlag(flag) {
			return false
		}
	}
	for _, flag := range sc.ForbiddenFlags {
		if w.HasFlag(flag) {
			return false
		}
	}
	if sc.DistrictState != "" && sc.DistrictState != w.District() {
		return false
	}
	return true
}

func within(value int, lo, hi *int) bool {
	if lo != nil && value < *lo {
		return false
	}
	if hi != nil && value > *hi {
		return false
	}
	return true
}

// Consequences are the world mutations a mission applies on accept or completion.
type Consequences struct {
	SetFlags        []string `json:"set_flags,omitempty"`
	ClearFlags      []string `json:"clear_flags,omitempty"`
	ReputationDelta int      `json:"reputation_delta,omitempty"`
	DistrictState   string   `json:"district_state,omitempty"`
	GrantItems      []string `json:"grant_items,omitempty"`
	HideMissions    []string `json:"hide_missions,omitempty"`
	ExpireMissions  []string `json:"expire_missions,omitempty"`
	RevealMissions  []string `json:"reveal_missions,omitempty"`
}

// Empty reports whether applying the set would change nothing.
func (c Consequences) Empty() bool {
	return len(c.SetFlags) == 0 && len(c.ClearFlags) == 0 && c.ReputationDelta == 0 &&
		c.DistrictState == "" && len(c.GrantItems) == 0 &&
		len(c.HideMissions) == 0 && len(c.ExpireMissions) == 0 && len(c.RevealMissions) == 0
}

// MissionRefs returns every mission id the set overlays or reveals.
func (c Consequences) MissionRefs() []string {
	var out []string
	out = append(out, c.HideMissions...)
	out = append(out, c.ExpireMissions...)
	return append(out, c.RevealMissions...)
}

// apply mutates the world and returns a line per change. Mission overlays
// are applied by the Engine.
func (c Consequences) apply(w *world.State, ch *character.Character) []string {
	var applied []string
	for _, flag := range c.SetFlags {
		w.SetFlag(flag, true)
		applied = append(applied, "flag set: "+flag)
	}
	for _, flag := range c.ClearFlags {
		w.ClearFlag(flag)
		applied = append(applied, "flag cleared: "+flag)
	}
	if c.ReputationDelta != 0 {
		ch.SetReputation(w.ModifyReputation(c.ReputationDelta))
		applied = append(applied, fmt.Sprintf("reputation %+d", c.ReputationDelta))
	}
	if c.DistrictState != "" {
		w.SetDistrict(c.DistrictState)
		applied = append(applied, "district: "+c.DistrictState)
	}
	for _, item := range c.GrantItems {
		if w.AddItem(item) {
			applied = append(applied, "item: "+item)
		}
	}
	return applied
}

// Point is a display coordinate on the district map.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Mission is a contract the player can accept.
type Mission struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Type          Type            `json:"type"`
	Priority      int             `json:"priority"`
	Urgency       int             `json:"urgency"`
	Status        Status          `json:"status"`
	Overlay       Status          `json:"overlay,omitempty"`
	Difficulty    int             `json:"difficulty"`
	RewardCredits int             `json:"reward_credits"`
	RewardInfo    string          `json:"reward_info,omitempty"`
	Requirements  []string        `json:"requirements,omitempty"`
	Unlocks       []string        `json:"unlocks,omitempty"`
	NextSceneID   string          `json:"next_scene_id,omitempty"`
	LocationID    string          `json:"location_id,omitempty"`
	Position      Point           `json:"position"`
	Spawn         SpawnConditions `json:"spawn"`
	OnAccept      Consequences    `json:"on_accept"`
	OnComplete    Consequences    `json:"on_complete"`
}

// CanSpawn reports whether the mission's spawn conditions hold right now.
// It is never cached.
func (m *Mission) CanSpawn(w *world.State, c *character.Character) bool {
	return m.Spawn.Allows(w, c)
}

// Offered reports whether no Hidden or Expired overlay covers the mission.
func (m *Mission) Offered() bool {
	return m.Overlay == ""
}

// Clone returns a copy safe to mutate independently of the content definition.
func (m *Mission) Clone() *Mission {
	c := *m
	c.Requirements = append([]string(nil), m.Requirements...)
	c.Unlocks = append([]string(nil), m.Unlocks...)
	c.Spawn.RequiredFlags = append([]string(nil), m.Spawn.RequiredFlags...)
	c.Spawn.ForbiddenFlags = append([]string(nil), m.Spawn.ForbiddenFlags...)
	c.OnAccept = m.OnAccept.clone()
	c.OnComplete = m.OnComplete.clone()
	return &c
}

func (c Consequences) clone() Consequences {
	out := c
	out.SetFlags = append([]string(nil), c.SetFlags...)
	out.ClearFlags = append([]string(nil), c.ClearFlags...)
	out.GrantItems = append([]string(nil), c.GrantItems...)
	out.HideMissions = append([]string(nil), c.HideMissions...)
	out.ExpireMissions = append([]string(nil), c.ExpireMissions...)
	out.RevealMissions = append([]string(nil), c.RevealMissions...)
	return out
}
