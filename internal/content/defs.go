package content

import "github.com/user/district-runner/internal/mission"

// The definition types mirror the content files one to one. They carry raw
// strings for every enum; conversion into engine types happens in convert.go.

// SpawnDef is the on-disk shape of mission.SpawnConditions.
type SpawnDef struct {
	MinReputation  *int     `json:"min_reputation,omitempty" yaml:"min_reputation,omitempty"`
	MaxReputation  *int     `json:"max_reputation,omitempty" yaml:"max_reputation,omitempty"`
	MinNotoriety   *int     `json:"min_notoriety,omitempty" yaml:"min_notoriety,omitempty"`
	MaxNotoriety   *int     `json:"max_notoriety,omitempty" yaml:"max_notoriety,omitempty"`
	MinKarma       *int     `json:"min_karma,omitempty" yaml:"min_karma,omitempty"`
	MaxKarma       *int     `json:"max_karma,omitempty" yaml:"max_karma,omitempty"`
	RequiredFlags  []string `json:"required_flags,omitempty" yaml:"required_flags,omitempty"`
	ForbiddenFlags []string `json:"forbidden_flags,omitempty" yaml:"forbidden_flags,omitempty"`
	DistrictState  string   `json:"district_state,omitempty" yaml:"district_state,omitempty"`
}

// MissionConsequencesDef is the on-disk shape of mission.Consequences.
type MissionConsequencesDef struct {
	SetFlags        []string `json:"set_flags,omitempty" yaml:"set_flags,omitempty"`
	ClearFlags      []string `json:"clear_flags,omitempty" yaml:"clear_flags,omitempty"`
	ReputationDelta int      `json:"reputation_delta,omitempty" yaml:"reputation_delta,omitempty"`
	DistrictState   string   `json:"district_state,omitempty" yaml:"district_state,omitempty"`
	GrantItems      []string `json:"grant_items,omitempty" yaml:"grant_items,omitempty"`
	HideMissions    []string `json:"hide_missions,omitempty" yaml:"hide_missions,omitempty"`
	ExpireMissions  []string `json:"expire_missions,omitempty" yaml:"expire_missions,omitempty"`
	RevealMissions  []string `json:"reveal_missions,omitempty" yaml:"reveal_missions,omitempty"`
}

// MissionDef is one mission definition.
type MissionDef struct {
	ID            string                 `json:"id" yaml:"id"`
	Title         string                 `json:"title" yaml:"title"`
	Description   string                 `json:"description" yaml:"description"`
	Type          string                 `json:"type" yaml:"type"`
	Priority      int                    `json:"priority" yaml:"priority"`
	Urgency       int                    `json:"urgency" yaml:"urgency"`
	Status        string                 `json:"status" yaml:"status"`
	Difficulty    int                    `json:"difficulty" yaml:"difficulty"`
	RewardCredits int                    `json:"reward_credits" yaml:"reward_credits"`
	RewardInfo    string                 `json:"reward_info,omitempty" yaml:"reward_info,omitempty"`
	Requirements  []string               `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Unlocks       []string               `json:"unlocks,omitempty" yaml:"unlocks,omitempty"`
	NextSceneID   string                 `json:"next_scene_id,omitempty" yaml:"next_scene_id,omitempty"`
	LocationID    string                 `json:"location_id,omitempty" yaml:"location_id,omitempty"`
	Position      mission.Point          `json:"position" yaml:"position"`
	Spawn         SpawnDef               `json:"spawn" yaml:"spawn"`
	OnAccept      MissionConsequencesDef `json:"on_accept" yaml:"on_accept"`
	OnComplete    MissionConsequencesDef `json:"on_complete" yaml:"on_complete"`
}

// CheckDef is one attribute check.
type CheckDef struct {
	Stat        string `json:"stat" yaml:"stat"`
	Threshold   int    `json:"threshold" yaml:"threshold"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ConsequenceDef is one scene consequence. Type selects the variant; the
// other fields are read as that variant needs them.
type ConsequenceDef struct {
	Type        string `json:"type" yaml:"type"`
	Value       int    `json:"value,omitempty" yaml:"value,omitempty"`
	Stat        string `json:"stat,omitempty" yaml:"stat,omitempty"`
	Flag        string `json:"flag,omitempty" yaml:"flag,omitempty"`
	FlagValue   *bool  `json:"flag_value,omitempty" yaml:"flag_value,omitempty"`
	Item        string `json:"item,omitempty" yaml:"item,omitempty"`
	Text        string `json:"text,omitempty" yaml:"text,omitempty"`
	Faction     string `json:"faction,omitempty" yaml:"faction,omitempty"`
	Duration    *int   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// OptionDef is one scene option.
type OptionDef struct {
	Text          string           `json:"text" yaml:"text"`
	Checks        []CheckDef       `json:"checks,omitempty" yaml:"checks,omitempty"`
	Consequences  []ConsequenceDef `json:"consequences,omitempty" yaml:"consequences,omitempty"`
	NextSceneID   string           `json:"next_scene_id,omitempty" yaml:"next_scene_id,omitempty"`
	FailSceneID   string           `json:"fail_scene_id,omitempty" yaml:"fail_scene_id,omitempty"`
	RequiredFlags map[string]bool  `json:"required_flags,omitempty" yaml:"required_flags,omitempty"`
	SecretRoute   string           `json:"secret_route,omitempty" yaml:"secret_route,omitempty"`
}

// SceneDef is one narrative scene.
type SceneDef struct {
	ID            string          `json:"id" yaml:"id"`
	Title         string          `json:"title" yaml:"title"`
	Body          string          `json:"body" yaml:"body"`
	Location      string          `json:"location,omitempty" yaml:"location,omitempty"`
	Music         string          `json:"music,omitempty" yaml:"music,omitempty"`
	Closing       bool            `json:"closing,omitempty" yaml:"closing,omitempty"`
	Outcome       string          `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	EntryFlags    map[string]bool `json:"entry_flags,omitempty" yaml:"entry_flags,omitempty"`
	RequiredFlags map[string]bool `json:"required_flags,omitempty" yaml:"required_flags,omitempty"`
	Options       []OptionDef     `json:"options" yaml:"options"`
}

// ModifierDef is one modifier an item grants.
type ModifierDef struct {
	Stat        string `json:"stat" yaml:"stat"`
	Value       int    `json:"value" yaml:"value"`
	Duration    int    `json:"duration,omitempty" yaml:"duration,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ItemDef is one catalog item.
type ItemDef struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        string        `json:"kind,omitempty" yaml:"kind,omitempty"`
	Price       int           `json:"price" yaml:"price"`
	Faction     string        `json:"faction,omitempty" yaml:"faction,omitempty"`
	Modifiers   []ModifierDef `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}
