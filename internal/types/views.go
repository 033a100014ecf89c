package types

import "time"

// ModifierView is a modifier as rendered to clients.
type ModifierView struct {
	ID          int    `json:"id"`
	Target      string `json:"target"`
	Value       int    `json:"value"`
	Remaining   int    `json:"remaining"`
	Permanent   bool   `json:"permanent"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// CharacterView holds effective stats, never base values alone.
type CharacterView struct {
	Name         string         `json:"name"`
	Role         string         `json:"role"`
	Difficulty   string         `json:"difficulty"`
	Attributes   map[string]int `json:"attributes"`
	Capabilities map[string]int `json:"capabilities"`
	Health       int            `json:"health"`
	MaxHealth    int            `json:"max_health"`
	Battery      int            `json:"battery"`
	MaxBattery   int            `json:"max_battery"`
	Level        int            `json:"level"`
	Credits      int            `json:"credits"`
	Karma        int            `json:"karma"`
	Notoriety    int            `json:"notoriety"`
	Reputation   int            `json:"reputation"`
	Items        []string       `json:"items"`
	Modifiers    []ModifierView `json:"modifiers"`
}

// FactionView is one faction standing.
type FactionView struct {
	ID          string `json:"id"`
	Reputation  int    `json:"reputation"`
	Standing    string `json:"standing"`
	DialogueKey string `json:"dialogue_key"`
}

// RunView summarises a run session.
type RunView struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	Character       CharacterView   `json:"character"`
	Flags           map[string]bool `json:"flags"`
	Reputation      int             `json:"reputation"`
	District        string          `json:"district"`
	Items           []string        `json:"items"`
	Locations       []string        `json:"locations"`
	Factions        []FactionView   `json:"factions"`
	ActiveMissionID string          `json:"active_mission_id,omitempty"`
	ActiveSceneID   string          `json:"active_scene_id,omitempty"`
	Finished        int             `json:"finished_missions"`
}

// MissionView is a mission with its eligibility at query time.
type MissionView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Overlay       string `json:"overlay,omitempty"`
	Priority      int    `json:"priority"`
	Urgency       int    `json:"urgency"`
	Difficulty    int    `json:"difficulty"`
	RewardCredits int    `json:"reward_credits"`
	RewardInfo    string `json:"reward_info,omitempty"`
	LocationID    string `json:"location_id,omitempty"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Eligible      bool   `json:"eligible"`
}

// CheckView is an evaluated attribute check.
type CheckView struct {
	Stat        string `json:"stat"`
	Threshold   int    `json:"threshold"`
	Value       int    `json:"value"`
	Passed      bool   `json:"passed"`
	Description string `json:"description,omitempty"`
}

// OptionView is a visible scene option. Index addresses the scene's full option list.
type OptionView struct {
	Index  int         `json:"index"`
	Text   string      `json:"text"`
	Passes bool        `json:"passes"`
	Checks []CheckView `json:"checks,omitempty"`
}

// SceneView is the active scene with its visible options.
type SceneView struct {
	MissionID string       `json:"mission_id"`
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	Location  string       `json:"location,omitempty"`
	Music     string       `json:"music,omitempty"`
	Closing   bool         `json:"closing"`
	Options   []OptionView `json:"options"`
	// Result is set when entering the scene finished the mission.
	Result    *StepView    `json:"result,omitempty"`
}

// HistoryView is a mission history for the results screen.
type HistoryView struct {
	ID           string          `json:"id"`
	MissionID    string          `json:"mission_id"`
	StartedAt    time.Time       `json:"started_at"`
	EndedAt      time.Time       `json:"ended_at,omitempty"`
	DurationMS   int64           `json:"duration_ms"`
	Decisions    int             `json:"decisions"`
	ChecksPassed int             `json:"checks_passed"`
	ChecksFailed int             `json:"checks_failed"`
	Secrets      []string        `json:"secrets"`
	Items        []string        `json:"items"`
	Flags        map[string]bool `json:"flags"`
	Outcome      string          `json:"outcome,omitempty"`
}

// StepView is the result of one scene command.
type StepView struct {
	FromSceneID       string       `json:"from_scene_id"`
	SceneID           string       `json:"scene_id"`
	Passed            bool         `json:"passed"`
	Moved             bool         `json:"moved"`
	BlockedSceneID    string       `json:"blocked_scene_id,omitempty"`
	Checks            []CheckView  `json:"checks,omitempty"`
	Applied           []string     `json:"applied,omitempty"`
	Logs              []string     `json:"logs,omitempty"`
	Expired           []string     `json:"expired,omitempty"`
	Scene             *SceneView   `json:"scene,omitempty"`
	Completed         bool         `json:"completed"`
	Outcome           string       `json:"outcome,omitempty"`
	CreditsAwarded    int          `json:"credits_awarded,omitempty"`
	UnlockedMissions  []string     `json:"unlocked_missions,omitempty"`
	UnlockedLocations []string     `json:"unlocked_locations,omitempty"`
	ClosingDelayMS    int64        `json:"closing_delay_ms,omitempty"`
	History           *HistoryView `json:"history,omitempty"`
}

// PurchaseView is the result of buying an item.
type PurchaseView struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Standing string `json:"standing"`
	Credits  int    `json:"credits"`
}

// EventView is a run memory entry.
type EventView struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Detail      string    `json:"detail,omitempty"`
	MissionID   string    `json:"mission_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
