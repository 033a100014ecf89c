package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/district-runner/config"
	"github.com/user/district-runner/internal/content"
)

func intPtr(v int) *int { return &v }

func testBundle(t *testing.T) *content.Bundle {
	t.Helper()
	missions := []content.MissionDef{
		{
			ID:            "data_heist",
			Title:         "Data Heist",
			Type:          "main",
			Status:        "available",
			Priority:      2,
			RewardCredits: 200,
			NextSceneID:   "gate",
			LocationID:    "docks",
			Unlocks:       []string{"tower"},
			OnAccept:      content.MissionConsequencesDef{SetFlags: []string{"heist_active"}},
			OnComplete:    content.MissionConsequencesDef{ReputationDelta: 10},
		},
		{
			ID:           "tower_job",
			Title:        "Tower Job",
			Type:         "side",
			Status:       "locked",
			Requirements: []string{"data_heist"},
			NextSceneID:  "roof",
		},
		{
			ID:          "recon",
			Title:       "Recon",
			Type:        "intel",
			Status:      "available",
			NextSceneID: "roof",
			Spawn:       content.SpawnDef{MinReputation: intPtr(50)},
		},
	}
	scenes := []content.SceneDef{
		{
			ID:    "gate",
			Title: "Gate",
			Options: []content.OptionDef{
				{
					Text:   "Crack the lock",
					Checks: []content.CheckDef{{Stat: "intelligence", Threshold: 4}},
					Consequences: []content.ConsequenceDef{
						{Type: "change_battery", Value: -20},
						{Type: "set_flag", Flag: "lock_cracked"},
					},
					NextSceneID: "lobby",
					FailSceneID: "alarm",
					SecretRoute: "lock_bypass",
				},
				{
					Text:         "Drain the grid",
					Consequences: []content.ConsequenceDef{{Type: "change_battery", Value: -150}},
					NextSceneID:  "lobby",
				},
			},
		},
		{ID: "lobby", Title: "Lobby", Closing: true},
		{
			ID:         "alarm",
			Title:      "Alarm",
			EntryFlags: map[string]bool{"alarm_raised": true},
			Options:    []content.OptionDef{{Text: "Run", NextSceneID: "street"}},
		},
		{ID: "street", Title: "Street", Closing: true, Outcome: "failure"},
		{
			ID:      "roof",
			Title:   "Roof",
			Options: []content.OptionDef{{Text: "Look around", NextSceneID: "roof_end"}},
		},
		{ID: "roof_end", Title: "Roof End", Closing: true},
	}
	items := []content.ItemDef{
		{ID: "deck", Name: "Cyberdeck", Kind: "upgrade", Price: 100, Faction: "netwatch",
			Modifiers: []content.ModifierDef{{Stat: "hack", Value: 2}}},
		{ID: "armor", Name: "Armor", Price: 120, Faction: "militech"},
	}

	b, err := content.Build(missions, scenes, items, nil)
	require.NoError(t, err)
	require.Empty(t, b.Problems)
	return b
}

// instantBundle holds one mission whose entry scene closes it.
func instantBundle(t *testing.T) *content.Bundle {
	t.Helper()
	missions := []content.MissionDef{{
		ID:            "instant",
		Title:         "Instant",
		Type:          "side",
		Status:        "available",
		RewardCredits: 50,
		NextSceneID:   "done",
	}}
	scenes := []content.SceneDef{{ID: "done", Title: "Done", Closing: true, Outcome: "partial"}}

	b, err := content.Build(missions, scenes, nil, nil)
	require.NoError(t, err)
	require.Empty(t, b.Problems)
	return b
}

func testSettings(t *testing.T) Settings {
	t.Helper()
	settings, err := SettingsFromConfig(config.DefaultConfig().Game)
	require.NoError(t, err)
	return settings
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}
