package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags(t *testing.T) {
	s := NewState()

	assert.False(t, s.HasFlag("met_fixer"))
	assert.True(t, s.FlagMatches("met_fixer", false))
	assert.False(t, s.FlagMatches("met_fixer", true))

	s.SetFlag("met_fixer", true)
	assert.True(t, s.HasFlag("met_fixer"))
	assert.True(t, s.MatchesAll(map[string]bool{"met_fixer": true, "alarm": false}))

	s.ClearFlag("met_fixer")
	assert.False(t, s.HasFlag("met_fixer"))
	assert.Empty(t, s.Flags())
}

func TestReputationIsClampedOnEveryMutation(t *testing.T) {
	s := NewState()

	deltas := []int{40, 90, -30, -500, 17, 260, -3}
	for _, d := range deltas {
		got := s.ModifyReputation(d)
		assert.GreaterOrEqual(t, got, MinReputation)
		assert.LessOrEqual(t, got, MaxReputation)
		assert.Equal(t, got, s.Reputation())
	}
	assert.Equal(t, 97, s.Reputation())

	s.SetReputation(-1000)
	assert.Equal(t, MinReputation, s.Reputation())
}

func TestItemsDistrictAndLocations(t *testing.T) {
	s := NewState()
	assert.Equal(t, DefaultDistrict, s.District())

	assert.True(t, s.AddItem("keycard"))
	assert.False(t, s.AddItem("keycard"))
	assert.True(t, s.AddItem("blueprint"))
	assert.Equal(t, []string{"blueprint", "keycard"}, s.Items())
	assert.True(t, s.RemoveItem("keycard"))
	assert.False(t, s.HasItem("keycard"))

	s.SetDistrict("lockdown")
	assert.Equal(t, "lockdown", s.District())

	assert.True(t, s.UnlockLocation("docks"))
	assert.False(t, s.UnlockLocation("docks"))
	assert.True(t, s.IsLocationUnlocked("docks"))
}

func TestWorldSnapshotRestore(t *testing.T) {
	s := NewState()
	s.SetFlag("alarm", true)
	s.SetFlag("quiet", false)
	s.ModifyReputation(-12)
	s.AddItem("drive")
	s.SetDistrict("curfew")
	s.UnlockLocation("tower")

	restored := Restore(s.Snapshot())
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}
