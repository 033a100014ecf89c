package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/types"
	"github.com/user/district-runner/internal/world"
)

// MockRecorder captures milestone events.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(kind types.EventType, missionID, description, detail string) {
	m.Called(kind, missionID, description, detail)
}

func intPtr(v int) *int { return &v }

func testMissions() []*Mission {
	return []*Mission{
		{
			ID:            "heist",
			Title:         "Data Heist",
			Type:          TypeMain,
			Status:        StatusAvailable,
			Priority:      2,
			RewardCredits: 500,
			NextSceneID:   "heist_intro",
			Unlocks:       []string{"docks"},
			OnAccept:      Consequences{SetFlags: []string{"heist_started"}},
			OnComplete: Consequences{
				ReputationDelta: 15,
				ClearFlags:      []string{"heist_started"},
				DistrictState:   "lockdown",
				GrantItems:      []string{"corp_drive"},
			},
		},
		{
			ID:     "courier",
			Title:  "Courier Run",
			Type:   TypeSide,
			Status: StatusAvailable,
			Spawn:  SpawnConditions{MinReputation: intPtr(50)},
		},
		{
			ID:           "followup",
			Title:        "Follow Up",
			Type:         TypeMain,
			Status:       StatusLocked,
			Requirements: []string{"heist", "courier"},
		},
		{
			ID:           "sidejob",
			Title:        "Side Job",
			Type:         TypeIntel,
			Status:       StatusLocked,
			Requirements: []string{"heist"},
		},
	}
}

func newFixture(t *testing.T, opts ...Option) (*Engine, *world.State, *character.Character) {
	t.Helper()
	e, err := NewEngine(testMissions(), opts...)
	require.NoError(t, err)
	return e, world.NewState(), character.New("V", types.RoleHacker, types.DifficultyNormal, character.DefaultOptions())
}

func TestMinReputationBoundary(t *testing.T) {
	e, w, c := newFixture(t)
	courier, err := e.Get("courier")
	require.NoError(t, err)

	w.SetReputation(49)
	assert.False(t, courier.CanSpawn(w, c))
	assert.NotContains(t, ids(e.Eligible(w, c)), "courier")

	w.SetReputation(50)
	assert.True(t, courier.CanSpawn(w, c))
	assert.Contains(t, ids(e.Eligible(w, c)), "courier")
}

func TestSpawnConditionsFlagsAndDistrict(t *testing.T) {
	w := world.NewState()
	c := character.New("V", types.RoleMerc, types.DifficultyNormal, character.DefaultOptions())
	sc := SpawnConditions{
		RequiredFlags:  []string{"met_fixer"},
		ForbiddenFlags: []string{"burned"},
		DistrictState:  "lockdown",
		MaxNotoriety:   intPtr(10),
		MinKarma:       intPtr(-5),
	}

	assert.False(t, sc.Allows(w, c))
	w.SetFlag("met_fixer", true)
	assert.False(t, sc.Allows(w, c))
	w.SetDistrict("lockdown")
	assert.True(t, sc.Allows(w, c))

	// A forbidden flag set to false does not block.
	w.SetFlag("burned", false)
	assert.True(t, sc.Allows(w, c))
	w.SetFlag("burned", true)
	assert.False(t, sc.Allows(w, c))
	w.ClearFlag("burned")

	c.ChangeNotoriety(11)
	assert.False(t, sc.Allows(w, c))
	c.ChangeNotoriety(-11)
	c.ChangeKarma(-6)
	assert.False(t, sc.Allows(w, c))
}

func TestEligibilityIsNeverStale(t *testing.T) {
	e, w, c := newFixture(t)
	heist, _ := e.Get("heist")
	heist.Spawn.ForbiddenFlags = []string{"alarm"}

	assert.Contains(t, ids(e.Eligible(w, c)), "heist")
	w.SetFlag("alarm", true)
	assert.NotContains(t, ids(e.Eligible(w, c)), "heist")
	w.SetFlag("alarm", false)
	assert.Contains(t, ids(e.Eligible(w, c)), "heist")
}

func TestAcceptLifecycle(t *testing.T) {
	recorder := new(MockRecorder)
	recorder.On("Record", types.EventSystem, "heist", "mission accepted: Data Heist", "flag set: heist_started").Once()

	e, w, c := newFixture(t, WithRecorder(recorder))

	res, err := e.Accept("heist", w, c)
	require.NoError(t, err)
	assert.Equal(t, "heist_intro", res.EntrySceneID)
	assert.Equal(t, StatusAccepted, res.Mission.Status)
	assert.True(t, w.HasFlag("heist_started"))
	recorder.AssertExpectations(t)

	_, err = e.Accept("heist", w, c)
	assert.ErrorIs(t, err, ErrMissionAlreadyAccepted)

	_, err = e.Accept("followup", w, c)
	assert.ErrorIs(t, err, ErrMissionNotEligible)

	_, err = e.Accept("courier", w, c)
	assert.ErrorIs(t, err, ErrMissionNotEligible)

	_, err = e.Accept("nope", w, c)
	assert.ErrorIs(t, err, ErrMissionNotFound)
}

func TestAcceptUsesDefaultScene(t *testing.T) {
	e, w, c := newFixture(t, WithDefaultScene("hub"))
	w.SetReputation(60)

	res, err := e.Accept("courier", w, c)
	require.NoError(t, err)
	assert.Equal(t, "hub", res.EntrySceneID)
}

func TestCompleteAppliesRewardsOnce(t *testing.T) {
	e, w, c := newFixture(t)
	credits := c.Credits()

	_, err := e.Complete("heist", w, c)
	assert.ErrorIs(t, err, ErrMissionNotAccepted)

	_, err = e.Accept("heist", w, c)
	require.NoError(t, err)

	res, err := e.Complete("heist", w, c)
	require.NoError(t, err)
	assert.Equal(t, 500, res.CreditsAwarded)
	assert.Equal(t, credits+500, c.Credits())
	assert.Equal(t, 15, w.Reputation())
	assert.Equal(t, 15, c.Reputation())
	assert.False(t, w.HasFlag("heist_started"))
	assert.Equal(t, "lockdown", w.District())
	assert.True(t, w.HasItem("corp_drive"))
	assert.Equal(t, []string{"docks"}, res.UnlockedLocations)
	assert.True(t, w.IsLocationUnlocked("docks"))

	_, err = e.Complete("heist", w, c)
	assert.ErrorIs(t, err, ErrMissionAlreadyCompleted)
	assert.Equal(t, credits+500, c.Credits())
	assert.Equal(t, 15, w.Reputation())
}

func TestProgressionFirstLocked(t *testing.T) {
	e, w, c := newFixture(t)

	_, err := e.Accept("heist", w, c)
	require.NoError(t, err)
	res, err := e.Complete("heist", w, c)
	require.NoError(t, err)

	// The first locked mission opens even though its requirements are unmet.
	assert.Equal(t, []string{"followup"}, res.UnlockedMissions)
	statuses := e.Statuses()
	assert.Equal(t, StatusAvailable, statuses["followup"])
	assert.Equal(t, StatusLocked, statuses["sidejob"])
}

func TestProgressionRequirements(t *testing.T) {
	e, w, c := newFixture(t, WithUnlockPolicy(UnlockRequirements))

	_, err := e.Accept("heist", w, c)
	require.NoError(t, err)
	res, err := e.Complete("heist", w, c)
	require.NoError(t, err)

	assert.Equal(t, []string{"sidejob"}, res.UnlockedMissions)
	assert.Equal(t, StatusLocked, e.Statuses()["followup"])
}

func TestOverlaysAndLayout(t *testing.T) {
	e, w, c := newFixture(t)

	require.NoError(t, e.Hide("heist"))
	assert.NotContains(t, ids(e.Eligible(w, c)), "heist")
	assert.NotContains(t, ids(e.Visible(w, c)), "heist")
	_, err := e.Accept("heist", w, c)
	assert.ErrorIs(t, err, ErrMissionNotEligible)
	assert.Equal(t, StatusAvailable, e.Statuses()["heist"])

	require.NoError(t, e.Reveal("heist"))
	assert.Contains(t, ids(e.Eligible(w, c)), "heist")

	require.NoError(t, e.Expire("courier"))
	assert.Equal(t, map[string]Status{"courier": StatusExpired}, e.Overlays())
	assert.ErrorIs(t, e.Hide("nope"), ErrMissionNotFound)

	m, _ := e.Get("sidejob")
	m.LocationID = "market"
	e.ApplyLayout(map[string]Point{"market": {X: 4, Y: 9}})
	assert.Equal(t, Point{X: 4, Y: 9}, m.Position)
}

func TestOverlayKeepsLifecycle(t *testing.T) {
	e, w, c := newFixture(t)

	_, err := e.Accept("heist", w, c)
	require.NoError(t, err)
	require.NoError(t, e.Hide("heist"))
	assert.Equal(t, StatusAccepted, e.Statuses()["heist"])

	_, err = e.Complete("heist", w, c)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, e.Statuses()["heist"])
	assert.Empty(t, e.Overlays())
	assert.ErrorIs(t, e.Expire("heist"), ErrMissionAlreadyCompleted)
}

func TestConsequencesApplyOverlays(t *testing.T) {
	defs := testMissions()
	defs[0].OnComplete.ExpireMissions = []string{"courier", "ghost"}
	defs[0].OnComplete.RevealMissions = []string{"sidejob"}
	defs[3].Overlay = StatusHidden
	e, err := NewEngine(defs, WithUnlockPolicy(UnlockRequirements))
	require.NoError(t, err)
	w := world.NewState()
	c := character.New("V", types.RoleHacker, types.DifficultyNormal, character.DefaultOptions())

	_, err = e.Accept("heist", w, c)
	require.NoError(t, err)
	res, err := e.Complete("heist", w, c)
	require.NoError(t, err)

	assert.Contains(t, res.Applied, "mission expired: courier")
	assert.Contains(t, res.Applied, "mission revealed: sidejob")
	assert.Equal(t, map[string]Status{"courier": StatusExpired}, e.Overlays())

	w.SetReputation(60)
	eligible := ids(e.Eligible(w, c))
	assert.NotContains(t, eligible, "courier")
	assert.Contains(t, eligible, "sidejob")
}

func TestRestoreOverlays(t *testing.T) {
	e, _, _ := newFixture(t)
	require.NoError(t, e.Hide("heist"))

	e.RestoreOverlays(map[string]Status{"courier": StatusExpired})
	assert.Equal(t, map[string]Status{"courier": StatusExpired}, e.Overlays())
}

func TestEngineCopiesDefinitions(t *testing.T) {
	defs := testMissions()
	e, err := NewEngine(defs)
	require.NoError(t, err)

	m, _ := e.Get("heist")
	m.Status = StatusCompleted
	assert.Equal(t, StatusAvailable, defs[0].Status)

	_, err = NewEngine(append(defs, defs[0]))
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestRestoreStatuses(t *testing.T) {
	e, _, _ := newFixture(t)
	e.RestoreStatuses(map[string]Status{"heist": StatusCompleted, "ghost": StatusAvailable})
	assert.Equal(t, StatusCompleted, e.Statuses()["heist"])
	assert.Len(t, e.Statuses(), 4)
}

func TestParseEnums(t *testing.T) {
	typ, err := ParseType("Combat")
	assert.NoError(t, err)
	assert.Equal(t, TypeCombat, typ)
	_, err = ParseType("raid")
	assert.ErrorIs(t, err, types.ErrUnknownEnum)

	status, err := ParseStatus("")
	assert.NoError(t, err)
	assert.Equal(t, StatusLocked, status)
	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, types.ErrUnknownEnum)

	policy, err := ParseUnlockPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, UnlockFirstLocked, policy)
	_, err = ParseUnlockPolicy("random")
	assert.ErrorIs(t, err, types.ErrUnknownEnum)
}

func ids(missions []*Mission) []string {
	out := make([]string, 0, len(missions))
	for _, m := range missions {
		out = append(out, m.ID)
	}
	return out
}
