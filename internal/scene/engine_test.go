package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/memory"
	"github.com/user/district-runner/internal/types"
	"github.com/user/district-runner/internal/world"
)

func testScenes() []*Scene {
	return []*Scene{
		{
			ID:         "gate",
			Title:      "Corporate Gate",
			EntryFlags: map[string]bool{"at_gate": true},
			Options: []Option{
				{
					Text:        "Crack the lock",
					Checks:      []Check{{Stat: types.StatIntelligence, Threshold: 4, Description: "Intelligence 4"}},
					NextSceneID: "lobby",
					FailSceneID: "alarm",
					SecretRoute: "lock_bypass",
					Consequences: []Consequence{
						ChangeBattery{Delta: -20},
						SetFlag{Name: "lock_cracked", Value: true},
						AppendLog{Text: "the lock clicks open"},
					},
				},
				{
					Text:        "Bribe the guard",
					Checks:      []Check{{Stat: types.StatCredits, Threshold: 1000}},
					NextSceneID: "lobby",
				},
				{
					Text:          "Use the keycard",
					RequiredFlags: map[string]bool{"has_keycard": true},
					NextSceneID:   "lobby",
				},
				{
					Text:          "Walk in unnoticed",
					RequiredFlags: map[string]bool{"alarm_raised": false},
					Consequences:  []Consequence{AddItem{ItemID: "visitor_pass"}},
				},
			},
		},
		{
			ID:      "lobby",
			Title:   "Lobby",
			Closing: true,
		},
		{
			ID:         "alarm",
			Title:      "Alarm",
			EntryFlags: map[string]bool{"alarm_raised": true},
			Options: []Option{
				{Text: "Run", NextSceneID: "street"},
			},
		},
		{
			ID:            "street",
			Title:         "Street",
			Closing:       true,
			Outcome:       types.OutcomeFailure,
			RequiredFlags: map[string]bool{"alarm_raised": true},
		},
		{
			ID:            "vault",
			RequiredFlags: map[string]bool{"vault_open": true},
		},
	}
}

type fixture struct {
	engine   *Engine
	char     *character.Character
	world    *world.State
	factions *world.Factions
	memory   *memory.RunMemory
	history  *memory.History
}

func newFixture(t *testing.T, role types.Role) *fixture {
	t.Helper()
	reg, err := NewRegistry(testScenes())
	require.NoError(t, err)

	f := &fixture{
		char:     character.New("V", role, types.DifficultyNormal, character.DefaultOptions()),
		world:    world.NewState(),
		factions: world.NewFactions(),
		memory:   memory.NewRunMemory(),
		history:  memory.NewHistory("heist", nil),
	}
	f.engine = NewEngine(reg, Target{
		Character: f.char,
		World:     f.world,
		Factions:  f.factions,
		Catalog: character.Catalog{
			"visitor_pass": {ID: "visitor_pass", Name: "Visitor Pass", Modifiers: []character.ModifierSpec{{Target: types.StatCharisma, Value: 1}}},
		},
	}, f.memory)
	return f
}

func TestStartAppliesEntryFlags(t *testing.T) {
	f := newFixture(t, types.RoleHacker)

	s, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)
	assert.Equal(t, "gate", s.ID)
	assert.True(t, f.world.HasFlag("at_gate"))
	assert.True(t, f.history.Flags["at_gate"].Value)
	assert.Equal(t, "heist", f.engine.MissionID())

	_, err = f.engine.Start("heist", "missing", f.history)
	assert.ErrorIs(t, err, ErrSceneNotFound)

	_, err = f.engine.Start("heist", "vault", f.history)
	assert.ErrorIs(t, err, ErrSceneLocked)
}

func TestHackerPassesIntelligenceCheck(t *testing.T) {
	f := newFixture(t, types.RoleHacker)
	_, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)

	res, err := f.engine.Select(0)
	require.NoError(t, err)

	assert.True(t, res.Passed)
	assert.True(t, res.Moved)
	assert.Equal(t, "gate", res.FromSceneID)
	assert.Equal(t, "lobby", res.SceneID)
	assert.True(t, res.Closing)
	require.Len(t, res.Applied, 3)
	assert.Equal(t, KindChangeBattery, res.Applied[0].Kind)
	assert.Equal(t, KindSetFlag, res.Applied[1].Kind)
	assert.Equal(t, KindAppendLog, res.Applied[2].Kind)
	assert.Equal(t, []string{"the lock clicks open"}, res.Logs)

	assert.Equal(t, 80, f.char.Battery())
	assert.True(t, f.world.HasFlag("lock_cracked"))
	assert.Equal(t, 1, f.history.Decisions)
	assert.Equal(t, 1, f.history.ChecksPassed)
	assert.Equal(t, []string{"lock_bypass"}, f.history.SecretList())

	// One decision and three consequence events.
	assert.Len(t, f.memory.ByType(types.EventDecision), 1)
	assert.Len(t, f.memory.ByType(types.EventConsequence), 3)
	assert.Len(t, f.memory.ByMission("heist"), 4)
}

func TestMercFailsIntelligenceCheck(t *testing.T) {
	f := newFixture(t, types.RoleMerc)
	_, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)

	res, err := f.engine.Select(0)
	require.NoError(t, err)

	assert.False(t, res.Passed)
	assert.Equal(t, "alarm", res.SceneID)
	assert.Empty(t, res.Applied)
	assert.Equal(t, 100, f.char.Battery())
	assert.False(t, f.world.HasFlag("lock_cracked"))
	assert.True(t, f.world.HasFlag("alarm_raised"))
	assert.Equal(t, 1, f.history.ChecksFailed)
	assert.Empty(t, f.history.SecretList())

	res, err = f.engine.Advance()
	require.NoError(t, err)
	assert.Equal(t, "street", res.SceneID)
	assert.True(t, res.Closing)
	assert.Equal(t, types.OutcomeFailure, res.Outcome)
}

func TestFailWithoutFailSceneStaysPut(t *testing.T) {
	f := newFixture(t, types.RoleHacker)
	_, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)
	f.char.AddModifier(types.StatCharisma, 1, 1, "timed")

	res, err := f.engine.Select(1)
	require.NoError(t, err)

	assert.False(t, res.Passed)
	assert.False(t, res.Moved)
	assert.Equal(t, "gate", res.SceneID)
	assert.Equal(t, "gate", f.engine.Current().ID)
	// No transition, no tick.
	assert.Len(t, f.char.Modifiers(), 1)
}

func TestTransitionTicksModifiers(t *testing.T) {
	f := newFixture(t, types.RoleHacker)
	_, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)
	f.char.AddModifier(types.StatIntelligence, 1, 1, "focus")

	res, err := f.engine.Select(0)
	require.NoError(t, err)
	require.Len(t, res.Expired, 1)
	assert.Equal(t, "focus", res.Expired[0].Description)
	assert.Empty(t, f.char.Modifiers())
}

func TestOptionVisibility(t *testing.T) {
	f := newFixture(t, types.RoleHacker)
	_, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)

	views, err := f.engine.Options()
	require.NoError(t, err)
	// Keycard option hidden; "walk in" visible because a missing flag counts as false.
	assert.Equal(t, []int{0, 1, 3}, indexes(views))
	assert.True(t, views[0].Passes)
	assert.False(t, views[1].Passes)
	assert.Equal(t, 150, views[1].Checks[0].Value)

	_, err = f.engine.Select(2)
	assert.ErrorIs(t, err, ErrOptionHidden)
	_, err = f.engine.Select(9)
	assert.ErrorIs(t, err, ErrOptionNotFound)

	f.world.SetFlag("has_keycard", true)
	f.world.SetFlag("alarm_raised", true)
	views, err = f.engine.Options()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, indexes(views))
}

func TestStayingOptionGrantsCatalogItem(t *testing.T) {
	f := newFixture(t, types.RoleHacker)
	_, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)

	res, err := f.engine.Select(3)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.False(t, res.Moved)
	assert.True(t, f.world.HasItem("visitor_pass"))
	assert.True(t, f.char.HasItem("visitor_pass"))
	assert.Equal(t, 3, f.char.EffectiveAttribute(types.StatCharisma))
	assert.Equal(t, []string{"visitor_pass"}, f.history.ItemList())
}

func TestAdvanceNeedsLinearScene(t *testing.T) {
	f := newFixture(t, types.RoleHacker)

	_, err := f.engine.Advance()
	assert.ErrorIs(t, err, ErrNoActiveScene)

	_, err = f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)
	_, err = f.engine.Advance()
	assert.ErrorIs(t, err, ErrAdvanceNeedsChoice)
}

func TestDanglingDestinationLeavesStateUntouched(t *testing.T) {
	reg, err := NewRegistry([]*Scene{{
		ID: "start",
		Options: []Option{{
			Text:         "Go",
			NextSceneID:  "nowhere",
			Consequences: []Consequence{ChangeCredits{Delta: 100}},
		}},
	}})
	require.NoError(t, err)

	c := character.New("V", types.RoleFixer, types.DifficultyNormal, character.DefaultOptions())
	w := world.NewState()
	e := NewEngine(reg, Target{Character: c, World: w, Factions: world.NewFactions()}, nil)
	_, err = e.Start("m", "start", nil)
	require.NoError(t, err)

	_, err = e.Select(0)
	assert.ErrorIs(t, err, ErrSceneNotFound)
	assert.Equal(t, 150, c.Credits())
	assert.Equal(t, "start", e.Current().ID)
}

func vaultEngine(t *testing.T, w *world.State) *Engine {
	t.Helper()
	reg, err := NewRegistry([]*Scene{
		{
			ID: "hall",
			Options: []Option{
				{Text: "Open the vault", NextSceneID: "vault", Consequences: []Consequence{SetFlag{Name: "vault_open", Value: true}}},
				{Text: "Seal the vault", NextSceneID: "vault", Consequences: []Consequence{ClearFlag{Name: "vault_open"}}},
			},
		},
		{ID: "vault", RequiredFlags: map[string]bool{"vault_open": true}},
	})
	require.NoError(t, err)

	c := character.New("V", types.RoleHacker, types.DifficultyNormal, character.DefaultOptions())
	e := NewEngine(reg, Target{Character: c, World: w, Factions: world.NewFactions()}, nil)
	_, err = e.Start("m", "hall", nil)
	require.NoError(t, err)
	return e
}

func TestConsequencesOpenTheirDestination(t *testing.T) {
	w := world.NewState()
	e := vaultEngine(t, w)

	res, err := e.Select(0)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, "vault", res.SceneID)
	assert.Empty(t, res.Blocked)
	assert.True(t, w.HasFlag("vault_open"))
	assert.Equal(t, "vault", e.Current().ID)
}

func TestConsequencesCanCloseTheirDestination(t *testing.T) {
	w := world.NewState()
	w.SetFlag("vault_open", true)
	e := vaultEngine(t, w)

	res, err := e.Select(1)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.False(t, res.Moved)
	assert.Equal(t, "vault", res.Blocked)
	assert.Equal(t, "hall", res.SceneID)
	require.Len(t, res.Applied, 1)
	assert.False(t, w.HasFlag("vault_open"))
	assert.Equal(t, "hall", e.Current().ID)
}

func TestStopAndResume(t *testing.T) {
	f := newFixture(t, types.RoleHacker)
	_, err := f.engine.Start("heist", "gate", f.history)
	require.NoError(t, err)

	f.engine.Stop()
	assert.Nil(t, f.engine.Current())
	_, err = f.engine.Select(0)
	assert.ErrorIs(t, err, ErrNoActiveScene)

	f.world.ClearFlag("at_gate")
	require.NoError(t, f.engine.Resume("heist", "gate", f.history))
	assert.Equal(t, "gate", f.engine.Current().ID)
	assert.False(t, f.world.HasFlag("at_gate"))

	assert.ErrorIs(t, f.engine.Resume("heist", "missing", f.history), ErrSceneNotFound)
}

func indexes(views []OptionView) []int {
	out := make([]int, 0, len(views))
	for _, v := range views {
		out = append(out, v.Index)
	}
	return out
}
