package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/scene"
	"github.com/user/district-runner/internal/types"
)

func TestSnapshotRestoresMidMission(t *testing.T) {
	s := newSession(t, types.RoleMerc)
	_, err := s.AcceptMission("data_heist")
	require.NoError(t, err)
	_, err = s.SelectOption(0)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, "run-1", snap.RunID)
	require.NotNil(t, snap.Active)
	assert.Equal(t, "data_heist", snap.Active.MissionID)
	assert.Equal(t, "alarm", snap.Active.SceneID)
	assert.Equal(t, mission.StatusAccepted, snap.Missions["data_heist"])

	restored, err := RestoreSession(snap, testBundle(t), testSettings(t), WithClock(fixedClock()))
	require.NoError(t, err)
	assert.Equal(t, "run-1", restored.ID())
	assert.Equal(t, s.Character().Snapshot(), restored.Character().Snapshot())
	assert.Equal(t, s.World().Snapshot(), restored.World().Snapshot())
	assert.Equal(t, s.Memory().Len(), restored.Memory().Len())

	current, options, err := restored.CurrentScene()
	require.NoError(t, err)
	assert.Equal(t, "alarm", current.ID)
	require.Len(t, options, 1)

	res, err := restored.AdvanceScene()
	require.NoError(t, err)
	require.NotNil(t, res.History)
	assert.Equal(t, types.OutcomeFailure, res.History.Outcome)
	assert.Equal(t, 2, res.History.Decisions)
	assert.Equal(t, 1, res.History.ChecksFailed)

	// The original run is untouched by the restored one.
	assert.NotNil(t, s.ActiveHistory())
	assert.Empty(t, s.Histories())
}

func TestSnapshotKeepsOverlays(t *testing.T) {
	s := newSession(t, types.RoleHacker)
	require.NoError(t, s.Missions().Hide("data_heist"))

	snap := s.Snapshot()
	assert.Equal(t, map[string]mission.Status{"data_heist": mission.StatusHidden}, snap.Overlays)
	assert.Equal(t, mission.StatusAvailable, snap.Missions["data_heist"])

	restored, err := RestoreSession(snap, testBundle(t), testSettings(t))
	require.NoError(t, err)
	assert.Empty(t, restored.EligibleMissions())
	_, err = restored.AcceptMission("data_heist")
	assert.ErrorIs(t, err, mission.ErrMissionNotEligible)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newSession(t, types.RoleHacker)
	_, err := s.AcceptMission("data_heist")
	require.NoError(t, err)

	snap := s.Snapshot()
	_, err = s.SelectOption(0)
	require.NoError(t, err)

	assert.Equal(t, 0, snap.Active.History.Decisions)
	assert.Equal(t, 100, snap.Character.Battery)
	assert.Equal(t, mission.StatusAccepted, snap.Missions["data_heist"])
	assert.False(t, snap.World.Flags["lock_cracked"])
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	snap := newSession(t, types.RoleHacker).Snapshot()
	snap.Version = SnapshotVersion + 1

	_, err := RestoreSession(snap, testBundle(t), testSettings(t))
	assert.ErrorIs(t, err, ErrSnapshotVersion)
}

func TestRestoreRejectsMissingScene(t *testing.T) {
	s := newSession(t, types.RoleHacker)
	_, err := s.AcceptMission("data_heist")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Active.SceneID = "vault"
	_, err = RestoreSession(snap, testBundle(t), testSettings(t))
	assert.ErrorIs(t, err, scene.ErrSceneNotFound)

	snap.Active.SceneID = "gate"
	snap.Active.History = nil
	_, err = RestoreSession(snap, testBundle(t), testSettings(t))
	assert.Error(t, err)
}

func TestReplayIsDeterministic(t *testing.T) {
	steps := []Step{
		{Kind: StepAccept, MissionID: "data_heist"},
		{Kind: StepSelect, Option: 0},
		{Kind: StepBuy, ItemID: "deck"},
		{Kind: StepAccept, MissionID: "tower_job"},
		{Kind: StepAdvance},
	}

	first := newSession(t, types.RoleHacker)
	require.NoError(t, first.Replay(steps))
	second := newSession(t, types.RoleHacker)
	require.NoError(t, second.Replay(steps))

	assert.Equal(t, first.Character().Snapshot(), second.Character().Snapshot())
	assert.Equal(t, first.World().Snapshot(), second.World().Snapshot())
	assert.Equal(t, first.Missions().Statuses(), second.Missions().Statuses())
	require.Len(t, first.Histories(), 2)
	require.Len(t, second.Histories(), 2)
	for i := range first.Histories() {
		a, b := first.Histories()[i], second.Histories()[i]
		assert.Equal(t, a.MissionID, b.MissionID)
		assert.Equal(t, a.Outcome, b.Outcome)
		assert.Equal(t, a.Decisions, b.Decisions)
		assert.Equal(t, a.ChecksPassed, b.ChecksPassed)
		assert.Equal(t, a.SecretList(), b.SecretList())
	}
	assert.Equal(t, 250, first.Character().Credits())
}

func TestReplayFromSnapshot(t *testing.T) {
	s := newSession(t, types.RoleMerc)
	snap := s.Snapshot()

	steps := []Step{
		{Kind: StepAccept, MissionID: "data_heist"},
		{Kind: StepSelect, Option: 0},
		{Kind: StepAdvance},
	}
	require.NoError(t, s.Replay(steps))

	replayed, err := ReplayFrom(snap, testBundle(t), testSettings(t), steps, WithClock(fixedClock()))
	require.NoError(t, err)
	assert.Equal(t, s.Character().Snapshot(), replayed.Character().Snapshot())
	assert.Equal(t, s.World().Snapshot(), replayed.World().Snapshot())
	require.Len(t, replayed.Histories(), 1)
	assert.Equal(t, types.OutcomeFailure, replayed.Histories()[0].Outcome)
}

func TestReplayStopsAtFirstFailure(t *testing.T) {
	s := newSession(t, types.RoleHacker)

	err := s.Replay([]Step{{Kind: StepSelect, Option: 0}})
	assert.ErrorIs(t, err, ErrNoActiveMission)
	assert.Contains(t, err.Error(), "step 0 (select)")

	err = s.Replay([]Step{
		{Kind: StepAccept, MissionID: "data_heist"},
		{Kind: "dance"},
	})
	assert.ErrorIs(t, err, types.ErrUnknownEnum)
	assert.Contains(t, err.Error(), "step 1")
	assert.NotNil(t, s.ActiveHistory())
}

func TestAutoPilotChooseOption(t *testing.T) {
	var pilot AutoPilot

	views := []scene.OptionView{
		{Index: 0, Passes: false, Option: scene.Option{FailSceneID: "alarm"}},
		{Index: 1, Passes: true, Option: scene.Option{NextSceneID: "lobby"}},
		{Index: 2, Passes: true, Option: scene.Option{
			NextSceneID: "vault",
			Checks:      []scene.Check{{Stat: types.StatHack, Threshold: 3}},
		}},
	}
	choice, ok := pilot.ChooseOption(views)
	require.True(t, ok)
	assert.Equal(t, 2, choice.Index)

	choice, ok = pilot.ChooseOption(views[:1])
	require.True(t, ok)
	assert.Equal(t, 0, choice.Index)

	_, ok = pilot.ChooseOption([]scene.OptionView{{Index: 0, Passes: false}})
	assert.False(t, ok)
	_, ok = pilot.ChooseOption(nil)
	assert.False(t, ok)
}

func TestAutoPlay(t *testing.T) {
	s := newSession(t, types.RoleMerc)

	steps, res, err := s.AutoPlay("data_heist", 10)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []Step{
		{Kind: StepAccept, MissionID: "data_heist"},
		{Kind: StepSelect, Option: 1},
	}, steps)
	assert.Equal(t, types.OutcomeSuccess, res.History.Outcome)
	assert.Equal(t, 5, s.Character().Notoriety())

	again := newSession(t, types.RoleMerc)
	require.NoError(t, again.Replay(steps))
	assert.Equal(t, s.Character().Snapshot(), again.Character().Snapshot())
}

func TestAutoPlayGivesUpAfterMaxSteps(t *testing.T) {
	s := newSession(t, types.RoleMerc)

	steps, res, err := s.AutoPlay("data_heist", 0)
	assert.ErrorIs(t, err, ErrAutoPilotStuck)
	assert.Nil(t, res)
	assert.Len(t, steps, 1)
}
