package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/district-runner/internal/types"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, err)

	s := newSession(t, types.RoleMerc)
	_, err = s.AcceptMission("data_heist")
	require.NoError(t, err)
	_, err = s.SelectOption(0)
	require.NoError(t, err)
	snap := s.Snapshot()

	require.NoError(t, store.Save(ctx, snap))
	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, snap.RunID, loaded.RunID)
	assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
	assert.Equal(t, snap.Character, loaded.Character)
	assert.Equal(t, snap.World, loaded.World)
	assert.Equal(t, snap.Missions, loaded.Missions)
	assert.Len(t, loaded.Memory, len(snap.Memory))
	require.NotNil(t, loaded.Active)
	assert.Equal(t, "alarm", loaded.Active.SceneID)
	assert.Equal(t, 1, loaded.Active.History.ChecksFailed)

	restored, err := RestoreSession(loaded, testBundle(t), testSettings(t))
	require.NoError(t, err)
	res, err := restored.AdvanceScene()
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeFailure, res.History.Outcome)
}

func TestFileStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	s := newSession(t, types.RoleHacker)
	require.NoError(t, store.Save(ctx, s.Snapshot()))
	_, err = s.BuyItem("deck")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, s.Snapshot()))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.Character.Credits)

	_, err = os.Stat(filepath.Join(dir, "run-1.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, id := range []string{"run-b", "run-a"} {
		snap := newSession(t, types.RoleHacker).Snapshot()
		snap.RunID = id
		require.NoError(t, store.Save(ctx, snap))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, ids)
}

func TestFileStoreErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = store.Load(ctx, "../escape")
	assert.Error(t, err)
	snap := newSession(t, types.RoleHacker).Snapshot()
	snap.RunID = ""
	assert.Error(t, store.Save(ctx, snap))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	_, err = store.Load(ctx, "broken")
	assert.ErrorContains(t, err, "failed to parse snapshot")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Save(cancelled, newSession(t, types.RoleHacker).Snapshot()), context.Canceled)
	_, err = store.List(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
