package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/content"
	"github.com/user/district-runner/internal/memory"
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/world"
	"go.uber.org/zap"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// ActiveSnapshot is the mission walk in progress when the snapshot was taken.
type ActiveSnapshot struct {
	MissionID string          `json:"mission_id"`
	SceneID   string          `json:"scene_id"`
	History   *memory.History `json:"history"`
}

// Snapshot is the complete persisted state of a run.
type Snapshot struct {
	Version   int                       `json:"version"`
	RunID     string                    `json:"run_id"`
	CreatedAt time.Time                 `json:"created_at"`
	SavedAt   time.Time                 `json:"saved_at"`
	Character character.Snapshot        `json:"character"`
	World     world.Snapshot            `json:"world"`
	Factions  map[string]int            `json:"factions"`
	Missions  map[string]mission.Status `json:"missions"`
	Overlays  map[string]mission.Status `json:"overlays,omitempty"`
	Memory    []memory.Event            `json:"memory"`
	Histories []*memory.History         `json:"histories"`
	Active    *ActiveSnapshot           `json:"active,omitempty"`
}

// Snapshot captures the run. The result shares nothing with the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Version:   SnapshotVersion,
		RunID:     s.id,
		CreatedAt: s.createdAt,
		SavedAt:   s.clock(),
		Character: s.character.Snapshot(),
		World:     s.world.Snapshot(),
		Factions:  s.factions.Snapshot(),
		Missions:  s.missions.Statuses(),
		Overlays:  s.missions.Overlays(),
		Memory:    s.memory.Events(),
	}
	for _, h := range s.histories {
		snap.Histories = append(snap.Histories, h.Clone())
	}
	if s.active != nil {
		snap.Active = &ActiveSnapshot{
			MissionID: s.scenes.MissionID(),
			SceneID:   s.scenes.Current().ID,
			History:   s.active.Clone(),
		}
	}
	return snap
}

// RestoreSession rebuilds a run from a snapshot over the given content.
func RestoreSession(snap Snapshot, bundle *content.Bundle, settings Settings, opts ...SessionOption) (*Session, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	s := &Session{
		id:        snap.RunID,
		createdAt: snap.CreatedAt,
		settings:  settings,
		bundle:    bundle,
		clock:     time.Now,
		Logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.character = character.Restore(snap.Character)
	s.world = world.Restore(snap.World)
	s.factions = world.RestoreFactions(snap.Factions)
	s.memory = memory.NewRunMemory(memory.WithClock(s.clock))
	s.memory.Restore(snap.Memory)

	if err := s.wire(); err != nil {
		return nil, err
	}
	s.missions.RestoreStatuses(snap.Missions)
	s.missions.RestoreOverlays(snap.Overlays)

	for _, h := range snap.Histories {
		restored := h.Clone()
		restored.SetClock(s.clock)
		s.histories = append(s.histories, restored)
	}

	if snap.Active != nil {
		if snap.Active.History == nil {
			return nil, fmt.Errorf("active mission %s has no history", snap.Active.MissionID)
		}
		history := snap.Active.History.Clone()
		history.SetClock(s.clock)
		if err := s.scenes.Resume(snap.Active.MissionID, snap.Active.SceneID, history); err != nil {
			return nil, fmt.Errorf("failed to resume mission %s: %w", snap.Active.MissionID, err)
		}
		s.active = history
	}
	return s, nil
}
