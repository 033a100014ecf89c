package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/user/district-runner/config"
	"github.com/user/district-runner/internal/content"
	"github.com/user/district-runner/internal/interfaces"
	"github.com/user/district-runner/internal/types"
	"go.uber.org/zap"
)

var ErrStorageDisabled = errors.New("snapshot storage is not configured")

// runEntry guards one session. Sessions are single-threaded; the entry lock
// serialises requests against the same run.
type runEntry struct {
	mu      sync.Mutex
	session *Session
	dirty   bool
}

// GameManager holds every live run and exposes the query and command
// surfaces over them.
type GameManager struct {
	runs      map[string]*runEntry
	stateLock sync.RWMutex
	bundle    *content.Bundle
	settings  Settings
	store     SnapshotStore
	Logger    *zap.Logger
	autoSaver *AutoSaver
}

// Ensure GameManager satisfies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager creates a manager over loaded content. store may be nil,
// in which case runs live only in memory.
func NewGameManager(cfg config.Config, bundle *content.Bundle, store SnapshotStore) (*GameManager, error) {
	settings, err := SettingsFromConfig(cfg.Game)
	if err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	return &GameManager{
		runs:     make(map[string]*runEntry),
		bundle:   bundle,
		settings: settings,
		store:    store,
		Logger:   zap.NewNop(), // Will be set by the server
	}, nil
}

// SetLogger sets the logger for the manager and every live run
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.Logger = logger
	for _, entry := range gm.runs {
		entry.mu.Lock()
		entry.session.SetLogger(logger)
		entry.mu.Unlock()
	}
}

// query runs fn against a run without marking it changed
func (gm *GameManager) query(runID string, fn func(s *Session) error) error {
	entry, err := gm.entry(runID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

// command runs fn against a run and marks it for the next autosave
func (gm *GameManager) command(runID string, fn func(s *Session) error) error {
	entry, err := gm.entry(runID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.session); err != nil {
		return err
	}
	entry.dirty = true
	return nil
}

func (gm *GameManager) entry(runID string) (*runEntry, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	entry, exists := gm.runs[runID]
	if !exists {
		return nil, ErrRunNotFound
	}
	return entry, nil
}

func (gm *GameManager) register(s *Session, dirty bool) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	s.SetLogger(gm.Logger)
	gm.runs[s.ID()] = &runEntry{session: s, dirty: dirty}
}

// NewRun starts a run. Empty role or difficulty use the configured defaults.
func (gm *GameManager) NewRun(name, role, difficulty string) (*types.RunView, error) {
	settings := gm.settings
	if role != "" {
		r, err := types.ParseRole(role)
		if err != nil {
			return nil, err
		}
		settings.Role = r
	}
	if difficulty != "" {
		d, err := types.ParseDifficulty(difficulty)
		if err != nil {
			return nil, err
		}
		settings.Difficulty = d
	}
	if name == "" {
		name = "Runner"
	}

	s, err := NewSession(name, gm.bundle, settings)
	if err != nil {
		return nil, err
	}
	gm.register(s, true)

	gm.Logger.Info("Run started",
		zap.String("run_id", s.ID()),
		zap.String("role", string(settings.Role)),
		zap.String("difficulty", string(settings.Difficulty)))

	return runView(s), nil
}

// GetRun returns a run summary
func (gm *GameManager) GetRun(runID string) (*types.RunView, error) {
	var view *types.RunView
	err := gm.query(runID, func(s *Session) error {
		view = runView(s)
		return nil
	})
	return view, err
}

// RunIDs returns the ids of live runs in sorted order
func (gm *GameManager) RunIDs() []string {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	ids := make([]string, 0, len(gm.runs))
	for id := range gm.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ListMissions returns every visible mission with its current eligibility
func (gm *GameManager) ListMissions(runID string) ([]types.MissionView, error) {
	var views []types.MissionView
	err := gm.query(runID, func(s *Session) error {
		eligible := make(map[string]bool)
		for _, m := range s.EligibleMissions() {
			eligible[m.ID] = true
		}
		views = []types.MissionView{}
		for _, m := range s.VisibleMissions() {
			views = append(views, missionView(m, eligible[m.ID]))
		}
		return nil
	})
	return views, err
}

// AcceptMission accepts a mission and returns its first scene
func (gm *GameManager) AcceptMission(runID, missionID string) (*types.SceneView, error) {
	var view *types.SceneView
	err := gm.command(runID, func(s *Session) error {
		accepted, err := s.AcceptMission(missionID)
		if err != nil {
			return err
		}
		if accepted.Step != nil {
			view = sceneView(missionID, accepted.Scene, nil)
			view.Result = stepView(accepted.Step)
			return nil
		}
		current, options, err := s.CurrentScene()
		if err != nil {
			return err
		}
		view = sceneView(missionID, current, options)
		return nil
	})
	return view, err
}

// CurrentScene returns the active scene and its visible options
func (gm *GameManager) CurrentScene(runID string) (*types.SceneView, error) {
	var view *types.SceneView
	err := gm.query(runID, func(s *Session) error {
		current, options, err := s.CurrentScene()
		if err != nil {
			return err
		}
		view = sceneView(s.scenes.MissionID(), current, options)
		return nil
	})
	return view, err
}

// SelectOption resolves an option of the active scene
func (gm *GameManager) SelectOption(runID string, index int) (*types.StepView, error) {
	return gm.step(runID, func(s *Session) (*StepResult, error) {
		return s.SelectOption(index)
	})
}

// AdvanceScene follows the only option of a linear scene
func (gm *GameManager) AdvanceScene(runID string) (*types.StepView, error) {
	return gm.step(runID, func(s *Session) (*StepResult, error) {
		return s.AdvanceScene()
	})
}

func (gm *GameManager) step(runID string, fn func(s *Session) (*StepResult, error)) (*types.StepView, error) {
	var view *types.StepView
	err := gm.command(runID, func(s *Session) error {
		res, err := fn(s)
		if err != nil {
			return err
		}
		view = stepView(res)
		// Attach the next scene unless the mission just ended.
		if res.Completion == nil {
			current, options, err := s.CurrentScene()
			if err != nil {
				return err
			}
			view.Scene = sceneView(s.scenes.MissionID(), current, options)
		}
		return nil
	})
	return view, err
}

// AbandonMission leaves the active mission without finishing it
func (gm *GameManager) AbandonMission(runID string) error {
	return gm.command(runID, func(s *Session) error {
		return s.Abandon()
	})
}

// BuyItem buys a catalog item for the run's character
func (gm *GameManager) BuyItem(runID, itemID string) (*types.PurchaseView, error) {
	var view *types.PurchaseView
	err := gm.command(runID, func(s *Session) error {
		p, err := s.BuyItem(itemID)
		if err != nil {
			return err
		}
		view = &types.PurchaseView{
			ItemID:   p.Item.ID,
			Name:     p.Item.Name,
			Price:    p.Price,
			Standing: p.Standing.String(),
			Credits:  s.Character().Credits(),
		}
		return nil
	})
	return view, err
}

// GetMemory returns the run's event log
func (gm *GameManager) GetMemory(runID string) ([]types.EventView, error) {
	var views []types.EventView
	err := gm.query(runID, func(s *Session) error {
		views = []types.EventView{}
		for _, e := range s.Memory().Events() {
			views = append(views, eventView(e))
		}
		return nil
	})
	return views, err
}

// GetHistories returns finished mission histories, then the active one if any
func (gm *GameManager) GetHistories(runID string) ([]types.HistoryView, error) {
	var views []types.HistoryView
	err := gm.query(runID, func(s *Session) error {
		views = []types.HistoryView{}
		for _, h := range s.Histories() {
			views = append(views, *historyView(h))
		}
		if h := s.ActiveHistory(); h != nil {
			views = append(views, *historyView(h))
		}
		return nil
	})
	return views, err
}

// SaveRun persists a run's snapshot
func (gm *GameManager) SaveRun(ctx context.Context, runID string) error {
	if gm.store == nil {
		return ErrStorageDisabled
	}
	entry, err := gm.entry(runID)
	if err != nil {
		return err
	}
	return gm.save(ctx, entry)
}

func (gm *GameManager) save(ctx context.Context, entry *runEntry) error {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	snap := entry.session.Snapshot()
	if err := gm.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save run %s: %w", snap.RunID, err)
	}
	entry.dirty = false

	gm.Logger.Debug("Run saved", zap.String("run_id", snap.RunID))
	return nil
}

// LoadRun restores a run from storage, replacing any live copy
func (gm *GameManager) LoadRun(ctx context.Context, runID string) (*types.RunView, error) {
	if gm.store == nil {
		return nil, ErrStorageDisabled
	}
	snap, err := gm.store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	s, err := RestoreSession(snap, gm.bundle, gm.settings)
	if err != nil {
		return nil, err
	}
	gm.register(s, false)

	gm.Logger.Info("Run loaded", zap.String("run_id", runID))
	return runView(s), nil
}

// SaveDirty persists every run changed since its last save
func (gm *GameManager) SaveDirty(ctx context.Context) (int, error) {
	if gm.store == nil {
		return 0, ErrStorageDisabled
	}

	gm.stateLock.RLock()
	entries := make([]*runEntry, 0, len(gm.runs))
	for _, entry := range gm.runs {
		entries = append(entries, entry)
	}
	gm.stateLock.RUnlock()

	saved := 0
	var errs []error
	for _, entry := range entries {
		entry.mu.Lock()
		dirty := entry.dirty
		entry.mu.Unlock()
		if !dirty {
			continue
		}
		if err := gm.save(ctx, entry); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

// StartAutoSave periodically saves changed runs
func (gm *GameManager) StartAutoSave(interval time.Duration) {
	if gm.store == nil || interval <= 0 || gm.autoSaver != nil {
		return
	}
	gm.autoSaver = NewAutoSaver(gm, interval)
	gm.autoSaver.Start()
}

// StopAutoSave stops the autosave loop
func (gm *GameManager) StopAutoSave() {
	if gm.autoSaver != nil {
		gm.autoSaver.Stop()
		gm.autoSaver = nil
	}
}
