package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/district-runner/config"
	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/content"
	"github.com/user/district-runner/internal/memory"
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/scene"
	"github.com/user/district-runner/internal/types"
	"github.com/user/district-runner/internal/world"
	"go.uber.org/zap"
)

var (
	ErrNoActiveMission   = errors.New("no active mission")
	ErrMissionInProgress = errors.New("another mission is in progress")
	ErrItemNotFound      = errors.New("item not found")
	ErrItemOwned         = errors.New("item already owned")
)

// Settings are the rule knobs a session is created with.
type Settings struct {
	Role           types.Role
	Difficulty     types.Difficulty
	DefaultSceneID string
	UnlockPolicy   mission.UnlockPolicy
	ClosingDelay   time.Duration
	Character      character.Options
}

// SettingsFromConfig validates the game section of the config.
func SettingsFromConfig(cfg config.GameConfig) (Settings, error) {
	role, err := types.ParseRole(cfg.DefaultRole)
	if err != nil {
		return Settings{}, fmt.Errorf("default_role: %w", err)
	}
	difficulty, err := types.ParseDifficulty(cfg.DefaultDifficulty)
	if err != nil {
		return Settings{}, fmt.Errorf("default_difficulty: %w", err)
	}
	policy, err := mission.ParseUnlockPolicy(cfg.UnlockPolicy)
	if err != nil {
		return Settings{}, fmt.Errorf("unlock_policy: %w", err)
	}

	opts := character.DefaultOptions()
	if cfg.MaxHealth > 0 {
		opts.MaxHealth = cfg.MaxHealth
	}
	if cfg.MaxBattery > 0 {
		opts.MaxBattery = cfg.MaxBattery
	}
	if cfg.BatteryPenalty > 0 {
		opts.BatteryPenalty = cfg.BatteryPenalty
	}

	return Settings{
		Role:           role,
		Difficulty:     difficulty,
		DefaultSceneID: cfg.DefaultSceneID,
		UnlockPolicy:   policy,
		ClosingDelay:   time.Duration(cfg.ClosingDelayMS) * time.Millisecond,
		Character:      opts,
	}, nil
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock sets the time source for memory and histories.
func WithClock(clock func() time.Time) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithSessionID fixes the run id instead of generating one.
func WithSessionID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// Session is the context of one run. It owns the character, world,
// factions and memory; the mission and scene engines mutate them through
// references held here. A Session is not safe for concurrent use.
type Session struct {
	id        string
	createdAt time.Time
	settings  Settings
	bundle    *content.Bundle
	clock     func() time.Time

	character *character.Character
	world     *world.State
	factions  *world.Factions
	memory    *memory.RunMemory
	missions  *mission.Engine
	scenes    *scene.Engine

	active    *memory.History
	histories []*memory.History

	Logger *zap.Logger
}

// NewSession starts a new run.
func NewSession(name string, bundle *content.Bundle, settings Settings, opts ...SessionOption) (*Session, error) {
	s := &Session{
		settings: settings,
		bundle:   bundle,
		clock:    time.Now,
		Logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}
	s.createdAt = s.clock()

	s.character = character.New(name, settings.Role, settings.Difficulty, settings.Character)
	s.world = world.NewState()
	s.factions = world.NewFactions()
	s.memory = memory.NewRunMemory(memory.WithClock(s.clock))

	if err := s.wire(); err != nil {
		return nil, err
	}

	s.memory.Record(types.EventSystem, "", "run started",
		fmt.Sprintf("role=%s difficulty=%s", settings.Role, settings.Difficulty))
	return s, nil
}

// wire builds the engines over the session's state.
func (s *Session) wire() error {
	missions, err := mission.NewEngine(s.bundle.Missions,
		mission.WithUnlockPolicy(s.settings.UnlockPolicy),
		mission.WithDefaultScene(s.settings.DefaultSceneID),
		mission.WithRecorder(s.memory))
	if err != nil {
		return fmt.Errorf("failed to build missions: %w", err)
	}
	missions.ApplyLayout(s.bundle.Layout)
	s.missions = missions

	s.scenes = scene.NewEngine(s.bundle.Scenes, scene.Target{
		Character: s.character,
		World:     s.world,
		Factions:  s.factions,
		Catalog:   s.bundle.Items,
	}, s.memory)
	return nil
}

// SetLogger replaces the logger of the session and its engines.
func (s *Session) SetLogger(logger *zap.Logger) {
	s.Logger = logger.With(zap.String("run_id", s.id))
	s.missions.SetLogger(s.Logger)
	s.scenes.SetLogger(s.Logger)
}

// ID returns the run id.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the run started.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Character returns the run's character.
func (s *Session) Character() *character.Character { return s.character }

// World returns the run's world state.
func (s *Session) World() *world.State { return s.world }

// Factions returns the run's faction reputation.
func (s *Session) Factions() *world.Factions { return s.factions }

// Memory returns the run's event log.
func (s *Session) Memory() *memory.RunMemory { return s.memory }

// Missions returns the mission engine.
func (s *Session) Missions() *mission.Engine { return s.missions }

// ActiveHistory returns the in-progress mission history, or nil.
func (s *Session) ActiveHistory() *memory.History { return s.active }

// Histories returns finished mission histories, oldest first.
func (s *Session) Histories() []*memory.History {
	out := make([]*memory.History, len(s.histories))
	copy(out, s.histories)
	return out
}

// EligibleMissions returns available missions whose spawn conditions hold now.
func (s *Session) EligibleMissions() []*mission.Mission {
	return s.missions.Eligible(s.world, s.character)
}

// VisibleMissions returns every mission the map should render.
func (s *Session) VisibleMissions() []*mission.Mission {
	return s.missions.Visible(s.world, s.character)
}

// AcceptResult is what accepting a mission produced.
type AcceptResult struct {
	Mission *mission.Mission
	Scene   *scene.Scene
	Applied []string
	// Step is set when the entry scene is a closing scene and the mission
	// finished on acceptance.
	Step    *StepResult
}

// AcceptMission accepts a mission and enters its first scene. Only one
// mission runs at a time.
func (s *Session) AcceptMission(id string) (*AcceptResult, error) {
	if s.active != nil {
		return nil, ErrMissionInProgress
	}

	// Resolve the entry scene before anything changes.
	m, err := s.missions.Get(id)
	if err != nil {
		return nil, err
	}
	entry := m.NextSceneID
	if entry == "" {
		entry = s.settings.DefaultSceneID
	}
	if _, ok := s.bundle.Scenes.Scene(entry); !ok {
		return nil, fmt.Errorf("mission %s entry: %w", id, scene.ErrSceneNotFound)
	}

	res, err := s.missions.Accept(id, s.world, s.character)
	if err != nil {
		return nil, err
	}

	history := memory.NewHistory(id, s.clock)
	first, err := s.scenes.Start(id, res.EntrySceneID, history)
	if err != nil {
		// Acceptance consequences cleared a flag the entry scene needs.
		// The mission stays accepted with nothing running, as after Abandon.
		s.Logger.Error("Failed to enter mission scene",
			zap.String("mission_id", id),
			zap.String("scene_id", res.EntrySceneID),
			zap.Error(err))
		return nil, err
	}
	s.active = history
	out := &AcceptResult{Mission: res.Mission, Scene: first, Applied: res.Applied}

	if first.Closing {
		step, err := s.step(&scene.Result{
			FromSceneID: first.ID,
			SceneID:     first.ID,
			OptionIndex: -1,
			Passed:      true,
			Moved:       true,
			Closing:     true,
			Outcome:     first.Outcome,
		})
		if err != nil {
			return nil, err
		}
		out.Step = step
	}
	return out, nil
}

// CurrentScene returns the active scene and its visible options.
func (s *Session) CurrentScene() (*scene.Scene, []scene.OptionView, error) {
	if s.active == nil {
		return nil, nil, ErrNoActiveMission
	}
	views, err := s.scenes.Options()
	if err != nil {
		return nil, nil, err
	}
	return s.scenes.Current(), views, nil
}

// StepResult is what one scene command produced. Completion and History
// are set when the step reached a closing scene.
type StepResult struct {
	*scene.Result
	Completion   *mission.CompleteResult
	History      *memory.History
	ClosingDelay time.Duration
}

// SelectOption resolves an option of the active scene.
func (s *Session) SelectOption(index int) (*StepResult, error) {
	if s.active == nil {
		return nil, ErrNoActiveMission
	}
	res, err := s.scenes.Select(index)
	if err != nil {
		return nil, err
	}
	return s.step(res)
}

// AdvanceScene follows the only option of a linear scene.
func (s *Session) AdvanceScene() (*StepResult, error) {
	if s.active == nil {
		return nil, ErrNoActiveMission
	}
	res, err := s.scenes.Advance()
	if err != nil {
		return nil, err
	}
	return s.step(res)
}

func (s *Session) step(res *scene.Result) (*StepResult, error) {
	out := &StepResult{Result: res}
	if !res.Closing {
		return out, nil
	}
	if err := s.finalize(res, out); err != nil {
		return nil, err
	}
	return out, nil
}

// finalize finishes the history, completes the mission and leaves the
// scene graph.
func (s *Session) finalize(res *scene.Result, out *StepResult) error {
	history := s.active
	missionID := s.scenes.MissionID()

	outcome := res.Outcome
	if outcome == "" {
		outcome = types.OutcomeSuccess
		if history.ChecksFailed > 0 {
			outcome = types.OutcomePartial
		}
	}
	if err := history.Finish(outcome); err != nil {
		return err
	}

	completion, err := s.missions.Complete(missionID, s.world, s.character)
	if err != nil {
		return fmt.Errorf("failed to complete mission %s: %w", missionID, err)
	}

	s.histories = append(s.histories, history)
	s.active = nil
	s.scenes.Stop()

	s.memory.Record(types.EventSystem, missionID, "mission finished",
		fmt.Sprintf("outcome=%s decisions=%d", outcome, history.Decisions))
	s.Logger.Info("Mission finished",
		zap.String("mission_id", missionID),
		zap.String("outcome", string(outcome)),
		zap.Int("checks_passed", history.ChecksPassed),
		zap.Int("checks_failed", history.ChecksFailed))

	out.Completion = completion
	out.History = history
	out.ClosingDelay = s.settings.ClosingDelay
	return nil
}

// Abandon leaves the active mission. The in-progress history is discarded
// without being finished and the mission stays Accepted.
func (s *Session) Abandon() error {
	if s.active == nil {
		return ErrNoActiveMission
	}
	missionID := s.scenes.MissionID()
	s.scenes.Stop()
	s.active = nil

	s.memory.Record(types.EventSystem, missionID, "mission abandoned", "")
	s.Logger.Info("Mission abandoned", zap.String("mission_id", missionID))
	return nil
}

// Purchase is what buying an item produced.
type Purchase struct {
	Item     character.Item
	Price    int
	Standing world.Standing
}

// BuyItem buys a catalog item at the seller faction's price. Nothing
// changes when the character cannot afford it.
func (s *Session) BuyItem(id string) (*Purchase, error) {
	item, ok := s.bundle.Items.Lookup(id)
	if !ok {
		return nil, ErrItemNotFound
	}
	if s.character.HasItem(id) {
		return nil, ErrItemOwned
	}

	price := s.factions.Price(item.Faction, item.Price)
	if err := s.character.SpendCredits(price); err != nil {
		return nil, err
	}
	s.character.AddItem(item)

	standing := s.factions.Standing(item.Faction)
	s.memory.Record(types.EventSystem, "", "item purchased: "+item.Name,
		fmt.Sprintf("price=%d standing=%s", price, standing))
	s.Logger.Info("Item purchased",
		zap.String("item_id", id),
		zap.Int("price", price),
		zap.String("standing", standing.String()))

	return &Purchase{Item: item, Price: price, Standing: standing}, nil
}
