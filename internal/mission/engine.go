package mission

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/types"
	"github.com/user/district-runner/internal/world"
	"go.uber.org/zap"
)

var (
	ErrMissionNotFound         = errors.New("mission not found")
	ErrMissionNotEligible      = errors.New("mission not eligible")
	ErrMissionAlreadyAccepted  = errors.New("mission already accepted")
	ErrMissionAlreadyCompleted = errors.New("mission already completed")
	ErrMissionNotAccepted      = errors.New("mission not accepted")
)

// UnlockPolicy decides which locked missions open after a completion.
type UnlockPolicy string

const (
	// UnlockFirstLocked opens the first locked mission in load order.
	UnlockFirstLocked UnlockPolicy = "first_locked"
	// UnlockRequirements opens every locked mission whose requirements are all completed.
	UnlockRequirements UnlockPolicy = "requirements"
)

// ParseUnlockPolicy converts a config string into an UnlockPolicy. Empty
// means UnlockFirstLocked.
func ParseUnlockPolicy(raw string) (UnlockPolicy, error) {
	p := UnlockPolicy(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case "":
		return UnlockFirstLocked, nil
	case UnlockFirstLocked, UnlockRequirements:
		return p, nil
	}
	return "", fmt.Errorf("%w: unlock policy %q", types.ErrUnknownEnum, raw)
}

// Recorder receives milestone events.
type Recorder interface {
	Record(kind types.EventType, missionID, description, detail string)
}

// AcceptResult describes a successful acceptance.
type AcceptResult struct {
	Mission      *Mission
	EntrySceneID string
	Applied      []string
}

// CompleteResult describes a successful completion.
type CompleteResult struct {
	Mission           *Mission
	CreditsAwarded    int
	Applied           []string
	UnlockedLocations []string
	UnlockedMissions  []string
}

// Engine owns the missions of one run.
type Engine struct {
	missions       []*Mission
	index          map[string]*Mission
	policy         UnlockPolicy
	defaultSceneID string
	recorder       Recorder
	Logger         *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithUnlockPolicy sets the progression policy.
func WithUnlockPolicy(p UnlockPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithDefaultScene sets the entry scene for missions without one.
func WithDefaultScene(sceneID string) Option {
	return func(e *Engine) { e.defaultSceneID = sceneID }
}

// WithRecorder sets the milestone recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// NewEngine creates an engine over copies of the given missions, keeping
// their order. Duplicate ids are rejected.
func NewEngine(missions []*Mission, opts ...Option) (*Engine, error) {
	e := &Engine{
		index:  make(map[string]*Mission, len(missions)),
		policy: UnlockFirstLocked,
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, m := range missions {
		if _, exists := e.index[m.ID]; exists {
			return nil, &types.ContentError{Unit: "mission", ID: m.ID, Err: types.ErrDuplicateID}
		}
		clone := m.Clone()
		e.missions = append(e.missions, clone)
		e.index[clone.ID] = clone
	}
	return e, nil
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(logger *zap.Logger) {
	e.Logger = logger
}

// Get returns a mission by id.
func (e *Engine) Get(id string) (*Mission, error) {
	m, ok := e.index[id]
	if !ok {
		return nil, ErrMissionNotFound
	}
	return m, nil
}

// All returns every mission in load order.
func (e *Engine) All() []*Mission {
	out := make([]*Mission, len(e.missions))
	copy(out, e.missions)
	return out
}

// Eligible returns available missions whose spawn conditions hold, highest
// priority first. Spawn conditions are evaluated on every call.
func (e *Engine) Eligible(w *world.State, c *character.Character) []*Mission {
	var out []*Mission
	for _, m := range e.missions {
		if m.Status == StatusAvailable && m.Offered() && m.CanSpawn(w, c) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// Visible returns missions a map should draw: eligible ones plus accepted
// and completed ones. Overlaid missions are never drawn.
func (e *Engine) Visible(w *world.State, c *character.Character) []*Mission {
	var out []*Mission
	for _, m := range e.missions {
		if !m.Offered() {
			continue
		}
		switch m.Status {
		case StatusAccepted, StatusCompleted:
			out = append(out, m)
		case StatusAvailable:
			if m.CanSpawn(w, c) {
				out = append(out, m)
			}
		}
	}
	return out
}

// Accept moves an eligible mission to Accepted and applies its acceptance
// consequences. Nothing changes when an error is returned.
func (e *Engine) Accept(id string, w *world.State, c *character.Character) (*AcceptResult, error) {
	m, err := e.Get(id)
	if err != nil {
		return nil, err
	}
	switch m.Status {
	case StatusAccepted:
		return nil, ErrMissionAlreadyAccepted
	case StatusCompleted:
		return nil, ErrMissionAlreadyCompleted
	case StatusAvailable:
	default:
		return nil, ErrMissionNotEligible
	}
	if !m.Offered() || !m.CanSpawn(w, c) {
		return nil, ErrMissionNotEligible
	}

	m.Status = StatusAccepted
	applied := m.OnAccept.apply(w, c)
	applied = append(applied, e.applyOverlays(m.OnAccept)...)

	entry := m.NextSceneID
	if entry == "" {
		entry = e.defaultSceneID
	}

	e.record(types.EventSystem, m.ID, "mission accepted: "+m.Title, strings.Join(applied, "; "))
	e.Logger.Info("Mission accepted",
		zap.String("mission_id", m.ID),
		zap.String("entry_scene", entry),
		zap.Int("consequences", len(applied)))

	return &AcceptResult{Mission: m, EntrySceneID: entry, Applied: applied}, nil
}

// Complete pays out an accepted mission, applies its completion
// consequences and unlocks, and runs progression. A mission completes at
// most once; later calls return ErrMissionAlreadyCompleted.
func (e *Engine) Complete(id string, w *world.State, c *character.Character) (*CompleteResult, error) {
	m, err := e.Get(id)
	if err != nil {
		return nil, err
	}
	switch m.Status {
	case StatusAccepted:
	case StatusCompleted:
		return nil, ErrMissionAlreadyCompleted
	default:
		return nil, ErrMissionNotAccepted
	}

	m.Status = StatusCompleted
	m.Overlay = ""
	c.AddCredits(m.RewardCredits)
	applied := m.OnComplete.apply(w, c)
	applied = append(applied, e.applyOverlays(m.OnComplete)...)

	var locations []string
	for _, loc := range m.Unlocks {
		if w.UnlockLocation(loc) {
			locations = append(locations, loc)
		}
	}

	unlocked := e.progress()

	e.record(types.EventAchievement, m.ID, "mission completed: "+m.Title,
		fmt.Sprintf("credits +%d", m.RewardCredits))
	for _, next := range unlocked {
		e.record(types.EventSystem, next, "mission unlocked: "+e.index[next].Title, "")
	}
	e.Logger.Info("Mission completed",
		zap.String("mission_id", m.ID),
		zap.Int("credits", m.RewardCredits),
		zap.Strings("unlocked_locations", locations),
		zap.Strings("unlocked_missions", unlocked))

	return &CompleteResult{
		Mission:           m,
		CreditsAwarded:    m.RewardCredits,
		Applied:           applied,
		UnlockedLocations: locations,
		UnlockedMissions:  unlocked,
	}, nil
}

// progress flips locked missions to available according to the policy.
func (e *Engine) progress() []string {
	var unlocked []string
	switch e.policy {
	case UnlockRequirements:
		for _, m := range e.missions {
			if m.Status == StatusLocked && e.requirementsMet(m) {
				m.Status = StatusAvailable
				unlocked = append(unlocked, m.ID)
			}
		}
	default:
		for _, m := range e.missions {
			if m.Status == StatusLocked {
				m.Status = StatusAvailable
				unlocked = append(unlocked, m.ID)
				break
			}
		}
	}
	return unlocked
}

func (e *Engine) requirementsMet(m *Mission) bool {
	for _, req := range m.Requirements {
		dep, ok := e.index[req]
		if !ok || dep.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// Hide overlays Hidden on a mission that has not completed. The lifecycle
// status is kept.
func (e *Engine) Hide(id string) error {
	return e.overlay(id, StatusHidden)
}

// Expire overlays Expired on a mission that has not completed.
func (e *Engine) Expire(id string) error {
	return e.overlay(id, StatusExpired)
}

// Reveal lifts any overlay from a mission.
func (e *Engine) Reveal(id string) error {
	m, err := e.Get(id)
	if err != nil {
		return err
	}
	m.Overlay = ""
	return nil
}

func (e *Engine) overlay(id string, status Status) error {
	m, err := e.Get(id)
	if err != nil {
		return err
	}
	if m.Status == StatusCompleted {
		return ErrMissionAlreadyCompleted
	}
	m.Overlay = status
	return nil
}

// applyOverlays applies the mission overlay part of a consequence set.
// Unknown and completed missions are skipped.
func (e *Engine) applyOverlays(c Consequences) []string {
	var applied []string
	for _, id := range c.RevealMissions {
		if m, ok := e.index[id]; ok && !m.Offered() {
			m.Overlay = ""
			applied = append(applied, "mission revealed: "+id)
		}
	}
	for _, id := range c.HideMissions {
		if e.overlay(id, StatusHidden) == nil {
			applied = append(applied, "mission hidden: "+id)
		}
	}
	for _, id := range c.ExpireMissions {
		if e.overlay(id, StatusExpired) == nil {
			applied = append(applied, "mission expired: "+id)
		}
	}
	return applied
}

// ApplyLayout repositions missions from a location layout. Missions without
// a location, or whose location is absent from the layout, keep their position.
func (e *Engine) ApplyLayout(layout map[string]Point) {
	for _, m := range e.missions {
		if p, ok := layout[m.LocationID]; ok && m.LocationID != "" {
			m.Position = p
		}
	}
}

// Statuses returns the status of every mission.
func (e *Engine) Statuses() map[string]Status {
	out := make(map[string]Status, len(e.missions))
	for _, m := range e.missions {
		out[m.ID] = m.Status
	}
	return out
}

// RestoreStatuses overwrites statuses from a snapshot. Unknown ids are ignored.
func (e *Engine) RestoreStatuses(statuses map[string]Status) {
	for id, status := range statuses {
		if m, ok := e.index[id]; ok {
			m.Status = status
		}
	}
}

// Overlays returns the overlay of every overlaid mission.
func (e *Engine) Overlays() map[string]Status {
	out := make(map[string]Status)
	for _, m := range e.missions {
		if !m.Offered() {
			out[m.ID] = m.Overlay
		}
	}
	return out
}

// RestoreOverlays replaces every overlay with the given set. Unknown ids
// are ignored.
func (e *Engine) RestoreOverlays(overlays map[string]Status) {
	for _, m := range e.missions {
		m.Overlay = overlays[m.ID]
	}
}

func (e *Engine) record(kind types.EventType, missionID, description, detail string) {
	if e.recorder == nil {
		return
	}
	e.recorder.Record(kind, missionID, description, detail)
}
