package scene

import (
	"errors"
	"fmt"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/memory"
	"github.com/user/district-runner/internal/types"
	"go.uber.org/zap"
)

var (
	ErrSceneNotFound      = errors.New("scene not found")
	ErrSceneLocked        = errors.New("scene requirements not met")
	ErrOptionNotFound     = errors.New("option not found")
	ErrOptionHidden       = errors.New("option not available")
	ErrNoActiveScene      = errors.New("no active scene")
	ErrAdvanceNeedsChoice = errors.New("scene requires a choice")
)

// Recorder receives decision and consequence events.
type Recorder interface {
	Record(kind types.EventType, missionID, description, detail string)
}

// CheckResult is one evaluated check.
type CheckResult struct {
	Check  Check `json:"check"`
	Value  int   `json:"value"`
	Passed bool  `json:"passed"`
}

// OptionView is a visible option with its current pass state.
type OptionView struct {
	Index  int
	Option Option
	Passes bool
	Checks []CheckResult
}

// Result describes what one selection did.
type Result struct {
	FromSceneID string
	SceneID     string
	OptionIndex int
	Passed      bool
	Moved       bool
	Checks      []CheckResult
	Applied     []Applied
	Logs        []string
	Expired     []character.Modifier
	Closing     bool
	Outcome     types.MissionOutcome
	// Blocked is the destination whose requirements were not met.
	Blocked     string
}

// Engine walks the scene graph for the active mission.
type Engine struct {
	lookup    Lookup
	target    Target
	recorder  Recorder
	history   *memory.History
	missionID string
	current   *Scene
	Logger    *zap.Logger
}

// NewEngine creates an idle engine.
func NewEngine(lookup Lookup, target Target, recorder Recorder) *Engine {
	return &Engine{
		lookup:   lookup,
		target:   target,
		recorder: recorder,
		Logger:   zap.NewNop(),
	}
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(logger *zap.Logger) {
	e.Logger = logger
}

// Start enters the first scene of a mission and applies its entry flags.
// Modifiers do not tick on the initial entry.
func (e *Engine) Start(missionID, sceneID string, history *memory.History) (*Scene, error) {
	s, err := e.resolve(sceneID)
	if err != nil {
		return nil, err
	}
	e.missionID = missionID
	e.history = history
	e.enter(s)

	e.Logger.Info("Scene graph started",
		zap.String("mission_id", missionID),
		zap.String("scene_id", s.ID))
	return s, nil
}

// Resume restores the engine onto a scene without re-applying entry flags.
func (e *Engine) Resume(missionID, sceneID string, history *memory.History) error {
	s, ok := e.lookup.Scene(sceneID)
	if !ok {
		return ErrSceneNotFound
	}
	e.missionID = missionID
	e.history = history
	e.current = s
	return nil
}

// Stop leaves the scene graph without finishing anything.
func (e *Engine) Stop() {
	e.current = nil
	e.history = nil
	e.missionID = ""
}

// Current returns the active scene, or nil.
func (e *Engine) Current() *Scene {
	return e.current
}

// MissionID returns the mission that owns the walk.
func (e *Engine) MissionID() string {
	return e.missionID
}

// Options returns the visible options of the active scene with their
// current pass state. Hidden options are omitted; indexes refer to the
// scene's full option list.
func (e *Engine) Options() ([]OptionView, error) {
	if e.current == nil {
		return nil, ErrNoActiveScene
	}
	var out []OptionView
	for i, o := range e.current.Options {
		if !o.Visible(e.target.World) {
			continue
		}
		checks, passed := e.evaluate(o)
		out = append(out, OptionView{Index: i, Option: o, Passes: passed, Checks: checks})
	}
	return out, nil
}

// Select resolves one option. Checks are evaluated against current stats;
// if all pass, the option's consequences apply in declaration order and the
// walk moves to NextSceneID. If any fails, nothing applies and the walk
// moves to FailSceneID, or stays put when there is none. A destination that
// does not exist is rejected before anything mutates. Scene requirements are
// read after the consequences applied; when they are not met the walk stays
// put and Result.Blocked names the scene.
func (e *Engine) Select(index int) (*Result, error) {
	if e.current == nil {
		return nil, ErrNoActiveScene
	}
	if index < 0 || index >= len(e.current.Options) {
		return nil, ErrOptionNotFound
	}
	opt := e.current.Options[index]
	if !opt.Visible(e.target.World) {
		return nil, ErrOptionHidden
	}

	checks, passed := e.evaluate(opt)

	destID := opt.FailSceneID
	if passed {
		destID = opt.NextSceneID
	}
	var dest *Scene
	if destID != "" {
		var ok bool
		if dest, ok = e.lookup.Scene(destID); !ok {
			return nil, fmt.Errorf("option %d of scene %s: %w: %s", index, e.current.ID, ErrSceneNotFound, destID)
		}
	}

	res := &Result{
		FromSceneID: e.current.ID,
		SceneID:     e.current.ID,
		OptionIndex: index,
		Passed:      passed,
		Checks:      checks,
	}

	e.recordDecision(opt, index, checks, passed)

	if passed {
		for _, c := range opt.Consequences {
			applied := c.apply(e.target)
			res.Applied = append(res.Applied, applied)
			if applied.Log != "" {
				res.Logs = append(res.Logs, applied.Log)
			}
			e.observe(c)
			e.record(types.EventConsequence, applied.Description, applied.Log)
		}
		if opt.SecretRoute != "" && e.history != nil {
			e.history.DiscoverSecret(opt.SecretRoute)
		}
	} else {
		e.Logger.Debug("Option checks failed",
			zap.String("scene_id", e.current.ID),
			zap.Int("option", index),
			zap.String("fail_scene", opt.FailSceneID))
	}

	switch {
	case dest == nil:
	case !dest.Enterable(e.target.World):
		res.Blocked = dest.ID
		e.Logger.Info("Scene requirements not met",
			zap.String("mission_id", e.missionID),
			zap.String("scene_id", e.current.ID),
			zap.String("blocked", dest.ID))
	default:
		e.transition(dest, res)
	}
	return res, nil
}

// Advance follows the single visible option of a linear scene. Scenes that
// offer a real choice return ErrAdvanceNeedsChoice.
func (e *Engine) Advance() (*Result, error) {
	views, err := e.Options()
	if err != nil {
		return nil, err
	}
	if len(views) != 1 || len(views[0].Option.Checks) > 0 {
		return nil, ErrAdvanceNeedsChoice
	}
	return e.Select(views[0].Index)
}

func (e *Engine) transition(dest *Scene, res *Result) {
	res.Expired = e.target.Character.TickModifiers()
	e.enter(dest)
	res.SceneID = dest.ID
	res.Moved = true
	res.Closing = dest.Closing
	res.Outcome = dest.Outcome

	e.Logger.Info("Scene transition",
		zap.String("mission_id", e.missionID),
		zap.String("from", res.FromSceneID),
		zap.String("to", dest.ID),
		zap.Bool("passed", res.Passed),
		zap.Bool("closing", dest.Closing))
}

// enter makes s current and applies its entry flags before any option renders.
func (e *Engine) enter(s *Scene) {
	e.current = s
	for name, value := range s.EntryFlags {
		e.target.World.SetFlag(name, value)
		if e.history != nil {
			e.history.RecordFlag(name, value, s.ID)
		}
	}
}

func (e *Engine) resolve(id string) (*Scene, error) {
	s, ok := e.lookup.Scene(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	if !s.Enterable(e.target.World) {
		return nil, fmt.Errorf("%w: %s", ErrSceneLocked, id)
	}
	return s, nil
}

func (e *Engine) evaluate(o Option) ([]CheckResult, bool) {
	passed := true
	results := make([]CheckResult, 0, len(o.Checks))
	for _, ch := range o.Checks {
		ok := ch.Evaluate(e.target.Character)
		results = append(results, CheckResult{
			Check:  ch,
			Value:  e.target.Character.Effective(ch.Stat),
			Passed: ok,
		})
		if !ok {
			passed = false
		}
	}
	return results, passed
}

func (e *Engine) recordDecision(o Option, index int, checks []CheckResult, passed bool) {
	pass, fail := 0, 0
	for _, c := range checks {
		if c.Passed {
			pass++
		} else {
			fail++
		}
	}
	if e.history != nil {
		e.history.RecordDecision(pass, fail)
	}
	e.record(types.EventDecision, o.Text,
		fmt.Sprintf("scene=%s option=%d passed=%t", e.current.ID, index, passed))
}

// observe feeds history counters for consequences that touch collected state.
func (e *Engine) observe(c Consequence) {
	if e.history == nil {
		return
	}
	switch v := c.(type) {
	case SetFlag:
		e.history.RecordFlag(v.Name, v.Value, e.current.ID)
	case AddItem:
		e.history.CollectItem(v.ItemID)
	}
}

func (e *Engine) record(kind types.EventType, description, detail string) {
	if e.recorder == nil {
		return
	}
	e.recorder.Record(kind, e.missionID, description, detail)
}
