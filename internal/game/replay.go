package game

import (
	"errors"
	"fmt"

	"github.com/user/district-runner/internal/content"
	"github.com/user/district-runner/internal/scene"
	"github.com/user/district-runner/internal/types"
)

var ErrAutoPilotStuck = errors.New("auto-pilot found no way forward")

// StepKind names a scripted command.
type StepKind string

const (
	StepAccept  StepKind = "accept"
	StepSelect  StepKind = "select"
	StepAdvance StepKind = "advance"
	StepAbandon StepKind = "abandon"
	StepBuy     StepKind = "buy"
)

// Step is one scripted player command.
type Step struct {
	Kind      StepKind `json:"kind"`
	MissionID string   `json:"mission_id,omitempty"`
	Option    int      `json:"option,omitempty"`
	ItemID    string   `json:"item_id,omitempty"`
}

// Replay applies steps in order and stops at the first failure.
func (s *Session) Replay(steps []Step) error {
	for i, step := range steps {
		if err := s.apply(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
		}
	}
	return nil
}

func (s *Session) apply(step Step) error {
	var err error
	switch step.Kind {
	case StepAccept:
		_, err = s.AcceptMission(step.MissionID)
	case StepSelect:
		_, err = s.SelectOption(step.Option)
	case StepAdvance:
		_, err = s.AdvanceScene()
	case StepAbandon:
		err = s.Abandon()
	case StepBuy:
		_, err = s.BuyItem(step.ItemID)
	default:
		err = fmt.Errorf("%w: step %q", types.ErrUnknownEnum, step.Kind)
	}
	return err
}

// ReplayFrom restores snap into a fresh session and replays steps on it.
func ReplayFrom(snap Snapshot, bundle *content.Bundle, settings Settings, steps []Step, opts ...SessionOption) (*Session, error) {
	s, err := RestoreSession(snap, bundle, settings, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Replay(steps); err != nil {
		return s, err
	}
	return s, nil
}

// AutoPilot picks options for unattended play.
type AutoPilot struct{}

// ChooseOption prefers options whose checks pass, the most demanding first,
// then failing options that at least lead somewhere. Options that would
// leave the walk where it is are never chosen.
func (AutoPilot) ChooseOption(views []scene.OptionView) (scene.OptionView, bool) {
	best, bestScore := scene.OptionView{}, -1
	for _, v := range views {
		score := -1
		switch {
		case v.Passes && v.Option.NextSceneID != "":
			score = 100 + len(v.Option.Checks)
		case !v.Passes && v.Option.FailSceneID != "":
			score = 10
		}
		if score > bestScore {
			best, bestScore = v, score
		}
	}
	return best, bestScore >= 0
}

// AutoPlay accepts a mission and lets the auto-pilot walk it to a closing
// scene. It returns the steps taken, which Replay can reproduce.
func (s *Session) AutoPlay(missionID string, maxSteps int) ([]Step, *StepResult, error) {
	steps := []Step{{Kind: StepAccept, MissionID: missionID}}
	accepted, err := s.AcceptMission(missionID)
	if err != nil {
		return nil, nil, err
	}
	if accepted.Step != nil {
		return steps, accepted.Step, nil
	}

	var pilot AutoPilot
	for i := 0; i < maxSteps; i++ {
		_, views, err := s.CurrentScene()
		if err != nil {
			return steps, nil, err
		}
		choice, ok := pilot.ChooseOption(views)
		if !ok {
			return steps, nil, ErrAutoPilotStuck
		}
		steps = append(steps, Step{Kind: StepSelect, Option: choice.Index})
		res, err := s.SelectOption(choice.Index)
		if err != nil {
			return steps, nil, err
		}
		if res.Completion != nil {
			return steps, res, nil
		}
	}
	return steps, nil, ErrAutoPilotStuck
}
