package types

import (
	"fmt"
	"strings"
)

// EventType classifies a run memory entry.
type EventType string

const (
	EventDecision    EventType = "decision"
	EventConsequence EventType = "consequence"
	EventAchievement EventType = "achievement"
	EventSystem      EventType = "system"
)

// MissionOutcome is the terminal result recorded for a mission history.
type MissionOutcome string

const (
	OutcomeSuccess MissionOutcome = "success"
	OutcomePartial MissionOutcome = "partial"
	OutcomeFailure MissionOutcome = "failure"
	OutcomeAborted MissionOutcome = "aborted"
)

// ParseOutcome converts a string into a MissionOutcome. An empty string is
// accepted and returns the zero outcome.
func ParseOutcome(raw string) (MissionOutcome, error) {
	o := MissionOutcome(strings.ToLower(strings.TrimSpace(raw)))
	switch o {
	case "", OutcomeSuccess, OutcomePartial, OutcomeFailure, OutcomeAborted:
		return o, nil
	}
	return "", fmt.Errorf("%w: outcome %q", ErrUnknownEnum, raw)
}
