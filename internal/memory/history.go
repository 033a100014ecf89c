package memory

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/user/district-runner/internal/types"
)

// ErrHistoryFinished is returned when Finish is called on a finished history.
var ErrHistoryFinished = errors.New("mission history already finished")

// FlagRecord notes when a mission set a flag.
type FlagRecord struct {
	Value   bool      `json:"value"`
	SceneID string    `json:"scene_id,omitempty"`
	At      time.Time `json:"at"`
}

// History aggregates what happened during one accepted mission.
type History struct {
	ID           string                `json:"id"`
	MissionID    string                `json:"mission_id"`
	StartedAt    time.Time             `json:"started_at"`
	EndedAt      time.Time             `json:"ended_at,omitempty"`
	Decisions    int                   `json:"decisions"`
	ChecksPassed int                   `json:"checks_passed"`
	ChecksFailed int                   `json:"checks_failed"`
	Secrets      map[string]bool       `json:"secrets"`
	Items        map[string]bool       `json:"items"`
	Flags        map[string]FlagRecord `json:"flags"`
	Outcome      types.MissionOutcome  `json:"outcome,omitempty"`

	clock func() time.Time
}

// NewHistory starts a history for a mission.
func NewHistory(missionID string, clock func() time.Time) *History {
	if clock == nil {
		clock = time.Now
	}
	return &History{
		ID:        uuid.New().String(),
		MissionID: missionID,
		StartedAt: clock(),
		Secrets:   make(map[string]bool),
		Items:     make(map[string]bool),
		Flags:     make(map[string]FlagRecord),
		clock:     clock,
	}
}

func (h *History) now() time.Time {
	if h.clock == nil {
		return time.Now()
	}
	return h.clock()
}

// RecordDecision counts one player decision and its check results.
func (h *History) RecordDecision(passed, failed int) {
	h.Decisions++
	h.ChecksPassed += passed
	h.ChecksFailed += failed
}

// DiscoverSecret records a secret route tag.
func (h *History) DiscoverSecret(tag string) {
	h.Secrets[tag] = true
}

// CollectItem records an item picked up during the mission.
func (h *History) CollectItem(id string) {
	h.Items[id] = true
}

// RecordFlag records a flag activation.
func (h *History) RecordFlag(name string, value bool, sceneID string) {
	h.Flags[name] = FlagRecord{Value: value, SceneID: sceneID, At: h.now()}
}

// Finished reports whether Finish has been called.
func (h *History) Finished() bool {
	return h.Outcome != ""
}

// Finish sets the terminal outcome. It can succeed only once.
func (h *History) Finish(outcome types.MissionOutcome) error {
	if h.Finished() {
		return ErrHistoryFinished
	}
	h.Outcome = outcome
	h.EndedAt = h.now()
	return nil
}

// Duration returns how long the mission ran, or how long it has run so far.
func (h *History) Duration() time.Duration {
	if h.Finished() {
		return h.EndedAt.Sub(h.StartedAt)
	}
	return h.now().Sub(h.StartedAt)
}

// SecretList returns discovered secrets in sorted order.
func (h *History) SecretList() []string {
	return sortedTrue(h.Secrets)
}

// ItemList returns collected items in sorted order.
func (h *History) ItemList() []string {
	return sortedTrue(h.Items)
}

// Clone returns a deep copy.
func (h *History) Clone() *History {
	c := *h
	c.Secrets = make(map[string]bool, len(h.Secrets))
	for k, v := range h.Secrets {
		c.Secrets[k] = v
	}
	c.Items = make(map[string]bool, len(h.Items))
	for k, v := range h.Items {
		c.Items[k] = v
	}
	c.Flags = make(map[string]FlagRecord, len(h.Flags))
	for k, v := range h.Flags {
		c.Flags[k] = v
	}
	return &c
}

// SetClock replaces the time source, used after restoring from a snapshot.
func (h *History) SetClock(clock func() time.Time) {
	h.clock = clock
}

func sortedTrue(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k, v := range set {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
