package game

import (
	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/memory"
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/scene"
	"github.com/user/district-runner/internal/types"
)

func characterView(c *character.Character) types.CharacterView {
	v := types.CharacterView{
		Name:         c.Name,
		Role:         string(c.Role),
		Difficulty:   string(c.Difficulty),
		Attributes:   make(map[string]int, len(types.Attributes)),
		Capabilities: make(map[string]int, len(types.Capabilities)),
		Health:       c.Health(),
		MaxHealth:    c.MaxHealth(),
		Battery:      c.Battery(),
		MaxBattery:   c.MaxBattery(),
		Level:        c.Level(),
		Credits:      c.Credits(),
		Karma:        c.Karma(),
		Notoriety:    c.Notoriety(),
		Reputation:   c.Reputation(),
		Items:        []string{},
		Modifiers:    []types.ModifierView{},
	}
	for _, stat := range types.Attributes {
		v.Attributes[string(stat)] = c.EffectiveAttribute(stat)
	}
	for _, stat := range types.Capabilities {
		v.Capabilities[string(stat)] = c.EffectiveCapability(stat)
	}
	for _, item := range c.Items() {
		v.Items = append(v.Items, item.ID)
	}
	for _, m := range c.Modifiers() {
		v.Modifiers = append(v.Modifiers, types.ModifierView{
			ID:          int(m.ID),
			Target:      string(m.Target),
			Value:       m.Value,
			Remaining:   m.Remaining,
			Permanent:   m.Permanent,
			Description: m.Description,
			Source:      m.Source,
		})
	}
	return v
}

func runView(s *Session) *types.RunView {
	v := &types.RunView{
		ID:         s.id,
		CreatedAt:  s.createdAt,
		Character:  characterView(s.character),
		Flags:      s.world.Flags(),
		Reputation: s.world.Reputation(),
		District:   s.world.District(),
		Items:      s.world.Items(),
		Locations:  s.world.Locations(),
		Factions:   []types.FactionView{},
		Finished:   len(s.histories),
	}
	for _, id := range s.factions.IDs() {
		standing := s.factions.Standing(id)
		v.Factions = append(v.Factions, types.FactionView{
			ID:          id,
			Reputation:  s.factions.Reputation(id),
			Standing:    standing.String(),
			DialogueKey: standing.DialogueKey(),
		})
	}
	if s.active != nil {
		v.ActiveMissionID = s.scenes.MissionID()
		v.ActiveSceneID = s.scenes.Current().ID
	}
	return v
}

func missionView(m *mission.Mission, eligible bool) types.MissionView {
	return types.MissionView{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Type:          string(m.Type),
		Status:        string(m.Status),
		Overlay:       string(m.Overlay),
		Priority:      m.Priority,
		Urgency:       m.Urgency,
		Difficulty:    m.Difficulty,
		RewardCredits: m.RewardCredits,
		RewardInfo:    m.RewardInfo,
		LocationID:    m.LocationID,
		X:             m.Position.X,
		Y:             m.Position.Y,
		Eligible:      eligible,
	}
}

func checkViews(results []scene.CheckResult) []types.CheckView {
	var out []types.CheckView
	for _, r := range results {
		out = append(out, types.CheckView{
			Stat:        string(r.Check.Stat),
			Threshold:   r.Check.Threshold,
			Value:       r.Value,
			Passed:      r.Passed,
			Description: r.Check.Description,
		})
	}
	return out
}

func sceneView(missionID string, sc *scene.Scene, options []scene.OptionView) *types.SceneView {
	v := &types.SceneView{
		MissionID: missionID,
		ID:        sc.ID,
		Title:     sc.Title,
		Body:      sc.Body,
		Location:  sc.Location,
		Music:     sc.Music,
		Closing:   sc.Closing,
		Options:   []types.OptionView{},
	}
	for _, o := range options {
		v.Options = append(v.Options, types.OptionView{
			Index:  o.Index,
			Text:   o.Option.Text,
			Passes: o.Passes,
			Checks: checkViews(o.Checks),
		})
	}
	return v
}

func historyView(h *memory.History) *types.HistoryView {
	v := &types.HistoryView{
		ID:           h.ID,
		MissionID:    h.MissionID,
		StartedAt:    h.StartedAt,
		EndedAt:      h.EndedAt,
		DurationMS:   h.Duration().Milliseconds(),
		Decisions:    h.Decisions,
		ChecksPassed: h.ChecksPassed,
		ChecksFailed: h.ChecksFailed,
		Secrets:      h.SecretList(),
		Items:        h.ItemList(),
		Flags:        make(map[string]bool, len(h.Flags)),
		Outcome:      string(h.Outcome),
	}
	for name, rec := range h.Flags {
		v.Flags[name] = rec.Value
	}
	return v
}

func stepView(res *StepResult) *types.StepView {
	v := &types.StepView{
		FromSceneID:    res.FromSceneID,
		SceneID:        res.SceneID,
		Passed:         res.Passed,
		Moved:          res.Moved,
		BlockedSceneID: res.Blocked,
		Checks:         checkViews(res.Checks),
		Logs:           res.Logs,
	}
	for _, a := range res.Applied {
		v.Applied = append(v.Applied, a.Description)
	}
	for _, m := range res.Expired {
		v.Expired = append(v.Expired, m.Description)
	}
	if res.Completion != nil {
		v.Completed = true
		v.CreditsAwarded = res.Completion.CreditsAwarded
		v.UnlockedMissions = res.Completion.UnlockedMissions
		v.UnlockedLocations = res.Completion.UnlockedLocations
		v.ClosingDelayMS = res.ClosingDelay.Milliseconds()
	}
	if res.History != nil {
		v.History = historyView(res.History)
		v.Outcome = string(res.History.Outcome)
	}
	return v
}

func eventView(e memory.Event) types.EventView {
	return types.EventView{
		ID:          e.ID,
		Type:        string(e.Type),
		Description: e.Description,
		Detail:      e.Detail,
		MissionID:   e.MissionID,
		Timestamp:   e.Timestamp,
	}
}
