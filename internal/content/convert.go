package content

import (
	"fmt"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/scene"
	"github.com/user/district-runner/internal/types"
)

func contentErr(unit, id, field string, err error) error {
	return &types.ContentError{Unit: unit, ID: id, Field: field, Err: err}
}

// ToMission converts a definition, failing on the first bad field.
func ToMission(def MissionDef) (*mission.Mission, error) {
	if def.ID == "" {
		return nil, contentErr("mission", def.ID, "id", types.ErrMissingField)
	}
	if def.Title == "" {
		return nil, contentErr("mission", def.ID, "title", types.ErrMissingField)
	}
	if def.Type == "" {
		return nil, contentErr("mission", def.ID, "type", types.ErrMissingField)
	}
	kind, err := mission.ParseType(def.Type)
	if err != nil {
		return nil, contentErr("mission", def.ID, "type", err)
	}
	status, err := mission.ParseStatus(def.Status)
	if err != nil {
		return nil, contentErr("mission", def.ID, "status", err)
	}
	// Hidden and expired missions start available under an overlay.
	var overlay mission.Status
	if status == mission.StatusHidden || status == mission.StatusExpired {
		overlay, status = status, mission.StatusAvailable
	}

	return &mission.Mission{
		ID:            def.ID,
		Title:         def.Title,
		Description:   def.Description,
		Type:          kind,
		Priority:      def.Priority,
		Urgency:       def.Urgency,
		Status:        status,
		Overlay:       overlay,
		Difficulty:    def.Difficulty,
		RewardCredits: def.RewardCredits,
		RewardInfo:    def.RewardInfo,
		Requirements:  def.Requirements,
		Unlocks:       def.Unlocks,
		NextSceneID:   def.NextSceneID,
		LocationID:    def.LocationID,
		Position:      def.Position,
		Spawn: mission.SpawnConditions{
			MinReputation:  def.Spawn.MinReputation,
			MaxReputation:  def.Spawn.MaxReputation,
			MinNotoriety:   def.Spawn.MinNotoriety,
			MaxNotoriety:   def.Spawn.MaxNotoriety,
			MinKarma:       def.Spawn.MinKarma,
			MaxKarma:       def.Spawn.MaxKarma,
			RequiredFlags:  def.Spawn.RequiredFlags,
			ForbiddenFlags: def.Spawn.ForbiddenFlags,
			DistrictState:  def.Spawn.DistrictState,
		},
		OnAccept:   missionConsequences(def.OnAccept),
		OnComplete: missionConsequences(def.OnComplete),
	}, nil
}

func missionConsequences(def MissionConsequencesDef) mission.Consequences {
	return mission.Consequences{
		SetFlags:        def.SetFlags,
		ClearFlags:      def.ClearFlags,
		ReputationDelta: def.ReputationDelta,
		DistrictState:   def.DistrictState,
		GrantItems:      def.GrantItems,
		HideMissions:    def.HideMissions,
		ExpireMissions:  def.ExpireMissions,
		RevealMissions:  def.RevealMissions,
	}
}

// ToScene converts a definition. Unknown stats, outcomes and consequence
// kinds fail here rather than when the scene is played.
func ToScene(def SceneDef) (*scene.Scene, error) {
	if def.ID == "" {
		return nil, contentErr("scene", def.ID, "id", types.ErrMissingField)
	}
	outcome, err := types.ParseOutcome(def.Outcome)
	if err != nil {
		return nil, contentErr("scene", def.ID, "outcome", err)
	}

	s := &scene.Scene{
		ID:            def.ID,
		Title:         def.Title,
		Body:          def.Body,
		Location:      def.Location,
		Music:         def.Music,
		Closing:       def.Closing,
		Outcome:       outcome,
		EntryFlags:    def.EntryFlags,
		RequiredFlags: def.RequiredFlags,
	}

	for i, od := range def.Options {
		opt := scene.Option{
			Text:          od.Text,
			NextSceneID:   od.NextSceneID,
			FailSceneID:   od.FailSceneID,
			RequiredFlags: od.RequiredFlags,
			SecretRoute:   od.SecretRoute,
		}
		for j, cd := range od.Checks {
			stat, err := types.ParseStat(cd.Stat)
			if err != nil {
				return nil, contentErr("scene", def.ID, fmt.Sprintf("options[%d].checks[%d]", i, j), err)
			}
			opt.Checks = append(opt.Checks, scene.Check{Stat: stat, Threshold: cd.Threshold, Description: cd.Description})
		}
		for j, cd := range od.Consequences {
			c, err := scene.NewConsequence(cd.Type, scene.Params{
				Value:       cd.Value,
				Stat:        cd.Stat,
				Flag:        cd.Flag,
				FlagValue:   cd.FlagValue,
				Item:        cd.Item,
				Text:        cd.Text,
				Faction:     cd.Faction,
				Duration:    cd.Duration,
				Description: cd.Description,
			})
			if err != nil {
				return nil, contentErr("scene", def.ID, fmt.Sprintf("options[%d].consequences[%d]", i, j), err)
			}
			opt.Consequences = append(opt.Consequences, c)
		}
		s.Options = append(s.Options, opt)
	}
	return s, nil
}

// ToItem converts a catalog definition.
func ToItem(def ItemDef) (character.Item, error) {
	if def.ID == "" {
		return character.Item{}, contentErr("item", def.ID, "id", types.ErrMissingField)
	}
	if def.Name == "" {
		return character.Item{}, contentErr("item", def.ID, "name", types.ErrMissingField)
	}
	kind, err := character.ParseItemKind(def.Kind)
	if err != nil {
		return character.Item{}, contentErr("item", def.ID, "kind", err)
	}

	item := character.Item{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Kind:        kind,
		Price:       def.Price,
		Faction:     def.Faction,
	}
	for i, md := range def.Modifiers {
		stat, err := types.ParseStat(md.Stat)
		if err != nil {
			return character.Item{}, contentErr("item", def.ID, fmt.Sprintf("modifiers[%d]", i), err)
		}
		item.Modifiers = append(item.Modifiers, character.ModifierSpec{
			Target:      stat,
			Value:       md.Value,
			Duration:    md.Duration,
			Description: md.Description,
		})
	}
	return item, nil
}
