package content

import (
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/scene"
)

const (
	FallbackMissionID = "fallback_contract"
	fallbackBriefID   = "fallback_brief"
	fallbackDebriefID = "fallback_debrief"
)

func fallbackMission() *mission.Mission {
	return &mission.Mission{
		ID:            FallbackMissionID,
		Title:         "Odd Job",
		Description:   "A fixer needs a package moved across the district. No questions.",
		Type:          mission.TypeSide,
		Priority:      1,
		Status:        mission.StatusAvailable,
		Difficulty:    1,
		RewardCredits: 50,
		NextSceneID:   fallbackBriefID,
	}
}

func fallbackScenes() []*scene.Scene {
	return []*scene.Scene{
		{
			ID:    fallbackBriefID,
			Title: "The Drop",
			Body:  "A sealed case waits in a locker at the transit hub.",
			Options: []scene.Option{
				{Text: "Deliver the case", NextSceneID: fallbackDebriefID},
			},
		},
		{
			ID:      fallbackDebriefID,
			Title:   "Delivered",
			Body:    "The fixer counts the credits twice and nods.",
			Closing: true,
		},
	}
}
