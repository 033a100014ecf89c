package interfaces

import (
	"context"

	"github.com/user/district-runner/internal/types"
)

// GameManager defines the interface for run operations
type GameManager interface {
	NewRun(name, role, difficulty string) (*types.RunView, error)
	GetRun(runID string) (*types.RunView, error)
	ListMissions(runID string) ([]types.MissionView, error)
	AcceptMission(runID, missionID string) (*types.SceneView, error)
	CurrentScene(runID string) (*types.SceneView, error)
	SelectOption(runID string, index int) (*types.StepView, error)
	AdvanceScene(runID string) (*types.StepView, error)
	AbandonMission(runID string) error
	BuyItem(runID, itemID string) (*types.PurchaseView, error)
	GetMemory(runID string) ([]types.EventView, error)
	GetHistories(runID string) ([]types.HistoryView, error)
	SaveRun(ctx context.Context, runID string) error
	LoadRun(ctx context.Context, runID string) (*types.RunView, error)
}
