package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AutoSaver periodically persists runs that changed since their last save
type AutoSaver struct {
	gameManager *GameManager
	ticker      *time.Ticker
	stopChan    chan struct{}
	doneChan    chan struct{}
}

// NewAutoSaver creates a new autosave loop
func NewAutoSaver(gameManager *GameManager, interval time.Duration) *AutoSaver {
	return &AutoSaver{
		gameManager: gameManager,
		ticker:      time.NewTicker(interval),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start begins the autosave loop
func (as *AutoSaver) Start() {
	go func() {
		defer close(as.doneChan)
		for {
			select {
			case <-as.ticker.C:
				as.saveDirtyRuns()
			case <-as.stopChan:
				as.ticker.Stop()
				// Flush whatever changed since the last tick
				as.saveDirtyRuns()
				return
			}
		}
	}()
}

// Stop halts the loop after a final save
func (as *AutoSaver) Stop() {
	close(as.stopChan)
	<-as.doneChan
}

func (as *AutoSaver) saveDirtyRuns() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	saved, err := as.gameManager.SaveDirty(ctx)
	if err != nil {
		as.gameManager.Logger.Error("Autosave failed", zap.Error(err))
	}
	if saved > 0 {
		as.gameManager.Logger.Info("Autosaved runs", zap.Int("count", saved))
	}
}
