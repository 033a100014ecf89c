package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var ErrRunNotFound = errors.New("run not found")

// SnapshotStore persists run snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, runID string) (Snapshot, error)
	List(ctx context.Context) ([]string, error)
}

// FileStore keeps one JSON file per run in a directory.
type FileStore struct {
	dir       string
	stateLock sync.RWMutex
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(runID string) (string, error) {
	if runID == "" || strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		return "", fmt.Errorf("invalid run id %q", runID)
	}
	return filepath.Join(fs.dir, runID+".json"), nil
}

// Save writes the snapshot, replacing any previous save of the run.
func (fs *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := fs.path(snap.RunID)
	if err != nil {
		return err
	}

	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	// Marshal state to JSON
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Write to a temp file, then rename over the old save
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads a run's snapshot.
func (fs *FileStore) Load(ctx context.Context, runID string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	path, err := fs.path(runID)
	if err != nil {
		return Snapshot{}, err
	}

	fs.stateLock.RLock()
	defer fs.stateLock.RUnlock()

	// Read file
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, ErrRunNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	// Unmarshal JSON
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snap, nil
}

// List returns the ids of saved runs in sorted order.
func (fs *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.stateLock.RLock()
	defer fs.stateLock.RUnlock()

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
