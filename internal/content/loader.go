// Package content loads mission, scene, item and layout definitions from
// JSON or YAML files and converts them into engine types.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/scene"
	"github.com/user/district-runner/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Format selects the content file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a config string into a Format. Empty means JSON.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return FormatJSON, nil
	case "yml":
		return FormatYAML, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: content format %q", types.ErrUnknownEnum, raw)
}

func (f Format) extensions() []string {
	if f == FormatYAML {
		return []string{".yaml", ".yml"}
	}
	return []string{".json"}
}

func (f Format) decode(data []byte, v any) error {
	if f == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// Bundle is a converted, validated content set shared by every run.
type Bundle struct {
	Missions []*mission.Mission
	Scenes   *scene.Registry
	Items    character.Catalog
	Layout   map[string]mission.Point

	// Problems lists every unit skipped or flagged during load.
	Problems []error
	// Fallback is set when no mission survived and the fallback set was used.
	Fallback bool
}

// Loader reads content definitions from a directory.
type Loader struct {
	basePath string
	format   Format
	Logger   *zap.Logger
}

// NewLoader creates a loader rooted at basePath.
func NewLoader(basePath string, format Format) *Loader {
	return &Loader{
		basePath: basePath,
		format:   format,
		Logger:   zap.NewNop(),
	}
}

// SetLogger replaces the loader logger.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.Logger = logger
}

// readFile decodes <name>.<ext> into v. It reports false when no file exists.
func (l *Loader) readFile(name string, v any) (bool, error) {
	for _, ext := range l.format.extensions() {
		path := filepath.Join(l.basePath, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to read %s file: %w", name, err)
		}
		if err := l.format.decode(data, v); err != nil {
			return false, fmt.Errorf("failed to parse %s data: %w", name, err)
		}
		return true, nil
	}
	return false, nil
}

// LoadMissions reads mission definitions. A missing file yields none.
func (l *Loader) LoadMissions() ([]MissionDef, error) {
	var defs []MissionDef
	if _, err := l.readFile("missions", &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// LoadScenes reads scene definitions. A missing file yields none.
func (l *Loader) LoadScenes() ([]SceneDef, error) {
	var defs []SceneDef
	if _, err := l.readFile("scenes", &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// LoadItems reads the item catalog. A missing file yields none.
func (l *Loader) LoadItems() ([]ItemDef, error) {
	var defs []ItemDef
	if _, err := l.readFile("items", &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// LoadLayout reads the location layout. A missing file yields an empty layout.
func (l *Loader) LoadLayout() (map[string]mission.Point, error) {
	layout := make(map[string]mission.Point)
	if _, err := l.readFile("layout", &layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// Load reads and converts every content file. Unreadable or unparsable
// files are returned as errors; individual bad units are skipped and
// reported in Bundle.Problems. When no mission survives, the fallback set
// is installed so a run can still start.
func (l *Loader) Load() (*Bundle, error) {
	missionDefs, err := l.LoadMissions()
	if err != nil {
		return nil, err
	}
	sceneDefs, err := l.LoadScenes()
	if err != nil {
		return nil, err
	}
	itemDefs, err := l.LoadItems()
	if err != nil {
		return nil, err
	}
	layout, err := l.LoadLayout()
	if err != nil {
		return nil, err
	}

	b, err := Build(missionDefs, sceneDefs, itemDefs, layout)
	if err != nil {
		return nil, err
	}
	for _, p := range b.Problems {
		l.Logger.Warn("Content problem", zap.Error(p))
	}
	if b.Fallback {
		l.Logger.Error("No playable missions, using fallback content",
			zap.String("path", l.basePath))
	}
	l.Logger.Info("Content loaded",
		zap.Int("missions", len(b.Missions)),
		zap.Int("scenes", b.Scenes.Len()),
		zap.Int("items", len(b.Items)),
		zap.Int("problems", len(b.Problems)))
	return b, nil
}

// Build converts already-decoded definitions into a Bundle.
func Build(missionDefs []MissionDef, sceneDefs []SceneDef, itemDefs []ItemDef, layout map[string]mission.Point) (*Bundle, error) {
	b := &Bundle{Items: make(character.Catalog), Layout: layout}
	if b.Layout == nil {
		b.Layout = make(map[string]mission.Point)
	}

	var scenes []*scene.Scene
	seenScenes := make(map[string]bool)
	for _, def := range sceneDefs {
		s, err := ToScene(def)
		if err != nil {
			b.Problems = append(b.Problems, err)
			continue
		}
		if seenScenes[s.ID] {
			b.Problems = append(b.Problems, contentErr("scene", s.ID, "", types.ErrDuplicateID))
			continue
		}
		seenScenes[s.ID] = true
		scenes = append(scenes, s)
	}

	seenMissions := make(map[string]bool)
	for _, def := range missionDefs {
		m, err := ToMission(def)
		if err != nil {
			b.Problems = append(b.Problems, err)
			continue
		}
		if seenMissions[m.ID] {
			b.Problems = append(b.Problems, contentErr("mission", m.ID, "", types.ErrDuplicateID))
			continue
		}
		seenMissions[m.ID] = true
		b.Missions = append(b.Missions, m)
	}

	for _, def := range itemDefs {
		item, err := ToItem(def)
		if err != nil {
			b.Problems = append(b.Problems, err)
			continue
		}
		if _, exists := b.Items[item.ID]; exists {
			b.Problems = append(b.Problems, contentErr("item", item.ID, "", types.ErrDuplicateID))
			continue
		}
		b.Items[item.ID] = item
	}

	registry, scenes, problems, err := validScenes(scenes)
	if err != nil {
		return nil, err
	}
	b.Problems = append(b.Problems, problems...)

	// Missions whose entry scene is missing cannot be played.
	playable := b.Missions[:0]
	for _, m := range b.Missions {
		if m.NextSceneID != "" {
			if _, ok := registry.Scene(m.NextSceneID); !ok {
				b.Problems = append(b.Problems, contentErr("mission", m.ID, "next_scene_id",
					fmt.Errorf("%w: scene %q%s", types.ErrDanglingReference, m.NextSceneID, hint(registry, m.NextSceneID))))
				continue
			}
		}
		playable = append(playable, m)
	}
	b.Missions = playable

	for _, m := range b.Missions {
		for _, ref := range append(m.OnAccept.MissionRefs(), m.OnComplete.MissionRefs()...) {
			if !seenMissions[ref] {
				b.Problems = append(b.Problems, contentErr("mission", m.ID, "consequences",
					fmt.Errorf("%w: mission %q", types.ErrDanglingReference, ref)))
			}
		}
	}

	if len(b.Missions) == 0 {
		b.Fallback = true
		b.Missions = []*mission.Mission{fallbackMission()}
		scenes = append(scenes, fallbackScenes()...)
		if registry, err = scene.NewRegistry(scenes); err != nil {
			return nil, err
		}
	}
	b.Scenes = registry
	return b, nil
}

// validScenes drops every scene with an option leading to a missing scene.
// Dropping a scene can orphan options elsewhere, so it repeats until the
// set is closed.
func validScenes(scenes []*scene.Scene) (*scene.Registry, []*scene.Scene, []error, error) {
	var problems []error
	for {
		registry, err := scene.NewRegistry(scenes)
		if err != nil {
			return nil, nil, nil, err
		}
		errs := registry.Validate()
		if len(errs) == 0 {
			return registry, scenes, problems, nil
		}
		problems = append(problems, errs...)

		broken := make(map[string]bool)
		for _, err := range errs {
			var ce *types.ContentError
			if errors.As(err, &ce) {
				broken[ce.ID] = true
			}
		}
		kept := scenes[:0:0]
		for _, s := range scenes {
			if !broken[s.ID] {
				kept = append(kept, s)
			}
		}
		scenes = kept
	}
}

func hint(r *scene.Registry, id string) string {
	if s := r.Suggest(id); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}
