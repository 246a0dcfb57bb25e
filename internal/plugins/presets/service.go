package presets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keyxmakerx/almanac/internal/apperror"
	"github.com/keyxmakerx/almanac/internal/plugins/calendars"
)

// PresetService exposes the shipped calendar templates.
type PresetService interface {
	ListPresets() []Preset
	GetPreset(slug string) (*Preset, error)

	// Instantiate stores a new calendar from a preset's configuration.
	Instantiate(ctx context.Context, slug string) (*calendars.Calendar, error)
}

// presetService holds the presets loaded at startup. The set is immutable
// after Load, so no locking is needed.
type presetService struct {
	presets map[string]Preset
	order   []string
	calSvc  calendars.CalendarService
}

// NewPresetService loads every *.yaml file in dir and returns a service
// over them. A missing directory is not an error; the preset list is just
// empty.
func NewPresetService(dir string, calSvc calendars.CalendarService) (PresetService, error) {
	svc := &presetService{
		presets: make(map[string]Preset),
		calSvc:  calSvc,
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		slog.Warn("presets directory not found", slog.String("dir", dir))
		return svc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading presets dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading preset %s: %w", name, err)
		}

		var preset Preset
		if err := yaml.Unmarshal(raw, &preset); err != nil {
			return nil, fmt.Errorf("parsing preset %s: %w", name, err)
		}
		preset.Slug = strings.TrimSuffix(name, ext)
		if preset.Name == "" {
			preset.Name = preset.Config.Name
		}

		svc.presets[preset.Slug] = preset
		svc.order = append(svc.order, preset.Slug)
	}
	sort.Strings(svc.order)

	slog.Info("presets loaded", slog.Int("count", len(svc.order)))
	return svc, nil
}

// ListPresets returns all presets in slug order.
func (s *presetService) ListPresets() []Preset {
	out := make([]Preset, 0, len(s.order))
	for _, slug := range s.order {
		out = append(out, s.presets[slug])
	}
	return out
}

// GetPreset returns a preset by slug.
func (s *presetService) GetPreset(slug string) (*Preset, error) {
	preset, ok := s.presets[slug]
	if !ok {
		return nil, apperror.NewNotFound("preset not found")
	}
	return &preset, nil
}

// Instantiate stores a new calendar from a preset's configuration.
func (s *presetService) Instantiate(ctx context.Context, slug string) (*calendars.Calendar, error) {
	preset, err := s.GetPreset(slug)
	if err != nil {
		return nil, err
	}
	desc := preset.Description
	input := calendars.CreateCalendarInput{
		Name:   preset.Name,
		Config: preset.Config,
	}
	if desc != "" {
		input.Description = &desc
	}
	return s.calSvc.CreateCalendar(ctx, input)
}
