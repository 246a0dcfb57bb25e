package calendars

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/almanac/internal/almanac"
	"github.com/keyxmakerx/almanac/internal/apperror"
)

// holidayCacheTTL bounds how long a computed holiday year lives in Redis.
// Definitions change rarely; the cache key embeds the definition's update
// timestamp so stale years age out on their own.
const holidayCacheTTL = 24 * time.Hour

// Truncation units accepted by Truncate.
const (
	TruncHour = "hour"
	TruncDay  = "day"
	TruncYear = "year"
)

// generateID creates a random UUID v4 string.
func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// CalendarService defines business logic for the calendars plugin.
type CalendarService interface {
	// Definition CRUD.
	CreateCalendar(ctx context.Context, input CreateCalendarInput) (*Calendar, error)
	GetCalendar(ctx context.Context, id string) (*Calendar, error)
	ListCalendars(ctx context.Context) ([]Calendar, error)
	UpdateCalendar(ctx context.Context, id string, input UpdateCalendarInput) error
	DeleteCalendar(ctx context.Context, id string) error

	// Engine operations.
	ConvertTime(ctx context.Context, calendarID string, t almanac.StoryTime) (*ConvertTimeResult, error)
	ConvertDate(ctx context.Context, calendarID string, in DateInput) (almanac.StoryTime, error)
	HolidaysByDay(ctx context.Context, calendarID string, year int) (map[int]string, error)
	AllHolidays(ctx context.Context, calendarID string, year int) (map[string]int, error)
	Age(ctx context.Context, calendarID string, birthdate, current almanac.StoryTime) (*AgeResult, error)
	Truncate(ctx context.Context, calendarID string, t almanac.StoryTime, unit string) (almanac.StoryTime, error)
}

// engineEntry pairs a built engine with the definition timestamp it was
// built from, so a stale entry can be detected after an update.
type engineEntry struct {
	engine    *almanac.Engine
	updatedAt time.Time
}

// calendarService is the default CalendarService implementation.
type calendarService struct {
	repo  CalendarRepository
	redis *redis.Client // optional; nil disables the shared holiday cache

	mu      sync.Mutex
	engines map[string]engineEntry
}

// NewCalendarService creates a CalendarService backed by the given
// repository. The Redis client is optional: when nil, holiday-year lookups
// are served from the per-engine in-process cache only.
func NewCalendarService(repo CalendarRepository, rdb *redis.Client) CalendarService {
	return &calendarService{
		repo:    repo,
		redis:   rdb,
		engines: make(map[string]engineEntry),
	}
}

// CreateCalendar stores a new calendar definition.
func (s *calendarService) CreateCalendar(ctx context.Context, input CreateCalendarInput) (*Calendar, error) {
	if input.Name == "" {
		input.Name = input.Config.Name
	}
	if input.Name == "" {
		return nil, apperror.NewValidation("calendar name is required")
	}
	if input.Config.MinutesPerHour <= 0 || input.Config.HoursPerDay <= 0 || input.Config.DaysPerYear <= 0 {
		return nil, apperror.NewValidation("minutes_per_hour, hours_per_day, and days_per_year must be positive")
	}

	cal := &Calendar{
		ID:          generateID(),
		Name:        input.Name,
		Description: input.Description,
		Config:      input.Config,
	}
	if err := s.repo.Create(ctx, cal); err != nil {
		return nil, fmt.Errorf("create calendar: %w", err)
	}
	return cal, nil
}

// GetCalendar returns a calendar definition by ID.
func (s *calendarService) GetCalendar(ctx context.Context, id string) (*Calendar, error) {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return nil, apperror.NewNotFound("calendar not found")
	}
	return cal, nil
}

// ListCalendars returns all stored calendar definitions.
func (s *calendarService) ListCalendars(ctx context.Context) ([]Calendar, error) {
	return s.repo.List(ctx)
}

// UpdateCalendar replaces a calendar's definition and drops its engine so
// the next conversion rebuilds against the new configuration.
func (s *calendarService) UpdateCalendar(ctx context.Context, id string, input UpdateCalendarInput) error {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return apperror.NewNotFound("calendar not found")
	}

	cal.Name = input.Name
	cal.Description = input.Description
	cal.Config = input.Config
	if err := s.repo.Update(ctx, cal); err != nil {
		return fmt.Errorf("update calendar: %w", err)
	}

	s.dropEngine(id)
	return nil
}

// DeleteCalendar removes a calendar definition and its engine.
func (s *calendarService) DeleteCalendar(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropEngine(id)
	return nil
}

// dropEngine forgets a cached engine instance.
func (s *calendarService) dropEngine(id string) {
	s.mu.Lock()
	delete(s.engines, id)
	s.mu.Unlock()
}

// engineFor returns the engine for a calendar, building and caching it on
// first use. The entry is keyed to the definition's update timestamp, so a
// row modified by another replica is picked up on the next load.
func (s *calendarService) engineFor(ctx context.Context, id string) (*almanac.Engine, *Calendar, error) {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get calendar: %w", err)
	}
	if cal == nil {
		return nil, nil, apperror.NewNotFound("calendar not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.engines[id]; ok && entry.updatedAt.Equal(cal.UpdatedAt) {
		return entry.engine, cal, nil
	}
	engine := almanac.New(&cal.Config)
	s.engines[id] = engineEntry{engine: engine, updatedAt: cal.UpdatedAt}
	return engine, cal, nil
}

// ConvertTime converts a story time into its structured date and rendered
// display strings.
func (s *calendarService) ConvertTime(ctx context.Context, calendarID string, t almanac.StoryTime) (*ConvertTimeResult, error) {
	engine, _, err := s.engineFor(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	date := engine.ToDate(t)
	result := &ConvertTimeResult{
		Time:    t,
		Date:    date,
		Display: engine.FormatDate(date, true),
		Short:   engine.FormatDate(date, false),
	}
	if name, ok := engine.Holiday(date); ok {
		result.Holiday = name
	}
	return result, nil
}

// ConvertDate converts caller-supplied date fields back into a story time.
func (s *calendarService) ConvertDate(ctx context.Context, calendarID string, in DateInput) (almanac.StoryTime, error) {
	engine, _, err := s.engineFor(ctx, calendarID)
	if err != nil {
		return 0, err
	}
	return engine.ToStoryTime(almanac.Date{
		Year:      in.Year,
		DayOfYear: in.DayOfYear,
		Hour:      in.Hour,
		Minute:    in.Minute,
	}), nil
}

// HolidaysByDay returns the day -> holiday name map for a year, going
// through Redis when available so replicas share computed years.
func (s *calendarService) HolidaysByDay(ctx context.Context, calendarID string, year int) (map[int]string, error) {
	engine, cal, err := s.engineFor(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	if s.redis == nil {
		return engine.HolidaysByDayForYear(year), nil
	}

	key := fmt.Sprintf("almanac:holidays:%s:%d:%d", cal.ID, cal.UpdatedAt.Unix(), year)
	if raw, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var cached map[int]string
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		slog.Warn("holiday cache read failed", slog.Any("error", err))
	}

	byDay := engine.HolidaysByDayForYear(year)
	if raw, err := json.Marshal(byDay); err == nil {
		if err := s.redis.Set(ctx, key, raw, holidayCacheTTL).Err(); err != nil {
			slog.Warn("holiday cache write failed", slog.Any("error", err))
		}
	}
	return byDay, nil
}

// AllHolidays returns the name -> day listing for a year.
func (s *calendarService) AllHolidays(ctx context.Context, calendarID string, year int) (map[string]int, error) {
	engine, _, err := s.engineFor(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	return engine.AllHolidaysForYear(year), nil
}

// Age computes and formats the elapsed years between two story times.
func (s *calendarService) Age(ctx context.Context, calendarID string, birthdate, current almanac.StoryTime) (*AgeResult, error) {
	engine, _, err := s.engineFor(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	years := engine.Age(birthdate, current)
	return &AgeResult{Years: years, Formatted: almanac.FormatAge(years)}, nil
}

// Truncate rounds or truncates a story time to the named boundary.
func (s *calendarService) Truncate(ctx context.Context, calendarID string, t almanac.StoryTime, unit string) (almanac.StoryTime, error) {
	engine, _, err := s.engineFor(ctx, calendarID)
	if err != nil {
		return 0, err
	}
	switch unit {
	case TruncHour:
		return engine.RoundToHour(t), nil
	case TruncDay:
		return engine.StartOfDay(t), nil
	case TruncYear:
		return engine.StartOfYear(t), nil
	default:
		return 0, apperror.NewBadRequest(fmt.Sprintf("unknown truncation unit %q", unit))
	}
}
