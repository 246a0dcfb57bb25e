package almanac

import "sync"

// Engine evaluates one calendar configuration. It is stateless apart from
// the per-year holiday cache, which grows for the life of the instance
// (years queried are bounded by in-story usage). The cache is guarded by a
// mutex so one Engine can be shared across request goroutines; create a
// fresh Engine whenever the configuration changes.
type Engine struct {
	cfg *Config

	mu sync.Mutex
	// holidaysByYear maps year -> dayOfYear -> holiday name.
	holidaysByYear map[int]map[int]string
}

// New creates an Engine for the given configuration. The config must not
// be mutated afterwards.
func New(cfg *Config) *Engine {
	return &Engine{
		cfg:            cfg,
		holidaysByYear: make(map[int]map[int]string),
	}
}

// Config returns the calendar configuration this engine evaluates.
func (e *Engine) Config() *Config {
	return e.cfg
}

// minutesPerHour and friends defend against zero/absent config fields so
// a half-built configuration degrades instead of dividing by zero.

func (e *Engine) minutesPerHour() int64 {
	if e.cfg.MinutesPerHour > 0 {
		return int64(e.cfg.MinutesPerHour)
	}
	return 60
}

func (e *Engine) minutesPerDay() int64 {
	if e.cfg.MinutesPerDay > 0 {
		return int64(e.cfg.MinutesPerDay)
	}
	return 1440
}

func (e *Engine) daysPerYear() int {
	if e.cfg.DaysPerYear > 0 {
		return e.cfg.DaysPerYear
	}
	return 365
}

func (e *Engine) minutesPerYear() int64 {
	if e.cfg.MinutesPerYear > 0 {
		return int64(e.cfg.MinutesPerYear)
	}
	return e.minutesPerDay() * int64(e.daysPerYear())
}
