package almanac

import (
	"math"
	"strconv"
)

// AddMinutes shifts a StoryTime by n minutes.
func (e *Engine) AddMinutes(t StoryTime, n int) StoryTime {
	return t + StoryTime(n)
}

// AddHours shifts a StoryTime by n hours of the configured length.
func (e *Engine) AddHours(t StoryTime, n int) StoryTime {
	return t + StoryTime(int64(n)*e.minutesPerHour())
}

// AddDays shifts a StoryTime by n days of the configured length.
func (e *Engine) AddDays(t StoryTime, n int) StoryTime {
	return t + StoryTime(int64(n)*e.minutesPerDay())
}

// RoundToHour rounds a StoryTime to the nearest hour boundary. Ties (the
// exact half hour) round up.
func (e *Engine) RoundToHour(t StoryTime) StoryTime {
	mph := e.minutesPerHour()
	r := floorMod(int64(t), mph)
	if 2*r >= mph {
		return t + StoryTime(mph-r)
	}
	return t - StoryTime(r)
}

// StartOfDay truncates a StoryTime to the beginning of its day.
func (e *Engine) StartOfDay(t StoryTime) StoryTime {
	d := e.ToDate(t)
	d.Hour = 0
	d.Minute = 0
	return e.ToStoryTime(d)
}

// StartOfYear truncates a StoryTime to the beginning of its year.
func (e *Engine) StartOfYear(t StoryTime) StoryTime {
	d := e.ToDate(t)
	d.DayOfYear = 1
	d.Hour = 0
	d.Minute = 0
	return e.ToStoryTime(d)
}

// Age returns the elapsed years between a birthdate and the current time
// as a real-valued year count. It divides the raw minute difference by
// minutesPerYear, deliberately ignoring the calendar's subdivision
// structure.
func (e *Engine) Age(birthdate, current StoryTime) float64 {
	return float64(current-birthdate) / float64(e.minutesPerYear())
}

// FormatAge renders an age truncated to one decimal place; whole values
// render without the decimal ("25", "25.5").
func FormatAge(age float64) string {
	truncated := math.Trunc(age*10) / 10
	if truncated == math.Trunc(truncated) {
		return strconv.FormatFloat(truncated, 'f', 0, 64)
	}
	return strconv.FormatFloat(truncated, 'f', 1, 64)
}

// floorMod returns a mod b with the sign of b (b > 0 here), unlike Go's
// remainder operator which follows the dividend.
func floorMod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
