package almanac

// ToDate converts a StoryTime into a structured date.
//
// For negative adjusted times the year is computed by counting whole years
// back from zero and the remainder is measured forward from that year's
// start. This keeps the remainder in [0, minutesPerYear) and puts year
// boundaries exactly on multiples of minutesPerYear, which ToStoryTime
// relies on to round-trip exactly.
func (e *Engine) ToDate(t StoryTime) Date {
	mpy := e.minutesPerYear()
	mpd := e.minutesPerDay()
	mph := e.minutesPerHour()

	adjusted := int64(t) - int64(e.cfg.EpochOffset)*mpy

	var year int64
	var remainder int64
	if adjusted >= 0 {
		year = adjusted / mpy
		remainder = adjusted % mpy
	} else {
		abs := -adjusted
		yearsBack := (abs + mpy - 1) / mpy
		year = -yearsBack
		remainder = yearsBack*mpy - abs
	}

	dayOfYear := int(remainder/mpd) + 1
	remainder %= mpd

	hour := int(remainder / mph)
	minute := int(remainder % mph)

	era := EraPositive
	if year < 0 {
		era = EraNegative
	}

	return Date{
		Year:         int(year),
		Era:          era,
		DayOfYear:    dayOfYear,
		Hour:         hour,
		Minute:       minute,
		Subdivisions: e.resolveSubdivisions(dayOfYear, int(year)),
	}
}

// ToStoryTime converts a structured date back into a StoryTime. Only the
// Year, DayOfYear, Hour, and Minute fields are consulted; the subdivision
// positions are a derived view, never a source of truth. For any date
// produced by ToDate, ToStoryTime returns the original time exactly.
func (e *Engine) ToStoryTime(d Date) StoryTime {
	mpy := e.minutesPerYear()
	mpd := e.minutesPerDay()
	mph := e.minutesPerHour()

	adjusted := int64(d.Year)*mpy +
		int64(d.DayOfYear-1)*mpd +
		int64(d.Hour)*mph +
		int64(d.Minute)

	return StoryTime(adjusted + int64(e.cfg.EpochOffset)*mpy)
}
