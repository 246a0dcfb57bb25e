package almanac

// resolvedHoliday is one rule's outcome for a year, in declaration order.
type resolvedHoliday struct {
	name string
	day  int
}

// HolidaysByDayForYear returns the dayOfYear -> holiday name map for a
// year. Results are memoized per year for the life of the engine. When two
// rules resolve to the same day, the rule declared first in the config
// keeps the day; duplicate days are two different holidays colliding.
func (e *Engine) HolidaysByDayForYear(year int) map[int]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cached, ok := e.holidaysByYear[year]; ok {
		return cached
	}

	byDay := make(map[int]string)
	for _, h := range e.evaluateYear(year) {
		if _, taken := byDay[h.day]; !taken {
			byDay[h.day] = h.name
		}
	}
	e.holidaysByYear[year] = byDay
	return byDay
}

// AllHolidaysForYear returns a name -> dayOfYear listing for a year,
// uncached. Unlike the by-day view, a later rule re-declaring an earlier
// rule's name overwrites it; duplicate names are the same conceptual
// holiday re-declared.
func (e *Engine) AllHolidaysForYear(year int) map[string]int {
	byName := make(map[string]int)
	for _, h := range e.evaluateYear(year) {
		byName[h.name] = h.day
	}
	return byName
}

// Holiday returns the holiday name falling on the given date, if any.
func (e *Engine) Holiday(d Date) (string, bool) {
	name, ok := e.HolidaysByDayForYear(d.Year)[d.DayOfYear]
	return name, ok
}

// evaluateYear runs every configured rule for a year in declared order.
// Rules that do not resolve (missing cycle, unmet dependency, fewer than n
// matches) are simply absent from the result; nothing here can fail.
func (e *Engine) evaluateYear(year int) []resolvedHoliday {
	resolved := make(map[string]int, len(e.cfg.Holidays))
	out := make([]resolvedHoliday, 0, len(e.cfg.Holidays))

	for _, rule := range e.cfg.Holidays {
		day, ok := e.evaluateRule(rule, year, resolved)
		if !ok {
			continue
		}
		resolved[rule.HolidayName()] = day
		out = append(out, resolvedHoliday{name: rule.HolidayName(), day: day})
	}
	return out
}

// evaluateRule resolves a single rule to a day of year. The resolved table
// holds holidays evaluated earlier in this pass; offset rules referencing a
// holiday declared later (or one that never resolved) report not-found
// rather than erroring.
func (e *Engine) evaluateRule(rule HolidayRule, year int, resolved map[string]int) (int, bool) {
	switch r := rule.(type) {
	case FixedHoliday:
		return e.unitStartDay(r.SubdivisionID, r.Unit) + r.Day - 1, true

	case LastDayHoliday:
		return e.unitEndDay(r.SubdivisionID, r.Unit), true

	case NthCycleDayHoliday:
		cycle := findSubdivision(e.cfg.Subdivisions, r.CycleID)
		if cycle == nil || !cycle.IsCycle {
			return 0, false
		}
		start := e.unitStartDay(r.SubdivisionID, r.Unit)
		end := e.unitEndDay(r.SubdivisionID, r.Unit)
		n := 0
		for day := start; day <= end; day++ {
			if e.cyclePosition(day, year, cycle)+1 == r.DayInCycle {
				n++
				if n == r.N {
					return day, true
				}
			}
		}
		return 0, false

	case LastCycleDayHoliday:
		cycle := findSubdivision(e.cfg.Subdivisions, r.CycleID)
		if cycle == nil || !cycle.IsCycle {
			return 0, false
		}
		start := e.unitStartDay(r.SubdivisionID, r.Unit)
		end := e.unitEndDay(r.SubdivisionID, r.Unit)
		for day := end; day >= start; day-- {
			if e.cyclePosition(day, year, cycle)+1 == r.DayInCycle {
				return day, true
			}
		}
		return 0, false

	case ComputedHoliday:
		return e.runSteps(r.Steps, year), true

	case OffsetHoliday:
		base, ok := resolved[r.BaseHoliday]
		if !ok {
			return 0, false
		}
		return base + r.OffsetDays, true

	default:
		return 0, false
	}
}

// runSteps folds a computed pipeline over the day accumulator, starting at
// day 1. Individual steps degrade (a find_in_cycle with no match within one
// full cycle leaves the accumulator alone); the pipeline always produces a
// day.
func (e *Engine) runSteps(steps StepList, year int) int {
	acc := 1
	for _, step := range steps {
		switch st := step.(type) {
		case StartOfYearStep:
			acc = 1

		case FixedStep:
			acc = e.unitStartDay(st.SubdivisionID, st.Unit) + st.Day - 1

		case OffsetStep:
			acc += st.Days

		case FindInCycleStep:
			cycle := findSubdivision(e.cfg.Subdivisions, st.CycleID)
			if cycle == nil || !cycle.IsCycle || cycle.Count <= 0 {
				continue
			}
			for i := 0; i < cycle.Count; i++ {
				day := acc + i
				if st.Direction == DirectionOnOrBefore {
					day = acc - i
				}
				if e.cyclePosition(day, year, cycle)+1 == st.DayInCycle {
					acc = day
					break
				}
			}
		}
	}
	return acc
}

// topLevelSubdivision returns the top-level (year-partitioning)
// subdivision with the given id. Nested subdivisions have no well-defined
// day range relative to the year, so holiday unit lookups only consult the
// top level.
func (e *Engine) topLevelSubdivision(id string) *Subdivision {
	for i := range e.cfg.Subdivisions {
		if e.cfg.Subdivisions[i].ID == id {
			return &e.cfg.Subdivisions[i]
		}
	}
	return nil
}

// unitStartDay returns the 1-indexed day of year on which the named
// subdivision's 1-indexed unit begins. Unknown ids and cycles fall back to
// day 1, a safe degenerate range rather than an error.
func (e *Engine) unitStartDay(id string, unit int) int {
	s := e.topLevelSubdivision(id)
	if s == nil || s.IsCycle {
		return 1
	}
	idx := clampUnitIndex(s, unit-1)

	if s.DaysPerUnitFixed > 0 {
		return idx*s.DaysPerUnitFixed + 1
	}
	before := 0
	for i := 0; i < idx && i < len(s.DaysPerUnit); i++ {
		before += s.DaysPerUnit[i]
	}
	return before + 1
}

// unitEndDay returns the 1-indexed day of year on which the named
// subdivision's 1-indexed unit ends. Unknown ids and cycles fall back to
// the full year.
func (e *Engine) unitEndDay(id string, unit int) int {
	s := e.topLevelSubdivision(id)
	if s == nil || s.IsCycle {
		return e.daysPerYear()
	}
	idx := clampUnitIndex(s, unit-1)
	return e.unitStartDay(id, unit) + s.unitDays(idx) - 1
}

// clampUnitIndex bounds a 0-indexed unit index to the subdivision's units.
func clampUnitIndex(s *Subdivision, idx int) int {
	if idx < 0 {
		return 0
	}
	max := s.Count
	if s.DaysPerUnitFixed == 0 && len(s.DaysPerUnit) > 0 {
		max = len(s.DaysPerUnit)
	}
	if max > 0 && idx >= max {
		return max - 1
	}
	return idx
}
