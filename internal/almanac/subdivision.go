package almanac

// resolveSubdivisions computes every subdivision's 1-indexed position for
// the given day of year. Hierarchical subdivisions nest: children locate
// their unit within the days remaining inside the parent's unit. Cycles do
// not nest: even when declared as a nested child, a cycle's position is
// computed from the global day-from-epoch count. That asymmetry is a
// long-standing quirk existing calendar definitions depend on; do not
// "fix" it to parent-local offsets.
func (e *Engine) resolveSubdivisions(dayOfYear, year int) map[string]int {
	out := make(map[string]int)
	e.resolveInto(e.cfg.Subdivisions, dayOfYear-1, dayOfYear, year, out)
	return out
}

// resolveInto walks one subdivision level. offset is the 0-indexed day
// offset within the enclosing unit; dayOfYear/year are carried unchanged
// for cycle computation.
func (e *Engine) resolveInto(subs []Subdivision, offset, dayOfYear, year int, out map[string]int) {
	for i := range subs {
		s := &subs[i]
		if s.IsCycle {
			if _, exists := out[s.ID]; !exists {
				out[s.ID] = e.cyclePosition(dayOfYear, year, s) + 1
			}
			continue
		}

		idx, before := locateUnit(s, offset)
		if _, exists := out[s.ID]; !exists {
			out[s.ID] = idx + 1
		}
		if len(s.Subdivisions) > 0 {
			e.resolveInto(s.Subdivisions, offset-before, dayOfYear, year, out)
		}
	}
}

// cyclePosition returns the 0-indexed phase of a cycle subdivision on the
// given day. Negative day totals use a symmetric modulo construction so the
// phase sequence stays continuous across the year-0 boundary.
func (e *Engine) cyclePosition(dayOfYear, year int, s *Subdivision) int {
	if s.Count <= 0 {
		return 0
	}
	count := int64(s.Count)
	start := int64(s.EpochStartsOnUnit)
	total := int64(year)*int64(e.daysPerYear()) + int64(dayOfYear-1)

	if total >= 0 {
		return int((total + start) % count)
	}
	return int(((start-(-total)%count)%count + count) % count)
}

// locateUnit finds the 0-indexed unit containing the 0-indexed day offset
// and how many days prior units consumed. Offsets past the subdivision's
// total land in the last unit rather than erroring; a malformed day table
// degrades to unit 0.
func locateUnit(s *Subdivision, offset int) (idx, daysBefore int) {
	if offset < 0 {
		offset = 0
	}

	if s.DaysPerUnitFixed > 0 {
		idx = offset / s.DaysPerUnitFixed
		if s.Count > 0 && idx >= s.Count {
			idx = s.Count - 1
		}
		return idx, idx * s.DaysPerUnitFixed
	}

	consumed := 0
	for i, days := range s.DaysPerUnit {
		if offset < consumed+days {
			return i, consumed
		}
		consumed += days
	}
	if n := len(s.DaysPerUnit); n > 0 {
		return n - 1, consumed - s.DaysPerUnit[n-1]
	}
	return 0, 0
}

// DayOfSubdivision returns the 1-indexed day within the named subdivision's
// unit containing the date, e.g. 14 for "day 14 of the third month". For an
// unknown id, or a cycle (which has no day range), the day of year is
// returned unchanged.
func (e *Engine) DayOfSubdivision(d Date, id string) int {
	consumed, ok := consumedBefore(e.cfg.Subdivisions, id, d.DayOfYear-1)
	if !ok {
		return d.DayOfYear
	}
	return d.DayOfYear - consumed
}

// consumedBefore finds the subdivision with the given id and returns the
// number of days of the year consumed before its unit containing the
// offset. Nested subdivisions accumulate the parent's consumed days.
func consumedBefore(subs []Subdivision, id string, offset int) (int, bool) {
	for i := range subs {
		s := &subs[i]
		if s.IsCycle {
			if s.ID == id {
				return 0, true
			}
			continue
		}
		_, before := locateUnit(s, offset)
		if s.ID == id {
			return before, true
		}
		if inner, ok := consumedBefore(s.Subdivisions, id, offset-before); ok {
			return before + inner, true
		}
	}
	return 0, false
}

// findSubdivision returns the subdivision with the given id, searching
// nested children depth-first, or nil.
func findSubdivision(subs []Subdivision, id string) *Subdivision {
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i]
		}
		if s := findSubdivision(subs[i].Subdivisions, id); s != nil {
			return s
		}
	}
	return nil
}
