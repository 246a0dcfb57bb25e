package almanac

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Holiday rule kinds as they appear on the wire.
const (
	KindFixed             = "fixed"
	KindLastDay           = "last_day"
	KindNthCycleDay       = "nth_cycle_day"
	KindLastCycleDay      = "last_cycle_day"
	KindComputed          = "computed"
	KindOffsetFromHoliday = "offset_from_holiday"
)

// Computed-pipeline step kinds.
const (
	StepStartOfYear = "start_of_year"
	StepFixed       = "fixed"
	StepOffset      = "offset"
	StepFindInCycle = "find_in_cycle"
)

// Search directions for find_in_cycle steps.
const (
	DirectionOnOrAfter  = "on_or_after"
	DirectionOnOrBefore = "on_or_before"
)

// HolidayRule is a declarative recipe for deriving a day-of-year. The
// concrete kinds form a closed set; every dispatch site type-switches over
// all of them so a new kind cannot be added without updating each one.
type HolidayRule interface {
	// HolidayName is the holiday's display name, also the key used by
	// offset_from_holiday references.
	HolidayName() string
	// HolidayDescription is optional display text.
	HolidayDescription() string

	isHolidayRule()
}

// FixedHoliday is a fixed calendar-day offset within a subdivision unit,
// e.g. "day 25 of month 12".
type FixedHoliday struct {
	Name          string
	Description   string
	SubdivisionID string
	Unit          int // 1-indexed unit within the subdivision
	Day           int // 1-indexed day within the unit
}

// LastDayHoliday is the last day of a subdivision unit.
type LastDayHoliday struct {
	Name          string
	Description   string
	SubdivisionID string
	Unit          int
}

// NthCycleDayHoliday is the n-th occurrence of a cycle phase within a
// subdivision unit's day range, e.g. "the 4th Thursday of month 11".
type NthCycleDayHoliday struct {
	Name          string
	Description   string
	SubdivisionID string
	Unit          int
	CycleID       string
	DayInCycle    int // 1-indexed cycle phase
	N             int
}

// LastCycleDayHoliday is the last occurrence of a cycle phase within a
// subdivision unit's day range, e.g. "the last Monday of month 5".
type LastCycleDayHoliday struct {
	Name          string
	Description   string
	SubdivisionID string
	Unit          int
	CycleID       string
	DayInCycle    int
}

// ComputedHoliday folds a step pipeline left to right, starting the day
// accumulator at 1.
type ComputedHoliday struct {
	Name        string
	Description string
	Steps       StepList
}

// OffsetHoliday is a signed day offset from another holiday, referenced by
// name. The base must be declared earlier in the config's holiday list;
// otherwise this rule resolves to nothing for the year.
type OffsetHoliday struct {
	Name        string
	Description string
	BaseHoliday string
	OffsetDays  int
}

func (r FixedHoliday) HolidayName() string        { return r.Name }
func (r LastDayHoliday) HolidayName() string      { return r.Name }
func (r NthCycleDayHoliday) HolidayName() string  { return r.Name }
func (r LastCycleDayHoliday) HolidayName() string { return r.Name }
func (r ComputedHoliday) HolidayName() string     { return r.Name }
func (r OffsetHoliday) HolidayName() string       { return r.Name }

func (r FixedHoliday) HolidayDescription() string        { return r.Description }
func (r LastDayHoliday) HolidayDescription() string      { return r.Description }
func (r NthCycleDayHoliday) HolidayDescription() string  { return r.Description }
func (r LastCycleDayHoliday) HolidayDescription() string { return r.Description }
func (r ComputedHoliday) HolidayDescription() string     { return r.Description }
func (r OffsetHoliday) HolidayDescription() string       { return r.Description }

func (FixedHoliday) isHolidayRule()        {}
func (LastDayHoliday) isHolidayRule()      {}
func (NthCycleDayHoliday) isHolidayRule()  {}
func (LastCycleDayHoliday) isHolidayRule() {}
func (ComputedHoliday) isHolidayRule()     {}
func (OffsetHoliday) isHolidayRule()       {}

// HolidayStep is one step of a computed holiday pipeline.
type HolidayStep interface {
	isHolidayStep()
}

// StartOfYearStep resets the accumulator to day 1.
type StartOfYearStep struct{}

// FixedStep reassigns the accumulator to a fixed day within a unit.
type FixedStep struct {
	SubdivisionID string
	Unit          int
	Day           int
}

// OffsetStep shifts the accumulator by a signed day count.
type OffsetStep struct {
	Days int
}

// FindInCycleStep searches outward from the accumulator, at most one full
// cycle length, for the nearest day whose cycle phase matches. If nothing
// matches the accumulator is left unchanged; the pipeline never fails.
type FindInCycleStep struct {
	CycleID    string
	DayInCycle int // 1-indexed cycle phase
	Direction  string
}

func (StartOfYearStep) isHolidayStep() {}
func (FixedStep) isHolidayStep()       {}
func (OffsetStep) isHolidayStep()      {}
func (FindInCycleStep) isHolidayStep() {}

// RuleList is a holiday rule sequence that round-trips through JSON and
// YAML via a flat kind-tagged envelope. Declaration order is preserved;
// it is semantically significant.
type RuleList []HolidayRule

// StepList is a computed-pipeline step sequence with the same wire format
// treatment as RuleList.
type StepList []HolidayStep

// ruleEnvelope is the flat wire form of a holiday rule. Only the fields
// relevant to Kind are populated.
type ruleEnvelope struct {
	Kind          string       `json:"kind" yaml:"kind"`
	Name          string       `json:"name" yaml:"name"`
	Description   string       `json:"description,omitempty" yaml:"description,omitempty"`
	SubdivisionID string       `json:"subdivision_id,omitempty" yaml:"subdivision_id,omitempty"`
	Unit          int          `json:"unit,omitempty" yaml:"unit,omitempty"`
	Day           int          `json:"day,omitempty" yaml:"day,omitempty"`
	CycleID       string       `json:"cycle_id,omitempty" yaml:"cycle_id,omitempty"`
	DayInCycle    int          `json:"day_in_cycle,omitempty" yaml:"day_in_cycle,omitempty"`
	N             int          `json:"n,omitempty" yaml:"n,omitempty"`
	BaseHoliday   string       `json:"base_holiday,omitempty" yaml:"base_holiday,omitempty"`
	OffsetDays    int          `json:"offset_days,omitempty" yaml:"offset_days,omitempty"`
	Steps         []stepEnvelope `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// stepEnvelope is the flat wire form of a pipeline step.
type stepEnvelope struct {
	Kind          string `json:"kind" yaml:"kind"`
	SubdivisionID string `json:"subdivision_id,omitempty" yaml:"subdivision_id,omitempty"`
	Unit          int    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Day           int    `json:"day,omitempty" yaml:"day,omitempty"`
	Days          int    `json:"days,omitempty" yaml:"days,omitempty"`
	CycleID       string `json:"cycle_id,omitempty" yaml:"cycle_id,omitempty"`
	DayInCycle    int    `json:"day_in_cycle,omitempty" yaml:"day_in_cycle,omitempty"`
	Direction     string `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// toRule converts a decoded envelope into its typed rule.
func (e ruleEnvelope) toRule() (HolidayRule, error) {
	switch e.Kind {
	case KindFixed:
		return FixedHoliday{Name: e.Name, Description: e.Description,
			SubdivisionID: e.SubdivisionID, Unit: e.Unit, Day: e.Day}, nil
	case KindLastDay:
		return LastDayHoliday{Name: e.Name, Description: e.Description,
			SubdivisionID: e.SubdivisionID, Unit: e.Unit}, nil
	case KindNthCycleDay:
		return NthCycleDayHoliday{Name: e.Name, Description: e.Description,
			SubdivisionID: e.SubdivisionID, Unit: e.Unit,
			CycleID: e.CycleID, DayInCycle: e.DayInCycle, N: e.N}, nil
	case KindLastCycleDay:
		return LastCycleDayHoliday{Name: e.Name, Description: e.Description,
			SubdivisionID: e.SubdivisionID, Unit: e.Unit,
			CycleID: e.CycleID, DayInCycle: e.DayInCycle}, nil
	case KindComputed:
		steps := make(StepList, 0, len(e.Steps))
		for i, se := range e.Steps {
			step, err := se.toStep()
			if err != nil {
				return nil, fmt.Errorf("holiday %q step %d: %w", e.Name, i, err)
			}
			steps = append(steps, step)
		}
		return ComputedHoliday{Name: e.Name, Description: e.Description, Steps: steps}, nil
	case KindOffsetFromHoliday:
		return OffsetHoliday{Name: e.Name, Description: e.Description,
			BaseHoliday: e.BaseHoliday, OffsetDays: e.OffsetDays}, nil
	default:
		return nil, fmt.Errorf("unknown holiday rule kind %q", e.Kind)
	}
}

// toStep converts a decoded envelope into its typed step.
func (e stepEnvelope) toStep() (HolidayStep, error) {
	switch e.Kind {
	case StepStartOfYear:
		return StartOfYearStep{}, nil
	case StepFixed:
		return FixedStep{SubdivisionID: e.SubdivisionID, Unit: e.Unit, Day: e.Day}, nil
	case StepOffset:
		return OffsetStep{Days: e.Days}, nil
	case StepFindInCycle:
		return FindInCycleStep{CycleID: e.CycleID, DayInCycle: e.DayInCycle, Direction: e.Direction}, nil
	default:
		return nil, fmt.Errorf("unknown step kind %q", e.Kind)
	}
}

// toEnvelope flattens a typed rule for encoding.
func toEnvelope(r HolidayRule) ruleEnvelope {
	switch v := r.(type) {
	case FixedHoliday:
		return ruleEnvelope{Kind: KindFixed, Name: v.Name, Description: v.Description,
			SubdivisionID: v.SubdivisionID, Unit: v.Unit, Day: v.Day}
	case LastDayHoliday:
		return ruleEnvelope{Kind: KindLastDay, Name: v.Name, Description: v.Description,
			SubdivisionID: v.SubdivisionID, Unit: v.Unit}
	case NthCycleDayHoliday:
		return ruleEnvelope{Kind: KindNthCycleDay, Name: v.Name, Description: v.Description,
			SubdivisionID: v.SubdivisionID, Unit: v.Unit,
			CycleID: v.CycleID, DayInCycle: v.DayInCycle, N: v.N}
	case LastCycleDayHoliday:
		return ruleEnvelope{Kind: KindLastCycleDay, Name: v.Name, Description: v.Description,
			SubdivisionID: v.SubdivisionID, Unit: v.Unit,
			CycleID: v.CycleID, DayInCycle: v.DayInCycle}
	case ComputedHoliday:
		steps := make([]stepEnvelope, 0, len(v.Steps))
		for _, s := range v.Steps {
			steps = append(steps, toStepEnvelope(s))
		}
		return ruleEnvelope{Kind: KindComputed, Name: v.Name, Description: v.Description, Steps: steps}
	case OffsetHoliday:
		return ruleEnvelope{Kind: KindOffsetFromHoliday, Name: v.Name, Description: v.Description,
			BaseHoliday: v.BaseHoliday, OffsetDays: v.OffsetDays}
	default:
		return ruleEnvelope{}
	}
}

// toStepEnvelope flattens a typed step for encoding.
func toStepEnvelope(s HolidayStep) stepEnvelope {
	switch v := s.(type) {
	case StartOfYearStep:
		return stepEnvelope{Kind: StepStartOfYear}
	case FixedStep:
		return stepEnvelope{Kind: StepFixed, SubdivisionID: v.SubdivisionID, Unit: v.Unit, Day: v.Day}
	case OffsetStep:
		return stepEnvelope{Kind: StepOffset, Days: v.Days}
	case FindInCycleStep:
		return stepEnvelope{Kind: StepFindInCycle, CycleID: v.CycleID, DayInCycle: v.DayInCycle, Direction: v.Direction}
	default:
		return stepEnvelope{}
	}
}

// UnmarshalJSON decodes a kind-tagged rule array.
func (l *RuleList) UnmarshalJSON(data []byte) error {
	var envs []ruleEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	rules := make(RuleList, 0, len(envs))
	for _, e := range envs {
		r, err := e.toRule()
		if err != nil {
			return err
		}
		rules = append(rules, r)
	}
	*l = rules
	return nil
}

// MarshalJSON encodes rules as a kind-tagged array.
func (l RuleList) MarshalJSON() ([]byte, error) {
	envs := make([]ruleEnvelope, 0, len(l))
	for _, r := range l {
		envs = append(envs, toEnvelope(r))
	}
	return json.Marshal(envs)
}

// UnmarshalYAML decodes a kind-tagged rule sequence.
func (l *RuleList) UnmarshalYAML(node *yaml.Node) error {
	var envs []ruleEnvelope
	if err := node.Decode(&envs); err != nil {
		return err
	}
	rules := make(RuleList, 0, len(envs))
	for _, e := range envs {
		r, err := e.toRule()
		if err != nil {
			return err
		}
		rules = append(rules, r)
	}
	*l = rules
	return nil
}

// MarshalYAML encodes rules as a kind-tagged sequence.
func (l RuleList) MarshalYAML() (any, error) {
	envs := make([]ruleEnvelope, 0, len(l))
	for _, r := range l {
		envs = append(envs, toEnvelope(r))
	}
	return envs, nil
}
