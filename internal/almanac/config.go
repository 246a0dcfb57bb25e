// Package almanac implements the story-time calendar engine: bidirectional
// conversion between a flat minute count (StoryTime) and a structured date
// under an arbitrary calendar shape (variable month lengths, weekday-like
// cycles, nested subdivisions), rule-driven holiday resolution, and safe
// template-based date formatting.
//
// The engine is pure computation over a caller-supplied Config. It performs
// no I/O; the only mutable state is a per-year holiday cache owned by the
// Engine instance. Create a new Engine whenever the configuration changes.
package almanac

// StoryTime is a signed count of minutes since the calendar epoch. It is
// the engine's sole time representation; callers store it as-is (character
// birthdates, event timestamps, the current story moment).
type StoryTime int64

// Era tags on a parsed date.
const (
	EraPositive = "positive"
	EraNegative = "negative"
)

// Config is a complete calendar definition. It is supplied by the caller
// and treated as immutable for the lifetime of an Engine. The engine does
// not validate cross-field consistency (e.g. MinutesPerDay really being
// MinutesPerHour*HoursPerDay); it only defends against absent fields.
type Config struct {
	Name string `json:"name" yaml:"name"`

	MinutesPerHour int `json:"minutes_per_hour" yaml:"minutes_per_hour"`
	HoursPerDay    int `json:"hours_per_day" yaml:"hours_per_day"`
	MinutesPerDay  int `json:"minutes_per_day" yaml:"minutes_per_day"`
	DaysPerYear    int `json:"days_per_year" yaml:"days_per_year"`
	MinutesPerYear int `json:"minutes_per_year" yaml:"minutes_per_year"`

	// EpochOffset shifts where year 0 falls relative to raw time 0, in years.
	EpochOffset int `json:"epoch_offset,omitempty" yaml:"epoch_offset,omitempty"`

	// Subdivisions are evaluated in declared order; on rendering conflicts
	// the first declaration wins.
	Subdivisions []Subdivision `json:"subdivisions,omitempty" yaml:"subdivisions,omitempty"`

	Eras    Eras    `json:"eras" yaml:"eras"`
	Display Display `json:"display" yaml:"display"`

	// Holidays are evaluated in declared order. Order matters twice: the
	// first rule resolving to a day claims that day, and offset_from_holiday
	// rules can only reference holidays declared before them.
	Holidays RuleList `json:"holidays,omitempty" yaml:"holidays,omitempty"`
}

// Eras is the label pair for years after/before year 0.
type Eras struct {
	Positive string `json:"positive" yaml:"positive"`
	Negative string `json:"negative" yaml:"negative"`
}

// Display holds the two date templates. Tags use {name} placeholders
// resolved against the formatter's data context; unknown tags render empty.
type Display struct {
	// Default is the full template including time of day.
	Default string `json:"default" yaml:"default"`
	// Short is the date-only template.
	Short string `json:"short" yaml:"short"`
}

// Subdivision is a named division of the year. Exactly one of
// DaysPerUnitFixed or DaysPerUnit describes unit widths.
//
// A subdivision is either hierarchical (partitions a day range, children
// consume the remaining days of the parent unit) or a cycle (IsCycle set:
// runs in parallel across years via modulo arithmetic). A cycle declared as
// a nested child still computes its position from the global day-from-epoch
// count, never from the parent unit. Existing calendar definitions rely on
// that behavior.
type Subdivision struct {
	// ID is the unique key used in templates, holiday rules, and the
	// parsed date's position map.
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	PluralName string `json:"plural_name,omitempty" yaml:"plural_name,omitempty"`

	// Count is the number of units (hierarchical) or the cycle length.
	Count int `json:"count" yaml:"count"`

	// DaysPerUnitFixed gives every unit the same width.
	DaysPerUnitFixed int `json:"days_per_unit_fixed,omitempty" yaml:"days_per_unit_fixed,omitempty"`
	// DaysPerUnit lists per-unit widths; length should equal Count.
	DaysPerUnit []int `json:"days_per_unit,omitempty" yaml:"days_per_unit,omitempty"`

	IsCycle bool `json:"is_cycle,omitempty" yaml:"is_cycle,omitempty"`
	// EpochStartsOnUnit is the 0-indexed cycle phase at time zero.
	EpochStartsOnUnit int `json:"epoch_starts_on_unit,omitempty" yaml:"epoch_starts_on_unit,omitempty"`

	// Labels are display strings per unit (length Count), used when
	// UseCustomLabels is set. LabelFormat is a fallback pattern with a
	// single {n} placeholder.
	Labels          []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	UseCustomLabels bool     `json:"use_custom_labels,omitempty" yaml:"use_custom_labels,omitempty"`
	LabelFormat     string   `json:"label_format,omitempty" yaml:"label_format,omitempty"`

	// Subdivisions are nested children (hierarchical parents only).
	Subdivisions []Subdivision `json:"subdivisions,omitempty" yaml:"subdivisions,omitempty"`
}

// unitDays returns the width in days of the 0-indexed unit.
func (s *Subdivision) unitDays(idx int) int {
	if s.DaysPerUnitFixed > 0 {
		return s.DaysPerUnitFixed
	}
	if idx >= 0 && idx < len(s.DaysPerUnit) {
		return s.DaysPerUnit[idx]
	}
	return 0
}

// Date is a structured, human-oriented view of a StoryTime. Values are
// ephemeral: created fresh per conversion, owned by the caller, and never
// consulted as a source of truth beyond Year/DayOfYear/Hour/Minute.
type Date struct {
	// Year is signed; year 0 and negative years are both valid.
	Year int `json:"year"`
	// Era is EraPositive or EraNegative, derived from the year's sign.
	Era string `json:"era"`
	// DayOfYear is 1-indexed, in [1, DaysPerYear].
	DayOfYear int `json:"day_of_year"`
	// Hour and Minute are 0-indexed, bounded by the config.
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	// Subdivisions maps subdivision id to its 1-indexed position
	// (cycle phases are stored 1-indexed here too).
	Subdivisions map[string]int `json:"subdivisions,omitempty"`
}
