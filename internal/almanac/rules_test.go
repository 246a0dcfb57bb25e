package almanac

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleRules() RuleList {
	return RuleList{
		FixedHoliday{Name: "Midwinter Feast", Description: "feast day",
			SubdivisionID: "month", Unit: 12, Day: 25},
		LastDayHoliday{Name: "Leaffall", SubdivisionID: "month", Unit: 2},
		NthCycleDayHoliday{Name: "Gratitude Day", SubdivisionID: "month", Unit: 11,
			CycleID: "weekday", DayInCycle: 5, N: 4},
		LastCycleDayHoliday{Name: "Last Monday", SubdivisionID: "month", Unit: 5,
			CycleID: "weekday", DayInCycle: 2},
		ComputedHoliday{Name: "First Light", Steps: StepList{
			StartOfYearStep{},
			FixedStep{SubdivisionID: "month", Unit: 3, Day: 21},
			OffsetStep{Days: -1},
			FindInCycleStep{CycleID: "weekday", DayInCycle: 1, Direction: DirectionOnOrAfter},
		}},
		OffsetHoliday{Name: "Feast Eve Fast", BaseHoliday: "Midwinter Feast", OffsetDays: -4},
	}
}

func TestRuleList_JSONRoundTrip(t *testing.T) {
	in := sampleRules()

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out RuleList
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %#v\nout: %#v", in, out)
	}
}

func TestRuleList_UnknownKind(t *testing.T) {
	var out RuleList
	err := json.Unmarshal([]byte(`[{"kind":"lunar_eclipse","name":"X"}]`), &out)
	if err == nil {
		t.Fatal("unknown kind decoded without error")
	}
}

func TestRuleList_YAMLDecode(t *testing.T) {
	src := `
- kind: fixed
  name: Midwinter Feast
  subdivision_id: month
  unit: 12
  day: 25
- kind: offset_from_holiday
  name: Feast Eve Fast
  base_holiday: Midwinter Feast
  offset_days: -4
- kind: computed
  name: First Light
  steps:
    - kind: fixed
      subdivision_id: month
      unit: 3
      day: 21
    - kind: find_in_cycle
      cycle_id: weekday
      day_in_cycle: 1
      direction: on_or_after
`
	var out RuleList
	if err := yaml.Unmarshal([]byte(src), &out); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("decoded %d rules, want 3", len(out))
	}
	fixed, ok := out[0].(FixedHoliday)
	if !ok || fixed.Unit != 12 || fixed.Day != 25 {
		t.Errorf("rule 0 = %#v, want fixed 12/25", out[0])
	}
	offset, ok := out[1].(OffsetHoliday)
	if !ok || offset.OffsetDays != -4 || offset.BaseHoliday != "Midwinter Feast" {
		t.Errorf("rule 1 = %#v", out[1])
	}
	computed, ok := out[2].(ComputedHoliday)
	if !ok || len(computed.Steps) != 2 {
		t.Fatalf("rule 2 = %#v", out[2])
	}
	if _, ok := computed.Steps[1].(FindInCycleStep); !ok {
		t.Errorf("step 1 = %#v, want FindInCycleStep", computed.Steps[1])
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	cfg := gregorianConfig()
	cfg.Holidays = sampleRules()

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*cfg, out) {
		t.Errorf("config round trip mismatch")
	}
}
