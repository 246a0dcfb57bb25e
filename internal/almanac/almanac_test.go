package almanac

// Shared test fixtures: a Gregorian-shaped calendar (12 variable months,
// 7-day weekday cycle) and a small fantasy calendar with nested
// subdivisions. Both are rebuilt per test so mutation in one test cannot
// leak into another.

func gregorianConfig() *Config {
	return &Config{
		Name:           "Gregorian-like",
		MinutesPerHour: 60,
		HoursPerDay:    24,
		MinutesPerDay:  1440,
		DaysPerYear:    365,
		MinutesPerYear: 525600,
		Eras:           Eras{Positive: "AD", Negative: "BC"},
		Display: Display{
			Default: "{dayOfMonth} {month}, {year} {era} {hour}:{minute}",
			Short:   "{dayOfMonth} {month}, {year} {era}",
		},
		Subdivisions: []Subdivision{
			{
				ID:         "month",
				Name:       "Month",
				PluralName: "Months",
				Count:      12,
				DaysPerUnit: []int{
					31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31,
				},
				UseCustomLabels: true,
				Labels: []string{
					"January", "February", "March", "April", "May", "June",
					"July", "August", "September", "October", "November", "December",
				},
			},
			{
				ID:                "weekday",
				Name:              "Weekday",
				Count:             7,
				DaysPerUnitFixed:  1,
				IsCycle:           true,
				EpochStartsOnUnit: 0,
				UseCustomLabels:   true,
				Labels: []string{
					"Sunday", "Monday", "Tuesday", "Wednesday",
					"Thursday", "Friday", "Saturday",
				},
			},
		},
	}
}

func fantasyConfig() *Config {
	return &Config{
		Name:           "Shardfall Reckoning",
		MinutesPerHour: 50,
		HoursPerDay:    20,
		MinutesPerDay:  1000,
		DaysPerYear:    360,
		MinutesPerYear: 360000,
		Eras:           Eras{Positive: "After Shardfall", Negative: "Before Shardfall"},
		Display: Display{
			Default: "{dayOfSeason} {season} {year} {era}, {hour}:{minute}",
			Short:   "{dayOfSeason} {season} {year} {era}",
		},
		Subdivisions: []Subdivision{
			{
				ID:               "season",
				Name:             "Season",
				Count:            4,
				DaysPerUnitFixed: 90,
				LabelFormat:      "Season {n}",
				Subdivisions: []Subdivision{
					{
						ID:               "span",
						Name:             "Span",
						Count:            9,
						DaysPerUnitFixed: 10,
					},
					{
						// Cycle nested under a hierarchical parent: still
						// computed from the global day offset.
						ID:                "ring",
						Name:              "Ring",
						Count:             6,
						IsCycle:           true,
						EpochStartsOnUnit: 2,
					},
				},
			},
		},
	}
}
