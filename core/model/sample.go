package model

import "time"

// SampleNetwork returns the demo track layout used by the CLI, the API reset
// endpoint and the tests.
func SampleNetwork() []TrackSection {
	return []TrackSection{
		{ID: "SEC_001", Name: "Platform A", Type: SectionPlatform, LengthKm: 0.5, MaxSpeedKmh: 30, Capacity: 2, SignalBlocks: 1},
		{ID: "SEC_002", Name: "Main Line North", Type: SectionMainLine, LengthKm: 5.0, MaxSpeedKmh: 120, Capacity: 2, SignalBlocks: 3},
		{ID: "SEC_003", Name: "Junction X", Type: SectionJunction, LengthKm: 0.2, MaxSpeedKmh: 40, Capacity: 1, SignalBlocks: 1},
		{ID: "SEC_004", Name: "Main Line South", Type: SectionMainLine, LengthKm: 8.0, MaxSpeedKmh: 100, Capacity: 1, SignalBlocks: 4},
		{ID: "SEC_005", Name: "Platform B", Type: SectionPlatform, LengthKm: 0.5, MaxSpeedKmh: 30, Capacity: 2, SignalBlocks: 1},
	}
}

// SampleTrains returns three demo trains whose schedules produce at least one
// conflict around the junction. Times are anchored on base so callers control
// determinism.
func SampleTrains(base time.Time) []Train {
	return []Train{
		{
			ID:                 "T001",
			Number:             "12345",
			Type:               TrainExpress,
			Priority:           4,
			Route:              []string{"SEC_001", "SEC_002", "SEC_003", "SEC_004", "SEC_005"},
			ScheduledArrival:   base.Add(time.Hour),
			ScheduledDeparture: base.Add(time.Hour + 30*time.Minute),
			MaxSpeedKmh:        160,
		},
		{
			ID:                 "T002",
			Number:             "56789",
			Type:               TrainLocal,
			Priority:           3,
			Route:              []string{"SEC_005", "SEC_004", "SEC_003", "SEC_002", "SEC_001"},
			ScheduledArrival:   base.Add(time.Hour + 15*time.Minute),
			ScheduledDeparture: base.Add(time.Hour + 45*time.Minute),
			MaxSpeedKmh:        100,
		},
		{
			ID:                 "T003",
			Number:             "FR001",
			Type:               TrainFreight,
			Priority:           1,
			Route:              []string{"SEC_001", "SEC_002", "SEC_004", "SEC_005"},
			ScheduledArrival:   base.Add(2 * time.Hour),
			ScheduledDeparture: base.Add(3 * time.Hour),
			MaxSpeedKmh:        80,
		},
	}
}
