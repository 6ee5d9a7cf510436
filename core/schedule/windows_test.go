package schedule

import (
	"testing"
	"time"

	"github.com/kilianp07/railctl/core/model"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestSectionWindowsEvenDivision(t *testing.T) {
	train := model.Train{
		ID:                 "T1",
		Route:              []string{"S1", "S2"},
		ScheduledArrival:   base,
		ScheduledDeparture: base.Add(20 * time.Minute),
	}
	w := SectionWindows(train)
	if len(w) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(w))
	}
	if !w["S1"].Start.Equal(base) || !w["S1"].End.Equal(base.Add(10*time.Minute)) {
		t.Errorf("S1 window wrong: %+v", w["S1"])
	}
	if !w["S2"].Start.Equal(base.Add(10*time.Minute)) || !w["S2"].End.Equal(base.Add(20*time.Minute)) {
		t.Errorf("S2 window wrong: %+v", w["S2"])
	}
}

func TestSectionWindowsDelayShiftsAll(t *testing.T) {
	train := model.Train{
		ID:                 "T1",
		Route:              []string{"S1", "S2"},
		ScheduledArrival:   base,
		ScheduledDeparture: base.Add(20 * time.Minute),
		CurrentDelay:       15,
	}
	w := SectionWindows(train)
	if !w["S1"].Start.Equal(base.Add(15 * time.Minute)) {
		t.Errorf("delay not applied to first window: %+v", w["S1"])
	}
	if !w["S2"].End.Equal(base.Add(35 * time.Minute)) {
		t.Errorf("delay not applied to last window: %+v", w["S2"])
	}
}

func TestSectionWindowsDegenerateTrains(t *testing.T) {
	cases := map[string]model.Train{
		"empty route": {
			ID:                 "T1",
			ScheduledArrival:   base,
			ScheduledDeparture: base.Add(time.Hour),
		},
		"zero duration": {
			ID:                 "T2",
			Route:              []string{"S1"},
			ScheduledArrival:   base,
			ScheduledDeparture: base,
		},
		"negative duration": {
			ID:                 "T3",
			Route:              []string{"S1"},
			ScheduledArrival:   base,
			ScheduledDeparture: base.Add(-time.Hour),
		},
	}
	for name, train := range cases {
		if w := SectionWindows(train); len(w) != 0 {
			t.Errorf("%s: expected empty map, got %d windows", name, len(w))
		}
	}
}

func TestSectionWindowsRepeatedSectionLastWins(t *testing.T) {
	train := model.Train{
		ID:                 "T1",
		Route:              []string{"S1", "S2", "S1"},
		ScheduledArrival:   base,
		ScheduledDeparture: base.Add(30 * time.Minute),
	}
	w := SectionWindows(train)
	if len(w) != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", len(w))
	}
	// Index 2 overwrites index 0.
	if !w["S1"].Start.Equal(base.Add(20 * time.Minute)) {
		t.Errorf("expected last route entry to win for S1, got %+v", w["S1"])
	}
}

func TestSectionWindowsPure(t *testing.T) {
	train := model.Train{
		ID:                 "T1",
		Route:              []string{"S1", "S2", "S3"},
		ScheduledArrival:   base,
		ScheduledDeparture: base.Add(45 * time.Minute),
		CurrentDelay:       5,
	}
	a := SectionWindows(train)
	b := SectionWindows(train)
	for id, wa := range a {
		if wb := b[id]; !wa.Start.Equal(wb.Start) || !wa.End.Equal(wb.End) {
			t.Fatalf("windows differ for %s: %+v vs %+v", id, wa, wb)
		}
	}
}

func TestWindowOverlapStrict(t *testing.T) {
	a := Window{Start: base, End: base.Add(10 * time.Minute)}
	b := Window{Start: base.Add(10 * time.Minute), End: base.Add(20 * time.Minute)}
	if a.Overlaps(b) {
		t.Error("touching endpoints must not overlap")
	}
	c := Window{Start: base.Add(9 * time.Minute), End: base.Add(20 * time.Minute)}
	if !a.Overlaps(c) {
		t.Error("expected overlap")
	}
	got := a.Intersect(c)
	if !got.Start.Equal(c.Start) || !got.End.Equal(a.End) {
		t.Errorf("unexpected intersection %+v", got)
	}
	if got.Minutes() != 1 {
		t.Errorf("expected 1 minute, got %v", got.Minutes())
	}
}
