package conflict

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/kilianp07/railctl/core/model"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func singleSection(id string) []model.TrackSection {
	return []model.TrackSection{{ID: id, Name: id, Type: model.SectionJunction, Capacity: 1, LengthKm: 2}}
}

func trainOn(id string, priority int, section string, arrival, departure time.Time) model.Train {
	return model.Train{
		ID:                 id,
		Number:             id,
		Type:               model.TrainLocal,
		Priority:           priority,
		Route:              []string{section},
		ScheduledArrival:   arrival,
		ScheduledDeparture: departure,
	}
}

func TestDetectSharedSectionOverlap(t *testing.T) {
	trains := []model.Train{
		trainOn("X", 4, "SEC_003", base, base.Add(20*time.Minute)),
		trainOn("Y", 2, "SEC_003", base.Add(10*time.Minute), base.Add(25*time.Minute)),
	}
	conflicts := NewDetector().Detect(trains, singleSection("SEC_003"), base)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.SectionID != "SEC_003" {
		t.Errorf("wrong section %s", c.SectionID)
	}
	if c.Severity != 4 {
		t.Errorf("expected severity 4, got %d", c.Severity)
	}
	if !c.Start.Equal(base.Add(10*time.Minute)) || !c.End.Equal(base.Add(20*time.Minute)) {
		t.Errorf("wrong overlap [%v, %v)", c.Start, c.End)
	}
	if c.Duration != 10.0 {
		t.Errorf("expected duration 10.0, got %v", c.Duration)
	}
	if c.ID == "" {
		t.Error("conflict id must be set")
	}
}

func TestDetectTouchingWindowsNoConflict(t *testing.T) {
	trains := []model.Train{
		trainOn("X", 3, "S1", base, base.Add(10*time.Minute)),
		trainOn("Y", 3, "S1", base.Add(10*time.Minute), base.Add(20*time.Minute)),
	}
	if got := NewDetector().Detect(trains, singleSection("S1"), base); len(got) != 0 {
		t.Fatalf("touching windows must not conflict, got %d", len(got))
	}
}

func TestDetectSeverityClamped(t *testing.T) {
	trains := []model.Train{
		trainOn("X", 5, "S1", base, base.Add(20*time.Minute)),
		trainOn("Y", 1, "S1", base.Add(5*time.Minute), base.Add(15*time.Minute)),
	}
	conflicts := NewDetector().Detect(trains, singleSection("S1"), base)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Severity != 5 {
		t.Errorf("severity must clamp to 5, got %d", conflicts[0].Severity)
	}
}

func TestDetectEqualPriorityMinSeverity(t *testing.T) {
	trains := []model.Train{
		trainOn("X", 3, "S1", base, base.Add(20*time.Minute)),
		trainOn("Y", 3, "S1", base.Add(5*time.Minute), base.Add(15*time.Minute)),
	}
	conflicts := NewDetector().Detect(trains, singleSection("S1"), base)
	if len(conflicts) != 1 || conflicts[0].Severity != 2 {
		t.Fatalf("expected one severity-2 conflict, got %+v", conflicts)
	}
}

func TestDetectIgnoresUnknownSections(t *testing.T) {
	trains := []model.Train{
		trainOn("X", 3, "GHOST", base, base.Add(20*time.Minute)),
		trainOn("Y", 3, "GHOST", base.Add(5*time.Minute), base.Add(15*time.Minute)),
	}
	if got := NewDetector().Detect(trains, singleSection("S1"), base); len(got) != 0 {
		t.Fatalf("unknown sections must be skipped, got %d conflicts", len(got))
	}
}

func TestDetectSkipsDegenerateTrains(t *testing.T) {
	trains := []model.Train{
		trainOn("X", 3, "S1", base, base.Add(20*time.Minute)),
		trainOn("Y", 3, "S1", base.Add(5*time.Minute), base.Add(5*time.Minute)),
	}
	if got := NewDetector().Detect(trains, singleSection("S1"), base); len(got) != 0 {
		t.Fatalf("degenerate train must produce no windows, got %d conflicts", len(got))
	}
}

type conflictKey struct {
	a, b, section string
	start, end    time.Time
	severity      int
}

func keyOf(c model.Conflict) conflictKey {
	a, b := c.TrainID1, c.TrainID2
	if a > b {
		a, b = b, a
	}
	return conflictKey{a: a, b: b, section: c.SectionID, start: c.Start, end: c.End, severity: c.Severity}
}

func TestDetectOrderIndependent(t *testing.T) {
	sections := model.SampleNetwork()
	trains := model.SampleTrains(base)
	det := NewDetector()

	want := make([]conflictKey, 0)
	for _, c := range det.Detect(trains, sections, base) {
		want = append(want, keyOf(c))
	}
	sortKeys(want)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.Train(nil), trains...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := make([]conflictKey, 0)
		for _, c := range det.Detect(shuffled, sections, base) {
			got = append(got, keyOf(c))
		}
		sortKeys(got)
		if len(got) != len(want) {
			t.Fatalf("permutation %d: %d conflicts, want %d", i, len(got), len(want))
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("permutation %d: conflict %d differs: %+v vs %+v", i, j, got[j], want[j])
			}
		}
	}
}

func sortKeys(ks []conflictKey) {
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].a != ks[j].a {
			return ks[i].a < ks[j].a
		}
		if ks[i].b != ks[j].b {
			return ks[i].b < ks[j].b
		}
		return ks[i].section < ks[j].section
	})
}
