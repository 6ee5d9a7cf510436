package state

import (
	"testing"
	"time"

	"github.com/kilianp07/railctl/core/conflict"
	"github.com/kilianp07/railctl/core/model"
	"github.com/kilianp07/railctl/core/optimizer"
)

var base = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func sampleStore() *Store {
	return New(model.SampleTrains(base), model.SampleNetwork())
}

func TestTrainsSortedAndCopied(t *testing.T) {
	s := sampleStore()
	trains := s.Trains()
	if len(trains) != 3 {
		t.Fatalf("expected 3 sample trains, got %d", len(trains))
	}
	for i := 1; i < len(trains); i++ {
		if trains[i-1].ID >= trains[i].ID {
			t.Fatalf("trains not sorted: %s before %s", trains[i-1].ID, trains[i].ID)
		}
	}
	trains[0].CurrentDelay = 999
	trains[0].Route[0] = "CHANGED"
	fresh := s.Trains()
	if fresh[0].CurrentDelay == 999 || fresh[0].Route[0] == "CHANGED" {
		t.Fatal("store handed out shared state")
	}
}

func TestAddTrain(t *testing.T) {
	s := sampleStore()
	ok := model.Train{
		ID:                 "T010",
		Number:             "999",
		Priority:           3,
		Route:              []string{"SEC_001", "SEC_002"},
		ScheduledArrival:   base,
		ScheduledDeparture: base.Add(time.Hour),
	}
	if err := s.AddTrain(ok); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddTrain(ok); err == nil {
		t.Error("duplicate id must be rejected")
	}
	badRoute := ok
	badRoute.ID = "T011"
	badRoute.Route = []string{"SEC_001", "GHOST"}
	if err := s.AddTrain(badRoute); err == nil {
		t.Error("unknown section in route must be rejected")
	}
	badPriority := ok
	badPriority.ID = "T012"
	badPriority.Priority = 9
	if err := s.AddTrain(badPriority); err == nil {
		t.Error("invalid priority must be rejected")
	}
}

func TestUpdateDelay(t *testing.T) {
	s := sampleStore()
	if err := s.UpdateDelay("T001", 25); err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, tr := range s.Trains() {
		if tr.ID == "T001" && tr.CurrentDelay != 25 {
			t.Errorf("delay not applied, got %d", tr.CurrentDelay)
		}
	}
	if err := s.UpdateDelay("T001", -5); err == nil {
		t.Error("negative delay must be rejected")
	}
	if err := s.UpdateDelay("GHOST", 5); err == nil {
		t.Error("unknown train must be rejected")
	}
}

func TestRemoveTrainNoOpOnUnknown(t *testing.T) {
	s := sampleStore()
	s.RemoveTrain("GHOST")
	s.RemoveTrain("T003")
	if got := len(s.Trains()); got != 2 {
		t.Fatalf("expected 2 trains after removal, got %d", got)
	}
}

func TestApplyOptimizeReplacesTrains(t *testing.T) {
	s := sampleStore()
	trains, sections := s.Snapshot()
	det := conflict.NewDetector()
	res := optimizer.New(det, nil).Optimize(trains, sections, det.Detect(trains, sections, base))
	s.ApplyOptimize(res)

	stored := s.Trains()
	total := 0
	for _, tr := range stored {
		total += tr.CurrentDelay
	}
	if total != res.Metrics.AdditionalDelay {
		t.Errorf("store delay %d does not match pass outcome %d", total, res.Metrics.AdditionalDelay)
	}
}

func TestResetRestoresSample(t *testing.T) {
	s := sampleStore()
	s.RemoveTrain("T001")
	s.RemoveTrain("T002")
	s.Reset(base)
	if got := len(s.Trains()); got != 3 {
		t.Fatalf("expected sample restored, got %d trains", got)
	}
}

func TestNextTrainID(t *testing.T) {
	s := sampleStore()
	if id := s.NextTrainID(); id != "T004" {
		t.Fatalf("expected T004, got %s", id)
	}
}

func TestNextTrainIDAfterRemoval(t *testing.T) {
	s := sampleStore()
	s.RemoveTrain("T001")
	id := s.NextTrainID()
	if id != "T004" {
		t.Fatalf("expected T004 after removing T001, got %s", id)
	}
	train := model.Train{
		ID:                 id,
		Number:             "424",
		Priority:           3,
		Route:              []string{"SEC_001"},
		ScheduledArrival:   base,
		ScheduledDeparture: base.Add(time.Hour),
	}
	if err := s.AddTrain(train); err != nil {
		t.Fatalf("generated id must not collide: %v", err)
	}
}
