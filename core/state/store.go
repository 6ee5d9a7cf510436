package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kilianp07/railctl/core/model"
	"github.com/kilianp07/railctl/core/optimizer"
)

// Store owns the live traffic snapshot: the train set and the track layout.
// All reads hand out copies; the engine never sees caller-shared slices.
// Mutating calls take the write lock, so the single-writer discipline the
// optimizer requires holds as long as all writers go through the store.
type Store struct {
	mu       sync.RWMutex
	trains   map[string]model.Train
	sections []model.TrackSection
}

// New creates a store seeded with the given snapshot.
func New(trains []model.Train, sections []model.TrackSection) *Store {
	s := &Store{}
	s.Replace(trains, sections)
	return s
}

// Replace swaps the entire snapshot.
func (s *Store) Replace(trains []model.Train, sections []model.TrackSection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trains = make(map[string]model.Train, len(trains))
	for _, t := range trains {
		s.trains[t.ID] = t.Clone()
	}
	s.sections = append([]model.TrackSection(nil), sections...)
}

// Reset restores the sample snapshot anchored on base.
func (s *Store) Reset(base time.Time) {
	s.Replace(model.SampleTrains(base), model.SampleNetwork())
}

// Trains returns a copy of the train set ordered by ID.
func (s *Store) Trains() []model.Train {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Train, 0, len(s.trains))
	for _, t := range s.trains {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sections returns a copy of the track layout.
func (s *Store) Sections() []model.TrackSection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TrackSection(nil), s.sections...)
}

// Snapshot returns copies of both trains and sections under one lock.
func (s *Store) Snapshot() ([]model.Train, []model.TrackSection) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trains := make([]model.Train, 0, len(s.trains))
	for _, t := range s.trains {
		trains = append(trains, t.Clone())
	}
	sort.Slice(trains, func(i, j int) bool { return trains[i].ID < trains[j].ID })
	return trains, append([]model.TrackSection(nil), s.sections...)
}

// AddTrain validates and inserts a new train. Route entries must reference
// known sections; the engine itself tolerates unknown ids, but the outer
// layer is responsible for rejecting them before they enter the snapshot.
func (s *Store) AddTrain(t model.Train) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.trains[t.ID]; exists {
		return fmt.Errorf("train %s already exists", t.ID)
	}
	idx := model.SectionIndex(s.sections)
	for _, id := range t.Route {
		if _, ok := idx[id]; !ok {
			return fmt.Errorf("train %s: route references unknown section %s", t.ID, id)
		}
	}
	s.trains[t.ID] = t.Clone()
	return nil
}

// UpdateDelay sets a train's accumulated delay. Delay never decreases through
// this path below zero; negative values are rejected.
func (s *Store) UpdateDelay(trainID string, delayMinutes int) error {
	if delayMinutes < 0 {
		return fmt.Errorf("train %s: negative delay %d", trainID, delayMinutes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trains[trainID]
	if !ok {
		return fmt.Errorf("unknown train %s", trainID)
	}
	t.CurrentDelay = delayMinutes
	s.trains[trainID] = t
	return nil
}

// RemoveTrain deletes a train from the snapshot. Removing an unknown train is
// a no-op.
func (s *Store) RemoveTrain(trainID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trains, trainID)
}

// ApplyOptimize replaces the train set with the outcome of an optimization
// pass. The result must have been computed from this store's snapshot; the
// caller serializes optimize invocations.
func (s *Store) ApplyOptimize(res optimizer.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trains = make(map[string]model.Train, len(res.Trains))
	for _, t := range res.Trains {
		s.trains[t.ID] = t.Clone()
	}
}

// NextTrainID generates a fresh id in the Tnnn form used by the sample data.
// The highest existing numeric id is scanned so removals never make the next
// id collide with a surviving train.
func (s *Store) NextTrainID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for id := range s.trains {
		var n int
		if _, err := fmt.Sscanf(id, "T%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("T%03d", max+1)
}
