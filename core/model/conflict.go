package model

import (
	"fmt"
	"time"
)

// Conflict records an overlapping occupancy of a shared section by two
// trains. One record is emitted per (train pair, shared section) with actual
// overlap; a pair sharing three overlapping sections yields three records.
type Conflict struct {
	ID        string
	TrainID1  string
	TrainID2  string
	Number1   string // display codes, carried for presentation
	Number2   string
	SectionID string
	Start     time.Time // overlap window start
	End       time.Time // overlap window end
	Severity  int       // 1..5, derived from the trains' priority gap
	Duration  float64   // overlap length in minutes
}

// ActiveAt reports whether the overlap window covers the given instant. This
// is a presentation helper, detection never filters on it.
func (c Conflict) ActiveAt(at time.Time) bool {
	return !at.Before(c.Start) && at.Before(c.End)
}

func (c Conflict) String() string {
	return fmt.Sprintf("Conflict: %s vs %s at %s", c.Number1, c.Number2, c.SectionID)
}

// OptimizationMetrics summarizes the outcome of one optimization pass.
type OptimizationMetrics struct {
	OriginalConflicts  int
	OptimizedConflicts int
	ConflictsResolved  int
	AdditionalDelay    int     // total minutes of delay introduced by the pass
	Effectiveness      float64 // percentage, 100 when OriginalConflicts == 0
}
