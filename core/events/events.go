package events

import (
	"time"

	"github.com/kilianp07/railctl/core/model"
)

// TrainUpdateEvent is published when a train is added, updated or removed.
type TrainUpdateEvent struct {
	TrainID string
	Action  string // "added", "updated", "removed"
	Time    time.Time
}

// ConflictsDetectedEvent is published after a detection pass.
type ConflictsDetectedEvent struct {
	Trains    int // size of the snapshot the pass ran on
	Conflicts []model.Conflict
	At        time.Time
}

// OptimizeAppliedEvent is published after an optimization pass has been
// applied to the live snapshot.
type OptimizeAppliedEvent struct {
	Metrics model.OptimizationMetrics
	At      time.Time
}
