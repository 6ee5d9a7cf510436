package model

import (
	"fmt"
	"time"
)

// TrainType classifies the service a train provides.
type TrainType int

const (
	TrainExpress TrainType = iota
	TrainLocal
	TrainFreight
	TrainHighSpeed
)

// String returns a human-readable representation of the train type.
func (t TrainType) String() string {
	switch t {
	case TrainExpress:
		return "EXPRESS"
	case TrainLocal:
		return "LOCAL"
	case TrainFreight:
		return "FREIGHT"
	case TrainHighSpeed:
		return "HIGH_SPEED"
	default:
		return "unknown"
	}
}

// ParseTrainType converts a string to a TrainType. Unknown values map to
// TrainLocal.
func ParseTrainType(s string) TrainType {
	switch s {
	case "EXPRESS":
		return TrainExpress
	case "LOCAL":
		return TrainLocal
	case "FREIGHT":
		return TrainFreight
	case "HIGH_SPEED":
		return TrainHighSpeed
	default:
		return TrainLocal
	}
}

// Train represents a scheduled train movement through the controlled area.
// Priority ranges from 1 to 5 where a lower value means a less important
// train; lower-priority trains are the first to absorb delays.
type Train struct {
	ID                 string
	Number             string // display code shown to controllers
	Type               TrainType
	Priority           int
	Route              []string // ordered section IDs the train traverses
	ScheduledArrival   time.Time
	ScheduledDeparture time.Time
	CurrentDelay       int // accumulated delay in minutes, never negative
	MaxSpeedKmh        int
}

// ActualArrival returns the scheduled arrival shifted by the current delay.
func (t Train) ActualArrival() time.Time {
	return t.ScheduledArrival.Add(time.Duration(t.CurrentDelay) * time.Minute)
}

// ActualDeparture returns the scheduled departure shifted by the current delay.
func (t Train) ActualDeparture() time.Time {
	return t.ScheduledDeparture.Add(time.Duration(t.CurrentDelay) * time.Minute)
}

// Schedulable reports whether the train can participate in conflict analysis.
// A train with an empty route or a non-positive journey duration is degenerate
// and simply excluded, it is not an error.
func (t Train) Schedulable() bool {
	return len(t.Route) > 0 && t.ScheduledDeparture.After(t.ScheduledArrival)
}

// Validate checks fields the outer layer must guarantee before handing a
// train to the engine.
func (t Train) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("train id is required")
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("train %s: priority %d out of range [1,5]", t.ID, t.Priority)
	}
	if t.CurrentDelay < 0 {
		return fmt.Errorf("train %s: negative delay %d", t.ID, t.CurrentDelay)
	}
	return nil
}

// Clone returns a copy of the train with its own route slice. The engine
// never mutates caller-owned trains in place.
func (t Train) Clone() Train {
	c := t
	c.Route = append([]string(nil), t.Route...)
	return c
}

func (t Train) String() string {
	return fmt.Sprintf("Train %s (%s)", t.Number, t.Type)
}
