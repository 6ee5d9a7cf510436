package metrics

import (
	"time"

	"github.com/kilianp07/railctl/core/model"
)

// DetectionEvent captures the outcome of one conflict detection pass.
type DetectionEvent struct {
	Trains    int
	Conflicts []model.Conflict
	Component string
	Time      time.Time
}

// OptimizationEvent captures the outcome of one optimization pass.
type OptimizationEvent struct {
	Metrics   model.OptimizationMetrics
	Component string
	Time      time.Time
}

// MetricsSink records engine events for observability purposes.
type MetricsSink interface {
	RecordDetection(ev DetectionEvent) error
}

// OptimizationRecorder is implemented by sinks able to record optimization
// outcomes.
type OptimizationRecorder interface {
	RecordOptimization(ev OptimizationEvent) error
}

// TrainDelayEvent is a snapshot of a train's accumulated delay.
type TrainDelayEvent struct {
	TrainID      string
	Number       string
	DelayMinutes int
	Component    string
	Time         time.Time
}

// TrainDelayRecorder records train delay snapshots.
type TrainDelayRecorder interface {
	RecordTrainDelay(ev TrainDelayEvent) error
}

// NopSink implements all recorder interfaces with no-op methods.
type NopSink struct{}

func (NopSink) RecordDetection(DetectionEvent) error       { return nil }
func (NopSink) RecordOptimization(OptimizationEvent) error { return nil }
func (NopSink) RecordTrainDelay(TrainDelayEvent) error     { return nil }
