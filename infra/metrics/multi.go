package metrics

import coremetrics "github.com/kilianp07/railctl/core/metrics"

// MultiSink fans out engine events to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDetection forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordDetection(ev coremetrics.DetectionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDetection(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordOptimization forwards optimization events when supported by the sink.
func (m *MultiSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.OptimizationRecorder); ok {
			if err := rec.RecordOptimization(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTrainDelay forwards delay snapshots when supported by the sink.
func (m *MultiSink) RecordTrainDelay(ev coremetrics.TrainDelayEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.TrainDelayRecorder); ok {
			if err := rec.RecordTrainDelay(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
