package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/railctl/core/metrics"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	detections    prometheus.Counter
	conflicts     *prometheus.CounterVec
	optimizations prometheus.Counter
	addedDelay    prometheus.Counter
	trainDelay    *prometheus.GaugeVec
}

// NewPromSink registers sink metrics on the default Prometheus registerer.
// The Prometheus server is started separately using cfg.PrometheusAddr.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	detections, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detection_passes_total",
		Help: "Total number of detection passes recorded by the sink",
	}))
	if err != nil {
		return nil, err
	}
	conflicts, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "detection_conflicts_total",
		Help: "Conflicts recorded per detection pass",
	}, []string{"section_id", "severity"}))
	if err != nil {
		return nil, err
	}
	optimizations, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimization_passes_total",
		Help: "Total number of optimization passes recorded by the sink",
	}))
	if err != nil {
		return nil, err
	}
	addedDelay, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimization_added_delay_minutes_total",
		Help: "Delay minutes introduced by optimization passes",
	}))
	if err != nil {
		return nil, err
	}
	trainDelay, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "train_delay_minutes",
		Help: "Accumulated delay per train",
	}, []string{"train_number"}))
	if err != nil {
		return nil, err
	}

	return &PromSink{
		detections:    detections,
		conflicts:     conflicts,
		optimizations: optimizations,
		addedDelay:    addedDelay,
		trainDelay:    trainDelay,
	}, nil
}

// register registers c on reg, reusing the already-registered collector when
// another sink on the same registry created it first. Without the reuse a
// second sink would increment a collector no scrape ever sees.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDetection increments counters for each conflict of the pass.
func (s *PromSink) RecordDetection(ev coremetrics.DetectionEvent) error {
	s.detections.Inc()
	for _, c := range ev.Conflicts {
		s.conflicts.WithLabelValues(c.SectionID, strconv.Itoa(c.Severity)).Inc()
	}
	return nil
}

// RecordOptimization records the outcome of an optimization pass.
func (s *PromSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	s.optimizations.Inc()
	s.addedDelay.Add(float64(ev.Metrics.AdditionalDelay))
	return nil
}

// RecordTrainDelay sets the per-train delay gauge.
func (s *PromSink) RecordTrainDelay(ev coremetrics.TrainDelayEvent) error {
	s.trainDelay.WithLabelValues(ev.Number).Set(float64(ev.DelayMinutes))
	return nil
}
