package conflict

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	detectionRuns     prometheus.Counter
	conflictsDetected *prometheus.CounterVec
	activeConflicts   prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, *prometheus.CounterVec, prometheus.Gauge) {
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflict_detection_runs_total",
		Help: "Number of conflict detection passes executed",
	})
	det := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflicts_detected_total",
		Help: "Number of conflicts detected",
	}, []string{"severity"})
	act := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "conflicts_active",
		Help: "Number of conflicts found by the most recent detection pass",
	})
	return runs, det, act
}

func init() {
	detectionRuns, conflictsDetected, activeConflicts = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers detection metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(detectionRuns, conflictsDetected, activeConflicts)
}

// ResetMetrics reinitializes collectors for testing purposes and registers
// them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	detectionRuns, conflictsDetected, activeConflicts = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

// observeDetection records the outcome of one detection pass.
func observeDetection(conflicts int, bySeverity map[int]int) {
	detectionRuns.Inc()
	activeConflicts.Set(float64(conflicts))
	for sev, n := range bySeverity {
		conflictsDetected.WithLabelValues(strconv.Itoa(sev)).Add(float64(n))
	}
}
