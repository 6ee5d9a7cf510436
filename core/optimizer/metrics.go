package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/railctl/core/model"
)

var (
	optimizationRuns  prometheus.Counter
	conflictsResolved prometheus.Counter
	delayIntroduced   prometheus.Counter
	effectivenessPct  prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Gauge) {
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimization_runs_total",
		Help: "Number of optimization passes executed",
	})
	res := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimization_conflicts_resolved_total",
		Help: "Number of conflicts resolved across all optimization passes",
	})
	delay := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimization_delay_minutes_total",
		Help: "Total delay minutes introduced by optimization passes",
	})
	eff := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimization_effectiveness_percent",
		Help: "Effectiveness of the most recent optimization pass",
	})
	return runs, res, delay, eff
}

func init() {
	optimizationRuns, conflictsResolved, delayIntroduced, effectivenessPct = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers optimizer metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(optimizationRuns, conflictsResolved, delayIntroduced, effectivenessPct)
}

// ResetMetrics reinitializes collectors for testing purposes and registers
// them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	optimizationRuns, conflictsResolved, delayIntroduced, effectivenessPct = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

func observeOptimization(m model.OptimizationMetrics) {
	optimizationRuns.Inc()
	conflictsResolved.Add(float64(m.ConflictsResolved))
	delayIntroduced.Add(float64(m.AdditionalDelay))
	effectivenessPct.Set(m.Effectiveness)
}
