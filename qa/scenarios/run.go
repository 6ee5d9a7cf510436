package scenarios

import (
	"testing"
	"time"

	"github.com/kilianp07/railctl/core/conflict"
	"github.com/kilianp07/railctl/core/model"
	"github.com/kilianp07/railctl/core/optimizer"
	"github.com/kilianp07/railctl/infra/logger"
)

// Epoch anchors all scenario times so runs are deterministic.
var Epoch = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// Build converts the scenario definitions into engine inputs.
func (sc *Scenario) Build() ([]model.Train, []model.TrackSection) {
	trains := make([]model.Train, len(sc.Trains))
	for i, t := range sc.Trains {
		trains[i] = t.ToModel(Epoch)
	}
	sections := make([]model.TrackSection, len(sc.Sections))
	for i, s := range sc.Sections {
		sections[i] = s.ToModel()
	}
	return trains, sections
}

// RunScenario detects and optimizes the scenario snapshot and checks the
// expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	trains, sections := sc.Build()
	det := conflict.NewDetector()
	conflicts := det.Detect(trains, sections, Epoch)
	if len(conflicts) != sc.Expected.Conflicts {
		t.Errorf("scenario %s: expected %d conflicts, got %d", sc.Name, sc.Expected.Conflicts, len(conflicts))
	}
	if sc.Expected.MaxSeverity > 0 {
		maxSev := 0
		for _, c := range conflicts {
			if c.Severity > maxSev {
				maxSev = c.Severity
			}
		}
		if maxSev != sc.Expected.MaxSeverity {
			t.Errorf("scenario %s: expected max severity %d, got %d", sc.Name, sc.Expected.MaxSeverity, maxSev)
		}
	}

	opt := optimizer.New(det, logger.NopLogger{})
	res := opt.Optimize(trains, sections, conflicts)
	if res.Metrics.OptimizedConflicts != sc.Expected.RemainingAfterPass {
		t.Errorf("scenario %s: expected %d remaining conflicts, got %d",
			sc.Name, sc.Expected.RemainingAfterPass, res.Metrics.OptimizedConflicts)
	}
	if res.Metrics.AdditionalDelay != sc.Expected.AddedDelayMinutes {
		t.Errorf("scenario %s: expected %d delay minutes added, got %d",
			sc.Name, sc.Expected.AddedDelayMinutes, res.Metrics.AdditionalDelay)
	}
}
