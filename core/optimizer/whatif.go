package optimizer

import (
	"fmt"
	"time"

	"github.com/kilianp07/railctl/core/conflict"
	"github.com/kilianp07/railctl/core/model"
)

// WhatIf compares optimization outcomes across hypothetical scenarios without
// touching the live snapshot.
type WhatIf struct {
	optimizer *Optimizer
	detector  *conflict.Detector
}

// NewWhatIf creates an analyzer on top of the given optimizer and detector.
func NewWhatIf(opt *Optimizer, det *conflict.Detector) *WhatIf {
	return &WhatIf{optimizer: opt, detector: det}
}

// Impact quantifies the difference between the baseline and the scenario.
type Impact struct {
	ConflictsChange int `json:"conflicts_change"`
	DelayChange     int `json:"delay_change_minutes"`
}

// Analysis is the result of a what-if comparison.
type Analysis struct {
	Description     string                    `json:"scenario_description"`
	BaselineMetrics model.OptimizationMetrics `json:"baseline_metrics"`
	ScenarioMetrics model.OptimizationMetrics `json:"scenario_metrics"`
	Impact          Impact                    `json:"impact"`
}

// AnalyzeDelay reports the impact of adding extra delay to one train.
func (w *WhatIf) AnalyzeDelay(trains []model.Train, sections []model.TrackSection, trainID string, extraMinutes int) (Analysis, error) {
	scenario, err := cloneWith(trains, trainID, func(t *model.Train) {
		t.CurrentDelay += extraMinutes
	})
	if err != nil {
		return Analysis{}, err
	}
	desc := fmt.Sprintf("Train %s delayed by %d minutes", trainID, extraMinutes)
	return w.compare(desc, trains, scenario, sections), nil
}

// AnalyzePriority reports the impact of changing one train's priority.
func (w *WhatIf) AnalyzePriority(trains []model.Train, sections []model.TrackSection, trainID string, newPriority int) (Analysis, error) {
	if newPriority < 1 || newPriority > 5 {
		return Analysis{}, fmt.Errorf("priority %d out of range [1,5]", newPriority)
	}
	var oldPriority int
	scenario, err := cloneWith(trains, trainID, func(t *model.Train) {
		oldPriority = t.Priority
		t.Priority = newPriority
	})
	if err != nil {
		return Analysis{}, err
	}
	desc := fmt.Sprintf("Train %s priority changed from %d to %d", trainID, oldPriority, newPriority)
	return w.compare(desc, trains, scenario, sections), nil
}

func (w *WhatIf) compare(desc string, baseline, scenario []model.Train, sections []model.TrackSection) Analysis {
	baseRes := w.optimizer.Optimize(baseline, sections, w.detector.Detect(baseline, sections, time.Time{}))
	scenRes := w.optimizer.Optimize(scenario, sections, w.detector.Detect(scenario, sections, time.Time{}))
	return Analysis{
		Description:     desc,
		BaselineMetrics: baseRes.Metrics,
		ScenarioMetrics: scenRes.Metrics,
		Impact: Impact{
			ConflictsChange: scenRes.Metrics.OptimizedConflicts - baseRes.Metrics.OptimizedConflicts,
			DelayChange:     totalDelay(scenRes.Trains) - totalDelay(baseRes.Trains),
		},
	}
}

func cloneWith(trains []model.Train, trainID string, mutate func(*model.Train)) ([]model.Train, error) {
	out := make([]model.Train, len(trains))
	found := false
	for i, t := range trains {
		out[i] = t.Clone()
		if t.ID == trainID {
			mutate(&out[i])
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown train %s", trainID)
	}
	return out, nil
}

func totalDelay(trains []model.Train) int {
	sum := 0
	for _, t := range trains {
		sum += t.CurrentDelay
	}
	return sum
}
