package conflict

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/railctl/core/model"
)

// Summary aggregates a conflict set for reporting.
type Summary struct {
	Total             int         `json:"total_conflicts"`
	SeverityBreakdown map[int]int `json:"severity_breakdown"`
	SectionsAffected  []string    `json:"sections_affected"`
	TrainsAffected    []string    `json:"trains_affected"`
	Critical          int         `json:"critical_conflicts"` // severity >= 4
	MeanDuration      float64     `json:"mean_duration_minutes"`
	StdDevDuration    float64     `json:"stddev_duration_minutes"`
}

// Summarize builds a Summary from the given conflicts.
func Summarize(conflicts []model.Conflict) Summary {
	s := Summary{SeverityBreakdown: map[int]int{}}
	if len(conflicts) == 0 {
		return s
	}
	sections := map[string]bool{}
	trains := map[string]bool{}
	durations := make([]float64, 0, len(conflicts))
	for _, c := range conflicts {
		s.Total++
		s.SeverityBreakdown[c.Severity]++
		if c.Severity >= 4 {
			s.Critical++
		}
		sections[c.SectionID] = true
		trains[c.Number1] = true
		trains[c.Number2] = true
		durations = append(durations, c.Duration)
	}
	s.SectionsAffected = sortedKeys(sections)
	s.TrainsAffected = sortedKeys(trains)
	s.MeanDuration = stat.Mean(durations, nil)
	if len(durations) > 1 {
		s.StdDevDuration = stat.StdDev(durations, nil)
	}
	return s
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
