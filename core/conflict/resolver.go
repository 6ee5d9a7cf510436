package conflict

import (
	"fmt"
	"math"

	"github.com/kilianp07/railctl/core/model"
)

// Resolver produces human-readable resolution suggestions for conflicts. The
// suggestions are advisory; applying delays is the optimizer's job.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Suggest returns resolution suggestions keyed by conflict ID. Severe
// conflicts lead with delay and rerouting options, mild ones with speed
// adjustment. Trains are used to look up priorities; suggestions for
// conflicts referencing unknown trains fall back to section-level advice.
func (r *Resolver) Suggest(conflicts []model.Conflict, trains []model.Train) map[string][]string {
	byID := make(map[string]model.Train, len(trains))
	for _, t := range trains {
		byID[t.ID] = t
	}
	out := make(map[string][]string, len(conflicts))
	for _, c := range conflicts {
		var suggestions []string
		if c.Severity >= 4 {
			if s, ok := r.delaySuggestion(c, byID); ok {
				suggestions = append(suggestions, s)
			}
			suggestions = append(suggestions, fmt.Sprintf(
				"Consider alternative routing for one of the trains to avoid section %s", c.SectionID))
		} else {
			suggestions = append(suggestions, fmt.Sprintf(
				"Adjust speed of trains to minimize overlap in section %s", c.SectionID))
			if s, ok := r.delaySuggestion(c, byID); ok {
				suggestions = append(suggestions, s)
			}
		}
		out[c.ID] = suggestions
	}
	return out
}

func (r *Resolver) delaySuggestion(c model.Conflict, trains map[string]model.Train) (string, bool) {
	t1, ok1 := trains[c.TrainID1]
	t2, ok2 := trains[c.TrainID2]
	if !ok1 || !ok2 {
		return "", false
	}
	lower, higher := t1, t2
	if t2.Priority < t1.Priority {
		lower, higher = t2, t1
	}
	// Overlap duration plus a small margin clears the section.
	delay := int(math.Ceil(c.Duration)) + 5
	return fmt.Sprintf("Delay train %s by %d minutes to give precedence to higher priority train %s",
		lower.Number, delay, higher.Number), true
}
