package conflict

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/railctl/core/model"
	"github.com/kilianp07/railctl/core/schedule"
)

// Detector finds overlapping section occupancies between train pairs.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect scans every unordered train pair for shared sections and emits one
// conflict per shared section with an actual overlap. The reference instant is
// carried through for callers that want to cross-reference "is this conflict
// currently active"; it never filters detection.
//
// Cost is O(T² · R) with T trains and R average route length; windows are
// recomputed per pair, which is acceptable at the scale a single controller
// handles.
func (d *Detector) Detect(trains []model.Train, sections []model.TrackSection, at time.Time) []model.Conflict {
	idx := model.SectionIndex(sections)
	var conflicts []model.Conflict
	for i := 0; i < len(trains); i++ {
		for j := i + 1; j < len(trains); j++ {
			t1, t2 := trains[i], trains[j]
			w1 := schedule.SectionWindows(t1)
			w2 := schedule.SectionWindows(t2)
			for _, sectionID := range sharedSections(t1.Route, t2.Route, idx) {
				win1, ok1 := w1[sectionID]
				win2, ok2 := w2[sectionID]
				if !ok1 || !ok2 || !win1.Overlaps(win2) {
					continue
				}
				overlap := win1.Intersect(win2)
				conflicts = append(conflicts, model.Conflict{
					ID:        uuid.NewString(),
					TrainID1:  t1.ID,
					TrainID2:  t2.ID,
					Number1:   t1.Number,
					Number2:   t2.Number,
					SectionID: sectionID,
					Start:     overlap.Start,
					End:       overlap.End,
					Severity:  severity(t1.Priority, t2.Priority),
					Duration:  overlap.Minutes(),
				})
			}
		}
	}
	bySeverity := make(map[int]int)
	for _, c := range conflicts {
		bySeverity[c.Severity]++
	}
	observeDetection(len(conflicts), bySeverity)
	return conflicts
}

// sharedSections returns the section ids present on both routes, restricted
// to known sections, in first-route order. Repeated route entries collapse to
// a single shared id.
func sharedSections(r1, r2 []string, known map[string]model.TrackSection) []string {
	onSecond := make(map[string]bool, len(r2))
	for _, id := range r2 {
		onSecond[id] = true
	}
	seen := make(map[string]bool, len(r1))
	var shared []string
	for _, id := range r1 {
		if seen[id] || !onSecond[id] {
			continue
		}
		seen[id] = true
		if _, ok := known[id]; !ok {
			continue
		}
		shared = append(shared, id)
	}
	return shared
}

// severity scores a conflict from the trains' priority gap, clamped to [1,5].
func severity(p1, p2 int) int {
	gap := p1 - p2
	if gap < 0 {
		gap = -gap
	}
	s := gap + 2
	if s < 1 {
		s = 1
	}
	if s > 5 {
		s = 5
	}
	return s
}
