package schedule

import (
	"time"

	"github.com/kilianp07/railctl/core/model"
)

// Window is the time interval during which a train occupies a section.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two windows strictly overlap. Touching endpoints
// do not count as overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Intersect returns the overlap window of two windows. Only meaningful when
// Overlaps holds.
func (w Window) Intersect(o Window) Window {
	out := w
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	return out
}

// Minutes returns the window length in minutes.
func (w Window) Minutes() float64 {
	return w.End.Sub(w.Start).Minutes()
}

// SectionWindows computes when the train occupies each section on its route.
// The journey duration is divided evenly across the route; window i starts at
// actual arrival plus i segment durations. A train with an empty route or a
// non-positive journey duration yields an empty map and is thereby excluded
// from all conflict analysis.
//
// If the route visits the same section id twice, the later route index wins
// in the returned map.
func SectionWindows(t model.Train) map[string]Window {
	windows := make(map[string]Window)
	if !t.Schedulable() {
		return windows
	}
	journey := t.ScheduledDeparture.Sub(t.ScheduledArrival)
	segment := journey / time.Duration(len(t.Route))
	start := t.ActualArrival()
	for _, sectionID := range t.Route {
		end := start.Add(segment)
		windows[sectionID] = Window{Start: start, End: end}
		start = end
	}
	return windows
}
