package schedule

import (
	"sort"
	"time"

	"github.com/kilianp07/railctl/core/model"
)

// Slot is one train's occupancy of a section.
type Slot struct {
	TrainID  string    `json:"train_id"`
	Number   string    `json:"train_number"`
	Type     string    `json:"train_type"`
	Priority int       `json:"priority"`
	Start    time.Time `json:"start_time"`
	End      time.Time `json:"end_time"`
}

// SectionSchedule lists all occupancy slots of one section ordered by start
// time.
type SectionSchedule struct {
	SectionID string `json:"section_id"`
	Slots     []Slot `json:"slots"`
}

// OccupantsAt returns the IDs of trains occupying the section at the given
// instant.
func (s SectionSchedule) OccupantsAt(at time.Time) []string {
	var ids []string
	for _, sl := range s.Slots {
		if !at.Before(sl.Start) && at.Before(sl.End) {
			ids = append(ids, sl.TrainID)
		}
	}
	return ids
}

// Utilization returns the occupancy of the section at the given instant as a
// percentage of its capacity.
func (s SectionSchedule) Utilization(sec model.TrackSection, at time.Time) float64 {
	if sec.Capacity <= 0 {
		return 0
	}
	return float64(len(s.OccupantsAt(at))) / float64(sec.Capacity) * 100
}

// BuildSchedules aggregates all trains' windows into per-section schedules.
// Route entries referencing an unknown section id are skipped, they produce
// no slot.
func BuildSchedules(trains []model.Train, sections []model.TrackSection) map[string]SectionSchedule {
	idx := model.SectionIndex(sections)
	out := make(map[string]SectionSchedule, len(sections))
	for _, sec := range sections {
		out[sec.ID] = SectionSchedule{SectionID: sec.ID}
	}
	for _, t := range trains {
		for sectionID, w := range SectionWindows(t) {
			if _, known := idx[sectionID]; !known {
				continue
			}
			ss := out[sectionID]
			ss.Slots = append(ss.Slots, Slot{
				TrainID:  t.ID,
				Number:   t.Number,
				Type:     t.Type.String(),
				Priority: t.Priority,
				Start:    w.Start,
				End:      w.End,
			})
			out[sectionID] = ss
		}
	}
	for id, ss := range out {
		sort.Slice(ss.Slots, func(i, j int) bool {
			if ss.Slots[i].Start.Equal(ss.Slots[j].Start) {
				return ss.Slots[i].TrainID < ss.Slots[j].TrainID
			}
			return ss.Slots[i].Start.Before(ss.Slots[j].Start)
		})
		out[id] = ss
	}
	return out
}
