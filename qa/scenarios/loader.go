package scenarios

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/railctl/core/model"
)

type SectionDef struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Capacity int     `yaml:"capacity"`
	LengthKm float64 `yaml:"length_km"`
}

func (s SectionDef) ToModel() model.TrackSection {
	capacity := s.Capacity
	if capacity == 0 {
		capacity = 1
	}
	return model.TrackSection{
		ID:       s.ID,
		Name:     s.Name,
		Type:     model.ParseSectionType(s.Type),
		Capacity: capacity,
		LengthKm: s.LengthKm,
	}
}

type TrainDef struct {
	ID           string   `yaml:"id"`
	Number       string   `yaml:"number"`
	Type         string   `yaml:"type"`
	Priority     int      `yaml:"priority"`
	Route        []string `yaml:"route"`
	ArrivalMin   int      `yaml:"arrival_min"`   // minutes after scenario epoch
	DepartureMin int      `yaml:"departure_min"` // minutes after scenario epoch
	DelayMin     int      `yaml:"delay_min,omitempty"`
}

func (t TrainDef) ToModel(epoch time.Time) model.Train {
	return model.Train{
		ID:                 t.ID,
		Number:             t.Number,
		Type:               model.ParseTrainType(t.Type),
		Priority:           t.Priority,
		Route:              t.Route,
		ScheduledArrival:   epoch.Add(time.Duration(t.ArrivalMin) * time.Minute),
		ScheduledDeparture: epoch.Add(time.Duration(t.DepartureMin) * time.Minute),
		CurrentDelay:       t.DelayMin,
	}
}

type Expected struct {
	Conflicts          int `yaml:"conflicts"`
	MaxSeverity        int `yaml:"max_severity,omitempty"`
	RemainingAfterPass int `yaml:"remaining_after_pass"`
	AddedDelayMinutes  int `yaml:"added_delay_minutes"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Sections    []SectionDef `yaml:"sections"`
	Trains      []TrainDef   `yaml:"trains"`
	Expected    Expected     `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
