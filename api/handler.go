package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/railctl/core/conflict"
	"github.com/kilianp07/railctl/core/events"
	"github.com/kilianp07/railctl/core/logger"
	"github.com/kilianp07/railctl/core/model"
	"github.com/kilianp07/railctl/core/optimizer"
	"github.com/kilianp07/railctl/core/schedule"
	"github.com/kilianp07/railctl/core/state"
	"github.com/kilianp07/railctl/internal/eventbus"
)

// Clock abstracts wall-clock access so handlers stay testable.
type Clock func() time.Time

// Server exposes the engine over HTTP with JSON payloads. All input
// validation lives here; the engine itself degrades gracefully on anything
// that slips through.
type Server struct {
	store     *state.Store
	detector  *conflict.Detector
	optimizer *optimizer.Optimizer
	resolver  *conflict.Resolver
	whatIf    *optimizer.WhatIf
	bus       eventbus.EventBus
	log       logger.Logger
	now       Clock
}

// NewServer creates a Server. A nil clock defaults to time.Now.
func NewServer(store *state.Store, det *conflict.Detector, opt *optimizer.Optimizer, bus eventbus.EventBus, log logger.Logger, now Clock) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:     store,
		detector:  det,
		optimizer: opt,
		resolver:  conflict.NewResolver(),
		whatIf:    optimizer.NewWhatIf(opt, det),
		bus:       bus,
		log:       log,
		now:       now,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/trains", s.handleTrains)
	mux.HandleFunc("/api/sections", s.handleSections)
	mux.HandleFunc("/api/conflicts", s.handleConflicts)
	mux.HandleFunc("/api/schedule", s.handleSchedule)
	mux.HandleFunc("/api/optimize", s.handleOptimize)
	mux.HandleFunc("/api/whatif/delay", s.handleWhatIfDelay)
	mux.HandleFunc("/api/whatif/priority", s.handleWhatIfPriority)
	mux.HandleFunc("/api/reset", s.handleReset)
	return mux
}

type trainPayload struct {
	Number       string   `json:"train_number"`
	Type         string   `json:"train_type"`
	Priority     int      `json:"priority"`
	Route        []string `json:"route"`
	Arrival      string   `json:"arrival_time"`
	Departure    string   `json:"departure_time"`
	DelayMinutes int      `json:"delay"`
}

func (s *Server) handleTrains(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.store.Trains())
	case http.MethodPost:
		var p trainPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		arrival, err := time.Parse(time.RFC3339, p.Arrival)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		departure, err := time.Parse(time.RFC3339, p.Departure)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		t := model.Train{
			ID:                 s.store.NextTrainID(),
			Number:             p.Number,
			Type:               model.ParseTrainType(p.Type),
			Priority:           p.Priority,
			Route:              p.Route,
			ScheduledArrival:   arrival,
			ScheduledDeparture: departure,
			CurrentDelay:       p.DelayMinutes,
		}
		if err := s.store.AddTrain(t); err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		if s.bus != nil {
			s.bus.Publish(events.TrainUpdateEvent{TrainID: t.ID, Action: "added", Time: s.now()})
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(t); err != nil {
			s.log.Errorf("encode train: %v", err)
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	trains, sections := s.store.Snapshot()
	schedules := schedule.BuildSchedules(trains, sections)
	now := s.now()
	type sectionInfo struct {
		Section     model.TrackSection       `json:"section"`
		Schedule    schedule.SectionSchedule `json:"schedule"`
		Occupancy   []string                 `json:"current_occupancy"`
		Utilization float64                  `json:"utilization"`
	}
	out := make([]sectionInfo, 0, len(sections))
	for _, sec := range sections {
		ss := schedules[sec.ID]
		out = append(out, sectionInfo{
			Section:     sec,
			Schedule:    ss,
			Occupancy:   ss.OccupantsAt(now),
			Utilization: ss.Utilization(sec, now),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	trains, sections := s.store.Snapshot()
	conflicts := s.detector.Detect(trains, sections, s.now())
	if s.bus != nil {
		s.bus.Publish(events.ConflictsDetectedEvent{Trains: len(trains), Conflicts: conflicts, At: s.now()})
	}
	writeJSON(w, map[string]any{
		"conflicts":   conflicts,
		"summary":     conflict.Summarize(conflicts),
		"resolutions": s.resolver.Suggest(conflicts, trains),
	})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	trains, sections := s.store.Snapshot()
	writeJSON(w, schedule.BuildSchedules(trains, sections))
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	trains, sections := s.store.Snapshot()
	conflicts := s.detector.Detect(trains, sections, s.now())
	res := s.optimizer.Optimize(trains, sections, conflicts)
	s.store.ApplyOptimize(res)
	if s.bus != nil {
		s.bus.Publish(events.OptimizeAppliedEvent{Metrics: res.Metrics, At: s.now()})
	}
	writeJSON(w, map[string]any{
		"success":             true,
		"metrics":             res.Metrics,
		"conflicts_remaining": len(res.Remaining),
	})
}

func (s *Server) handleWhatIfDelay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p struct {
		TrainID      string `json:"train_id"`
		DelayMinutes int    `json:"delay_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	trains, sections := s.store.Snapshot()
	analysis, err := s.whatIf.AnalyzeDelay(trains, sections, p.TrainID, p.DelayMinutes)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleWhatIfPriority(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p struct {
		TrainID     string `json:"train_id"`
		NewPriority int    `json:"new_priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	trains, sections := s.store.Snapshot()
	analysis, err := s.whatIf.AnalyzePriority(trains, sections, p.TrainID, p.NewPriority)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.store.Reset(s.now().Truncate(time.Hour))
	writeJSON(w, map[string]any{"success": true, "message": "system reset to sample data"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func httpError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
