package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/railctl/api"
	"github.com/kilianp07/railctl/config"
	"github.com/kilianp07/railctl/core/conflict"
	"github.com/kilianp07/railctl/core/events"
	coremetrics "github.com/kilianp07/railctl/core/metrics"
	"github.com/kilianp07/railctl/core/model"
	"github.com/kilianp07/railctl/core/optimizer"
	"github.com/kilianp07/railctl/core/state"
	"github.com/kilianp07/railctl/infra/logger"
	"github.com/kilianp07/railctl/infra/metrics"
	"github.com/kilianp07/railctl/infra/mqtt"
	"github.com/kilianp07/railctl/internal/eventbus"
)

// Service orchestrates the engine, the state store and the external surfaces.
type Service struct {
	Store    *state.Store
	Detector *conflict.Detector

	cfg      *config.Config
	sink     coremetrics.MetricsSink
	bus      eventbus.EventBus
	log      logger.Logger
	listener *mqtt.Listener
	apiSrv   *api.Server
}

// New creates a Service from the configuration. The snapshot starts from the
// sample data; field systems and the API mutate it from there.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	store := state.New(model.SampleTrains(time.Now().Truncate(time.Hour)), model.SampleNetwork())
	detector := conflict.NewDetector()
	opt := optimizer.New(detector, logger.New("optimizer"))

	svc := &Service{
		Store:    store,
		Detector: detector,
		cfg:      cfg,
		sink:     sink,
		bus:      bus,
		log:      logg,
	}
	svc.apiSrv = api.NewServer(store, detector, opt, bus, logger.New("api"), nil)

	if cfg.MQTT.Enabled {
		listener, err := mqtt.NewListener(cfg.MQTT, svc)
		if err != nil {
			return nil, fmt.Errorf("mqtt listener: %w", err)
		}
		svc.listener = listener
	}
	return svc, nil
}

// HandleDelayUpdate applies a field delay update to the snapshot.
func (s *Service) HandleDelayUpdate(upd mqtt.DelayUpdate) {
	if upd.Removed {
		s.Store.RemoveTrain(upd.TrainID)
		s.bus.Publish(events.TrainUpdateEvent{TrainID: upd.TrainID, Action: "removed", Time: time.Now()})
		return
	}
	if err := s.Store.UpdateDelay(upd.TrainID, upd.DelayMinutes); err != nil {
		s.log.Warnf("delay update rejected: %v", err)
		return
	}
	s.bus.Publish(events.TrainUpdateEvent{TrainID: upd.TrainID, Action: "updated", Time: time.Now()})
	if rec, ok := s.sink.(coremetrics.TrainDelayRecorder); ok {
		if err := rec.RecordTrainDelay(coremetrics.TrainDelayEvent{
			TrainID:      upd.TrainID,
			DelayMinutes: upd.DelayMinutes,
			Component:    "mqtt-listener",
			Time:         time.Now(),
		}); err != nil {
			s.log.Errorf("train delay metrics error: %v", err)
		}
	}
}

// Run starts the HTTP surfaces and the live-clock ticker, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.Engine.TickSeconds > 0 {
		go s.tickDetection(ctx, time.Duration(s.cfg.Engine.TickSeconds)*time.Second)
	}

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: s.apiSrv.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// tickDetection re-runs conflict detection at the configured interval. Ticks
// only observe the snapshot, they never mutate it.
func (s *Service) tickDetection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			trains, sections := s.Store.Snapshot()
			conflicts := s.Detector.Detect(trains, sections, now)
			s.bus.Publish(events.ConflictsDetectedEvent{Trains: len(trains), Conflicts: conflicts, At: now})
			s.log.Debugw("detection tick", map[string]any{
				"trains":    len(trains),
				"conflicts": len(conflicts),
			})
		case <-ctx.Done():
			return
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.listener != nil {
		s.listener.Close()
	}
	s.bus.Close()
	return nil
}
