package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/railctl/core/metrics"
	"github.com/kilianp07/railctl/infra/logger"
)

// InfluxSink writes engine events to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDetection writes one point per detected conflict.
func (s *InfluxSink) RecordDetection(ev coremetrics.DetectionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, c := range ev.Conflicts {
		p := write.NewPointWithMeasurement("conflict_detected").
			AddTag("section_id", c.SectionID).
			AddTag("train1", c.Number1).
			AddTag("train2", c.Number2).
			AddTag("severity", strconv.Itoa(c.Severity)).
			AddTag("component", ev.Component).
			AddField("duration_minutes", round3(c.Duration)).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordOptimization writes the pass metrics as a single point.
func (s *InfluxSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m := ev.Metrics
	p := write.NewPointWithMeasurement("optimization_pass").
		AddTag("component", ev.Component).
		AddField("original_conflicts", m.OriginalConflicts).
		AddField("optimized_conflicts", m.OptimizedConflicts).
		AddField("conflicts_resolved", m.ConflictsResolved).
		AddField("additional_delay_minutes", m.AdditionalDelay).
		AddField("effectiveness_percent", round3(m.Effectiveness)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTrainDelay writes a per-train delay snapshot.
func (s *InfluxSink) RecordTrainDelay(ev coremetrics.TrainDelayEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("train_delay").
		AddTag("train_id", ev.TrainID).
		AddTag("train_number", ev.Number).
		AddTag("component", ev.Component).
		AddField("delay_minutes", ev.DelayMinutes).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
