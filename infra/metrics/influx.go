package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/chargetime/core/metrics"
	"github.com/kilianp07/chargetime/infra/logger"
)

// InfluxSink writes charge log and advice events to an InfluxDB instance
// using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

var _ coremetrics.Recorder = (*InfluxSink)(nil)

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

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Recorder {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
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

// RecordLogEvent writes a charge_log_entry point for appends, a
// charge_log_clear point for clears and a charge_log_load point at startup.
func (s *InfluxSink) RecordLogEvent(ev coremetrics.LogEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var p *write.Point
	switch ev.Action {
	case coremetrics.ActionLoad:
		p = write.NewPointWithMeasurement("charge_log_load").
			AddField("size", ev.Size).
			SetTime(ev.Time)
	case coremetrics.ActionClear:
		p = write.NewPointWithMeasurement("charge_log_clear").
			AddField("removed", ev.Cleared).
			AddField("size", ev.Size).
			SetTime(ev.Time)
	default:
		e := ev.Entry
		p = write.NewPointWithMeasurement("charge_log_entry").
			AddTag("profile", e.SelectedProfileName).
			AddTag("entry_id", e.ID).
			AddField("battery_pct", e.BatteryPercentage).
			AddField("planned_hours", round3(e.CalculatedEndTime.Sub(e.Timestamp).Hours())).
			AddField("end_time", e.CalculatedEndTime.Unix()).
			AddField("size", ev.Size).
			SetTime(e.Timestamp)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordProjection writes one charge_projection point per option.
func (s *InfluxSink) RecordProjection(ev coremetrics.ProjectionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Options))
	for _, o := range ev.Options {
		points = append(points, write.NewPointWithMeasurement("charge_projection").
			AddTag("profile", o.Label()).
			AddField("battery_pct", ev.BatteryPct).
			AddField("duration_hours", round3(o.DurationHrs)).
			AddField("end_time", o.EndTime.Unix()).
			SetTime(ev.Time))
	}
	if len(points) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordAdvice writes an advice_request point.
func (s *InfluxSink) RecordAdvice(ev coremetrics.AdviceEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("advice_request").
		AddTag("outcome", ev.Outcome).
		AddField("battery_pct", ev.BatteryPct).
		AddField("latency_ms", round3(ev.Latency.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
