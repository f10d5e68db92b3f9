package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/chargetime/core/metrics"
)

// PromSink records charge log, projection and advice events in Prometheus
// metrics.
type PromSink struct {
	logEvents *prometheus.CounterVec
	logSize   prometheus.Gauge
	hours     *prometheus.GaugeVec
	endTime   *prometheus.GaugeVec
	battery   prometheus.Gauge
	advice    *prometheus.CounterVec
	latency   prometheus.Histogram
}

var _ coremetrics.Recorder = (*PromSink)(nil)

// NewPromSink registers the metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		logEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargetime_log_events_total",
			Help: "Charge log mutations by action",
		}, []string{"action"}),
		logSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargetime_log_entries",
			Help: "Number of entries in the charge log",
		}),
		hours: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chargetime_projected_hours",
			Help: "Remaining charge duration per profile at the last calculation",
		}, []string{"profile"}),
		endTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chargetime_projected_end_timestamp_seconds",
			Help: "Projected completion time per profile as a unix timestamp",
		}, []string{"profile"}),
		battery: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargetime_battery_percent",
			Help: "Battery level used for the last calculation",
		}),
		advice: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargetime_advice_requests_total",
			Help: "Advisory requests by outcome",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chargetime_advice_latency_seconds",
			Help:    "Time taken by settled advisory requests",
			Buckets: prometheus.DefBuckets,
		}),
	}
	var err error
	if s.logEvents, err = register(reg, s.logEvents); err != nil {
		return nil, err
	}
	if s.logSize, err = register(reg, s.logSize); err != nil {
		return nil, err
	}
	if s.hours, err = register(reg, s.hours); err != nil {
		return nil, err
	}
	if s.endTime, err = register(reg, s.endTime); err != nil {
		return nil, err
	}
	if s.battery, err = register(reg, s.battery); err != nil {
		return nil, err
	}
	if s.advice, err = register(reg, s.advice); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordLogEvent counts the mutation and updates the log size gauge. A load
// only sets the gauge.
func (s *PromSink) RecordLogEvent(ev coremetrics.LogEvent) error {
	if ev.Action != coremetrics.ActionLoad {
		s.logEvents.WithLabelValues(ev.Action).Inc()
	}
	s.logSize.Set(float64(ev.Size))
	return nil
}

// RecordProjection sets the per-profile gauges.
func (s *PromSink) RecordProjection(ev coremetrics.ProjectionEvent) error {
	s.battery.Set(float64(ev.BatteryPct))
	for _, o := range ev.Options {
		label := o.Label()
		s.hours.WithLabelValues(label).Set(o.DurationHrs)
		s.endTime.WithLabelValues(label).Set(float64(o.EndTime.Unix()))
	}
	return nil
}

// RecordAdvice counts the outcome and observes the latency of settled
// requests.
func (s *PromSink) RecordAdvice(ev coremetrics.AdviceEvent) error {
	s.advice.WithLabelValues(ev.Outcome).Inc()
	if ev.Outcome != coremetrics.OutcomeRejected {
		s.latency.Observe(ev.Latency.Seconds())
	}
	return nil
}
