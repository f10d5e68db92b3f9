package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/chargetime/core/metrics"
)

// NewRecorder builds the sinks enabled in cfg and combines them. With no
// sink enabled it returns a NopSink.
func NewRecorder(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.Recorder, error) {
	var sinks []coremetrics.Recorder
	if cfg.PrometheusEnabled {
		ps, err := NewPromSinkWithRegistry(reg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, ps)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg))
	}
	return coremetrics.Combine(sinks...), nil
}
