// Package metrics defines the recorder interfaces used to observe the charge
// log, projections and advisory requests. Concrete sinks (Prometheus,
// InfluxDB) live in infra/metrics and can be combined with NewMultiSink.
package metrics
