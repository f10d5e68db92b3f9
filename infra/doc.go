// Package infra holds the adapters behind the core interfaces: zerolog
// loggers, the MQTT confirmation publisher, Prometheus and InfluxDB sinks
// and Sentry error reporting.
package infra
