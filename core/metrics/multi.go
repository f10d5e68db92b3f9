package metrics

import "errors"

// MultiSink fans events out to several recorders.
type MultiSink struct {
	Sinks []Recorder
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Recorder) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordLogEvent forwards to every sink and joins their errors.
func (m *MultiSink) RecordLogEvent(ev LogEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordLogEvent(ev))
	}
	return errors.Join(errs...)
}

// RecordProjection forwards to every sink and joins their errors.
func (m *MultiSink) RecordProjection(ev ProjectionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordProjection(ev))
	}
	return errors.Join(errs...)
}

// RecordAdvice forwards to every sink and joins their errors.
func (m *MultiSink) RecordAdvice(ev AdviceEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordAdvice(ev))
	}
	return errors.Join(errs...)
}

// Combine returns NopSink for no sinks, the sink itself for one, and a
// MultiSink otherwise.
func Combine(sinks ...Recorder) Recorder {
	switch len(sinks) {
	case 0:
		return NopSink{}
	case 1:
		return sinks[0]
	default:
		return NewMultiSink(sinks...)
	}
}
