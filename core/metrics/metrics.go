package metrics

import (
	"time"

	"github.com/kilianp07/chargetime/core/model"
)

// Log actions reported in LogEvent.
const (
	ActionAppend = "append"
	ActionClear  = "clear"
	// ActionLoad reports the size of the history read at startup.
	ActionLoad = "load"
)

// Advice outcomes reported in AdviceEvent.
const (
	OutcomeResolved = "resolved"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// LogEvent describes one mutation of the charge log.
type LogEvent struct {
	Action string
	// Entry is set for appends.
	Entry model.LogEntry
	// Cleared is the number of entries removed by a clear.
	Cleared int
	// Size is the number of entries after the mutation.
	Size int
	Time time.Time
}

// LogRecorder records charge log mutations.
type LogRecorder interface {
	RecordLogEvent(ev LogEvent) error
}

// ProjectionEvent is a full set of options computed for one battery level.
type ProjectionEvent struct {
	BatteryPct int
	Options    []model.CalculatedOption
	Time       time.Time
}

// ProjectionRecorder records computed options.
type ProjectionRecorder interface {
	RecordProjection(ev ProjectionEvent) error
}

// AdviceEvent captures the outcome of an advisory request.
type AdviceEvent struct {
	Outcome    string
	BatteryPct int
	Latency    time.Duration
	Time       time.Time
}

// AdviceRecorder records advisory requests.
type AdviceRecorder interface {
	RecordAdvice(ev AdviceEvent) error
}

// Recorder is implemented by sinks that handle every event kind.
type Recorder interface {
	LogRecorder
	ProjectionRecorder
	AdviceRecorder
}

// NopSink implements Recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordLogEvent(LogEvent) error          { return nil }
func (NopSink) RecordProjection(ProjectionEvent) error { return nil }
func (NopSink) RecordAdvice(AdviceEvent) error         { return nil }
