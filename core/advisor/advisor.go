package advisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/kilianp07/chargetime/core/logger"
	"github.com/kilianp07/chargetime/core/metrics"
	"github.com/kilianp07/chargetime/core/model"
)

// Advisor states.
const (
	StateIdle     = "idle"
	StatePending  = "pending"
	StateResolved = "resolved"
	StateFailed   = "failed"
)

// Advisor events.
const (
	EventRequest = "request"
	EventResolve = "resolve"
	EventFail    = "fail"
)

// ErrInFlight is returned when a request is made while another is pending.
var ErrInFlight = errors.New("advice request already in flight")

// Service produces advice for a battery level and its options. The returned
// string is always displayable; a non-nil error only tells the caller that
// the string is a fallback.
type Service interface {
	Advise(ctx context.Context, batteryPct int, options []model.CalculatedOption) (string, error)
}

// Outcome describes a settled request.
type Outcome struct {
	State      string
	Message    string
	BatteryPct int
	Latency    time.Duration
	At         time.Time
	// Err is the service error behind a failed outcome.
	Err error
}

// Advisor guards a Service with a single-flight state machine.
type Advisor struct {
	mu       sync.Mutex
	fsm      *fsm.FSM
	svc      Service
	log      logger.Logger
	rec      metrics.AdviceRecorder
	now      func() time.Time
	onSettle func(Outcome)
	last     Outcome
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithRecorder reports request outcomes to r.
func WithRecorder(r metrics.AdviceRecorder) Option { return func(a *Advisor) { a.rec = r } }

// WithOnSettle registers fn, called once per settled request outside the lock.
func WithOnSettle(fn func(Outcome)) Option { return func(a *Advisor) { a.onSettle = fn } }

// WithNow overrides the clock used for outcome timestamps.
func WithNow(now func() time.Time) Option { return func(a *Advisor) { a.now = now } }

// New creates an idle Advisor.
func New(svc Service, log logger.Logger, opts ...Option) *Advisor {
	if log == nil {
		log = logger.NopLogger{}
	}
	a := &Advisor{svc: svc, log: log, rec: metrics.NopSink{}, now: time.Now}
	for _, o := range opts {
		o(a)
	}
	a.fsm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventRequest, Src: []string{StateIdle, StateResolved, StateFailed}, Dst: StatePending},
			{Name: EventResolve, Src: []string{StatePending}, Dst: StateResolved},
			{Name: EventFail, Src: []string{StatePending}, Dst: StateFailed},
		},
		fsm.Callbacks{},
	)
	a.last = Outcome{State: StateIdle}
	return a
}

// Request starts an advisory call in the background. The returned channel is
// closed once the request has settled. ErrInFlight is returned while a
// previous request is pending.
func (a *Advisor) Request(ctx context.Context, batteryPct int, options []model.CalculatedOption) (<-chan struct{}, error) {
	a.mu.Lock()
	if err := a.fsm.Event(context.Background(), EventRequest); err != nil {
		pending := a.fsm.Current() == StatePending
		a.mu.Unlock()
		if pending {
			a.record(metrics.OutcomeRejected, batteryPct, 0)
			return nil, ErrInFlight
		}
		return nil, err
	}
	a.mu.Unlock()

	opts := make([]model.CalculatedOption, len(options))
	copy(opts, options)
	done := make(chan struct{})
	start := a.now()
	go func() {
		defer close(done)
		msg, err := a.svc.Advise(ctx, batteryPct, opts)
		a.settle(batteryPct, msg, err, a.now().Sub(start))
	}()
	return done, nil
}

func (a *Advisor) settle(batteryPct int, msg string, callErr error, latency time.Duration) {
	event, outcome := EventResolve, metrics.OutcomeResolved
	if callErr != nil {
		event, outcome = EventFail, metrics.OutcomeFailed
		a.log.Warnf("advice request failed: %v", callErr)
	}
	a.mu.Lock()
	if err := a.fsm.Event(context.Background(), event); err != nil {
		a.log.Errorf("advisor transition %s: %v", event, err)
	}
	a.last = Outcome{
		State:      a.fsm.Current(),
		Message:    msg,
		BatteryPct: batteryPct,
		Latency:    latency,
		At:         a.now(),
		Err:        callErr,
	}
	last, cb := a.last, a.onSettle
	a.mu.Unlock()

	a.record(outcome, batteryPct, latency)
	if cb != nil {
		cb(last)
	}
}

func (a *Advisor) record(outcome string, batteryPct int, latency time.Duration) {
	ev := metrics.AdviceEvent{Outcome: outcome, BatteryPct: batteryPct, Latency: latency, Time: a.now()}
	if err := a.rec.RecordAdvice(ev); err != nil {
		a.log.Warnf("record advice: %v", err)
	}
}

// State returns the current machine state.
func (a *Advisor) State() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fsm.Current()
}

// Pending reports whether a request is in flight.
func (a *Advisor) Pending() bool { return a.State() == StatePending }

// Last returns the most recent settled outcome; before any request it has
// StateIdle and an empty message.
func (a *Advisor) Last() Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}
