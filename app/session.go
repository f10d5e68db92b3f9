// Package app wires the calculator, the charge log and the advisor into one
// session owned by the command line entry point.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/chargetime/core/advisor"
	"github.com/kilianp07/chargetime/core/chargelog"
	"github.com/kilianp07/chargetime/core/charging"
	"github.com/kilianp07/chargetime/core/clock"
	"github.com/kilianp07/chargetime/core/events"
	"github.com/kilianp07/chargetime/core/logger"
	"github.com/kilianp07/chargetime/core/metrics"
	"github.com/kilianp07/chargetime/core/model"
	"github.com/kilianp07/chargetime/core/monitoring"
	"github.com/kilianp07/chargetime/core/notify"
	"github.com/kilianp07/chargetime/internal/eventbus"
)

// Default refresh periods.
const (
	DefaultClockEvery = time.Second
	DefaultCalcEvery  = time.Minute
)

// Deps are the collaborators a Session is built from. Catalog, Clock and
// Store are required.
type Deps struct {
	Catalog  *model.Catalog
	Clock    clock.Clock
	Store    *chargelog.Store
	Advice   advisor.Service
	Notifier notify.Notifier
	Recorder metrics.AdviceRecorder
	Bus      *eventbus.Bus[events.Event]
	Logger   logger.Logger
	Monitor  monitoring.Monitor
}

// Session is the application context: it holds the battery level and the
// calculation timestamp and owns the periodic refresh.
type Session struct {
	catalog  *model.Catalog
	clock    clock.Clock
	store    *chargelog.Store
	advisor  *advisor.Advisor
	notifier notify.Notifier
	bus      *eventbus.Bus[events.Event]
	log      logger.Logger
	monitor  monitoring.Monitor
	newID    func() string

	clockEvery time.Duration
	calcEvery  time.Duration
	clockTicks <-chan time.Time
	calcTicks  <-chan time.Time

	mu         sync.Mutex
	batteryPct int
	calcTime   time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithRefresh sets the clock and calculation periods. Non-positive values
// keep the defaults.
func WithRefresh(clockEvery, calcEvery time.Duration) Option {
	return func(s *Session) {
		if clockEvery > 0 {
			s.clockEvery = clockEvery
		}
		if calcEvery > 0 {
			s.calcEvery = calcEvery
		}
	}
}

// WithTicks replaces the tickers used by Run with the given channels.
func WithTicks(clockTicks, calcTicks <-chan time.Time) Option {
	return func(s *Session) {
		s.clockTicks = clockTicks
		s.calcTicks = calcTicks
	}
}

// WithIDGenerator overrides how log entry ids are generated.
func WithIDGenerator(fn func() string) Option { return func(s *Session) { s.newID = fn } }

// WithBattery sets the initial battery level, clamped to [0,100].
func WithBattery(pct int) Option {
	return func(s *Session) { s.batteryPct = model.ClampPercent(pct) }
}

// New builds a Session. The calculation timestamp starts at the clock's
// current time.
func New(d Deps, opts ...Option) *Session {
	log := d.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	bus := d.Bus
	if bus == nil {
		bus = eventbus.New[events.Event]()
	}
	n := d.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	mon := d.Monitor
	if mon == nil {
		mon = monitoring.NopMonitor{}
	}
	s := &Session{
		catalog:    d.Catalog,
		clock:      d.Clock,
		store:      d.Store,
		notifier:   n,
		bus:        bus,
		log:        log,
		monitor:    mon,
		newID:      uuid.NewString,
		clockEvery: DefaultClockEvery,
		calcEvery:  DefaultCalcEvery,
		batteryPct: 30,
	}
	for _, o := range opts {
		o(s)
	}
	rec := d.Recorder
	if rec == nil {
		rec = metrics.NopSink{}
	}
	svc := d.Advice
	if svc == nil {
		svc = unconfigured{}
	}
	s.advisor = advisor.New(svc, log,
		advisor.WithRecorder(rec),
		advisor.WithNow(d.Clock.Now),
		advisor.WithOnSettle(func(o advisor.Outcome) {
			if o.Err != nil && !errors.Is(o.Err, advisor.ErrNotConfigured) {
				s.monitor.CaptureException(o.Err, map[string]string{"component": "advisor"})
			}
			s.bus.Publish(events.AdviceSettled{
				State:      o.State,
				Message:    o.Message,
				BatteryPct: o.BatteryPct,
				Latency:    o.Latency,
			})
		}),
	)
	s.calcTime = d.Clock.Now()
	return s
}

type unconfigured struct{}

func (unconfigured) Advise(context.Context, int, []model.CalculatedOption) (string, error) {
	return advisor.MsgNotConfigured, advisor.ErrNotConfigured
}

// Catalog returns the profile catalog.
func (s *Session) Catalog() *model.Catalog { return s.catalog }

// Store returns the charge log.
func (s *Session) Store() *chargelog.Store { return s.store }

// Bus returns the event bus.
func (s *Session) Bus() *eventbus.Bus[events.Event] { return s.bus }

// Advisor returns the advisory state machine.
func (s *Session) Advisor() *advisor.Advisor { return s.advisor }

// Now returns the current zone time.
func (s *Session) Now() time.Time { return s.clock.Now() }

// SetBattery stores the clamped battery level and returns it.
func (s *Session) SetBattery(pct int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batteryPct = model.ClampPercent(pct)
	return s.batteryPct
}

// Battery returns the current battery level.
func (s *Session) Battery() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batteryPct
}

// CalcTime returns the timestamp options are projected from.
func (s *Session) CalcTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calcTime
}

// SetCalcTime pins the calculation timestamp, e.g. for a what-if projection.
func (s *Session) SetCalcTime(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calcTime = t
}

// Refresh resets the calculation timestamp to the current zone time.
func (s *Session) Refresh() time.Time {
	now := s.clock.Now()
	s.SetCalcTime(now)
	return now
}

// Options projects every profile for the current battery level from the
// calculation timestamp.
func (s *Session) Options() []model.CalculatedOption {
	s.mu.Lock()
	pct, base := s.batteryPct, s.calcTime
	s.mu.Unlock()
	return charging.BuildOptions(s.catalog.Profiles(), pct, base)
}

// Select logs the option matching query at the current battery level and
// sends a confirmation. The returned error wraps model.ErrUnknownProfile
// when nothing matches; otherwise it only reports a persistence failure, in
// which case the entry is still part of the in-memory history. Notification
// failures are logged.
func (s *Session) Select(ctx context.Context, query string) (model.LogEntry, error) {
	profile, err := s.catalog.Find(query)
	if err != nil {
		return model.LogEntry{}, err
	}
	s.mu.Lock()
	pct, base := s.batteryPct, s.calcTime
	s.mu.Unlock()

	hours := charging.RemainingHours(profile.FullChargeTimeHrs, float64(pct))
	entry := model.LogEntry{
		ID:                  s.newID(),
		Timestamp:           base,
		BatteryPercentage:   pct,
		SelectedProfileName: profile.Label(),
		CalculatedEndTime:   charging.ProjectCompletion(base, hours),
	}
	persistErr := s.store.Append(ctx, entry)
	if persistErr != nil {
		s.log.Errorf("log charge: %v", persistErr)
		s.monitor.CaptureException(persistErr, map[string]string{"component": "chargelog", "op": "append"})
	}
	s.bus.Publish(events.EntryLogged{Entry: entry, Err: persistErr})

	c := notify.Confirmation{
		EntryID:    entry.ID,
		Label:      entry.SelectedProfileName,
		BatteryPct: pct,
		EndTime:    entry.CalculatedEndTime,
		LoggedAt:   entry.Timestamp,
	}
	if err := s.notifier.Notify(ctx, c); err != nil {
		s.log.Warnf("notify: %v", err)
		s.monitor.CaptureException(err, map[string]string{"component": "notify"})
	}
	return entry, persistErr
}

// ClearLogs empties the charge log and returns how many entries were removed.
func (s *Session) ClearLogs(ctx context.Context) (int, error) {
	n := s.store.Len()
	err := s.store.ClearAll(ctx)
	if err != nil {
		s.monitor.CaptureException(err, map[string]string{"component": "chargelog", "op": "clear"})
	}
	s.bus.Publish(events.LogCleared{Removed: n, Err: err})
	return n, err
}

// RequestAdvice starts an advisory request for the current options. The
// returned channel is closed when it settles; advisor.ErrInFlight is
// returned while another request is pending.
func (s *Session) RequestAdvice(ctx context.Context) (<-chan struct{}, error) {
	return s.advisor.Request(ctx, s.Battery(), s.Options())
}

// Advice waits for an advisory request to settle and returns its message.
func (s *Session) Advice(ctx context.Context) (string, error) {
	done, err := s.RequestAdvice(ctx)
	if err != nil {
		return "", err
	}
	select {
	case <-done:
		return s.advisor.Last().Message, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Run publishes a ClockTick on every clock tick and refreshes the
// calculation timestamp, publishing a CalcTick, on every calculation tick.
// An initial CalcTick is published immediately. Both tickers are stopped
// when Run returns, which happens once ctx is done.
func (s *Session) Run(ctx context.Context) error {
	clockTicks, calcTicks := s.clockTicks, s.calcTicks
	if clockTicks == nil {
		t := time.NewTicker(s.clockEvery)
		defer t.Stop()
		clockTicks = t.C
	}
	if calcTicks == nil {
		t := time.NewTicker(s.calcEvery)
		defer t.Stop()
		calcTicks = t.C
	}

	defer s.monitor.Recover()
	s.publishCalc(s.Refresh())
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-clockTicks:
			s.bus.Publish(events.ClockTick{Time: s.clock.Now()})
		case <-calcTicks:
			s.publishCalc(s.Refresh())
		}
	}
}

func (s *Session) publishCalc(at time.Time) {
	s.bus.Publish(events.CalcTick{Time: at, BatteryPct: s.Battery(), Options: s.Options()})
}

// Close releases the charge log.
func (s *Session) Close() error { return s.store.Close() }
