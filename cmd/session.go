package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/chargetime/app"
	"github.com/kilianp07/chargetime/config"
	"github.com/kilianp07/chargetime/core/advisor"
	"github.com/kilianp07/chargetime/core/chargelog"
	"github.com/kilianp07/chargetime/core/clock"
	"github.com/kilianp07/chargetime/core/events"
	coremetrics "github.com/kilianp07/chargetime/core/metrics"
	"github.com/kilianp07/chargetime/core/notify"
	"github.com/kilianp07/chargetime/infra/logger"
	"github.com/kilianp07/chargetime/infra/metrics"
	"github.com/kilianp07/chargetime/infra/monitoring"
	"github.com/kilianp07/chargetime/infra/mqtt"
	"github.com/kilianp07/chargetime/internal/eventbus"
)

// stack is everything a command needs, built from the configuration.
type stack struct {
	cfg      *config.Config
	clock    *clock.ZoneClock
	session  *app.Session
	recorder coremetrics.Recorder
	closers  []func()
}

func (r *stack) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// openStack builds the session. Confirmations are printed to out.
func openStack(ctx context.Context, cfg *config.Config, out io.Writer) (*stack, error) {
	log := logger.New("main")
	r := &stack{cfg: cfg}
	r.clock = clock.NewZoneClock(cfg.Timezone, logger.New("clock"))

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	rec, err := metrics.NewRecorder(cfg.Metrics, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	r.recorder = rec

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		log.Warnf("error reporting disabled: %v", err)
	} else {
		r.closers = append(r.closers, func() { mon.Flush(2 * time.Second) })
	}

	backend, err := chargelog.NewBackend(cfg.Store.Backend, cfg.Store.Path, cfg.Store.Slot)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	opts := []chargelog.Option{chargelog.WithRecorder(rec), chargelog.WithNow(r.clock.Now)}
	if cfg.Store.Journal.Enabled {
		j := cfg.Store.Journal
		journal, err := chargelog.NewRotatingJournal(j.Path, j.MaxSizeMB, j.MaxBackups, j.MaxAgeDays)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("journal: %w", err)
		}
		opts = append(opts, chargelog.WithJournal(journal))
	}
	store := chargelog.Open(ctx, backend, logger.New("chargelog"), opts...)

	notifiers := notify.Multi{notify.NewConsole(out)}
	if cfg.MQTT.Enabled {
		n, err := mqtt.NewNotifier(cfg.MQTT)
		if err != nil {
			log.Warnf("mqtt notifications disabled: %v", err)
		} else {
			notifiers = append(notifiers, n)
			r.closers = append(r.closers, n.Close)
		}
	}

	r.session = app.New(app.Deps{
		Catalog:  catalog,
		Clock:    r.clock,
		Store:    store,
		Advice:   advisor.NewGeminiService(cfg.Advisor, cfg.BatteryCapacityKWh, r.clock.Now, logger.New("advisor")),
		Notifier: notifiers,
		Recorder: rec,
		Bus:      eventbus.New[events.Event](),
		Logger:   logger.New("session"),
		Monitor:  mon,
	}, app.WithRefresh(cfg.Refresh.ClockEvery(), cfg.Refresh.CalcEvery()))
	r.closers = append(r.closers, func() {
		if err := r.session.Close(); err != nil {
			log.Errorf("close charge log: %v", err)
		}
	})
	return r, nil
}

// withStack opens the stack, runs fn and closes the stack.
func withStack(ctx context.Context, out io.Writer, cfg *config.Config, fn func(*stack) error) error {
	r, err := openStack(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}
