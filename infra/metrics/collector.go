package metrics

import (
	"context"

	"github.com/kilianp07/chargetime/core/events"
	coremetrics "github.com/kilianp07/chargetime/core/metrics"
	"github.com/kilianp07/chargetime/infra/logger"
	"github.com/kilianp07/chargetime/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records a projection
// for every calculation tick. It stops when the context is canceled or the
// bus is closed; the returned channel is closed once the collector exits.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.Event], rec coremetrics.ProjectionRecorder) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || rec == nil {
		close(done)
		return done
	}
	log := logger.New("event-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.CalcTick); ok {
					err := rec.RecordProjection(coremetrics.ProjectionEvent{
						BatteryPct: e.BatteryPct,
						Options:    e.Options,
						Time:       e.Time,
					})
					if err != nil {
						log.Warnf("record projection: %v", err)
					}
				}
			}
		}
	}()
	return done
}
