// Package clock provides the wall-clock source used for projections. Times are
// always expressed in one configured IANA zone, whatever the host's local
// zone is.
package clock

import (
	"sync"
	"time"

	// Embed the tz database so zone lookups do not depend on host files.
	_ "time/tzdata"

	"github.com/kilianp07/chargetime/core/logger"
)

// DefaultZone is the zone the default catalog was measured in.
const DefaultZone = "Asia/Singapore"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// ZoneClock reports the current instant in a fixed location.
type ZoneClock struct {
	loc  *time.Location
	zone string
	now  func() time.Time
}

// NewZoneClock resolves zoneID. An unknown zone is logged and the clock falls
// back to the host's local zone.
func NewZoneClock(zoneID string, log logger.Logger) *ZoneClock {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		if log != nil {
			log.Warnf("unknown timezone %q, using local time: %v", zoneID, err)
		}
		return &ZoneClock{loc: time.Local, zone: time.Local.String(), now: time.Now}
	}
	return &ZoneClock{loc: loc, zone: zoneID, now: time.Now}
}

// Now returns the current instant with wall-clock fields in the zone.
func (c *ZoneClock) Now() time.Time { return c.now().In(c.loc) }

// Location returns the resolved location.
func (c *ZoneClock) Location() *time.Location { return c.loc }

// Zone returns the resolved zone name.
func (c *ZoneClock) Zone() string { return c.zone }

// Fixed is a settable clock for tests.
type Fixed struct {
	mu sync.RWMutex
	t  time.Time
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now returns the frozen time.
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.t
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
