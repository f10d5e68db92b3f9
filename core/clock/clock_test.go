package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/chargetime/core/logger"
)

type warnRecorder struct {
	logger.NopLogger
	warnings int
}

func (w *warnRecorder) Warnf(string, ...any) { w.warnings++ }

func TestZoneClockIgnoresHostZone(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("Host", -5*3600)
	defer func() { time.Local = saved }()

	c := NewZoneClock("Asia/Singapore", nil)
	instant := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return instant }

	got := c.Now()
	assert.Equal(t, 22, got.Hour())
	assert.Equal(t, 1, got.Day())
	assert.True(t, got.Equal(instant))
	assert.Equal(t, "Asia/Singapore", c.Zone())
}

func TestZoneClockDayRollover(t *testing.T) {
	c := NewZoneClock("Asia/Singapore", nil)
	c.now = func() time.Time { return time.Date(2024, 12, 31, 20, 30, 0, 0, time.UTC) }
	got := c.Now()
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 4, got.Hour())
}

func TestZoneClockUnknownZoneFallsBack(t *testing.T) {
	rec := &warnRecorder{}
	c := NewZoneClock("Mars/Olympus_Mons", rec)
	assert.Equal(t, 1, rec.warnings)
	assert.Equal(t, time.Local, c.Location())
	assert.False(t, c.Now().IsZero())
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFixed(start)
	assert.Equal(t, start, f.Now())
	f.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), f.Now())
	f.Set(start)
	assert.Equal(t, start, f.Now())
}
