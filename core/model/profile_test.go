package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileLabels(t *testing.T) {
	cases := []struct {
		p     ChargingProfile
		label string
		title string
	}{
		{ChargingProfile{Name: "Slow", Current: Amps(6), PowerKW: 1.1}, "6A", "6 A"},
		{ChargingProfile{Name: "High", Current: Amps(16), PowerKW: 3.3}, "16A", "16 A"},
		{ChargingProfile{Name: "Maximum", Current: MaxCurrent, PowerKW: 6.8}, "Max (6.8kW)", "Max Power"},
	}
	for _, c := range cases {
		assert.Equal(t, c.label, c.p.Label())
		assert.Equal(t, c.title, c.p.Title())
	}
}

func TestCurrentJSON(t *testing.T) {
	b, err := json.Marshal([]Current{Amps(8), MaxCurrent})
	require.NoError(t, err)
	assert.JSONEq(t, `[8,"Max"]`, string(b))

	var out []Current
	require.NoError(t, json.Unmarshal([]byte(`[10,"max","16A"]`), &out))
	assert.Equal(t, []Current{Amps(10), MaxCurrent, Amps(16)}, out)

	var bad Current
	assert.Error(t, json.Unmarshal([]byte(`"fast"`), &bad))
}

func TestParseCurrent(t *testing.T) {
	c, err := ParseCurrent(" 16 A")
	require.NoError(t, err)
	assert.Equal(t, Amps(16), c)
	_, err = ParseCurrent("-3")
	assert.Error(t, err)
	_, err = ParseCurrent("")
	assert.Error(t, err)
}

func TestProfileValidate(t *testing.T) {
	good := ChargingProfile{Name: "x", Current: Amps(6), FullChargeTimeHrs: 1}
	assert.NoError(t, good.Validate())
	for _, hrs := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		p := good
		p.FullChargeTimeHrs = hrs
		assert.Error(t, p.Validate(), "hrs=%v", hrs)
	}
	assert.Error(t, ChargingProfile{FullChargeTimeHrs: 1}.Validate())
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 5, c.Len())
	for _, p := range c.Profiles() {
		// full charge time is capacity / power, rounded to two decimals
		assert.InDelta(t, BatteryCapacityKWh/p.PowerKW, p.FullChargeTimeHrs, 0.01, p.Name)
	}
	ps := c.Profiles()
	ps[0].Name = "mutated"
	assert.Equal(t, "Slow Trickle", c.Profiles()[0].Name)
}

func TestCatalogFind(t *testing.T) {
	c := DefaultCatalog()
	for _, q := range []string{"Maximum", "max", "Max (6.8kW)", "MAXIMUM"} {
		p, err := c.Find(q)
		require.NoError(t, err, q)
		assert.True(t, p.Current.Max, q)
	}
	for _, q := range []string{"16A", "16", "high current", "16 A"} {
		p, err := c.Find(q)
		require.NoError(t, err, q)
		assert.Equal(t, "High Current", p.Name, q)
	}
	_, err := c.Find("32A")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestNewCatalogRejects(t *testing.T) {
	_, err := NewCatalog(nil)
	assert.Error(t, err)
	dup := []ChargingProfile{
		{Name: "a", Current: Amps(6), FullChargeTimeHrs: 1},
		{Name: "A", Current: Amps(8), FullChargeTimeHrs: 2},
	}
	_, err = NewCatalog(dup)
	assert.Error(t, err)
	_, err = NewCatalog([]ChargingProfile{{Name: "zero", Current: Amps(6)}})
	assert.Error(t, err)
}

func TestMorningSlot(t *testing.T) {
	loc := time.FixedZone("SGT", 8*3600)
	cases := map[int]bool{5: false, 6: true, 9: true, 10: false, 22: false}
	for hour, want := range cases {
		o := CalculatedOption{EndTime: time.Date(2024, 1, 2, hour, 59, 0, 0, loc)}
		assert.Equal(t, want, o.MorningSlot(), "hour %d", hour)
	}
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(-5))
	assert.Equal(t, 42, ClampPercent(42))
	assert.Equal(t, 100, ClampPercent(150))
}

func TestLogEntryJSONKeys(t *testing.T) {
	e := LogEntry{ID: "1", Timestamp: time.Unix(0, 0).UTC(), BatteryPercentage: 30, SelectedProfileName: "6A", CalculatedEndTime: time.Unix(3600, 0).UTC()}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"id", "timestamp", "batteryPercentage", "selectedProfileName", "calculatedEndTime"} {
		assert.Contains(t, m, k)
	}
}
