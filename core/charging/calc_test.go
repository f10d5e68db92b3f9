package charging

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargetime/core/model"
)

var sgt = time.FixedZone("SGT", 8*3600)

func TestRemainingHoursFormula(t *testing.T) {
	for _, full := range []float64{51.49, 34.33, 29.81, 17.16, 8.33} {
		for p := 0; p <= 100; p++ {
			got := RemainingHours(full, float64(p))
			want := full * (100 - float64(p)) / 100
			if got != want {
				t.Fatalf("full=%v p=%d: got %v want %v", full, p, got, want)
			}
		}
		if RemainingHours(full, 100) != 0 {
			t.Fatalf("expected 0 at 100%% for %v", full)
		}
		if RemainingHours(full, 0) != full {
			t.Fatalf("expected full duration at 0%% for %v", full)
		}
	}
}

func TestRemainingHoursMonotonic(t *testing.T) {
	for _, prof := range model.DefaultProfiles() {
		prev := math.Inf(1)
		for p := 0; p <= 100; p++ {
			d := RemainingHours(prof.FullChargeTimeHrs, float64(p))
			if d > prev {
				t.Fatalf("%s: duration increased at %d%%", prof.Name, p)
			}
			prev = d
		}
	}
}

func TestProjectCompletionZero(t *testing.T) {
	base := time.Date(2024, 1, 1, 22, 0, 0, 0, sgt)
	assert.True(t, ProjectCompletion(base, 0).Equal(base))
}

func TestProjectCompletionCeil(t *testing.T) {
	base := time.Date(2024, 1, 1, 22, 0, 0, 0, sgt)
	cases := []struct {
		hours float64
		want  time.Duration
	}{
		{1.0 / 60, time.Minute},
		{0.001, time.Minute},
		{1.5, 90 * time.Minute},
		{5.831, 350 * time.Minute},
		{17.16 * 0.5, 515 * time.Minute},
	}
	for _, c := range cases {
		got := ProjectCompletion(base, c.hours)
		assert.Equal(t, c.want, got.Sub(base), "hours=%v", c.hours)
	}
}

func TestProjectCompletionRollover(t *testing.T) {
	base := time.Date(2023, 12, 31, 23, 30, 0, 0, sgt)
	got := ProjectCompletion(base, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 30, 0, 0, sgt), got)

	leap := time.Date(2024, 2, 28, 20, 0, 0, 0, sgt)
	assert.Equal(t, time.Date(2024, 2, 29, 4, 0, 0, 0, sgt), ProjectCompletion(leap, 8))
}

func TestScenarioMaximumAt30(t *testing.T) {
	base := time.Date(2024, 1, 1, 22, 0, 0, 0, sgt)
	d := RemainingHours(8.33, 30)
	assert.InDelta(t, 5.831, d, 1e-9)
	end := ProjectCompletion(base, d)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 50, 0, 0, sgt), end)
}

func TestBuildOptions(t *testing.T) {
	base := time.Date(2024, 1, 1, 22, 0, 0, 0, sgt)
	profiles := model.DefaultProfiles()
	opts := BuildOptions(profiles, 100, base)
	require.Len(t, opts, len(profiles))
	for i, o := range opts {
		assert.Equal(t, profiles[i].Name, o.Name)
		assert.Zero(t, o.DurationHrs)
		assert.True(t, o.EndTime.Equal(base))
	}

	again := BuildOptions(profiles, 30, base)
	once := BuildOptions(profiles, 30, base)
	assert.Equal(t, once, again)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 50, 0, 0, sgt), once[4].EndTime)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5h 50m", FormatDuration(5.831))
	assert.Equal(t, "0h 0m", FormatDuration(0))
	assert.Equal(t, "8h 20m", FormatDuration(8.33))
	assert.Equal(t, "2h 0m", FormatDuration(1.9999))
}

func TestCeilMinutesNoise(t *testing.T) {
	// 0.1h is not exactly representable; it must still map to 6 minutes
	assert.Equal(t, int64(6), CeilMinutes(0.1))
	assert.Equal(t, int64(0), CeilMinutes(-1))
}
