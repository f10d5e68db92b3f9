package charging

import (
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/chargetime/core/model"
)

// minuteEpsilon absorbs float noise so that an exact number of minutes is not
// pushed to the next one by the ceiling.
const minuteEpsilon = 1e-9

// RemainingHours returns the time needed to go from currentBatteryPct to 100%
// for a profile that needs fullChargeTimeHrs from empty. The percentage is
// expected in [0,100]; it is not validated.
func RemainingHours(fullChargeTimeHrs, currentBatteryPct float64) float64 {
	return fullChargeTimeHrs * (100 - currentBatteryPct) / 100
}

// ProjectCompletion adds durationHours to base. The added minutes are rounded
// up so an estimate never finishes earlier than the charge itself.
func ProjectCompletion(base time.Time, durationHours float64) time.Time {
	return base.Add(time.Duration(CeilMinutes(durationHours)) * time.Minute)
}

// CeilMinutes converts hours to whole minutes, rounding up.
func CeilMinutes(hours float64) int64 {
	m := hours * 60
	if m <= 0 {
		return 0
	}
	return int64(math.Ceil(m - minuteEpsilon))
}

// BuildOptions projects every profile from the battery level and base time,
// keeping catalog order.
func BuildOptions(profiles []model.ChargingProfile, batteryPct int, base time.Time) []model.CalculatedOption {
	out := make([]model.CalculatedOption, 0, len(profiles))
	for _, p := range profiles {
		d := RemainingHours(p.FullChargeTimeHrs, float64(batteryPct))
		out = append(out, model.CalculatedOption{
			ChargingProfile: p,
			DurationHrs:     d,
			EndTime:         ProjectCompletion(base, d),
		})
	}
	return out
}

// FormatDuration renders hours as "5h 50m", with minutes rounded to the
// nearest whole minute.
func FormatDuration(hours float64) string {
	total := int64(math.Round(hours * 60))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
