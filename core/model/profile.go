package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// BatteryCapacityKWh is the usable capacity of the BYD pack the default
// catalog was derived from.
const BatteryCapacityKWh = 56.64

// maxLabel is the sentinel used for the wallbox's uncapped setting.
const maxLabel = "Max"

// ErrUnknownProfile is returned when a profile lookup does not match.
var ErrUnknownProfile = errors.New("unknown charging profile")

// Current is a charging current setting. Max marks the uncapped setting, in
// which case Amps is ignored.
type Current struct {
	Amps float64
	Max  bool
}

// Amps returns a fixed current setting.
func Amps(a float64) Current { return Current{Amps: a} }

// MaxCurrent is the uncapped setting.
var MaxCurrent = Current{Max: true}

// ParseCurrent accepts "Max" (any case) or a number of amps, optionally
// suffixed with "A".
func ParseCurrent(s string) (Current, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, maxLabel) {
		return MaxCurrent, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "A"), "a")
	a, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Current{}, fmt.Errorf("parse current %q: %w", s, err)
	}
	if a <= 0 {
		return Current{}, fmt.Errorf("current must be positive, got %v", a)
	}
	return Amps(a), nil
}

// String renders "Max" or the amps followed by "A", e.g. "16A".
func (c Current) String() string {
	if c.Max {
		return maxLabel
	}
	return formatNumber(c.Amps) + "A"
}

// MarshalJSON encodes the sentinel as "Max" and fixed currents as numbers.
func (c Current) MarshalJSON() ([]byte, error) {
	if c.Max {
		return json.Marshal(maxLabel)
	}
	return json.Marshal(c.Amps)
}

// UnmarshalJSON accepts a number or the "Max" string.
func (c *Current) UnmarshalJSON(b []byte) error {
	var a float64
	if err := json.Unmarshal(b, &a); err == nil {
		*c = Amps(a)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("current: %w", err)
	}
	parsed, err := ParseCurrent(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ChargingProfile is one fixed wallbox setting with its measured time to go
// from 0% to 100%.
type ChargingProfile struct {
	Name              string  `json:"name"`
	Current           Current `json:"currentAmps"`
	PowerKW           float64 `json:"powerKW"`
	FullChargeTimeHrs float64 `json:"fullChargeTimeHrs"`
}

// Validate checks that the full charge time is a positive finite number.
func (p ChargingProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if math.IsNaN(p.FullChargeTimeHrs) || math.IsInf(p.FullChargeTimeHrs, 0) || p.FullChargeTimeHrs <= 0 {
		return fmt.Errorf("profile %s: full charge time must be positive", p.Name)
	}
	return nil
}

// Label is the name stored in log entries, e.g. "16A" or "Max (6.8kW)".
func (p ChargingProfile) Label() string {
	if p.Current.Max {
		return fmt.Sprintf("Max (%skW)", formatNumber(p.PowerKW))
	}
	return p.Current.String()
}

// Title is the heading shown above an option, e.g. "16 A" or "Max Power".
func (p ChargingProfile) Title() string {
	if p.Current.Max {
		return "Max Power"
	}
	return formatNumber(p.Current.Amps) + " A"
}

// CalculatedOption is a profile projected from the current battery level.
// It is rebuilt on every refresh and never persisted.
type CalculatedOption struct {
	ChargingProfile
	DurationHrs float64   `json:"durationHrs"`
	EndTime     time.Time `json:"endTime"`
}

// MorningSlot reports whether the charge finishes between 06:00 and 09:59,
// which suits a morning departure.
func (o CalculatedOption) MorningSlot() bool {
	h := o.EndTime.Hour()
	return h >= 6 && h <= 9
}

// ClampPercent bounds a battery percentage to [0,100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
