package config

import (
	"fmt"
	"time"
)

// RefreshConfig holds the periods used by watch.
type RefreshConfig struct {
	ClockSeconds int `json:"clock_seconds"`
	CalcSeconds  int `json:"calc_seconds"`
}

// SetDefaults uses a one second clock and a one minute recalculation.
func (c *RefreshConfig) SetDefaults() {
	if c.ClockSeconds <= 0 {
		c.ClockSeconds = 1
	}
	if c.CalcSeconds <= 0 {
		c.CalcSeconds = 60
	}
}

// Validate rejects a calculation period shorter than the clock period.
func (c RefreshConfig) Validate() error {
	if c.CalcSeconds < c.ClockSeconds {
		return fmt.Errorf("calc_seconds (%d) must not be shorter than clock_seconds (%d)", c.CalcSeconds, c.ClockSeconds)
	}
	return nil
}

// ClockEvery returns the clock period.
func (c RefreshConfig) ClockEvery() time.Duration { return time.Duration(c.ClockSeconds) * time.Second }

// CalcEvery returns the calculation period.
func (c RefreshConfig) CalcEvery() time.Duration { return time.Duration(c.CalcSeconds) * time.Second }
