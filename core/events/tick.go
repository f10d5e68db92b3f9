package events

import (
	"time"

	"github.com/kilianp07/chargetime/core/model"
)

// ClockTick carries the current zone time for display.
type ClockTick struct {
	Time time.Time
}

// CalcTick is published when the calculation timestamp is refreshed.
type CalcTick struct {
	Time       time.Time
	BatteryPct int
	Options    []model.CalculatedOption
}
