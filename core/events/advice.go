package events

import "time"

// AdviceSettled is published when an advisory request settles.
type AdviceSettled struct {
	State      string
	Message    string
	BatteryPct int
	Latency    time.Duration
}
