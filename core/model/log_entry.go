package model

import "time"

// LogEntry records a charge the user chose to start. Entries are snapshots:
// once appended to the history they are never modified.
type LogEntry struct {
	ID                  string    `json:"id"`
	Timestamp           time.Time `json:"timestamp"`
	BatteryPercentage   int       `json:"batteryPercentage"`
	SelectedProfileName string    `json:"selectedProfileName"`
	CalculatedEndTime   time.Time `json:"calculatedEndTime"`
}
