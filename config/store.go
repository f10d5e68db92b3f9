package config

import (
	"fmt"

	"github.com/kilianp07/chargetime/core/chargelog"
)

// StoreConfig defines where the charge log is persisted.
type StoreConfig struct {
	// Backend selects the slot type: "json" or "sqlite".
	Backend string `json:"backend"`
	// Path is the JSON file or the SQLite database.
	Path string `json:"path"`
	// Slot is the key the history is stored under in SQLite.
	Slot    string        `json:"slot"`
	Journal JournalConfig `json:"journal"`
}

// JournalConfig defines the rotating audit copy of log mutations.
type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = chargelog.BackendFile
	}
	if c.Path == "" {
		if c.Backend == chargelog.BackendSQLite {
			c.Path = "chargetime.db"
		} else {
			c.Path = "chargetime_logs.json"
		}
	}
	if c.Slot == "" {
		c.Slot = chargelog.DefaultSlot
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "chargetime_journal.jsonl"
	}
	if c.Journal.MaxSizeMB <= 0 {
		c.Journal.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	if !chargelog.HasBackend(c.Backend) {
		return fmt.Errorf("unknown backend %s (known: %v)", c.Backend, chargelog.BackendNames())
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.Journal.MaxBackups < 0 || c.Journal.MaxAgeDays < 0 {
		return fmt.Errorf("journal retention must not be negative")
	}
	return nil
}
