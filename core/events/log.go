package events

import "github.com/kilianp07/chargetime/core/model"

// EntryLogged is published after a selection is appended. Err reports a
// persistence failure; the entry is kept in memory regardless.
type EntryLogged struct {
	Entry model.LogEntry
	Err   error
}

// LogCleared is published after a clear-all.
type LogCleared struct {
	Removed int
	Err     error
}
