package logger

import corelogger "github.com/kilianp07/chargetime/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given component. Output format and level follow
// the last call to Configure.
func New(component string) Logger {
	return NewZerologLogger(component)
}
