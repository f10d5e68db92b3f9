// Package events defines the session events emitted on the event bus.
//
// Available event types:
//   - ClockTick: display clock refresh
//   - CalcTick: new calculation timestamp and the options derived from it
//   - EntryLogged: a selection was appended to the charge log
//   - LogCleared: the charge log was emptied
//   - AdviceSettled: an advisory request resolved or failed
package events

// Event is any value published on the session bus.
type Event interface{}
