// Package notify delivers the confirmation shown after a charge selection is
// logged.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Confirmation describes a logged selection.
type Confirmation struct {
	EntryID    string    `json:"id"`
	Label      string    `json:"label"`
	BatteryPct int       `json:"batteryPercentage"`
	EndTime    time.Time `json:"calculatedEndTime"`
	LoggedAt   time.Time `json:"timestamp"`
}

// Message renders the user-facing text, e.g.
// "Logged: Charging at Max (6.8kW) will end at 03:50 AM".
func (c Confirmation) Message() string {
	return fmt.Sprintf("Logged: Charging at %s will end at %s", c.Label, c.EndTime.Format("03:04 PM"))
}

// Notifier delivers confirmations.
type Notifier interface {
	Notify(ctx context.Context, c Confirmation) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, c Confirmation) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, c Confirmation) error { return f(ctx, c) }

// Nop discards confirmations.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Confirmation) error { return nil }

// Console writes the confirmation message as one line.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole writes to w.
func NewConsole(w io.Writer) *Console { return &Console{w: w} }

// Notify prints c.Message().
func (n *Console) Notify(_ context.Context, c Confirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintln(n.w, c.Message())
	return err
}

// Multi fans a confirmation out to every notifier. All notifiers are called
// even if some fail; the failures are joined.
type Multi []Notifier

// Notify forwards c to each notifier.
func (m Multi) Notify(ctx context.Context, c Confirmation) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
