package chargelog

import (
	"context"
	"errors"
)

// DefaultSlot is the key the history is stored under.
const DefaultSlot = "byd_charging_logs"

// ErrNoData is returned by a Backend whose slot has never been written.
var ErrNoData = errors.New("chargelog: no persisted data")

// Backend is a single named slot holding the serialized history. Save always
// replaces the whole value.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}
