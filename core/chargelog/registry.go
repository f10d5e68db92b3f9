package chargelog

import (
	"github.com/kilianp07/chargetime/core/factory"
)

// Backend types.
const (
	BackendFile   = "json"
	BackendSQLite = "sqlite"
)

var backends = factory.NewRegistry[Backend]()

func init() {
	backends.MustRegister(BackendFile, func(conf map[string]any) (Backend, error) {
		var c struct {
			Path string `json:"path"`
			Slot string `json:"slot"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		b, err := NewFileBackend(c.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
	backends.MustRegister(BackendSQLite, func(conf map[string]any) (Backend, error) {
		var c struct {
			Path string `json:"path"`
			Slot string `json:"slot"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		b, err := NewSQLiteBackend(c.Path, c.Slot)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}

// RegisterBackend adds a backend factory identified by name.
func RegisterBackend(name string, f factory.Factory[Backend]) error {
	return backends.Register(name, f)
}

// HasBackend reports whether name is a registered backend type.
func HasBackend(name string) bool { return backends.Has(name) }

// BackendNames lists the registered backend types.
func BackendNames() []string { return backends.Names() }

// NewBackend opens the backend described by typ, path and slot. The file
// backend ignores the slot.
func NewBackend(typ, path, slot string) (Backend, error) {
	return backends.Create(factory.Spec{
		Type: typ,
		Conf: map[string]any{"path": path, "slot": slot},
	})
}
