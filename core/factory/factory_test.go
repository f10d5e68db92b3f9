package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct {
	Path string
	Key  string
}

type slotConf struct {
	Path string `json:"path"`
	Key  string `json:"key"`
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*slot]()
	require.NoError(t, reg.Register("file", func(conf map[string]any) (*slot, error) {
		var c slotConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &slot{Path: c.Path, Key: c.Key}, nil
	}))
	inst, err := reg.Create(Spec{Type: "file", Conf: map[string]any{"path": "logs.json", "key": "k"}})
	require.NoError(t, err)
	assert.Equal(t, &slot{Path: "logs.json", Key: "k"}, inst)

	_, err = reg.Create(Spec{Type: "file", Conf: map[string]any{"pth": "typo"}})
	assert.Error(t, err, "unknown keys are rejected")
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }), "duplicate")
	assert.Error(t, reg.Register("z", nil), "nil factory")

	err := reg.Register("x", func(map[string]any) (int, error) { return 3, nil })
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = reg.Create(Spec{Type: "y"})
	require.ErrorIs(t, err, ErrUnknownType)
	assert.Contains(t, err.Error(), `"y"`)
	assert.Contains(t, err.Error(), "[x]")

	assert.Panics(t, func() { reg.MustRegister("x", func(map[string]any) (int, error) { return 0, nil }) })
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"sqlite", "json"} {
		require.NoError(t, reg.Register(n, func(map[string]any) (int, error) { return 0, nil }))
	}
	assert.Equal(t, []string{"json", "sqlite"}, reg.Names())
	assert.True(t, reg.Has("json"))
	assert.False(t, reg.Has("redis"))
}
