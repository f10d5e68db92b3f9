package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultsAndValidate(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, "local", c.Environment)
	assert.False(t, c.Enabled())
	require.NoError(t, c.Validate())

	c.DSN = "https://key@o0.ingest.sentry.io/1"
	assert.True(t, c.Enabled())

	c.TracesSampleRate = 1.5
	assert.Error(t, c.Validate())
	c.TracesSampleRate = -0.1
	assert.Error(t, c.Validate())
}

func TestNopMonitor(t *testing.T) {
	var m Monitor = NopMonitor{}
	m.CaptureException(assert.AnError, map[string]string{"op": "append"})
	assert.True(t, m.Flush(0))
	func() {
		defer m.Recover()
	}()
}
