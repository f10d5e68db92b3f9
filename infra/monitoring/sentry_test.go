package monitoring

import (
	"errors"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremon "github.com/kilianp07/chargetime/core/monitoring"
)

type captured struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *captured) beforeSend(ev *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *captured) all() []*sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*sentry.Event(nil), c.events...)
}

func newTestMonitor(t *testing.T) (*sentryMonitor, *captured) {
	t.Helper()
	c := &captured{}
	client, err := sentry.NewClient(sentry.ClientOptions{BeforeSend: c.beforeSend})
	require.NoError(t, err)
	return newHubMonitor(sentry.NewHub(client, sentry.NewScope())), c
}

func TestNewSentryMonitor_NoDSN(t *testing.T) {
	m, err := NewSentryMonitor(coremon.Config{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitor_BadDSN(t *testing.T) {
	_, err := NewSentryMonitor(coremon.Config{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestSentryMonitor_CaptureWithTags(t *testing.T) {
	m, c := newTestMonitor(t)
	m.CaptureException(errors.New("disk full"), map[string]string{"component": "chargelog", "op": "append"})
	m.CaptureException(nil, nil)

	evs := c.all()
	require.Len(t, evs, 1)
	assert.Equal(t, "chargelog", evs[0].Tags["component"])
	assert.Equal(t, "append", evs[0].Tags["op"])
	require.NotEmpty(t, evs[0].Exception)
	assert.Equal(t, "disk full", evs[0].Exception[len(evs[0].Exception)-1].Value)
}

func TestSentryMonitor_CaptureWithoutTags(t *testing.T) {
	m, c := newTestMonitor(t)
	m.CaptureException(errors.New("boom"), nil)
	require.Len(t, c.all(), 1)
	assert.Empty(t, c.all()[0].Tags["component"])
}

func TestSentryMonitor_RecoverRepanics(t *testing.T) {
	m, c := newTestMonitor(t)
	assert.PanicsWithValue(t, "bad tick", func() {
		defer m.Recover()
		panic("bad tick")
	})
	assert.Len(t, c.all(), 1)
}
