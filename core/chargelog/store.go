// Package chargelog holds the charge history: an ordered, append-only
// sequence of entries mirrored to a durable slot after every change.
package chargelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/chargetime/core/logger"
	"github.com/kilianp07/chargetime/core/metrics"
	"github.com/kilianp07/chargetime/core/model"
)

// Store is the in-memory history and its persistence. The in-memory sequence
// is authoritative: a failed write is reported but never rolls it back.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     logger.Logger
	journal Journal
	rec     metrics.LogRecorder
	now     func() time.Time
	entries []model.LogEntry
}

// Option configures a Store.
type Option func(*Store)

// WithJournal mirrors every mutation to j.
func WithJournal(j Journal) Option { return func(s *Store) { s.journal = j } }

// WithRecorder reports every mutation to r.
func WithRecorder(r metrics.LogRecorder) Option { return func(s *Store) { s.rec = r } }

// WithNow overrides the clock used for journal and metrics timestamps.
func WithNow(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Open builds a Store and loads the persisted history once. Missing or
// unreadable data yields an empty history.
func Open(ctx context.Context, backend Backend, log logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &Store{backend: backend, log: log, rec: metrics.NopSink{}, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.entries = s.load(ctx)
	ev := metrics.LogEvent{Action: metrics.ActionLoad, Size: len(s.entries), Time: s.now()}
	if err := s.rec.RecordLogEvent(ev); err != nil {
		s.log.Warnf("record load: %v", err)
	}
	return s
}

func (s *Store) load(ctx context.Context) []model.LogEntry {
	data, err := s.backend.Load(ctx)
	if errors.Is(err, ErrNoData) {
		return []model.LogEntry{}
	}
	if err != nil {
		s.log.Warnf("read charge log: %v", err)
		return []model.LogEntry{}
	}
	entries, err := Decode(data)
	if err != nil {
		s.log.Warnf("failed to parse charge log, starting empty: %v", err)
		return []model.LogEntry{}
	}
	s.log.Debugf("loaded %d charge log entries", len(entries))
	return entries
}

// Decode parses a serialized history. Empty input and JSON null decode to an
// empty sequence.
func Decode(data []byte) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	if len(data) == 0 {
		return []model.LogEntry{}, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return entries, nil
}

// Encode serializes the history as a JSON array.
func Encode(entries []model.LogEntry) ([]byte, error) {
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return json.Marshal(entries)
}

// Entries returns a copy of the history in insertion order.
func (s *Store) Entries() []model.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Append adds e at the end of the history and persists the new snapshot. The
// caller assigns a unique ID. The entry stays in memory even when the write
// fails.
func (s *Store) Append(ctx context.Context, e model.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	err := s.persist(ctx)
	now := s.now()
	if s.journal != nil {
		entry := e
		if jerr := s.journal.Record(JournalRecord{Time: now, Action: metrics.ActionAppend, Entry: &entry}); jerr != nil {
			s.log.Warnf("journal append: %v", jerr)
		}
	}
	if rerr := s.rec.RecordLogEvent(metrics.LogEvent{Action: metrics.ActionAppend, Entry: e, Size: len(s.entries), Time: now}); rerr != nil {
		s.log.Warnf("record append: %v", rerr)
	}
	if err != nil {
		return fmt.Errorf("persist charge log: %w", err)
	}
	return nil
}

// ClearAll removes every entry and persists the empty history. Asking the
// user for confirmation is the caller's job.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := len(s.entries)
	s.entries = []model.LogEntry{}
	err := s.persist(ctx)
	now := s.now()
	if s.journal != nil {
		if jerr := s.journal.Record(JournalRecord{Time: now, Action: metrics.ActionClear, Cleared: cleared}); jerr != nil {
			s.log.Warnf("journal clear: %v", jerr)
		}
	}
	if rerr := s.rec.RecordLogEvent(metrics.LogEvent{Action: metrics.ActionClear, Cleared: cleared, Time: now}); rerr != nil {
		s.log.Warnf("record clear: %v", rerr)
	}
	if err != nil {
		return fmt.Errorf("persist charge log: %w", err)
	}
	s.log.Infof("cleared %d charge log entries", cleared)
	return nil
}

// persist overwrites the slot with the full in-memory sequence. Callers hold mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := Encode(s.entries)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, data)
}

// Close releases the journal and the backend.
func (s *Store) Close() error {
	var errs []error
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	errs = append(errs, s.backend.Close())
	return errors.Join(errs...)
}

// NewestFirst returns a copy of entries in reverse insertion order, the order
// history views display.
func NewestFirst(entries []model.LogEntry) []model.LogEntry {
	out := make([]model.LogEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
