package chargelog

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kilianp07/chargetime/core/model"
)

// JournalRecord is one line of the journal.
type JournalRecord struct {
	Time    time.Time       `json:"time"`
	Action  string          `json:"action"`
	Entry   *model.LogEntry `json:"entry,omitempty"`
	Cleared int             `json:"cleared,omitempty"`
}

// Journal receives a copy of every store mutation. Unlike the slot it is
// never rewritten, so it survives a clear.
type Journal interface {
	Record(rec JournalRecord) error
	Close() error
}

// RotatingJournal writes JSONL records with automatic rotation.
type RotatingJournal struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
}

// NewRotatingJournal creates a journal with rotation options in megabytes and days.
func NewRotatingJournal(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingJournal, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &RotatingJournal{logger: lj, path: path}, nil
}

// Record appends rec and triggers rotation if needed.
func (j *RotatingJournal) Record(rec JournalRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return json.NewEncoder(j.logger).Encode(rec)
}

// backupTimeFormat is the timestamp lumberjack puts in rotated file names.
const backupTimeFormat = "2006-01-02T15-04-05.000"

// files lists the rotated backups, oldest first, followed by the live file.
// Backups are named <base>-<timestamp><ext>; anything else sharing the
// prefix is ignored.
func (j *RotatingJournal) files() ([]string, error) {
	ext := filepath.Ext(j.path)
	prefix := strings.TrimSuffix(j.path, ext) + "-"
	matches, err := filepath.Glob(prefix + "*" + ext)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, m := range matches {
		ts := strings.TrimSuffix(strings.TrimPrefix(m, prefix), ext)
		if _, err := time.Parse(backupTimeFormat, ts); err == nil {
			files = append(files, m)
		}
	}
	if _, err := os.Stat(j.path); err == nil {
		files = append(files, j.path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return files, nil
}

// ReadAll returns the records of the rotated backups and the current file,
// oldest first. Undecodable lines are skipped.
func (j *RotatingJournal) ReadAll() ([]JournalRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	files, err := j.files()
	if err != nil {
		return nil, err
	}
	var res []JournalRecord
	for _, f := range files {
		file, err := os.Open(f)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var r JournalRecord
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			res = append(res, r)
		}
		_ = file.Close()
	}
	return res, nil
}

// Close closes the underlying writer.
func (j *RotatingJournal) Close() error {
	return j.logger.Close()
}
