// Package recordlog keeps the session's saved fault records in memory and
// mirrors every change to durable storage.
package recordlog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/storage"
)

// ErrNoRecords is returned by ExportAndClear when there is nothing to export.
var ErrNoRecords = errors.New("no entries to export")

// Exporter writes records to a destination such as a spreadsheet file.
type Exporter interface {
	Write(dest string, records []models.LogRecord) error
}

// ExportResult describes a completed export.
type ExportResult struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// Status returns the user-facing status line for the export.
func (r ExportResult) Status() string {
	return fmt.Sprintf("Exported %d rows → %s", r.Rows, r.Path)
}

// Log is the append-only list of saved records.
type Log struct {
	mu      sync.RWMutex
	store   storage.LogStore
	records []models.LogRecord
	logger  *slog.Logger
}

// New ensures the durable log exists and loads any records already in it.
func New(store storage.LogStore, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := store.Ensure(); err != nil {
		return nil, errors.Wrap(err, "preparing daily log")
	}
	records, err := store.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "loading daily log")
	}
	logger.Info("record log loaded", "path", store.Path(), "records", len(records))
	return &Log{store: store, records: records, logger: logger}, nil
}

// Append persists rec and then adds it to memory. If the write fails the
// in-memory log is unchanged.
func (l *Log) Append(rec models.LogRecord) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Append(rec); err != nil {
		return len(l.records), errors.Wrap(err, "appending record")
	}
	l.records = append(l.records, rec)
	return len(l.records), nil
}

// All returns a copy of the records in save order.
func (l *Log) All() []models.LogRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.LogRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of pending records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Clear resets durable storage to header-only and empties memory.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clearLocked()
}

// ExportAndClear writes every record through exp and clears the log only if
// the write succeeded. A failed export leaves both memory and storage as
// they were.
func (l *Log) ExportAndClear(exp Exporter, dest string) (ExportResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) == 0 {
		return ExportResult{}, ErrNoRecords
	}

	rows := len(l.records)
	if err := exp.Write(dest, l.records); err != nil {
		l.logger.Error("export failed, log kept", "dest", dest, "records", rows, "error", err)
		return ExportResult{}, errors.Wrapf(err, "exporting to %s", dest)
	}

	if err := l.clearLocked(); err != nil {
		// The spreadsheet is complete; only the reset failed, so the
		// records are still pending and will be exported again next time.
		return ExportResult{Path: dest, Rows: rows}, errors.Wrap(err, "clearing after export")
	}

	l.logger.Info("records exported", "dest", dest, "rows", rows)
	return ExportResult{Path: dest, Rows: rows}, nil
}

func (l *Log) clearLocked() error {
	if err := l.store.Reset(); err != nil {
		return errors.Wrap(err, "resetting daily log")
	}
	l.records = []models.LogRecord{}
	return nil
}
