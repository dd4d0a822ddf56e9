package storage

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/google/uuid"
)

// LogStore defines the durable side of the record log.
type LogStore interface {
	// Ensure creates a header-only log if none exists.
	Ensure() error
	ReadAll() ([]models.LogRecord, error)
	// Append adds one record without rewriting earlier ones.
	Append(rec models.LogRecord) error
	// Reset rewrites the log to its header-only state.
	Reset() error
	Path() string
}

// CSVLogStore implements LogStore on the daily log CSV file.
type CSVLogStore struct {
	mu   sync.RWMutex
	path string
}

// NewCSVLogStore creates a store for path, creating its directory if needed.
func NewCSVLogStore(path string) (*CSVLogStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating log directory")
	}
	return &CSVLogStore{path: path}, nil
}

// Path returns the daily log file path.
func (s *CSVLogStore) Path() string {
	return s.path
}

// Ensure writes a header-only log if the file is absent.
func (s *CSVLogStore) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "checking daily log")
	}
	return s.writeHeaderOnly()
}

// ReadAll returns every record in file order. A missing file reads as empty.
func (s *CSVLogStore) ReadAll() ([]models.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.LogRecord{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "opening daily log")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []models.LogRecord{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading daily log header")
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}

	records := make([]models.LogRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading daily log row")
		}
		records = append(records, models.LogRecordFromColumns(func(column string) string {
			i, ok := columns[column]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}))
	}
	return records, nil
}

// Append writes rec at the end of the log, adding the header first if the
// file is new or empty.
func (s *CSVLogStore) Append(rec models.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening daily log")
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return errors.Wrap(err, "stat daily log")
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(models.LogHeader); err != nil {
			f.Close()
			return errors.Wrap(err, "writing header")
		}
	}
	if err := w.Write(rec.Values()); err != nil {
		f.Close()
		return errors.Wrap(err, "writing record")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.Wrap(err, "flushing record")
	}
	return errors.Wrap(f.Close(), "closing daily log")
}

// Reset replaces the log with a header-only file.
func (s *CSVLogStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeHeaderOnly()
}

// writeHeaderOnly writes to a temp file and renames it into place so a
// failed write never truncates the existing log.
func (s *CSVLogStore) writeHeaderOnly() error {
	tmp := filepath.Join(filepath.Dir(s.path), ".daily_log_"+uuid.New().String()+".tmp")

	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "creating temp log")
	}

	w := csv.NewWriter(f)
	if err := w.Write(models.LogHeader); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "writing header")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "flushing header")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "closing temp log")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "replacing daily log")
	}
	return nil
}
