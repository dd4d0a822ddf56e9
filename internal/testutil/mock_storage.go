// mock_storage.go - In-memory test doubles for the record log's collaborators
package testutil

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
)

// ErrInjected is returned by doubles configured to fail.
var ErrInjected = errors.New("injected failure")

// MockLogStore implements storage.LogStore in memory.
type MockLogStore struct {
	mu      sync.Mutex
	records []models.LogRecord
	exists  bool

	FailAppend bool
	FailReset  bool

	AppendCalls int
	ResetCalls  int
}

// NewMockLogStore creates a store pre-filled with records.
func NewMockLogStore(records ...models.LogRecord) *MockLogStore {
	return &MockLogStore{
		records: append([]models.LogRecord{}, records...),
		exists:  len(records) > 0,
	}
}

func (m *MockLogStore) Ensure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists = true
	return nil
}

func (m *MockLogStore) ReadAll() ([]models.LogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.LogRecord{}, m.records...), nil
}

func (m *MockLogStore) Append(rec models.LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls++
	if m.FailAppend {
		return ErrInjected
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *MockLogStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls++
	if m.FailReset {
		return ErrInjected
	}
	m.records = nil
	return nil
}

func (m *MockLogStore) Path() string {
	return "memory://daily_log.csv"
}

// Exists reports whether Ensure has been called or records were seeded.
func (m *MockLogStore) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists
}

// MockExporter records what it was asked to write.
type MockExporter struct {
	mu   sync.Mutex
	Fail bool

	Dest    string
	Written []models.LogRecord
	Calls   int
}

func (e *MockExporter) Write(dest string, records []models.LogRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls++
	if e.Fail {
		return ErrInjected
	}
	e.Dest = dest
	e.Written = append([]models.LogRecord{}, records...)
	return nil
}
