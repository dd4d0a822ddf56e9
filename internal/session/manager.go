package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/fault-logbook/backend/internal/selection"
	"github.com/google/uuid"
)

// MaxForms limits open forms; the least recently used form is dropped when
// a new one would exceed it.
const MaxForms = 32

// ErrFormNotFound is returned for unknown or expired form ids.
var ErrFormNotFound = errors.New("form not found")

// MachineFactory builds a fresh selection machine for a new form.
type MachineFactory func() *selection.Machine

// Form is one open fault form. All access to its machine goes through the
// form's lock, which plays the role of the single UI thread.
type Form struct {
	mu           sync.Mutex
	id           string
	machine      *selection.Machine
	status       string
	createdAt    time.Time
	lastAccessed time.Time
}

// ID returns the form id.
func (f *Form) ID() string {
	return f.id
}

// Do runs fn against the form's machine under the form lock.
func (f *Form) Do(fn func(m *selection.Machine) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAccessed = time.Now()
	return fn(f.machine)
}

// View returns the current render state including the last status line.
func (f *Form) View() models.FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

// Subscribe forwards the machine's field changes to fn. fn is called with
// the form lock held and must not block.
func (f *Form) Subscribe(fn func(models.FieldChange)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	unsub := f.machine.Subscribe(fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		unsub()
	}
}

// Save validates the form, appends the record to log and resets the form.
// On a validation or storage error nothing changes.
func (f *Form) Save(text models.FreeText, log *recordlog.Log) (models.LogRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAccessed = time.Now()

	rec, err := f.machine.Submit(text)
	if err != nil {
		return models.LogRecord{}, err
	}

	n, err := log.Append(rec)
	if err != nil {
		return models.LogRecord{}, err
	}

	f.machine.Reset()
	f.status = fmt.Sprintf("Saved (%d rows)", n)
	return rec, nil
}

func (f *Form) viewLocked() models.FormView {
	v := f.machine.View()
	v.ID = f.id
	v.Status = f.status
	v.CreatedAt = f.createdAt
	return v
}

func (f *Form) idleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAccessed
}

// Manager holds the open forms.
type Manager struct {
	forms   map[string]*Form
	mu      sync.RWMutex
	factory MachineFactory
	logger  *slog.Logger
}

// NewManager creates a form manager. factory is called once per new form.
func NewManager(factory MachineFactory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		forms:   make(map[string]*Form),
		factory: factory,
		logger:  logger,
	}
}

// Create opens a new form with every field unset.
func (m *Manager) Create() *Form {
	now := time.Now()
	form := &Form{
		id:           uuid.New().String(),
		machine:      m.factory(),
		status:       "Ready",
		createdAt:    now,
		lastAccessed: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.forms) >= MaxForms {
		m.evictOldestLocked()
	}
	m.forms[form.id] = form
	return form
}

// Get returns a form by id.
func (m *Manager) Get(id string) (*Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	form, ok := m.forms[id]
	if !ok {
		return nil, errors.Wrapf(ErrFormNotFound, "%s", id)
	}
	return form, nil
}

// Delete closes a form.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.forms[id]; !ok {
		return errors.Wrapf(ErrFormNotFound, "%s", id)
	}
	delete(m.forms, id)
	return nil
}

// Len returns the number of open forms.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.forms)
}

// CleanupIdle removes forms not used within maxIdle and returns how many
// were removed.
func (m *Manager) CleanupIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for id, form := range m.forms {
		last := form.idleSince()
		if last.Before(cutoff) {
			delete(m.forms, id)
			removed++
			m.logger.Info("closed idle form", "form", id[:8], "idle", time.Since(last).Round(time.Second))
		}
	}
	return removed
}

// RunCleanup calls CleanupIdle every interval until ctx is done. A
// non-positive interval disables cleanup and returns at once.
func (m *Manager) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 {
		m.logger.Warn("idle form cleanup disabled", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupIdle(maxIdle)
		}
	}
}

func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, form := range m.forms {
		last := form.idleSince()
		if oldestID == "" || last.Before(oldest) {
			oldestID, oldest = id, last
		}
	}
	if oldestID != "" {
		delete(m.forms, oldestID)
		m.logger.Info("evicted least recently used form", "form", oldestID[:8])
	}
}
