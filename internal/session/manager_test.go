package session

import (
	"context"
	"testing"
	"time"

	"github.com/fault-logbook/backend/internal/cascade"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/fault-logbook/backend/internal/selection"
	"github.com/fault-logbook/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	idx := cascade.Build([]models.MappingRow{
		{Line: "L1", Area: "A1", EquipmentType: "T1", Equipment: "E1"},
	})
	faults := cascade.NewFaultTypeList([]string{"Electrical"})
	return NewManager(func() *selection.Machine {
		return selection.NewMachine(idx, faults, models.DefaultStaticOptions())
	}, nil)
}

func fillForm(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.Do(func(m *selection.Machine) error {
		m.SetLine("L1")
		m.SetArea("A1")
		m.SetEquipmentType("T1")
		m.SetEquipment("E1")
		m.SetFaultType("Electrical")
		m.SetJobType("Breakdown Maint")
		m.SetLoto("Yes")
		m.SetActionType("Reset/Adjustment")
		return nil
	}))
}

func TestManager_CreateGetDelete(t *testing.T) {
	m := newTestManager()

	f := m.Create()
	assert.NotEmpty(t, f.ID())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(f.ID())
	require.NoError(t, err)
	assert.Same(t, f, got)

	require.NoError(t, m.Delete(f.ID()))
	_, err = m.Get(f.ID())
	assert.ErrorIs(t, err, ErrFormNotFound)
	assert.ErrorIs(t, m.Delete(f.ID()), ErrFormNotFound)
}

func TestManager_ViewReportsCreation(t *testing.T) {
	m := newTestManager()
	before := time.Now()
	f := m.Create()

	view := f.View()
	assert.Equal(t, f.ID(), view.ID)
	assert.Equal(t, "Ready", view.Status)
	assert.False(t, view.CreatedAt.Before(before))
	assert.False(t, view.CreatedAt.After(time.Now()))
}

func TestManager_FormsAreIndependent(t *testing.T) {
	m := newTestManager()
	a, b := m.Create(), m.Create()

	require.NoError(t, a.Do(func(mc *selection.Machine) error {
		mc.SetLine("L1")
		return nil
	}))

	assert.True(t, a.View().Fields[0].Value.Valid)
	assert.False(t, b.View().Fields[0].Value.Valid)
}

func TestForm_Save(t *testing.T) {
	m := newTestManager()
	log, err := recordlog.New(testutil.NewMockLogStore(), nil)
	require.NoError(t, err)

	f := m.Create()
	fillForm(t, f)

	rec, err := f.Save(models.FreeText{ProblemDescription: "Trip", Action: "Reset breaker", EST: "10"}, log)
	require.NoError(t, err)
	assert.Equal(t, "E1", rec.Equipment)
	assert.Equal(t, 1, log.Len())

	view := f.View()
	assert.Equal(t, "Saved (1 rows)", view.Status)
	for _, fv := range view.Fields {
		assert.False(t, fv.Value.Valid, "%s should be reset after save", fv.Field)
	}
}

func TestForm_SaveRejectedLeavesStateAlone(t *testing.T) {
	m := newTestManager()
	store := testutil.NewMockLogStore()
	log, _ := recordlog.New(store, nil)

	f := m.Create()
	fillForm(t, f)

	_, err := f.Save(models.FreeText{ProblemDescription: "Trip", Action: "", EST: "10"}, log)

	var verr *selection.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "action", verr.Key)
	assert.Equal(t, 0, store.AppendCalls)
	assert.True(t, f.View().Fields[3].Value.Valid)
}

func TestForm_SaveStorageFailureKeepsForm(t *testing.T) {
	m := newTestManager()
	store := testutil.NewMockLogStore()
	log, _ := recordlog.New(store, nil)
	store.FailAppend = true

	f := m.Create()
	fillForm(t, f)

	_, err := f.Save(models.FreeText{ProblemDescription: "Trip", Action: "x", EST: "10"}, log)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, "E1", f.View().Fields[3].Value.String)
}

func TestForm_Subscribe(t *testing.T) {
	f := newTestManager().Create()

	var got []models.Field
	unsub := f.Subscribe(func(c models.FieldChange) { got = append(got, c.Field) })

	require.NoError(t, f.Do(func(m *selection.Machine) error {
		m.SetEquipment("E1")
		return nil
	}))
	assert.Equal(t, []models.Field{models.FieldEquipment}, got)

	unsub()
	require.NoError(t, f.Do(func(m *selection.Machine) error {
		m.Reset()
		return nil
	}))
	assert.Len(t, got, 1)
}

func TestManager_CleanupIdle(t *testing.T) {
	m := newTestManager()
	stale := m.Create()
	fresh := m.Create()

	stale.mu.Lock()
	stale.lastAccessed = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	removed := m.CleanupIdle(time.Hour)
	assert.Equal(t, 1, removed)

	_, err := m.Get(stale.ID())
	assert.ErrorIs(t, err, ErrFormNotFound)
	_, err = m.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestManager_EvictsLeastRecentlyUsed(t *testing.T) {
	m := newTestManager()
	first := m.Create()
	first.mu.Lock()
	first.lastAccessed = time.Now().Add(-time.Hour)
	first.mu.Unlock()

	for i := 1; i < MaxForms; i++ {
		m.Create()
	}
	require.Equal(t, MaxForms, m.Len())

	m.Create()
	assert.Equal(t, MaxForms, m.Len())
	_, err := m.Get(first.ID())
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestManager_RunCleanupNonPositiveInterval(t *testing.T) {
	m := newTestManager()

	done := make(chan struct{})
	go func() {
		m.RunCleanup(context.Background(), 0, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup with a zero interval did not return")
	}
}

func TestManager_RunCleanupStopsOnCancel(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.RunCleanup(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}
