package selection

import (
	"testing"

	"github.com/fault-logbook/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeMachine() *Machine {
	m := newTestMachine()
	m.SetLine("L1")
	m.SetArea("A1")
	m.SetEquipmentType("T1")
	m.SetEquipment("E2")
	m.SetFaultType("Electrical")
	m.SetJobType("Breakdown Maint")
	m.SetLoto("Yes")
	m.SetActionType("Repair/Replacement")
	return m
}

func completeText() models.FreeText {
	return models.FreeText{
		ProblemDescription: "Motor overheating",
		Action:             "Replaced fan",
		EST:                "45 min",
	}
}

func TestSubmit_Complete(t *testing.T) {
	m := completeMachine()

	rec, err := m.Submit(completeText())
	require.NoError(t, err)

	assert.Equal(t, models.LogRecord{
		Time:               "14:05:07",
		Date:               "09/03/2024",
		Line:               "L1",
		Area:               "A1",
		EquipmentType:      "T1",
		Equipment:          "E2",
		ProblemDescription: "Motor overheating",
		ActionType:         "Repair/Replacement",
		Action:             "Replaced fan",
		FaultType:          "Electrical",
		JobType:            "Breakdown Maint",
		EST:                "45 min",
		LOTOApplied:        "Yes",
	}, rec)

	// Submit never mutates the form.
	assert.Equal(t, "E2", m.Value(models.FieldEquipment).String)
}

func TestSubmit_KeepsExplicitTimeAndDate(t *testing.T) {
	text := completeText()
	text.Time = "08:00:00"
	text.Date = "2024-03-01"

	rec, err := completeMachine().Submit(text)
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", rec.Time)
	assert.Equal(t, "2024-03-01", rec.Date)
}

func TestSubmit_RejectsBlankText(t *testing.T) {
	tests := []struct {
		key     string
		mutate  func(*models.FreeText)
		message string
	}{
		{"problem_description", func(f *models.FreeText) { f.ProblemDescription = "  \t" }, "Please fill the 'Problem Description' field."},
		{"action", func(f *models.FreeText) { f.Action = "\n" }, "Please fill the 'Action' field."},
		{"est", func(f *models.FreeText) { f.EST = " " }, "Please fill the 'EST' field."},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			text := completeText()
			tt.mutate(&text)

			_, err := completeMachine().Submit(text)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.key, verr.Key)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestSubmit_RejectsUnsetSelection(t *testing.T) {
	for _, field := range models.SelectionFields {
		t.Run(string(field), func(t *testing.T) {
			m := completeMachine()
			m.unset(field)

			_, err := m.Submit(completeText())

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, string(field), verr.Key)
			assert.Equal(t, field.Label(), verr.Label)
			assert.Equal(t, "Please select a valid value for '"+field.Label()+"'", verr.Message)
		})
	}
}

func TestSubmit_RejectsBlankSelectionValue(t *testing.T) {
	m := completeMachine()
	m.SetLoto("   ")

	_, err := m.Submit(completeText())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "loto", verr.Key)
}

func TestSubmit_EquipmentStillPlaceholder(t *testing.T) {
	m := newTestMachine()
	m.SetLine("L1")
	m.SetArea("A1")
	m.SetEquipmentType("T1")
	m.SetFaultType("Electrical")
	m.SetJobType("Breakdown Maint")
	m.SetLoto("No")
	m.SetActionType("Reset/Adjustment")

	_, err := m.Submit(completeText())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "equipment", verr.Key)
	assert.Contains(t, verr.Error(), "Equipment")
}

func TestSubmit_TextCheckedBeforeSelections(t *testing.T) {
	m := newTestMachine()

	_, err := m.Submit(models.FreeText{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "problem_description", verr.Key)
}
