package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownField is returned when a field name does not match any selection field.
var ErrUnknownField = errors.New("unknown field")

// Field identifies one of the eight dropdown selections on the fault form.
type Field string

const (
	FieldLine          Field = "line"
	FieldArea          Field = "area"
	FieldEquipmentType Field = "equipment_type"
	FieldEquipment     Field = "equipment"
	FieldFaultType     Field = "fault_type"
	FieldJobType       Field = "job_type"
	FieldLOTO          Field = "loto"
	FieldActionType    Field = "action_type"
)

// SelectionFields lists the selection fields in form order.
// Validation reports the first offending field in this order.
var SelectionFields = []Field{
	FieldLine,
	FieldArea,
	FieldEquipmentType,
	FieldEquipment,
	FieldFaultType,
	FieldJobType,
	FieldLOTO,
	FieldActionType,
}

var fieldLabels = map[Field]string{
	FieldLine:          "Line",
	FieldArea:          "Area",
	FieldEquipmentType: "Equipment Type",
	FieldEquipment:     "Equipment",
	FieldFaultType:     "Type of Fault",
	FieldJobType:       "Job Type",
	FieldLOTO:          "LOTO Applied",
	FieldActionType:    "Action Type",
}

var fieldPlaceholders = map[Field]string{
	FieldLine:          "Select Line",
	FieldArea:          "Select Area",
	FieldEquipmentType: "Select Type",
	FieldEquipment:     "Select Equipment",
	FieldFaultType:     "Select Fault Type",
	FieldJobType:       "Select Job Type",
	FieldLOTO:          "Select LOTO",
	FieldActionType:    "Select Action Type",
}

// ParseField resolves a field name as sent by the presentation layer.
// Matching is case-insensitive and accepts '-' or ' ' in place of '_'.
func ParseField(name string) (Field, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	f := Field(norm)
	if _, ok := fieldLabels[f]; !ok {
		return "", errors.Wrapf(ErrUnknownField, "%q", name)
	}
	return f, nil
}

// Label returns the human readable name used in messages.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Placeholder returns the text shown while the field is unset.
// It is display-only and never stored as a value.
func (f Field) Placeholder() string {
	return fieldPlaceholders[f]
}

// Cascading reports whether the field's options depend on upstream selections.
func (f Field) Cascading() bool {
	switch f {
	case FieldLine, FieldArea, FieldEquipmentType, FieldEquipment:
		return true
	}
	return false
}
