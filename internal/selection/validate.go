package selection

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fault-logbook/backend/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first field that blocks a save.
type ValidationError struct {
	// Key is the machine name of the field, e.g. "est" or "equipment".
	Key string
	// Label is the human readable field name used in Message.
	Label   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// submission is the flattened form. Field order is validation order: the
// three free-text fields first, then the eight selections.
type submission struct {
	ProblemDescription string `key:"problem_description" label:"Problem Description" validate:"required"`
	Action             string `key:"action" label:"Action" validate:"required"`
	EST                string `key:"est" label:"EST" validate:"required"`

	Line          string `key:"line" label:"Line" validate:"selected"`
	Area          string `key:"area" label:"Area" validate:"selected"`
	EquipmentType string `key:"equipment_type" label:"Equipment Type" validate:"selected"`
	Equipment     string `key:"equipment" label:"Equipment" validate:"selected"`
	FaultType     string `key:"fault_type" label:"Type of Fault" validate:"selected"`
	JobType       string `key:"job_type" label:"Job Type" validate:"selected"`
	LOTO          string `key:"loto" label:"LOTO Applied" validate:"selected"`
	ActionType    string `key:"action_type" label:"Action Type" validate:"selected"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	// Unset selections arrive as "", so this also rejects the placeholder state.
	_ = v.RegisterValidation("selected", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Submit checks the form and, if it is complete, returns the record to save.
// The Machine is left untouched either way.
func (m *Machine) Submit(text models.FreeText) (models.LogRecord, error) {
	sub := submission{
		ProblemDescription: strings.TrimSpace(text.ProblemDescription),
		Action:             strings.TrimSpace(text.Action),
		EST:                strings.TrimSpace(text.EST),
		Line:               m.values[models.FieldLine].ValueOrZero(),
		Area:               m.values[models.FieldArea].ValueOrZero(),
		EquipmentType:      m.values[models.FieldEquipmentType].ValueOrZero(),
		Equipment:          m.values[models.FieldEquipment].ValueOrZero(),
		FaultType:          m.values[models.FieldFaultType].ValueOrZero(),
		JobType:            m.values[models.FieldJobType].ValueOrZero(),
		LOTO:               m.values[models.FieldLOTO].ValueOrZero(),
		ActionType:         m.values[models.FieldActionType].ValueOrZero(),
	}

	if err := validate.Struct(sub); err != nil {
		verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
		if !ok || len(verrs) == 0 {
			return models.LogRecord{}, err
		}
		return models.LogRecord{}, newValidationError(verrs[0])
	}

	now := m.now()
	timeText := text.Time
	if strings.TrimSpace(timeText) == "" {
		timeText = now.Format(timeLayout)
	}
	dateText := text.Date
	if strings.TrimSpace(dateText) == "" {
		dateText = now.Format(dateLayout)
	}

	return models.LogRecord{
		Time:               timeText,
		Date:               dateText,
		Line:               sub.Line,
		Area:               sub.Area,
		EquipmentType:      sub.EquipmentType,
		Equipment:          sub.Equipment,
		ProblemDescription: text.ProblemDescription,
		ActionType:         sub.ActionType,
		Action:             text.Action,
		FaultType:          sub.FaultType,
		JobType:            sub.JobType,
		EST:                text.EST,
		LOTOApplied:        sub.LOTO,
	}, nil
}

func newValidationError(fe validator.FieldError) *ValidationError {
	key := fe.StructField()
	if sf, ok := reflect.TypeOf(submission{}).FieldByName(fe.StructField()); ok {
		key = sf.Tag.Get("key")
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("Please fill the '%s' field.", fe.Field())
	default:
		msg = fmt.Sprintf("Please select a valid value for '%s'", fe.Field())
	}

	return &ValidationError{Key: key, Label: fe.Field(), Message: msg}
}
