package models

import (
	"time"

	"github.com/guregu/null/v5"
)

// FieldView is what a presentation layer needs to render one dropdown.
type FieldView struct {
	Field       Field       `json:"field"`
	Label       string      `json:"label"`
	Placeholder string      `json:"placeholder"`
	Value       null.String `json:"value"`
	Query       string      `json:"query"`
	Options     []string    `json:"options"`
}

// FormView is the full render state of one form.
type FormView struct {
	ID          string      `json:"id,omitempty"`
	Fields      []FieldView `json:"fields"`
	DefaultTime string      `json:"defaultTime,omitempty"`
	DefaultDate string      `json:"defaultDate,omitempty"`
	Status      string      `json:"status,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// FieldChange is emitted after a transition changes a field's value or options.
type FieldChange struct {
	Field   Field       `json:"field"`
	Value   null.String `json:"value"`
	Options []string    `json:"options"`
}
