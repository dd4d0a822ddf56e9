// Package selection holds the per-form dropdown state: current values,
// cascading resets, derived option lists and live filter queries.
//
// A Machine is not safe for concurrent use. Callers serialize access to it
// (see session.Form).
package selection

import (
	"slices"
	"time"

	"github.com/fault-logbook/backend/internal/cascade"
	"github.com/fault-logbook/backend/internal/filter"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/guregu/null/v5"
)

const (
	timeLayout = "15:04:05"
	dateLayout = "02/01/2006"
)

// Machine tracks the eight selection fields of one fault form.
type Machine struct {
	index      *cascade.Index
	lines      []string
	faultTypes []string
	static     models.StaticOptions

	values  map[models.Field]null.String
	queries map[models.Field]string

	areaOptions  []string
	typeOptions  []string
	equipOptions []string

	listeners map[int]func(models.FieldChange)
	nextID    int

	now func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the clock used for default time and date.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine creates a Machine with every field unset. index is shared and
// only read.
func NewMachine(index *cascade.Index, faultTypes *cascade.FaultTypeList, static models.StaticOptions, opts ...Option) *Machine {
	m := &Machine{
		index:      index,
		lines:      index.Lines(),
		faultTypes: faultTypes.Values(),
		static:     static.WithDefaults(),
		values:     make(map[models.Field]null.String, len(models.SelectionFields)),
		queries:    make(map[models.Field]string, len(models.SelectionFields)),
		listeners:  make(map[int]func(models.FieldChange)),
		now:        time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	m.clearAll()
	return m
}

// SetLine selects a line. Area, equipment type and equipment go back to
// unset, area options are recomputed and the deeper option lists are cleared.
func (m *Machine) SetLine(value string) {
	m.values[models.FieldLine] = null.StringFrom(value)
	m.unset(models.FieldArea, models.FieldEquipmentType, models.FieldEquipment)
	m.clearQueries(models.FieldLine, models.FieldArea, models.FieldEquipmentType, models.FieldEquipment)

	m.areaOptions = m.index.Areas(value)
	m.typeOptions = []string{}
	m.equipOptions = []string{}

	m.notify(models.FieldLine, models.FieldArea, models.FieldEquipmentType, models.FieldEquipment)
}

// SetArea selects an area under the current line. Equipment type and
// equipment go back to unset. With no line selected the type options are empty.
func (m *Machine) SetArea(value string) {
	m.values[models.FieldArea] = null.StringFrom(value)
	m.unset(models.FieldEquipmentType, models.FieldEquipment)
	m.clearQueries(models.FieldArea, models.FieldEquipmentType, models.FieldEquipment)

	if line := m.values[models.FieldLine]; line.Valid {
		m.typeOptions = m.index.EquipmentTypes(line.String, value)
	} else {
		m.typeOptions = []string{}
	}
	m.equipOptions = []string{}

	m.notify(models.FieldArea, models.FieldEquipmentType, models.FieldEquipment)
}

// SetEquipmentType selects an equipment type and recomputes the equipment options.
func (m *Machine) SetEquipmentType(value string) {
	m.values[models.FieldEquipmentType] = null.StringFrom(value)
	m.unset(models.FieldEquipment)
	m.clearQueries(models.FieldEquipmentType, models.FieldEquipment)

	line, area := m.values[models.FieldLine], m.values[models.FieldArea]
	if line.Valid && area.Valid {
		m.equipOptions = m.index.Equipment(line.String, area.String, value)
	} else {
		m.equipOptions = []string{}
	}

	m.notify(models.FieldEquipmentType, models.FieldEquipment)
}

// SetEquipment, SetFaultType, SetJobType, SetLoto and SetActionType select a
// value for a field nothing else depends on. Only that field and its query
// change.
func (m *Machine) SetEquipment(value string)  { m.setLeaf(models.FieldEquipment, value) }
func (m *Machine) SetFaultType(value string)  { m.setLeaf(models.FieldFaultType, value) }
func (m *Machine) SetJobType(value string)    { m.setLeaf(models.FieldJobType, value) }
func (m *Machine) SetLoto(value string)       { m.setLeaf(models.FieldLOTO, value) }
func (m *Machine) SetActionType(value string) { m.setLeaf(models.FieldActionType, value) }

// Select applies a raw selection event for field.
func (m *Machine) Select(field models.Field, value string) error {
	field, err := models.ParseField(string(field))
	if err != nil {
		return err
	}
	if !field.Cascading() {
		m.setLeaf(field, value)
		return nil
	}
	switch field {
	case models.FieldLine:
		m.SetLine(value)
	case models.FieldArea:
		m.SetArea(value)
	case models.FieldEquipmentType:
		m.SetEquipmentType(value)
	case models.FieldEquipment:
		m.SetEquipment(value)
	}
	return nil
}

// SetQuery records the text typed into a searchable field. The field's
// option list is filtered by it until the next selection or reset.
func (m *Machine) SetQuery(field models.Field, text string) error {
	field, err := models.ParseField(string(field))
	if err != nil {
		return err
	}
	m.queries[field] = text
	m.notify(field)
	return nil
}

// Reset returns every field to unset and clears the derived option lists.
// Line options and the static lists are kept.
func (m *Machine) Reset() {
	m.clearAll()
	m.notify(models.SelectionFields...)
}

// Value returns the current value of field; an invalid null.String means unset.
func (m *Machine) Value(field models.Field) null.String {
	return m.values[field]
}

// Options returns the option list for field, filtered by its current query.
func (m *Machine) Options(field models.Field) []string {
	return slices.Clone(filter.Filter(m.rawOptions(field), m.queries[field]))
}

// Query returns the live filter text for field.
func (m *Machine) Query(field models.Field) string {
	return m.queries[field]
}

// View returns the render state of every field in form order.
func (m *Machine) View() models.FormView {
	fields := make([]models.FieldView, 0, len(models.SelectionFields))
	for _, f := range models.SelectionFields {
		fields = append(fields, models.FieldView{
			Field:       f,
			Label:       f.Label(),
			Placeholder: f.Placeholder(),
			Value:       m.values[f],
			Query:       m.queries[f],
			Options:     m.Options(f),
		})
	}
	now := m.now()
	return models.FormView{
		Fields:      fields,
		DefaultTime: now.Format(timeLayout),
		DefaultDate: now.Format(dateLayout),
	}
}

// Subscribe registers fn to be called once per changed field after every
// transition. fn runs synchronously and must not call back into the Machine.
func (m *Machine) Subscribe(fn func(models.FieldChange)) (unsubscribe func()) {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		delete(m.listeners, id)
	}
}

func (m *Machine) setLeaf(field models.Field, value string) {
	m.values[field] = null.StringFrom(value)
	m.queries[field] = ""
	m.notify(field)
}

func (m *Machine) rawOptions(field models.Field) []string {
	switch field {
	case models.FieldLine:
		return m.lines
	case models.FieldArea:
		return m.areaOptions
	case models.FieldEquipmentType:
		return m.typeOptions
	case models.FieldEquipment:
		return m.equipOptions
	case models.FieldFaultType:
		return m.faultTypes
	case models.FieldJobType:
		return m.static.JobTypes
	case models.FieldLOTO:
		return m.static.LOTO
	case models.FieldActionType:
		return m.static.ActionTypes
	}
	return []string{}
}

func (m *Machine) unset(fields ...models.Field) {
	for _, f := range fields {
		m.values[f] = null.String{}
	}
}

func (m *Machine) clearQueries(fields ...models.Field) {
	for _, f := range fields {
		m.queries[f] = ""
	}
}

func (m *Machine) clearAll() {
	m.unset(models.SelectionFields...)
	m.clearQueries(models.SelectionFields...)
	m.areaOptions = []string{}
	m.typeOptions = []string{}
	m.equipOptions = []string{}
}

func (m *Machine) notify(fields ...models.Field) {
	if len(m.listeners) == 0 {
		return
	}
	for _, f := range fields {
		change := models.FieldChange{
			Field:   f,
			Value:   m.values[f],
			Options: m.Options(f),
		}
		for _, fn := range m.listeners {
			fn(change)
		}
	}
}
