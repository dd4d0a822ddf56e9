package models

// StaticOptions are the fixed dropdown lists that do not cascade.
type StaticOptions struct {
	JobTypes    []string `json:"jobTypes" yaml:"job_types"`
	ActionTypes []string `json:"actionTypes" yaml:"action_types"`
	LOTO        []string `json:"loto" yaml:"loto"`
}

// DefaultStaticOptions returns the built-in option lists.
func DefaultStaticOptions() StaticOptions {
	return StaticOptions{
		JobTypes:    []string{"Breakdown Maint", "Preventive Maint", "Operational Maint"},
		ActionTypes: []string{"Reset/Adjustment", "Repair/Replacement"},
		LOTO:        []string{"Yes", "No"},
	}
}

// WithDefaults fills any empty list from DefaultStaticOptions.
func (o StaticOptions) WithDefaults() StaticOptions {
	d := DefaultStaticOptions()
	if len(o.JobTypes) == 0 {
		o.JobTypes = d.JobTypes
	}
	if len(o.ActionTypes) == 0 {
		o.ActionTypes = d.ActionTypes
	}
	if len(o.LOTO) == 0 {
		o.LOTO = d.LOTO
	}
	return o
}
