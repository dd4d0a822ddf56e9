// Package models contains domain types for the equipment fault logbook.
package models

// MappingRow is one row of the Line/Area/Equipment Type/Equipment table.
type MappingRow struct {
	Line          string `json:"line"`
	Area          string `json:"area"`
	EquipmentType string `json:"equipmentType"`
	Equipment     string `json:"equipment"`
}

// Source column names.
const (
	ColumnLine          = "Line"
	ColumnArea          = "Area"
	ColumnEquipmentType = "Equipment Type"
	ColumnEquipment     = "Equipment"
	ColumnFaultType     = "Type of Fault"
)
