package models

// LogHeader is the column order of the daily log and of exported spreadsheets.
var LogHeader = []string{
	"Time", "Date", "Line", "Area", "Equipment_Type", "Equipment",
	"Problem_Description", "Action_Type", "Action", "Type_of_Fault",
	"Job_Type", "EST", "LOTO_Applied",
}

// LogRecord is one saved fault entry. Records are never modified after creation.
type LogRecord struct {
	Time               string `json:"Time" msgpack:"Time"`
	Date               string `json:"Date" msgpack:"Date"`
	Line               string `json:"Line" msgpack:"Line"`
	Area               string `json:"Area" msgpack:"Area"`
	EquipmentType      string `json:"Equipment_Type" msgpack:"Equipment_Type"`
	Equipment          string `json:"Equipment" msgpack:"Equipment"`
	ProblemDescription string `json:"Problem_Description" msgpack:"Problem_Description"`
	ActionType         string `json:"Action_Type" msgpack:"Action_Type"`
	Action             string `json:"Action" msgpack:"Action"`
	FaultType          string `json:"Type_of_Fault" msgpack:"Type_of_Fault"`
	JobType            string `json:"Job_Type" msgpack:"Job_Type"`
	EST                string `json:"EST" msgpack:"EST"`
	LOTOApplied        string `json:"LOTO_Applied" msgpack:"LOTO_Applied"`
}

// Values returns the record as a row in LogHeader order.
func (r LogRecord) Values() []string {
	return []string{
		r.Time, r.Date, r.Line, r.Area, r.EquipmentType, r.Equipment,
		r.ProblemDescription, r.ActionType, r.Action, r.FaultType,
		r.JobType, r.EST, r.LOTOApplied,
	}
}

// LogRecordFromColumns builds a record from a header-keyed row.
// Missing columns become empty strings.
func LogRecordFromColumns(get func(column string) string) LogRecord {
	return LogRecord{
		Time:               get("Time"),
		Date:               get("Date"),
		Line:               get("Line"),
		Area:               get("Area"),
		EquipmentType:      get("Equipment_Type"),
		Equipment:          get("Equipment"),
		ProblemDescription: get("Problem_Description"),
		ActionType:         get("Action_Type"),
		Action:             get("Action"),
		FaultType:          get("Type_of_Fault"),
		JobType:            get("Job_Type"),
		EST:                get("EST"),
		LOTOApplied:        get("LOTO_Applied"),
	}
}

// FreeText holds the typed-in parts of a form submission.
type FreeText struct {
	Time               string `json:"time"`
	Date               string `json:"date"`
	ProblemDescription string `json:"problemDescription"`
	Action             string `json:"action"`
	EST                string `json:"est"`
}
