package model

// Bundle is the export/import document holding every habit and event.
type Bundle struct {
	Habits []Habit `json:"habits"`
	Events []Event `json:"events"`
}

// ImportResult counts the rows an import wrote. Events already present
// are skipped and not counted.
type ImportResult struct {
	Habits int `json:"habits"`
	Events int `json:"events"`
}
