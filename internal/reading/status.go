package reading

// Status is a coarse classification of a blood-pressure value.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusElevated Status = "elevated"
	StatusLow      Status = "low"
)

// Thresholds in mmHg. Elevated wins over low when both apply.
const (
	ElevatedSystolic  = 140
	ElevatedDiastolic = 90
	LowSystolic       = 90
	LowDiastolic      = 60
)

// Classify returns the status for a systolic/diastolic pair.
func Classify(systolic, diastolic int) Status {
	if systolic >= ElevatedSystolic || diastolic >= ElevatedDiastolic {
		return StatusElevated
	}
	if systolic < LowSystolic || diastolic < LowDiastolic {
		return StatusLow
	}
	return StatusNormal
}

// Label is the human-readable status name.
func (s Status) Label() string {
	switch s {
	case StatusElevated:
		return "Elevated"
	case StatusLow:
		return "Low"
	default:
		return "Normal"
	}
}
