package scheduling

import (
	"time"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Appointment links a patient and a doctor at a canonical datetime. IDs are
// assigned by the caller.
type Appointment struct {
	ID        string `json:"appt_id"`
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Datetime  string `json:"datetime_str"`
	Status    Status `json:"status"`
	Summary   string `json:"summary"`
}

// Policy holds the configurable scheduling rules.
type Policy struct {
	// PatientConflictCheck rejects a second scheduled appointment of the
	// same patient at the same datetime.
	PatientConflictCheck bool
	// StrictReferences makes cancel, complete and reschedule fail when the
	// referenced patient or doctor no longer exists.
	StrictReferences bool
	// AllowDelete enables Delete.
	AllowDelete bool
}

func DefaultPolicy() Policy {
	return Policy{PatientConflictCheck: true}
}

// ValidDatetime reports whether s is in canonical "YYYY-MM-DD HH:MM" form.
func ValidDatetime(s string) bool {
	t, err := time.Parse(common.DatetimeLayout, s)
	if err != nil {
		return false
	}
	return t.Format(common.DatetimeLayout) == s
}
