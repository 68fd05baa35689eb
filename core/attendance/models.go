package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

// Status is the closed set of attendance outcomes.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

func init() {
	_ = core.Validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("attendance_status", "must be one of: present, absent, late")
}

// Record is one student's attendance for one day. (student_id, date) is
// unique; re-marking the same day overwrites the status.
type Record struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	StudentID string    `json:"student_id"`
	Date      time.Time `json:"date"` // date only, UTC midnight
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type MarkAttendance struct {
	SchoolID  string `json:"school_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    Status `json:"status" validate:"required,attendance_status"`

	date time.Time
}

func (ma *MarkAttendance) Validate() error {
	if err := core.Validate.Struct(ma); err != nil {
		return err
	}
	d, err := time.Parse("2006-01-02", ma.Date)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a date of form YYYY-MM-DD"})
	}
	ma.date = d.UTC()
	return nil
}

// Day returns the parsed date; only valid after Validate.
func (ma *MarkAttendance) Day() time.Time { return ma.date }

type QueryFilter struct {
	SchoolID  string    `query:"school_id"`
	StudentID string    `query:"student_id"`
	DateFrom  time.Time `query:"date_from"`
	DateTo    time.Time `query:"date_to"`
	Status    Status    `query:"status"`
}

// Summary aggregates attendance counts over the queried window.
type Summary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Total   int `json:"total"`
}
