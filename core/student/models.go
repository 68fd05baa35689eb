package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

// Student is an enrollment record, always scoped to a school. UserID links to
// the student's login account when one has been provisioned.
type Student struct {
	ID            string      `json:"id"`
	SchoolID      string      `json:"school_id"`
	UserID        null.String `json:"user_id"`
	Name          string      `json:"name"`
	AdmissionNo   string      `json:"admission_no"`
	ClassName     string      `json:"class_name"`
	GuardianName  string      `json:"guardian_name"`
	GuardianEmail string      `json:"guardian_email"`
	GuardianPhone string      `json:"guardian_phone"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"` // UTC
	UpdatedAt     time.Time   `json:"updated_at"` // UTC
}

type NewStudent struct {
	SchoolID      string      `json:"school_id" validate:"required"`
	UserID        null.String `json:"user_id"`
	Name          string      `json:"name" validate:"required"`
	AdmissionNo   string      `json:"admission_no" validate:"required"`
	ClassName     string      `json:"class_name"`
	GuardianName  string      `json:"guardian_name"`
	GuardianEmail string      `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone string      `json:"guardian_phone"`
}

func (ns *NewStudent) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.AdmissionNo = core.CleanString(ns.AdmissionNo, true /* lower */)
	ns.ClassName = core.CleanString(ns.ClassName)
	ns.GuardianName = core.CleanString(ns.GuardianName)
	ns.GuardianEmail = core.CleanString(ns.GuardianEmail, true /* lower */)
	ns.GuardianPhone = core.CleanString(ns.GuardianPhone)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.SchoolID, ns.AdmissionNo)
}

type UpdateStudent struct {
	Name          string      `json:"name"`
	ClassName     string      `json:"class_name"`
	GuardianName  string      `json:"guardian_name"`
	GuardianEmail string      `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone string      `json:"guardian_phone"`
	UserID        null.String `json:"user_id"`
	IsActive      *bool       `json:"is_active"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	us.Name = core.CleanString(us.Name)
	if us.Name == "" {
		us.Name = orig.Name
	}
	us.ClassName = core.CleanString(us.ClassName)
	if us.ClassName == "" {
		us.ClassName = orig.ClassName
	}
	us.GuardianName = core.CleanString(us.GuardianName)
	if us.GuardianName == "" {
		us.GuardianName = orig.GuardianName
	}
	us.GuardianEmail = core.CleanString(us.GuardianEmail, true /* lower */)
	if us.GuardianEmail == "" {
		us.GuardianEmail = orig.GuardianEmail
	}
	us.GuardianPhone = core.CleanString(us.GuardianPhone)
	if us.GuardianPhone == "" {
		us.GuardianPhone = orig.GuardianPhone
	}
	if !us.UserID.Valid {
		us.UserID = orig.UserID
	}

	return core.Validate.Struct(us)
}

type QueryFilter struct {
	// SchoolID is mandatory for non-super-admin callers; handlers force it to
	// the caller's own school.
	SchoolID  string `query:"school_id"`
	Search    string `query:"search"`
	ClassName string `query:"class_name"`
	IsActive  *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.ClassName = core.CleanString(qf.ClassName)
}
