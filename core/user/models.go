package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

// Role gates a user into exactly one portal. The set is closed: every switch
// over it is expected to be exhaustive so adding a role is a single-point,
// compile-checked change.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
)

var (
	AllRoles = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent}

	rolePriorities = map[Role]int{
		RoleSuperAdmin:  50,
		RoleSchoolAdmin: 40,
		RoleTeacher:     30,
		RoleParent:      20,
		RoleStudent:     10,
	}
)

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries administrative rights.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleSchoolAdmin
}

func RolePriority(role Role) int {
	return rolePriorities[role]
}

func init() {
	_ = core.Validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("role", "invalid role")
}

// User is a principal: the identity behind every authenticated request.
// SchoolID is null for super admins only; everyone else belongs to a school.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         Role        `json:"role"`
	SchoolID     null.String `json:"school_id"`
	IsActive     bool        `json:"is_active"`
	PasswordHash []byte      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
	LastLogin    time.Time   `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool { return u.Role.IsAdmin() }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string      `json:"name" validate:"required"`
	Email           string      `json:"email" validate:"required,email"`
	Password        string      `json:"password" validate:"required"`
	PasswordConfirm string      `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            Role        `json:"role" validate:"required,role"`
	SchoolID        null.String `json:"school_id"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if err := validateRoleSchool(nu.Role, nu.SchoolID); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string      `json:"name"`
	Email           string      `json:"email" validate:"omitempty,email"`
	Role            Role        `json:"role" validate:"omitempty,role"`
	SchoolID        null.String `json:"school_id"`
	IsActive        *bool       `json:"is_active"`
	Password        string      `json:"password"`
	PasswordConfirm string      `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc *Service) error {
	uu.Name = core.CleanString(uu.Name)
	if uu.Name == "" {
		uu.Name = origUsr.Name
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if uu.Role == "" {
		uu.Role = origUsr.Role
	}
	if !uu.SchoolID.Valid {
		uu.SchoolID = origUsr.SchoolID
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	if err := validateRoleSchool(uu.Role, uu.SchoolID); err != nil {
		return err
	}
	return svc.checkUniqueness(uu.Email, origUsr)
}

// validateRoleSchool enforces the tenancy invariant: super admins are the only
// users without a school.
func validateRoleSchool(role Role, schoolID null.String) error {
	if role == RoleSuperAdmin {
		if schoolID.Valid {
			return core.NewValidationError(nil, core.FieldError{Field: "school_id", Error: "super admins cannot belong to a school"})
		}
		return nil
	}
	if !schoolID.Valid {
		return core.NewValidationError(nil, core.FieldError{Field: "school_id", Error: "this field is required"})
	}
	return nil
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

type QueryFilter struct {
	Search      string      `query:"search"`
	Role        Role        `query:"role"`
	SchoolID    null.String `query:"school_id"`
	IsActive    *bool       `query:"is_active"`
	CreatedFrom time.Time   `query:"created_from"`
	CreatedTo   time.Time   `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && !qf.SchoolID.Valid && qf.IsActive == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
