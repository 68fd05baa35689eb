package main

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

// addUser updates or creates a user.User. Super admins belong to no school;
// every other role requires one.
func (cli *commandLine) addUser(name, email, pwd string, role user.Role, schoolID string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	if !role.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}
	school := null.NewString(schoolID, schoolID != "")
	if role == user.RoleSuperAdmin && school.Valid {
		return core.NewValidationError(nil, core.FieldError{Field: "school", Error: "super admins cannot belong to a school"})
	}
	if role != user.RoleSuperAdmin && !school.Valid {
		return core.NewValidationError(nil, core.FieldError{Field: "school", Error: "this flag is required"})
	}

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Name = name
	usr.Role = role
	usr.SchoolID = school
	usr.IsActive = true
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
