package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")

	// ErrAuthenticationFailed is the single, enumeration-safe login failure:
	// unknown email, wrong password and store trouble all collapse into it.
	ErrAuthenticationFailed = errors.New("Invalid email or password")

	ErrAccountDeactivated = errors.New("account deactivated")
)

type Repository interface {
	CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
	CreateUser(ctx context.Context, usr User) (User, error)
	// QueryUsers applies AND operation on available QueryFilter fields.
	// QueryFilter.Search does a case-insensitive match on User.Name or User.Email.
	QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// UpdateUser ignores zero-valued fields; isActive is applied only when
	// non-nil.
	UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
	UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
	DeleteUsersByID(ctx context.Context, ids ...string) error
}

type Service struct {
	repo    Repository
	mailSvc core.EmailService
	logger  core.Logger
	conf    *core.Config
}

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	secretKey = conf.SecretKey
	passwordResetTimeoutDelta = conf.Server.PasswordResetTimeoutDelta
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
}

func (svc *Service) checkUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Authenticate looks up the credential by (cleaned) email and verifies the
// password. Unknown emails, bad passwords and an unreachable store all return
// ErrAuthenticationFailed; store trouble is logged with full detail first.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			svc.logger.Error("user lookup failed", errors.Wrap(err, "finding user by email"))
		}
		return User{}, ErrAuthenticationFailed
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}

	// lastLogin is bookkeeping; a failed write must not fail the login
	usr.LastLogin = time.Now().UTC()
	if updated, err := svc.repo.UpdateUser(ctx, usr, nil); err != nil {
		svc.logger.Error("setting lastLogin failed", errors.Wrap(err, "updating user"))
	} else {
		usr = updated
	}
	return usr, nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		SchoolID:  nu.SchoolID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Email:     uu.Email,
		Role:      uu.Role,
		SchoolID:  uu.SchoolID,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

// RequestPasswordReset emails a signed, timestamped reset link to the user.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}

	token, err := MakeToken(usr)
	if err != nil {
		return errors.Wrap(err, "making reset token")
	}
	link := fmt.Sprintf("%s/auth/password-reset-confirm?uid=%s&token=%s", svc.conf.FrontendBaseURL, EncodeUID(usr), token)

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password reset",
		BodyStr: "A password reset was requested for your account.\r\n\r\n" +
			"Follow this link to choose a new password:\r\n" + link + "\r\n\r\n" +
			"If you did not request a reset, you can ignore this email.",
	})
	return nil
}

// ResetPassword validates the emailed token and sets the new password.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	uid, err := decodeUID(rp.UID)
	if err != nil {
		return errInvalidToken
	}
	usr, err := svc.repo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return errInvalidToken
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return err
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateUser(ctx, usr, nil); err != nil {
		return errors.Wrap(err, "updating user")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password changed",
		BodyStr: "Your password has been changed.\r\n\r\n" +
			"If you did not do this, contact your school administrator immediately.",
	})
	return nil
}
