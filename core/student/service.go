package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

var (
	// errors
	ErrNotFound          = errors.New("student not found")
	ErrAdmissionNoExists = errors.New("a student with this admission number already exists in this school")
)

type Repository interface {
	// CheckAdmissionNoUniqueness scopes the check to a single school; two
	// schools may reuse the same admission number.
	CheckAdmissionNoUniqueness(ctx context.Context, schoolID, admissionNo string, excludedStudents ...Student) error
	CreateStudent(ctx context.Context, st Student) (Student, error)
	QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
	GetStudentByID(ctx context.Context, id string) (Student, error)
	UpdateStudent(ctx context.Context, st Student) (Student, error)
	DeleteStudentsByID(ctx context.Context, ids ...string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(schoolID, admissionNo string, exclStudents ...Student) error {
	if err := svc.repo.CheckAdmissionNoUniqueness(context.Background(), schoolID, admissionNo, exclStudents...); err != nil {
		if errors.Cause(err) == ErrAdmissionNoExists {
			return core.NewValidationError(err, core.FieldError{Field: "admission_no", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	st := Student{
		SchoolID:      ns.SchoolID,
		UserID:        ns.UserID,
		Name:          ns.Name,
		AdmissionNo:   ns.AdmissionNo,
		ClassName:     ns.ClassName,
		GuardianName:  ns.GuardianName,
		GuardianEmail: ns.GuardianEmail,
		GuardianPhone: ns.GuardianPhone,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateStudent(ctx, st)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Student, us UpdateStudent) (Student, error) {
	st := Student{
		ID:            orig.ID,
		SchoolID:      orig.SchoolID,
		AdmissionNo:   orig.AdmissionNo,
		IsActive:      orig.IsActive,
		Name:          us.Name,
		ClassName:     us.ClassName,
		GuardianName:  us.GuardianName,
		GuardianEmail: us.GuardianEmail,
		GuardianPhone: us.GuardianPhone,
		UserID:        us.UserID,
		UpdatedAt:     time.Now().UTC(),
	}
	if us.IsActive != nil {
		st.IsActive = *us.IsActive
	}
	return svc.repo.UpdateStudent(ctx, st)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}
