package school

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

var (
	// errors
	ErrNotFound   = errors.New("school not found")
	ErrSlugExists = errors.New("a school with this slug already exists")
)

type Repository interface {
	CheckSlugUniqueness(ctx context.Context, slug string, excludedSchools ...School) error
	CreateSchool(ctx context.Context, sch School) (School, error)
	QuerySchools(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]School, error)
	GetSchoolByID(ctx context.Context, id string) (School, error)
	GetSchoolBySlug(ctx context.Context, slug string) (School, error)
	UpdateSchool(ctx context.Context, sch School) (School, error)
	DeleteSchoolsByID(ctx context.Context, ids ...string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(slug string, exclSchools ...School) error {
	if err := svc.repo.CheckSlugUniqueness(context.Background(), slug, exclSchools...); err != nil {
		if errors.Cause(err) == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSchool) (School, error) {
	now := time.Now().UTC()
	sch := School{
		Name:      ns.Name,
		Slug:      ns.Slug,
		Address:   ns.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateSchool(ctx, sch)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]School, error) {
	return svc.repo.QuerySchools(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *Service) GetBySlug(ctx context.Context, slug string) (School, error) {
	return svc.repo.GetSchoolBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, orig School, us UpdateSchool) (School, error) {
	sch := School{
		ID:        orig.ID,
		Name:      us.Name,
		Slug:      us.Slug,
		Address:   us.Address,
		IsActive:  orig.IsActive,
		UpdatedAt: time.Now().UTC(),
	}
	if us.IsActive != nil {
		sch.IsActive = *us.IsActive
	}
	return svc.repo.UpdateSchool(ctx, sch)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSchoolsByID(ctx, ids...)
}
