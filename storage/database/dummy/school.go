package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo schoolRepository) CheckSlugUniqueness(_ context.Context, slug string, excludedSchools ...school.School) error {
	repo.db.school.RLock()
	defer repo.db.school.RUnlock()

	excluded := make(map[string]struct{}, len(excludedSchools))
	for _, s := range excludedSchools {
		excluded[s.ID] = struct{}{}
	}
	for _, s := range repo.db.school.table {
		if _, ok := excluded[s.ID]; ok {
			continue
		}
		if s.Slug == slug {
			return school.ErrSlugExists
		}
	}
	return nil
}

func (repo schoolRepository) CreateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.school.Lock()
	defer repo.db.school.Unlock()

	sch.ID = uuid.New().String()
	repo.db.school.table[sch.ID] = &sch
	return sch, nil
}

func (repo schoolRepository) QuerySchools(_ context.Context, filter *school.QueryFilter, _ []core.DBOrdering) ([]school.School, error) {
	repo.db.school.RLock()
	defer repo.db.school.RUnlock()

	var schools []school.School
	for _, s := range repo.db.school.table {
		if filter != nil {
			if filter.Search != "" {
				kw := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(s.Name), kw) && !strings.Contains(s.Slug, kw) {
					continue
				}
			}
			if filter.IsActive != nil && s.IsActive != *filter.IsActive {
				continue
			}
		}
		schools = append(schools, *s)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].Name < schools[j].Name })
	return schools, nil
}

func (repo schoolRepository) GetSchoolByID(_ context.Context, id string) (school.School, error) {
	repo.db.school.RLock()
	defer repo.db.school.RUnlock()

	if sch, ok := repo.db.school.table[id]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo schoolRepository) GetSchoolBySlug(_ context.Context, slug string) (school.School, error) {
	repo.db.school.RLock()
	defer repo.db.school.RUnlock()

	for _, sch := range repo.db.school.table {
		if sch.Slug == slug {
			return *sch, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo schoolRepository) UpdateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.school.Lock()
	defer repo.db.school.Unlock()

	orig, ok := repo.db.school.table[sch.ID]
	if !ok {
		return school.School{}, school.ErrNotFound
	}
	orig.Name = sch.Name
	orig.Slug = sch.Slug
	orig.Address = sch.Address
	orig.IsActive = sch.IsActive
	orig.UpdatedAt = sch.UpdatedAt
	return *orig, nil
}

func (repo schoolRepository) DeleteSchoolsByID(_ context.Context, ids ...string) error {
	repo.db.school.Lock()
	defer repo.db.school.Unlock()

	for _, id := range ids {
		delete(repo.db.school.table, id)
	}
	return nil
}
