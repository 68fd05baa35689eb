package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CheckAdmissionNoUniqueness(_ context.Context, schoolID, admissionNo string, excludedStudents ...student.Student) error {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	excluded := make(map[string]struct{}, len(excludedStudents))
	for _, s := range excludedStudents {
		excluded[s.ID] = struct{}{}
	}
	for _, s := range repo.db.student.table {
		if _, ok := excluded[s.ID]; ok {
			continue
		}
		if s.SchoolID == schoolID && s.AdmissionNo == admissionNo {
			return student.ErrAdmissionNoExists
		}
	}
	return nil
}

func (repo studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	st.ID = uuid.New().String()
	repo.db.student.table[st.ID] = &st
	return st, nil
}

func (repo studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, _ []core.DBOrdering) ([]student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	var students []student.Student
	for _, s := range repo.db.student.table {
		if filter != nil {
			if filter.SchoolID != "" && s.SchoolID != filter.SchoolID {
				continue
			}
			if filter.Search != "" {
				kw := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(s.Name), kw) && !strings.Contains(s.AdmissionNo, kw) {
					continue
				}
			}
			if filter.ClassName != "" && s.ClassName != filter.ClassName {
				continue
			}
			if filter.IsActive != nil && s.IsActive != *filter.IsActive {
				continue
			}
		}
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	if st, ok := repo.db.student.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo studentRepository) UpdateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	orig, ok := repo.db.student.table[st.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	orig.Name = st.Name
	orig.ClassName = st.ClassName
	orig.GuardianName = st.GuardianName
	orig.GuardianEmail = st.GuardianEmail
	orig.GuardianPhone = st.GuardianPhone
	orig.UserID = st.UserID
	orig.IsActive = st.IsActive
	orig.UpdatedAt = st.UpdatedAt
	return *orig, nil
}

func (repo studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	for _, id := range ids {
		delete(repo.db.student.table, id)
	}
	return nil
}
