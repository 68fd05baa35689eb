package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.attendance.Lock()
	defer repo.db.attendance.Unlock()

	for _, r := range repo.db.attendance.table {
		if r.StudentID == rec.StudentID && r.Date.Equal(rec.Date) {
			r.Status = rec.Status
			r.UpdatedAt = rec.UpdatedAt
			return *r, nil
		}
	}
	rec.ID = uuid.New().String()
	repo.db.attendance.table[rec.ID] = &rec
	return rec, nil
}

func (repo attendanceRepository) matches(rec *attendance.Record, filter *attendance.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.SchoolID != "" && rec.SchoolID != filter.SchoolID {
		return false
	}
	if filter.StudentID != "" && rec.StudentID != filter.StudentID {
		return false
	}
	if !filter.DateFrom.IsZero() && rec.Date.Before(filter.DateFrom) {
		return false
	}
	if !filter.DateTo.IsZero() && rec.Date.After(filter.DateTo) {
		return false
	}
	if filter.Status != "" && rec.Status != filter.Status {
		return false
	}
	return true
}

func (repo attendanceRepository) QueryRecords(_ context.Context, filter *attendance.QueryFilter, _ []core.DBOrdering) ([]attendance.Record, error) {
	repo.db.attendance.RLock()
	defer repo.db.attendance.RUnlock()

	var recs []attendance.Record
	for _, r := range repo.db.attendance.table {
		if repo.matches(r, filter) {
			recs = append(recs, *r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date.After(recs[j].Date) })
	return recs, nil
}

func (repo attendanceRepository) Summarize(_ context.Context, filter *attendance.QueryFilter) (attendance.Summary, error) {
	repo.db.attendance.RLock()
	defer repo.db.attendance.RUnlock()

	var sum attendance.Summary
	for _, r := range repo.db.attendance.table {
		if !repo.matches(r, filter) {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent:
			sum.Present++
		case attendance.StatusAbsent:
			sum.Absent++
		case attendance.StatusLate:
			sum.Late++
		}
		sum.Total++
	}
	return sum, nil
}

func (repo attendanceRepository) DeleteRecordsByID(_ context.Context, ids ...string) error {
	repo.db.attendance.Lock()
	defer repo.db.attendance.Unlock()

	for _, id := range ids {
		delete(repo.db.attendance.table, id)
	}
	return nil
}
