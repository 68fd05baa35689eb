package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

var (
	// errors
	ErrNotFound = errors.New("attendance record not found")
)

type Repository interface {
	// UpsertRecord inserts or, when (student_id, date) already exists,
	// overwrites the status.
	UpsertRecord(ctx context.Context, rec Record) (Record, error)
	QueryRecords(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Record, error)
	// Summarize aggregates counts per status over the filter window.
	// Implementations must parameterize the aggregate query like any other.
	Summarize(ctx context.Context, filter *QueryFilter) (Summary, error)
	DeleteRecordsByID(ctx context.Context, ids ...string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Mark(ctx context.Context, ma MarkAttendance) (Record, error) {
	now := time.Now().UTC()
	rec := Record{
		SchoolID:  ma.SchoolID,
		StudentID: ma.StudentID,
		Date:      ma.Day(),
		Status:    ma.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.UpsertRecord(ctx, rec)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, filter, ordering)
}

func (svc *Service) Summarize(ctx context.Context, filter *QueryFilter) (Summary, error) {
	return svc.repo.Summarize(ctx, filter)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteRecordsByID(ctx, ids...)
}
