package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

type attendanceRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	StudentID string    `db:"student_id"`
	Date      time.Time `db:"date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (repo attendanceRepository) fromRow(row attendanceRow) attendance.Record {
	return attendance.Record{
		ID:        row.ID,
		SchoolID:  row.SchoolID,
		StudentID: row.StudentID,
		Date:      row.Date,
		Status:    attendance.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = uuid.New().String()
	var row attendanceRow
	err := repo.db.GetContext(ctx, &row, `
		INSERT INTO attendance (id, school_id, student_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING *`,
		rec.ID, rec.SchoolID, rec.StudentID, rec.Date.UTC(), rec.Status.String(),
		rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}
	return repo.fromRow(row), nil
}

func (repo attendanceRepository) filterClauses(filter *attendance.QueryFilter, args *[]interface{}) []string {
	var clauses []string
	arg := func(val interface{}) string {
		*args = append(*args, val)
		return fmt.Sprintf("$%d", len(*args))
	}

	if filter == nil {
		return clauses
	}
	if filter.SchoolID != "" {
		clauses = append(clauses, "school_id = "+arg(filter.SchoolID))
	}
	if filter.StudentID != "" {
		clauses = append(clauses, "student_id = "+arg(filter.StudentID))
	}
	if !filter.DateFrom.IsZero() {
		clauses = append(clauses, "date >= "+arg(filter.DateFrom.UTC()))
	}
	if !filter.DateTo.IsZero() {
		clauses = append(clauses, "date <= "+arg(filter.DateTo.UTC()))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = "+arg(filter.Status.String()))
	}
	return clauses
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter, ordering []core.DBOrdering) ([]attendance.Record, error) {
	q := "SELECT * FROM attendance"
	var args []interface{}
	clauses := repo.filterClauses(filter, &args)
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += orderBy(ordering, "date DESC")

	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, repo.fromRow(row))
	}
	return recs, nil
}

func (repo attendanceRepository) Summarize(ctx context.Context, filter *attendance.QueryFilter) (attendance.Summary, error) {
	q := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'present') AS present,
			COUNT(*) FILTER (WHERE status = 'absent')  AS absent,
			COUNT(*) FILTER (WHERE status = 'late')    AS late,
			COUNT(*) AS total
		FROM attendance`
	var args []interface{}
	clauses := repo.filterClauses(filter, &args)
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}

	var row struct {
		Present int `db:"present"`
		Absent  int `db:"absent"`
		Late    int `db:"late"`
		Total   int `db:"total"`
	}
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return attendance.Summary{}, errors.Wrap(err, "summarizing attendance")
	}
	return attendance.Summary(row), nil
}

func (repo attendanceRepository) DeleteRecordsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM attendance WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting attendance records")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting attendance records")
	}
	return nil
}
