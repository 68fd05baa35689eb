package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID            string      `db:"id"`
	SchoolID      string      `db:"school_id"`
	UserID        null.String `db:"user_id"`
	Name          string      `db:"name"`
	AdmissionNo   string      `db:"admission_no"`
	ClassName     string      `db:"class_name"`
	GuardianName  string      `db:"guardian_name"`
	GuardianEmail string      `db:"guardian_email"`
	GuardianPhone string      `db:"guardian_phone"`
	IsActive      bool        `db:"is_active"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (repo studentRepository) fromRow(row studentRow) student.Student {
	return student.Student(row)
}

func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CheckAdmissionNoUniqueness(ctx context.Context, schoolID, admissionNo string, excludedStudents ...student.Student) error {
	q := "SELECT EXISTS (SELECT 1 FROM student WHERE school_id = $1 AND admission_no = $2"
	args := []interface{}{schoolID, admissionNo}
	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, s := range excludedStudents {
			ids = append(ids, s.ID)
		}
		inQ, inArgs, err := sqlx.In("AND id NOT IN (?)", ids)
		if err != nil {
			return errors.Wrap(err, "checking student uniqueness")
		}
		q += " " + inQ
		args = append(args, inArgs...)
	}
	q += ")"
	q = repo.db.Rebind(q)

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	if exists {
		return student.ErrAdmissionNoExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	st.ID = uuid.New().String()
	row := studentRow(st)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, school_id, user_id, name, admission_no, class_name,
			guardian_name, guardian_email, guardian_phone, is_active, created_at, updated_at)
		VALUES (:id, :school_id, :user_id, :name, :admission_no, :class_name,
			:guardian_name, :guardian_email, :guardian_phone, :is_active, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return repo.fromRow(row), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	q := "SELECT * FROM student"
	var clauses []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.SchoolID != "" {
			clauses = append(clauses, "school_id = "+arg(filter.SchoolID))
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			p1, p2 := arg(val), arg(val)
			clauses = append(clauses, fmt.Sprintf("(name ILIKE %s OR admission_no ILIKE %s)", p1, p2))
		}
		if filter.ClassName != "" {
			clauses = append(clauses, "class_name = "+arg(filter.ClassName))
		}
		if filter.IsActive != nil {
			clauses = append(clauses, "is_active = "+arg(*filter.IsActive))
		}
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += orderBy(ordering, "name ASC")

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.fromRow(row))
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM student WHERE id = $1", id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return repo.fromRow(row), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE student SET name = $1, class_name = $2, guardian_name = $3, guardian_email = $4,
			guardian_phone = $5, user_id = $6, is_active = $7, updated_at = $8
		WHERE id = $9`,
		st.Name, st.ClassName, st.GuardianName, st.GuardianEmail,
		st.GuardianPhone, st.UserID, st.IsActive, st.UpdatedAt.UTC(), st.ID,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, st.ID)
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM student WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}
