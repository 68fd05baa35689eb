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

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

type schoolRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	Address   string    `db:"address"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (repo schoolRepository) fromRow(row schoolRow) school.School {
	return school.School(row)
}

func (repo schoolRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) CheckSlugUniqueness(ctx context.Context, slug string, excludedSchools ...school.School) error {
	q := "SELECT EXISTS (SELECT 1 FROM school WHERE slug = $1"
	args := []interface{}{slug}
	if len(excludedSchools) > 0 {
		ids := make([]string, 0, len(excludedSchools))
		for _, s := range excludedSchools {
			ids = append(ids, s.ID)
		}
		inQ, inArgs, err := sqlx.In("AND id NOT IN (?)", ids)
		if err != nil {
			return errors.Wrap(err, "checking school uniqueness")
		}
		q += " " + inQ
		args = append(args, inArgs...)
	}
	q += ")"
	q = repo.db.Rebind(q)

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking school uniqueness")
	}
	if exists {
		return school.ErrSlugExists
	}
	return nil
}

func (repo schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	sch.ID = uuid.New().String()
	row := schoolRow(sch)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO school (id, name, slug, address, is_active, created_at, updated_at)
		VALUES (:id, :name, :slug, :address, :is_active, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return repo.fromRow(row), nil
}

func (repo schoolRepository) QuerySchools(ctx context.Context, filter *school.QueryFilter, ordering []core.DBOrdering) ([]school.School, error) {
	q := "SELECT * FROM school"
	var clauses []string
	var args []interface{}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			p1, p2 := arg(val), arg(val)
			clauses = append(clauses, fmt.Sprintf("(name ILIKE %s OR slug ILIKE %s)", p1, p2))
		}
		if filter.IsActive != nil {
			clauses = append(clauses, "is_active = "+arg(*filter.IsActive))
		}
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += orderBy(ordering, "name ASC")

	var rows []schoolRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	schools := make([]school.School, 0, len(rows))
	for _, row := range rows {
		schools = append(schools, repo.fromRow(row))
	}
	return schools, nil
}

func (repo schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	if _, err := uuid.Parse(id); err != nil {
		return school.School{}, school.ErrNotFound
	}
	var row schoolRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM school WHERE id = $1", id); err != nil {
		return school.School{}, repo.trapNoRowsErr(err, "finding school by ID")
	}
	return repo.fromRow(row), nil
}

func (repo schoolRepository) GetSchoolBySlug(ctx context.Context, slug string) (school.School, error) {
	var row schoolRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM school WHERE slug = $1", slug); err != nil {
		return school.School{}, repo.trapNoRowsErr(err, "finding school by slug")
	}
	return repo.fromRow(row), nil
}

func (repo schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE school SET name = $1, slug = $2, address = $3, is_active = $4, updated_at = $5
		WHERE id = $6`,
		sch.Name, sch.Slug, sch.Address, sch.IsActive, sch.UpdatedAt.UTC(), sch.ID,
	)
	if err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return school.School{}, school.ErrNotFound
	}
	return repo.GetSchoolByID(ctx, sch.ID)
}

func (repo schoolRepository) DeleteSchoolsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM school WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting schools")
	}
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting schools")
	}
	return nil
}
