package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/student-portal/internal/model"
)

const studentColumns = `id, student_id, first_name, last_name, email, course, year, gpa, status, created_at, updated_at`

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// searchableColumns mirror searchableFields for the students table.
var searchableColumns = []string{"first_name", "last_name", "email", "student_id"}

// PostgresStudentRepository stores students in the students table.
type PostgresStudentRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewPostgresStudentRepository creates a new PostgresStudentRepository.
func NewPostgresStudentRepository(pool *pgxpool.Pool) *PostgresStudentRepository {
	return &PostgresStudentRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns every student in insertion order.
func (r *PostgresStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collectStudents(rows)
}

// Search returns students whose searchable columns contain query.
func (r *PostgresStudentRepository) Search(ctx context.Context, query string) ([]model.Student, error) {
	pattern := "%" + escapeLike(query) + "%"
	or := squirrel.Or{}
	for _, col := range searchableColumns {
		or = append(or, squirrel.ILike{col: pattern})
	}

	sql, args, err := r.sb.
		Select(studentColumns).
		From("students").
		Where(or).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectStudents(rows)
}

// GetByID retrieves a student by UUID.
func (r *PostgresStudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, uid)
	return scanOne(row)
}

// Create inserts a new student with a fresh UUID.
func (r *PostgresStudentRepository) Create(ctx context.Context, in model.StudentInput) (*model.Student, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO students (id, student_id, first_name, last_name, email, course, year, gpa, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+studentColumns,
		uuid.New(), in.StudentID, in.FirstName, in.LastName, in.Email, in.Course, in.Year, in.GPA, in.Status,
	)
	s, err := scanOne(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return s, nil
}

// Update overwrites the editable fields and returns the stored record.
func (r *PostgresStudentRepository) Update(ctx context.Context, id string, in model.StudentInput) (*model.Student, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE students SET student_id = $1, first_name = $2, last_name = $3, email = $4,
		        course = $5, year = $6, gpa = $7, status = $8, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $9
		 RETURNING `+studentColumns,
		in.StudentID, in.FirstName, in.LastName, in.Email, in.Course, in.Year, in.GPA, in.Status, uid,
	)
	s, err := scanOne(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return s, nil
}

// Delete removes a student by ID.
func (r *PostgresStudentRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func scanStudent(row pgx.Row) (model.Student, error) {
	var (
		s  model.Student
		id uuid.UUID
	)
	err := row.Scan(&id, &s.StudentID, &s.FirstName, &s.LastName, &s.Email,
		&s.Course, &s.Year, &s.GPA, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.ID = id.String()
	return s, nil
}

func scanOne(row pgx.Row) (*model.Student, error) {
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func collectStudents(rows pgx.Rows) ([]model.Student, error) {
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateStudentID
	}
	return err
}

// escapeLike escapes LIKE wildcards so query matches literally.
func escapeLike(query string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
}
