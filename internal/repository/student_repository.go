package repository

import (
	"context"
	"errors"

	"github.com/stemsi/student-portal/internal/model"
)

// Sentinel errors shared by every StudentRepository implementation.
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrDuplicateStudentID = errors.New("student with this student ID already exists")
	ErrInvalidID          = errors.New("invalid student ID format")
)

// StudentRepository handles student data access. Lists come back in
// storage order and are never nil.
type StudentRepository interface {
	List(ctx context.Context) ([]model.Student, error)
	// Search matches query as a literal, case-insensitive substring of
	// firstName, lastName, email or studentId.
	Search(ctx context.Context, query string) ([]model.Student, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Create(ctx context.Context, in model.StudentInput) (*model.Student, error)
	Update(ctx context.Context, id string, in model.StudentInput) (*model.Student, error)
	Delete(ctx context.Context, id string) error
}
