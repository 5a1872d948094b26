package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/model"
	"github.com/stemsi/student-portal/internal/repository"
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo repository.StudentRepository
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo repository.StudentRepository, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// List retrieves all students.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list students")
		return nil, err
	}
	return students, nil
}

// Search retrieves students matching query. A blank query lists everyone.
func (s *StudentService) Search(ctx context.Context, query string) ([]model.Student, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	students, err := s.studentRepo.Search(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("failed to search students")
		return nil, err
	}
	return students, nil
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if !isLookupMiss(err) {
			s.log.Error().Err(err).Str("id", id).Msg("failed to get student")
		}
		return nil, err
	}
	return student, nil
}

// isLookupMiss reports client-caused lookup errors that need no log line.
func isLookupMiss(err error) bool {
	return errors.Is(err, repository.ErrStudentNotFound) || errors.Is(err, repository.ErrInvalidID)
}

// Create inserts a new student, filling gpa and status when left blank.
func (s *StudentService) Create(ctx context.Context, in model.StudentInput) (*model.Student, error) {
	if in.GPA == "" {
		in.GPA = model.DefaultGPA
	}
	if in.Status == "" {
		in.Status = model.StatusActive
	}
	student, err := s.studentRepo.Create(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Str("student_id", in.StudentID).Msg("failed to create student")
		return nil, err
	}
	return student, nil
}

// Update replaces a student's editable fields.
func (s *StudentService) Update(ctx context.Context, id string, in model.StudentInput) (*model.Student, error) {
	student, err := s.studentRepo.Update(ctx, id, in)
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to update student")
		return nil, err
	}
	return student, nil
}

// Delete removes a student by ID.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("failed to delete student")
		return err
	}
	return nil
}
