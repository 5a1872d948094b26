package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/student-portal/internal/model"
)

// MemoryStudentRepository keeps students in process memory. It backs the
// "memory" store driver for local runs and tests; contents are lost on exit.
type MemoryStudentRepository struct {
	mu       sync.RWMutex
	students []model.Student
}

// NewMemoryStudentRepository creates an empty MemoryStudentRepository.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{}
}

func (r *MemoryStudentRepository) List(_ context.Context) ([]model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Student, len(r.students))
	copy(out, r.students)
	return out, nil
}

func (r *MemoryStudentRepository) Search(_ context.Context, query string) ([]model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	out := []model.Student{}
	for _, s := range r.students {
		for _, v := range []string{s.FirstName, s.LastName, s.Email, s.StudentID} {
			if strings.Contains(strings.ToLower(v), q) {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (r *MemoryStudentRepository) GetByID(_ context.Context, id string) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, err := r.indexOf(id)
	if err != nil {
		return nil, err
	}
	s := r.students[i]
	return &s, nil
}

func (r *MemoryStudentRepository) Create(_ context.Context, in model.StudentInput) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.studentIDTaken(in.StudentID, "") {
		return nil, ErrDuplicateStudentID
	}
	now := time.Now().UTC()
	s := model.Student{ID: uuid.NewString(), CreatedAt: &now}
	s.Apply(in)
	r.students = append(r.students, s)
	return &s, nil
}

func (r *MemoryStudentRepository) Update(_ context.Context, id string, in model.StudentInput) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.indexOf(id)
	if err != nil {
		return nil, err
	}
	if r.studentIDTaken(in.StudentID, id) {
		return nil, ErrDuplicateStudentID
	}
	now := time.Now().UTC()
	r.students[i].Apply(in)
	r.students[i].UpdatedAt = &now
	s := r.students[i]
	return &s, nil
}

func (r *MemoryStudentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, err := r.indexOf(id)
	if err != nil {
		return err
	}
	r.students = append(r.students[:i], r.students[i+1:]...)
	return nil
}

// indexOf must be called with r.mu held.
func (r *MemoryStudentRepository) indexOf(id string) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return -1, ErrInvalidID
	}
	for i, s := range r.students {
		if s.ID == id {
			return i, nil
		}
	}
	return -1, ErrStudentNotFound
}

// studentIDTaken must be called with r.mu held.
func (r *MemoryStudentRepository) studentIDTaken(studentID, exceptID string) bool {
	for _, s := range r.students {
		if s.StudentID == studentID && s.ID != exceptID {
			return true
		}
	}
	return false
}
