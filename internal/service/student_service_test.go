package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/model"
	"github.com/stemsi/student-portal/internal/repository"
)

func newTestService() *StudentService {
	return NewStudentService(repository.NewMemoryStudentRepository(), zerolog.Nop())
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService()
	s, err := svc.Create(context.Background(), model.StudentInput{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", StudentID: "S-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.GPA != model.DefaultGPA {
		t.Errorf("gpa = %q, want %q", s.GPA, model.DefaultGPA)
	}
	if s.Status != model.StatusActive {
		t.Errorf("status = %q, want %q", s.Status, model.StatusActive)
	}
}

func TestCreateKeepsProvidedValues(t *testing.T) {
	svc := newTestService()
	s, err := svc.Create(context.Background(), model.StudentInput{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", StudentID: "S-10",
		GPA: "3.9", Status: "graduated",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.GPA != "3.9" || s.Status != "graduated" {
		t.Errorf("got gpa=%q status=%q", s.GPA, s.Status)
	}
}

func TestSearchBlankQueryListsAll(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	for _, id := range []string{"S-1", "S-2"} {
		if _, err := svc.Create(ctx, model.StudentInput{FirstName: "N", LastName: "M", Email: id + "@example.com", StudentID: id}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Search(ctx, "   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("blank search returned %d students, want 2", len(got))
	}

	got, err = svc.Search(ctx, " s-2 ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].StudentID != "S-2" {
		t.Fatalf("search = %+v", got)
	}
}

// brokenStore fails every lookup the way an unreachable database would.
type brokenStore struct {
	*repository.MemoryStudentRepository
}

var errStoreDown = errors.New("connection refused")

func (brokenStore) GetByID(context.Context, string) (*model.Student, error) {
	return nil, errStoreDown
}

func TestGetByIDLogsStoreFailures(t *testing.T) {
	var buf bytes.Buffer
	svc := NewStudentService(brokenStore{repository.NewMemoryStudentRepository()}, zerolog.New(&buf))

	if _, err := svc.GetByID(context.Background(), uuid.NewString()); !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "failed to get student") || !strings.Contains(out, "connection refused") {
		t.Fatalf("log = %q", out)
	}
}

func TestGetByIDDoesNotLogMisses(t *testing.T) {
	var buf bytes.Buffer
	svc := NewStudentService(repository.NewMemoryStudentRepository(), zerolog.New(&buf))

	if _, err := svc.GetByID(context.Background(), uuid.NewString()); !errors.Is(err, repository.ErrStudentNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, repository.ErrInvalidID) {
		t.Fatalf("err = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("log = %q", buf.String())
	}
}
