package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/student-portal/internal/model"
)

func TestMemoryStudentRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStudentRepository()

	ada, err := repo.Create(ctx, model.StudentInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", StudentID: "S-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ada.ID == "" || ada.CreatedAt == nil {
		t.Fatalf("create did not assign id/createdAt: %+v", ada)
	}
	if _, err := repo.Create(ctx, model.StudentInput{FirstName: "Alan", StudentID: "S-1"}); !errors.Is(err, ErrDuplicateStudentID) {
		t.Fatalf("duplicate create err = %v", err)
	}
	if _, err := repo.Create(ctx, model.StudentInput{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", StudentID: "S-2"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	found, _ := repo.Search(ctx, "LOVE")
	if len(found) != 1 || found[0].ID != ada.ID {
		t.Fatalf("search = %+v", found)
	}

	in := ada.Input()
	in.Course = "Mathematics"
	updated, err := repo.Update(ctx, ada.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Course != "Mathematics" || updated.UpdatedAt == nil {
		t.Fatalf("update result = %+v", updated)
	}

	in.StudentID = "S-2"
	if _, err := repo.Update(ctx, ada.ID, in); !errors.Is(err, ErrDuplicateStudentID) {
		t.Fatalf("update to taken studentId err = %v", err)
	}

	if err := repo.Delete(ctx, ada.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, ada.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("bad id err = %v", err)
	}

	all, _ := repo.List(ctx)
	if len(all) != 1 || all[0].StudentID != "S-2" {
		t.Fatalf("list = %+v", all)
	}
}
