package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stemsi/student-portal/internal/model"
)

func TestSearchEncodesQuery(t *testing.T) {
	var gotPath, gotRawQuery, gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRawQuery = r.URL.RawQuery
		gotQ = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`[{"_id":"1","firstName":"Zoë"}]`))
	}))
	defer srv.Close()

	students, err := New(srv.URL+"/", nil).Search(context.Background(), "zoë & co/2")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotPath != "/api/students/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQ != "zoë & co/2" {
		t.Errorf("decoded q = %q", gotQ)
	}
	if gotRawQuery == "q=zoë & co/2" {
		t.Errorf("query was not encoded: %q", gotRawQuery)
	}
	if len(students) != 1 || students[0].FirstName != "Zoë" {
		t.Errorf("students = %+v", students)
	}
}

func TestUpdateTargetsIdentifier(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody model.StudentInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"_id":"abc123","firstName":"Ada"}`))
	}))
	defer srv.Close()

	in := model.StudentInput{FirstName: "Ada", Year: "2"}
	updated, err := New(srv.URL, nil).Update(context.Background(), "abc123", in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/students/abc123" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody != in {
		t.Errorf("body = %+v, want %+v", gotBody, in)
	}
	if updated.ID != "abc123" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestListEmptyArrayIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	students, err := New(srv.URL, nil).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if students == nil || len(students) != 0 {
		t.Fatalf("students = %#v", students)
	}
}

func TestFailuresCollapseToErrRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"CONFLICT"}}`))
	}))
	client := New(srv.URL, nil)

	if err := client.Delete(context.Background(), "x"); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("non-2xx err = %v", err)
	}

	srv.Close()
	if _, err := client.List(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("transport err = %v", err)
	}
}

func TestCreateDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, nil).Create(context.Background(), model.StudentInput{}); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v", err)
	}
}
