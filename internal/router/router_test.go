package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/config"
	"github.com/stemsi/student-portal/internal/handler"
	"github.com/stemsi/student-portal/internal/model"
	"github.com/stemsi/student-portal/internal/repository"
	"github.com/stemsi/student-portal/internal/response"
	"github.com/stemsi/student-portal/internal/service"
	"github.com/stemsi/student-portal/internal/validator"
)

func newAPI(t *testing.T) *gin.Engine {
	t.Helper()
	validator.Setup()
	svc := service.NewStudentService(repository.NewMemoryStudentRepository(), zerolog.Nop())
	cfg := &config.Config{GinMode: gin.TestMode}
	return SetupRouter(&Handlers{
		Student: handler.NewStudentHandler(svc),
		Health:  handler.NewHealthHandler(nil, zerolog.Nop()),
	}, cfg)
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ada() model.StudentInput {
	return model.StudentInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		StudentID: "S-001", Course: "Maths", Year: "2",
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var env response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	if env.Metadata.RequestID == "" || env.Metadata.Timestamp == "" {
		t.Errorf("metadata = %+v", env.Metadata)
	}
	return env
}

func TestHealth(t *testing.T) {
	w := do(newAPI(t), http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestListEmptyIsArray(t *testing.T) {
	w := do(newAPI(t), http.MethodGet, "/api/students", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCreateAndFetch(t *testing.T) {
	r := newAPI(t)

	w := do(r, http.MethodPost, "/api/students", ada())
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var created model.Student
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.CreatedAt == nil {
		t.Fatalf("created = %+v", created)
	}
	if created.GPA != model.DefaultGPA || created.Status != model.StatusActive {
		t.Fatalf("defaults not applied: %+v", created)
	}

	w = do(r, http.MethodGet, "/api/students/"+created.ID, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"_id":"`+created.ID+`"`) {
		t.Fatalf("get = %d %s", w.Code, w.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	in := ada()
	in.Email = ""
	w := do(newAPI(t), http.MethodPost, "/api/students", in)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != response.ErrValidation {
		t.Fatalf("code = %s", env.Error.Code)
	}
	if _, ok := env.Error.Fields["email"]; !ok {
		t.Fatalf("fields = %v", env.Error.Fields)
	}
}

func TestDuplicateStudentIDConflicts(t *testing.T) {
	r := newAPI(t)
	do(r, http.MethodPost, "/api/students", ada())

	w := do(r, http.MethodPost, "/api/students", ada())
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	if env := decodeError(t, w); env.Error.Code != response.ErrConflict {
		t.Fatalf("code = %s", env.Error.Code)
	}
}

func TestSearch(t *testing.T) {
	r := newAPI(t)
	do(r, http.MethodPost, "/api/students", ada())
	grace := ada()
	grace.FirstName, grace.LastName, grace.Email, grace.StudentID = "Grace", "Hopper", "grace@example.com", "S-002"
	do(r, http.MethodPost, "/api/students", grace)

	var got []model.Student
	w := do(r, http.MethodGet, "/api/students/search?q=HOPP", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if w.Code != http.StatusOK || len(got) != 1 || got[0].FirstName != "Grace" {
		t.Fatalf("search = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/students/search?q=.*", nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("metacharacters matched: %s", w.Body.String())
	}

	got = nil
	w = do(r, http.MethodGet, "/api/students/search?q=", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 2 {
		t.Fatalf("blank search = %s", w.Body.String())
	}
}

func TestUpdateAndDelete(t *testing.T) {
	r := newAPI(t)
	var created model.Student
	_ = json.Unmarshal(do(r, http.MethodPost, "/api/students", ada()).Body.Bytes(), &created)

	in := created.Input()
	in.Course = "Physics"
	w := do(r, http.MethodPut, "/api/students/"+created.ID, in)
	var updated model.Student
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if w.Code != http.StatusOK || updated.Course != "Physics" || updated.UpdatedAt == nil {
		t.Fatalf("update = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodDelete, "/api/students/"+created.ID, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Student deleted successfully") {
		t.Fatalf("delete = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodDelete, "/api/students/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d", w.Code)
	}
}

func TestMissingAndMalformedIDs(t *testing.T) {
	r := newAPI(t)

	w := do(r, http.MethodGet, "/api/students/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound || decodeError(t, w).Error.Code != response.ErrNotFound {
		t.Fatalf("missing = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPut, "/api/students/not-an-id", ada())
	if w.Code != http.StatusBadRequest || decodeError(t, w).Error.Code != response.ErrInvalidID {
		t.Fatalf("malformed = %d %s", w.Code, w.Body.String())
	}
}

func TestPreflightAllowsAnyOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	newAPI(t).ServeHTTP(w, req)

	if w.Code >= 300 {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("allow-origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestWebRouterServesEntryDocument(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<div id=app></div>"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := SetupWebRouter(&config.Config{
		GinMode:      gin.TestMode,
		AssetDir:     root,
		IndexFile:    "index.html",
		StaticMaxAge: 3600,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/7", nil))
	if w.Code != http.StatusOK || w.Body.String() != "<div id=app></div>" {
		t.Fatalf("spa = %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("Cache-Control") != "no-cache" {
		t.Fatalf("cache-control = %q", w.Header().Get("Cache-Control"))
	}
}

func TestWebRouterBundleRevalidatesByDefault(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STATIC_MAX_AGE", "")
	t.Setenv("GIN_MODE", gin.TestMode)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<div id=app></div>"), 0o644); err != nil {
		t.Fatal(err)
	}
	bundle := bytes.Repeat([]byte("\x00asm"), 1024)
	if err := os.WriteFile(filepath.Join(root, "portal.wasm"), bundle, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Load()
	cfg.AssetDir = root
	r := SetupWebRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/portal.wasm", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("cache-control = %q", got)
	}
	lastModified := w.Header().Get("Last-Modified")
	if lastModified == "" {
		t.Fatal("missing Last-Modified")
	}

	req = httptest.NewRequest(http.MethodGet, "/portal.wasm", nil)
	req.Header.Set("If-Modified-Since", lastModified)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Fatalf("revalidation status = %d", w.Code)
	}
}
