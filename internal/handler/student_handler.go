package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-portal/internal/model"
	"github.com/stemsi/student-portal/internal/repository"
	"github.com/stemsi/student-portal/internal/response"
	"github.com/stemsi/student-portal/internal/service"
	"github.com/stemsi/student-portal/internal/validator"
)

// StudentHandler serves the student records API.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListStudents godoc
// GET /api/students
// Returns every student as a bare JSON array.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, students)
}

// SearchStudents godoc
// GET /api/students/search?q=
// Case-insensitive substring search over names, email and student ID.
func (h *StudentHandler) SearchStudents(c *gin.Context) {
	students, err := h.studentService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, students)
}

// GetStudent godoc
// GET /api/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failStudent(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// CreateStudent godoc
// POST /api/students
// Creates a new student and returns it with 201.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.StudentInput
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		failStudent(c, err)
		return
	}
	response.Success(c, http.StatusCreated, student)
}

// UpdateStudent godoc
// PUT /api/students/:id
// Replaces every editable field of an existing student.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req model.StudentInput
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failStudent(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// DeleteStudent godoc
// DELETE /api/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	if err := h.studentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failStudent(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Student deleted successfully"})
}

// failStudent maps repository sentinels onto API error codes.
func failStudent(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
	case errors.Is(err, repository.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateStudentID):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
