package model

import "time"

// Status values the portal knows about. Anything else is stored as-is.
const (
	StatusActive = "active"
)

// Defaults applied to a new record when the client leaves the field out.
const (
	DefaultYear = "1"
	DefaultGPA  = "0.0"
)

// Student is a single student record. Every user-facing field is text,
// including year and gpa.
type Student struct {
	ID        string     `json:"_id"`
	StudentID string     `json:"studentId"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Course    string     `json:"course"`
	Year      string     `json:"year"`
	GPA       string     `json:"gpa"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// StudentInput is the payload for creating or updating a student.
// The browser form sends all eight fields on every save.
type StudentInput struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,max=254"`
	StudentID string `json:"studentId" binding:"required,max=50"`
	Course    string `json:"course" binding:"max=150"`
	Year      string `json:"year" binding:"max=10"`
	GPA       string `json:"gpa" binding:"max=10"`
	Status    string `json:"status" binding:"max=30"`
}

// Input returns the editable fields of s.
func (s Student) Input() StudentInput {
	return StudentInput{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		StudentID: s.StudentID,
		Course:    s.Course,
		Year:      s.Year,
		GPA:       s.GPA,
		Status:    s.Status,
	}
}

// Apply copies the editable fields of in onto s.
func (s *Student) Apply(in StudentInput) {
	s.FirstName = in.FirstName
	s.LastName = in.LastName
	s.Email = in.Email
	s.StudentID = in.StudentID
	s.Course = in.Course
	s.Year = in.Year
	s.GPA = in.GPA
	s.Status = in.Status
}
