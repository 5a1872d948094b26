package portal

import "github.com/stemsi/student-portal/internal/model"

// Field describes one input of the edit form.
type Field struct {
	Name    string
	Label   string
	Default string
	ref     func(*model.StudentInput) *string
}

// Value returns the field's value in in.
func (f Field) Value(in model.StudentInput) string {
	return *f.ref(&in)
}

func (f Field) set(in *model.StudentInput, v string) {
	*f.ref(in) = v
}

// Fields lists the form inputs in display order. The form shows exactly
// these, whatever a record returned by the server carries.
var Fields = []Field{
	{Name: "firstName", Label: "First Name", ref: func(in *model.StudentInput) *string { return &in.FirstName }},
	{Name: "lastName", Label: "Last Name", ref: func(in *model.StudentInput) *string { return &in.LastName }},
	{Name: "email", Label: "Email", ref: func(in *model.StudentInput) *string { return &in.Email }},
	{Name: "studentId", Label: "Student ID", ref: func(in *model.StudentInput) *string { return &in.StudentID }},
	{Name: "course", Label: "Course", ref: func(in *model.StudentInput) *string { return &in.Course }},
	{Name: "year", Label: "Year", Default: model.DefaultYear, ref: func(in *model.StudentInput) *string { return &in.Year }},
	{Name: "gpa", Label: "GPA", Default: model.DefaultGPA, ref: func(in *model.StudentInput) *string { return &in.GPA }},
	{Name: "status", Label: "Status", Default: model.StatusActive, ref: func(in *model.StudentInput) *string { return &in.Status }},
}

// FieldByName looks up a form field.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DefaultForm returns a blank form with every field at its default.
func DefaultForm() model.StudentInput {
	var in model.StudentInput
	for _, f := range Fields {
		f.set(&in, f.Default)
	}
	return in
}

// SurfaceState is the state of the edit surface.
type SurfaceState int

const (
	Closed SurfaceState = iota
	OpenCreate
	OpenEdit
)

func (s SurfaceState) String() string {
	switch s {
	case Closed:
		return "closed"
	case OpenCreate:
		return "open-create"
	case OpenEdit:
		return "open-edit"
	default:
		return "unknown"
	}
}

// Target is where a click on the open surface landed.
type Target int

const (
	// TargetOverlay is the backdrop around the form.
	TargetOverlay Target = iota
	// TargetForm is anything inside the form surface.
	TargetForm
)

// EditSurface is the modal form used for both creating and editing.
// The zero value is Closed.
type EditSurface struct {
	state     SurfaceState
	editingID string
	form      model.StudentInput
}

// State reports the current state.
func (e EditSurface) State() SurfaceState { return e.state }

// IsOpen reports whether the surface is showing.
func (e EditSurface) IsOpen() bool { return e.state != Closed }

// EditingID is the server identifier of the record being edited, or "".
func (e EditSurface) EditingID() string { return e.editingID }

// Form returns the current form contents.
func (e EditSurface) Form() model.StudentInput { return e.form }

// OpenCreate shows an empty form, discarding any previous contents.
func (e *EditSurface) OpenCreate() {
	e.state = OpenCreate
	e.editingID = ""
	e.form = DefaultForm()
}

// OpenEdit shows s in the form and remembers its identifier.
func (e *EditSurface) OpenEdit(s model.Student) {
	e.state = OpenEdit
	e.editingID = s.ID
	e.form = s.Input()
}

// SetField changes a single form field. It reports false when the surface
// is closed or name is not a form field.
func (e *EditSurface) SetField(name, value string) bool {
	if e.state == Closed {
		return false
	}
	f, ok := FieldByName(name)
	if !ok {
		return false
	}
	f.set(&e.form, value)
	return true
}

// Close hides the surface and forgets the edited record.
func (e *EditSurface) Close() {
	e.state = Closed
	e.editingID = ""
}

// Dismiss handles a click on the open surface: the overlay closes it, the
// form itself does not. It reports whether the surface closed.
func (e *EditSurface) Dismiss(t Target) bool {
	if e.state == Closed || t != TargetOverlay {
		return false
	}
	e.Close()
	return true
}
