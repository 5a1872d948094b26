package portal

import (
	"html/template"
	"io"
	"strings"

	"github.com/stemsi/student-portal/internal/model"
)

// TableColumns are the headings of the records table.
var TableColumns = []string{"ID", "Name", "Email", "Course", "Year", "GPA", "Status", "Actions"}

// EmptyMessage fills the table when there is nothing to show.
const EmptyMessage = "No students found"

// Element ids and actions the browser driver binds to.
const (
	TableBodyID = "students-body"
	ModalRootID = "modal-root"
	SearchBoxID = "search-input"

	ActionSearch  = "search"
	ActionAdd     = "add"
	ActionEdit    = "edit"
	ActionDelete  = "delete"
	ActionCancel  = "cancel"
	ActionOverlay = "overlay"
	ActionForm    = "form"
)

const rowsTemplate = `{{define "rows"}}{{if .Students}}{{range .Students}}<tr data-id="{{.ID}}">
<td>{{.StudentID}}</td>
<td>{{.FirstName}} {{.LastName}}</td>
<td>{{.Email}}</td>
<td>{{.Course}}</td>
<td>{{.Year}}</td>
<td>{{.GPA}}</td>
<td>{{.Status}}</td>
<td><button type="button" data-action="edit" data-id="{{.ID}}">Edit</button> <button type="button" data-action="delete" data-id="{{.ID}}">Delete</button></td>
</tr>
{{end}}{{else}}<tr><td colspan="{{.Colspan}}">{{.Empty}}</td></tr>
{{end}}{{end}}`

const modalTemplate = `{{define "modal"}}{{if .Open}}<div class="modal-overlay" data-action="overlay">
<form class="modal" data-action="form">
<h2>{{.Title}}</h2>
{{range .Inputs}}<label for="field-{{.Name}}">{{.Label}}</label>
<input id="field-{{.Name}}" name="{{.Name}}" value="{{.Value}}" required>
{{end}}<div class="modal-actions">
<button type="submit">Save</button>
<button type="button" data-action="cancel">Cancel</button>
</div>
</form>
</div>
{{end}}{{end}}`

const pageTemplate = `{{define "page"}}<div class="toolbar">
<input id="search-input" type="search" placeholder="Search students" value="{{.Query}}">
<button type="button" data-action="search">Search</button>
<button type="button" data-action="add">Add Student</button>
</div>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody id="students-body">{{template "rows" .}}</tbody>
</table>
<div id="modal-root">{{template "modal" .Modal}}</div>
{{end}}`

var views = template.Must(template.New("portal").Parse(rowsTemplate + modalTemplate + pageTemplate))

type tableData struct {
	Students []model.Student
	Colspan  int
	Empty    string
	Columns  []string
	Query    string
	Modal    modalData
}

type inputData struct {
	Name  string
	Label string
	Value string
}

type modalData struct {
	Open   bool
	Title  string
	Inputs []inputData
}

func newTableData(students []model.Student) tableData {
	return tableData{
		Students: students,
		Colspan:  len(TableColumns),
		Empty:    EmptyMessage,
		Columns:  TableColumns,
	}
}

func newModalData(s EditSurface) modalData {
	if !s.IsOpen() {
		return modalData{}
	}
	title := "Add Student"
	if s.State() == OpenEdit {
		title = "Edit Student"
	}
	form := s.Form()
	inputs := make([]inputData, 0, len(Fields))
	for _, f := range Fields {
		inputs = append(inputs, inputData{Name: f.Name, Label: f.Label, Value: f.Value(form)})
	}
	return modalData{Open: true, Title: title, Inputs: inputs}
}

// RenderRows writes the table body rows for students.
func RenderRows(w io.Writer, students []model.Student) error {
	return views.ExecuteTemplate(w, "rows", newTableData(students))
}

// RenderModal writes the edit surface, or nothing when it is closed.
func RenderModal(w io.Writer, s EditSurface) error {
	return views.ExecuteTemplate(w, "modal", newModalData(s))
}

// RenderPage writes the whole app markup for the current state.
func RenderPage(w io.Writer, a *App) error {
	data := newTableData(a.Students())
	data.Query = a.Query()
	data.Modal = newModalData(a.Surface())
	return views.ExecuteTemplate(w, "page", data)
}

// Rows renders the table body rows to a string.
func Rows(students []model.Student) (string, error) {
	var b strings.Builder
	err := RenderRows(&b, students)
	return b.String(), err
}

// Modal renders the edit surface to a string.
func Modal(s EditSurface) (string, error) {
	var b strings.Builder
	err := RenderModal(&b, s)
	return b.String(), err
}
