// Package portal holds the view state of the student records browser app
// and the operations that drive it: list, search, save and delete.
//
// All network work goes through an API; every mutation ends with a full
// reload of the list and nothing is updated optimistically. Failures are
// logged and otherwise leave the state as it was.
package portal

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/model"
)

// DeletePrompt is the question asked before deleting a record.
const DeletePrompt = "Delete this student?"

// API is the records backend. *apiclient.Client satisfies it.
type API interface {
	List(ctx context.Context) ([]model.Student, error)
	Search(ctx context.Context, query string) ([]model.Student, error)
	Create(ctx context.Context, in model.StudentInput) (*model.Student, error)
	Update(ctx context.Context, id string, in model.StudentInput) (*model.Student, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Change tells an observer which part of the view needs redrawing.
type Change int

const (
	ChangeList Change = iota
	ChangeSurface
)

// App owns the view state. Its methods are safe to call from several
// goroutines; network calls are made without holding the lock.
type App struct {
	api     API
	confirm Confirmer
	log     zerolog.Logger

	mu       sync.Mutex
	students []model.Student
	query    string
	surface  EditSurface
	fetchSeq uint64
	onChange func(Change)
}

// New creates an App with an empty list and a closed edit surface.
func New(api API, confirm Confirmer, log zerolog.Logger) *App {
	return &App{
		api:      api,
		confirm:  confirm,
		log:      log.With().Str("component", "portal").Logger(),
		students: []model.Student{},
	}
}

// OnChange registers fn to be called after the list or the edit surface
// changes state. Field edits do not trigger it.
func (a *App) OnChange(fn func(Change)) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// Students returns a copy of the displayed records in server order.
func (a *App) Students() []model.Student {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Student, len(a.students))
	copy(out, a.students)
	return out
}

// Surface returns a snapshot of the edit surface.
func (a *App) Surface() EditSurface {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surface
}

// Query returns the current search box contents.
func (a *App) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

// SetQuery records the search box contents without searching.
func (a *App) SetQuery(q string) {
	a.mu.Lock()
	a.query = q
	a.mu.Unlock()
}

// Refresh fetches the full list and replaces the displayed records.
func (a *App) Refresh(ctx context.Context) error {
	return a.load(ctx, "list", a.api.List)
}

// Search runs the current query. A blank query is the same as Refresh.
func (a *App) Search(ctx context.Context) error {
	q := a.Query()
	if strings.TrimSpace(q) == "" {
		return a.Refresh(ctx)
	}
	return a.load(ctx, "search", func(ctx context.Context) ([]model.Student, error) {
		return a.api.Search(ctx, q)
	})
}

// load runs fetch and installs its result, unless a newer fetch was issued
// meanwhile: the last request issued wins, not the last to resolve.
func (a *App) load(ctx context.Context, op string, fetch func(context.Context) ([]model.Student, error)) error {
	a.mu.Lock()
	a.fetchSeq++
	seq := a.fetchSeq
	a.mu.Unlock()

	students, err := fetch(ctx)
	if err != nil {
		a.log.Error().Err(err).Str("op", op).Msg("failed to fetch students")
		return err
	}
	if students == nil {
		students = []model.Student{}
	}

	a.mu.Lock()
	if seq != a.fetchSeq {
		a.mu.Unlock()
		a.log.Debug().Str("op", op).Uint64("seq", seq).Msg("discarding stale response")
		return nil
	}
	a.students = students
	a.mu.Unlock()

	a.notify(ChangeList)
	return nil
}

// OpenCreate opens an empty form.
func (a *App) OpenCreate() {
	a.mu.Lock()
	a.surface.OpenCreate()
	a.mu.Unlock()
	a.notify(ChangeSurface)
}

// OpenEdit opens the form on s.
func (a *App) OpenEdit(s model.Student) {
	a.mu.Lock()
	a.surface.OpenEdit(s)
	a.mu.Unlock()
	a.notify(ChangeSurface)
}

// OpenEditByID opens the form on the displayed record with the given
// identifier. It reports false if no such record is displayed.
func (a *App) OpenEditByID(id string) bool {
	a.mu.Lock()
	var (
		found model.Student
		ok    bool
	)
	for _, s := range a.students {
		if s.ID == id {
			found, ok = s, true
			break
		}
	}
	a.mu.Unlock()

	if ok {
		a.OpenEdit(found)
	}
	return ok
}

// SetField updates one form field, leaving the others untouched.
func (a *App) SetField(name, value string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surface.SetField(name, value)
}

// Cancel closes the edit surface without saving.
func (a *App) Cancel() {
	a.mu.Lock()
	wasOpen := a.surface.IsOpen()
	a.surface.Close()
	a.mu.Unlock()
	if wasOpen {
		a.notify(ChangeSurface)
	}
}

// Dismiss handles a click on the open surface. See EditSurface.Dismiss.
func (a *App) Dismiss(t Target) {
	a.mu.Lock()
	closed := a.surface.Dismiss(t)
	a.mu.Unlock()
	if closed {
		a.notify(ChangeSurface)
	}
}

// Save sends the whole form: an update when editing, a create otherwise.
// On success the list is reloaded and the surface closes, unless the user
// has since switched to another form. On failure the surface stays open
// with the form intact. Saving a closed surface does nothing.
func (a *App) Save(ctx context.Context) error {
	a.mu.Lock()
	state, id, form := a.surface.state, a.surface.editingID, a.surface.form
	a.mu.Unlock()

	var err error
	switch state {
	case OpenEdit:
		_, err = a.api.Update(ctx, id, form)
	case OpenCreate:
		_, err = a.api.Create(ctx, form)
	default:
		return nil
	}
	if err != nil {
		a.log.Error().Err(err).Str("state", state.String()).Str("id", id).Msg("failed to save student")
		return err
	}

	_ = a.Refresh(ctx)
	a.closeIfUnchanged(state, id)
	return nil
}

// closeIfUnchanged closes the surface only if it still shows the form that
// was saved; a form opened while the save was in flight stays open.
func (a *App) closeIfUnchanged(state SurfaceState, id string) {
	a.mu.Lock()
	same := a.surface.state == state && a.surface.editingID == id
	if same {
		a.surface.Close()
	}
	a.mu.Unlock()
	if same {
		a.notify(ChangeSurface)
	}
}

// Delete removes a record after the user confirms, then reloads the list.
// Declining makes no call.
func (a *App) Delete(ctx context.Context, id string) error {
	if a.confirm == nil || !a.confirm.Confirm(DeletePrompt) {
		return nil
	}
	if err := a.api.Delete(ctx, id); err != nil {
		a.log.Error().Err(err).Str("id", id).Msg("failed to delete student")
		return err
	}
	_ = a.Refresh(ctx)
	return nil
}

func (a *App) notify(c Change) {
	a.mu.Lock()
	fn := a.onChange
	a.mu.Unlock()
	if fn != nil {
		fn(c)
	}
}
