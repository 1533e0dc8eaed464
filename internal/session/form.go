package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dusk-indust/userdesk/internal/user"
)

var (
	// ErrInvalid wraps the validation errors that blocked a submit.
	ErrInvalid = errors.New("session: invalid user")

	// ErrClosed is returned for any change to a closed form.
	ErrClosed = errors.New("session: form is closed")

	// ErrUnknownField is returned by Set for a name not in user.Fields.
	ErrUnknownField = errors.New("session: unknown field")

	// ErrReadOnly is returned by Set for a field the session may not edit.
	ErrReadOnly = errors.New("session: field is read-only")
)

// Mode says whether a form creates a new user or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Phase is the form's position in its lifecycle.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Backend is the part of the remote store a form submits through.
type Backend interface {
	Create(ctx context.Context, u user.User) (*user.User, error)
	Update(ctx context.Context, id int, u user.User) (*user.User, error)
}

// List receives the confirmed record after a successful submit.
type List interface {
	Append(u user.User)
	Replace(u user.User) bool
}

// Form is an immutable snapshot of a create or edit session. Every change
// returns a new Form; values from the same session share one Token.
type Form struct {
	mode      Mode
	phase     Phase
	id        int
	fields    user.Candidate
	errors    user.ErrorMap
	failure   error
	result    *user.User
	outOfSync bool
	token     *Token
}

// NewCreate opens a create session with every field empty.
func NewCreate() Form {
	return Form{
		mode:   ModeCreate,
		errors: user.ErrorMap{},
		token:  NewToken(),
	}
}

// NewEdit opens an edit session pre-populated from u. The username is
// carried through unchanged.
func NewEdit(u user.User) Form {
	return Form{
		mode:   ModeEdit,
		id:     u.ID,
		fields: user.Flatten(u),
		errors: user.ErrorMap{},
		token:  NewToken(),
	}
}

// Mode returns whether the form creates or edits.
func (f Form) Mode() Mode { return f.mode }

// Phase returns the lifecycle phase. A form whose session has a call in
// flight reports PhaseSubmitting.
func (f Form) Phase() Phase {
	if f.phase != PhaseClosed && f.token.InFlight() {
		return PhaseSubmitting
	}
	return f.phase
}

// ID returns the user being edited, or the created user's ID once a create
// form has closed. It is zero for an open create form.
func (f Form) ID() int { return f.id }

// Fields returns the current field values.
func (f Form) Fields() user.Candidate { return f.fields }

// Errors returns a copy of the current validation errors.
func (f Form) Errors() user.ErrorMap { return f.errors.Clone() }

// Failure returns the remote error from the last submit, if it failed.
func (f Form) Failure() error { return f.failure }

// Result returns the record the store confirmed, once the form has closed
// after a successful submit.
func (f Form) Result() (user.User, bool) {
	if f.result == nil {
		return user.User{}, false
	}
	return *f.result, true
}

// OutOfSync reports that an edit succeeded remotely but the list held no
// entry with the edited ID, so the list was left unchanged.
func (f Form) OutOfSync() bool { return f.outOfSync }

// Token returns the session's token.
func (f Form) Token() *Token { return f.token }

// Editable reports whether field may be changed in this form.
func (f Form) Editable(field string) bool {
	if _, ok := f.fields.Get(field); !ok {
		return false
	}
	return !(f.mode == ModeEdit && field == user.FieldUsername)
}

// Set returns a form with field changed to value and the validation errors
// recomputed.
func (f Form) Set(field, value string) (Form, error) {
	if f.phase == PhaseClosed {
		return f, ErrClosed
	}
	if _, ok := f.fields.Get(field); !ok {
		return f, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if !f.Editable(field) {
		return f, fmt.Errorf("%w: %q", ErrReadOnly, field)
	}

	next := f
	next.fields, _ = f.fields.With(field, value)
	next.errors = user.Validate(next.fields)
	return next, nil
}

// Record returns the nested record the form would submit.
func (f Form) Record() user.User {
	return f.fields.Record(f.id)
}

// Close tears the session down. A submit still in flight will have its
// result discarded.
func (f Form) Close() Form {
	f.token.Cancel()
	f.phase = PhaseClosed
	return f
}

// Submit validates the form and, when valid, sends it through backend. On
// success the confirmed record is appended to (create) or replaced in (edit)
// list, and the returned form is closed. On validation or remote failure the
// returned form is back in PhaseEditing with its errors or failure set, and
// list is untouched.
func (f Form) Submit(ctx context.Context, backend Backend, list List) (Form, error) {
	if f.phase == PhaseClosed {
		return f, ErrClosed
	}
	if f.token.Cancelled() {
		return f, ErrCancelled
	}
	if !f.token.acquire() {
		return f, ErrInFlight
	}
	defer f.token.release()

	next := f
	next.phase = PhaseValidating
	next.failure = nil
	next.errors = user.Validate(f.fields)
	if !next.errors.Valid() {
		next.phase = PhaseEditing
		return next, fmt.Errorf("%w: %w", ErrInvalid, next.errors.Err())
	}

	next.phase = PhaseSubmitting
	var (
		confirmed *user.User
		err       error
	)
	if f.mode == ModeCreate {
		confirmed, err = backend.Create(ctx, f.Record())
	} else {
		confirmed, err = backend.Update(ctx, f.id, f.Record())
	}
	if err != nil {
		next.phase = PhaseEditing
		next.failure = err
		return next, err
	}

	if f.token.Cancelled() {
		return next.Close(), ErrCancelled
	}

	rec := *confirmed
	if f.mode == ModeEdit && rec.ID == 0 {
		rec.ID = f.id
	}
	if f.mode == ModeCreate {
		list.Append(rec)
	} else if !list.Replace(rec) {
		next.outOfSync = true
	}

	next.id = rec.ID
	next.result = &rec
	next.phase = PhaseClosed
	return next, nil
}
