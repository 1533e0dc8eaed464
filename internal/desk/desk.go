// Package desk wires the remote store, the user list and notice reporting
// into the operations a presentation layer drives: load, search, detail,
// create/edit sessions and delete confirmation.
package desk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/userdesk/internal/notice"
	"github.com/dusk-indust/userdesk/internal/remote"
	"github.com/dusk-indust/userdesk/internal/session"
	"github.com/dusk-indust/userdesk/internal/user"
	"github.com/dusk-indust/userdesk/internal/userlist"
)

// ErrUnknownUser is returned when an edit or delete names an ID that is not
// in the list.
var ErrUnknownUser = errors.New("desk: user not in list")

// maxDetailFetches bounds concurrent detail requests in GetMany.
const maxDetailFetches = 4

// Desk is the client core. It is safe for concurrent use.
type Desk struct {
	store   remote.Store
	list    *userlist.State
	notices *notice.Reporter
	log     logrus.FieldLogger
}

// Option configures a Desk.
type Option func(*Desk)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Desk) {
		d.log = l
	}
}

// WithReporter sets where user-visible notices go.
func WithReporter(r *notice.Reporter) Option {
	return func(d *Desk) {
		d.notices = r
	}
}

// WithList uses an existing list state instead of a new one.
func WithList(s *userlist.State) Option {
	return func(d *Desk) {
		d.list = s
	}
}

// New returns a Desk over store. The list starts empty and loading.
func New(store remote.Store, opts ...Option) *Desk {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	d := &Desk{
		store:   store,
		notices: notice.NewReporter(),
		log:     discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.list == nil {
		d.list = userlist.New(userlist.WithLogger(d.log))
	}
	return d
}

// List returns the user list state.
func (d *Desk) List() *userlist.State { return d.list }

// Notices returns the channel of user-visible outcomes.
func (d *Desk) Notices() <-chan notice.Notice { return d.notices.Subscribe() }

// Load seeds the list from the remote store. On failure the list enters
// userlist.StatusError and keeps whatever it held before.
func (d *Desk) Load(ctx context.Context) error {
	d.list.SetLoading()

	users, err := d.store.List(ctx)
	if err != nil {
		d.list.SetFailed(err)
		d.fail("load", 0, err)
		return fmt.Errorf("desk: load users: %w", err)
	}

	d.list.Seed(users)
	d.log.WithField("count", len(users)).Debug("user list loaded")
	return nil
}

// Retry re-runs Load after a failure.
func (d *Desk) Retry(ctx context.Context) error { return d.Load(ctx) }

// Users returns the current list in order.
func (d *Desk) Users() []user.User { return d.list.Records() }

// Search returns the users whose name contains term, case-insensitively.
func (d *Desk) Search(term string) iter.Seq[user.User] {
	return d.list.FilterByName(term)
}

// Detail fetches one user from the remote store. A missing user yields an
// error matching remote.ErrNotFound.
func (d *Desk) Detail(ctx context.Context, id int) (*user.User, error) {
	u, err := d.store.Get(ctx, id)
	if err != nil {
		d.fail("detail", id, err)
		return nil, err
	}
	return u, nil
}

// GetMany fetches several users concurrently, preserving the order of ids.
// It fails on the first error and reports only that one: fetches cut short
// by it are not failures of their own.
func (d *Desk) GetMany(ctx context.Context, ids []int) ([]user.User, error) {
	out := make([]user.User, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDetailFetches)
	for i, id := range ids {
		g.Go(func() error {
			u, err := d.store.Get(gctx, id)
			if err != nil {
				return &fetchError{id: id, err: err}
			}
			out[i] = *u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var fe *fetchError
		if errors.As(err, &fe) {
			d.fail("detail", fe.id, fe.err)
		}
		return nil, err
	}
	return out, nil
}

// fetchError ties a GetMany failure to the user it was fetching.
type fetchError struct {
	id  int
	err error
}

func (e *fetchError) Error() string { return fmt.Sprintf("user %d: %v", e.id, e.err) }

func (e *fetchError) Unwrap() error { return e.err }

// OpenCreate starts a create session.
func (d *Desk) OpenCreate() session.Form {
	return session.NewCreate()
}

// OpenEdit starts an edit session for a listed user.
func (d *Desk) OpenEdit(id int) (session.Form, error) {
	u, ok := d.list.Get(id)
	if !ok {
		return session.Form{}, fmt.Errorf("%w: %d", ErrUnknownUser, id)
	}
	return session.NewEdit(u), nil
}

// Submit submits f and reports the outcome. Validation failures are returned
// but not reported as notices: they are shown inline per field.
func (d *Desk) Submit(ctx context.Context, f session.Form) (session.Form, error) {
	op := f.Mode().String()
	if f.Mode() == session.ModeEdit {
		op = "update"
	}
	log := d.log.WithFields(logrus.Fields{"session": f.Token().ID(), "op": op})

	next, err := f.Submit(ctx, d.store, d.list)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrInvalid):
		log.WithField("fields", next.Errors().Fields()).Debug("submit blocked by validation")
		return next, err
	case errors.Is(err, session.ErrCancelled):
		log.Debug("discarding result for a closed session")
		return next, err
	default:
		d.fail(op, f.ID(), err)
		return next, err
	}

	if next.OutOfSync() {
		log.WithField("id", next.ID()).Warn("updated user was not in the list")
	}
	d.notices.Emit(notice.Notice{Op: op, UserID: next.ID(), Level: notice.LevelSuccess})
	return next, nil
}

// RequestDelete starts a delete confirmation for a listed user.
func (d *Desk) RequestDelete(id int) (*session.DeleteFlow, error) {
	if _, ok := d.list.Get(id); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUser, id)
	}
	flow := session.NewDeleteFlow()
	if err := flow.Request(id); err != nil {
		return nil, err
	}
	return flow, nil
}

// ConfirmDelete confirms flow and reports the outcome.
func (d *Desk) ConfirmDelete(ctx context.Context, flow *session.DeleteFlow) error {
	id := flow.Target()
	err := flow.Confirm(ctx, d.store, d.list)
	switch {
	case err == nil:
		d.notices.Emit(notice.Notice{Op: "delete", UserID: id, Level: notice.LevelSuccess})
		return nil
	case errors.Is(err, session.ErrCancelled):
		d.log.WithField("session", flow.Token().ID()).Debug("discarding delete result for a closed flow")
		return err
	case errors.Is(err, session.ErrNotPending), errors.Is(err, session.ErrInFlight):
		return err
	default:
		d.fail("delete", id, err)
		return err
	}
}

func (d *Desk) fail(op string, id int, err error) {
	d.log.WithFields(logrus.Fields{"op": op, "id": id}).WithError(err).Error("remote operation failed")
	d.notices.Emit(notice.Notice{Op: op, UserID: id, Level: notice.LevelFailure, Err: err})
}
