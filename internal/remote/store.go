// Package remote is the client for the external REST API that is the system
// of record for users. Every call is a single best-effort attempt: there is no
// caching and no retry.
package remote

import (
	"context"

	"github.com/dusk-indust/userdesk/internal/user"
)

// Store is the set of operations the remote user resource supports.
type Store interface {
	// List returns every user in the order the store reports them.
	List(ctx context.Context) ([]user.User, error)

	// Get returns one user. An unknown id yields an error matching ErrNotFound.
	Get(ctx context.Context, id int) (*user.User, error)

	// Create sends a new user and returns the store's representation,
	// including the newly assigned ID. It does not validate.
	Create(ctx context.Context, u user.User) (*user.User, error)

	// Update replaces the user with the given id and returns the record the
	// store echoes back.
	Update(ctx context.Context, id int, u user.User) (*user.User, error)

	// Delete removes the user with the given id.
	Delete(ctx context.Context, id int) error
}
