package mcptools

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/userdesk/internal/desk"
	"github.com/dusk-indust/userdesk/internal/remote"
	"github.com/dusk-indust/userdesk/internal/session"
	"github.com/dusk-indust/userdesk/internal/user"
	"github.com/dusk-indust/userdesk/internal/userlist"
)

// UserService handles MCP tool calls against a Desk.
type UserService struct {
	desk   *desk.Desk
	loadMu sync.Mutex
}

// NewUserService creates a UserService over d.
func NewUserService(d *desk.Desk) *UserService {
	return &UserService{desk: d}
}

// ensureLoaded seeds the list on first use and after a failed load.
func (s *UserService) ensureLoaded(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if status, _ := s.desk.List().Status(); status == userlist.StatusReady {
		return nil
	}
	return s.desk.Load(ctx)
}

// ListUsers returns the listed users, optionally filtered by name.
func (s *UserService) ListUsers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListUsersInput,
) (*mcp.CallToolResult, ListUsersOutput, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, ListUsersOutput{}, err
	}

	users := slices.Collect(s.desk.Search(input.Search))
	if users == nil {
		users = []user.User{}
	}
	return nil, ListUsersOutput{
		Users: users,
		Total: s.desk.List().Len(),
	}, nil
}

// GetUser fetches one user's details from the remote store.
func (s *UserService) GetUser(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetUserInput,
) (*mcp.CallToolResult, GetUserOutput, error) {
	u, err := s.desk.Detail(ctx, input.ID)
	if remote.IsNotFound(err) {
		return nil, GetUserOutput{Found: false}, nil
	}
	if err != nil {
		return nil, GetUserOutput{}, err
	}
	return nil, GetUserOutput{User: *u, Found: true}, nil
}

// CreateUser validates and creates a user.
func (s *UserService) CreateUser(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateUserInput,
) (*mcp.CallToolResult, SubmitOutput, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, SubmitOutput{}, err
	}

	f := s.desk.OpenCreate()
	for _, field := range user.Fields {
		v, _ := input.User.Get(field)
		var err error
		if f, err = f.Set(field, v); err != nil {
			return nil, SubmitOutput{}, err
		}
	}
	return nil, s.submit(ctx, f, "created"), nil
}

// UpdateUser edits the fields given in input on a listed user.
func (s *UserService) UpdateUser(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateUserInput,
) (*mcp.CallToolResult, SubmitOutput, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, SubmitOutput{}, err
	}

	f, err := s.desk.OpenEdit(input.ID)
	if err != nil {
		return nil, SubmitOutput{}, err
	}
	for field, v := range input.changes() {
		if f, err = f.Set(field, v); err != nil {
			return nil, SubmitOutput{}, err
		}
	}
	return nil, s.submit(ctx, f, "updated"), nil
}

func (s *UserService) submit(ctx context.Context, f session.Form, okStatus string) SubmitOutput {
	next, err := s.desk.Submit(ctx, f)
	switch {
	case err == nil:
		res, _ := next.Result()
		return SubmitOutput{Status: okStatus, User: &res}
	case errors.Is(err, session.ErrInvalid):
		return SubmitOutput{Status: "invalid", Errors: next.Errors(), Message: err.Error()}
	default:
		return SubmitOutput{Status: "failed", Message: err.Error()}
	}
}

// DeleteUser deletes a listed user once confirm is set. Without confirm the
// request is left pending and nothing is sent.
func (s *UserService) DeleteUser(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteUserInput,
) (*mcp.CallToolResult, DeleteUserOutput, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, DeleteUserOutput{}, err
	}

	flow, err := s.desk.RequestDelete(input.ID)
	if err != nil {
		return nil, DeleteUserOutput{}, err
	}
	defer flow.Close()

	if !input.Confirm {
		_ = flow.Cancel()
		return nil, DeleteUserOutput{
			ID:      input.ID,
			Status:  "pending",
			Message: fmt.Sprintf("deleting user %d needs confirmation: call again with confirm=true", input.ID),
		}, nil
	}

	if err := s.desk.ConfirmDelete(ctx, flow); err != nil {
		return nil, DeleteUserOutput{ID: input.ID, Status: "failed", Message: err.Error()}, nil
	}
	return nil, DeleteUserOutput{ID: input.ID, Status: "deleted"}, nil
}
