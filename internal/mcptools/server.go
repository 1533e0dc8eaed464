package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewUserMCPServer creates an MCP server with the user management tools
// registered.
func NewUserMCPServer(svc *UserService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "userdesk",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_users",
		Description: "List users in their current order. Optionally filter by a case-insensitive name substring.",
	}, svc.ListUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user",
		Description: "Fetch one user's full details from the remote store by id.",
	}, svc.GetUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_user",
		Description: "Validate and create a user. Returns the stored user with its new id, or the per-field validation errors.",
	}, svc.CreateUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_user",
		Description: "Change some fields of a listed user. The username cannot be changed. Returns the stored user or the per-field validation errors.",
	}, svc.UpdateUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_user",
		Description: "Delete a listed user. Without confirm=true nothing is deleted and the request is reported as pending.",
	}, svc.DeleteUser)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the MCP server over streamable HTTP on addr until ctx is
// cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
