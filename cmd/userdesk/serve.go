package main

import (
	"context"
	"flag"

	"github.com/dusk-indust/userdesk/internal/mcptools"
	"github.com/dusk-indust/userdesk/internal/notice"
)

func (a *app) runServeMCP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	addr := fs.String("addr", "", "serve streamable HTTP on this address instead of stdio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	go func() {
		notices := a.desk.Notices()
		for {
			select {
			case n := <-notices:
				a.log.WithField("outcome", n.Level).Info(notice.Format(n))
			case <-ctx.Done():
				return
			}
		}
	}()

	server := mcptools.NewUserMCPServer(mcptools.NewUserService(a.desk))
	if *addr != "" {
		a.log.WithField("addr", *addr).Info("serving MCP over HTTP")
		return mcptools.RunHTTP(ctx, server, *addr)
	}
	a.log.Debug("serving MCP over stdio")
	return mcptools.RunStdio(ctx, server)
}
