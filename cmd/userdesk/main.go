package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dusk-indust/userdesk/internal/config"
	"github.com/dusk-indust/userdesk/internal/desk"
	"github.com/dusk-indust/userdesk/internal/notice"
	"github.com/dusk-indust/userdesk/internal/remote"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigDir string
	BaseURL   string
	Timeout   time.Duration
	Verbose   bool
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: userdesk [flags] <command> [args]

commands:
  list [-search TERM]         list users, optionally filtered by name
  show ID...                  show full details for one or more users
  create -name N -email E ... create a user
  edit ID [-name N ...]       change fields of a user
  delete ID [-yes]            delete a user after confirmation
  serve-mcp [-addr ADDR]      serve the user tools over MCP (stdio by default)`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the wiring shared by every command.
type app struct {
	desk   *desk.Desk
	log    *logrus.Logger
	stdin  io.Reader
	stdout io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("userdesk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fmt.Fprintln(stderr, "\nflags:")
		fs.PrintDefaults()
	}
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding userdesk.yml")
	fs.StringVar(&flags.BaseURL, "base-url", "", "remote API base URL (overrides config)")
	fs.DurationVar(&flags.Timeout, "timeout", 0, "per-request timeout (overrides config)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no command given")
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return err
	}
	if flags.BaseURL != "" {
		cfg.BaseURL = flags.BaseURL
	}
	if flags.Timeout > 0 {
		cfg.Timeout = flags.Timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg.Log, flags.Verbose, stderr)
	client := remote.NewHTTPClient(cfg.BaseURL,
		remote.WithTimeout(cfg.Timeout),
		remote.WithLogger(log),
	)
	a := &app{
		desk:   desk.New(client, desk.WithLogger(log)),
		log:    log,
		stdin:  stdin,
		stdout: stdout,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	log.WithFields(logrus.Fields{"command": cmd, "baseURL": cfg.BaseURL}).Debug("starting")

	switch cmd {
	case "list":
		err = a.runList(ctx, rest)
	case "show":
		err = a.runShow(ctx, rest)
	case "create":
		err = a.runCreate(ctx, rest)
	case "edit":
		err = a.runEdit(ctx, rest)
	case "delete":
		err = a.runDelete(ctx, rest)
	case "serve-mcp":
		return a.runServeMCP(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	a.printNotices()
	return err
}

// newLogger builds the process logger. Logs go to w so stdout stays free for
// command output and the MCP stdio transport.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	// Validated by config.Validate.
	level, _ := logrus.ParseLevel(cfg.Level)
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// printNotices writes every pending notice to stdout without waiting for
// more.
func (a *app) printNotices() {
	notices := a.desk.Notices()
	for {
		select {
		case n := <-notices:
			fmt.Fprintln(a.stdout, notice.Format(n))
		default:
			return
		}
	}
}
