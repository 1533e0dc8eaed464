package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dusk-indust/userdesk/internal/session"
	"github.com/dusk-indust/userdesk/internal/user"
)

// fieldFlagNames maps form fields to their command-line flag names.
var fieldFlagNames = map[string]string{
	user.FieldName:        "name",
	user.FieldEmail:       "email",
	user.FieldPhone:       "phone",
	user.FieldUsername:    "username",
	user.FieldStreet:      "street",
	user.FieldCity:        "city",
	user.FieldCompanyName: "company",
	user.FieldWebsite:     "website",
}

func (a *app) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	search := fs.String("search", "", "case-insensitive name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.desk.Load(ctx); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tEMAIL\tPHONE\tCITY")
	n := 0
	for u := range a.desk.Search(*search) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Username, u.Email, u.Phone, u.Address.City)
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n == 0 && *search != "" {
		fmt.Fprintf(a.stdout, "no users match %q\n", *search)
	}
	return nil
}

func (a *app) runShow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("show: at least one user id is required")
	}
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return fmt.Errorf("show: %w", err)
		}
		ids[i] = id
	}

	users, err := a.desk.GetMany(ctx, ids)
	if err != nil {
		return err
	}
	for i, u := range users {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		if err := printUser(a.stdout, u); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) runCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	values := fieldFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := a.desk.OpenCreate()
	for _, field := range user.Fields {
		var err error
		if f, err = f.Set(field, *values[field]); err != nil {
			return fmt.Errorf("create: %w", err)
		}
	}
	return a.submit(ctx, f)
}

func (a *app) runEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	values := fieldFlags(fs)
	id, err := parseWithID(fs, args)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	if err := a.desk.Load(ctx); err != nil {
		return err
	}

	f, err := a.desk.OpenEdit(id)
	if err != nil {
		return err
	}
	var setErr error
	fs.Visit(func(fl *flag.Flag) {
		for field, name := range fieldFlagNames {
			if name == fl.Name && setErr == nil {
				f, setErr = f.Set(field, *values[field])
			}
		}
	})
	if setErr != nil {
		return fmt.Errorf("edit: %w", setErr)
	}
	return a.submit(ctx, f)
}

// submit sends f and prints the stored user, or the per-field errors when
// the form does not validate.
func (a *app) submit(ctx context.Context, f session.Form) error {
	next, err := a.desk.Submit(ctx, f)
	if errors.Is(err, session.ErrInvalid) {
		errs := next.Errors()
		fmt.Fprintln(a.stdout, "invalid user:")
		for _, field := range errs.Fields() {
			fmt.Fprintf(a.stdout, "  %s: %s\n", fieldFlagNames[field], errs[field])
		}
		return errors.New("user not saved")
	}
	if err != nil {
		return err
	}

	u, _ := next.Result()
	return printUser(a.stdout, u)
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	id, err := parseWithID(fs, args)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := a.desk.Load(ctx); err != nil {
		return err
	}

	flow, err := a.desk.RequestDelete(id)
	if err != nil {
		return err
	}
	defer flow.Close()

	if !*yes {
		u, _ := a.desk.List().Get(id)
		ok, err := confirm(a.stdin, a.stdout, fmt.Sprintf("Delete user %d (%s)?", u.ID, u.Name))
		if err != nil {
			_ = flow.Cancel()
			return err
		}
		if !ok {
			_ = flow.Cancel()
			fmt.Fprintln(a.stdout, "cancelled")
			return nil
		}
	}
	return a.desk.ConfirmDelete(ctx, flow)
}

// fieldFlags registers one string flag per form field on fs.
func fieldFlags(fs *flag.FlagSet) map[string]*string {
	values := make(map[string]*string, len(user.Fields))
	for _, field := range user.Fields {
		values[field] = fs.String(fieldFlagNames[field], "", field)
	}
	return values
}

// parseWithID accepts the user id either before or after the flags.
func parseWithID(fs *flag.FlagSet, args []string) (int, error) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, err := parseID(args[0])
		if err != nil {
			return 0, err
		}
		return id, fs.Parse(args[1:])
	}
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if fs.NArg() != 1 {
		return 0, errors.New("exactly one user id is required")
	}
	return parseID(fs.Arg(0))
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func printUser(w io.Writer, u user.User) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Address:\t%s, %s\n", u.Address.Street, u.Address.City)
	if u.Company.Name != "" {
		fmt.Fprintf(tw, "Company:\t%s\n", u.Company.Name)
	}
	if u.Website != "" {
		fmt.Fprintf(tw, "Website:\t%s\n", u.Website)
	}
	return tw.Flush()
}
