package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/userdesk/internal/desk"
	"github.com/dusk-indust/userdesk/internal/remote/remotetest"
	"github.com/dusk-indust/userdesk/internal/session"
	"github.com/dusk-indust/userdesk/internal/user"
)

func person(id int, name string) user.User {
	return user.User{
		ID:       id,
		Name:     name,
		Username: strings.ToLower(name),
		Email:    strings.ToLower(name) + "@x.com",
		Phone:    "1234567890",
		Address:  user.Address{Street: "Main St", City: "Gwenborough"},
	}
}

// runCLI runs the CLI against srv with an empty config directory.
func runCLI(t *testing.T, srv *remotetest.Server, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	full := append([]string{"-config-dir", t.TempDir(), "-base-url", srv.URL}, args...)
	err := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func newServer(t *testing.T) *remotetest.Server {
	return remotetest.NewServer(t, person(1, "Leanne"), person(2, "Ervin"), person(3, "Clementine"))
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-version"}, nil, &stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, version+"\n", stdout.String())
}

func TestRun_NoCommand(t *testing.T) {
	err := run(context.Background(), nil, nil, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_UnknownCommand(t *testing.T) {
	_, err := runCLI(t, newServer(t), "", "frobnicate")
	assert.ErrorContains(t, err, `unknown command "frobnicate"`)
}

func TestRun_BadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userdesk.yml"), []byte("log:\n  format: xml\n"), 0o644))

	err := run(context.Background(), []string{"-config-dir", dir, "list"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "log.format")
}

func TestRun_List(t *testing.T) {
	out, err := runCLI(t, newServer(t), "", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "Leanne")
	assert.Contains(t, lines[2], "Ervin")
	assert.Contains(t, lines[3], "Clementine")
}

func TestRun_ListSearch(t *testing.T) {
	srv := newServer(t)

	out, err := runCLI(t, srv, "", "list", "-search", "LEAN")
	require.NoError(t, err)
	assert.Contains(t, out, "Leanne")
	assert.NotContains(t, out, "Ervin")

	out, err = runCLI(t, srv, "", "list", "-search", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `no users match "zzz"`)
}

func TestRun_ListLoadFailure(t *testing.T) {
	srv := newServer(t)
	srv.FailNext(http.MethodGet, http.StatusServiceUnavailable)

	out, err := runCLI(t, srv, "", "list")
	require.Error(t, err)
	assert.Contains(t, out, "✗ load failed")
}

func TestRun_Show(t *testing.T) {
	out, err := runCLI(t, newServer(t), "", "show", "3", "1")
	require.NoError(t, err)

	iClem := strings.Index(out, "Clementine")
	iLeanne := strings.Index(out, "Leanne")
	require.NotEqual(t, -1, iClem)
	require.NotEqual(t, -1, iLeanne)
	assert.Less(t, iClem, iLeanne, "users are printed in argument order")
	assert.Contains(t, out, "Main St, Gwenborough")
}

func TestRun_ShowMissing(t *testing.T) {
	_, err := runCLI(t, newServer(t), "", "show", "99")
	assert.ErrorContains(t, err, "user 99")
}

func TestRun_ShowBadID(t *testing.T) {
	_, err := runCLI(t, newServer(t), "", "show", "abc")
	assert.ErrorContains(t, err, `invalid user id "abc"`)
}

func TestRun_Create(t *testing.T) {
	srv := newServer(t)

	out, err := runCLI(t, srv, "", "create",
		"-name", "Patricia",
		"-email", "pat@x.com",
		"-phone", "0123456789",
		"-street", "Elm St",
		"-city", "Aliyaview",
		"-company", "Acme",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "ID:       4")
	assert.Contains(t, out, "Company:  Acme")
	assert.Contains(t, out, "✓ create user 4")

	users := srv.Users()
	require.Len(t, users, 4)
	assert.Equal(t, "Patricia", users[3].Name)
	assert.Equal(t, "Elm St", users[3].Address.Street)
}

func TestRun_CreateInvalid(t *testing.T) {
	srv := newServer(t)

	out, err := runCLI(t, srv, "", "create",
		"-name", "Pa",
		"-email", "pat@x.com",
		"-phone", "12345",
		"-street", "Elm St",
		"-city", "Aliyaview",
	)
	require.Error(t, err)
	assert.Contains(t, out, "name: "+user.MsgName)
	assert.Contains(t, out, "phone: "+user.MsgPhone)
	assert.NotContains(t, out, "email:")
	assert.Zero(t, srv.CallCount(http.MethodPost))
}

func TestRun_Edit(t *testing.T) {
	srv := newServer(t)

	out, err := runCLI(t, srv, "", "edit", "2", "-name", "Ervin Howell")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ update user 2")

	got := srv.Users()[1]
	assert.Equal(t, "Ervin Howell", got.Name)
	assert.Equal(t, "ervin@x.com", got.Email, "unset flags keep their values")
}

func TestRun_EditUsernameIsReadOnly(t *testing.T) {
	srv := newServer(t)

	_, err := runCLI(t, srv, "", "edit", "2", "-username", "other")
	assert.ErrorIs(t, err, session.ErrReadOnly)
	assert.Zero(t, srv.CallCount(http.MethodPut))
}

func TestRun_EditUnknown(t *testing.T) {
	_, err := runCLI(t, newServer(t), "", "edit", "42", "-name", "Nobody")
	assert.ErrorIs(t, err, desk.ErrUnknownUser)
}

func TestRun_DeleteWithYes(t *testing.T) {
	srv := newServer(t)

	out, err := runCLI(t, srv, "", "delete", "1", "-yes")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ delete user 1")
	assert.Len(t, srv.Users(), 2)
}

func TestRun_DeletePromptDeclined(t *testing.T) {
	srv := newServer(t)

	out, err := runCLI(t, srv, "n\n", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete user 1 (Leanne)?")
	assert.Contains(t, out, "cancelled")
	assert.Zero(t, srv.CallCount(http.MethodDelete))
	assert.Len(t, srv.Users(), 3)
}

func TestRun_DeletePromptAccepted(t *testing.T) {
	srv := newServer(t)

	_, err := runCLI(t, srv, "yes\n", "delete", "-yes=false", "3")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.CallCount(http.MethodDelete))
	assert.Len(t, srv.Users(), 2)
}

func TestRun_DeleteRemoteFailure(t *testing.T) {
	srv := newServer(t)
	srv.FailNext(http.MethodDelete, http.StatusInternalServerError)

	out, err := runCLI(t, srv, "", "delete", "1", "-yes")
	require.Error(t, err)
	assert.Contains(t, out, "✗ delete user 1 failed")
}

func TestConfirm_EOFIsNo(t *testing.T) {
	ok, err := confirm(strings.NewReader(""), &bytes.Buffer{}, "Sure?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirm_RefusesNonTerminalFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	_, err = confirm(f, &bytes.Buffer{}, "Sure?")
	assert.ErrorIs(t, err, errNoTerminal)
}
