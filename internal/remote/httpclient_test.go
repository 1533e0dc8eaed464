package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/userdesk/internal/remote"
	"github.com/dusk-indust/userdesk/internal/remote/remotetest"
	"github.com/dusk-indust/userdesk/internal/user"
)

func seedUsers() []user.User {
	return []user.User{
		{ID: 1, Name: "Leanne Graham", Email: "sincere@april.biz", Address: user.Address{Street: "Kulas Light", City: "Gwenborough"}},
		{ID: 2, Name: "Ervin Howell", Email: "shanna@melissa.tv", Address: user.Address{Street: "Victor Plains", City: "Wisokyburgh"}},
	}
}

func TestList(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	users, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 1, users[0].ID)
	assert.Equal(t, "Leanne Graham", users[0].Name)
	assert.Equal(t, "Gwenborough", users[0].Address.City)
	assert.Equal(t, 2, users[1].ID)
}

func TestList_EmptyCollection(t *testing.T) {
	srv := remotetest.NewServer(t)
	client := remote.NewHTTPClient(srv.URL)

	users, err := client.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestList_ServerError(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	srv.FailNext(http.MethodGet, http.StatusInternalServerError)
	client := remote.NewHTTPClient(srv.URL)

	users, err := client.List(context.Background())
	require.Error(t, err)
	assert.Nil(t, users)

	var rerr *remote.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "list", rerr.Op)
	assert.Equal(t, http.StatusInternalServerError, rerr.StatusCode)
	assert.False(t, rerr.Unreachable())
	assert.False(t, remote.IsNotFound(err))
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestGet(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	u, err := client.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Ervin Howell", u.Name)
	assert.Equal(t, "/users/2", srv.Calls()[0].Path)
}

func TestGet_NotFound(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	u, err := client.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Nil(t, u)
	assert.True(t, errors.Is(err, remote.ErrNotFound))

	var rerr *remote.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.False(t, rerr.Unreachable())
}

func TestGet_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := remote.NewHTTPClient(url)
	_, err := client.Get(context.Background(), 1)
	require.Error(t, err)

	var rerr *remote.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, rerr.Unreachable())
	assert.False(t, remote.IsNotFound(err))
}

func TestCreate(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	in := user.Candidate{
		Name:        "Clementine Bauch",
		Email:       "nathan@yesenia.net",
		Phone:       "1463123447",
		Street:      "Douglas Extension",
		City:        "McKenziehaven",
		CompanyName: "Romaguera-Jacobson",
	}.Record(0)

	created, err := client.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID, "store assigns the next id")
	assert.Equal(t, "user3", created.Username, "store assigns the username")
	assert.Equal(t, "Clementine Bauch", created.Name)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/users", calls[0].Path)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(calls[0].Body, &wire))
	assert.Equal(t, map[string]any{"street": "Douglas Extension", "city": "McKenziehaven"}, wire["address"])
	assert.Equal(t, map[string]any{"name": "Romaguera-Jacobson"}, wire["company"])
}

func TestCreate_Failure(t *testing.T) {
	srv := remotetest.NewServer(t)
	srv.FailNext(http.MethodPost, http.StatusServiceUnavailable)
	client := remote.NewHTTPClient(srv.URL)

	created, err := client.Create(context.Background(), user.User{Name: "Cy"})
	require.Error(t, err)
	assert.Nil(t, created)
	assert.Empty(t, srv.Users(), "failed call stores nothing")
}

func TestUpdate(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	in := seedUsers()[1]
	in.Name = "Ervin H."
	updated, err := client.Update(context.Background(), 2, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.ID)
	assert.Equal(t, "Ervin H.", updated.Name)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "/users/2", calls[0].Path)
}

func TestUpdate_NotFound(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	_, err := client.Update(context.Background(), 42, user.User{Name: "Nobody"})
	require.Error(t, err)
	assert.True(t, remote.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	require.NoError(t, client.Delete(context.Background(), 1))
	users := srv.Users()
	require.Len(t, users, 1)
	assert.Equal(t, 2, users[0].ID)
}

func TestDelete_Failure(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	srv.FailNext(http.MethodDelete, http.StatusInternalServerError)
	client := remote.NewHTTPClient(srv.URL)

	err := client.Delete(context.Background(), 1)
	require.Error(t, err)

	var rerr *remote.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "delete", rerr.Op)
	assert.Len(t, srv.Users(), 2)
}

func TestDecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	client := remote.NewHTTPClient(ts.URL)
	_, err := client.List(context.Background())
	require.Error(t, err)

	var rerr *remote.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusOK, rerr.StatusCode)
	assert.Contains(t, err.Error(), "decode response")
}

func TestWithTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	client := remote.NewHTTPClient(ts.URL, remote.WithTimeout(50*time.Millisecond))
	err := client.Delete(context.Background(), 1)
	require.Error(t, err)

	var rerr *remote.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, rerr.Unreachable())
}

func TestContextCancelled(t *testing.T) {
	srv := remotetest.NewServer(t, seedUsers()...)
	client := remote.NewHTTPClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.List(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewHTTPClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, remote.DefaultBaseURL, remote.NewHTTPClient("").BaseURL())
	assert.Equal(t, "http://api.local", remote.NewHTTPClient("http://api.local/").BaseURL())
}
