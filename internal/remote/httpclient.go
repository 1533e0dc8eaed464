package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dusk-indust/userdesk/internal/user"
)

// DefaultBaseURL is the public placeholder API the client talks to unless
// configured otherwise.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

const usersPath = "/users"

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 4 << 10

// Compile-time interface check.
var _ Store = (*HTTPClient)(nil)

// HTTPClient implements Store over the REST resource at <baseURL>/users.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *HTTPClient) {
		c.log = l
	}
}

// NewHTTPClient creates a client for the API rooted at baseURL. An empty
// baseURL selects DefaultBaseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// List fetches the whole user collection.
func (c *HTTPClient) List(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := c.do(ctx, "list", http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []user.User{}
	}
	return users, nil
}

// Get fetches a single user by id.
func (c *HTTPClient) Get(ctx context.Context, id int) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, "get", http.MethodGet, userPath(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create posts u to the collection and returns the created representation.
func (c *HTTPClient) Create(ctx context.Context, u user.User) (*user.User, error) {
	u.ID = 0
	var created user.User
	if err := c.do(ctx, "create", http.MethodPost, usersPath, u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update puts the full record u at id and returns the echoed representation.
func (c *HTTPClient) Update(ctx context.Context, id int, u user.User) (*user.User, error) {
	u.ID = id
	var updated user.User
	if err := c.do(ctx, "update", http.MethodPut, userPath(id), u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the user at id. Any 2xx response counts as success; the
// body is ignored.
func (c *HTTPClient) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete", http.MethodDelete, userPath(id), nil, nil)
}

func userPath(id int) string {
	return usersPath + "/" + strconv.Itoa(id)
}

// do performs one request. A nil body sends no payload; a nil out discards
// the response body.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	url := c.baseURL + path
	fail := func(status int, respBody string, err error) error {
		return &RemoteError{Op: op, Method: method, URL: url, StatusCode: status, Body: respBody, Err: err}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("marshal request: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fail(0, "", fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"method":  method,
			"url":     url,
			"elapsed": time.Since(start),
		}).WithError(err).Debug("remote request failed")
		return fail(0, "", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"url":     url,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start),
	}).Debug("remote request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(resp.StatusCode, strings.TrimSpace(string(respBody)), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}
