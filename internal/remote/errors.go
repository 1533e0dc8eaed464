package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches a RemoteError for a 404 response.
var ErrNotFound = errors.New("remote: user not found")

// RemoteError reports an unsuccessful interaction with the remote API: either
// the request never produced a response, or the response was not 2xx, or the
// body could not be decoded.
type RemoteError struct {
	Op         string // list, get, create, update, delete
	Method     string
	URL        string
	StatusCode int    // zero when no response was received
	Body       string // response body for non-2xx responses
	Err        error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("remote: %s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("remote: %s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	case e.Body != "":
		return fmt.Sprintf("remote: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("remote: %s: HTTP %d", e.Op, e.StatusCode)
	}
}

// Unwrap returns the underlying transport or decode error, if any.
func (e *RemoteError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNotFound) true for 404 responses.
func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Unreachable reports whether the request failed before any response arrived.
func (e *RemoteError) Unreachable() bool { return e.StatusCode == 0 }

// IsNotFound reports whether err is a not-found RemoteError.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
