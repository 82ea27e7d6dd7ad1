package apiclient

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

// RemoteError is any failure reported while talking to the api: transport,
// timeout, undecodable body or a non-2xx status.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when no response was received
	Payload    string // response body, or the transport message
	Cause      error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		if e.Payload == "" {
			return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
		}
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Payload)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Payload)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// Message is the text shown to the user for this failure.
func (e *RemoteError) Message() string {
	if e.Payload != "" {
		return e.Payload
	}
	return e.Error()
}

// AsRemoteError extracts a RemoteError from an error chain.
func AsRemoteError(err error) *RemoteError {
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		return rerr
	}
	return nil
}

// IsNotFound returns true if the api answered 404.
func IsNotFound(err error) bool {
	rerr := AsRemoteError(err)
	return rerr != nil && rerr.StatusCode == http.StatusNotFound
}

// IsTimeout returns true if the call gave up waiting for the api.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
