package client

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the server rejects the session. The
// client has already asked its unauthorized hook to send the user to the
// login page.
var ErrUnauthorized = errors.New("client: unauthorized")

// ConnectionError wraps a transport failure: the request never produced an
// HTTP response.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "Connection failed" }
func (e *ConnectionError) Unwrap() error { return e.Err }

// APIError is a non-2xx response carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// DecodeError is a 2xx response whose body was not the expected shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("client: decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Message returns the text a user should see for err. fallback is used for
// errors that carry no user-facing message.
func Message(err error, fallback string) string {
	var (
		apiErr  *APIError
		connErr *ConnectionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &connErr):
		return connErr.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return fallback
	}
}
