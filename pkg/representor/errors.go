package representor

import (
	"errors"
	"net/http"
)

// HTTPError is implemented by errors that carry the transport status the
// response should use.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs a transport status with an underlying cause. Handlers
// return it so one place can map a failure to both the response status and
// the document's Error.Code.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode())
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// StatusCodeFrom extracts a transport status from err, walking the wrap
// chain. fallback applies when no error in the chain carries one.
func StatusCodeFrom(err error, fallback int) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	return fallback
}
