// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport marks failures to reach the API at all: DNS, connection,
// TLS, timeouts, cancellation.
var ErrTransport = errors.New("transport failure")

// ErrMalformed marks a response body that could not be decoded.
var ErrMalformed = errors.New("malformed response")

// StatusError reports a non-200 response from the API.
type StatusError struct {
	Code int
	// Body is a short excerpt of the response body.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("Semantic Scholar API returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("Semantic Scholar API returned HTTP %d: %s", e.Code, e.Body)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// IsMalformed reports whether err is an undecodable response.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformed) }

// IsRateLimited reports whether err is an HTTP 429 response.
func IsRateLimited(err error) bool { return statusIs(err, http.StatusTooManyRequests) }

// IsNotFound reports whether err is an HTTP 404 response.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

func statusIs(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
