package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidURL is returned when host and path do not form an absolute URL.
	ErrInvalidURL = errors.New("invalid API description URL")

	// ErrBodyTooLarge is returned when the response exceeds the body limit.
	ErrBodyTooLarge = errors.New("API description response too large")

	// ErrPasswordNotFound is returned when the keyring has no password for a user.
	ErrPasswordNotFound = errors.New("no password stored in keyring")
)

// maxErrorBody bounds the part of the response body quoted in Error().
const maxErrorBody = 512

// StatusError is returned when the API description request does not
// answer with a 2xx status.
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// URL is the request URL.
	URL string

	// Body is the full response body.
	Body []byte
}

// Error implements error.
func (e *StatusError) Error() string {
	body := e.Body
	suffix := ""
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
		suffix = "..."
	}
	return fmt.Sprintf("swagger doc is not pulled: %d %s: %s%s", e.StatusCode, e.URL, body, suffix)
}
