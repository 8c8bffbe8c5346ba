package league

import (
	"errors"
	"fmt"
)

// ErrNoCredential is returned when a season report is requested without a
// configured API credential.
var ErrNoCredential = errors.New("league: no report credential configured")

// StatusError captures a non-success response from the league authority.
// It distinguishes "the authority rejected the request" from transport
// failures, which surface as plain errors from the HTTP client.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("league %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("league %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// AsStatusError attempts to unwrap an error into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var sErr *StatusError
	if errors.As(err, &sErr) {
		return sErr, true
	}
	return nil, false
}
