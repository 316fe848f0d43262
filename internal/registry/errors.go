package registry

import "fmt"

// UnavailableError means the registry could not be reached (network
// failure or timeout). Synchronous callers surface it; the async
// delivery path swallows it after logging.
type UnavailableError struct {
	Content string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("registry unavailable (%s): %s", e.Content, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// RejectedError means the registry answered with a non-2xx status; the
// triggering call is fatal and must not be blindly retried.
type RejectedError struct {
	Content string
	Status  int
	Body    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("registry rejected %s call: status %d: %s", e.Content, e.Status, e.Body)
}
