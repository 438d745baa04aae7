package vodapi

import "fmt"

// RequestError is any non-2xx response from the remote API. Retrying is left
// to the caller: asset creation is not idempotent, so the client never
// retries on its own.
type RequestError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d (%s): %s", e.Status, e.StatusText, e.Message)
}
