package httpclient

import "fmt"

// StatusError reports a completed call that returned a non-2xx status.
type StatusError struct {
	Venue  string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d", e.Venue, e.Status)
}

// NetworkError reports a call that never produced a response.
type NetworkError struct {
	Venue string
	URL   string
	Err   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Venue, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
