package inference

import "fmt"

// ConnectivityError means the inference endpoint was unreachable or answered
// with a non-success status. The caller decides whether to skip or abort.
type ConnectivityError struct {
	Endpoint string
	Status   int // 0 when the request never got a response
	Err      error
}

func (e *ConnectivityError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("inference endpoint %s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("inference endpoint %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// MalformedResponseError means the endpoint answered 2xx but the body did not
// contain what the contract promises (e.g. a missing or non-numeric vector).
type MalformedResponseError struct {
	Endpoint string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}
