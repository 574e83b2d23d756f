package booker

import "fmt"

// TransportUnavailableError means the service could not be reached at all. HealthCheck
// swallows this condition into a false return; every other operation propagates it.
type TransportUnavailableError struct {
	URL string
	Err error
}

func (e TransportUnavailableError) Error() string {
	return fmt.Sprintf("could not reach %s: %s", e.URL, e.Err)
}

func (e TransportUnavailableError) Unwrap() error { return e.Err }

// AuthenticationError means the service answered an authentication request with a
// success status but the payload contained neither a token nor a failure reason.
type AuthenticationError struct {
	Body string
}

func (e AuthenticationError) Error() string {
	return fmt.Sprintf("authentication response contained no token: %s", e.Body)
}

// AuthorizationError means a mutating operation was rejected for a bad, stale, or
// missing token.
type AuthorizationError struct {
	Operation string
	ID        int
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("%s of booking %d was rejected: bad or missing token", e.Operation, e.ID)
}

// NotFoundError means the booking id is absent from the service. Deleting an
// already-deleted booking reports this too; cleanup logic treats it as non-fatal.
type NotFoundError struct {
	ID int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("booking %d does not exist", e.ID)
}
