package pathfinding

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingEndpoints means start or end was not placed. No request is sent.
	ErrMissingEndpoints = errors.New("pathfinding: start and end must both be placed")
	// ErrNoPathFound is a valid outcome: the endpoints are disconnected.
	ErrNoPathFound = errors.New("pathfinding: no path found")
)

// TransportError reports a non-success HTTP status. The body is not inspected.
type TransportError struct {
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pathfinding: request failed with status %d %s", e.Status, http.StatusText(e.Status))
}

// ServiceError carries the service's own error message verbatim.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return "pathfinding: service error: " + e.Message
}

// IsRecoverable reports whether err belongs to the run error taxonomy, all of
// which leave the grid editable and allow another attempt.
func IsRecoverable(err error) bool {
	var te *TransportError
	var se *ServiceError
	return errors.Is(err, ErrMissingEndpoints) ||
		errors.Is(err, ErrNoPathFound) ||
		errors.As(err, &te) ||
		errors.As(err, &se)
}
