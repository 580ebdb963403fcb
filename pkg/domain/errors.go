package domain

import (
	"errors"
	"fmt"
)

// ErrNoPreviousLocation is returned by back navigation when the back stack holds a single entry.
var ErrNoPreviousLocation = errors.New("no previous location")

// ErrUnknownLocation is returned when a selection names an id the repository does not know.
var ErrUnknownLocation = errors.New("unknown location")

// ErrMapUnavailable is returned when no route map image is configured or present.
var ErrMapUnavailable = errors.New("route map unavailable")

// ConfigurationError reports a malformed or missing topology.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ContentMissingError reports a location without a text body.
type ContentMissingError struct {
	LocationID string
}

func (e *ContentMissingError) Error() string {
	return fmt.Sprintf("location %q has no text content", e.LocationID)
}

// TransportError reports a failed send or delete against the message transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
