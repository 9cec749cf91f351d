package service

import "errors"

var (
	// ErrNotSubmitted is returned by actions that need a prior submission.
	ErrNotSubmitted = errors.New("no meal plan has been requested yet")
	// ErrNoRestaurants is wrapped when the place search yields nothing.
	ErrNoRestaurants = errors.New("no restaurants found")
)

// ValidationError indicates that the form input is invalid.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// Stage names a pipeline step.
type Stage string

const (
	StageGeocode Stage = "geocode"
	StageSearch  Stage = "search"
)

// Severity tells the presentation how to style a stage failure.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// StageError stops the pipeline at a step with a user-facing message.
type StageError struct {
	Stage    Stage
	Severity Severity
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}
