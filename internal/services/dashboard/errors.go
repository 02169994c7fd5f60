package dashboard

import "errors"

var (
	// ErrInvalidDays is returned when a history window is outside 1..365 days
	ErrInvalidDays = errors.New("days must be between 1 and 365")
	// ErrInvalidSeverity is returned for a severity filter outside the known set
	ErrInvalidSeverity = errors.New("invalid severity")
	// ErrInvalidStatus is returned for a recommendation status outside the known set
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition is returned when a status change is not allowed
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrNotFound is returned when a recommendation id does not exist
	ErrNotFound = errors.New("not found")
)
