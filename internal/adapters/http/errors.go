package httpadapter

import "errors"

// Messages match the error bodies API clients already parse.
var (
	// ErrInvalidSite is returned for a site query parameter that is not a known site
	ErrInvalidSite = errors.New("Invalid site")
	// ErrInvalidSeverity is returned for an unknown severity filter
	ErrInvalidSeverity = errors.New("Invalid severity")
	// ErrInvalidStatus is returned when a patch carries no usable status
	ErrInvalidStatus = errors.New("Invalid status")
	// ErrInvalidDays is returned when the history window is not an integer in 1..365
	ErrInvalidDays = errors.New("days must be between 1 and 365")
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("Invalid request body")
	// ErrUnauthorized is returned when the cron bearer token does not match
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrRecommendationNotFound is returned when patching an unknown recommendation
	ErrRecommendationNotFound = errors.New("Recommendation not found")
)
