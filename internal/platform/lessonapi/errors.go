package lessonapi

import "errors"

// Error definitions for the lessonapi package.
var (
	// ErrInvalidLesson is returned for a lesson slug that may not be placed in a URL path.
	ErrInvalidLesson = errors.New("invalid lesson slug")

	// ErrUnexpectedStatus is returned when the endpoint answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedResponse is returned when the response body is not a quiz collection.
	ErrMalformedResponse = errors.New("malformed quiz response")
)
