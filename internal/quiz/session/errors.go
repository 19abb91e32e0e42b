package session

import "errors"

var (
	// ErrInvalidContainer is returned when a container lacks its id, lesson
	// key or quiz id. Such containers are not loaded.
	ErrInvalidContainer = errors.New("container is missing lesson or quiz id")

	// ErrUnknownContainer is returned for operations on a container that was
	// never loaded or started.
	ErrUnknownContainer = errors.New("unknown quiz container")

	// ErrNotAccepting is returned when the container is loading, failed, or
	// in a phase where the operation does not apply.
	ErrNotAccepting = errors.New("quiz is not accepting input")

	// ErrLocked is returned for option clicks inside the misclick lock window.
	ErrLocked = errors.New("question is locked")

	// ErrAlreadyAnswered is returned for option clicks after an answer was accepted.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrNotAnswered is returned when advancing before the question is answered.
	ErrNotAnswered = errors.New("question not answered yet")

	// ErrOptionOutOfRange is returned for an option index the question does not have.
	ErrOptionOutOfRange = errors.New("option out of range")

	// ErrSuperseded is returned by Load when the container was reloaded or
	// restarted while the request was in flight.
	ErrSuperseded = errors.New("quiz load superseded")
)
