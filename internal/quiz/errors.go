package quiz

import "errors"

// Quiz data errors. All of them are terminal for a quiz container.
var (
	// ErrQuizNotFound is returned when a lesson has no quiz with the requested id.
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrEmptyBank is returned when a quiz definition has no questions.
	ErrEmptyBank = errors.New("quiz bank is empty")

	// ErrMalformedQuiz is returned when a quiz definition fails validation.
	ErrMalformedQuiz = errors.New("malformed quiz definition")
)
