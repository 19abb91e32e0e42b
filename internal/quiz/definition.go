package quiz

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultTitle is shown for quizzes that do not name themselves.
const DefaultTitle = "Quiz"

var validate = validator.New()

// Question is a single multiple-choice question. It is never mutated once loaded.
type Question struct {
	Prompt  string   `json:"question" validate:"required"`
	Options []string `json:"options" validate:"min=1"`
	Answer  int      `json:"answer" validate:"gte=0"`
}

// Definition is a quiz as served by the lesson API.
type Definition struct {
	Title  string     `json:"title,omitempty"`
	Random bool       `json:"random,omitempty"`
	Limit  int        `json:"limit,omitempty" validate:"gte=0"`
	Bank   []Question `json:"bank" validate:"dive"`
}

// Collection maps quiz ids to definitions for one lesson.
type Collection map[string]Definition

// DisplayTitle returns the title, or DefaultTitle when none is set.
func (d Definition) DisplayTitle() string {
	if d.Title == "" {
		return DefaultTitle
	}
	return d.Title
}

// Validate checks that the definition can be run.
func (d Definition) Validate() error {
	if len(d.Bank) == 0 {
		return ErrEmptyBank
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedQuiz, err)
	}
	for i, q := range d.Bank {
		if q.Answer >= len(q.Options) {
			return fmt.Errorf("%w: question %d answer %d out of range for %d options",
				ErrMalformedQuiz, i, q.Answer, len(q.Options))
		}
	}
	return nil
}

// Lookup returns the validated definition stored under id.
func (c Collection) Lookup(id string) (Definition, error) {
	def, ok := c[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrQuizNotFound, id)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, fmt.Errorf("quiz %q: %w", id, err)
	}
	return def, nil
}
