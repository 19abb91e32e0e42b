package quiz

import "math/rand/v2"

// WorkingOrder derives the sequence of questions presented in a session.
// The bank is copied, shuffled with Fisher-Yates when Random is set, and
// truncated to Limit when Limit is positive. The bank itself is untouched.
func WorkingOrder(def Definition, rng *rand.Rand) []Question {
	questions := make([]Question, len(def.Bank))
	copy(questions, def.Bank)

	if def.Random {
		for i := len(questions) - 1; i > 0; i-- {
			j := rng.IntN(i + 1)
			questions[i], questions[j] = questions[j], questions[i]
		}
	}

	if def.Limit > 0 && def.Limit < len(questions) {
		questions = questions[:def.Limit]
	}

	return questions
}
