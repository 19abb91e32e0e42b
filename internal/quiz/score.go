package quiz

import "math"

// Score tracks correct answers against the number of questions in a session.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Record counts one answer. Correct never exceeds Total.
func (s *Score) Record(correct bool) {
	if correct && s.Correct < s.Total {
		s.Correct++
	}
}

// Percent returns the score rounded to the nearest whole percent.
func (s Score) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.Correct) / float64(s.Total)))
}

// Tier is the feedback shown for a range of percentages.
type Tier struct {
	Header   string `json:"header"`
	Subtitle string `json:"subtitle"`
}

// tiers are ordered from the highest threshold down.
var tiers = []struct {
	min  int
	tier Tier
}{
	{100, Tier{"Perfect Score!", "You're a natural!"}},
	{85, Tier{"That's an A!", "It seems you know your stuff!"}},
	{70, Tier{"Good Effort!", "A little more practice and you'll get there!"}},
	{50, Tier{"Keep Trying!", "Don't give up, practice makes perfect!"}},
	{0, Tier{"Needs Improvement!", "Consider reviewing the material and trying again!"}},
}

// TierFor selects the feedback tier for a percentage.
func TierFor(percent int) Tier {
	for _, t := range tiers {
		if percent >= t.min {
			return t.tier
		}
	}
	return tiers[len(tiers)-1].tier
}

// Summary is the final result of a session.
type Summary struct {
	Score   Score `json:"score"`
	Percent int   `json:"percent"`
	Tier
}

// Summarize computes the summary for a finished session.
func Summarize(score Score) Summary {
	percent := score.Percent()
	return Summary{Score: score, Percent: percent, Tier: TierFor(percent)}
}
