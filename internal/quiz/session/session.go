package session

import (
	"github.com/phrazzld/lingual/internal/clock"
	"github.com/phrazzld/lingual/internal/quiz"
)

// Phase is the state of a quiz container.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseFailed
	PhaseAwaiting
	PhaseAnswered
	PhaseSummary
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseFailed:
		return "failed"
	case PhaseAwaiting:
		return "awaiting_answer"
	case PhaseAnswered:
		return "answered"
	case PhaseSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// session is the side-table record for one container.
type session struct {
	container Container
	def       quiz.Definition
	order     []quiz.Question
	index     int
	score     quiz.Score
	phase     Phase

	// armed becomes true once the lock window of the current question passes.
	armed  bool
	chosen int

	// question is bumped on every render so a stale unlock timer cannot arm
	// a later question.
	question  uint64
	lockTimer clock.Timer
}

func (s *session) current() quiz.Question {
	return s.order[s.index]
}

func (s *session) last() bool {
	return s.index+1 >= len(s.order)
}

func (s *session) nextLabel() string {
	if s.last() {
		return LabelFinish
	}
	return LabelNext
}

func (s *session) stopLock() {
	if s.lockTimer != nil {
		s.lockTimer.Stop()
		s.lockTimer = nil
	}
}

func (s *session) questionView() QuestionView {
	q := s.current()
	return QuestionView{
		Title:       s.def.DisplayTitle(),
		Prompt:      q.Prompt,
		Options:     append([]string(nil), q.Options...),
		Index:       s.index,
		Count:       len(s.order),
		NextLabel:   s.nextLabel(),
		NextEnabled: false,
	}
}

// Snapshot is a point-in-time copy of a container's session.
type Snapshot struct {
	Container Container       `json:"container"`
	Phase     Phase           `json:"phase"`
	Title     string          `json:"title"`
	Index     int             `json:"index"`
	Order     []quiz.Question `json:"order,omitempty"`
	Score     quiz.Score      `json:"score"`
	Armed     bool            `json:"armed"`
	Chosen    int             `json:"chosen"`
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		Container: s.container,
		Phase:     s.phase,
		Title:     s.def.DisplayTitle(),
		Index:     s.index,
		Order:     append([]quiz.Question(nil), s.order...),
		Score:     s.score,
		Armed:     s.armed,
		Chosen:    s.chosen,
	}
}
