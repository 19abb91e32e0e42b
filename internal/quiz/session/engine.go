package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingual/internal/clock"
	"github.com/phrazzld/lingual/internal/events"
	"github.com/phrazzld/lingual/internal/quiz"
)

var validate = validator.New()

// Fetcher reads the quiz collection of a lesson.
type Fetcher interface {
	FetchQuizzes(ctx context.Context, lesson string) (quiz.Collection, error)
}

// Config holds the engine timings.
type Config struct {
	// LockDelay is the misclick lock window applied to every question.
	LockDelay time.Duration

	// FetchTimeout bounds each Load.
	FetchTimeout time.Duration
}

// DefaultConfig returns the standard engine timings.
func DefaultConfig() Config {
	return Config{
		LockDelay:    500 * time.Millisecond,
		FetchTimeout: 10 * time.Second,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithEmitter sets the emitter receiving quiz events.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(e *Engine) { e.emitter = emitter }
}

// Engine runs quiz sessions for any number of containers.
type Engine struct {
	fetcher Fetcher
	view    View
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
	emitter events.EventEmitter

	mu       sync.Mutex
	rng      *rand.Rand
	sessions map[string]*session
}

// NewEngine creates an Engine rendering into view.
func NewEngine(fetcher Fetcher, view View, clk clock.Clock, cfg Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for quiz Engine")
	}

	e := &Engine{
		fetcher:  fetcher,
		view:     view,
		clock:    clk,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "quiz_engine")),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches the quiz named by the container and starts it. The container
// shows the loading presentation while the request is in flight and accepts
// no input. Any failure renders the terminal error presentation and is logged;
// the returned error is informational only.
func (e *Engine) Load(ctx context.Context, c Container) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	log := e.logger.With(
		slog.String("container", c.ID),
		slog.String("lesson", c.Lesson),
		slog.String("quiz_id", c.QuizID))

	s := &session{container: c, phase: PhaseLoading, chosen: -1}

	e.mu.Lock()
	if old, ok := e.sessions[c.ID]; ok {
		old.stopLock()
	}
	e.sessions[c.ID] = s
	e.view.RenderLoading(c)
	e.mu.Unlock()

	def, err := e.fetch(ctx, c)

	e.mu.Lock()
	if e.sessions[c.ID] != s {
		e.mu.Unlock()
		log.Debug("discarding superseded quiz load")
		return ErrSuperseded
	}
	if err != nil {
		s.phase = PhaseFailed
		e.view.RenderError(c)
		e.mu.Unlock()

		log.Error("quiz load error", "error", err)
		e.emit(events.TypeQuizLoadFailed, c.ID, map[string]string{"error": err.Error()})
		return err
	}
	e.startLocked(s, def)
	count := len(s.order)
	e.mu.Unlock()

	log.Debug("quiz loaded", slog.Int("questions", count))
	e.emit(events.TypeQuizLoaded, c.ID, map[string]int{"questions": count})
	return nil
}

func (e *Engine) fetch(ctx context.Context, c Container) (quiz.Definition, error) {
	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}

	collection, err := e.fetcher.FetchQuizzes(ctx, c.Lesson)
	if err != nil {
		return quiz.Definition{}, fmt.Errorf("fetch lesson %q: %w", c.Lesson, err)
	}
	return collection.Lookup(c.QuizID)
}

// Start runs def in the container without fetching, replacing any session
// already there.
func (e *Engine) Start(c Container, def quiz.Definition) error {
	if c.ID == "" {
		return ErrInvalidContainer
	}
	if err := def.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if old, ok := e.sessions[c.ID]; ok {
		old.stopLock()
	}
	s := &session{container: c}
	e.sessions[c.ID] = s
	e.startLocked(s, def)
	e.mu.Unlock()
	return nil
}

// startLocked builds a fresh working order and renders the first question.
func (e *Engine) startLocked(s *session, def quiz.Definition) {
	s.def = def
	s.order = quiz.WorkingOrder(def, e.rng)
	s.score = quiz.Score{Correct: 0, Total: len(s.order)}
	s.index = 0
	e.renderQuestionLocked(s)
}

func (e *Engine) renderQuestionLocked(s *session) {
	s.stopLock()
	s.phase = PhaseAwaiting
	s.chosen = -1
	s.question++
	s.armed = e.cfg.LockDelay <= 0

	if !s.armed {
		question := s.question
		s.lockTimer = e.clock.AfterFunc(e.cfg.LockDelay, func() { e.arm(s, question) })
	}

	e.view.RenderQuestion(s.container, s.questionView())
}

func (e *Engine) arm(s *session, question uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.question != question || s.phase != PhaseAwaiting {
		return
	}
	s.armed = true
	s.lockTimer = nil
}

// Choose selects an option of the current question. Clicks inside the lock
// window and clicks after an answer was accepted are ignored and reported
// through the returned error.
func (e *Engine) Choose(containerID string, option int) (AnswerView, error) {
	e.mu.Lock()
	s, ok := e.sessions[containerID]
	if !ok {
		e.mu.Unlock()
		return AnswerView{}, ErrUnknownContainer
	}

	switch s.phase {
	case PhaseAwaiting:
	case PhaseAnswered:
		e.mu.Unlock()
		return AnswerView{}, ErrAlreadyAnswered
	default:
		e.mu.Unlock()
		return AnswerView{}, ErrNotAccepting
	}
	if !s.armed {
		e.mu.Unlock()
		e.logger.Debug("ignoring click inside lock window", slog.String("container", containerID))
		return AnswerView{}, ErrLocked
	}

	q := s.current()
	if option < 0 || option >= len(q.Options) {
		e.mu.Unlock()
		return AnswerView{}, ErrOptionOutOfRange
	}

	correct := option == q.Answer
	s.phase = PhaseAnswered
	s.chosen = option
	s.score.Record(correct)

	view := AnswerView{
		Index:       s.index,
		Chosen:      option,
		Correct:     q.Answer,
		IsCorrect:   correct,
		NextLabel:   s.nextLabel(),
		NextEnabled: true,
	}
	e.view.RenderAnswer(s.container, view)
	e.mu.Unlock()

	e.emit(events.TypeQuizAnswered, containerID, map[string]interface{}{
		"index":   view.Index,
		"chosen":  option,
		"correct": correct,
	})
	return view, nil
}

// Next advances past an answered question: to the next question, or to the
// summary after the last one.
func (e *Engine) Next(containerID string) error {
	e.mu.Lock()
	s, ok := e.sessions[containerID]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownContainer
	}

	switch s.phase {
	case PhaseAnswered:
	case PhaseAwaiting:
		e.mu.Unlock()
		return ErrNotAnswered
	default:
		e.mu.Unlock()
		return ErrNotAccepting
	}

	if !s.last() {
		s.index++
		e.renderQuestionLocked(s)
		e.mu.Unlock()
		return nil
	}

	s.phase = PhaseSummary
	summary := quiz.Summarize(s.score)
	e.view.RenderSummary(s.container, SummaryView{
		Header:   summary.Header,
		Subtitle: summary.Subtitle,
		Correct:  summary.Score.Correct,
		Total:    summary.Score.Total,
		Percent:  summary.Percent,
	})
	e.mu.Unlock()

	e.emit(events.TypeQuizCompleted, containerID, summary)
	return nil
}

// Retry restarts a finished quiz with its original definition, reshuffling
// when the quiz is random.
func (e *Engine) Retry(containerID string) error {
	e.mu.Lock()
	s, ok := e.sessions[containerID]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownContainer
	}
	if s.phase != PhaseSummary {
		e.mu.Unlock()
		return ErrNotAccepting
	}
	e.startLocked(s, s.def)
	e.mu.Unlock()

	e.emit(events.TypeQuizRestarted, containerID, nil)
	return nil
}

// Snapshot returns a copy of the container's session.
func (e *Engine) Snapshot(containerID string) (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[containerID]
	if !ok {
		return Snapshot{}, false
	}
	return s.snapshot(), true
}

// Close stops every pending lock timer.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range e.sessions {
		s.stopLock()
	}
}

// IsIgnoredClick reports whether err only means that a click had no effect.
func IsIgnoredClick(err error) bool {
	return errors.Is(err, ErrLocked) || errors.Is(err, ErrAlreadyAnswered)
}

func (e *Engine) emit(eventType, containerID string, payload interface{}) {
	events.Emit(context.Background(), e.emitter, e.logger, eventType, containerID, payload)
}
