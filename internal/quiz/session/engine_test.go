package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/lingual/internal/clock"
	"github.com/phrazzld/lingual/internal/events"
	"github.com/phrazzld/lingual/internal/platform/logger"
	"github.com/phrazzld/lingual/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetcherFunc adapts a function to the Fetcher interface.
type fetcherFunc func(ctx context.Context, lesson string) (quiz.Collection, error)

func (f fetcherFunc) FetchQuizzes(ctx context.Context, lesson string) (quiz.Collection, error) {
	return f(ctx, lesson)
}

func staticFetcher(c quiz.Collection) Fetcher {
	return fetcherFunc(func(context.Context, string) (quiz.Collection, error) { return c, nil })
}

// render is one call made on the recording view.
type render struct {
	kind     string
	question QuestionView
	answer   AnswerView
	summary  SummaryView
}

type recordingView struct {
	mu      sync.Mutex
	renders map[string][]render
}

func newRecordingView() *recordingView {
	return &recordingView{renders: make(map[string][]render)}
}

func (v *recordingView) add(c Container, r render) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders[c.ID] = append(v.renders[c.ID], r)
}

func (v *recordingView) RenderLoading(c Container) { v.add(c, render{kind: "loading"}) }
func (v *recordingView) RenderError(c Container)   { v.add(c, render{kind: "error"}) }
func (v *recordingView) RenderQuestion(c Container, q QuestionView) {
	v.add(c, render{kind: "question", question: q})
}
func (v *recordingView) RenderAnswer(c Container, a AnswerView) {
	v.add(c, render{kind: "answer", answer: a})
}
func (v *recordingView) RenderSummary(c Container, s SummaryView) {
	v.add(c, render{kind: "summary", summary: s})
}

func (v *recordingView) last(id string) render {
	v.mu.Lock()
	defer v.mu.Unlock()
	rs := v.renders[id]
	if len(rs) == 0 {
		return render{}
	}
	return rs[len(rs)-1]
}

func (v *recordingView) kinds(id string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []string
	for _, r := range v.renders[id] {
		out = append(out, r.kind)
	}
	return out
}

const lockDelay = 500 * time.Millisecond

type fixture struct {
	engine   *Engine
	view     *recordingView
	clock    *clock.Manual
	recorder *events.Recorder
	logs     *logger.TestLogBuffer
}

func newFixture(t *testing.T, fetcher Fetcher) *fixture {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	view := newRecordingView()
	clk := clock.NewManual(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
	rec := &events.Recorder{}
	cfg := Config{LockDelay: lockDelay, FetchTimeout: time.Second}

	return &fixture{
		engine:   NewEngine(fetcher, view, clk, cfg, log, WithRand(rand.New(rand.NewPCG(1, 1))), WithEmitter(rec)),
		view:     view,
		clock:    clk,
		recorder: rec,
		logs:     buf,
	}
}

func bank(n int) []quiz.Question {
	out := make([]quiz.Question, n)
	for i := range out {
		out[i] = quiz.Question{
			Prompt:  fmt.Sprintf("question %d", i),
			Options: []string{"a", "b", "c"},
			Answer:  i % 3,
		}
	}
	return out
}

var container = Container{ID: "quiz-1", Lesson: "particles-wa-ga", QuizID: "basics"}

// answer waits out the lock window and chooses option.
func (f *fixture) answer(t *testing.T, option int) AnswerView {
	t.Helper()
	f.clock.Advance(lockDelay)
	view, err := f.engine.Choose(container.ID, option)
	require.NoError(t, err)
	return view
}

func TestLoadSingleQuestionWrongAnswer(t *testing.T) {
	t.Parallel()

	q := quiz.Question{Prompt: "私___学生です。", Options: []string{"は", "が", "を"}, Answer: 0}
	f := newFixture(t, staticFetcher(quiz.Collection{"basics": {Bank: []quiz.Question{q}}}))

	require.NoError(t, f.engine.Load(context.Background(), container))
	assert.Equal(t, []string{"loading", "question"}, f.view.kinds(container.ID))

	qv := f.view.last(container.ID).question
	assert.Equal(t, quiz.DefaultTitle, qv.Title)
	assert.Equal(t, q.Prompt, qv.Prompt)
	assert.Equal(t, q.Options, qv.Options)
	assert.Equal(t, 0, qv.Index)
	assert.Equal(t, 1, qv.Count)
	assert.Equal(t, LabelFinish, qv.NextLabel)
	assert.False(t, qv.NextEnabled)

	av := f.answer(t, 2)
	assert.Equal(t, 0, av.Correct, "correct option is marked")
	assert.Equal(t, 2, av.Chosen, "chosen wrong option is marked")
	assert.False(t, av.IsCorrect)
	assert.True(t, av.NextEnabled)
	assert.Equal(t, LabelFinish, av.NextLabel)

	require.NoError(t, f.engine.Next(container.ID))
	sv := f.view.last(container.ID).summary
	assert.Equal(t, SummaryView{
		Header:   "Needs Improvement!",
		Subtitle: "Consider reviewing the material and trying again!",
		Correct:  0,
		Total:    1,
		Percent:  0,
	}, sv)

	snap, ok := f.engine.Snapshot(container.ID)
	require.True(t, ok)
	assert.Equal(t, PhaseSummary, snap.Phase)
}

func TestAllCorrectIsPerfect(t *testing.T) {
	t.Parallel()

	def := quiz.Definition{Title: "Kanji readings", Bank: bank(4)}
	f := newFixture(t, staticFetcher(quiz.Collection{"basics": def}))
	require.NoError(t, f.engine.Load(context.Background(), container))

	for i := 0; i < 4; i++ {
		qv := f.view.last(container.ID).question
		assert.Equal(t, i, qv.Index)
		assert.Equal(t, "Kanji readings", qv.Title)
		if i < 3 {
			assert.Equal(t, LabelNext, qv.NextLabel)
		} else {
			assert.Equal(t, LabelFinish, qv.NextLabel)
		}

		av := f.answer(t, def.Bank[i].Answer)
		assert.True(t, av.IsCorrect)
		require.NoError(t, f.engine.Next(container.ID))
	}

	sv := f.view.last(container.ID).summary
	assert.Equal(t, 4, sv.Correct)
	assert.Equal(t, 4, sv.Total)
	assert.Equal(t, 100, sv.Percent)
	assert.Equal(t, "Perfect Score!", sv.Header)

	completed := f.recorder.OfType(events.TypeQuizCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, container.ID, completed[0].Subject)
	assert.Len(t, f.recorder.OfType(events.TypeQuizAnswered), 4)
}

func TestMisclickLockWindow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	require.NoError(t, f.engine.Start(container, quiz.Definition{Bank: bank(2)}))

	_, err := f.engine.Choose(container.ID, 0)
	assert.ErrorIs(t, err, ErrLocked)
	assert.True(t, IsIgnoredClick(err))

	f.clock.Advance(lockDelay - time.Millisecond)
	_, err = f.engine.Choose(container.ID, 0)
	assert.ErrorIs(t, err, ErrLocked)

	f.clock.Advance(time.Millisecond)
	_, err = f.engine.Choose(container.ID, 0)
	require.NoError(t, err)

	// The next question gets its own lock window.
	f.clock.Advance(100 * time.Millisecond)
	require.NoError(t, f.engine.Next(container.ID))
	f.clock.Advance(lockDelay - time.Millisecond)
	_, err = f.engine.Choose(container.ID, 1)
	assert.ErrorIs(t, err, ErrLocked)

	snap, _ := f.engine.Snapshot(container.ID)
	assert.Equal(t, 1, snap.Index)
	assert.False(t, snap.Armed)
}

func TestAnsweredQuestionIgnoresFurtherClicks(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	require.NoError(t, f.engine.Start(container, quiz.Definition{Bank: bank(2)}))

	f.answer(t, 0)
	before, _ := f.engine.Snapshot(container.ID)
	require.Equal(t, 1, before.Score.Correct)

	for option := 0; option < 3; option++ {
		_, err := f.engine.Choose(container.ID, option)
		assert.ErrorIs(t, err, ErrAlreadyAnswered)
	}

	after, _ := f.engine.Snapshot(container.ID)
	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, 0, after.Chosen)
}

func TestNextRequiresAnswer(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	require.NoError(t, f.engine.Start(container, quiz.Definition{Bank: bank(2)}))

	assert.ErrorIs(t, f.engine.Next(container.ID), ErrNotAnswered)
	assert.ErrorIs(t, f.engine.Next("nope"), ErrUnknownContainer)
	assert.ErrorIs(t, f.engine.Retry(container.ID), ErrNotAccepting)
}

func TestChooseOptionOutOfRange(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	require.NoError(t, f.engine.Start(container, quiz.Definition{Bank: bank(1)}))
	f.clock.Advance(lockDelay)

	_, err := f.engine.Choose(container.ID, 3)
	assert.ErrorIs(t, err, ErrOptionOutOfRange)
	_, err = f.engine.Choose(container.ID, -1)
	assert.ErrorIs(t, err, ErrOptionOutOfRange)

	snap, _ := f.engine.Snapshot(container.ID)
	assert.Equal(t, PhaseAwaiting, snap.Phase)
}

func TestRetryReshuffles(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	def := quiz.Definition{Random: true, Limit: 3, Bank: bank(10)}
	require.NoError(t, f.engine.Start(container, def))

	first, _ := f.engine.Snapshot(container.ID)
	reshuffled := false
	const rounds = 5
	for round := 0; round < rounds; round++ {
		for i := 0; i < 3; i++ {
			f.answer(t, 0)
			require.NoError(t, f.engine.Next(container.ID))
		}
		require.NoError(t, f.engine.Retry(container.ID))

		again, _ := f.engine.Snapshot(container.ID)
		assert.Equal(t, PhaseAwaiting, again.Phase)
		assert.Equal(t, 0, again.Index)
		assert.Equal(t, quiz.Score{Correct: 0, Total: 3}, again.Score)
		assert.Len(t, again.Order, 3)
		assert.Equal(t, "question", f.view.last(container.ID).kind)
		if fmt.Sprint(again.Order) != fmt.Sprint(first.Order) {
			reshuffled = true
		}
	}

	assert.True(t, reshuffled, "retry draws a fresh order")
	assert.Len(t, f.recorder.OfType(events.TypeQuizRestarted), rounds)
}

func TestScoreInvariants(t *testing.T) {
	t.Parallel()

	for limit := 0; limit <= 6; limit++ {
		f := newFixture(t, nil)
		def := quiz.Definition{Random: true, Limit: limit, Bank: bank(5)}
		require.NoError(t, f.engine.Start(container, def))

		snap, _ := f.engine.Snapshot(container.ID)
		assert.Equal(t, len(snap.Order), snap.Score.Total)

		for {
			snap, _ = f.engine.Snapshot(container.ID)
			if snap.Phase == PhaseSummary {
				break
			}
			f.answer(t, snap.Order[snap.Index].Answer)
			f.engine.Choose(container.ID, snap.Order[snap.Index].Answer) // ignored
			require.NoError(t, f.engine.Next(container.ID))

			snap, _ = f.engine.Snapshot(container.ID)
			assert.LessOrEqual(t, snap.Score.Correct, snap.Score.Total)
		}
		assert.Equal(t, snap.Score.Total, snap.Score.Correct)
	}
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fetcher Fetcher
		wantErr error
	}{
		{
			name: "transport error",
			fetcher: fetcherFunc(func(context.Context, string) (quiz.Collection, error) {
				return nil, errors.New("connection refused")
			}),
		},
		{
			name:    "quiz id absent",
			fetcher: staticFetcher(quiz.Collection{"other": {Bank: bank(1)}}),
			wantErr: quiz.ErrQuizNotFound,
		},
		{
			name:    "empty bank",
			fetcher: staticFetcher(quiz.Collection{"basics": {Bank: nil}}),
			wantErr: quiz.ErrEmptyBank,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.fetcher)

			err := f.engine.Load(context.Background(), container)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			assert.Equal(t, []string{"loading", "error"}, f.view.kinds(container.ID))
			snap, ok := f.engine.Snapshot(container.ID)
			require.True(t, ok)
			assert.Equal(t, PhaseFailed, snap.Phase)

			_, err = f.engine.Choose(container.ID, 0)
			assert.ErrorIs(t, err, ErrNotAccepting)
			assert.ErrorIs(t, f.engine.Retry(container.ID), ErrNotAccepting)

			logger.AssertLogContains(t, f.logs, "quiz load error")
			logger.AssertLogField(t, f.logs, "lesson", container.Lesson)
			assert.Len(t, f.recorder.OfType(events.TypeQuizLoadFailed), 1)
		})
	}
}

func TestLoadRejectsIncompleteContainer(t *testing.T) {
	t.Parallel()

	f := newFixture(t, staticFetcher(quiz.Collection{}))
	err := f.engine.Load(context.Background(), Container{ID: "quiz-2", Lesson: "particles"})
	assert.ErrorIs(t, err, ErrInvalidContainer)
	assert.Empty(t, f.view.kinds("quiz-2"), "nothing is rendered")
}

func TestLoadAcceptsNoInputWhileInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, fetcherFunc(func(ctx context.Context, lesson string) (quiz.Collection, error) {
		close(started)
		<-release
		return quiz.Collection{"basics": {Bank: bank(1)}}, nil
	}))

	done := make(chan error, 1)
	go func() { done <- f.engine.Load(context.Background(), container) }()

	<-started
	snap, ok := f.engine.Snapshot(container.ID)
	require.True(t, ok)
	assert.Equal(t, PhaseLoading, snap.Phase)
	_, err := f.engine.Choose(container.ID, 0)
	assert.ErrorIs(t, err, ErrNotAccepting)
	assert.ErrorIs(t, f.engine.Next(container.ID), ErrNotAccepting)

	close(release)
	require.NoError(t, <-done)
	snap, _ = f.engine.Snapshot(container.ID)
	assert.Equal(t, PhaseAwaiting, snap.Phase)
}

func TestLoadTimesOut(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	view := newRecordingView()
	blocking := fetcherFunc(func(ctx context.Context, lesson string) (quiz.Collection, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	engine := NewEngine(blocking, view, clock.New(), Config{LockDelay: lockDelay, FetchTimeout: 20 * time.Millisecond}, log)

	err := engine.Load(context.Background(), container)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "error", view.last(container.ID).kind)
}

func TestLoadSupersededByStart(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, fetcherFunc(func(ctx context.Context, lesson string) (quiz.Collection, error) {
		close(started)
		<-release
		return nil, errors.New("too late")
	}))

	done := make(chan error, 1)
	go func() { done <- f.engine.Load(context.Background(), container) }()
	<-started

	require.NoError(t, f.engine.Start(container, quiz.Definition{Bank: bank(1)}))
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, "question", f.view.last(container.ID).kind, "stale failure is not rendered")
}

func TestStartValidatesDefinition(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	assert.ErrorIs(t, f.engine.Start(container, quiz.Definition{}), quiz.ErrEmptyBank)
	assert.ErrorIs(t, f.engine.Start(Container{}, quiz.Definition{Bank: bank(1)}), ErrInvalidContainer)
	_, ok := f.engine.Snapshot(container.ID)
	assert.False(t, ok)
}

func TestZeroLockDelayArmsImmediately(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	engine := NewEngine(nil, newRecordingView(), clock.NewManual(time.Now()), Config{}, log)
	require.NoError(t, engine.Start(container, quiz.Definition{Bank: bank(1)}))

	_, err := engine.Choose(container.ID, 0)
	assert.NoError(t, err)
}

func TestCloseStopsLockTimers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	require.NoError(t, f.engine.Start(container, quiz.Definition{Bank: bank(1)}))
	require.Equal(t, 1, f.clock.Pending())

	f.engine.Close()
	assert.Equal(t, 0, f.clock.Pending())
}

func TestPhaseString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "awaiting_answer", PhaseAwaiting.String())
	text, err := PhaseSummary.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "summary", string(text))
	assert.Equal(t, "unknown", Phase(-1).String())
}
