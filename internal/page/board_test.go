package page

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingual/internal/clock"
	"github.com/phrazzld/lingual/internal/flash"
	"github.com/phrazzld/lingual/internal/platform/logger"
	"github.com/phrazzld/lingual/internal/quiz"
	"github.com/phrazzld/lingual/internal/quiz/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashLayer(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	first := flash.Element{ID: uuid.New(), Message: "Saved", Category: flash.CategorySuccess}
	second := flash.Element{ID: uuid.New(), Message: "Oops", Category: flash.CategoryError}

	b.Append(first)
	b.Append(second)
	b.Append(first)

	views := b.Flashes()
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	assert.Equal(t, flash.AppearanceHidden, views[0].Appearance)

	b.Restyle(second.ID, flash.AppearanceEmphasized)
	b.Restyle(uuid.New(), flash.AppearanceActive)
	assert.Equal(t, flash.AppearanceEmphasized, b.Flashes()[1].Appearance)

	b.Detach(first.ID)
	b.Detach(first.ID)
	views = b.Flashes()
	require.Len(t, views, 1)
	assert.Equal(t, second.ID, views[0].ID)
}

func TestAddPrerendered(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	els := b.AddPrerendered([]Prerendered{
		{Message: "Welcome back"},
		{Message: "Profile incomplete", Category: "warning"},
	})

	require.Len(t, els, 2)
	assert.Equal(t, flash.CategoryInfo, els[0].Category)
	assert.Equal(t, flash.CategoryWarning, els[1].Category)
	assert.Len(t, b.Flashes(), 2)
}

func TestBoardDrivenByManager(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	clk := clock.NewManual(time.Now())
	b := NewBoard()
	m := flash.NewManager(b, clk, flash.DefaultConfig(), log, nil)

	h := m.Show("Lesson saved", flash.CategorySuccess)
	assert.Equal(t, flash.AppearanceActive, b.Flashes()[0].Appearance)

	h.PointerEnter()
	assert.Equal(t, flash.AppearanceEmphasized, b.Flashes()[0].Appearance)

	h.Click()
	assert.Equal(t, flash.AppearanceFading, b.Flashes()[0].Appearance)

	clk.Advance(flash.DefaultConfig().FadeDuration)
	assert.Empty(t, b.Flashes())
}

func TestQuizPanels(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	clk := clock.NewManual(time.Now())
	b := NewBoard()
	engine := session.NewEngine(nil, b, clk, session.DefaultConfig(), log)
	c := session.Container{ID: "quiz-1", Lesson: "greetings", QuizID: "intro"}

	def := quiz.Definition{Bank: []quiz.Question{
		{Prompt: "おはよう means", Options: []string{"Good night", "Good morning"}, Answer: 1},
		{Prompt: "こんばんは means", Options: []string{"Good evening", "Hello"}, Answer: 0},
	}}
	require.NoError(t, engine.Start(c, def))

	p, ok := b.Quiz(c.ID)
	require.True(t, ok)
	assert.Equal(t, PanelQuestion, p.Kind)
	assert.Equal(t, quiz.DefaultTitle, p.Title)
	assert.Equal(t, "1 / 2", p.Progress)
	assert.Equal(t, session.LabelNext, p.Question.NextLabel)
	assert.False(t, p.Question.NextEnabled)

	clk.Advance(session.DefaultConfig().LockDelay)
	_, err := engine.Choose(c.ID, 0)
	require.NoError(t, err)

	p, _ = b.Quiz(c.ID)
	assert.Equal(t, PanelAnswered, p.Kind)
	require.NotNil(t, p.Answer)
	assert.Equal(t, 1, p.Answer.Correct)
	assert.Equal(t, 0, p.Answer.Chosen)
	assert.True(t, p.Question.NextEnabled)

	require.NoError(t, engine.Next(c.ID))
	p, _ = b.Quiz(c.ID)
	assert.Equal(t, "2 / 2", p.Progress)
	assert.Nil(t, p.Answer)
	assert.Equal(t, session.LabelFinish, p.Question.NextLabel)

	clk.Advance(session.DefaultConfig().LockDelay)
	_, err = engine.Choose(c.ID, 0)
	require.NoError(t, err)
	require.NoError(t, engine.Next(c.ID))

	p, _ = b.Quiz(c.ID)
	assert.Equal(t, PanelSummary, p.Kind)
	assert.Equal(t, "Keep Trying!", p.Title)
	assert.Equal(t, "Don't give up, practice makes perfect!", p.Subtitle)
	assert.Equal(t, "1/2 (50%)", p.ScoreLine)
}

func TestLoadingAndErrorPanels(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	c := session.Container{ID: "quiz-2", Lesson: "numbers", QuizID: "counting"}

	b.RenderLoading(c)
	p, _ := b.Quiz(c.ID)
	assert.Equal(t, PanelLoading, p.Kind)
	assert.Equal(t, "Loading Quiz", p.Title)

	b.RenderError(c)
	p, _ = b.Quiz(c.ID)
	assert.Equal(t, PanelError, p.Kind)
	assert.Equal(t, "Error Loading Quiz", p.Title)
	assert.Equal(t, "Please try again later.", p.Subtitle)

	// An answer without a question on screen is dropped.
	b.RenderAnswer(c, session.AnswerView{})
	p, _ = b.Quiz(c.ID)
	assert.Equal(t, PanelError, p.Kind)

	_, ok := b.Quiz("missing")
	assert.False(t, ok)
}
