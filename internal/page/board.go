package page

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lingual/internal/flash"
	"github.com/phrazzld/lingual/internal/quiz/session"
)

// FlashView is a notification element as currently drawn on the layer.
type FlashView struct {
	flash.Element
	Appearance flash.Appearance `json:"appearance"`
}

// PanelKind names what a quiz container currently shows.
type PanelKind string

const (
	PanelLoading  PanelKind = "loading"
	PanelError    PanelKind = "error"
	PanelQuestion PanelKind = "question"
	PanelAnswered PanelKind = "answered"
	PanelSummary  PanelKind = "summary"
)

// Panel is the rendered content of one quiz container.
type Panel struct {
	Container session.Container     `json:"container"`
	Kind      PanelKind             `json:"kind"`
	Title     string                `json:"title"`
	Subtitle  string                `json:"subtitle,omitempty"`
	Progress  string                `json:"progress,omitempty"`
	Question  *session.QuestionView `json:"question,omitempty"`
	Answer    *session.AnswerView   `json:"answer,omitempty"`
	Summary   *session.SummaryView  `json:"summary,omitempty"`
	ScoreLine string                `json:"score_line,omitempty"`
}

// Prerendered is a notification present in the page before any script runs.
type Prerendered struct {
	Message  string `json:"message" validate:"required"`
	Category string `json:"category"`
}

// Board is the page document. It implements flash.Layer and session.View.
type Board struct {
	mu      sync.Mutex
	order   []uuid.UUID
	flashes map[uuid.UUID]*FlashView
	panels  map[string]*Panel
}

// NewBoard creates an empty page document.
func NewBoard() *Board {
	return &Board{
		flashes: make(map[uuid.UUID]*FlashView),
		panels:  make(map[string]*Panel),
	}
}

var (
	_ flash.Layer  = (*Board)(nil)
	_ session.View = (*Board)(nil)
)

// Append implements flash.Layer. New elements start hidden.
func (b *Board) Append(el flash.Element) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.flashes[el.ID]; ok {
		return
	}
	b.order = append(b.order, el.ID)
	b.flashes[el.ID] = &FlashView{Element: el, Appearance: flash.AppearanceHidden}
}

// Restyle implements flash.Layer.
func (b *Board) Restyle(id uuid.UUID, a flash.Appearance) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if fv, ok := b.flashes[id]; ok {
		fv.Appearance = a
	}
}

// Detach implements flash.Layer.
func (b *Board) Detach(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.flashes[id]; !ok {
		return
	}
	delete(b.flashes, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// AddPrerendered draws hidden elements for notifications rendered with the
// page and returns them in page order, ready for flash.Manager.InitBatch.
func (b *Board) AddPrerendered(items []Prerendered) []flash.Element {
	elements := make([]flash.Element, 0, len(items))
	for _, item := range items {
		// Unknown categories are resolved by the manager.
		el := flash.Element{ID: uuid.New(), Message: item.Message, Category: flash.Category(item.Category)}
		if item.Category == "" {
			el.Category = flash.CategoryInfo
		}
		b.Append(el)
		elements = append(elements, el)
	}
	return elements
}

// Flashes returns the elements on the flash layer in insertion order.
func (b *Board) Flashes() []FlashView {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]FlashView, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.flashes[id])
	}
	return out
}

// RenderLoading implements session.View.
func (b *Board) RenderLoading(c session.Container) {
	b.setPanel(&Panel{
		Container: c,
		Kind:      PanelLoading,
		Title:     session.LoadingTitle,
		Subtitle:  session.LoadingSubtitle,
	})
}

// RenderError implements session.View.
func (b *Board) RenderError(c session.Container) {
	b.setPanel(&Panel{
		Container: c,
		Kind:      PanelError,
		Title:     session.ErrorTitle,
		Subtitle:  session.ErrorSubtitle,
	})
}

// RenderQuestion implements session.View.
func (b *Board) RenderQuestion(c session.Container, q session.QuestionView) {
	b.setPanel(&Panel{
		Container: c,
		Kind:      PanelQuestion,
		Title:     q.Title,
		Progress:  fmt.Sprintf("%d / %d", q.Index+1, q.Count),
		Question:  &q,
	})
}

// RenderAnswer implements session.View. The question stays on screen with the
// options marked.
func (b *Board) RenderAnswer(c session.Container, a session.AnswerView) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.panels[c.ID]
	if !ok || p.Question == nil {
		return
	}
	next := *p
	q := *p.Question
	q.NextLabel = a.NextLabel
	q.NextEnabled = a.NextEnabled
	next.Kind = PanelAnswered
	next.Question = &q
	next.Answer = &a
	b.panels[c.ID] = &next
}

// RenderSummary implements session.View.
func (b *Board) RenderSummary(c session.Container, s session.SummaryView) {
	b.setPanel(&Panel{
		Container: c,
		Kind:      PanelSummary,
		Title:     s.Header,
		Subtitle:  s.Subtitle,
		Summary:   &s,
		ScoreLine: fmt.Sprintf("%d/%d (%d%%)", s.Correct, s.Total, s.Percent),
	})
}

// Quiz returns the panel rendered into the container.
func (b *Board) Quiz(containerID string) (Panel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.panels[containerID]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

func (b *Board) setPanel(p *Panel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.panels[p.Container.ID] = p
}
