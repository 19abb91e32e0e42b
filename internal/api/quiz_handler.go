package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lingual/internal/api/shared"
	"github.com/phrazzld/lingual/internal/page"
	"github.com/phrazzld/lingual/internal/platform/logger"
	"github.com/phrazzld/lingual/internal/quiz/session"
)

// LoadQuizRequest is the body of POST /api/quizzes/{container}/load.
type LoadQuizRequest struct {
	Lesson string `json:"lesson"`
	QuizID string `json:"quiz_id"`
}

// ChooseRequest is the body of POST /api/quizzes/{container}/choose.
type ChooseRequest struct {
	Option *int `json:"option" validate:"required"`
}

// PanelResponse is the rendered quiz container. Ignored is set when the
// request was a click the engine deliberately dropped.
type PanelResponse struct {
	page.Panel
	Ignored bool `json:"ignored,omitempty"`
}

// QuizHandler exposes the quiz engine over HTTP.
type QuizHandler struct {
	engine *session.Engine
	board  *page.Board
	logger *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(engine *session.Engine, board *page.Board, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		engine: engine,
		board:  board,
		logger: logger.With(slog.String("component", "quiz_handler")),
	}
}

// Load handles POST /api/quizzes/{container}/load. A failed load is not an
// HTTP error: the container shows the error presentation and that panel is
// returned. Only a container without lesson or quiz id is rejected.
func (h *QuizHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req LoadQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c := session.Container{ID: chi.URLParam(r, "container"), Lesson: req.Lesson, QuizID: req.QuizID}

	// The load outlives a disconnecting client so the container never stays
	// in the loading presentation.
	err := h.engine.Load(context.WithoutCancel(r.Context()), c)
	switch {
	case errors.Is(err, session.ErrInvalidContainer), errors.Is(err, session.ErrSuperseded):
		HandleAPIError(w, r, err, "")
		return
	case err != nil:
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("quiz load rendered error panel",
			slog.String("container", c.ID))
	}

	h.respondPanel(w, r, c.ID, false)
}

// Choose handles POST /api/quizzes/{container}/choose.
func (h *QuizHandler) Choose(w http.ResponseWriter, r *http.Request) {
	var req ChooseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	containerID := chi.URLParam(r, "container")
	_, err := h.engine.Choose(containerID, *req.Option)
	if err != nil && !session.IsIgnoredClick(err) {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondPanel(w, r, containerID, err != nil)
}

// Next handles POST /api/quizzes/{container}/next.
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	containerID := chi.URLParam(r, "container")
	if err := h.engine.Next(containerID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respondPanel(w, r, containerID, false)
}

// Retry handles POST /api/quizzes/{container}/retry.
func (h *QuizHandler) Retry(w http.ResponseWriter, r *http.Request) {
	containerID := chi.URLParam(r, "container")
	if err := h.engine.Retry(containerID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respondPanel(w, r, containerID, false)
}

// Get handles GET /api/quizzes/{container}.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondPanel(w, r, chi.URLParam(r, "container"), false)
}

func (h *QuizHandler) respondPanel(w http.ResponseWriter, r *http.Request, containerID string, ignored bool) {
	panel, ok := h.board.Quiz(containerID)
	if !ok {
		HandleAPIError(w, r, session.ErrUnknownContainer, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PanelResponse{Panel: panel, Ignored: ignored})
}
