package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingual/internal/api/shared"
	"github.com/phrazzld/lingual/internal/flash"
	"github.com/phrazzld/lingual/internal/page"
	"github.com/phrazzld/lingual/internal/platform/logger"
)

// Pointer events accepted by POST /api/flash/{id}/{event}.
const (
	EventPointerEnter = "pointer-enter"
	EventPointerLeave = "pointer-leave"
	EventClick        = "click"
)

// ShowFlashRequest is the body of POST /api/flash.
type ShowFlashRequest struct {
	Message  string `json:"message" validate:"required"`
	Category string `json:"category"`
}

// BatchFlashRequest is the body of POST /api/flash/batch.
type BatchFlashRequest struct {
	Messages []page.Prerendered `json:"messages" validate:"required,min=1,dive"`
}

// FlashResponse describes one live notification.
type FlashResponse struct {
	ID          string           `json:"id"`
	Message     string           `json:"message"`
	Category    string           `json:"category"`
	State       string           `json:"state"`
	RemainingMS int64            `json:"remaining_ms"`
	Appearance  flash.Appearance `json:"appearance"`
}

// FlashHandler exposes the flash manager over HTTP.
type FlashHandler struct {
	manager *flash.Manager
	board   *page.Board
	logger  *slog.Logger
}

// NewFlashHandler creates a FlashHandler.
func NewFlashHandler(manager *flash.Manager, board *page.Board, logger *slog.Logger) *FlashHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashHandler")
	}

	return &FlashHandler{
		manager: manager,
		board:   board,
		logger:  logger.With(slog.String("component", "flash_handler")),
	}
}

// Show handles POST /api/flash.
func (h *FlashHandler) Show(w http.ResponseWriter, r *http.Request) {
	var req ShowFlashRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	handle := h.manager.Show(req.Message, flash.Category(req.Category))
	if !handle.Valid() {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Notification layer unavailable")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, map[string]string{"id": handle.ID.String()})
}

// Batch handles POST /api/flash/batch. The messages are drawn hidden, as if
// rendered with the page, and then started with the stagger.
func (h *FlashHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchFlashRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	elements := h.board.AddPrerendered(req.Messages)
	handles := h.manager.InitBatch(elements)

	ids := make([]string, 0, len(handles))
	for _, handle := range handles {
		ids = append(ids, handle.ID.String())
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, map[string][]string{"ids": ids})
}

// Event handles POST /api/flash/{id}/{event}.
func (h *FlashHandler) Event(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: notification id: %v", ErrInvalidRequest, err), "Invalid notification id")
		return
	}

	event := chi.URLParam(r, "event")
	switch event {
	case EventPointerEnter:
		err = h.manager.PointerEnter(id)
	case EventPointerLeave:
		err = h.manager.PointerLeave(id)
	case EventClick:
		err = h.manager.Click(id)
	default:
		HandleAPIError(w, r, fmt.Errorf("%w: event %q", ErrInvalidRequest, event), "Unknown event")
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("notification event handled", slog.String("id", id.String()), slog.String("event", event))
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/flash. Notifications are listed in layer order.
func (h *FlashHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses := make(map[uuid.UUID]flash.Status)
	for _, st := range h.manager.Active() {
		statuses[st.ID] = st
	}

	out := make([]FlashResponse, 0, len(statuses))
	for _, view := range h.board.Flashes() {
		st, ok := statuses[view.ID]
		if !ok {
			continue
		}
		out = append(out, FlashResponse{
			ID:          view.ID.String(),
			Message:     view.Message,
			Category:    string(st.Category),
			State:       st.State.String(),
			RemainingMS: st.Remaining.Milliseconds(),
			Appearance:  view.Appearance,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string][]FlashResponse{"notifications": out})
}
