package flash

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingual/internal/clock"
	"github.com/phrazzld/lingual/internal/countdown"
	"github.com/phrazzld/lingual/internal/events"
)

// ResumePolicy decides what happens to the countdown when the pointer leaves
// a paused notification.
type ResumePolicy string

const (
	// ResumePlain continues from the frozen remaining duration.
	ResumePlain ResumePolicy = "resume"
	// ResumeReplenish adds Config.Replenish first, capped at Config.Duration.
	ResumeReplenish ResumePolicy = "replenish"
)

// Config holds the timings of the notification lifecycle.
type Config struct {
	Duration      time.Duration
	Stagger       time.Duration
	FadeDuration  time.Duration
	FrameInterval time.Duration
	Resume        ResumePolicy
	Replenish     time.Duration
}

// DefaultConfig returns the standard notification timings.
func DefaultConfig() Config {
	return Config{
		Duration:      10 * time.Second,
		Stagger:       500 * time.Millisecond,
		FadeDuration:  450 * time.Millisecond,
		FrameInterval: 16 * time.Millisecond,
		Resume:        ResumePlain,
		Replenish:     2 * time.Second,
	}
}

// Manager owns the lifecycle of every notification drawn on one Layer.
type Manager struct {
	layer   Layer
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
	emitter events.EventEmitter

	mu      sync.Mutex
	records map[uuid.UUID]*record
	closed  bool
}

// NewManager creates a Manager drawing on layer. A nil layer is allowed:
// every Show and InitBatch is then logged and ignored. emitter may be nil.
func NewManager(layer Layer, clk clock.Clock, cfg Config, logger *slog.Logger, emitter events.EventEmitter) *Manager {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for flash Manager")
	}
	if cfg.Resume != ResumeReplenish {
		cfg.Resume = ResumePlain
	}

	return &Manager{
		layer:   layer,
		clock:   clk,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "flash_manager")),
		emitter: emitter,
		records: make(map[uuid.UUID]*record),
	}
}

// Handle refers to one notification created by a Manager. The zero Handle
// refers to nothing and all of its methods are no-ops.
type Handle struct {
	ID uuid.UUID
	m  *Manager
}

// Valid reports whether the handle refers to a notification.
func (h Handle) Valid() bool {
	return h.m != nil && h.ID != uuid.Nil
}

// PointerEnter forwards a pointer-enter event to the notification.
func (h Handle) PointerEnter() {
	if h.Valid() {
		_ = h.m.PointerEnter(h.ID)
	}
}

// PointerLeave forwards a pointer-leave event to the notification.
func (h Handle) PointerLeave() {
	if h.Valid() {
		_ = h.m.PointerLeave(h.ID)
	}
}

// Click forwards a click to the notification.
func (h Handle) Click() {
	if h.Valid() {
		_ = h.m.Click(h.ID)
	}
}

// Status returns the notification's current status. A notification that has
// been removed reports StateRemoved.
func (h Handle) Status() Status {
	if !h.Valid() {
		return Status{State: StateRemoved}
	}
	st, ok := h.m.Status(h.ID)
	if !ok {
		return Status{Element: Element{ID: h.ID}, State: StateRemoved}
	}
	return st
}

// Show appends a new notification to the layer and starts its countdown
// immediately. An invalid category falls back to info.
func (m *Manager) Show(message string, category Category) Handle {
	if m.layer == nil {
		m.logger.Error("flash layer not found, dropping notification",
			slog.String("category", string(category)))
		return Handle{}
	}
	if !category.Valid() {
		m.logger.Debug("unknown notification category, using info",
			slog.String("category", string(category)))
		category = CategoryInfo
	}

	el := Element{ID: uuid.New(), Message: message, Category: category}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Handle{}
	}
	m.layer.Append(el)
	m.trackLocked(el, 0)
	m.mu.Unlock()

	m.emit(events.TypeFlashShown, el.ID, map[string]string{"category": string(el.Category)})
	return Handle{ID: el.ID, m: m}
}

// InitBatch starts the lifecycle of elements already present on the layer,
// activating the element at index i after i times the stagger interval.
func (m *Manager) InitBatch(elements []Element) []Handle {
	if m.layer == nil {
		m.logger.Error("flash layer not found, ignoring pre-rendered notifications",
			slog.Int("count", len(elements)))
		return nil
	}

	handles := make([]Handle, 0, len(elements))

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	for i, el := range elements {
		if el.ID == uuid.Nil {
			m.logger.Warn("pre-rendered notification without an id, skipping", slog.Int("index", i))
			continue
		}
		if _, exists := m.records[el.ID]; exists {
			m.logger.Warn("notification already initialised, skipping", slog.String("id", el.ID.String()))
			continue
		}
		if !el.Category.Valid() {
			el.Category = CategoryInfo
		}
		m.trackLocked(el, time.Duration(i)*m.cfg.Stagger)
		handles = append(handles, Handle{ID: el.ID, m: m})
	}
	m.mu.Unlock()

	for _, h := range handles {
		m.emit(events.TypeFlashShown, h.ID, nil)
	}
	return handles
}

// PointerEnter pauses a counting notification and emphasizes it.
func (m *Manager) PointerEnter(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return ErrNotificationNotFound
	}
	// A countdown that already expired is about to fade; leave it alone.
	if rec.state != StateCounting || !rec.countdown.Pause() {
		return nil
	}
	rec.state = StatePaused
	m.layer.Restyle(id, AppearanceEmphasized)
	return nil
}

// PointerLeave resumes a paused notification according to the resume policy.
func (m *Manager) PointerLeave(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return ErrNotificationNotFound
	}
	if rec.state != StatePaused {
		return nil
	}
	if m.cfg.Resume == ResumeReplenish {
		rec.countdown.Extend(m.cfg.Replenish, m.cfg.Duration)
	}
	rec.countdown.Resume()
	rec.state = StateCounting
	m.layer.Restyle(id, AppearanceActive)
	return nil
}

// Click dismisses a counting or paused notification immediately.
func (m *Manager) Click(id uuid.UUID) error {
	m.mu.Lock()
	rec, ok := m.records[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotificationNotFound
	}
	if rec.state != StateCounting && rec.state != StatePaused {
		m.mu.Unlock()
		return nil
	}
	remaining := rec.countdown.Remaining()
	m.fadeOutLocked(rec)
	m.mu.Unlock()

	m.emit(events.TypeFlashDismissed, id, map[string]interface{}{
		"reason":       "click",
		"remaining_ms": remaining.Milliseconds(),
	})
	return nil
}

// Status returns the current status of a live notification.
func (m *Manager) Status(id uuid.UUID) (Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return Status{}, false
	}
	return m.statusLocked(rec), true
}

// Active returns the status of every notification not yet removed.
func (m *Manager) Active() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Status, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, m.statusLocked(rec))
	}
	return out
}

// Close cancels every pending timer. Notifications stay on the layer as they
// are; no further transitions happen.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for _, rec := range m.records {
		if rec.timer != nil {
			rec.timer.Stop()
		}
		rec.countdown.Cancel()
	}
}

func (m *Manager) trackLocked(el Element, delay time.Duration) {
	rec := &record{el: el, state: StatePending}
	rec.countdown = countdown.New(m.clock, m.cfg.FrameInterval, func() { m.expire(el.ID) })
	m.records[el.ID] = rec

	if delay <= 0 {
		m.activateLocked(rec)
		return
	}
	rec.timer = m.clock.AfterFunc(delay, func() { m.activate(el.ID) })
}

func (m *Manager) activate(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || m.closed {
		return
	}
	m.activateLocked(rec)
}

func (m *Manager) activateLocked(rec *record) {
	if rec.state != StatePending {
		return
	}
	rec.timer = nil
	rec.state = StateCounting
	m.layer.Restyle(rec.el.ID, AppearanceActive)
	rec.countdown.Start(m.cfg.Duration)
}

// expire is the countdown's expiry callback.
func (m *Manager) expire(id uuid.UUID) {
	m.mu.Lock()
	rec, ok := m.records[id]
	if !ok || rec.state != StateCounting {
		m.mu.Unlock()
		return
	}
	m.fadeOutLocked(rec)
	m.mu.Unlock()

	m.emit(events.TypeFlashDismissed, id, map[string]string{"reason": "expired"})
}

// fadeOutLocked starts the fade transition. Callers check the state first,
// so it runs once per notification.
func (m *Manager) fadeOutLocked(rec *record) {
	rec.state = StateFadingOut
	rec.countdown.Cancel()
	m.layer.Restyle(rec.el.ID, AppearanceFading)

	id := rec.el.ID
	rec.timer = m.clock.AfterFunc(m.cfg.FadeDuration, func() { m.remove(id) })
}

func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	rec, ok := m.records[id]
	if !ok || rec.state != StateFadingOut {
		m.mu.Unlock()
		return
	}
	rec.state = StateRemoved
	rec.timer = nil
	delete(m.records, id)
	m.layer.Detach(id)
	m.mu.Unlock()

	m.emit(events.TypeFlashRemoved, id, nil)
}

func (m *Manager) statusLocked(rec *record) Status {
	remaining := m.cfg.Duration
	if rec.state != StatePending {
		remaining = rec.countdown.Remaining()
	}
	return Status{Element: rec.el, State: rec.state, Remaining: remaining}
}

func (m *Manager) emit(eventType string, id uuid.UUID, payload interface{}) {
	events.Emit(context.Background(), m.emitter, m.logger, eventType, id.String(), payload)
}
