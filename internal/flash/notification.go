package flash

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingual/internal/clock"
	"github.com/phrazzld/lingual/internal/countdown"
)

// Category classifies a notification.
type Category string

const (
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
	CategoryWarning Category = "warning"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryInfo, CategorySuccess, CategoryError, CategoryWarning:
		return true
	}
	return false
}

// ParseCategory converts a category name. An empty name means info.
func ParseCategory(name string) (Category, error) {
	if name == "" {
		return CategoryInfo, nil
	}
	c := Category(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, name)
	}
	return c, nil
}

// State is the lifecycle state of a notification.
type State int

const (
	StatePending State = iota
	StateCounting
	StatePaused
	StateFadingOut
	StateRemoved
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCounting:
		return "counting"
	case StatePaused:
		return "paused"
	case StateFadingOut:
		return "fading_out"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Appearance is the visual treatment applied to a notification element.
type Appearance struct {
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
	Scale   float64 `json:"scale"`
}

var (
	AppearanceHidden     = Appearance{Visible: false, Opacity: 0, Scale: 1}
	AppearanceActive     = Appearance{Visible: true, Opacity: 0.95, Scale: 1}
	AppearanceEmphasized = Appearance{Visible: true, Opacity: 1, Scale: 1.05}
	AppearanceFading     = Appearance{Visible: true, Opacity: 0, Scale: 0.95}
)

// Element is a notification as it exists on the Layer.
type Element struct {
	ID       uuid.UUID `json:"id"`
	Message  string    `json:"message"`
	Category Category  `json:"category"`
}

// Layer is the shared visual surface notifications are drawn on.
// Each notification only ever touches its own element.
type Layer interface {
	Append(el Element)
	Restyle(id uuid.UUID, a Appearance)
	Detach(id uuid.UUID)
}

// Status is a point-in-time view of a live notification.
type Status struct {
	Element
	State     State         `json:"state"`
	Remaining time.Duration `json:"remaining"`
}

// record is the side-table entry holding a notification's state.
type record struct {
	el        Element
	state     State
	countdown *countdown.Countdown
	// timer is the pending activation or removal callback.
	timer clock.Timer
}
