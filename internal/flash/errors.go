package flash

import "errors"

var (
	// ErrNotificationNotFound is returned for pointer events addressed to a
	// notification the manager does not know about, including removed ones.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidCategory is returned by ParseCategory for unknown names.
	ErrInvalidCategory = errors.New("invalid notification category")
)
