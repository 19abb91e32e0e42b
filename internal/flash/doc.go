// Package flash manages transient, dismissible notifications.
//
// Each notification moves through Pending, Counting, Paused, FadingOut and
// Removed. While counting, a countdown ticks down from the configured
// duration; hovering pauses it, leaving resumes it, and clicking dismisses
// immediately. Fade-out is entered at most once per notification and ends
// with the element being detached from the shared Layer.
package flash
