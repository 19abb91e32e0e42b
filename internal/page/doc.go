// Package page holds the in-memory page document that the flash manager and
// the quiz engine draw on.
//
// Board stands in for the browser DOM: an ordered flash layer shared by every
// notification, and one rendered panel per quiz container. The HTTP bridge
// reads Board snapshots to answer collaborators.
package page
