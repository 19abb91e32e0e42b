// Package events provides types and interfaces for observing lifecycle
// transitions of notifications and quiz sessions.
//
// Components emit events without knowing which handlers will process them.
// The in-memory emitter dispatches synchronously on the emitting goroutine,
// so handlers must not call back into the emitting component.
package events
